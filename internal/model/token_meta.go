package model

// TokenMetadata captures fungible-asset display metadata.
type TokenMetadata struct {
	Address     string `json:"address"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    int    `json:"decimals"`
	LogoURI     string `json:"logoURI,omitempty"`
	ProjectURL  string `json:"projectURL,omitempty"`
	Description string `json:"description,omitempty"`
}
