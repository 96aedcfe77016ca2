package model

// TxRecord is a journal entry for a submitted vault transaction.
type TxRecord struct {
	Hash        string   `json:"hash"`
	Function    string   `json:"function"`
	TypeArgs    []string `json:"type_args,omitempty"`
	Args        []string `json:"args"`
	Sender      string   `json:"sender"`
	Stage       string   `json:"stage"`
	Success     bool     `json:"success"`
	VMStatus    string   `json:"vm_status,omitempty"`
	Version     uint64   `json:"version,omitempty"`
	Error       string   `json:"error,omitempty"`
	SubmittedAt string   `json:"submitted_at"`
}
