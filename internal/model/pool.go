package model

// PoolRecord is a pool as reported by the DEX indexer.
type PoolRecord struct {
	PoolID         string  `json:"poolId"`
	Token1         string  `json:"token1"`
	Token2         string  `json:"token2"`
	Token1Symbol   string  `json:"token1Symbol"`
	Token2Symbol   string  `json:"token2Symbol"`
	Token1Decimals int     `json:"token1Decimals"`
	Token2Decimals int     `json:"token2Decimals"`
	FeeTier        FeeTier `json:"feeTier"`
	Liquidity      string  `json:"liquidity"`
	SqrtPrice      string  `json:"sqrtPrice"`
	Tick           int64   `json:"tick"`
}

// PoolInfo is a PoolRecord enriched with spot prices in both directions.
type PoolInfo struct {
	PoolRecord
	Token1Price string `json:"token1Price"`
	Token2Price string `json:"token2Price"`
}
