package dex

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

// flexString accepts a JSON string or a bare JSON number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(data)
	return nil
}

type tokenInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
}

type rawPool struct {
	PoolID      string     `json:"poolId"`
	FeeTier     int        `json:"feeTier"`
	FeeRate     flexString `json:"feeRate"`
	CurrentTick int64      `json:"currentTick"`
	SqrtPrice   flexString `json:"sqrtPrice"`
	Liquidity   flexString `json:"liquidity"`
	Token1      string     `json:"token1"`
	Token2      string     `json:"token2"`
	Token1Info  *tokenInfo `json:"token1Info"`
	Token2Info  *tokenInfo `json:"token2Info"`
}

type poolStat struct {
	Pool *rawPool `json:"pool"`
}

type poolStatData struct {
	API struct {
		GetPoolStat []poolStat `json:"getPoolStat"`
	} `json:"api"`
}

func (p rawPool) record() model.PoolRecord {
	rec := model.PoolRecord{
		PoolID:    p.PoolID,
		Token1:    p.Token1,
		Token2:    p.Token2,
		FeeTier:   model.FeeTier(p.FeeTier),
		Liquidity: string(p.Liquidity),
		SqrtPrice: string(p.SqrtPrice),
		Tick:      p.CurrentTick,
	}
	if rec.Liquidity == "" {
		rec.Liquidity = "0"
	}
	if p.Token1Info != nil {
		rec.Token1Symbol = p.Token1Info.Symbol
		rec.Token1Decimals = p.Token1Info.Decimals
	}
	if p.Token2Info != nil {
		rec.Token2Symbol = p.Token2Info.Symbol
		rec.Token2Decimals = p.Token2Info.Decimals
	}
	return rec
}

func sameToken(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func matchesPair(rec model.PoolRecord, token1, token2 string, feeTier model.FeeTier) bool {
	if rec.FeeTier != feeTier {
		return false
	}
	return (sameToken(rec.Token1, token1) && sameToken(rec.Token2, token2)) ||
		(sameToken(rec.Token1, token2) && sameToken(rec.Token2, token1))
}
