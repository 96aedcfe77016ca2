package model

import (
	"errors"
	"testing"
)

func TestFeeTierFromIndex(t *testing.T) {
	want := map[float64]uint32{0: 1, 1: 5, 2: 30, 3: 100}
	for index, bps := range want {
		tier, err := FeeTierFromIndex(index)
		if err != nil {
			t.Fatalf("index %v: unexpected error: %v", index, err)
		}
		if float64(tier) != index {
			t.Fatalf("index %v: tier mismatch: %d", index, tier)
		}
		if tier.BasisPoints() != bps {
			t.Fatalf("index %v: bps mismatch: %d != %d", index, tier.BasisPoints(), bps)
		}
	}
}

func TestFeeTierFromIndexInvalid(t *testing.T) {
	for _, index := range []float64{-1, 4, 2.5} {
		if _, err := FeeTierFromIndex(index); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("index %v: expected ErrInvalidArgument, got %v", index, err)
		}
	}
}

func TestTransactionIntentString(t *testing.T) {
	intent := TransactionIntent{
		Function: FunctionID{Address: "0xabc", Module: "vault", Name: "user_deposit"},
		TypeArgs: []string{"0x1::aptos_coin::AptosCoin"},
		Args:     []Arg{U64Arg(1000)},
	}

	got := intent.String()
	want := "0xabc::vault::user_deposit<0x1::aptos_coin::AptosCoin>(u64:1000)"
	if got != want {
		t.Fatalf("intent string mismatch: %s != %s", got, want)
	}
}
