package aggregate

import (
	"reflect"
	"testing"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

func TestTokenMetaCacheKeysByAddress(t *testing.T) {
	cache := NewTokenMetaCache()

	for _, tc := range []struct {
		id   string
		want bool
	}{
		{"0xABC", true},
		{"0xabc", false},
		{"0x0000000000000000000000000000000000000000000000000000000000000abc", false},
		{"0x1", true},
		{"0x01", false},
		{"", false},
		{"  ", false},
		{"not-an-address", true},
		{"NOT-AN-ADDRESS", false},
	} {
		if got := cache.Add(tc.id); got != tc.want {
			t.Fatalf("Add(%q) = %v, want %v", tc.id, got, tc.want)
		}
	}

	want := []string{"0xABC", "0x1", "not-an-address"}
	if got := cache.IDs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("IDs() = %v, want %v", got, want)
	}

	cache.Set("0xabc", &model.TokenMetadata{Address: "0xABC", Symbol: "USDC"})
	meta, ok := cache.Get("0x0abc")
	if !ok || meta.Symbol != "USDC" {
		t.Fatalf("Get by alternate spelling = %+v, %v", meta, ok)
	}
	if _, ok := cache.Get("0x1"); ok {
		t.Fatalf("unresolved id reported as found")
	}

	resolved := cache.Resolved()
	if len(resolved) != 1 || resolved[0].Symbol != "USDC" {
		t.Fatalf("Resolved() = %+v", resolved)
	}
}
