package vault

import (
	"errors"
	"testing"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		input    string
		decimals int32
		want     uint64
	}{
		{"1000000", 0, 1000000},
		{"1.5", 8, 150000000},
		{"0.000001", 6, 1},
		{" 42 ", 0, 42},
		{"18446744073709551615", 0, 18446744073709551615},
		{"0", 8, 0},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.input, tc.decimals)
		if err != nil {
			t.Fatalf("ParseAmount(%q, %d): %v", tc.input, tc.decimals, err)
		}
		if got != tc.want {
			t.Fatalf("ParseAmount(%q, %d) = %d, want %d", tc.input, tc.decimals, got, tc.want)
		}
	}
}

func TestParseAmountInvalid(t *testing.T) {
	cases := []struct {
		input    string
		decimals int32
	}{
		{"", 0},
		{"abc", 0},
		{"-1", 0},
		{"1.5", 0},
		{"0.0000001", 6},
		{"18446744073709551616", 0},
		{"1", -1},
	}
	for _, tc := range cases {
		if _, err := ParseAmount(tc.input, tc.decimals); !errors.Is(err, model.ErrInvalidArgument) {
			t.Fatalf("ParseAmount(%q, %d): expected invalid argument, got %v", tc.input, tc.decimals, err)
		}
	}
}

func TestParseU128(t *testing.T) {
	max := "340282366920938463463374607431768211455"
	got, err := ParseU128(max)
	if err != nil || got != max {
		t.Fatalf("ParseU128(max) = %q, %v", got, err)
	}
	for _, bad := range []string{"340282366920938463463374607431768211456", "-1", "1.5", "x"} {
		if _, err := ParseU128(bad); !errors.Is(err, model.ErrInvalidArgument) {
			t.Fatalf("ParseU128(%q): expected invalid argument, got %v", bad, err)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(150000000, 8); got != "1.5" {
		t.Fatalf("FormatAmount = %q, want 1.5", got)
	}
	if got := FormatAmount(7, 0); got != "7" {
		t.Fatalf("FormatAmount = %q, want 7", got)
	}
}
