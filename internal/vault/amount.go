package vault

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

var (
	maxU64  = decimal.NewFromUint64(math.MaxUint64)
	maxU128 = decimal.NewFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)), 0)
)

// ParseAmount parses a non-negative token amount. When decimals is positive
// the input is read in whole token units and scaled to base units; the
// result must be integral and fit in a u64.
func ParseAmount(input string, decimals int32) (uint64, error) {
	if decimals < 0 {
		return 0, fmt.Errorf("%w: negative decimals %d", model.ErrInvalidArgument, decimals)
	}
	d, err := parseNonNegative(input)
	if err != nil {
		return 0, err
	}

	scaled := d.Shift(decimals)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("%w: amount %q has more than %d fractional digits", model.ErrInvalidArgument, input, decimals)
	}
	if scaled.GreaterThan(maxU64) {
		return 0, fmt.Errorf("%w: amount %q exceeds u64", model.ErrInvalidArgument, input)
	}
	return scaled.BigInt().Uint64(), nil
}

// ParseU128 validates an unsigned 128-bit integer and returns its canonical
// decimal form.
func ParseU128(input string) (string, error) {
	d, err := parseNonNegative(input)
	if err != nil {
		return "", err
	}
	if !d.IsInteger() || d.GreaterThan(maxU128) {
		return "", fmt.Errorf("%w: %q is not a u128", model.ErrInvalidArgument, input)
	}
	return d.BigInt().String(), nil
}

// FormatAmount renders base units as whole tokens.
func FormatAmount(base uint64, decimals int32) string {
	return decimal.NewFromUint64(base).Shift(-decimals).String()
}

func parseNonNegative(input string) (decimal.Decimal, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return decimal.Zero, fmt.Errorf("%w: empty amount", model.ErrInvalidArgument)
	}
	d, err := decimal.NewFromString(input)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q: %v", model.ErrInvalidArgument, input, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amount %q is negative", model.ErrInvalidArgument, input)
	}
	return d, nil
}
