package aggregate

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CalculatePrice converts a square-root price into the spot price of one leg
// expressed in the other. isToken1 selects token1 quoted in token2; otherwise
// token2 quoted in token1. Zero or unparsable inputs yield "0".
func CalculatePrice(sqrtPrice string, token1Decimals, token2Decimals int, isToken1 bool) string {
	sqrt, err := strconv.ParseFloat(strings.TrimSpace(sqrtPrice), 64)
	if err != nil || math.IsNaN(sqrt) || sqrt == 0 {
		return "0"
	}

	squared := math.Pow(sqrt, 2)
	var price float64
	if isToken1 {
		price = squared * math.Pow(10, float64(token2Decimals-token1Decimals))
	} else {
		price = (1 / squared) * math.Pow(10, float64(token1Decimals-token2Decimals))
	}
	return FormatPrice(price)
}

// FormatPrice renders a price with precision chosen by magnitude:
// below 1e-6 in exponential form, below 0.01 with 6 decimals, below 1000
// with 4 decimals, and with 2 decimals otherwise. Rounding works on the
// exact binary value and resolves ties toward the larger magnitude.
func FormatPrice(price float64) string {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return "0"
	}
	switch {
	case price < 0.000001:
		return formatExponent(price, 6)
	case price < 0.01:
		return exactDecimal(price).StringFixed(6)
	case price < 1000:
		return exactDecimal(price).StringFixed(4)
	case price < 1e21:
		return exactDecimal(price).StringFixed(2)
	default:
		return strconv.FormatFloat(price, 'g', -1, 64)
	}
}

// exactDigits covers the longest fractional expansion of a float64 (2^-1074).
const exactDigits = 1100

// exactDecimal returns the full decimal expansion of f without rounding.
func exactDecimal(f float64) decimal.Decimal {
	return decimal.RequireFromString(strconv.FormatFloat(f, 'f', exactDigits, 64))
}

// formatExponent prints places fractional mantissa digits with an unpadded
// exponent, e.g. 1.500000e-7.
func formatExponent(price float64, places int32) string {
	d := exactDecimal(price)
	if d.IsZero() {
		return decimal.Zero.StringFixed(places) + "e+0"
	}

	exp := magnitude(d)
	mantissa := d.Shift(int32(-exp)).Round(places)
	if mantissa.Abs().GreaterThanOrEqual(decimal.NewFromInt(10)) {
		exp++
		mantissa = mantissa.Shift(-1).Round(places)
	}

	sign := "+"
	if exp < 0 {
		sign = "-"
		exp = -exp
	}
	return mantissa.StringFixed(places) + "e" + sign + strconv.Itoa(exp)
}

// magnitude returns floor(log10(|d|)) for non-zero d.
func magnitude(d decimal.Decimal) int {
	digits := len(new(big.Int).Abs(d.Coefficient()).String())
	return digits - 1 + int(d.Exponent())
}
