package model

import (
	"fmt"
	"math"
)

// FeeTier is the DEX fee tier index.
type FeeTier uint8

const (
	FeeTier1bp   FeeTier = 0 // 0.01%, tick spacing 1
	FeeTier5bp   FeeTier = 1 // 0.05%, tick spacing 10
	FeeTier30bp  FeeTier = 2 // 0.3%, tick spacing 60
	FeeTier100bp FeeTier = 3 // 1%, tick spacing 200
)

var feeTierBps = [...]uint32{1, 5, 30, 100}

var feeTierSpacing = [...]uint32{1, 10, 60, 200}

// FeeTierFromIndex validates an index in [0,3] and returns its fee tier.
// Non-integral values are rejected.
func FeeTierFromIndex(index float64) (FeeTier, error) {
	if math.IsNaN(index) || index != math.Trunc(index) || index < 0 || index > 3 {
		return 0, fmt.Errorf("%w: fee tier index must be an integer in [0,3], got %v", ErrInvalidArgument, index)
	}
	return FeeTier(index), nil
}

// Valid reports whether the tier is one of the four known tiers.
func (f FeeTier) Valid() bool {
	return int(f) < len(feeTierBps)
}

// BasisPoints returns the trading fee in basis points.
func (f FeeTier) BasisPoints() uint32 {
	if !f.Valid() {
		return 0
	}
	return feeTierBps[f]
}

// TickSpacing returns the tick spacing of the tier.
func (f FeeTier) TickSpacing() uint32 {
	if !f.Valid() {
		return 0
	}
	return feeTierSpacing[f]
}

func (f FeeTier) String() string {
	if !f.Valid() {
		return fmt.Sprintf("FeeTier(%d)", uint8(f))
	}
	return fmt.Sprintf("%d (%s%%)", uint8(f), percentText(f.BasisPoints()))
}

func percentText(bps uint32) string {
	switch bps {
	case 1:
		return "0.01"
	case 5:
		return "0.05"
	case 30:
		return "0.3"
	default:
		return fmt.Sprintf("%d", bps/100)
	}
}
