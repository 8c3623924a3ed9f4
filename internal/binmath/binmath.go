// Package binmath converts between Liquidity Book bin ids and prices.
//
// Bins are indexed by a 24-bit id centered on ActiveCenter (2^23), which
// represents a price ratio of exactly 1.0. Adjacent bins differ by the
// geometric ratio 1 + binStep/10000, so price = ratio^(id - ActiveCenter).
package binmath

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ActiveCenter is the bin id whose price is exactly 1.0 (2^23).
const ActiveCenter uint32 = 8388608

// MaxBinID is the exclusive upper bound of the 24-bit bin id space.
const MaxBinID uint32 = 1 << 24

// BinSteps is the curated set of bin steps, in basis points. Each value is
// also the pool's fee tier (1 = 0.01%, 100 = 1%).
var BinSteps = []uint16{1, 2, 5, 10, 15, 20, 25, 50, 100}

// ErrInvalidBinStep marks a zero bin step, which would make the bin ratio 1
// and the price-to-id conversion degenerate.
var ErrInvalidBinStep = errors.New("bin step must be positive")

// PriceToBinID converts a price to the nearest bin id for the given bin
// step. Rounding is half-away-from-zero (math.Round); a price whose exact
// bin index lands on .5 therefore rounds to the higher-magnitude id.
//
// A non-positive price returns ActiveCenter without error. This mirrors the
// contract-facing fallback of the reference implementation; callers that
// treat a non-positive price as a bug should check before converting.
func PriceToBinID(price float64, binStep uint16) (uint32, error) {
	if binStep == 0 {
		return 0, ErrInvalidBinStep
	}
	if price <= 0 {
		return ActiveCenter, nil
	}

	ratio := 1 + float64(binStep)/10000
	id := math.Round(math.Log(price)/math.Log(ratio)) + float64(ActiveCenter)
	if id < 0 {
		return 0, fmt.Errorf("price %g out of bin range for step %d", price, binStep)
	}
	if id >= float64(MaxBinID) {
		return 0, fmt.Errorf("price %g out of bin range for step %d", price, binStep)
	}
	return uint32(id), nil
}

// BinIDToPrice returns the price at the given bin id:
// (1 + binStep/10000)^(binID - ActiveCenter). The center bin yields exactly
// 1.0 for every bin step.
func BinIDToPrice(binID uint32, binStep uint16) (float64, error) {
	if binStep == 0 {
		return 0, ErrInvalidBinStep
	}
	ratio := 1 + float64(binStep)/10000
	return math.Pow(ratio, float64(int64(binID)-int64(ActiveCenter))), nil
}

// NormalizePrice maps a user-facing price onto the canonical token ordering.
// Prices are always quoted as tokenY units per tokenX unit where tokenX is
// the pair member with the lower address. When the user-facing ordering
// disagrees with canonical ordering the price must be inverted before any
// bin id conversion; seeding a pool with the un-inverted price places it at
// the wrong bin.
func NormalizePrice(price float64, userTokenX, userTokenY string) float64 {
	if price == 0 {
		return 0
	}
	if strings.ToLower(userTokenX) > strings.ToLower(userTokenY) {
		return 1 / price
	}
	return price
}
