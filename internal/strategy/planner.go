// Package strategy computes bin weight distributions for prospective
// Liquidity Book deposits.
package strategy

import (
	"fmt"
	"math"

	"binscope/internal/model"
)

// Strategy selects the weighting function applied across a price range.
type Strategy int

const (
	// Uniform spreads liquidity evenly across every bin in range.
	Uniform Strategy = iota
	// Curve concentrates liquidity around the range midpoint.
	Curve
	// BidAsk concentrates liquidity at the range edges.
	BidAsk
)

// curveSigma is the width of the Curve gaussian over the normalized
// position in [-1, 1].
const curveSigma = 0.3

// MaxBarScale is the display ceiling the largest combined bin weight is
// scaled to. The absolute value is a presentation convenience; relative
// proportions between bins are what matter.
const MaxBarScale = 70.0

// String implements fmt.Stringer.
func (s Strategy) String() string {
	switch s {
	case Uniform:
		return "uniform"
	case Curve:
		return "curve"
	case BidAsk:
		return "bidask"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Parse maps a strategy name to its variant.
func Parse(name string) (Strategy, error) {
	switch name {
	case "uniform", "spot":
		return Uniform, nil
	case "curve":
		return Curve, nil
	case "bidask":
		return BidAsk, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q", name)
	}
}

// BinWeight is one bin's slice of a planned deposit. WeightX and WeightY
// carry the bin's scaled weight as token-X or token-Y exposure; exactly one
// is non-zero because a one-sided deposit above the current price is in X
// and below it is in Y.
type BinWeight struct {
	Index    int
	PriceMin float64
	PriceMax float64
	MidPrice float64
	WeightX  float64
	WeightY  float64
}

// PlanRange splits the range into numBins equal-width price intervals and
// assigns each a raw weight per the strategy. An inverted or degenerate
// range yields an empty plan rather than an error, so callers rendering
// previews need no special casing; use rng.Validate when a hard error is
// wanted.
func PlanRange(rng model.LiquidityRange, currentPrice float64, numBins int, strat Strategy) []BinWeight {
	if numBins <= 0 || rng.MinPrice >= rng.MaxPrice {
		return nil
	}

	binWidth := (rng.MaxPrice - rng.MinPrice) / float64(numBins)
	center := float64(numBins) / 2

	bins := make([]BinWeight, numBins)
	for i := 0; i < numBins; i++ {
		priceMin := rng.MinPrice + float64(i)*binWidth
		priceMax := priceMin + binWidth
		mid := (priceMin + priceMax) / 2

		weight := rawWeight(strat, (float64(i)-center)/center, numBins)

		bw := BinWeight{
			Index:    i,
			PriceMin: priceMin,
			PriceMax: priceMax,
			MidPrice: mid,
		}
		if mid > currentPrice {
			bw.WeightX = weight
		} else {
			bw.WeightY = weight
		}
		bins[i] = bw
	}

	return bins
}

// ScaleForDisplay rescales weights in place so the largest combined (X+Y)
// bin weight equals MaxBarScale. Relative proportions are preserved.
func ScaleForDisplay(bins []BinWeight) {
	maxCombined := 0.0
	for _, bw := range bins {
		if combined := bw.WeightX + bw.WeightY; combined > maxCombined {
			maxCombined = combined
		}
	}
	if maxCombined <= 0 {
		return
	}
	for i := range bins {
		bins[i].WeightX = bins[i].WeightX / maxCombined * MaxBarScale
		bins[i].WeightY = bins[i].WeightY / maxCombined * MaxBarScale
	}
}

func rawWeight(strat Strategy, normalizedPos float64, numBins int) float64 {
	switch strat {
	case Curve:
		return math.Exp(-(normalizedPos * normalizedPos) / (2 * curveSigma * curveSigma))
	case BidAsk:
		return normalizedPos*normalizedPos + 0.1
	default:
		return 1 / float64(numBins)
	}
}
