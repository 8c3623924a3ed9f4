package strategy

import "math"

// RangeRisk classifies how aggressively a range is positioned around the
// current price.
type RangeRisk string

const (
	RangeRiskHigh   RangeRisk = "high"
	RangeRiskMedium RangeRisk = "medium"
	RangeRiskLow    RangeRisk = "low"
)

// CapitalEfficiency estimates the concentration multiplier of a range,
// expressed against a full-range deposit. Narrower ranges score higher;
// the result is capped at 500x. Zero when the width is not positive.
func CapitalEfficiency(rangeWidthPct float64) int {
	if rangeWidthPct <= 0 {
		return 0
	}
	base := math.Min(100/rangeWidthPct, 50) * 10
	eff := int(math.Round(base))
	if eff > 500 {
		return 500
	}
	return eff
}

// ClassifyRangeWidth maps a range width (percent of current price) to a
// repositioning-risk band: tight ranges fall out of range quickly.
func ClassifyRangeWidth(rangeWidthPct float64) RangeRisk {
	switch {
	case rangeWidthPct < 5:
		return RangeRiskHigh
	case rangeWidthPct < 20:
		return RangeRiskMedium
	default:
		return RangeRiskLow
	}
}
