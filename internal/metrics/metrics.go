// Package metrics derives value, share, yield, and risk figures for a
// Liquidity Book position. Every function is a pure function of its inputs;
// USD prices arrive as explicit quotes so the package needs no clock or
// cache of its own.
package metrics

import (
	"binscope/internal/model"
	"binscope/internal/pricefeed"
)

// ILRisk is the impermanent-loss risk band of a price range.
type ILRisk string

const (
	ILRiskHigh    ILRisk = "high"
	ILRiskMedium  ILRisk = "medium"
	ILRiskLow     ILRisk = "low"
	ILRiskMinimal ILRisk = "minimal"
)

// ILBand pairs an indicative loss percentage with its risk label.
type ILBand struct {
	Percent int
	Risk    ILRisk
}

// Inputs carries everything Compute needs. Pool-level aggregates come from
// an external source and may be stale; a zero TotalLiquidityUSD simply
// yields a zero pool share.
type Inputs struct {
	AmountX           float64
	AmountY           float64
	PriceX            pricefeed.Quote
	PriceY            pricefeed.Quote
	TotalLiquidityUSD float64
	Volume24hUSD      float64
	BinStep           uint16
	Range             model.LiquidityRange
	CurrentPrice      float64
}

// Result is the derived position report.
type Result struct {
	ValueUSD     float64
	ValueXUSD    float64
	ValueYUSD    float64
	PoolShare    float64
	FeeRate      float64
	DailyFeeUSD  float64
	EstimatedAPR float64
	IL           ILBand
	Projection   FeeProjection
}

// FeeProjection extrapolates the daily fee figure. Monthly and yearly are
// simple multiples, not compounded.
type FeeProjection struct {
	DailyUSD   float64
	MonthlyUSD float64
	YearlyUSD  float64
}

// Compute derives the full position report.
func Compute(in Inputs) Result {
	valueX := in.AmountX * in.PriceX.USD
	valueY := in.AmountY * in.PriceY.USD
	value := valueX + valueY

	res := Result{
		ValueUSD:  value,
		ValueXUSD: valueX,
		ValueYUSD: valueY,
		FeeRate:   float64(in.BinStep) / 10000,
		IL:        ClassifyIL(in.Range.Width(in.CurrentPrice)),
	}

	if value <= 0 {
		return res
	}

	// Share is measured after the deposit joins the pool, so the position
	// itself is part of the denominator.
	res.PoolShare = value / (in.TotalLiquidityUSD + value)
	res.DailyFeeUSD = res.PoolShare * in.Volume24hUSD * res.FeeRate
	res.EstimatedAPR = res.DailyFeeUSD * 365 / value * 100
	res.Projection = ProjectFees(res.DailyFeeUSD)
	return res
}

// ClassifyIL maps a relative range width onto the coarse impermanent-loss
// bands. The thresholds are part of the contract; this is a heuristic
// banding, not a closed-form IL computation.
func ClassifyIL(rangeWidth float64) ILBand {
	switch {
	case rangeWidth < 0.10:
		return ILBand{Percent: 25, Risk: ILRiskHigh}
	case rangeWidth < 0.30:
		return ILBand{Percent: 10, Risk: ILRiskMedium}
	case rangeWidth < 0.50:
		return ILBand{Percent: 5, Risk: ILRiskLow}
	default:
		return ILBand{Percent: 2, Risk: ILRiskMinimal}
	}
}

// ProjectFees extrapolates a daily fee figure to monthly and yearly totals.
func ProjectFees(dailyUSD float64) FeeProjection {
	return FeeProjection{
		DailyUSD:   dailyUSD,
		MonthlyUSD: dailyUSD * 30,
		YearlyUSD:  dailyUSD * 365,
	}
}
