// Package quote turns an external router quote into an effective output,
// price impact, and slippage-protected minimum output.
package quote

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"binscope/internal/model"
)

// Slippage tolerance bounds, in percent.
const (
	MinSlippagePct = 0.01
	MaxSlippagePct = 50.0
)

// ErrInvalidSlippage marks a slippage tolerance outside the accepted
// bounds. Out-of-range values are rejected, never clamped.
var ErrInvalidSlippage = errors.New("slippage out of range")

// ImpactSeverity classifies a price impact percentage.
type ImpactSeverity string

const (
	ImpactNegligible ImpactSeverity = "negligible"
	ImpactLow        ImpactSeverity = "low"
	ImpactMedium     ImpactSeverity = "medium"
	ImpactHigh       ImpactSeverity = "high"
)

// Advisory messages per severity band.
const (
	adviceLow    = "Low price impact."
	adviceMedium = "Moderate price impact. Consider splitting into smaller trades."
	adviceHigh   = "High price impact! Your trade will significantly move the market price."
)

// Analysis is the derived view of a quote.
type Analysis struct {
	AmountOut *big.Int
	// ImpactPercent is nil when the quote's virtual amount is zero or
	// missing, which makes the impact undefined.
	ImpactPercent *float64
	Severity      ImpactSeverity
	Advisory      string
}

// Analyze derives the effective output and price impact of a quote.
func Analyze(q *model.Quote) Analysis {
	out := q.AmountOut()
	virtual := q.VirtualAmountOut()

	analysis := Analysis{AmountOut: out, Severity: ImpactNegligible}
	if out == nil || virtual == nil || virtual.Sign() <= 0 {
		analysis.ImpactPercent = nil
		return analysis
	}

	diff := new(big.Float).Sub(new(big.Float).SetInt(virtual), new(big.Float).SetInt(out))
	ratio := new(big.Float).Quo(diff, new(big.Float).SetInt(virtual))
	impact, _ := new(big.Float).Mul(ratio, big.NewFloat(100)).Float64()

	analysis.ImpactPercent = &impact
	analysis.Severity, analysis.Advisory = classifyImpact(impact)
	return analysis
}

func classifyImpact(impactPct float64) (ImpactSeverity, string) {
	switch {
	case impactPct < 1:
		return ImpactNegligible, ""
	case impactPct < 3:
		return ImpactLow, adviceLow
	case impactPct < 5:
		return ImpactMedium, adviceMedium
	default:
		return ImpactHigh, adviceHigh
	}
}

// ValidateSlippage rejects a tolerance outside [MinSlippagePct, MaxSlippagePct].
func ValidateSlippage(slippagePct float64) error {
	if math.IsNaN(slippagePct) || slippagePct < MinSlippagePct || slippagePct > MaxSlippagePct {
		return fmt.Errorf("%w: %g%% not in [%g, %g]", ErrInvalidSlippage, slippagePct, MinSlippagePct, MaxSlippagePct)
	}
	return nil
}

// MinimumAmountOut applies the slippage tolerance to an expected output.
// The tolerance is converted to basis points by truncation and applied in
// integer arithmetic, so the result matches what an on-chain router check
// would compute: amountOut * (10000 - floor(slippagePct*100)) / 10000.
func MinimumAmountOut(amountOut *big.Int, slippagePct float64) (*big.Int, error) {
	if err := ValidateSlippage(slippagePct); err != nil {
		return nil, err
	}
	if amountOut == nil {
		return nil, fmt.Errorf("amount out is nil")
	}

	bps := int64(math.Floor(slippagePct * 100))
	min := new(big.Int).Mul(amountOut, big.NewInt(10000-bps))
	min.Div(min, big.NewInt(10000))
	return min, nil
}
