package quote

import (
	"math"
	"math/big"
	"testing"

	"binscope/internal/model"
)

func quoteWith(amountOut, virtualOut int64) *model.Quote {
	return &model.Quote{
		Amounts:        []*big.Int{big.NewInt(1000), big.NewInt(amountOut)},
		VirtualAmounts: []*big.Int{big.NewInt(1000), big.NewInt(virtualOut)},
	}
}

func TestAnalyzePriceImpact(t *testing.T) {
	analysis := Analyze(quoteWith(95, 100))
	if analysis.ImpactPercent == nil {
		t.Fatal("impact should be defined")
	}
	if math.Abs(*analysis.ImpactPercent-5.0) > 1e-9 {
		t.Fatalf("impact = %v, want 5.0", *analysis.ImpactPercent)
	}
	if analysis.Severity != ImpactHigh {
		t.Fatalf("severity = %s, want high", analysis.Severity)
	}
	if analysis.Advisory == "" {
		t.Fatal("high impact must carry an advisory")
	}
}

func TestAnalyzeSeverityBands(t *testing.T) {
	cases := []struct {
		amountOut int64
		want      ImpactSeverity
	}{
		{9950, ImpactNegligible}, // 0.5%
		{9900, ImpactLow},        // exactly 1%
		{9800, ImpactLow},        // 2%
		{9700, ImpactMedium},     // exactly 3%
		{9600, ImpactMedium},     // 4%
		{9500, ImpactHigh},       // exactly 5%
		{9000, ImpactHigh},       // 10%
	}
	for _, tc := range cases {
		analysis := Analyze(quoteWith(tc.amountOut, 10000))
		if analysis.Severity != tc.want {
			t.Fatalf("amountOut %d: severity = %s, want %s", tc.amountOut, analysis.Severity, tc.want)
		}
	}
}

func TestAnalyzeZeroVirtualAmount(t *testing.T) {
	analysis := Analyze(quoteWith(95, 0))
	if analysis.ImpactPercent != nil {
		t.Fatalf("impact should be undefined, got %v", *analysis.ImpactPercent)
	}

	empty := Analyze(&model.Quote{})
	if empty.ImpactPercent != nil || empty.AmountOut != nil {
		t.Fatalf("empty quote should yield nothing: %+v", empty)
	}
}

func TestMinimumAmountOut(t *testing.T) {
	got, err := MinimumAmountOut(big.NewInt(1000), 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Cmp(big.NewInt(995)) != 0 {
		t.Fatalf("minimum out = %v, want 995", got)
	}
}

func TestMinimumAmountOutTruncates(t *testing.T) {
	// 999 * (10000-50) / 10000 = 9940.05 scaled: 999*9950 = 9940050 / 10000 = 994
	got, err := MinimumAmountOut(big.NewInt(999), 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Cmp(big.NewInt(994)) != 0 {
		t.Fatalf("minimum out = %v, want 994", got)
	}
}

func TestSlippageBounds(t *testing.T) {
	for _, pct := range []float64{0.01, 0.5, 50} {
		if err := ValidateSlippage(pct); err != nil {
			t.Fatalf("slippage %v should be valid: %v", pct, err)
		}
	}
	for _, pct := range []float64{0, 0.009, -1, 50.01, math.NaN()} {
		if err := ValidateSlippage(pct); err == nil {
			t.Fatalf("slippage %v should be rejected", pct)
		}
		if _, err := MinimumAmountOut(big.NewInt(1000), pct); err == nil {
			t.Fatalf("MinimumAmountOut should reject slippage %v", pct)
		}
	}
}
