package strategy

import (
	"math"
	"math/big"
	"testing"
	"time"

	"binscope/internal/model"
)

func TestUniformWeights(t *testing.T) {
	rng := model.LiquidityRange{MinPrice: 1.0, MaxPrice: 2.0}
	bins := PlanRange(rng, 1.5, 10, Uniform)
	if len(bins) != 10 {
		t.Fatalf("got %d bins, want 10", len(bins))
	}
	for _, bw := range bins {
		if got := bw.WeightX + bw.WeightY; got != 0.1 {
			t.Fatalf("bin %d: weight %v, want exactly 0.1", bw.Index, got)
		}
	}
}

func TestCurveConcentratesAtCenter(t *testing.T) {
	rng := model.LiquidityRange{MinPrice: 1.0, MaxPrice: 2.0}
	bins := PlanRange(rng, 1.5, 50, Curve)

	center := bins[25].WeightX + bins[25].WeightY
	edge := bins[0].WeightX + bins[0].WeightY
	if center <= edge {
		t.Fatalf("curve center weight %v should exceed edge weight %v", center, edge)
	}
}

func TestBidAskConcentratesAtEdges(t *testing.T) {
	rng := model.LiquidityRange{MinPrice: 1.0, MaxPrice: 2.0}
	bins := PlanRange(rng, 1.5, 50, BidAsk)

	center := bins[25].WeightX + bins[25].WeightY
	edge := bins[0].WeightX + bins[0].WeightY
	if edge <= center {
		t.Fatalf("bidask edge weight %v should exceed center weight %v", edge, center)
	}
}

func TestSideRule(t *testing.T) {
	rng := model.LiquidityRange{MinPrice: 1.0, MaxPrice: 2.0}
	current := 1.5
	bins := PlanRange(rng, current, 20, Uniform)
	for _, bw := range bins {
		if bw.MidPrice > current {
			if bw.WeightX == 0 || bw.WeightY != 0 {
				t.Fatalf("bin above price must carry X exposure only: %+v", bw)
			}
		} else {
			if bw.WeightY == 0 || bw.WeightX != 0 {
				t.Fatalf("bin at or below price must carry Y exposure only: %+v", bw)
			}
		}
	}
}

func TestInvertedRangeYieldsEmptyPlan(t *testing.T) {
	rng := model.LiquidityRange{MinPrice: 2.0, MaxPrice: 1.0}
	if bins := PlanRange(rng, 1.5, 50, Curve); len(bins) != 0 {
		t.Fatalf("inverted range should yield no bins, got %d", len(bins))
	}
	if bins := PlanRange(model.LiquidityRange{MinPrice: 1.0, MaxPrice: 1.0}, 1.0, 50, Uniform); len(bins) != 0 {
		t.Fatalf("degenerate range should yield no bins, got %d", len(bins))
	}
}

func TestScaleForDisplay(t *testing.T) {
	rng := model.LiquidityRange{MinPrice: 1.0, MaxPrice: 2.0}
	bins := PlanRange(rng, 1.5, 50, Curve)
	ScaleForDisplay(bins)

	maxCombined := 0.0
	for _, bw := range bins {
		if c := bw.WeightX + bw.WeightY; c > maxCombined {
			maxCombined = c
		}
	}
	if math.Abs(maxCombined-MaxBarScale) > 1e-9 {
		t.Fatalf("largest scaled weight %v, want %v", maxCombined, MaxBarScale)
	}
}

func TestParseStrategy(t *testing.T) {
	cases := map[string]Strategy{"uniform": Uniform, "spot": Uniform, "curve": Curve, "bidask": BidAsk}
	for name, want := range cases {
		got, err := Parse(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got != want {
			t.Fatalf("%s: got %v, want %v", name, got, want)
		}
	}
	if _, err := Parse("martingale"); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestCapitalEfficiency(t *testing.T) {
	if got := CapitalEfficiency(0); got != 0 {
		t.Fatalf("zero width should give 0, got %d", got)
	}
	if got := CapitalEfficiency(1); got != 500 {
		t.Fatalf("1%% width should cap at 500, got %d", got)
	}
	if got := CapitalEfficiency(100); got != 10 {
		t.Fatalf("100%% width should give 10, got %d", got)
	}
}

func TestClassifyRangeWidth(t *testing.T) {
	cases := []struct {
		width float64
		want  RangeRisk
	}{
		{2, RangeRiskHigh},
		{10, RangeRiskMedium},
		{40, RangeRiskLow},
	}
	for _, tc := range cases {
		if got := ClassifyRangeWidth(tc.width); got != tc.want {
			t.Fatalf("width %v: got %v, want %v", tc.width, got, tc.want)
		}
	}
}

func TestBuildWithdrawPlan(t *testing.T) {
	positions := []model.BinPosition{
		{BinID: 100, Share: big.NewInt(1000)},
		{BinID: 101, Share: big.NewInt(50)},
		{BinID: 102, Share: big.NewInt(0)},
		{BinID: 200, Share: big.NewInt(77)},
	}
	deadline := time.Now().Add(20 * time.Minute)

	plan, err := BuildWithdrawPlan(positions, 100, 150, 50, deadline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.BinIDs) != 2 {
		t.Fatalf("got %d bins, want 2", len(plan.BinIDs))
	}
	if plan.Shares[0].Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("bin 100 shares = %v, want 500", plan.Shares[0])
	}
	if plan.Shares[1].Cmp(big.NewInt(25)) != 0 {
		t.Fatalf("bin 101 shares = %v, want 25", plan.Shares[1])
	}

	if _, err := BuildWithdrawPlan(positions, 100, 150, 0, deadline); err == nil {
		t.Fatal("expected error for zero percentage")
	}
	if _, err := BuildWithdrawPlan(positions, 150, 100, 50, deadline); err == nil {
		t.Fatal("expected error for inverted bin range")
	}
}

func TestBuildDepositPlanMergesDuplicateBins(t *testing.T) {
	// Range narrower than one bin step: every midpoint resolves to the
	// same bin id and the weights must collapse into one entry.
	rng := model.LiquidityRange{MinPrice: 0.9999, MaxPrice: 1.0001}
	bins := PlanRange(rng, 1.0, 10, Uniform)
	plan, err := BuildDepositPlan(bins, 25, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.BinIDs) != 1 {
		t.Fatalf("got %d bin ids, want 1", len(plan.BinIDs))
	}
	total := plan.DistributionX[0] + plan.DistributionY[0]
	if math.Abs(total-1.0) > 1e-9 {
		t.Fatalf("merged weight %v, want 1.0", total)
	}
}
