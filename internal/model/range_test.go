package model

import (
	"errors"
	"math/big"
	"testing"
)

func TestLiquidityRangeValidate(t *testing.T) {
	cases := []struct {
		name    string
		rng     LiquidityRange
		wantErr bool
	}{
		{"valid", LiquidityRange{MinPrice: 0.9, MaxPrice: 1.1}, false},
		{"inverted", LiquidityRange{MinPrice: 1.1, MaxPrice: 0.9}, true},
		{"degenerate", LiquidityRange{MinPrice: 1.0, MaxPrice: 1.0}, true},
		{"zero min", LiquidityRange{MinPrice: 0, MaxPrice: 1.0}, true},
		{"negative max", LiquidityRange{MinPrice: 0.5, MaxPrice: -1}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rng.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidRange) {
					t.Fatalf("err = %v, want ErrInvalidRange", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLiquidityRangeWidth(t *testing.T) {
	rng := LiquidityRange{MinPrice: 0.9, MaxPrice: 1.1}

	got := rng.Width(1.0)
	if diff := got - 0.2; diff > 1e-12 || diff < -1e-12 {
		t.Fatalf("Width = %v, want 0.2", got)
	}

	if rng.Width(0) != 0 {
		t.Fatal("expected zero width for non-positive current price")
	}
}

func TestQuoteAmountOut(t *testing.T) {
	q := &Quote{
		Amounts:        []*big.Int{big.NewInt(1000), big.NewInt(950)},
		VirtualAmounts: []*big.Int{big.NewInt(1000), big.NewInt(980)},
	}

	if got := q.AmountOut(); got.Cmp(big.NewInt(950)) != 0 {
		t.Fatalf("AmountOut = %v, want 950", got)
	}
	if got := q.VirtualAmountOut(); got.Cmp(big.NewInt(980)) != 0 {
		t.Fatalf("VirtualAmountOut = %v, want 980", got)
	}
}

func TestQuoteAmountOutEmpty(t *testing.T) {
	var q *Quote
	if q.AmountOut() != nil {
		t.Fatal("nil quote should yield nil amount out")
	}

	empty := &Quote{}
	if empty.AmountOut() != nil || empty.VirtualAmountOut() != nil {
		t.Fatal("empty quote should yield nil amounts")
	}
}
