package binmath

import (
	"math"
	"testing"
)

func TestCenterBinPriceIsOne(t *testing.T) {
	for _, step := range BinSteps {
		price, err := BinIDToPrice(ActiveCenter, step)
		if err != nil {
			t.Fatalf("step %d: unexpected error: %v", step, err)
		}
		if price != 1.0 {
			t.Fatalf("step %d: center price = %v, want exactly 1.0", step, price)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, step := range BinSteps {
		for offset := int64(-1000); offset <= 1000; offset++ {
			binID := uint32(int64(ActiveCenter) + offset)
			price, err := BinIDToPrice(binID, step)
			if err != nil {
				t.Fatalf("step %d id %d: %v", step, binID, err)
			}
			got, err := PriceToBinID(price, step)
			if err != nil {
				t.Fatalf("step %d id %d: %v", step, binID, err)
			}
			if got != binID {
				t.Fatalf("step %d: round trip %d -> %v -> %d", step, binID, price, got)
			}
		}
	}
}

func TestMonotonicity(t *testing.T) {
	const step = 25
	prev := math.Inf(-1)
	for offset := int64(-500); offset <= 500; offset++ {
		binID := uint32(int64(ActiveCenter) + offset)
		price, err := BinIDToPrice(binID, step)
		if err != nil {
			t.Fatalf("id %d: %v", binID, err)
		}
		if price <= prev {
			t.Fatalf("price not strictly increasing at id %d: %v <= %v", binID, price, prev)
		}
		prev = price
	}
}

func TestPriceToBinIDNonPositiveFallsBackToCenter(t *testing.T) {
	for _, price := range []float64{0, -1, -0.0001} {
		got, err := PriceToBinID(price, 25)
		if err != nil {
			t.Fatalf("price %v: unexpected error: %v", price, err)
		}
		if got != ActiveCenter {
			t.Fatalf("price %v: got %d, want center %d", price, got, ActiveCenter)
		}
	}
}

func TestZeroBinStepRejected(t *testing.T) {
	if _, err := PriceToBinID(1.5, 0); err == nil {
		t.Fatal("PriceToBinID accepted zero bin step")
	}
	if _, err := BinIDToPrice(ActiveCenter, 0); err == nil {
		t.Fatal("BinIDToPrice accepted zero bin step")
	}
}

func TestPriceToBinIDKnownValues(t *testing.T) {
	cases := []struct {
		price   float64
		binStep uint16
		want    uint32
	}{
		{1.0, 25, ActiveCenter},
		{1.0025, 25, ActiveCenter + 1},
		{1.0001, 1, ActiveCenter + 1},
	}
	for _, tc := range cases {
		got, err := PriceToBinID(tc.price, tc.binStep)
		if err != nil {
			t.Fatalf("price %v step %d: %v", tc.price, tc.binStep, err)
		}
		if got != tc.want {
			t.Fatalf("price %v step %d: got %d, want %d", tc.price, tc.binStep, got, tc.want)
		}
	}
}

func TestNormalizePriceInvertsOnSwappedOrdering(t *testing.T) {
	lower := "0x1111111111111111111111111111111111111111"
	higher := "0x2222222222222222222222222222222222222222"

	if got := NormalizePrice(2000, lower, higher); got != 2000 {
		t.Fatalf("canonical ordering should keep price, got %v", got)
	}

	got := NormalizePrice(2000, higher, lower)
	if math.Abs(got-0.0005) > 1e-12 {
		t.Fatalf("swapped ordering should invert price, got %v, want 0.0005", got)
	}
}

func TestNormalizePriceCaseInsensitive(t *testing.T) {
	a := "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	b := "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	if got := NormalizePrice(4.0, a, b); got != 4.0 {
		t.Fatalf("mixed-case canonical ordering should keep price, got %v", got)
	}
}
