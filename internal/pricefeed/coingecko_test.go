package pricefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(baseURL string) *Client {
	c := NewClient(nil)
	c.baseURL = baseURL
	return c
}

func TestUSDPriceFromAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ethereum":{"usd":2800.5},"usd-coin":{"usd":1.0}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	quote, ok := c.USDPrice(context.Background(), "weth")
	if !ok {
		t.Fatal("expected quote for WETH")
	}
	if quote.USD != 2800.5 {
		t.Fatalf("USD = %v, want 2800.5", quote.USD)
	}
	if quote.Fallback {
		t.Fatal("live quote marked as fallback")
	}
}

func TestUSDPriceFallbackOnAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	quote, ok := c.USDPrice(context.Background(), "USDC")
	if !ok {
		t.Fatal("expected fallback quote for USDC")
	}
	if !quote.Fallback {
		t.Fatal("expected quote to be marked fallback")
	}
	if quote.USD != 1 {
		t.Fatalf("USD = %v, want 1", quote.USD)
	}
}

func TestUSDPriceUnknownSymbol(t *testing.T) {
	c := newTestClient("http://127.0.0.1:0")

	if _, ok := c.USDPrice(context.Background(), "NOPE"); ok {
		t.Fatal("expected no quote for unknown symbol")
	}
}

func TestUSDPriceCached(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"ethereum":{"usd":3000}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	c.USDPrice(context.Background(), "ETH")
	c.USDPrice(context.Background(), "ETH")
	if calls != 1 {
		t.Fatalf("API called %d times within cache window, want 1", calls)
	}
}

func TestPairPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ethereum":{"usd":3000},"usd-coin":{"usd":1.0}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	ratio, ok := c.PairPrice(context.Background(), "WETH", "USDC")
	if !ok {
		t.Fatal("expected pair price")
	}
	if ratio != 3000 {
		t.Fatalf("PairPrice = %v, want 3000", ratio)
	}
}
