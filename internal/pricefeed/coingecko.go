// Package pricefeed fetches USD token prices from the CoinGecko
// simple-price API. Results are cached for a fixed window and degrade to
// documented fallback constants when the API is unreachable, so callers
// always receive an explicit quote with its fetch time.
package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.coingecko.com/api/v3"
	// CacheWindow is how long a fetched price stays valid.
	CacheWindow = 60 * time.Second
)

// geckoIDs maps token symbols to CoinGecko asset ids.
var geckoIDs = map[string]string{
	"WETH": "ethereum",
	"ETH":  "ethereum",
	"USDC": "usd-coin",
	"EURC": "euro-coin",
	"USDT": "tether",
	"DAI":  "dai",
	"WBTC": "wrapped-bitcoin",
}

// fallbackUSD is the degraded-mode price table used when the API fails.
var fallbackUSD = map[string]float64{
	"WETH": 3500,
	"ETH":  3500,
	"USDC": 1,
	"EURC": 1.05,
	"USDT": 1,
	"DAI":  1,
}

// Quote is a USD price with the time it was fetched. Fallback marks a
// degraded-mode constant rather than a live price.
type Quote struct {
	USD       float64
	FetchedAt time.Time
	Fallback  bool
}

// Client fetches and caches USD prices.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger

	mu        sync.RWMutex
	cache     map[string]Quote
	fetchedAt time.Time
}

// NewClient creates a price client. A nil logger is replaced by a no-op.
func NewClient(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		cache:      make(map[string]Quote),
	}
}

// USDPrice returns the USD quote for a token symbol, refreshing the cache
// when it is older than CacheWindow. Unknown symbols return ok=false.
func (c *Client) USDPrice(ctx context.Context, symbol string) (Quote, bool) {
	symbol = strings.ToUpper(symbol)
	if _, known := geckoIDs[symbol]; !known {
		return Quote{}, false
	}

	c.mu.RLock()
	quote, ok := c.cache[symbol]
	fresh := time.Since(c.fetchedAt) < CacheWindow
	c.mu.RUnlock()
	if ok && fresh {
		return quote, true
	}

	if err := c.refresh(ctx); err != nil {
		c.logger.Warn("price fetch failed, using fallback prices", zap.Error(err))
		c.applyFallback()
	}

	c.mu.RLock()
	quote, ok = c.cache[symbol]
	c.mu.RUnlock()
	return quote, ok
}

// PairPrice returns how many units of symbolB one unit of symbolA is worth.
func (c *Client) PairPrice(ctx context.Context, symbolA, symbolB string) (float64, bool) {
	quoteA, okA := c.USDPrice(ctx, symbolA)
	quoteB, okB := c.USDPrice(ctx, symbolB)
	if !okA || !okB || quoteB.USD == 0 {
		return 0, false
	}
	return quoteA.USD / quoteB.USD, true
}

func (c *Client) refresh(ctx context.Context) error {
	ids := make([]string, 0, len(geckoIDs))
	seen := make(map[string]struct{}, len(geckoIDs))
	for _, id := range geckoIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", c.baseURL, url.QueryEscape(strings.Join(ids, ",")))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("price api status %d", resp.StatusCode)
	}

	var payload map[string]struct {
		USD float64 `json:"usd"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode prices: %w", err)
	}

	now := time.Now()
	c.mu.Lock()
	for symbol, id := range geckoIDs {
		if entry, ok := payload[id]; ok {
			c.cache[symbol] = Quote{USD: entry.USD, FetchedAt: now}
		}
	}
	c.fetchedAt = now
	c.mu.Unlock()
	return nil
}

func (c *Client) applyFallback() {
	now := time.Now()
	c.mu.Lock()
	for symbol, usd := range fallbackUSD {
		if _, ok := c.cache[symbol]; !ok {
			c.cache[symbol] = Quote{USD: usd, FetchedAt: now, Fallback: true}
		}
	}
	c.fetchedAt = now
	c.mu.Unlock()
}
