package model

import (
	"errors"
	"fmt"
)

// ErrInvalidRange marks a degenerate or inverted price range.
var ErrInvalidRange = errors.New("invalid price range")

// LiquidityRange is a target price interval for a prospective deposit.
type LiquidityRange struct {
	MinPrice float64
	MaxPrice float64
}

// Validate rejects non-positive bounds and inverted or degenerate ranges.
func (r LiquidityRange) Validate() error {
	if r.MinPrice <= 0 || r.MaxPrice <= 0 {
		return fmt.Errorf("%w: bounds must be positive (min=%g max=%g)", ErrInvalidRange, r.MinPrice, r.MaxPrice)
	}
	if r.MinPrice >= r.MaxPrice {
		return fmt.Errorf("%w: min %g must be below max %g", ErrInvalidRange, r.MinPrice, r.MaxPrice)
	}
	return nil
}

// Width returns the range width relative to the current price, the input to
// impermanent-loss banding. Zero when currentPrice is not positive.
func (r LiquidityRange) Width(currentPrice float64) float64 {
	if currentPrice <= 0 {
		return 0
	}
	return (r.MaxPrice - r.MinPrice) / currentPrice
}
