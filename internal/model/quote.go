package model

import "math/big"

// Quote is the multi-hop quote returned by the external router quoter.
// Amounts and VirtualAmounts are indexed by hop; only the final element of
// each carries the realized and idealized output of the full route. The
// structure is treated as immutable once returned.
type Quote struct {
	Route          []string
	Pairs          []string
	BinSteps       []uint16
	Amounts        []*big.Int
	VirtualAmounts []*big.Int
}

// AmountOut returns the realized output of the full route, nil when the
// quote carries no hops.
func (q *Quote) AmountOut() *big.Int {
	if q == nil || len(q.Amounts) == 0 {
		return nil
	}
	return q.Amounts[len(q.Amounts)-1]
}

// VirtualAmountOut returns the idealized no-slippage output of the full
// route, nil when the quote carries no hops.
func (q *Quote) VirtualAmountOut() *big.Int {
	if q == nil || len(q.VirtualAmounts) == 0 {
		return nil
	}
	return q.VirtualAmounts[len(q.VirtualAmounts)-1]
}
