package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"binscope/internal/chain"
	"binscope/internal/model"
)

// Quoter fetches best-path quotes from the LBQuoter contract.
type Quoter struct {
	client *chain.Client
	quoter common.Address
}

// NewQuoter builds a Quoter against a quoter contract address.
func NewQuoter(client *chain.Client, quoter common.Address) *Quoter {
	return &Quoter{client: client, quoter: quoter}
}

type quoteResult struct {
	Route                         []common.Address
	Pairs                         []common.Address
	BinSteps                      []*big.Int
	Amounts                       []*big.Int
	VirtualAmountsWithoutSlippage []*big.Int
	Fees                          []*big.Int
}

// BestPathFromAmountIn returns the quoter's best route for swapping
// amountIn of the first route token into the last.
func (q *Quoter) BestPathFromAmountIn(ctx context.Context, route []common.Address, amountIn *big.Int) (*model.Quote, error) {
	if len(route) < 2 {
		return nil, fmt.Errorf("route needs at least two tokens")
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, fmt.Errorf("amount in must be positive")
	}

	quoterABI, err := QuoterABI()
	if err != nil {
		return nil, fmt.Errorf("parse quoter abi: %w", err)
	}

	data, err := quoterABI.Pack("findBestPathFromAmountIn", route, amountIn)
	if err != nil {
		return nil, fmt.Errorf("pack findBestPathFromAmountIn: %w", err)
	}

	msg := ethereum.CallMsg{To: &q.quoter, Data: data}
	resp, err := q.client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call findBestPathFromAmountIn: %w", err)
	}

	values, err := quoterABI.Unpack("findBestPathFromAmountIn", resp)
	if err != nil {
		return nil, fmt.Errorf("unpack findBestPathFromAmountIn: %w", err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("findBestPathFromAmountIn return size %d", len(values))
	}

	raw := *abi.ConvertType(values[0], new(quoteResult)).(*quoteResult)

	quote := &model.Quote{
		Amounts:        raw.Amounts,
		VirtualAmounts: raw.VirtualAmountsWithoutSlippage,
	}
	for _, addr := range raw.Route {
		quote.Route = append(quote.Route, addr.Hex())
	}
	for _, addr := range raw.Pairs {
		quote.Pairs = append(quote.Pairs, addr.Hex())
	}
	for _, step := range raw.BinSteps {
		quote.BinSteps = append(quote.BinSteps, uint16(step.Uint64()))
	}
	return quote, nil
}
