package dex

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"binscope/internal/chain"
)

// PairReader issues read calls against an LBPair contract. Individual reads
// are retried a bounded number of times; retry policy lives here at the
// collaborator boundary, not in the aggregation core.
type PairReader struct {
	client   *chain.Client
	attempts uint
	delay    time.Duration
}

// NewPairReader builds a PairReader over a chain client.
func NewPairReader(client *chain.Client) *PairReader {
	return &PairReader{
		client:   client,
		attempts: 3,
		delay:    100 * time.Millisecond,
	}
}

// ActiveID returns the pair's active bin id.
func (r *PairReader) ActiveID(ctx context.Context, pair common.Address) (uint32, error) {
	values, err := r.call(ctx, pair, "getActiveId")
	if err != nil {
		return 0, err
	}
	id, err := asBigInt(values[0])
	if err != nil {
		return 0, fmt.Errorf("active id: %w", err)
	}
	return uint32(id.Uint64()), nil
}

// ShareBalance returns the owner's share balance in one bin.
func (r *PairReader) ShareBalance(ctx context.Context, pair, owner common.Address, binID uint32) (*big.Int, error) {
	values, err := r.call(ctx, pair, "balanceOf", owner, new(big.Int).SetUint64(uint64(binID)))
	if err != nil {
		return nil, err
	}
	balance, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}
	return balance, nil
}

// BinReserves returns one bin's X and Y reserves.
func (r *PairReader) BinReserves(ctx context.Context, pair common.Address, binID uint32) (*big.Int, *big.Int, error) {
	values, err := r.call(ctx, pair, "getBin", new(big.Int).SetUint64(uint64(binID)))
	if err != nil {
		return nil, nil, err
	}
	if len(values) != 2 {
		return nil, nil, fmt.Errorf("getBin return size %d", len(values))
	}
	reserveX, err := asBigInt(values[0])
	if err != nil {
		return nil, nil, fmt.Errorf("reserve x: %w", err)
	}
	reserveY, err := asBigInt(values[1])
	if err != nil {
		return nil, nil, fmt.Errorf("reserve y: %w", err)
	}
	return reserveX, reserveY, nil
}

// TotalSupply returns one bin's total share supply.
func (r *PairReader) TotalSupply(ctx context.Context, pair common.Address, binID uint32) (*big.Int, error) {
	values, err := r.call(ctx, pair, "totalSupply", new(big.Int).SetUint64(uint64(binID)))
	if err != nil {
		return nil, err
	}
	supply, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("total supply: %w", err)
	}
	return supply, nil
}

func (r *PairReader) call(ctx context.Context, pair common.Address, method string, args ...interface{}) ([]interface{}, error) {
	pairABI, err := PairABI()
	if err != nil {
		return nil, fmt.Errorf("parse pair abi: %w", err)
	}

	data, err := pairABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	msg := ethereum.CallMsg{To: &pair, Data: data}
	resp, err := retry.DoWithData(func() ([]byte, error) {
		return r.client.CallContract(ctx, msg, nil)
	}, retry.Context(ctx), retry.Attempts(r.attempts), retry.Delay(r.delay))
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	values, err := pairABI.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s returned nothing", method)
	}
	return values, nil
}

func asBigInt(value interface{}) (*big.Int, error) {
	asInt, ok := value.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected type %T", value)
	}
	return asInt, nil
}
