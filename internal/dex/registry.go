package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"binscope/internal/chain"
)

// Registry resolves (tokenX, tokenY, binStep) to a pair address through the
// LBFactory contract.
type Registry struct {
	client  *chain.Client
	factory common.Address
}

// NewRegistry builds a Registry against a factory address.
func NewRegistry(client *chain.Client, factory common.Address) *Registry {
	return &Registry{client: client, factory: factory}
}

type pairInformation struct {
	BinStep           uint16
	LBPair            common.Address
	CreatedByOwner    bool
	IgnoredForRouting bool
}

// FindPair looks up the pair for a token pair and bin step. The second
// return value is false when no pair exists for that combination. Token
// order does not matter; the factory canonicalizes it.
func (r *Registry) FindPair(ctx context.Context, tokenA, tokenB common.Address, binStep uint16) (common.Address, bool, error) {
	factoryABI, err := FactoryABI()
	if err != nil {
		return common.Address{}, false, fmt.Errorf("parse factory abi: %w", err)
	}

	data, err := factoryABI.Pack("getLBPairInformation", tokenA, tokenB, new(big.Int).SetUint64(uint64(binStep)))
	if err != nil {
		return common.Address{}, false, fmt.Errorf("pack getLBPairInformation: %w", err)
	}

	msg := ethereum.CallMsg{To: &r.factory, Data: data}
	resp, err := r.client.CallContract(ctx, msg, nil)
	if err != nil {
		return common.Address{}, false, fmt.Errorf("call getLBPairInformation: %w", err)
	}

	values, err := factoryABI.Unpack("getLBPairInformation", resp)
	if err != nil {
		return common.Address{}, false, fmt.Errorf("unpack getLBPairInformation: %w", err)
	}
	if len(values) != 1 {
		return common.Address{}, false, fmt.Errorf("getLBPairInformation return size %d", len(values))
	}

	info := *abi.ConvertType(values[0], new(pairInformation)).(*pairInformation)
	if info.LBPair == (common.Address{}) {
		return common.Address{}, false, nil
	}
	return info.LBPair, true, nil
}
