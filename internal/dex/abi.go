package dex

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const lbPairABIJSON = `[
  {
    "inputs": [],
    "name": "getActiveId",
    "outputs": [{"internalType": "uint24", "name": "activeId", "type": "uint24"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "address", "name": "account", "type": "address"},
      {"internalType": "uint256", "name": "id", "type": "uint256"}
    ],
    "name": "balanceOf",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint24", "name": "id", "type": "uint24"}],
    "name": "getBin",
    "outputs": [
      {"internalType": "uint128", "name": "binReserveX", "type": "uint128"},
      {"internalType": "uint128", "name": "binReserveY", "type": "uint128"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "id", "type": "uint256"}],
    "name": "totalSupply",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

const lbFactoryABIJSON = `[
  {
    "inputs": [
      {"internalType": "address", "name": "tokenA", "type": "address"},
      {"internalType": "address", "name": "tokenB", "type": "address"},
      {"internalType": "uint256", "name": "binStep", "type": "uint256"}
    ],
    "name": "getLBPairInformation",
    "outputs": [
      {
        "components": [
          {"internalType": "uint16", "name": "binStep", "type": "uint16"},
          {"internalType": "address", "name": "LBPair", "type": "address"},
          {"internalType": "bool", "name": "createdByOwner", "type": "bool"},
          {"internalType": "bool", "name": "ignoredForRouting", "type": "bool"}
        ],
        "internalType": "struct ILBFactory.LBPairInformation",
        "name": "lbPairInformation",
        "type": "tuple"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

const lbQuoterABIJSON = `[
  {
    "inputs": [
      {"internalType": "address[]", "name": "route", "type": "address[]"},
      {"internalType": "uint128", "name": "amountIn", "type": "uint128"}
    ],
    "name": "findBestPathFromAmountIn",
    "outputs": [
      {
        "components": [
          {"internalType": "address[]", "name": "route", "type": "address[]"},
          {"internalType": "address[]", "name": "pairs", "type": "address[]"},
          {"internalType": "uint256[]", "name": "binSteps", "type": "uint256[]"},
          {"internalType": "uint128[]", "name": "amounts", "type": "uint128[]"},
          {"internalType": "uint128[]", "name": "virtualAmountsWithoutSlippage", "type": "uint128[]"},
          {"internalType": "uint128[]", "name": "fees", "type": "uint128[]"}
        ],
        "internalType": "struct LBQuoter.Quote",
        "name": "quote",
        "type": "tuple"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

var (
	lbPairABI     abi.ABI
	lbPairOnce    sync.Once
	lbPairABIErr  error
	lbFactoryABI  abi.ABI
	lbFactoryOnce sync.Once
	lbFactoryErr  error
	lbQuoterABI   abi.ABI
	lbQuoterOnce  sync.Once
	lbQuoterErr   error
)

// PairABI returns the parsed LBPair read ABI.
func PairABI() (abi.ABI, error) {
	lbPairOnce.Do(func() {
		lbPairABI, lbPairABIErr = abi.JSON(strings.NewReader(lbPairABIJSON))
	})
	return lbPairABI, lbPairABIErr
}

// FactoryABI returns the parsed LBFactory read ABI.
func FactoryABI() (abi.ABI, error) {
	lbFactoryOnce.Do(func() {
		lbFactoryABI, lbFactoryErr = abi.JSON(strings.NewReader(lbFactoryABIJSON))
	})
	return lbFactoryABI, lbFactoryErr
}

// QuoterABI returns the parsed LBQuoter read ABI.
func QuoterABI() (abi.ABI, error) {
	lbQuoterOnce.Do(func() {
		lbQuoterABI, lbQuoterErr = abi.JSON(strings.NewReader(lbQuoterABIJSON))
	})
	return lbQuoterABI, lbQuoterErr
}
