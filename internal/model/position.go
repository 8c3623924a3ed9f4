package model

import "math/big"

// BinPosition is one holder's stake in one bin, with amounts derived from
// the holder's proportional claim on the bin reserves. Amounts are computed
// on each scan, never stored authoritatively.
type BinPosition struct {
	BinID       uint32
	Share       *big.Int
	ReserveX    *big.Int
	ReserveY    *big.Int
	TotalSupply *big.Int
	AmountX     *big.Int
	AmountY     *big.Int
	Price       float64
}

// SnapshotRecord is the JSON representation of a scanned position for storage.
// Integer amounts are encoded as decimal strings so they survive JSON round
// trips without precision loss.
type SnapshotRecord struct {
	ChainID     uint64  `json:"chain_id"`
	PairAddress string  `json:"pair_address"`
	Owner       string  `json:"owner"`
	BinID       uint32  `json:"bin_id"`
	Share       string  `json:"share"`
	AmountX     string  `json:"amount_x"`
	AmountY     string  `json:"amount_y"`
	Price       float64 `json:"price"`
	ScannedAt   string  `json:"scanned_at"`
}
