package model

// Pool represents a Liquidity Book pair metadata record for storage.
type Pool struct {
	ChainID     uint64 `json:"chain_id"`
	PairAddress string `json:"pair_address"`
	TokenX      string `json:"token_x"`
	TokenY      string `json:"token_y"`
	BinStep     uint16 `json:"bin_step"`
	ActiveID    uint32 `json:"active_id"`
}
