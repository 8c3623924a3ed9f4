// Package position aggregates a holder's per-bin share balances into token
// amount exposures.
package position

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"binscope/internal/binmath"
	"binscope/internal/model"
)

const (
	// DefaultRadius is the default scan half-width around the active bin.
	DefaultRadius = 50
	defaultWorkers = 10
)

// BinReader is the read-only view of a Liquidity Book pair the aggregator
// scans through. Implementations talk to the chain; the aggregator treats
// every read as point-in-time and re-queries on each scan rather than
// caching.
type BinReader interface {
	ActiveID(ctx context.Context, pair common.Address) (uint32, error)
	ShareBalance(ctx context.Context, pair, owner common.Address, binID uint32) (*big.Int, error)
	BinReserves(ctx context.Context, pair common.Address, binID uint32) (reserveX, reserveY *big.Int, err error)
	TotalSupply(ctx context.Context, pair common.Address, binID uint32) (*big.Int, error)
}

// Config controls scan behavior.
type Config struct {
	// Radius widens or narrows the scan window around the active bin.
	// Wider scans trade completeness for external call volume.
	Radius  uint32
	Workers int
}

// Aggregator scans a bin window and assembles the holder's positions.
type Aggregator struct {
	cfg    Config
	reader BinReader
	logger *zap.Logger
}

// NewAggregator builds an Aggregator. A nil logger is replaced by a no-op.
func NewAggregator(cfg Config, reader BinReader, logger *zap.Logger) *Aggregator {
	if cfg.Radius == 0 {
		cfg.Radius = DefaultRadius
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{cfg: cfg, reader: reader, logger: logger}
}

// Scan reads every bin in [activeID-radius, activeID+radius] and returns
// the owner's positions sorted ascending by bin id, restricted to bins with
// a positive share balance. Bin reads are issued concurrently; a failed
// read excludes that bin only. The final sort makes result ordering
// independent of read completion order.
func (a *Aggregator) Scan(ctx context.Context, pair, owner common.Address, binStep uint16) ([]model.BinPosition, uint32, error) {
	if a.reader == nil {
		return nil, 0, fmt.Errorf("bin reader is nil")
	}
	if binStep == 0 {
		return nil, 0, binmath.ErrInvalidBinStep
	}

	activeID, err := a.reader.ActiveID(ctx, pair)
	if err != nil {
		return nil, 0, fmt.Errorf("get active id: %w", err)
	}

	lo := int64(activeID) - int64(a.cfg.Radius)
	if lo < 0 {
		lo = 0
	}
	hi := int64(activeID) + int64(a.cfg.Radius)
	if hi >= int64(binmath.MaxBinID) {
		hi = int64(binmath.MaxBinID) - 1
	}

	pool, err := ants.NewPool(a.cfg.Workers)
	if err != nil {
		return nil, 0, fmt.Errorf("worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		positions []model.BinPosition
	)

	for id := lo; id <= hi; id++ {
		binID := uint32(id)
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			pos, ok := a.readBin(ctx, pair, owner, binID, binStep)
			if !ok {
				return
			}
			mu.Lock()
			positions = append(positions, pos)
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			return nil, 0, fmt.Errorf("submit bin read: %w", submitErr)
		}
	}
	wg.Wait()

	sort.Slice(positions, func(i, j int) bool {
		return positions[i].BinID < positions[j].BinID
	})
	return positions, activeID, nil
}

// readBin assembles one bin position. Any failed external read or a zero
// share balance excludes the bin without failing the scan.
func (a *Aggregator) readBin(ctx context.Context, pair, owner common.Address, binID uint32, binStep uint16) (model.BinPosition, bool) {
	share, err := a.reader.ShareBalance(ctx, pair, owner, binID)
	if err != nil {
		a.logger.Warn("share balance read failed", zap.Uint32("bin_id", binID), zap.Error(err))
		return model.BinPosition{}, false
	}
	if share == nil || share.Sign() <= 0 {
		return model.BinPosition{}, false
	}

	reserveX, reserveY, err := a.reader.BinReserves(ctx, pair, binID)
	if err != nil {
		a.logger.Warn("bin reserves read failed", zap.Uint32("bin_id", binID), zap.Error(err))
		return model.BinPosition{}, false
	}

	totalSupply, err := a.reader.TotalSupply(ctx, pair, binID)
	if err != nil {
		a.logger.Warn("total supply read failed", zap.Uint32("bin_id", binID), zap.Error(err))
		return model.BinPosition{}, false
	}

	amountX, amountY := ComputeAmounts(share, reserveX, reserveY, totalSupply)

	price, err := binmath.BinIDToPrice(binID, binStep)
	if err != nil {
		return model.BinPosition{}, false
	}

	return model.BinPosition{
		BinID:       binID,
		Share:       share,
		ReserveX:    reserveX,
		ReserveY:    reserveY,
		TotalSupply: totalSupply,
		AmountX:     amountX,
		AmountY:     amountY,
		Price:       price,
	}, true
}

// ComputeAmounts derives the holder's claim on bin reserves:
// amount = share * reserve / totalSupply with truncating division. A zero
// total supply defines both amounts as zero.
func ComputeAmounts(share, reserveX, reserveY, totalSupply *big.Int) (*big.Int, *big.Int) {
	amountX := big.NewInt(0)
	amountY := big.NewInt(0)
	if share == nil || totalSupply == nil || totalSupply.Sign() == 0 {
		return amountX, amountY
	}
	if reserveX != nil {
		amountX.Mul(share, reserveX)
		amountX.Div(amountX, totalSupply)
	}
	if reserveY != nil {
		amountY.Mul(share, reserveY)
		amountY.Div(amountY, totalSupply)
	}
	return amountX, amountY
}

// Totals sums per-bin amounts into the position's overall X and Y exposure.
func Totals(positions []model.BinPosition) (*big.Int, *big.Int) {
	totalX := big.NewInt(0)
	totalY := big.NewInt(0)
	for _, pos := range positions {
		if pos.AmountX != nil {
			totalX.Add(totalX, pos.AmountX)
		}
		if pos.AmountY != nil {
			totalY.Add(totalY, pos.AmountY)
		}
	}
	return totalX, totalY
}
