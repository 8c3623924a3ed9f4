package strategy

import (
	"fmt"
	"math/big"
	"time"

	"binscope/internal/binmath"
	"binscope/internal/model"
)

// DepositPlan is the bin-level layout of a prospective deposit, ready for
// an external router call. Distribution values are the strategy weights per
// bin; transaction construction and signing stay outside this package.
type DepositPlan struct {
	BinIDs        []uint32
	DistributionX []float64
	DistributionY []float64
	Deadline      time.Time
}

// WithdrawPlan selects shares to burn per bin for a partial or full
// removal.
type WithdrawPlan struct {
	BinIDs   []uint32
	Shares   []*big.Int
	Deadline time.Time
}

// BuildDepositPlan resolves each planned bin's midpoint price to a bin id
// and pairs it with the bin's X/Y weights. Bins whose midpoint collapses to
// an already-used id (possible when the price range is narrower than the
// bin step) are merged into the earlier entry.
func BuildDepositPlan(bins []BinWeight, binStep uint16, deadline time.Time) (*DepositPlan, error) {
	if len(bins) == 0 {
		return &DepositPlan{Deadline: deadline}, nil
	}

	plan := &DepositPlan{Deadline: deadline}
	lastIdx := -1
	for _, bw := range bins {
		id, err := binmath.PriceToBinID(bw.MidPrice, binStep)
		if err != nil {
			return nil, fmt.Errorf("bin %d: %w", bw.Index, err)
		}
		if lastIdx >= 0 && plan.BinIDs[lastIdx] == id {
			plan.DistributionX[lastIdx] += bw.WeightX
			plan.DistributionY[lastIdx] += bw.WeightY
			continue
		}
		plan.BinIDs = append(plan.BinIDs, id)
		plan.DistributionX = append(plan.DistributionX, bw.WeightX)
		plan.DistributionY = append(plan.DistributionY, bw.WeightY)
		lastIdx++
	}
	return plan, nil
}

// BuildWithdrawPlan selects the held positions inside [fromBin, toBin] and
// computes the share amount to burn per bin at the given percentage.
// Percentage outside (0, 100] is rejected.
func BuildWithdrawPlan(positions []model.BinPosition, fromBin, toBin uint32, percentage int, deadline time.Time) (*WithdrawPlan, error) {
	if percentage <= 0 || percentage > 100 {
		return nil, fmt.Errorf("percentage %d out of range (0, 100]", percentage)
	}
	if fromBin > toBin {
		return nil, fmt.Errorf("bin range inverted: %d > %d", fromBin, toBin)
	}

	plan := &WithdrawPlan{Deadline: deadline}
	pct := big.NewInt(int64(percentage))
	hundred := big.NewInt(100)
	for _, pos := range positions {
		if pos.BinID < fromBin || pos.BinID > toBin {
			continue
		}
		if pos.Share == nil || pos.Share.Sign() <= 0 {
			continue
		}
		share := new(big.Int).Mul(pos.Share, pct)
		share.Div(share, hundred)
		if share.Sign() == 0 {
			continue
		}
		plan.BinIDs = append(plan.BinIDs, pos.BinID)
		plan.Shares = append(plan.Shares, share)
	}
	return plan, nil
}
