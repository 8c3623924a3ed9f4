package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"binscope/internal/chain"
	"binscope/internal/config"
	"binscope/internal/dex"
	"binscope/internal/position"
	"binscope/internal/strategy"
)

func runWithdraw(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadWithdraw(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if cfg.Owner == "" {
		return fmt.Errorf("owner address is required")
	}
	if cfg.BinStep == 0 {
		return fmt.Errorf("bin step is required")
	}
	if !common.IsHexAddress(cfg.Owner) {
		return fmt.Errorf("invalid owner address %q", cfg.Owner)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	pair, err := resolvePair(ctx, chainClient, cfg.ScanConfig)
	if err != nil {
		return err
	}

	owner := common.HexToAddress(cfg.Owner)
	agg := position.NewAggregator(position.Config{
		Radius:  cfg.Radius,
		Workers: cfg.Workers,
	}, dex.NewPairReader(chainClient), logger)

	positions, activeID, err := agg.Scan(ctx, pair, owner, cfg.BinStep)
	if err != nil {
		return fmt.Errorf("scan positions: %w", err)
	}
	if len(positions) == 0 {
		return fmt.Errorf("no positions to withdraw for %s", owner.Hex())
	}

	fromBin, toBin := cfg.FromBin, cfg.ToBin
	if fromBin == 0 && toBin == 0 {
		fromBin = positions[0].BinID
		toBin = positions[len(positions)-1].BinID
	}

	deadline := time.Now().Add(20 * time.Minute)
	plan, err := strategy.BuildWithdrawPlan(positions, fromBin, toBin, cfg.Percentage, deadline)
	if err != nil {
		return fmt.Errorf("build withdraw plan: %w", err)
	}

	logger.Info("withdraw plan built",
		zap.String("pair", pair.Hex()),
		zap.String("owner", owner.Hex()),
		zap.Uint32("active_id", activeID),
		zap.Uint32("from_bin", fromBin),
		zap.Uint32("to_bin", toBin),
		zap.Int("percentage", cfg.Percentage),
		zap.Int("bins", len(plan.BinIDs)),
	)

	fmt.Printf("withdraw %d%% from %d bins  deadline: %s\n", cfg.Percentage, len(plan.BinIDs), plan.Deadline.Format(time.RFC3339))
	for i, id := range plan.BinIDs {
		fmt.Printf("  bin %d  burn %s shares\n", id, plan.Shares[i].String())
	}

	return nil
}
