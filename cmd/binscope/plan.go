package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"binscope/internal/binmath"
	"binscope/internal/config"
	"binscope/internal/metrics"
	"binscope/internal/model"
	"binscope/internal/strategy"
)

func runPlan(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadPlan(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	strat, err := strategy.Parse(cfg.Strategy)
	if err != nil {
		return err
	}

	minPrice, maxPrice, currentPrice := cfg.MinPrice, cfg.MaxPrice, cfg.CurrentPrice
	if cfg.TokenX != "" && cfg.TokenY != "" {
		// User-facing prices are quoted against the user's token order;
		// inversion flips the range bounds as well.
		a := binmath.NormalizePrice(cfg.MinPrice, cfg.TokenX, cfg.TokenY)
		b := binmath.NormalizePrice(cfg.MaxPrice, cfg.TokenX, cfg.TokenY)
		minPrice, maxPrice = math.Min(a, b), math.Max(a, b)
		currentPrice = binmath.NormalizePrice(cfg.CurrentPrice, cfg.TokenX, cfg.TokenY)
	}

	rng := model.LiquidityRange{MinPrice: minPrice, MaxPrice: maxPrice}
	if err := rng.Validate(); err != nil {
		return err
	}
	if cfg.CurrentPrice <= 0 {
		logger.Warn("non-positive current price, bin resolution uses the active center",
			zap.Float64("current_price", cfg.CurrentPrice))
	}
	if cfg.BinStep == 0 {
		return fmt.Errorf("bin step is required")
	}

	bins := strategy.PlanRange(rng, currentPrice, cfg.NumBins, strat)
	if len(bins) == 0 {
		return fmt.Errorf("empty plan for range [%g, %g]", rng.MinPrice, rng.MaxPrice)
	}

	deadline := time.Now().Add(20 * time.Minute)
	plan, err := strategy.BuildDepositPlan(bins, cfg.BinStep, deadline)
	if err != nil {
		return fmt.Errorf("build deposit plan: %w", err)
	}

	width := rng.Width(currentPrice)
	widthPct := width * 100
	il := metrics.ClassifyIL(width)

	logger.Info("plan built",
		zap.String("strategy", strat.String()),
		zap.Float64("min_price", rng.MinPrice),
		zap.Float64("max_price", rng.MaxPrice),
		zap.Int("num_bins", cfg.NumBins),
		zap.Uint16("bin_step", cfg.BinStep),
		zap.Int("plan_bins", len(plan.BinIDs)),
		zap.Float64("range_width_pct", widthPct),
		zap.String("range_risk", string(strategy.ClassifyRangeWidth(widthPct))),
		zap.Int("capital_efficiency", strategy.CapitalEfficiency(widthPct)),
		zap.String("il_risk", string(il.Risk)),
		zap.Int("il_pct", il.Percent),
	)

	display := make([]strategy.BinWeight, len(bins))
	copy(display, bins)
	strategy.ScaleForDisplay(display)

	for _, bw := range display {
		bar := strings.Repeat("#", int(bw.WeightX+bw.WeightY))
		side := "Y"
		if bw.WeightX > 0 {
			side = "X"
		}
		fmt.Printf("%8.4f - %8.4f  %s  %s\n", bw.PriceMin, bw.PriceMax, side, bar)
	}

	fmt.Printf("\nbins: %d  deadline: %s\n", len(plan.BinIDs), plan.Deadline.Format(time.RFC3339))
	for i, id := range plan.BinIDs {
		fmt.Printf("  bin %d  x=%.6f  y=%.6f\n", id, plan.DistributionX[i], plan.DistributionY[i])
	}

	return nil
}
