package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"binscope/internal/chain"
	"binscope/internal/config"
	"binscope/internal/dex"
	"binscope/internal/quote"
)

func runQuote(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadQuote(cfgFile, cmd.Flags())
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
	if !common.IsHexAddress(cfg.Quoter) {
		return fmt.Errorf("invalid quoter address %q", cfg.Quoter)
	}
	if !common.IsHexAddress(cfg.TokenIn) || !common.IsHexAddress(cfg.TokenOut) {
		return fmt.Errorf("invalid token address")
	}
	if err := quote.ValidateSlippage(cfg.Slippage); err != nil {
		return err
	}

	amountIn, ok := new(big.Int).SetString(cfg.AmountIn, 10)
	if !ok || amountIn.Sign() <= 0 {
		return fmt.Errorf("invalid amount-in %q", cfg.AmountIn)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	quoter := dex.NewQuoter(chainClient, common.HexToAddress(cfg.Quoter))
	route := []common.Address{common.HexToAddress(cfg.TokenIn), common.HexToAddress(cfg.TokenOut)}

	logger.Info("quote start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("quoter", cfg.Quoter),
		zap.String("token_in", cfg.TokenIn),
		zap.String("token_out", cfg.TokenOut),
		zap.String("amount_in", amountIn.String()),
		zap.Float64("slippage_pct", cfg.Slippage),
	)

	q, err := quoter.BestPathFromAmountIn(ctx, route, amountIn)
	if err != nil {
		return fmt.Errorf("fetch quote: %w", err)
	}

	analysis := quote.Analyze(q)
	if analysis.AmountOut == nil {
		return fmt.Errorf("quoter returned no output amount")
	}

	minOut, err := quote.MinimumAmountOut(analysis.AmountOut, cfg.Slippage)
	if err != nil {
		return err
	}

	fmt.Printf("amount out:     %s\n", analysis.AmountOut.String())
	fmt.Printf("minimum out:    %s (%.2f%% slippage)\n", minOut.String(), cfg.Slippage)
	if analysis.ImpactPercent != nil {
		fmt.Printf("price impact:   %.4f%% (%s)\n", *analysis.ImpactPercent, analysis.Severity)
	} else {
		fmt.Printf("price impact:   n/a\n")
	}
	if analysis.Advisory != "" {
		fmt.Printf("advisory:       %s\n", analysis.Advisory)
	}
	for i, pair := range q.Pairs {
		fmt.Printf("hop %d:          %s (bin step %d)\n", i+1, pair, q.BinSteps[i])
	}

	return nil
}
