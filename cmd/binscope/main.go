package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"binscope/internal/binmath"
	"binscope/internal/chain"
	"binscope/internal/config"
	"binscope/internal/dex"
	"binscope/internal/metrics"
	"binscope/internal/model"
	"binscope/internal/position"
	"binscope/internal/pricefeed"
	"binscope/internal/storage"
	"binscope/internal/storage/postgres"
)

func main() {
	root := &cobra.Command{
		Use:          "binscope",
		Short:        "Liquidity Book position scanner and planner",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a pair for the owner's bin positions",
		RunE:  runScan,
	}
	addScanFlags(scanCmd)
	root.AddCommand(scanCmd)

	withdrawCmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Plan a partial or full withdrawal from scanned positions",
		RunE:  runWithdraw,
	}
	addScanFlags(withdrawCmd)
	withdrawCmd.Flags().Uint32("from-bin", 0, "lowest bin id to withdraw from (0 means all)")
	withdrawCmd.Flags().Uint32("to-bin", 0, "highest bin id to withdraw from (0 means all)")
	withdrawCmd.Flags().Int("percentage", 100, "share percentage to withdraw per bin")
	root.AddCommand(withdrawCmd)

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a liquidity distribution over a price range",
		RunE:  runPlan,
	}

	planCmd.Flags().String("strategy", "uniform", "distribution strategy (uniform, curve, bidask)")
	planCmd.Flags().Float64("min-price", 0, "range lower bound")
	planCmd.Flags().Float64("max-price", 0, "range upper bound")
	planCmd.Flags().Float64("current-price", 0, "current pool price")
	planCmd.Flags().Int("num-bins", 50, "number of bins in the preview")
	planCmd.Flags().Uint32("bin-step", 25, "pair bin step in basis points")
	planCmd.Flags().String("token-x", "", "token X address (user-facing ordering; prices inverted when not canonical)")
	planCmd.Flags().String("token-y", "", "token Y address (user-facing ordering; prices inverted when not canonical)")
	planCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(planCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a swap and analyze its price impact",
		RunE:  runQuote,
	}

	quoteCmd.Flags().String("rpc", "", "RPC URL")
	quoteCmd.Flags().String("quoter", "", "LB quoter address")
	quoteCmd.Flags().String("token-in", "", "input token address")
	quoteCmd.Flags().String("token-out", "", "output token address")
	quoteCmd.Flags().String("amount-in", "", "input amount in base units")
	quoteCmd.Flags().Float64("slippage", 0.5, "slippage tolerance in percent")
	quoteCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(quoteCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc", "", "RPC URL")
	cmd.Flags().String("pair", "", "LB pair address")
	cmd.Flags().String("factory", "", "LB factory address (used when pair is not set)")
	cmd.Flags().String("token-x", "", "token X address (factory lookup)")
	cmd.Flags().String("token-y", "", "token Y address (factory lookup)")
	cmd.Flags().String("owner", "", "position owner address")
	cmd.Flags().Uint32("bin-step", 0, "pair bin step in basis points")
	cmd.Flags().Uint32("radius", position.DefaultRadius, "bins scanned each side of the active bin")
	cmd.Flags().Int("workers", 10, "concurrent bin reads")
	cmd.Flags().String("symbol-x", "", "token X symbol for live USD pricing")
	cmd.Flags().String("symbol-y", "", "token Y symbol for live USD pricing")
	cmd.Flags().Float64("usd-x", 0, "token X USD price override")
	cmd.Flags().Float64("usd-y", 0, "token Y USD price override")
	cmd.Flags().Int("decimals-x", 18, "token X decimals")
	cmd.Flags().Int("decimals-y", 18, "token Y decimals")
	cmd.Flags().Float64("tvl-usd", 0, "pool total liquidity in USD (for share and APR)")
	cmd.Flags().Float64("volume-24h-usd", 0, "pool 24h volume in USD (for fee estimates)")
	cmd.Flags().String("out", "./data/positions.jsonl", "output JSONL path")
	cmd.Flags().String("pg-dsn", "", "optional Postgres DSN for snapshot upserts")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func runScan(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadScan(cfgFile, cmd.Flags())
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

	pair, err := resolvePair(ctx, chainClient, cfg)
	if err != nil {
		return err
	}

	owner := common.HexToAddress(cfg.Owner)
	reader := dex.NewPairReader(chainClient)

	agg := position.NewAggregator(position.Config{
		Radius:  cfg.Radius,
		Workers: cfg.Workers,
	}, reader, logger)

	logger.Info("scan start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("pair", pair.Hex()),
		zap.String("owner", owner.Hex()),
		zap.Uint16("bin_step", cfg.BinStep),
		zap.Uint32("radius", cfg.Radius),
		zap.Int("workers", cfg.Workers),
		zap.String("out", cfg.Out),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
	)

	block, err := chainClient.LatestBlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("latest block: %w", err)
	}

	positions, activeID, err := agg.Scan(ctx, pair, owner, cfg.BinStep)
	if err != nil {
		return fmt.Errorf("scan positions: %w", err)
	}

	totalX, totalY := position.Totals(positions)
	logger.Info("scan done",
		zap.Uint64("block", block),
		zap.Uint32("active_id", activeID),
		zap.Int("positions", len(positions)),
		zap.String("total_x", totalX.String()),
		zap.String("total_y", totalY.String()),
	)

	logValueMetrics(ctx, logger, cfg, positions, activeID)

	chainID, err := chainClient.GetChainID(ctx)
	if err != nil {
		return fmt.Errorf("chain id: %w", err)
	}

	records := snapshotRecords(chainID.Uint64(), pair, owner, positions)

	if cfg.Out != "" {
		sink := storage.NewJsonlStorage(cfg.Out)
		if err := sink.PutSnapshotBatch(records); err != nil {
			return fmt.Errorf("write snapshots: %w", err)
		}
	}

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		pool := model.Pool{
			ChainID:     chainID.Uint64(),
			PairAddress: pair.Hex(),
			TokenX:      cfg.TokenX,
			TokenY:      cfg.TokenY,
			BinStep:     cfg.BinStep,
			ActiveID:    activeID,
		}
		if err := store.UpsertPools(ctx, []model.Pool{pool}); err != nil {
			return fmt.Errorf("upsert pool: %w", err)
		}
		if err := store.UpsertSnapshots(ctx, records); err != nil {
			return fmt.Errorf("upsert snapshots: %w", err)
		}
	}

	return nil
}

// resolvePair returns the pair address either directly from config or via a
// factory lookup on the token pair and bin step.
func resolvePair(ctx context.Context, client *chain.Client, cfg config.ScanConfig) (common.Address, error) {
	if cfg.Pair != "" {
		if !common.IsHexAddress(cfg.Pair) {
			return common.Address{}, fmt.Errorf("invalid pair address %q", cfg.Pair)
		}
		return common.HexToAddress(cfg.Pair), nil
	}

	if cfg.Factory == "" || cfg.TokenX == "" || cfg.TokenY == "" {
		return common.Address{}, fmt.Errorf("either pair or factory with token-x and token-y is required")
	}
	if !common.IsHexAddress(cfg.Factory) || !common.IsHexAddress(cfg.TokenX) || !common.IsHexAddress(cfg.TokenY) {
		return common.Address{}, fmt.Errorf("invalid factory or token address")
	}

	registry := dex.NewRegistry(client, common.HexToAddress(cfg.Factory))
	pair, found, err := registry.FindPair(ctx, common.HexToAddress(cfg.TokenX), common.HexToAddress(cfg.TokenY), cfg.BinStep)
	if err != nil {
		return common.Address{}, fmt.Errorf("factory lookup: %w", err)
	}
	if !found {
		return common.Address{}, fmt.Errorf("no pair for token pair at bin step %d", cfg.BinStep)
	}
	return pair, nil
}

func snapshotRecords(chainID uint64, pair, owner common.Address, positions []model.BinPosition) []model.SnapshotRecord {
	now := time.Now().UTC().Format(time.RFC3339)
	records := make([]model.SnapshotRecord, 0, len(positions))
	for _, p := range positions {
		records = append(records, model.SnapshotRecord{
			ChainID:     chainID,
			PairAddress: pair.Hex(),
			Owner:       owner.Hex(),
			BinID:       p.BinID,
			Share:       p.Share.String(),
			AmountX:     p.AmountX.String(),
			AmountY:     p.AmountY.String(),
			Price:       p.Price,
			ScannedAt:   now,
		})
	}
	return records
}

// logValueMetrics derives and logs USD value, pool share, and fee metrics
// for the scanned positions when prices are available. Missing prices skip
// the report rather than failing the scan.
func logValueMetrics(ctx context.Context, logger *zap.Logger, cfg config.ScanConfig, positions []model.BinPosition, activeID uint32) {
	if len(positions) == 0 {
		return
	}

	priceX, okX := resolvePrice(ctx, logger, cfg.USDX, cfg.SymbolX)
	priceY, okY := resolvePrice(ctx, logger, cfg.USDY, cfg.SymbolY)
	if !okX || !okY {
		return
	}

	currentPrice, err := binmath.BinIDToPrice(activeID, cfg.BinStep)
	if err != nil {
		logger.Warn("active bin price unavailable", zap.Error(err))
		return
	}

	totalX, totalY := position.Totals(positions)
	res := metrics.Compute(metrics.Inputs{
		AmountX:           amountToFloat(totalX, cfg.DecimalsX),
		AmountY:           amountToFloat(totalY, cfg.DecimalsY),
		PriceX:            priceX,
		PriceY:            priceY,
		TotalLiquidityUSD: cfg.TVLUSD,
		Volume24hUSD:      cfg.Volume24h,
		BinStep:           cfg.BinStep,
		Range: model.LiquidityRange{
			MinPrice: positions[0].Price,
			MaxPrice: positions[len(positions)-1].Price,
		},
		CurrentPrice: currentPrice,
	})

	logger.Info("position value",
		zap.Float64("value_usd", res.ValueUSD),
		zap.Float64("value_x_usd", res.ValueXUSD),
		zap.Float64("value_y_usd", res.ValueYUSD),
		zap.Float64("pool_share", res.PoolShare),
		zap.Float64("fee_rate", res.FeeRate),
		zap.Float64("daily_fee_usd", res.Projection.DailyUSD),
		zap.Float64("monthly_fee_usd", res.Projection.MonthlyUSD),
		zap.Float64("yearly_fee_usd", res.Projection.YearlyUSD),
		zap.Float64("estimated_apr", res.EstimatedAPR),
		zap.String("il_risk", string(res.IL.Risk)),
		zap.Int("il_pct", res.IL.Percent),
		zap.Bool("fallback_prices", priceX.Fallback || priceY.Fallback),
	)
}

// resolvePrice prefers an explicit USD override over a live symbol lookup.
func resolvePrice(ctx context.Context, logger *zap.Logger, override float64, symbol string) (pricefeed.Quote, bool) {
	if override > 0 {
		return pricefeed.Quote{USD: override, FetchedAt: time.Now()}, true
	}
	if symbol == "" {
		return pricefeed.Quote{}, false
	}
	feed := pricefeed.NewClient(logger)
	quote, ok := feed.USDPrice(ctx, symbol)
	if !ok {
		logger.Warn("no USD price for symbol", zap.String("symbol", symbol))
	}
	return quote, ok
}

func amountToFloat(amount *big.Int, decimals int) float64 {
	if amount == nil {
		return 0
	}
	scale := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	out, _ := new(big.Float).Quo(new(big.Float).SetInt(amount), scale).Float64()
	return out
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
