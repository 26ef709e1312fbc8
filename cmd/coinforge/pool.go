package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	cosmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"coinforge/internal/chain"
	"coinforge/internal/config"
	"coinforge/internal/model"
	"coinforge/internal/pool"
)

func runPoolPlan(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadPool(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	req, err := parsePlanRequest(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if needsChain(cfg) {
		if err := resolveCoins(ctx, cfg, &req, logger); err != nil {
			return err
		}
	}

	planner := pool.NewPlanner(pool.PlannerConfig{Slippage: &req.slippage})
	plan, err := planner.Plan(req.priceRange, req.baseAmount)
	if err != nil {
		return fmt.Errorf("plan pool: %w", err)
	}
	record := planRecord(req, plan, planner.Slippage(), time.Now().UTC())

	sinks, closeSinks, err := openSinks(ctx, cfg.Out, cfg.PGDSN, logger)
	if err != nil {
		return err
	}
	defer closeSinks()
	if err := sinks.PutPoolPlans(ctx, []model.PoolPlanRecord{record}); err != nil {
		return fmt.Errorf("store plan: %w", err)
	}

	logger.Info("pool plan computed",
		zap.String("coin_type_a", record.CoinTypeA),
		zap.String("coin_type_b", record.CoinTypeB),
		zap.Int32("tick_spacing", record.TickSpacing),
		zap.Int32("tick_lower", record.TickLower),
		zap.Int32("tick_upper", record.TickUpper),
		zap.String("amount_b", record.AmountB),
		zap.String("out", cfg.Out),
	)

	return writeJSON(cmd.OutOrStdout(), record)
}

type planRequest struct {
	coinTypeA  string
	coinTypeB  string
	priceRange pool.PriceRange
	baseAmount cosmath.Int
	slippage   decimal.Decimal
}

func parsePlanRequest(cfg config.PoolConfig) (planRequest, error) {
	minPrice, err := decimal.NewFromString(cfg.MinPrice)
	if err != nil {
		return planRequest{}, fmt.Errorf("invalid min price %q: %w", cfg.MinPrice, err)
	}
	maxPrice, err := decimal.NewFromString(cfg.MaxPrice)
	if err != nil {
		return planRequest{}, fmt.Errorf("invalid max price %q: %w", cfg.MaxPrice, err)
	}
	feeTier, err := decimal.NewFromString(cfg.FeeTier)
	if err != nil {
		return planRequest{}, fmt.Errorf("invalid fee tier %q: %w", cfg.FeeTier, err)
	}
	slippage, err := decimal.NewFromString(cfg.Slippage)
	if err != nil {
		return planRequest{}, fmt.Errorf("invalid slippage %q: %w", cfg.Slippage, err)
	}
	if slippage.IsNegative() || slippage.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return planRequest{}, fmt.Errorf("slippage %s outside [0, 1)", slippage)
	}
	baseAmount, ok := cosmath.NewIntFromString(cfg.BaseAmount)
	if !ok {
		return planRequest{}, fmt.Errorf("invalid base amount %q", cfg.BaseAmount)
	}

	req := planRequest{
		priceRange: pool.PriceRange{
			MinPrice:      minPrice,
			MaxPrice:      maxPrice,
			FeeTier:       feeTier,
			BaseDecimals:  cfg.BaseDecimals,
			QuoteDecimals: cfg.QuoteDecimals,
		},
		baseAmount: baseAmount,
		slippage:   slippage,
	}
	if chain.IsCoinType(cfg.BaseCoin) {
		req.coinTypeA = cfg.BaseCoin
	}
	if chain.IsCoinType(cfg.QuoteCoin) {
		req.coinTypeB = cfg.QuoteCoin
	}
	return req, nil
}

// needsChain reports whether the plan depends on on-chain coin data: a
// decimals value is missing, or a coin reference can be checked against --rpc.
func needsChain(cfg config.PoolConfig) bool {
	if cfg.BaseDecimals < 0 || cfg.QuoteDecimals < 0 {
		return true
	}
	return cfg.RPCURL != "" && (cfg.BaseCoin != "" || cfg.QuoteCoin != "")
}

// resolveCoins fills coin types and any missing decimals from the chain.
// A side without a coin reference keeps its configured decimals.
func resolveCoins(ctx context.Context, cfg config.PoolConfig, req *planRequest, logger *zap.Logger) error {
	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required to resolve coin decimals")
	}
	if cfg.BaseDecimals < 0 && cfg.BaseCoin == "" {
		return fmt.Errorf("base coin is required to resolve its decimals")
	}
	if cfg.QuoteDecimals < 0 && cfg.QuoteCoin == "" {
		return fmt.Errorf("quote coin is required to resolve its decimals")
	}

	client, err := chain.NewClient(ctx, cfg.RPCURL, cfg.RequestsPerSecond, logger)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer client.Close()
	return resolveWith(ctx, client, cfg, req, logger)
}

func resolveWith(ctx context.Context, client *chain.Client, cfg config.PoolConfig, req *planRequest, logger *zap.Logger) error {
	if cfg.BaseCoin != "" {
		base, err := client.ResolveCoin(ctx, cfg.BaseCoin)
		if err != nil {
			return fmt.Errorf("resolve base coin: %w", err)
		}
		req.coinTypeA = base.CoinType
		if cfg.BaseDecimals < 0 {
			req.priceRange.BaseDecimals = int(base.Decimals)
		}
	}
	if cfg.QuoteCoin != "" {
		quote, err := client.ResolveCoin(ctx, cfg.QuoteCoin)
		if err != nil {
			return fmt.Errorf("resolve quote coin: %w", err)
		}
		req.coinTypeB = quote.CoinType
		if cfg.QuoteDecimals < 0 {
			req.priceRange.QuoteDecimals = int(quote.Decimals)
		}
	}

	logger.Info("coins resolved",
		zap.String("base", req.coinTypeA),
		zap.Int("base_decimals", req.priceRange.BaseDecimals),
		zap.String("quote", req.coinTypeB),
		zap.Int("quote_decimals", req.priceRange.QuoteDecimals),
	)
	return nil
}

func planRecord(req planRequest, plan pool.TickPlan, slippage decimal.Decimal, now time.Time) model.PoolPlanRecord {
	return model.PoolPlanRecord{
		CoinTypeA:           req.coinTypeA,
		CoinTypeB:           req.coinTypeB,
		DecimalsA:           req.priceRange.BaseDecimals,
		DecimalsB:           req.priceRange.QuoteDecimals,
		MinPrice:            req.priceRange.MinPrice.String(),
		MaxPrice:            req.priceRange.MaxPrice.String(),
		FeeTier:             req.priceRange.FeeTier.String(),
		TickSpacing:         plan.TickSpacing,
		InitializeSqrtPrice: plan.InitialSqrtPrice.String(),
		RawTickLower:        plan.RawTickLower,
		RawTickUpper:        plan.RawTickUpper,
		TickLower:           plan.TickLower,
		TickUpper:           plan.TickUpper,
		Liquidity:           plan.Estimate.Liquidity.String(),
		AmountA:             plan.BaseAmount.String(),
		AmountB:             plan.RequiredOtherTokenAmount.String(),
		EstimatedAmountB:    plan.Estimate.AmountB.String(),
		FixAmountA:          plan.Estimate.FixAmountA,
		Slippage:            slippage.String(),
		CreatedAt:           now.Format(time.RFC3339),
	}
}
