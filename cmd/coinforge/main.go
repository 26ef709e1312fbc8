package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"coinforge/internal/storage"
	"coinforge/internal/storage/postgres"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "coinforge",
		Short:        "Sui coin module builder and CLMM pool planner",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Coin module commands",
	}
	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Patch a coin module template with token metadata",
		RunE:  runTokenBuild,
	}
	buildCmd.Flags().String("symbol", "", "coin symbol (2-8 ASCII characters)")
	buildCmd.Flags().String("name", "", "coin name (up to 32 ASCII characters)")
	buildCmd.Flags().String("description", "", "coin description (up to 320 ASCII characters)")
	buildCmd.Flags().String("icon-url", "", "icon URL (up to 320 ASCII characters)")
	buildCmd.Flags().Int("decimals", 9, "coin decimals (0-12)")
	buildCmd.Flags().String("encoding", "base64", "module encoding (base64, hex)")
	buildCmd.Flags().String("recipient", "", "upgrade capability recipient address")
	buildCmd.Flags().String("out", "./data/tokens.jsonl", "output JSONL path (empty disables)")
	buildCmd.Flags().String("pg-dsn", "", "Postgres DSN (optional)")
	buildCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	tokenCmd.AddCommand(buildCmd)
	root.AddCommand(tokenCmd)

	poolCmd := &cobra.Command{
		Use:   "pool",
		Short: "Pool planning commands",
	}
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute tick range and paired amount for a new pool",
		RunE:  runPoolPlan,
	}
	planCmd.Flags().String("rpc", "", "Sui RPC URL (needed to resolve coins)")
	planCmd.Flags().Float64("rps", 10, "RPC requests per second (0 disables throttling)")
	planCmd.Flags().String("base", "", "base coin type or metadata object id")
	planCmd.Flags().String("quote", "", "quote coin type or metadata object id")
	planCmd.Flags().Int("base-decimals", -1, "base coin decimals (-1 resolves from chain)")
	planCmd.Flags().Int("quote-decimals", -1, "quote coin decimals (-1 resolves from chain)")
	planCmd.Flags().String("base-amount", "", "base coin amount in smallest units")
	planCmd.Flags().String("fee-tier", "0.0025", "fee tier (0.0001, 0.0005, 0.0025, 0.01)")
	planCmd.Flags().String("min-price", "", "lower bound price (quote per base)")
	planCmd.Flags().String("max-price", "", "upper bound price (quote per base)")
	planCmd.Flags().String("slippage", "0.05", "slippage applied to the paired amount")
	planCmd.Flags().String("out", "./data/pool_plans.jsonl", "output JSONL path (empty disables)")
	planCmd.Flags().String("pg-dsn", "", "Postgres DSN (optional)")
	planCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	poolCmd.AddCommand(planCmd)
	root.AddCommand(poolCmd)

	templatesCmd := &cobra.Command{
		Use:   "templates",
		Short: "Template catalog commands",
	}
	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Validate the embedded templates and print their layout",
		RunE:  runTemplatesVerify,
	}
	verifyCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	templatesCmd.AddCommand(verifyCmd)
	root.AddCommand(templatesCmd)

	return root
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

// openSinks returns the configured artifact sinks and a cleanup func.
func openSinks(ctx context.Context, out, pgDSN string, logger *zap.Logger) (storage.Multi, func(), error) {
	var sinks storage.Multi
	cleanup := func() {}

	if out != "" {
		sinks = append(sinks, storage.NewJsonlStorage(out))
	}
	if pgDSN != "" {
		store, err := postgres.NewStore(ctx, pgDSN)
		if err != nil {
			return nil, cleanup, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, cleanup, err
		}
		sinks = append(sinks, store)
		cleanup = store.Close
	}

	logger.Debug("artifact sinks ready", zap.String("out", out), zap.Bool("postgres", pgDSN != ""))
	return sinks, cleanup, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
