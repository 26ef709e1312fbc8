package config

import (
	"github.com/spf13/pflag"
)

// PoolConfig holds configuration for planning a pool.
type PoolConfig struct {
	RPCURL            string
	RequestsPerSecond float64
	BaseCoin          string
	QuoteCoin         string
	BaseDecimals      int
	QuoteDecimals     int
	BaseAmount        string
	FeeTier           string
	MinPrice          string
	MaxPrice          string
	Slippage          string
	Out               string
	PGDSN             string
	LogLevel          string
}

// LoadPool merges config file, environment variables, and flags into PoolConfig.
// Negative decimals mean "resolve from chain".
func LoadPool(cfgFile string, flags *pflag.FlagSet) (PoolConfig, error) {
	v, err := load(cfgFile, flags, map[string]interface{}{
		"rps":            10.0,
		"base-decimals":  -1,
		"quote-decimals": -1,
		"fee-tier":       "0.0025",
		"slippage":       "0.05",
		"out":            "./data/pool_plans.jsonl",
		"log-level":      "info",
	})
	if err != nil {
		return PoolConfig{}, err
	}

	return PoolConfig{
		RPCURL:            v.GetString("rpc"),
		RequestsPerSecond: v.GetFloat64("rps"),
		BaseCoin:          v.GetString("base"),
		QuoteCoin:         v.GetString("quote"),
		BaseDecimals:      v.GetInt("base-decimals"),
		QuoteDecimals:     v.GetInt("quote-decimals"),
		BaseAmount:        v.GetString("base-amount"),
		FeeTier:           v.GetString("fee-tier"),
		MinPrice:          v.GetString("min-price"),
		MaxPrice:          v.GetString("max-price"),
		Slippage:          v.GetString("slippage"),
		Out:               v.GetString("out"),
		PGDSN:             v.GetString("pg-dsn"),
		LogLevel:          v.GetString("log-level"),
	}, nil
}
