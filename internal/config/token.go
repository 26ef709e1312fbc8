package config

import (
	"github.com/spf13/pflag"
)

// TokenConfig holds configuration for building a coin module.
type TokenConfig struct {
	Symbol      string
	Name        string
	Description string
	IconURL     string
	Decimals    int
	Encoding    string
	Recipient   string
	Out         string
	PGDSN       string
	LogLevel    string
}

// LoadToken merges config file, environment variables, and flags into TokenConfig.
func LoadToken(cfgFile string, flags *pflag.FlagSet) (TokenConfig, error) {
	v, err := load(cfgFile, flags, map[string]interface{}{
		"decimals":  9,
		"encoding":  "base64",
		"out":       "./data/tokens.jsonl",
		"log-level": "info",
	})
	if err != nil {
		return TokenConfig{}, err
	}

	return TokenConfig{
		Symbol:      v.GetString("symbol"),
		Name:        v.GetString("name"),
		Description: v.GetString("description"),
		IconURL:     v.GetString("icon-url"),
		Decimals:    v.GetInt("decimals"),
		Encoding:    v.GetString("encoding"),
		Recipient:   v.GetString("recipient"),
		Out:         v.GetString("out"),
		PGDSN:       v.GetString("pg-dsn"),
		LogLevel:    v.GetString("log-level"),
	}, nil
}
