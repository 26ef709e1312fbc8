package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"coinforge/internal/bytecode"
	"coinforge/internal/config"
	"coinforge/internal/model"
	"coinforge/internal/pool"
	"coinforge/internal/template"
)

func TestBuildToken(t *testing.T) {
	catalog, err := template.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	artifact, err := buildToken(catalog, bytecode.TokenDescriptor{
		Symbol:      "MCCQ",
		Name:        "MEGH Quote",
		Description: " same ",
		IconURL:     "same",
		Decimals:    9,
	}, bytecode.EncodingHex, "0x5", now)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if artifact.TemplateSize != 1549 || artifact.Encoding != bytecode.EncodingHex {
		t.Fatalf("unexpected artifact: %+v", artifact)
	}
	if !strings.HasPrefix(artifact.Module, "0xa11ceb0b") {
		t.Fatalf("module should be hex encoded bytecode, got %s", artifact.Module[:16])
	}
	if artifact.Description != "same\n" {
		t.Fatalf("description should be disambiguated, got %q", artifact.Description)
	}
	if len(artifact.Dependencies) != 2 || !strings.HasSuffix(artifact.UpgradeCapRecipient, "05") {
		t.Fatalf("unexpected publish fields: %+v", artifact)
	}
	if artifact.CreatedAt != "2024-01-01T00:00:00Z" {
		t.Fatalf("created at mismatch: %s", artifact.CreatedAt)
	}
}

func TestBuildTokenRejectsDescriptor(t *testing.T) {
	catalog, err := template.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	_, err = buildToken(catalog, bytecode.TokenDescriptor{Symbol: "X", Decimals: 9}, "", "", time.Now())
	if err == nil || !strings.Contains(err.Error(), "patch module") {
		t.Fatalf("expected patch error, got %v", err)
	}
}

func TestParsePlanRequestAndRecord(t *testing.T) {
	cfg := config.PoolConfig{
		BaseCoin:      "0x2::sui::SUI",
		QuoteCoin:     "0xquoteobject",
		BaseDecimals:  9,
		QuoteDecimals: 9,
		BaseAmount:    "1000000000",
		FeeTier:       "0.0025",
		MinPrice:      "1.0",
		MaxPrice:      "4.0",
		Slippage:      "0.05",
	}
	req, err := parsePlanRequest(cfg)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.coinTypeA != "0x2::sui::SUI" || req.coinTypeB != "" {
		t.Fatalf("unexpected coin types: %q %q", req.coinTypeA, req.coinTypeB)
	}

	planner := pool.NewPlanner(pool.PlannerConfig{Slippage: &req.slippage})
	plan, err := planner.Plan(req.priceRange, req.baseAmount)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	record := planRecord(req, plan, planner.Slippage(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	want := model.PoolPlanRecord{
		CoinTypeA:           "0x2::sui::SUI",
		DecimalsA:           9,
		DecimalsB:           9,
		MinPrice:            "1",
		MaxPrice:            "4",
		FeeTier:             "0.0025",
		TickSpacing:         60,
		InitializeSqrtPrice: "29166863343567579424",
		RawTickLower:        0,
		RawTickUpper:        13863,
		TickLower:           0,
		TickUpper:           13920,
		Liquidity:           "7470348721",
		AmountA:             "1000000000",
		AmountB:             "4558375203",
		EstimatedAmountB:    "4341309717",
		FixAmountA:          true,
		Slippage:            "0.05",
		CreatedAt:           "2024-01-01T00:00:00Z",
	}
	if record != want {
		t.Fatalf("record mismatch:\n got %+v\nwant %+v", record, want)
	}
}

func TestParsePlanRequestErrors(t *testing.T) {
	valid := config.PoolConfig{BaseAmount: "1", FeeTier: "0.0025", MinPrice: "1", MaxPrice: "2", Slippage: "0.05"}
	cases := []func(*config.PoolConfig){
		func(c *config.PoolConfig) { c.MinPrice = "" },
		func(c *config.PoolConfig) { c.MaxPrice = "abc" },
		func(c *config.PoolConfig) { c.FeeTier = "x" },
		func(c *config.PoolConfig) { c.Slippage = "1" },
		func(c *config.PoolConfig) { c.BaseAmount = "1.5" },
	}
	for i, mutate := range cases {
		cfg := valid
		mutate(&cfg)
		if _, err := parsePlanRequest(cfg); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestTemplatesVerifyCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"templates", "verify", "--log-level", "error"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var decoded struct {
		SchemaVersion int              `json:"schema_version"`
		Templates     []templateLayout `json:"templates"`
	}
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if decoded.SchemaVersion != template.SchemaVersion || len(decoded.Templates) != 7 {
		t.Fatalf("unexpected output: %+v", decoded)
	}
	if decoded.Templates[0].Offsets[template.FieldDecimals] != 644 {
		t.Fatalf("unexpected decimals offset: %+v", decoded.Templates[0])
	}
}

func TestTokenBuildCommandWritesArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.jsonl")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{
		"token", "build",
		"--symbol", "MCCQ",
		"--name", "MEGH Quote",
		"--description", "Token creator token.",
		"--icon-url", "https://example/icon.png",
		"--out", path,
		"--log-level", "error",
	})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var artifact model.TokenArtifact
	if err := json.Unmarshal(out.Bytes(), &artifact); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if artifact.Symbol != "MCCQ" || artifact.Decimals != 9 || artifact.Encoding != bytecode.EncodingBase64 {
		t.Fatalf("unexpected artifact: %+v", artifact)
	}

	stored, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read jsonl: %v", err)
	}
	if strings.Count(string(stored), "\n") != 1 || !strings.Contains(string(stored), artifact.ContentKey) {
		t.Fatalf("unexpected jsonl contents: %s", stored)
	}
}

func TestParsePlanRequestZeroSlippage(t *testing.T) {
	req, err := parsePlanRequest(config.PoolConfig{
		BaseDecimals:  9,
		QuoteDecimals: 9,
		BaseAmount:    "1000000000",
		FeeTier:       "0.0025",
		MinPrice:      "1.0",
		MaxPrice:      "4.0",
		Slippage:      "0",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	planner := pool.NewPlanner(pool.PlannerConfig{Slippage: &req.slippage})
	plan, err := planner.Plan(req.priceRange, req.baseAmount)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	record := planRecord(req, plan, planner.Slippage(), time.Now())
	if record.Slippage != "0" || record.AmountB != "4341309717" || record.AmountB != record.EstimatedAmountB {
		t.Fatalf("zero slippage not applied: %+v", record)
	}
}

func TestNeedsChain(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.PoolConfig
		want bool
	}{
		{"explicit decimals", config.PoolConfig{BaseDecimals: 9, QuoteDecimals: 6}, false},
		{"rpc without coins", config.PoolConfig{RPCURL: "http://node", BaseDecimals: 9, QuoteDecimals: 6}, false},
		{"coins without rpc", config.PoolConfig{BaseCoin: "0x2::sui::SUI", BaseDecimals: 9, QuoteDecimals: 6}, false},
		{"rpc with coin", config.PoolConfig{RPCURL: "http://node", QuoteCoin: "0xmeta", BaseDecimals: 9, QuoteDecimals: 6}, true},
		{"missing base decimals", config.PoolConfig{BaseDecimals: -1, QuoteDecimals: 6}, true},
		{"missing quote decimals", config.PoolConfig{BaseDecimals: 9, QuoteDecimals: -1}, true},
	}
	for _, tc := range cases {
		if got := needsChain(tc.cfg); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestResolveCoinsRequiresCoinForMissingDecimals(t *testing.T) {
	cfg := config.PoolConfig{RPCURL: "http://127.0.0.1:1", QuoteCoin: "0x2::sui::SUI", BaseDecimals: -1, QuoteDecimals: 9}
	var req planRequest
	err := resolveCoins(context.Background(), cfg, &req, zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "base coin is required") {
		t.Fatalf("expected missing base coin error, got %v", err)
	}
}

func TestPoolPlanCommandExplicitDecimalsWithRPC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.jsonl")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{
		"pool", "plan",
		"--rpc", "http://127.0.0.1:1",
		"--base-decimals", "9",
		"--quote-decimals", "9",
		"--base-amount", "1000000000",
		"--min-price", "1",
		"--max-price", "4",
		"--slippage", "0",
		"--out", path,
		"--log-level", "error",
	})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var record model.PoolPlanRecord
	if err := json.Unmarshal(out.Bytes(), &record); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if record.TickLower != 0 || record.TickUpper != 13920 || record.AmountB != "4341309717" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.CoinTypeA != "" || record.CoinTypeB != "" {
		t.Fatalf("unexpected coin types: %+v", record)
	}
}
