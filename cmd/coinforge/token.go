package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"coinforge/internal/bytecode"
	"coinforge/internal/config"
	"coinforge/internal/model"
	"coinforge/internal/template"
)

func runTokenBuild(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadToken(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	catalog, err := template.Default()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	descriptor := bytecode.TokenDescriptor{
		Symbol:      cfg.Symbol,
		Name:        cfg.Name,
		Description: cfg.Description,
		IconURL:     cfg.IconURL,
		Decimals:    cfg.Decimals,
	}
	artifact, err := buildToken(catalog, descriptor, cfg.Encoding, cfg.Recipient, time.Now().UTC())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinks, closeSinks, err := openSinks(ctx, cfg.Out, cfg.PGDSN, logger)
	if err != nil {
		return err
	}
	defer closeSinks()
	if err := sinks.PutTokenArtifacts(ctx, []model.TokenArtifact{artifact}); err != nil {
		return fmt.Errorf("store artifact: %w", err)
	}

	logger.Info("token module built",
		zap.String("symbol", artifact.Symbol),
		zap.Int("decimals", artifact.Decimals),
		zap.Int("template_size", artifact.TemplateSize),
		zap.String("content_key", artifact.ContentKey),
		zap.String("out", cfg.Out),
	)

	return writeJSON(cmd.OutOrStdout(), artifact)
}

func buildToken(catalog *template.Catalog, d bytecode.TokenDescriptor, encoding, recipient string, now time.Time) (model.TokenArtifact, error) {
	module, err := bytecode.NewPatcher(catalog).Patch(d)
	if err != nil {
		return model.TokenArtifact{}, fmt.Errorf("patch module: %w", err)
	}
	encoded, err := bytecode.Encode(module, encoding)
	if err != nil {
		return model.TokenArtifact{}, err
	}
	payload, err := bytecode.NewPublishPayload(module, recipient)
	if err != nil {
		return model.TokenArtifact{}, err
	}

	normalized := d.Normalize()
	if encoding == "" {
		encoding = bytecode.EncodingBase64
	}
	return model.TokenArtifact{
		Symbol:              normalized.Symbol,
		Name:                normalized.Name,
		Description:         normalized.Description,
		IconURL:             normalized.IconURL,
		Decimals:            normalized.Decimals,
		SchemaVersion:       template.SchemaVersion,
		TemplateSize:        len(module),
		Encoding:            encoding,
		Module:              encoded,
		ContentKey:          bytecode.ContentKey(module),
		Dependencies:        payload.Dependencies,
		UpgradeCapRecipient: payload.UpgradeCapRecipient,
		CreatedAt:           now.Format(time.RFC3339),
	}, nil
}
