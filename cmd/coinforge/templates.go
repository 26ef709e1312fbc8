package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"coinforge/internal/template"
)

type templateLayout struct {
	SymbolLength int            `json:"symbol_length"`
	Size         int            `json:"size"`
	Offsets      map[string]int `json:"offsets"`
}

func runTemplatesVerify(cmd *cobra.Command, _ []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	logger, err := newLogger(level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	catalog, err := template.Default()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	layouts, err := describeTemplates(catalog)
	if err != nil {
		return err
	}
	logger.Info("templates verified",
		zap.Int("schema_version", template.SchemaVersion),
		zap.Int("templates", len(layouts)),
	)

	return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
		"schema_version": template.SchemaVersion,
		"templates":      layouts,
	})
}

func describeTemplates(catalog *template.Catalog) ([]templateLayout, error) {
	var layouts []templateLayout
	for n := template.MinSymbolLength; n <= template.MaxSymbolLength; n++ {
		blob, err := catalog.BlobFor(n)
		if err != nil {
			return nil, err
		}
		offsets := make(map[string]int)
		for _, f := range template.Fields(n) {
			offsets[f.Name] = template.IndexOf(blob, f.Placeholder)
		}
		layouts = append(layouts, templateLayout{SymbolLength: n, Size: len(blob), Offsets: offsets})
	}
	return layouts, nil
}
