// Package cmd wires the transformation pipeline into the certpack CLI.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apiforge/certpack/api"
	"github.com/apiforge/certpack/internal/connector"
	"github.com/apiforge/certpack/internal/swagger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "certpack",
	Short: "Certpack: certified connector packaging for down-converted API descriptions",
	Long: `Certpack transforms a down-converted (Swagger 2.0) API description into a
certified connector package: it filters the document to a configured endpoint
allow-list, prunes unreachable schema definitions, injects platform trigger
extensions, and assembles the three certification artifacts.`,
	// Execute prints RunE errors once; without these cobra would print the
	// error a second time and dump usage on every pipeline failure.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "connector.hcl", "Path to the connector configuration")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadConfig reads and validates the connector configuration. Validation is
// batched: every structural error in the file is reported in one pass.
func loadConfig() (*api.ConnectorConfig, error) {
	cfg, err := connector.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := connector.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDocument(path string) (*swagger.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := swagger.Load(data)
	if err != nil {
		return nil, err
	}
	if doc.Swagger != swagger.SupportedVersion {
		fmt.Fprintf(os.Stderr, "warning: expected version %s document, found %q\n", swagger.SupportedVersion, doc.Swagger)
	}
	return doc, nil
}

func writeDocument(doc *swagger.Document, path string) error {
	data, err := doc.MarshalIndentJSON()
	if err != nil {
		return fmt.Errorf("serializing %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// derivedOutput builds the default output path for in-tree transforms:
// input.json → input-<suffix>.json.
func derivedOutput(input, suffix string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "-" + suffix + ".json"
}
