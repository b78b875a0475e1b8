// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/heatmap-engine/internal/dataset"
	"github.com/pdiddy/heatmap-engine/pkg/types"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Inspect and import the reference datasets",
}

// --- list subcommand ---

var datasetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Load both configured datasets and print their shapes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := storeConfig()
		if err != nil {
			return err
		}
		store, err := dataset.Open(cfg, os.Stderr)
		if err != nil {
			return err
		}
		for _, d := range []struct {
			cfg types.DatasetConfig
			m   *dataset.ExpressionMatrix
		}{{cfg.Stage, store.Stage()}, {cfg.Tissue, store.Tissue()}} {
			fmt.Printf("%-8s %6d genes  %5d samples  %s (%s)\n",
				d.m.Name, d.m.NumGenes(), d.m.NumSamples(), d.cfg.Path, d.cfg.Label)
		}
		return nil
	},
}

// --- import subcommand ---

var datasetsImportCmd = &cobra.Command{
	Use:   "import <name> <source>",
	Short: "Parse a CSV/GCT source once and cache it as SQLite",
	Long: `Import parses an expression matrix source (CSV, or GCT as distributed by
GTEx, optionally gzipped) and writes it into a SQLite cache. Point the
dataset's path at the cache file afterwards for fast startup. Name must be
"stage" or "tissue".`,
	Args: cobra.ExactArgs(2),
	RunE: runDatasetsImport,
}

// --- manifest subcommand ---

var datasetsManifestCmd = &cobra.Command{
	Use:   "manifest <path>",
	Short: "Write the resolved dataset configuration to a YAML manifest",
	Long: `Manifest writes the currently effective dataset configuration (after
config file and environment) to a datasets.yaml file. Ship the manifest
alongside a data drop and point the engine at it with --manifest.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := storeConfig()
		if err != nil {
			return err
		}
		if err := dataset.WriteManifest(args[0], cfg); err != nil {
			return err
		}
		fmt.Printf("wrote manifest %s\n", args[0])
		return nil
	},
}

func init() {
	datasetsImportCmd.Flags().String("format", "", "source format: csv or gct (default: inferred from extension)")
	datasetsImportCmd.Flags().String("out", "data/expression.db", "SQLite cache file to write")

	datasetsCmd.AddCommand(datasetsListCmd)
	datasetsCmd.AddCommand(datasetsImportCmd)
	datasetsCmd.AddCommand(datasetsManifestCmd)
	rootCmd.AddCommand(datasetsCmd)
}

func runDatasetsImport(cmd *cobra.Command, args []string) error {
	name, source := args[0], args[1]
	if name != "stage" && name != "tissue" {
		return fmt.Errorf("dataset name must be \"stage\" or \"tissue\", got %q", name)
	}

	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	stripped := strings.TrimSuffix(source, ".gz")
	if format == "" {
		switch {
		case strings.HasSuffix(stripped, ".csv"):
			format = string(types.FormatCSV)
		case strings.HasSuffix(stripped, ".gct"):
			format = string(types.FormatGCT)
		default:
			return fmt.Errorf("cannot infer format of %s; pass --format csv or --format gct", source)
		}
	}

	var (
		m   *dataset.ExpressionMatrix
		err error
	)
	switch types.DatasetFormat(format) {
	case types.FormatCSV:
		m, err = dataset.LoadCSV(name, source)
	case types.FormatGCT:
		m, err = dataset.LoadGCT(name, source)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "parsed %s: %d genes x %d samples\n", name, m.NumGenes(), m.NumSamples())
	if err := dataset.ImportCache(out, m); err != nil {
		return err
	}
	fmt.Printf("cached %s in %s\n", name, out)
	return nil
}
