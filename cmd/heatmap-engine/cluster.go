// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/heatmap-engine/internal/dataset"
	"github.com/pdiddy/heatmap-engine/internal/pipeline"
)

var clusterCmd = &cobra.Command{
	Use:   "cluster [gene symbols...]",
	Short: "Run the clustering pipeline for a gene list",
	Long: `Cluster resolves the given gene symbols against both reference datasets,
normalizes and clusters the expression submatrices, and prints the result.
Symbols may be passed as arguments, via --genes as one delimited string, or
via --genes-file with one or more symbols per line.`,
	RunE: runCluster,
}

func init() {
	clusterCmd.Flags().String("genes", "", "gene symbols, comma/whitespace separated")
	clusterCmd.Flags().String("genes-file", "", "file with gene symbols, any delimiter")
	clusterCmd.Flags().Int("max-genes", 0, "cap on resolved genes (default 200)")
	clusterCmd.Flags().Bool("json", false, "output the full payload as JSON")

	rootCmd.AddCommand(clusterCmd)
}

func runCluster(cmd *cobra.Command, args []string) error {
	fields := append([]string(nil), args...)
	if g, _ := cmd.Flags().GetString("genes"); g != "" {
		fields = append(fields, g)
	}
	if path, _ := cmd.Flags().GetString("genes-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading gene list: %w", err)
		}
		fields = append(fields, string(data))
	}
	if len(fields) == 0 {
		return fmt.Errorf("provide gene symbols as arguments, --genes, or --genes-file")
	}

	storeCfg, err := storeConfig()
	if err != nil {
		return err
	}
	store, err := dataset.Open(storeCfg, os.Stderr)
	if err != nil {
		return err
	}

	cfg := pipelineConfig()
	if n, _ := cmd.Flags().GetInt("max-genes"); n > 0 {
		cfg.MaxGenes = n
	}

	payload, err := pipeline.New(store, cfg).Run(context.Background(), fields)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return pipeline.FormatJSON(payload, os.Stdout)
	}
	pipeline.FormatSummary(payload, os.Stdout)
	return nil
}
