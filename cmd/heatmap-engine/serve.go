// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/heatmap-engine/internal/dataset"
	"github.com/pdiddy/heatmap-engine/internal/pipeline"
	"github.com/pdiddy/heatmap-engine/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the heatmap HTTP API",
	Long: `Serve loads both reference datasets and exposes the pipeline over HTTP:
GET /api/health and POST /api/process-genes. Datasets are loaded once at
startup and shared read-only across requests.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	storeCfg, err := storeConfig()
	if err != nil {
		return err
	}
	store, err := dataset.Open(storeCfg, os.Stderr)
	if err != nil {
		return err
	}

	cfg := serverConfig()
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}

	pipe := pipeline.New(store, pipelineConfig())
	return server.New(store, pipe, os.Stderr).Run(cfg)
}
