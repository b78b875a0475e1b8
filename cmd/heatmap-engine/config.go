// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/heatmap-engine/internal/dataset"
	"github.com/pdiddy/heatmap-engine/pkg/types"
)

const (
	defaultStagePath  = "data/stage_gene_expression.csv"
	defaultTissuePath = "data/tissue_gene_expression.csv"
)

// storeConfig builds the dataset configuration. A manifest file wins over
// per-key config; both fall back to conventional defaults for a data/
// directory next to the binary.
func storeConfig() (types.StoreConfig, error) {
	if m := viper.GetString("datasets.manifest"); m != "" {
		return dataset.ReadManifest(m)
	}
	cfg := types.StoreConfig{
		Stage: types.DatasetConfig{
			Name:   "stage",
			Path:   defaultStagePath,
			Label:  "developmental stages",
			Format: types.DatasetFormat(viper.GetString("datasets.stage.format")),
		},
		Tissue: types.DatasetConfig{
			Name:   "tissue",
			Path:   defaultTissuePath,
			Label:  "tissue types",
			Format: types.DatasetFormat(viper.GetString("datasets.tissue.format")),
		},
	}
	if p := viper.GetString("datasets.stage.path"); p != "" {
		cfg.Stage.Path = p
	}
	if p := viper.GetString("datasets.stage.label"); p != "" {
		cfg.Stage.Label = p
	}
	if p := viper.GetString("datasets.tissue.path"); p != "" {
		cfg.Tissue.Path = p
	}
	if p := viper.GetString("datasets.tissue.label"); p != "" {
		cfg.Tissue.Label = p
	}
	return cfg, nil
}

// pipelineConfig reads the pipeline settings, zero meaning package defaults.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		MaxGenes: viper.GetInt("pipeline.max_genes"),
	}
}

func serverConfig() types.ServerConfig {
	cfg := types.ServerConfig{
		Addr:         ":8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	if a := viper.GetString("server.addr"); a != "" {
		cfg.Addr = a
	}
	if d := viper.GetDuration("server.read_timeout"); d > 0 {
		cfg.ReadTimeout = d
	}
	if d := viper.GetDuration("server.write_timeout"); d > 0 {
		cfg.WriteTimeout = d
	}
	return cfg
}
