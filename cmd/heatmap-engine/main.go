// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the heatmap-engine CLI: the backend
// that turns a gene list into two co-clustered expression heatmaps, one
// across developmental stages and one across tissue types.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the heatmap-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "heatmap-engine",
	Short: "Gene expression clustering backend for dual heatmaps",
	Long: `heatmap-engine resolves a list of gene symbols against two reference
expression datasets (developmental stages and tissue types), z-score
normalizes the selected rows, hierarchically clusters genes and samples
with average linkage, and emits visualization-ready matrices.

Use cluster for one-off runs from the command line, serve for the HTTP
API the heatmap frontend talks to, and datasets to inspect or import the
reference data.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./heatmap-engine.yaml or ~/.config/heatmap-engine/config.yaml)")
	rootCmd.PersistentFlags().String("manifest", "", "dataset manifest file (overrides datasets.* config keys)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("heatmap-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "heatmap-engine"))
		}
	}

	if m, _ := rootCmd.PersistentFlags().GetString("manifest"); m != "" {
		viper.Set("datasets.manifest", m)
	}

	viper.SetEnvPrefix("HEATMAP_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
