// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/heatmap-engine/pkg/types"
)

// Manifest is the on-disk description of the two reference datasets. Keeping
// it as a standalone YAML file lets a data drop ship with its own manifest
// instead of editing the engine config.
type Manifest struct {
	Stage  types.DatasetConfig `yaml:"stage"`
	Tissue types.DatasetConfig `yaml:"tissue"`
}

// ReadManifest loads a dataset manifest from a YAML file. The Name fields are
// forced to the fixed dataset keys so a manifest cannot rename them.
func ReadManifest(path string) (types.StoreConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.StoreConfig{}, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return types.StoreConfig{}, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if m.Stage.Path == "" || m.Tissue.Path == "" {
		return types.StoreConfig{}, fmt.Errorf("manifest %s: both stage and tissue need a path", path)
	}
	m.Stage.Name = "stage"
	m.Tissue.Name = "tissue"
	return types.StoreConfig{Stage: m.Stage, Tissue: m.Tissue}, nil
}

// WriteManifest saves a dataset manifest next to the data it describes.
func WriteManifest(path string, cfg types.StoreConfig) error {
	data, err := yaml.Marshal(&Manifest{Stage: cfg.Stage, Tissue: cfg.Tissue})
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
