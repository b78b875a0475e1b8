// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DatasetFormat identifies the on-disk layout of a reference dataset source.
type DatasetFormat string

const (
	// FormatCSV is a gene-indexed CSV: header row of sample labels, one row
	// per gene, empty cells marking missing values.
	FormatCSV DatasetFormat = "csv"

	// FormatGCT is the GCT v1.2 tab-separated format used by GTEx releases
	// ("#1.2" line, dimensions line, Name/Description columns). Gzip sources
	// are read transparently.
	FormatGCT DatasetFormat = "gct"

	// FormatCache is a SQLite cache previously written by `datasets import`.
	FormatCache DatasetFormat = "cache"
)

// DatasetConfig describes one reference expression matrix.
type DatasetConfig struct {
	// Name is the dataset key used in requests and payloads (e.g. "stage").
	Name string `json:"name" yaml:"name"`

	// Path is the source file: CSV, GCT (optionally gzipped), or a SQLite
	// cache database depending on Format.
	Path string `json:"path" yaml:"path"`

	// Format selects the loader. Empty means inferred from the file extension.
	Format DatasetFormat `json:"format,omitempty" yaml:"format,omitempty"`

	// Label is a human-readable description for listings (e.g.
	// "BrainSpan developmental stages").
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// StoreConfig holds the two reference datasets the engine serves: expression
// across developmental stages and expression across tissue types.
type StoreConfig struct {
	// Stage is the developmental-stage dataset (rows = genes, columns = stages).
	Stage DatasetConfig `json:"stage" yaml:"stage"`

	// Tissue is the tissue-type dataset (rows = genes, columns = tissues).
	Tissue DatasetConfig `json:"tissue" yaml:"tissue"`
}

// PipelineConfig holds settings for the clustering pipeline.
type PipelineConfig struct {
	// MaxGenes caps the number of resolved genes per request. Agglomeration
	// is O(n^3) in the worst case, so the cap keeps per-request latency
	// predictable (default 200).
	MaxGenes int `json:"max_genes" yaml:"max_genes"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// ReadTimeout bounds reading the request including the body (default 15s).
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout bounds the full request lifetime including the clustering
	// computation (default 60s). The core has no internal timeouts; this is
	// the overall request bound.
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
}
