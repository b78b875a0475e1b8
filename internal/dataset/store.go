// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/heatmap-engine/pkg/types"
)

// ErrUnknownDataset reports a request for a dataset name the store was not
// configured with. It indicates a wiring defect, not bad user input.
var ErrUnknownDataset = errors.New("unknown dataset")

// Store holds the two reference matrices, loaded once and read-only after.
type Store struct {
	stage  *ExpressionMatrix
	tissue *ExpressionMatrix
}

// Open loads both configured datasets. Any load failure is returned as-is;
// callers treat it as fatal at startup. Progress is reported to w.
func Open(cfg types.StoreConfig, w io.Writer) (*Store, error) {
	stage, err := load(cfg.Stage)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "loaded %s: %d genes x %d samples\n", stage.Name, stage.NumGenes(), stage.NumSamples())

	tissue, err := load(cfg.Tissue)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "loaded %s: %d genes x %d samples\n", tissue.Name, tissue.NumGenes(), tissue.NumSamples())

	return &Store{stage: stage, tissue: tissue}, nil
}

// NewStore builds a store from already-loaded matrices. Tests use it to avoid
// fixture files.
func NewStore(stage, tissue *ExpressionMatrix) *Store {
	return &Store{stage: stage, tissue: tissue}
}

// Stage returns the developmental-stage matrix.
func (s *Store) Stage() *ExpressionMatrix { return s.stage }

// Tissue returns the tissue-type matrix.
func (s *Store) Tissue() *ExpressionMatrix { return s.tissue }

// Matrix returns the dataset with the given configured name.
func (s *Store) Matrix(name string) (*ExpressionMatrix, error) {
	switch name {
	case s.stage.Name:
		return s.stage, nil
	case s.tissue.Name:
		return s.tissue, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDataset, name)
}

// Rows returns the submatrix for the given genes, rows in the requested
// order. The caller controls ordering; the store never reorders. Symbols
// absent from the dataset are skipped — the resolver is the authority on
// validity, so by the time Rows runs the list contains only present genes.
func (s *Store) Rows(name string, genes []string) (Submatrix, error) {
	m, err := s.Matrix(name)
	if err != nil {
		return Submatrix{}, err
	}

	sub := Submatrix{
		Dataset: name,
		Samples: m.Samples,
	}
	for _, gene := range genes {
		row, ok := m.Row(gene)
		if !ok {
			continue
		}
		sub.Genes = append(sub.Genes, Canonical(gene))
		sub.Values = append(sub.Values, row)
	}
	return sub, nil
}

// load dispatches on the configured format, falling back to the file
// extension.
func load(cfg types.DatasetConfig) (*ExpressionMatrix, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("dataset config missing name")
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("dataset %s: config missing path", cfg.Name)
	}

	switch format(cfg) {
	case types.FormatCSV:
		return LoadCSV(cfg.Name, cfg.Path)
	case types.FormatGCT:
		return LoadGCT(cfg.Name, cfg.Path)
	case types.FormatCache:
		return LoadCache(cfg.Name, cfg.Path)
	default:
		return nil, fmt.Errorf("dataset %s: cannot infer format of %s", cfg.Name, cfg.Path)
	}
}

func format(cfg types.DatasetConfig) types.DatasetFormat {
	if cfg.Format != "" {
		return cfg.Format
	}
	path := strings.TrimSuffix(cfg.Path, ".gz")
	switch {
	case strings.HasSuffix(path, ".csv"):
		return types.FormatCSV
	case strings.HasSuffix(path, ".gct"):
		return types.FormatGCT
	case strings.HasSuffix(path, ".db"), strings.HasSuffix(path, ".sqlite"):
		return types.FormatCache
	}
	return ""
}
