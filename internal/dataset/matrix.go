// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset loads and serves the two reference expression matrices.
// Matrices are read once at startup (CSV, GCT, or a SQLite cache) and are
// never mutated afterwards, so they are shared across requests without
// locking.
package dataset

import (
	"math"
	"strings"
)

// Canonical returns the canonical form of a gene symbol: surrounding
// whitespace trimmed, upper-cased. Matching everywhere in the engine is done
// on canonical symbols.
func Canonical(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ExpressionMatrix is one reference dataset: rows keyed by canonical gene
// symbol, columns in source order. Missing cells are NaN in memory; payloads
// never expose them (the assembler zeroes whatever survives normalization).
type ExpressionMatrix struct {
	Name    string
	Genes   []string
	Samples []string
	Values  [][]float64

	index map[string]int
}

// New returns an empty matrix with the given sample columns.
func New(name string, samples []string) *ExpressionMatrix {
	return &ExpressionMatrix{
		Name:    name,
		Samples: samples,
		index:   make(map[string]int),
	}
}

// AddRow appends a gene row. The symbol is canonicalized; a duplicate symbol
// is ignored (first occurrence wins) and reported by the false return.
func (m *ExpressionMatrix) AddRow(symbol string, values []float64) bool {
	gene := Canonical(symbol)
	if _, ok := m.index[gene]; ok {
		return false
	}
	m.index[gene] = len(m.Genes)
	m.Genes = append(m.Genes, gene)
	m.Values = append(m.Values, values)
	return true
}

// Has reports whether the canonical form of symbol is a row in the matrix.
func (m *ExpressionMatrix) Has(symbol string) bool {
	_, ok := m.index[Canonical(symbol)]
	return ok
}

// Row returns the expression values for a gene symbol.
func (m *ExpressionMatrix) Row(symbol string) ([]float64, bool) {
	i, ok := m.index[Canonical(symbol)]
	if !ok {
		return nil, false
	}
	return m.Values[i], true
}

// NumGenes returns the number of gene rows.
func (m *ExpressionMatrix) NumGenes() int { return len(m.Genes) }

// NumSamples returns the number of sample columns.
func (m *ExpressionMatrix) NumSamples() int { return len(m.Samples) }

// Submatrix is a selection of gene rows from one dataset, in caller order,
// over the dataset's full sample set. It is the unit the normalizer and the
// clustering engine operate on.
type Submatrix struct {
	Dataset string
	Genes   []string
	Samples []string
	Values  [][]float64
}

// IsMissing reports whether a cell value is the missing marker.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Missing is the in-memory marker for an absent cell.
func Missing() float64 { return math.NaN() }
