// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cluster implements agglomerative hierarchical clustering with
// average linkage over Euclidean distances, and derives the dendrogram leaf
// orderings that give a heatmap its block structure.
package cluster

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/pdiddy/heatmap-engine/internal/dataset"
)

// ErrDimensionMismatch reports ragged input vectors. Upstream contracts make
// this unreachable on well-formed requests; it is an internal invariant
// violation, fatal to the request.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// Matrix is a condensed symmetric distance matrix over n items, storing the
// strict upper triangle row-major.
type Matrix struct {
	n int
	d []float64
}

// Len returns the number of items.
func (m *Matrix) Len() int { return m.n }

// At returns the distance between items i and j. At(i, i) is 0.
func (m *Matrix) At(i, j int) float64 {
	if i == j {
		return 0
	}
	if i > j {
		i, j = j, i
	}
	return m.d[m.offset(i, j)]
}

func (m *Matrix) set(i, j int, v float64) {
	m.d[m.offset(i, j)] = v
}

// offset maps (i, j) with i < j into the condensed triangle.
func (m *Matrix) offset(i, j int) int {
	return i*(2*m.n-i-3)/2 + j - 1
}

// Distances computes all pairwise Euclidean distances between the vectors.
// For each pair only the dimensions where both values are present contribute;
// a dimension with a missing value on either side is excluded from that
// pair's sum entirely. A pair sharing no dimensions gets distance 0.
//
// Normalized input is finite by construction (the zero-variance fallback),
// so every produced distance is finite.
func Distances(vectors [][]float64) (*Matrix, error) {
	n := len(vectors)
	m := &Matrix{n: n}
	if n < 2 {
		return m, nil
	}

	dims := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dims {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, want %d", ErrDimensionMismatch, i, len(v), dims)
		}
	}

	m.d = make([]float64, n*(n-1)/2)
	a := make([]float64, 0, dims)
	b := make([]float64, 0, dims)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b = a[:0], b[:0]
			for k := 0; k < dims; k++ {
				vi, vj := vectors[i][k], vectors[j][k]
				if dataset.IsMissing(vi) || dataset.IsMissing(vj) {
					continue
				}
				a = append(a, vi)
				b = append(b, vj)
			}
			if len(a) > 0 {
				m.set(i, j, floats.Distance(a, b, 2))
			}
		}
	}
	return m, nil
}

// transpose flips a rows-by-cols matrix into column vectors, so the same
// distance and linkage code clusters samples over genes.
func transpose(values [][]float64) [][]float64 {
	if len(values) == 0 {
		return nil
	}
	cols := make([][]float64, len(values[0]))
	for j := range cols {
		col := make([]float64, len(values))
		for i := range values {
			col[i] = values[i][j]
		}
		cols[j] = col
	}
	return cols
}
