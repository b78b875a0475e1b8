// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize applies the per-gene z-score transform that makes
// expression rows comparable under a Euclidean metric.
package normalize

import (
	"gonum.org/v1/gonum/stat"

	"github.com/pdiddy/heatmap-engine/internal/dataset"
)

// Rows returns a copy of the submatrix with every row transformed to zero
// mean and unit variance across its non-missing cells. Mean and standard
// deviation (population form) ignore missing cells; missing cells keep their
// positions and stay missing in the output.
//
// A row with zero variance — constant, single-valued, or all-missing — is
// mapped to all zeros instead of dividing by zero. Such a gene carries no
// discriminating signal, and a zero row contributes nothing to downstream
// distances while keeping every value finite. This fallback is part of the
// contract, not an implementation accident.
func Rows(sub dataset.Submatrix) dataset.Submatrix {
	out := dataset.Submatrix{
		Dataset: sub.Dataset,
		Genes:   sub.Genes,
		Samples: sub.Samples,
		Values:  make([][]float64, len(sub.Values)),
	}
	for i, row := range sub.Values {
		out.Values[i] = Row(row)
	}
	return out
}

// Row z-scores a single row. See Rows for the zero-variance policy.
func Row(row []float64) []float64 {
	present := make([]float64, 0, len(row))
	for _, v := range row {
		if !dataset.IsMissing(v) {
			present = append(present, v)
		}
	}

	out := make([]float64, len(row))
	if len(present) == 0 {
		for i := range out {
			out[i] = dataset.Missing()
		}
		return out
	}

	mean := stat.Mean(present, nil)
	sigma := stat.PopStdDev(present, nil)

	for i, v := range row {
		switch {
		case dataset.IsMissing(v):
			out[i] = dataset.Missing()
		case sigma == 0:
			out[i] = 0
		default:
			out[i] = (v - mean) / sigma
		}
	}
	return out
}
