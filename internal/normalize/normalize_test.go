// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"math"
	"testing"

	"github.com/pdiddy/heatmap-engine/internal/dataset"
)

const tol = 1e-9

func meanVar(row []float64) (mean, variance float64) {
	n := 0
	for _, v := range row {
		if !dataset.IsMissing(v) {
			mean += v
			n++
		}
	}
	mean /= float64(n)
	for _, v := range row {
		if !dataset.IsMissing(v) {
			variance += (v - mean) * (v - mean)
		}
	}
	return mean, variance / float64(n)
}

func TestRowZeroMeanUnitVariance(t *testing.T) {
	tests := []struct {
		name string
		row  []float64
	}{
		{"plain", []float64{1, 2, 3, 4, 5}},
		{"large magnitudes", []float64{1000, 2000, 1500, 4000}},
		{"with missing", []float64{1, dataset.Missing(), 3, 5, dataset.Missing(), 9}},
		{"two values", []float64{2, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Row(tt.row)
			if len(got) != len(tt.row) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.row))
			}
			for i, v := range tt.row {
				if dataset.IsMissing(v) != dataset.IsMissing(got[i]) {
					t.Errorf("cell %d: missingness changed", i)
				}
			}
			mean, variance := meanVar(got)
			if math.Abs(mean) > tol {
				t.Errorf("mean = %g, want 0", mean)
			}
			if math.Abs(variance-1) > tol {
				t.Errorf("variance = %g, want 1", variance)
			}
		})
	}
}

func TestRowZeroVarianceFallback(t *testing.T) {
	tests := []struct {
		name string
		row  []float64
	}{
		{"constant", []float64{3, 3, 3, 3}},
		{"single value", []float64{7, dataset.Missing(), dataset.Missing()}},
		{"constant with missing", []float64{2, dataset.Missing(), 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Row(tt.row)
			for i, v := range got {
				if dataset.IsMissing(tt.row[i]) {
					if !dataset.IsMissing(v) {
						t.Errorf("cell %d: missing cell should stay missing", i)
					}
					continue
				}
				if v != 0 {
					t.Errorf("cell %d = %g, want exactly 0", i, v)
				}
				if math.IsInf(v, 0) || math.IsNaN(v) {
					t.Errorf("cell %d is non-finite", i)
				}
			}
		})
	}
}

func TestRowAllMissing(t *testing.T) {
	got := Row([]float64{dataset.Missing(), dataset.Missing()})
	for i, v := range got {
		if !dataset.IsMissing(v) {
			t.Errorf("cell %d = %g, want missing", i, v)
		}
	}
}

func TestRowsDoesNotMutateInput(t *testing.T) {
	sub := dataset.Submatrix{
		Dataset: "stage",
		Genes:   []string{"TP53", "BRCA1"},
		Samples: []string{"S1", "S2", "S3"},
		Values: [][]float64{
			{1, 2, 3},
			{4, 4, 4},
		},
	}
	out := Rows(sub)

	if sub.Values[0][0] != 1 || sub.Values[1][0] != 4 {
		t.Error("input rows were mutated; store rows are shared and read-only")
	}
	if out.Values[1][0] != 0 {
		t.Errorf("constant row cell = %g, want 0", out.Values[1][0])
	}
	if got := out.Values[0][1]; math.Abs(got) > tol {
		t.Errorf("middle of symmetric row = %g, want 0", got)
	}
}
