// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/pdiddy/heatmap-engine/internal/cluster"
	"github.com/pdiddy/heatmap-engine/internal/dataset"
	"github.com/pdiddy/heatmap-engine/internal/genes"
	"github.com/pdiddy/heatmap-engine/pkg/types"
)

func testStore() *dataset.Store {
	stage := dataset.New("stage", []string{"E13", "P0", "P30", "Adult"})
	stage.AddRow("TP53", []float64{1, 2, 3, 4})
	stage.AddRow("BRCA1", []float64{1.1, 2.1, 3.1, 4.1})
	stage.AddRow("MYC", []float64{9, 1, 9, 1})
	stage.AddRow("FLAT", []float64{5, 5, 5, 5})
	stage.AddRow("GAPPY", []float64{2, dataset.Missing(), 4, 6})

	tissue := dataset.New("tissue", []string{"Cortex", "Liver", "Lung"})
	tissue.AddRow("TP53", []float64{1, 5, 2})
	tissue.AddRow("BRCA1", []float64{2, 6, 3})
	tissue.AddRow("MYC", []float64{8, 1, 1})
	tissue.AddRow("FLAT", []float64{3, 3, 3})
	tissue.AddRow("GAPPY", []float64{dataset.Missing(), 1, 7})

	return dataset.NewStore(stage, tissue)
}

func run(t *testing.T, p *Pipeline, rawGenes ...string) *types.HeatmapPayload {
	t.Helper()
	payload, err := p.Run(context.Background(), rawGenes)
	if err != nil {
		t.Fatal(err)
	}
	return payload
}

func checkFinite(t *testing.T, matrix [][]float64) {
	t.Helper()
	for r, row := range matrix {
		for c, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("matrix[%d][%d] = %v, payload must be finite", r, c, v)
			}
		}
	}
}

func TestRunResolvesAndClusters(t *testing.T) {
	p := New(testStore(), types.PipelineConfig{})
	payload := run(t, p, "TP53", "tp53", " BRCA1 ", "FAKEGENE123")

	if !payload.Success {
		t.Error("Success = false, want true")
	}
	if want := []string{"TP53", "BRCA1"}; !reflect.DeepEqual(payload.ValidGenes, want) {
		t.Errorf("ValidGenes = %v, want %v", payload.ValidGenes, want)
	}
	if want := []string{"FAKEGENE123"}; !reflect.DeepEqual(payload.InvalidGenes, want) {
		t.Errorf("InvalidGenes = %v, want %v", payload.InvalidGenes, want)
	}

	for name, ds := range map[string]*types.DatasetResult{"stage": payload.Stage, "tissue": payload.Tissue} {
		if ds == nil {
			t.Fatalf("%s result missing", name)
		}
		if len(ds.Matrix) != 2 {
			t.Errorf("%s: %d rows, want 2", name, len(ds.Matrix))
		}
		checkFinite(t, ds.Matrix)

		gs := ds.Genes
		if len(gs) != 2 || !((gs[0] == "TP53" && gs[1] == "BRCA1") || (gs[0] == "BRCA1" && gs[1] == "TP53")) {
			t.Errorf("%s: Genes = %v, want a permutation of [TP53 BRCA1]", name, ds.Genes)
		}
	}

	if got := len(payload.Stage.Samples); got != 4 {
		t.Errorf("stage samples = %d, want 4", got)
	}
	if got := len(payload.Tissue.Samples); got != 3 {
		t.Errorf("tissue samples = %d, want 3", got)
	}
}

func TestRunSingleConstantGene(t *testing.T) {
	p := New(testStore(), types.PipelineConfig{})
	payload := run(t, p, "FLAT")

	ds := payload.Stage
	if len(ds.Matrix) != 1 {
		t.Fatalf("rows = %d, want 1", len(ds.Matrix))
	}
	for c, v := range ds.Matrix[0] {
		if v != 0 {
			t.Errorf("cell %d = %g, want 0 for a constant gene", c, v)
		}
	}
	if ds.RowDendrogram != nil {
		t.Error("single-row matrix should carry no row dendrogram")
	}
	if ds.Genes[0] != "FLAT" {
		t.Errorf("Genes = %v", ds.Genes)
	}
	// Columns of a 1-gene matrix still cluster (over one dimension).
	if len(ds.Samples) != 4 {
		t.Errorf("Samples = %v", ds.Samples)
	}
}

func TestRunMissingCellsAreZeroInPayload(t *testing.T) {
	p := New(testStore(), types.PipelineConfig{})
	payload := run(t, p, "GAPPY", "TP53")

	checkFinite(t, payload.Stage.Matrix)
	checkFinite(t, payload.Tissue.Matrix)

	// The missing stage cell for GAPPY sits in sample P0; find it through
	// the permuted labels and confirm it is exactly zero.
	ds := payload.Stage
	ri, ci := -1, -1
	for i, g := range ds.Genes {
		if g == "GAPPY" {
			ri = i
		}
	}
	for i, s := range ds.Samples {
		if s == "P0" {
			ci = i
		}
	}
	if ri < 0 || ci < 0 {
		t.Fatalf("labels missing: genes %v samples %v", ds.Genes, ds.Samples)
	}
	if got := ds.Matrix[ri][ci]; got != 0 {
		t.Errorf("missing cell = %g, want 0", got)
	}
}

func TestRunDeterministic(t *testing.T) {
	p := New(testStore(), types.PipelineConfig{})
	a := run(t, p, "TP53", "BRCA1", "MYC", "FLAT", "GAPPY")
	b := run(t, p, "TP53", "BRCA1", "MYC", "FLAT", "GAPPY")

	if !reflect.DeepEqual(a, b) {
		t.Error("identical queries produced different payloads")
	}
}

func TestRunSimilarGenesAdjacent(t *testing.T) {
	// TP53 and BRCA1 have near-identical stage profiles; after clustering
	// they must be neighbors in the row ordering.
	p := New(testStore(), types.PipelineConfig{})
	payload := run(t, p, "TP53", "MYC", "BRCA1", "FLAT")

	pos := map[string]int{}
	for i, g := range payload.Stage.Genes {
		pos[g] = i
	}
	if diff := pos["TP53"] - pos["BRCA1"]; diff != 1 && diff != -1 {
		t.Errorf("TP53 and BRCA1 not adjacent in %v", payload.Stage.Genes)
	}
}

func TestRunEmptyQuery(t *testing.T) {
	p := New(testStore(), types.PipelineConfig{})
	for _, raw := range [][]string{nil, {""}, {"  \n "}, {",,"}} {
		_, err := p.Run(context.Background(), raw)
		if !errors.Is(err, genes.ErrEmptyQuery) {
			t.Errorf("Run(%q) err = %v, want ErrEmptyQuery", raw, err)
		}
	}
}

func TestRunNoValidGenes(t *testing.T) {
	p := New(testStore(), types.PipelineConfig{})
	_, err := p.Run(context.Background(), []string{"NOPE1", "NOPE2"})
	if !errors.Is(err, ErrNoValidGenes) {
		t.Fatalf("err = %v, want ErrNoValidGenes", err)
	}

	payload := FailurePayload(err)
	if payload.Success {
		t.Error("failure payload marked successful")
	}
	if want := []string{"NOPE1", "NOPE2"}; !reflect.DeepEqual(payload.InvalidGenes, want) {
		t.Errorf("InvalidGenes = %v, want %v", payload.InvalidGenes, want)
	}
}

func TestRunTooManyGenes(t *testing.T) {
	p := New(testStore(), types.PipelineConfig{MaxGenes: 2})
	_, err := p.Run(context.Background(), []string{"TP53", "BRCA1", "MYC"})
	if !errors.Is(err, ErrTooManyGenes) {
		t.Errorf("err = %v, want ErrTooManyGenes", err)
	}

	// Unresolvable symbols do not count against the cap.
	if _, err := p.Run(context.Background(), []string{"TP53", "BRCA1", "NOPE", "NADA"}); err != nil {
		t.Errorf("cap should apply to resolved genes only, got %v", err)
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		userFacing bool
	}{
		{"empty query", genes.ErrEmptyQuery, true},
		{"too many genes", ErrTooManyGenes, true},
		{"no valid genes", &NoValidGenesError{Invalid: []string{"X"}}, true},
		{"unknown dataset", dataset.ErrUnknownDataset, false},
		{"dimension mismatch", cluster.ErrDimensionMismatch, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserFacing(tt.err); got != tt.userFacing {
				t.Errorf("UserFacing = %v, want %v", got, tt.userFacing)
			}
			msg := Message(tt.err)
			if tt.userFacing && msg != tt.err.Error() {
				t.Errorf("Message = %q, want verbatim error text", msg)
			}
			if !tt.userFacing && msg != "internal error" {
				t.Errorf("Message = %q, want generic text for internal kinds", msg)
			}
		})
	}
}
