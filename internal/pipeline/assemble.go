// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/pdiddy/heatmap-engine/internal/cluster"
	"github.com/pdiddy/heatmap-engine/internal/dataset"
	"github.com/pdiddy/heatmap-engine/pkg/types"
)

// assemble packages one normalized submatrix and its orderings into a
// payload. Pure reshaping: rows and columns are permuted into leaf order,
// labels follow, and any cell still missing after normalization becomes 0 so
// the payload carries only finite numbers.
func assemble(norm dataset.Submatrix, ords cluster.Orderings) *types.DatasetResult {
	matrix := make([][]float64, len(ords.Rows))
	for r, ri := range ords.Rows {
		row := make([]float64, len(ords.Cols))
		for c, ci := range ords.Cols {
			v := norm.Values[ri][ci]
			if dataset.IsMissing(v) {
				v = 0
			}
			row[c] = v
		}
		matrix[r] = row
	}

	result := &types.DatasetResult{
		Matrix:  matrix,
		Genes:   permute(norm.Genes, ords.Rows),
		Samples: permute(norm.Samples, ords.Cols),
	}
	if len(ords.RowTree.Merges) > 0 {
		result.RowDendrogram = dendrogramPayload(ords.RowTree, ords.Rows)
	}
	if len(ords.ColTree.Merges) > 0 {
		result.ColDendrogram = dendrogramPayload(ords.ColTree, ords.Cols)
	}
	return result
}

func permute(labels []string, order []int) []string {
	out := make([]string, len(order))
	for i, idx := range order {
		out[i] = labels[idx]
	}
	return out
}

func dendrogramPayload(t *cluster.Dendrogram, order []int) *types.DendrogramPayload {
	merges := make([]types.Merge, len(t.Merges))
	for i, m := range t.Merges {
		merges[i] = types.Merge{
			Left:     m.Left,
			Right:    m.Right,
			Distance: m.Distance,
			Size:     m.Size,
		}
	}
	return &types.DendrogramPayload{Merges: merges, Order: order}
}

// FailurePayload builds the structured error response for a failed run,
// carrying the unresolvable symbols when the failure kind knows them.
func FailurePayload(err error) *types.HeatmapPayload {
	payload := &types.HeatmapPayload{
		Success:      false,
		Error:        Message(err),
		InvalidGenes: []string{},
	}
	var nvg *NoValidGenesError
	if errors.As(err, &nvg) {
		payload.InvalidGenes = nvg.Invalid
	}
	return payload
}

// FormatSummary writes a short human-readable account of a successful run.
func FormatSummary(p *types.HeatmapPayload, w io.Writer) {
	fmt.Fprintf(w, "%d gene(s) resolved", len(p.ValidGenes))
	if len(p.InvalidGenes) > 0 {
		fmt.Fprintf(w, ", %d not found: %v", len(p.InvalidGenes), p.InvalidGenes)
	}
	fmt.Fprintln(w)
	for _, ds := range []struct {
		name   string
		result *types.DatasetResult
	}{{"stage", p.Stage}, {"tissue", p.Tissue}} {
		if ds.result == nil {
			continue
		}
		fmt.Fprintf(w, "%-7s %d x %d  genes: %v\n",
			ds.name, len(ds.result.Genes), len(ds.result.Samples), ds.result.Genes)
	}
}

// FormatJSON writes the payload as indented JSON.
func FormatJSON(p *types.HeatmapPayload, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
