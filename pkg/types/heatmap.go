// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Merge records one internal node of a clustering hierarchy. Left and Right
// name the merged clusters: values below the leaf count are original row or
// column indices, values at or above it refer to the merge that created the
// cluster (leaf count + merge index).
type Merge struct {
	// Left is the merged cluster with the smaller minimum leaf index.
	Left int `json:"left" yaml:"left"`

	// Right is the other merged cluster.
	Right int `json:"right" yaml:"right"`

	// Distance is the average-linkage distance at which the merge happened.
	Distance float64 `json:"distance" yaml:"distance"`

	// Size is the number of leaves under the merged cluster.
	Size int `json:"size" yaml:"size"`
}

// DendrogramPayload carries the hierarchy behind one axis of a clustered
// heatmap, for callers that render the tree next to the matrix.
type DendrogramPayload struct {
	// Merges lists the n-1 merge events in the order they happened.
	Merges []Merge `json:"merges" yaml:"merges"`

	// Order is the left-to-right leaf traversal of the hierarchy, as original
	// indices. It is the permutation already applied to the result matrix.
	Order []int `json:"order" yaml:"order"`
}

// DatasetResult is one clustered heatmap: the normalized expression matrix
// with rows and columns permuted into dendrogram leaf order, plus the labels
// in that same order. Matrix cells are always finite; cells that were missing
// in the source are zero after normalization.
type DatasetResult struct {
	// Matrix is rows x columns (genes x samples) of z-score values.
	Matrix [][]float64 `json:"matrix" yaml:"matrix"`

	// Genes lists the row labels in post-clustering order.
	Genes []string `json:"genes" yaml:"genes"`

	// Samples lists the column labels in post-clustering order.
	Samples []string `json:"samples" yaml:"samples"`

	// RowDendrogram is the gene hierarchy, nil when fewer than two genes.
	RowDendrogram *DendrogramPayload `json:"row_dendrogram,omitempty" yaml:"row_dendrogram,omitempty"`

	// ColDendrogram is the sample hierarchy, nil when fewer than two samples.
	ColDendrogram *DendrogramPayload `json:"col_dendrogram,omitempty" yaml:"col_dendrogram,omitempty"`
}

// HeatmapPayload is the full response for one gene query: the two co-clustered
// dataset results plus the shared gene resolution metadata.
type HeatmapPayload struct {
	Success bool `json:"success" yaml:"success"`

	// Error is set only on failure responses assembled at the boundary.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// ValidGenes lists the resolved symbols, canonical form, query order.
	ValidGenes []string `json:"valid_genes" yaml:"valid_genes"`

	// InvalidGenes lists submitted symbols absent from at least one dataset,
	// as the user spelled them (trimmed).
	InvalidGenes []string `json:"invalid_genes" yaml:"invalid_genes"`

	// Stage is the developmental-stage heatmap.
	Stage *DatasetResult `json:"stage,omitempty" yaml:"stage,omitempty"`

	// Tissue is the tissue-type heatmap.
	Tissue *DatasetResult `json:"tissue,omitempty" yaml:"tissue,omitempty"`
}
