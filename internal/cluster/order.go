// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cluster

// Orderings holds the independent row and column clusterings of one matrix.
type Orderings struct {
	// Rows is the gene leaf ordering, a permutation of 0..rows-1.
	Rows []int

	// Cols is the sample leaf ordering, a permutation of 0..cols-1.
	Cols []int

	// RowTree and ColTree are the hierarchies behind the orderings.
	RowTree *Dendrogram
	ColTree *Dendrogram
}

// Order clusters the rows of values (genes over samples) and independently
// the columns (samples over genes), returning both leaf orderings. The input
// is the normalized matrix; missing cells are excluded per pair in the
// distance computation. The only failure mode is ErrDimensionMismatch on a
// ragged matrix.
func Order(values [][]float64) (Orderings, error) {
	rowDist, err := Distances(values)
	if err != nil {
		return Orderings{}, err
	}
	rowTree := Agglomerate(rowDist)

	colDist, err := Distances(transpose(values))
	if err != nil {
		return Orderings{}, err
	}
	colTree := Agglomerate(colDist)

	return Orderings{
		Rows:    rowTree.Leaves(),
		Cols:    colTree.Leaves(),
		RowTree: rowTree,
		ColTree: colTree,
	}, nil
}
