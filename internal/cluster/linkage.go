// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cluster

// Merge is one internal node of the dendrogram. Left and Right identify the
// merged clusters: ids below the leaf count are leaves, id leafCount+k is the
// cluster created by merge k. Left is always the side holding the smaller
// minimum original index, which fixes the traversal direction and makes leaf
// orderings reproducible.
type Merge struct {
	Left     int
	Right    int
	Distance float64
	Size     int
}

// Dendrogram is the binary merge hierarchy over n leaves: n-1 merges in the
// order they happened.
type Dendrogram struct {
	leaves int
	Merges []Merge
}

// Len returns the number of leaves.
func (t *Dendrogram) Len() int { return t.leaves }

// Agglomerate builds the average-linkage hierarchy over the items of d.
// At every step the two closest active clusters merge; inter-cluster distance
// is the unweighted mean of all pairwise member distances, maintained with
// the Lance-Williams update. Ties break deterministically toward the pair
// whose first cluster holds the lowest original index, then the lowest
// second-cluster index.
func Agglomerate(d *Matrix) *Dendrogram {
	n := d.Len()
	t := &Dendrogram{leaves: n}
	if n < 2 {
		return t
	}

	// Working distances over cluster slots: leaves occupy 0..n-1, merge k
	// creates slot n+k. Quadratic memory in 2n-1 is fine at request scale
	// (requests are capped well below thousands of genes).
	total := 2*n - 1
	work := make([][]float64, total)
	for i := range work {
		work[i] = make([]float64, total)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			work[i][j] = d.At(i, j)
			work[j][i] = work[i][j]
		}
	}

	size := make([]int, total)
	minLeaf := make([]int, total)
	for i := 0; i < n; i++ {
		size[i] = 1
		minLeaf[i] = i
	}

	// active holds live cluster slots ordered by minimum original leaf
	// index. Scanning pairs in this order with a strict < comparison is
	// exactly the index tie-break.
	active := make([]int, n)
	for i := range active {
		active[i] = i
	}

	for step := 0; step < n-1; step++ {
		bi, bj := -1, -1
		best := 0.0
		for p := 0; p < len(active); p++ {
			for q := p + 1; q < len(active); q++ {
				dist := work[active[p]][active[q]]
				if bi == -1 || dist < best {
					best = dist
					bi, bj = p, q
				}
			}
		}

		i, j := active[bi], active[bj]
		merged := n + step
		size[merged] = size[i] + size[j]
		minLeaf[merged] = minLeaf[i] // active is ordered, so i holds the minimum

		// Unweighted average linkage: the mean over all member pairs of the
		// two clusters is a size-weighted mean of the cluster distances.
		for _, k := range active {
			if k == i || k == j {
				continue
			}
			dk := (float64(size[i])*work[i][k] + float64(size[j])*work[j][k]) / float64(size[merged])
			work[merged][k] = dk
			work[k][merged] = dk
		}

		t.Merges = append(t.Merges, Merge{
			Left:     i,
			Right:    j,
			Distance: best,
			Size:     size[merged],
		})

		// Replace i with the merged cluster (same minLeaf, so ordering of
		// active is preserved) and drop j.
		active[bi] = merged
		active = append(active[:bj], active[bj+1:]...)
	}

	return t
}

// Leaves returns the left-to-right leaf ordering of the dendrogram: a
// depth-first traversal taking the Left child first at every node. Leaves
// merged early stay adjacent, which is what produces coherent heatmap blocks.
// The result is always a permutation of 0..n-1; n=0 yields an empty ordering
// and n=1 yields [0].
func (t *Dendrogram) Leaves() []int {
	order := make([]int, 0, t.leaves)
	if t.leaves == 0 {
		return order
	}
	if len(t.Merges) == 0 {
		for i := 0; i < t.leaves; i++ {
			order = append(order, i)
		}
		return order
	}

	var walk func(id int)
	walk = func(id int) {
		if id < t.leaves {
			order = append(order, id)
			return
		}
		m := t.Merges[id-t.leaves]
		walk(m.Left)
		walk(m.Right)
	}
	walk(t.leaves + len(t.Merges) - 1)
	return order
}
