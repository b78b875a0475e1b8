// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the full heatmap computation for one gene query:
// resolve the symbols, pull the submatrices, normalize, cluster, and package
// the two dataset results. The same logic runs for both reference datasets,
// parameterized only by which matrix the store supplies.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/pdiddy/heatmap-engine/internal/cluster"
	"github.com/pdiddy/heatmap-engine/internal/dataset"
	"github.com/pdiddy/heatmap-engine/internal/genes"
	"github.com/pdiddy/heatmap-engine/internal/normalize"
	"github.com/pdiddy/heatmap-engine/pkg/types"
)

// DefaultMaxGenes caps resolved genes per request when no cap is configured.
const DefaultMaxGenes = 200

// Pipeline computes clustered heatmap payloads against a loaded store. It is
// stateless beyond its configuration and safe for concurrent use.
type Pipeline struct {
	store *dataset.Store
	cfg   types.PipelineConfig
}

// New returns a pipeline over the store, applying config defaults.
func New(store *dataset.Store, cfg types.PipelineConfig) *Pipeline {
	if cfg.MaxGenes <= 0 {
		cfg.MaxGenes = DefaultMaxGenes
	}
	return &Pipeline{store: store, cfg: cfg}
}

// Run resolves the raw gene fields and computes both clustered heatmaps.
// The two dataset computations are independent and run concurrently. Failure
// kinds: genes.ErrEmptyQuery, ErrNoValidGenes, ErrTooManyGenes for user
// input; dataset.ErrUnknownDataset and cluster.ErrDimensionMismatch for
// internal defects.
func (p *Pipeline) Run(ctx context.Context, rawGenes []string) (*types.HeatmapPayload, error) {
	resolved, err := genes.Resolve(rawGenes, p.store.Stage(), p.store.Tissue())
	if err != nil {
		return nil, err
	}
	if len(resolved.Valid) == 0 {
		return nil, &NoValidGenesError{Invalid: resolved.Invalid}
	}
	if len(resolved.Valid) > p.cfg.MaxGenes {
		return nil, fmt.Errorf("%w: %d resolved genes, cap is %d",
			ErrTooManyGenes, len(resolved.Valid), p.cfg.MaxGenes)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	names := [2]string{p.store.Stage().Name, p.store.Tissue().Name}
	var results [2]*types.DatasetResult
	var errs [2]error
	var wg sync.WaitGroup
	for i := range names {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = p.dataset(names[i], resolved.Valid)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	payload := &types.HeatmapPayload{
		Success:      true,
		ValidGenes:   resolved.Valid,
		InvalidGenes: resolved.Invalid,
		Stage:        results[0],
		Tissue:       results[1],
	}
	if payload.InvalidGenes == nil {
		payload.InvalidGenes = []string{}
	}
	return payload, nil
}

// dataset runs the per-dataset pipeline: submatrix, z-score, dual clustering,
// assembly.
func (p *Pipeline) dataset(name string, valid []string) (*types.DatasetResult, error) {
	sub, err := p.store.Rows(name, valid)
	if err != nil {
		return nil, err
	}

	norm := normalize.Rows(sub)

	ords, err := cluster.Order(norm.Values)
	if err != nil {
		return nil, fmt.Errorf("clustering dataset %s: %w", name, err)
	}

	return assemble(norm, ords), nil
}
