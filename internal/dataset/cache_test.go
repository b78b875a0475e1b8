// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"path/filepath"
	"strings"
	"testing"
)

func sampleMatrix(name string) *ExpressionMatrix {
	m := New(name, []string{"S1", "S2", "S3"})
	m.AddRow("TP53", []float64{1.5, 2.0, 3.5})
	m.AddRow("BRCA1", []float64{0, Missing(), 4.25})
	return m
}

func TestCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	src := sampleMatrix("stage")

	if err := ImportCache(path, src); err != nil {
		t.Fatal(err)
	}
	got, err := LoadCache("stage", path)
	if err != nil {
		t.Fatal(err)
	}

	if got.NumGenes() != src.NumGenes() || got.NumSamples() != src.NumSamples() {
		t.Fatalf("shape = %dx%d, want %dx%d",
			got.NumGenes(), got.NumSamples(), src.NumGenes(), src.NumSamples())
	}
	for i, gene := range src.Genes {
		if got.Genes[i] != gene {
			t.Errorf("gene order: Genes[%d] = %s, want %s", i, got.Genes[i], gene)
		}
	}

	row, ok := got.Row("BRCA1")
	if !ok {
		t.Fatal("BRCA1 missing after round trip")
	}
	if row[0] != 0 || row[2] != 4.25 {
		t.Errorf("BRCA1 row = %v", row)
	}
	if !IsMissing(row[1]) {
		t.Errorf("missing cell should survive the round trip, got %v", row[1])
	}
}

func TestCacheReimportReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	if err := ImportCache(path, sampleMatrix("stage")); err != nil {
		t.Fatal(err)
	}

	next := New("stage", []string{"S1"})
	next.AddRow("MYC", []float64{7})
	if err := ImportCache(path, next); err != nil {
		t.Fatal(err)
	}

	got, err := LoadCache("stage", path)
	if err != nil {
		t.Fatal(err)
	}
	if got.NumGenes() != 1 || !got.Has("MYC") {
		t.Errorf("reimport should replace rows, got genes %v", got.Genes)
	}
}

func TestCacheTwoDatasetsOneFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	if err := ImportCache(path, sampleMatrix("stage")); err != nil {
		t.Fatal(err)
	}
	if err := ImportCache(path, sampleMatrix("tissue")); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"stage", "tissue"} {
		m, err := LoadCache(name, path)
		if err != nil {
			t.Fatalf("LoadCache(%s): %v", name, err)
		}
		if m.Name != name || m.NumGenes() != 2 {
			t.Errorf("LoadCache(%s) = %s with %d genes", name, m.Name, m.NumGenes())
		}
	}
}

func TestLoadCacheUnknownName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	if err := ImportCache(path, sampleMatrix("stage")); err != nil {
		t.Fatal(err)
	}
	_, err := LoadCache("tissue", path)
	if err == nil || !strings.Contains(err.Error(), "not imported") {
		t.Errorf("err = %v, want not-imported error", err)
	}
}
