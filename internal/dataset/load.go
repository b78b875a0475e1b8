// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"bufio"
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// maxLineBytes bounds a single GCT line. GTEx releases carry tens of
// thousands of sample columns, so lines run to megabytes.
const maxLineBytes = 64 * 1024 * 1024

// LoadCSV reads a gene-indexed CSV: header row is the gene-column label
// followed by sample labels, each subsequent row is a gene symbol followed by
// numeric cells. Empty, "NA", and "NaN" cells become the missing marker.
func LoadCSV(name, path string) (*ExpressionMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(maybeGzip(f, path))
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", name, err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("dataset %s: header has no sample columns", name)
	}

	samples := make([]string, len(header)-1)
	for i, s := range header[1:] {
		samples[i] = strings.TrimSpace(s)
	}
	m := New(name, samples)

	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// The csv reader enforces a consistent field count itself.
			return nil, fmt.Errorf("reading %s line %d: %w", name, line, err)
		}

		values, err := parseCells(record[1:])
		if err != nil {
			return nil, fmt.Errorf("dataset %s line %d: %w", name, line, err)
		}
		if !m.AddRow(record[0], values) {
			fmt.Fprintf(os.Stderr, "warning: dataset %s: duplicate gene %s at line %d, keeping first\n",
				name, Canonical(record[0]), line)
		}
	}

	if m.NumGenes() == 0 {
		return nil, fmt.Errorf("dataset %s: no gene rows", name)
	}
	return m, nil
}

// LoadGCT reads a GCT v1.2 file: a "#1.2" version line, a dimensions line,
// then a tab-separated table whose first column is the gene identifier and
// whose optional second column is a description. Gene identifiers have any
// version suffix stripped ("SYMBOL.5" style); rows with no usable signal
// (all missing or all zero) are dropped, matching how the reference sources
// are preprocessed.
func LoadGCT(name, path string) (*ExpressionMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset %s: %w", name, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(maybeGzip(f, path))
	sc.Buffer(make([]byte, 1024*1024), maxLineBytes)

	if !sc.Scan() {
		return nil, fmt.Errorf("dataset %s: empty GCT file", name)
	}
	if v := strings.TrimSpace(sc.Text()); !strings.HasPrefix(v, "#1.") {
		return nil, fmt.Errorf("dataset %s: not a GCT file (version line %q)", name, v)
	}
	if !sc.Scan() {
		return nil, fmt.Errorf("dataset %s: missing GCT dimensions line", name)
	}
	if !sc.Scan() {
		return nil, fmt.Errorf("dataset %s: missing GCT header line", name)
	}

	header := strings.Split(sc.Text(), "\t")
	// Name column, then an optional Description column, then samples.
	dataStart := 1
	if len(header) > 1 && strings.EqualFold(strings.TrimSpace(header[1]), "description") {
		dataStart = 2
	}
	if len(header) <= dataStart {
		return nil, fmt.Errorf("dataset %s: GCT header has no sample columns", name)
	}
	samples := make([]string, len(header)-dataStart)
	for i, s := range header[dataStart:] {
		samples[i] = strings.TrimSpace(s)
	}
	m := New(name, samples)

	dropped := 0
	for line := 4; sc.Scan(); line++ {
		fields := strings.Split(sc.Text(), "\t")
		if len(fields) != len(header) {
			return nil, fmt.Errorf("dataset %s line %d: %d cells, want %d", name, line, len(fields), len(header))
		}

		values, err := parseCells(fields[dataStart:])
		if err != nil {
			return nil, fmt.Errorf("dataset %s line %d: %w", name, line, err)
		}
		if !hasSignal(values) {
			dropped++
			continue
		}
		if !m.AddRow(stripVersion(fields[0]), values) {
			fmt.Fprintf(os.Stderr, "warning: dataset %s: duplicate gene %s at line %d, keeping first\n",
				name, Canonical(stripVersion(fields[0])), line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", name, err)
	}

	if dropped > 0 {
		fmt.Fprintf(os.Stderr, "dataset %s: dropped %d rows with no signal\n", name, dropped)
	}
	if m.NumGenes() == 0 {
		return nil, fmt.Errorf("dataset %s: no gene rows", name)
	}
	return m, nil
}

// maybeGzip wraps r in a gzip reader when the path has a .gz suffix. A
// corrupt gzip stream surfaces as a read error from the caller's parser.
func maybeGzip(r io.Reader, path string) io.Reader {
	if !strings.HasSuffix(path, ".gz") {
		return r
	}
	gz, err := gzip.NewReader(r)
	if err != nil {
		return errReader{err}
	}
	return gz
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }

// parseCells converts raw cells to values, mapping empty/NA cells to the
// missing marker.
func parseCells(cells []string) ([]float64, error) {
	values := make([]float64, len(cells))
	for i, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" || strings.EqualFold(c, "na") || strings.EqualFold(c, "nan") {
			values[i] = Missing()
			continue
		}
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return nil, fmt.Errorf("cell %d: parsing %q: %w", i+1, c, err)
		}
		values[i] = v
	}
	return values, nil
}

// hasSignal reports whether at least one cell is present and nonzero.
func hasSignal(values []float64) bool {
	for _, v := range values {
		if !IsMissing(v) && v != 0 {
			return true
		}
	}
	return false
}

// stripVersion removes a trailing ".N" version from a gene identifier, as in
// "ENSG00000141510.16" -> "ENSG00000141510". Plain symbols pass through.
func stripVersion(id string) string {
	if i := strings.IndexByte(id, '.'); i > 0 {
		return id[:i]
	}
	return id
}
