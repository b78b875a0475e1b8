// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// The cache is a SQLite database written once by `datasets import` and read
// at startup. Parsing a GTEx-scale GCT takes minutes; loading the cache takes
// seconds. Rows are stored as JSON arrays with null marking missing cells.

// ImportCache writes the matrix into a SQLite cache at path, replacing any
// previous copy of the same dataset name.
func ImportCache(path string, m *ExpressionMatrix) error {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("opening cache %s: %w", path, err)
	}
	defer db.Close()

	if err := createCacheSchema(db); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting cache transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM expression WHERE dataset = ?`, m.Name); err != nil {
		return fmt.Errorf("clearing cached rows: %w", err)
	}

	samples, err := json.Marshal(m.Samples)
	if err != nil {
		return fmt.Errorf("encoding samples: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO datasets (name, samples) VALUES (?, ?)`,
		m.Name, string(samples),
	); err != nil {
		return fmt.Errorf("writing dataset record: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO expression (dataset, gene, pos, row) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing row insert: %w", err)
	}
	defer stmt.Close()

	for i, gene := range m.Genes {
		row, err := encodeRow(m.Values[i])
		if err != nil {
			return fmt.Errorf("encoding row %s: %w", gene, err)
		}
		if _, err := stmt.Exec(m.Name, gene, i, row); err != nil {
			return fmt.Errorf("writing row %s: %w", gene, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing cache: %w", err)
	}
	return nil
}

// LoadCache reads the named dataset from a SQLite cache at path.
func LoadCache(name, path string) (*ExpressionMatrix, error) {
	db, err := sql.Open("sqlite3", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	defer db.Close()

	var samplesJSON string
	err = db.QueryRow(`SELECT samples FROM datasets WHERE name = ?`, name).Scan(&samplesJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("cache %s: dataset %q not imported", path, name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading dataset record: %w", err)
	}

	var samples []string
	if err := json.Unmarshal([]byte(samplesJSON), &samples); err != nil {
		return nil, fmt.Errorf("decoding samples: %w", err)
	}
	m := New(name, samples)

	rows, err := db.Query(
		`SELECT gene, row FROM expression WHERE dataset = ? ORDER BY pos`, name)
	if err != nil {
		return nil, fmt.Errorf("reading cached rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var gene, rowJSON string
		if err := rows.Scan(&gene, &rowJSON); err != nil {
			return nil, fmt.Errorf("scanning cached row: %w", err)
		}
		values, err := decodeRow(rowJSON)
		if err != nil {
			return nil, fmt.Errorf("decoding row %s: %w", gene, err)
		}
		if len(values) != len(samples) {
			return nil, fmt.Errorf("cache %s: row %s has %d cells, want %d", path, gene, len(values), len(samples))
		}
		m.AddRow(gene, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading cached rows: %w", err)
	}

	if m.NumGenes() == 0 {
		return nil, fmt.Errorf("cache %s: dataset %q has no rows", path, name)
	}
	return m, nil
}

func createCacheSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS datasets (
			name TEXT PRIMARY KEY,
			samples TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS expression (
			dataset TEXT NOT NULL,
			gene TEXT NOT NULL,
			pos INTEGER NOT NULL,
			row TEXT NOT NULL,
			PRIMARY KEY (dataset, gene)
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("executing cache schema statement: %w", err)
		}
	}
	return nil
}

// encodeRow writes values as a JSON array, null for missing cells (NaN is
// not representable in JSON).
func encodeRow(values []float64) (string, error) {
	cells := make([]*float64, len(values))
	for i := range values {
		if !IsMissing(values[i]) {
			cells[i] = &values[i]
		}
	}
	b, err := json.Marshal(cells)
	return string(b), err
}

func decodeRow(rowJSON string) ([]float64, error) {
	var cells []*float64
	if err := json.Unmarshal([]byte(rowJSON), &cells); err != nil {
		return nil, err
	}
	values := make([]float64, len(cells))
	for i, c := range cells {
		if c == nil {
			values[i] = Missing()
		} else {
			values[i] = *c
		}
	}
	return values, nil
}
