// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package genes parses user-supplied gene lists and resolves them against the
// reference datasets. The resolver is the authority on symbol validity: even
// when the HTTP layer has already split the input, every token is re-trimmed
// and re-cased here.
package genes

import (
	"errors"
	"strings"

	"github.com/pdiddy/heatmap-engine/internal/dataset"
)

// ErrEmptyQuery reports a query with no usable gene tokens after parsing.
var ErrEmptyQuery = errors.New("no gene symbols in query")

// Resolved partitions a query into symbols present in both datasets and
// symbols absent from at least one. The two lists never overlap and together
// cover the deduplicated query.
type Resolved struct {
	// Valid holds canonical symbols in first-seen query order.
	Valid []string

	// Invalid holds unresolvable symbols as the user spelled them (trimmed),
	// in first-seen query order.
	Invalid []string
}

// isDelimiter reports whether r separates gene tokens. Runs of delimiters
// collapse to a single split point.
func isDelimiter(r rune) bool {
	return r == ',' || r == ';' || r == '\t' || r == '\n' || r == '\r' || r == ' '
}

// Tokenize splits raw input into trimmed gene tokens, deduplicated
// case-insensitively with first-seen order preserved. Tokenizing already
// clean tokens is a no-op.
func Tokenize(fields ...string) []string {
	var tokens []string
	seen := make(map[string]bool)
	for _, field := range fields {
		for _, tok := range strings.FieldsFunc(field, isDelimiter) {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			key := dataset.Canonical(tok)
			if seen[key] {
				continue
			}
			seen[key] = true
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Resolve parses the raw fields and partitions the resulting symbols against
// the two datasets. A symbol is valid only when present in both: a gene the
// tissue dataset lacks cannot appear in one heatmap and not the other.
// Unknown genes are reported in Invalid, never rejected; a query that yields
// no tokens at all fails with ErrEmptyQuery.
func Resolve(fields []string, a, b *dataset.ExpressionMatrix) (Resolved, error) {
	tokens := Tokenize(fields...)
	if len(tokens) == 0 {
		return Resolved{}, ErrEmptyQuery
	}

	var res Resolved
	for _, tok := range tokens {
		if a.Has(tok) && b.Has(tok) {
			res.Valid = append(res.Valid, dataset.Canonical(tok))
		} else {
			res.Invalid = append(res.Invalid, tok)
		}
	}
	return res, nil
}
