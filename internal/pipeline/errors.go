// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"errors"
	"fmt"

	"github.com/pdiddy/heatmap-engine/internal/genes"
)

// ErrTooManyGenes reports a query above the configured gene cap.
var ErrTooManyGenes = errors.New("too many genes")

// ErrNoValidGenes reports a query where every submitted symbol failed to
// resolve. Partial resolution is not an error; this fires only when there is
// nothing left to cluster.
var ErrNoValidGenes = errors.New("no valid genes")

// NoValidGenesError carries the unresolvable symbols so the boundary can
// still report them to the user. It matches ErrNoValidGenes under errors.Is.
type NoValidGenesError struct {
	Invalid []string
}

func (e *NoValidGenesError) Error() string {
	return fmt.Sprintf("no valid genes: none of the %d submitted symbol(s) found in both datasets", len(e.Invalid))
}

func (e *NoValidGenesError) Is(target error) bool { return target == ErrNoValidGenes }

// UserFacing reports whether err is an expected user-input condition whose
// message may be surfaced verbatim. Everything else is a programming or
// configuration defect: logged in full, surfaced generically.
func UserFacing(err error) bool {
	return errors.Is(err, genes.ErrEmptyQuery) ||
		errors.Is(err, ErrTooManyGenes) ||
		errors.Is(err, ErrNoValidGenes)
}

// Message returns the error text safe to hand to callers.
func Message(err error) string {
	if UserFacing(err) {
		return err.Error()
	}
	return "internal error"
}
