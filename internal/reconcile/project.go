package reconcile

import (
	"errors"
	"fmt"
)

// ErrMapperRequired is returned when a projection has no mapping function.
var ErrMapperRequired = errors.New("reconcile: mapping function is required")

// Projection describes how one side's raw records become keyable records:
// an optional filter, then a mapping into the shared projected type.
type Projection[R, P any] struct {
	// Filter decides which raw records participate. Nil accepts everything.
	Filter func(R) bool

	// Map shapes a raw record into the projected type. Required.
	Map func(R) (P, error)

	// SkipMapErrors makes a failing Map drop just that record (reported as
	// an Issue) instead of aborting the whole projection.
	SkipMapErrors bool
}

// Project applies Filter then Map to each record in order. The result
// preserves relative input order and is never nil; empty or nil input
// yields an empty slice.
func Project[R, P any](records []R, p Projection[R, P]) ([]P, []Issue, error) {
	if p.Map == nil {
		return nil, nil, ErrMapperRequired
	}

	out := make([]P, 0, len(records))
	var issues []Issue

	for n, rec := range records {
		if p.Filter != nil && !p.Filter(rec) {
			continue
		}

		mapped, err := p.Map(rec)
		if err != nil {
			if p.SkipMapErrors {
				issues = append(issues, Issue{Kind: IssueMapFailed, Index: n, Detail: err.Error()})
				continue
			}
			return nil, issues, fmt.Errorf("map record %d: %w", n, err)
		}

		out = append(out, mapped)
	}

	return out, issues, nil
}
