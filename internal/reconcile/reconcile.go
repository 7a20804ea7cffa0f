// Package reconcile diffs two arbitrary object collections by a derived key
// and applies the difference through caller-supplied batched actions. It is
// the shared core of the directory sync flows: project each side into a
// common shape, key both sides, compute adds and removes, dispatch.
//
// The engine performs no I/O and holds no state between runs; convergence is
// re-derived from the two live collections every time.
package reconcile

import (
	"errors"
	"fmt"
)

// ErrKeyRequired is returned when a reconciliation has no key selector.
var ErrKeyRequired = errors.New("reconcile: key selector is required")

// Reconciliation wires a source-of-truth collection and a current-state
// collection through their own projections into one existence diff, then
// hands the changed records to OnAdd and OnRemove.
//
// The two sides may have completely different raw types; both must project
// into the shared type P, from which Key derives the match key.
type Reconciliation[S, T, P any] struct {
	// Source is the authoritative collection: the desired end state.
	Source       []S
	SourceFilter func(S) bool
	SourceMap    func(S) (P, error)

	// Target is the observed collection, reconciled toward Source.
	Target       []T
	TargetFilter func(T) bool
	TargetMap    func(T) (P, error)

	// Key derives the match key from a projected record. The engine
	// normalizes it (trim, lower-case) before use.
	Key func(P) string

	// SkipMapErrors applies to both sides' projections.
	SkipMapErrors bool

	// OnAdd receives every record present in Source but not Target, in one
	// call. OnRemove receives every record present in Target but not
	// Source, in one call. Either may be nil. Neither is invoked when its
	// list is empty, and neither is ever invoked more than once per run,
	// so an implementation can make a single bulk call for the whole list.
	OnAdd    func(adds []P) error
	OnRemove func(removes []P) error
}

// Result carries the computed delta and every record-level issue from both
// sides' projection and keying.
type Result[P any] struct {
	Delta  Delta[P]
	Issues []Issue
}

// Run executes one reconciliation pass: project both sides, key them,
// compute the delta, dispatch OnAdd then OnRemove.
//
// Action errors are not retried or suppressed. A failing OnAdd does not
// stop OnRemove from running; errors from both are joined so a failed
// directory mutation can never masquerade as convergence.
func (r Reconciliation[S, T, P]) Run() (Result[P], error) {
	var res Result[P]

	if r.Key == nil {
		return res, ErrKeyRequired
	}

	srcRecords, srcIssues, err := Project(r.Source, Projection[S, P]{
		Filter:        r.SourceFilter,
		Map:           r.SourceMap,
		SkipMapErrors: r.SkipMapErrors,
	})
	if err != nil {
		return res, fmt.Errorf("project source: %w", err)
	}
	res.Issues = append(res.Issues, tagSide(srcIssues, SideSource)...)

	tgtRecords, tgtIssues, err := Project(r.Target, Projection[T, P]{
		Filter:        r.TargetFilter,
		Map:           r.TargetMap,
		SkipMapErrors: r.SkipMapErrors,
	})
	if err != nil {
		return res, fmt.Errorf("project target: %w", err)
	}
	res.Issues = append(res.Issues, tagSide(tgtIssues, SideTarget)...)

	srcDict, srcKeyIssues := BuildDictionary(srcRecords, r.Key)
	res.Issues = append(res.Issues, tagSide(srcKeyIssues, SideSource)...)

	tgtDict, tgtKeyIssues := BuildDictionary(tgtRecords, r.Key)
	res.Issues = append(res.Issues, tagSide(tgtKeyIssues, SideTarget)...)

	res.Delta = ComputeDelta(srcDict, tgtDict)

	var addErr, removeErr error
	if len(res.Delta.Adds) > 0 && r.OnAdd != nil {
		if err := r.OnAdd(res.Delta.Adds); err != nil {
			addErr = fmt.Errorf("add action: %w", err)
		}
	}
	if len(res.Delta.Removes) > 0 && r.OnRemove != nil {
		if err := r.OnRemove(res.Delta.Removes); err != nil {
			removeErr = fmt.Errorf("remove action: %w", err)
		}
	}

	return res, errors.Join(addErr, removeErr)
}
