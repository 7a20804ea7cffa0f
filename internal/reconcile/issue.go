package reconcile

import "fmt"

// IssueKind classifies a record that was dropped or skipped while
// preparing one side of a reconciliation.
type IssueKind string

const (
	// IssueMapFailed means the mapping function returned an error and the
	// projection was configured to skip rather than abort.
	IssueMapFailed IssueKind = "map_failed"

	// IssueMissingKey means the record's key was empty after normalization.
	IssueMissingKey IssueKind = "missing_key"

	// IssueKeyCollision means another record already claimed the same
	// normalized key; the later record was dropped.
	IssueKeyCollision IssueKind = "key_collision"
)

// Side identifies which collection an issue came from.
type Side string

const (
	SideSource Side = "source"
	SideTarget Side = "target"
)

// Issue records one excluded record. Issues never abort a run; they are
// returned alongside results so callers can log or inspect what was dropped.
type Issue struct {
	Kind   IssueKind
	Side   Side
	Key    string // normalized key, empty when unknown
	Index  int    // position in the input sequence
	Detail string
}

func (i Issue) String() string {
	s := fmt.Sprintf("%s %s at index %d", i.Side, i.Kind, i.Index)
	if i.Key != "" {
		s += fmt.Sprintf(" (key %q)", i.Key)
	}
	if i.Detail != "" {
		s += ": " + i.Detail
	}
	return s
}

func tagSide(issues []Issue, side Side) []Issue {
	for n := range issues {
		issues[n].Side = side
	}
	return issues
}
