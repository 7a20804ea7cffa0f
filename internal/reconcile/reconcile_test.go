package reconcile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sourceRow and targetRow have deliberately different shapes to exercise
// per-side projections mapping into one shared record type.
type sourceRow struct {
	UserID      string
	DisplayName string
	Active      bool
}

type targetRow struct {
	MemberID string
}

type memberRec struct {
	ID   string
	Name string
}

func memberKey(m memberRec) string { return m.ID }

func newRun(source []sourceRow, target []targetRow) Reconciliation[sourceRow, targetRow, memberRec] {
	return Reconciliation[sourceRow, targetRow, memberRec]{
		Source: source,
		SourceMap: func(r sourceRow) (memberRec, error) {
			return memberRec{ID: r.UserID, Name: r.DisplayName}, nil
		},
		Target: target,
		TargetMap: func(r targetRow) (memberRec, error) {
			return memberRec{ID: r.MemberID}, nil
		},
		Key: memberKey,
	}
}

func TestRunRequiresKey(t *testing.T) {
	r := newRun(nil, nil)
	r.Key = nil
	_, err := r.Run()
	require.ErrorIs(t, err, ErrKeyRequired)
}

func TestRunDispatchesBatchedActions(t *testing.T) {
	r := newRun(
		[]sourceRow{{UserID: "a1", DisplayName: "Alice"}, {UserID: "b2", DisplayName: "Bob"}},
		[]targetRow{{MemberID: "b2"}, {MemberID: "c3"}},
	)

	var addCalls, removeCalls int
	var gotAdds, gotRemoves []memberRec
	r.OnAdd = func(adds []memberRec) error {
		addCalls++
		gotAdds = adds
		return nil
	}
	r.OnRemove = func(removes []memberRec) error {
		removeCalls++
		gotRemoves = removes
		return nil
	}

	res, err := r.Run()
	require.NoError(t, err)

	// Each action fires exactly once with the full changed set, never
	// once per record.
	assert.Equal(t, 1, addCalls)
	assert.Equal(t, 1, removeCalls)
	assert.Equal(t, []memberRec{{ID: "a1", Name: "Alice"}}, gotAdds)
	assert.Equal(t, []memberRec{{ID: "c3"}}, gotRemoves)
	assert.Equal(t, gotAdds, res.Delta.Adds)
	assert.Equal(t, gotRemoves, res.Delta.Removes)
}

func TestRunNoOpInvokesNothing(t *testing.T) {
	r := newRun(
		[]sourceRow{{UserID: "a"}, {UserID: "b"}},
		[]targetRow{{MemberID: "B"}, {MemberID: " a "}},
	)
	r.OnAdd = func([]memberRec) error {
		t.Fatal("OnAdd invoked for empty delta")
		return nil
	}
	r.OnRemove = func([]memberRec) error {
		t.Fatal("OnRemove invoked for empty delta")
		return nil
	}

	res, err := r.Run()
	require.NoError(t, err)
	assert.True(t, res.Delta.Empty())
	assert.Empty(t, res.Issues)
}

func TestRunIdempotence(t *testing.T) {
	source := []sourceRow{{UserID: "a1"}, {UserID: "b2"}}
	target := []targetRow{{MemberID: "b2"}, {MemberID: "c3"}}

	// First pass: apply the delta to the simulated target.
	r := newRun(source, target)
	r.OnAdd = func(adds []memberRec) error {
		for _, m := range adds {
			target = append(target, targetRow{MemberID: m.ID})
		}
		return nil
	}
	r.OnRemove = func(removes []memberRec) error {
		var kept []targetRow
		drop := make(map[string]bool, len(removes))
		for _, m := range removes {
			drop[NormalizeKey(m.ID)] = true
		}
		for _, row := range target {
			if !drop[NormalizeKey(row.MemberID)] {
				kept = append(kept, row)
			}
		}
		target = kept
		return nil
	}
	_, err := r.Run()
	require.NoError(t, err)

	// Second pass over the converged target: nothing to do.
	second := newRun(source, target)
	second.OnAdd = func([]memberRec) error {
		t.Fatal("OnAdd invoked on converged state")
		return nil
	}
	second.OnRemove = func([]memberRec) error {
		t.Fatal("OnRemove invoked on converged state")
		return nil
	}
	res, err := second.Run()
	require.NoError(t, err)
	assert.True(t, res.Delta.Empty())
}

func TestRunAddsBeforeRemoves(t *testing.T) {
	r := newRun([]sourceRow{{UserID: "a"}}, []targetRow{{MemberID: "b"}})

	var order []string
	r.OnAdd = func([]memberRec) error {
		order = append(order, "add")
		return nil
	}
	r.OnRemove = func([]memberRec) error {
		order = append(order, "remove")
		return nil
	}

	_, err := r.Run()
	require.NoError(t, err)
	assert.Equal(t, []string{"add", "remove"}, order)
}

func TestRunAddErrorDoesNotSuppressRemove(t *testing.T) {
	boom := errors.New("directory unavailable")
	r := newRun([]sourceRow{{UserID: "a"}}, []targetRow{{MemberID: "b"}})

	removeRan := false
	r.OnAdd = func([]memberRec) error { return boom }
	r.OnRemove = func([]memberRec) error {
		removeRan = true
		return nil
	}

	res, err := r.Run()
	require.ErrorIs(t, err, boom)
	assert.True(t, removeRan)
	assert.False(t, res.Delta.Empty())
}

func TestRunJoinsActionErrors(t *testing.T) {
	addErr := errors.New("add failed")
	removeErr := errors.New("remove failed")
	r := newRun([]sourceRow{{UserID: "a"}}, []targetRow{{MemberID: "b"}})
	r.OnAdd = func([]memberRec) error { return addErr }
	r.OnRemove = func([]memberRec) error { return removeErr }

	_, err := r.Run()
	require.ErrorIs(t, err, addErr)
	require.ErrorIs(t, err, removeErr)
}

func TestRunProjectionErrorAborts(t *testing.T) {
	boom := errors.New("bad record")
	r := newRun([]sourceRow{{UserID: "a"}}, nil)
	r.SourceMap = func(sourceRow) (memberRec, error) { return memberRec{}, boom }
	r.OnAdd = func([]memberRec) error {
		t.Fatal("OnAdd invoked after aborted projection")
		return nil
	}

	_, err := r.Run()
	require.ErrorIs(t, err, boom)
}

func TestRunSurfacesIssuesWithSides(t *testing.T) {
	r := newRun(
		[]sourceRow{{UserID: "X"}, {UserID: "x"}, {UserID: "  "}},
		[]targetRow{{MemberID: "x"}, {MemberID: " X "}},
	)

	res, err := r.Run()
	require.NoError(t, err)

	var collisions, missing []Issue
	for _, issue := range res.Issues {
		switch issue.Kind {
		case IssueKeyCollision:
			collisions = append(collisions, issue)
		case IssueMissingKey:
			missing = append(missing, issue)
		}
	}

	require.Len(t, collisions, 2)
	assert.Equal(t, SideSource, collisions[0].Side)
	assert.Equal(t, "x", collisions[0].Key)
	assert.Equal(t, SideTarget, collisions[1].Side)
	assert.Equal(t, "x", collisions[1].Key)

	require.Len(t, missing, 1)
	assert.Equal(t, SideSource, missing[0].Side)

	// First-inserted records win on both sides, so the surviving keys
	// still match and there is nothing to do.
	assert.True(t, res.Delta.Empty())
}

func TestRunFiltersApplyPerSide(t *testing.T) {
	r := newRun(
		[]sourceRow{{UserID: "a", Active: true}, {UserID: "b"}},
		[]targetRow{{MemberID: "a"}, {MemberID: "stale"}},
	)
	r.SourceFilter = func(row sourceRow) bool { return row.Active }
	r.TargetFilter = func(row targetRow) bool { return row.MemberID != "stale" }

	res, err := r.Run()
	require.NoError(t, err)
	assert.True(t, res.Delta.Empty())
}
