package reconcile

// Delta is the symmetric difference between a source and a target keyed
// collection: records to add to the target and records to remove from it.
// A key present on both sides contributes to neither list; the engine is
// existence-based and does not diff attributes.
type Delta[P any] struct {
	Adds    []P
	Removes []P
}

// Empty reports whether the delta requires no work.
func (d Delta[P]) Empty() bool {
	return len(d.Adds) == 0 && len(d.Removes) == 0
}

// ComputeDelta compares two keyed collections. Adds come out in the source's
// insertion order and Removes in the target's; callers needing any other
// ordering sort explicitly. Neither input is mutated.
func ComputeDelta[P any](source, target *Dictionary[P]) Delta[P] {
	var delta Delta[P]

	if source != nil {
		for _, k := range source.keys {
			if target == nil || !target.Has(k) {
				delta.Adds = append(delta.Adds, source.entries[k])
			}
		}
	}
	if target != nil {
		for _, k := range target.keys {
			if source == nil || !source.Has(k) {
				delta.Removes = append(delta.Removes, target.entries[k])
			}
		}
	}

	return delta
}
