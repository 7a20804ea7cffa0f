package reconcile

import "strings"

// NormalizeKey trims surrounding whitespace and lower-cases, so that keys
// differing only in case or padding match across source and target.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Dictionary is a keyed collection built from one side of a reconciliation.
// It remembers insertion order so delta output stays deterministic relative
// to its input.
type Dictionary[P any] struct {
	keys    []string
	entries map[string]P
}

// BuildDictionary keys each record by normalize(key(record)).
//
// A record whose key is empty after normalization is excluded and reported.
// A record whose key is already present is dropped (the first-inserted
// record wins) and reported. Neither condition aborts the build; partial
// data beats a hard stop in an operational sync.
func BuildDictionary[P any](records []P, key func(P) string) (*Dictionary[P], []Issue) {
	d := &Dictionary[P]{entries: make(map[string]P, len(records))}
	var issues []Issue

	for n, rec := range records {
		k := NormalizeKey(key(rec))
		if k == "" {
			issues = append(issues, Issue{Kind: IssueMissingKey, Index: n})
			continue
		}
		if _, exists := d.entries[k]; exists {
			issues = append(issues, Issue{Kind: IssueKeyCollision, Key: k, Index: n})
			continue
		}
		d.keys = append(d.keys, k)
		d.entries[k] = rec
	}

	return d, issues
}

// Len reports the number of keyed records.
func (d *Dictionary[P]) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Has reports whether the normalized form of key is present.
func (d *Dictionary[P]) Has(key string) bool {
	if d == nil {
		return false
	}
	_, ok := d.entries[NormalizeKey(key)]
	return ok
}

// Get returns the record stored under the normalized form of key.
func (d *Dictionary[P]) Get(key string) (P, bool) {
	if d == nil {
		var zero P
		return zero, false
	}
	rec, ok := d.entries[NormalizeKey(key)]
	return rec, ok
}

// Keys returns the normalized keys in insertion order.
func (d *Dictionary[P]) Keys() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}
