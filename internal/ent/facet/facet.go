// Package facet models the human-curated mapping from raw facet values to
// canonical ones. Tables are append-only: automatic reruns refresh counts
// and add new raw values, but a human decision is never overwritten.
package facet

import "sort"

// Pending marks a raw value that still awaits a human decision.
const Pending = "PENDING"

// Fields are the facet fields collected from dataset documents.
var Fields = []string{"typeOfData", "criteria", "platform"}

// MappingEntry is one row of a mapping table.
type MappingEntry struct {
	Raw          string
	NormalizedTo string
	Count        int
}

// Table is the mapping table of one facet field, entries sorted by raw
// value so that reruns produce byte-identical files.
type Table struct {
	Field   string
	Entries []MappingEntry
}

// MergeReport says what a merge changed, to drive the review workflow.
type MergeReport struct {
	// New lists raw values appended this run, sorted.
	New []string

	// Known is the number of raw values that already had an entry.
	Known int

	// Pending is the number of entries still awaiting review after the
	// merge, new ones included.
	Pending int
}

// Merge folds freshly tallied occurrence counts into an existing table.
// Existing entries keep their NormalizedTo and get their count refreshed;
// entries absent from the tally survive untouched; unseen raw values are
// appended with the Pending sentinel. Merging the same tally twice is a
// no-op.
func Merge(t Table, counts map[string]int) (Table, MergeReport) {
	var rep MergeReport

	idx := make(map[string]int, len(t.Entries))
	for i, e := range t.Entries {
		idx[e.Raw] = i
	}

	for raw, n := range counts {
		if i, ok := idx[raw]; ok {
			t.Entries[i].Count = n
			rep.Known++
			continue
		}
		t.Entries = append(t.Entries, MappingEntry{
			Raw:          raw,
			NormalizedTo: Pending,
			Count:        n,
		})
		rep.New = append(rep.New, raw)
	}

	sort.Slice(t.Entries, func(i, j int) bool {
		return t.Entries[i].Raw < t.Entries[j].Raw
	})
	sort.Strings(rep.New)

	for _, e := range t.Entries {
		if e.NormalizedTo == Pending {
			rep.Pending++
		}
	}
	return t, rep
}

// Canonical resolves a raw value through the table. Unmapped or pending
// values fall back to the raw value itself.
func (t Table) Canonical(raw string) string {
	for _, e := range t.Entries {
		if e.Raw == raw {
			if e.NormalizedTo == Pending || e.NormalizedTo == "" {
				return raw
			}
			return e.NormalizedTo
		}
	}
	return raw
}
