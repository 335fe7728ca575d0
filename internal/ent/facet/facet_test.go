package facet_test

import (
	"testing"

	"github.com/humandbs/humcat/internal/ent/facet"
	"github.com/stretchr/testify/assert"
)

func TestMergeEmptyTable(t *testing.T) {
	counts := map[string]int{
		"Whole genome sequencing": 12,
		"RNA-seq":                 3,
	}
	got, rep := facet.Merge(facet.Table{Field: "typeOfData"}, counts)

	assert.Equal(t, []facet.MappingEntry{
		{Raw: "RNA-seq", NormalizedTo: facet.Pending, Count: 3},
		{Raw: "Whole genome sequencing", NormalizedTo: facet.Pending, Count: 12},
	}, got.Entries)
	assert.Equal(t, []string{"RNA-seq", "Whole genome sequencing"}, rep.New)
	assert.Equal(t, 0, rep.Known)
	assert.Equal(t, 2, rep.Pending)
}

// A curator's decision survives reruns; counts refresh.
func TestMergeKeepsDecisions(t *testing.T) {
	table := facet.Table{
		Field: "typeOfData",
		Entries: []facet.MappingEntry{
			{Raw: "RNA-seq", NormalizedTo: "Transcriptome", Count: 3},
			{Raw: "WGS", NormalizedTo: facet.Pending, Count: 1},
		},
	}
	got, rep := facet.Merge(table, map[string]int{
		"RNA-seq": 7,
		"ChIP-seq": 2,
	})

	assert.Equal(t, []facet.MappingEntry{
		{Raw: "ChIP-seq", NormalizedTo: facet.Pending, Count: 2},
		{Raw: "RNA-seq", NormalizedTo: "Transcriptome", Count: 7},
		{Raw: "WGS", NormalizedTo: facet.Pending, Count: 1},
	}, got.Entries)
	assert.Equal(t, []string{"ChIP-seq"}, rep.New)
	assert.Equal(t, 1, rep.Known)
	assert.Equal(t, 2, rep.Pending)
}

// Entries absent from the current tally are never dropped.
func TestMergeKeepsAbsent(t *testing.T) {
	table := facet.Table{
		Entries: []facet.MappingEntry{
			{Raw: "Old value", NormalizedTo: "Canonical", Count: 5},
		},
	}
	got, _ := facet.Merge(table, map[string]int{"New value": 1})
	assert.Len(t, got.Entries, 2)
	assert.Equal(t, "Old value", got.Entries[1].Raw)
	assert.Equal(t, 5, got.Entries[1].Count)
}

// Merging the same tally twice changes nothing.
func TestMergeIdempotent(t *testing.T) {
	counts := map[string]int{"RNA-seq": 3, "WGS": 9}
	once, _ := facet.Merge(facet.Table{}, counts)
	twice, rep := facet.Merge(once, counts)

	assert.Equal(t, once.Entries, twice.Entries)
	assert.Empty(t, rep.New)
}

func TestCanonical(t *testing.T) {
	table := facet.Table{
		Entries: []facet.MappingEntry{
			{Raw: "RNA-seq", NormalizedTo: "Transcriptome"},
			{Raw: "WGS", NormalizedTo: facet.Pending},
		},
	}

	assert.Equal(t, "Transcriptome", table.Canonical("RNA-seq"))
	assert.Equal(t, "WGS", table.Canonical("WGS"))
	assert.Equal(t, "unknown", table.Canonical("unknown"))
}
