package facetio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/humandbs/humcat/internal/ent/facet"
	"github.com/stretchr/testify/assert"
)

func TestReadWriteTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typeOfData.tsv")
	table := facet.Table{
		Field: "typeOfData",
		Entries: []facet.MappingEntry{
			{Raw: "RNA-seq", NormalizedTo: "Transcriptome", Count: 3},
			{Raw: "WGS", NormalizedTo: facet.Pending, Count: 9},
		},
	}

	err := writeTable(path, table)
	assert.NoError(t, err)

	got, err := readTable(path, "typeOfData")
	assert.NoError(t, err)
	assert.Equal(t, table, got)
}

func TestReadTableMissing(t *testing.T) {
	got, err := readTable(filepath.Join(t.TempDir(), "nope.tsv"), "criteria")
	assert.NoError(t, err)
	assert.Equal(t, facet.Table{Field: "criteria"}, got)
}

// Hand-edited files can carry short or odd lines; they are dropped, not
// fatal.
func TestReadTableForgiving(t *testing.T) {
	path := filepath.Join(t.TempDir(), "platform.tsv")
	content := "HiSeq 2500\tIllumina HiSeq 2500\t4\n" +
		"loner\n" +
		"MiSeq\tIllumina MiSeq\tnot-a-number\n"
	err := os.WriteFile(path, []byte(content), 0644)
	assert.NoError(t, err)

	got, err := readTable(path, "platform")
	assert.NoError(t, err)
	assert.Equal(t, []facet.MappingEntry{
		{Raw: "HiSeq 2500", NormalizedTo: "Illumina HiSeq 2500", Count: 4},
		{Raw: "MiSeq", NormalizedTo: "Illumina MiSeq", Count: 0},
	}, got.Entries)
}

// Raw values may contain spaces and parentheses; the round trip keeps
// them intact.
func TestTableRoundTripOddValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.tsv")
	table := facet.Table{
		Field: "criteria",
		Entries: []facet.MappingEntry{
			{Raw: "Controlled-access (Type I)", NormalizedTo: facet.Pending, Count: 1},
		},
	}

	assert.NoError(t, writeTable(path, table))
	got, err := readTable(path, "criteria")
	assert.NoError(t, err)
	assert.Equal(t, table, got)
}
