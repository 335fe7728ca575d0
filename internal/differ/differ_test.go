package differ_test

import (
	"testing"

	"github.com/humandbs/humcat/internal/differ"
	"github.com/humandbs/humcat/internal/ent/record"
	"github.com/stretchr/testify/assert"
)

func kv(key, text string) record.KV {
	return record.KV{Key: key, Value: record.Value{Text: text}}
}

func TestFoldUnchangedContent(t *testing.T) {
	block := record.MolecularDataBlock{
		IDs:  []string{"JGAD000123"},
		Data: []record.KV{kv("Platform", "HiSeq 2500"), kv("Samples", "512")},
	}

	d1 := record.ParsedDetail{
		HumID: "hum0006", HumVersionID: "hum0006-v1", Version: 1,
		MolecularData: []record.MolecularDataBlock{block},
	}
	d2 := d1
	d2.HumVersionID, d2.Version = "hum0006-v2", 2

	res, warns := differ.Fold([]record.ParsedDetail{d1, d2})
	assert.Empty(t, warns)

	ds := res["JGAD000123"]
	if assert.NotNil(t, ds) {
		assert.Len(t, ds.Versions, 1)
		assert.Equal(t, []string{"hum0006-v1", "hum0006-v2"},
			ds.Versions[0].HumVersionIDs)
		assert.Equal(t, "JGAD000123", ds.AccessionID)
	}
}

func TestFoldChangedContent(t *testing.T) {
	b1 := record.MolecularDataBlock{
		IDs:  []string{"JGAD000123"},
		Data: []record.KV{kv("Samples", "512")},
	}
	b2 := record.MolecularDataBlock{
		IDs:  []string{"JGAD000123"},
		Data: []record.KV{kv("Samples", "1024")},
	}

	d1 := record.ParsedDetail{
		HumID: "hum0006", HumVersionID: "hum0006-v1", Version: 1,
		MolecularData: []record.MolecularDataBlock{b1},
	}
	d2 := record.ParsedDetail{
		HumID: "hum0006", HumVersionID: "hum0006-v2", Version: 2,
		MolecularData: []record.MolecularDataBlock{b2},
	}

	res, _ := differ.Fold([]record.ParsedDetail{d1, d2})
	ds := res["JGAD000123"]
	if assert.NotNil(t, ds) {
		assert.Len(t, ds.Versions, 2)
		assert.Equal(t, 1, ds.Versions[0].Version)
		assert.Equal(t, 2, ds.Versions[1].Version)
		assert.Equal(t, "JGAD000123-v2", ds.Versions[1].ID())
	}
}

// Row reordering is not a content change.
func TestFingerprintOrderInsensitive(t *testing.T) {
	a := record.MolecularDataBlock{
		Data: []record.KV{kv("Platform", "HiSeq 2500"), kv("Samples", "512")},
	}
	b := record.MolecularDataBlock{
		Data: []record.KV{kv("Samples", "512"), kv("Platform", "HiSeq 2500")},
	}
	assert.Equal(t, differ.Fingerprint(a), differ.Fingerprint(b))

	c := record.MolecularDataBlock{
		Data: []record.KV{kv("Samples", "513"), kv("Platform", "HiSeq 2500")},
	}
	assert.NotEqual(t, differ.Fingerprint(a), differ.Fingerprint(c))
}

func TestFingerprintFooters(t *testing.T) {
	a := record.MolecularDataBlock{Footers: []string{"* NA: not available"}}
	b := record.MolecularDataBlock{Footers: []string{"* NA means missing"}}
	assert.NotEqual(t, differ.Fingerprint(a), differ.Fingerprint(b))
}

func TestFoldMetadataAccumulates(t *testing.T) {
	block := record.MolecularDataBlock{
		IDs:  []string{"JGAD000123"},
		Data: []record.KV{kv("Samples", "512")},
	}
	ref := record.RawDatasetRef{
		IDText:      "JGAD000123",
		TypeOfData:  "Whole genome sequencing",
		Criteria:    "Controlled-access (Type I)",
		ReleaseDate: "2015-06-01",
	}

	d1 := record.ParsedDetail{
		HumID: "hum0006", HumVersionID: "hum0006-v1", Version: 1,
		Datasets:      []record.RawDatasetRef{ref},
		MolecularData: []record.MolecularDataBlock{block},
	}
	ref2 := ref
	ref2.ReleaseDate = "2016-03-01"
	d2 := record.ParsedDetail{
		HumID: "hum0006", HumVersionID: "hum0006-v2", Version: 2,
		Datasets:      []record.RawDatasetRef{ref2},
		MolecularData: []record.MolecularDataBlock{block},
	}

	res, _ := differ.Fold([]record.ParsedDetail{d1, d2})
	ds := res["JGAD000123"]
	if assert.NotNil(t, ds) && assert.Len(t, ds.Versions, 1) {
		v := ds.Versions[0]
		assert.Equal(t, []string{
			"Whole genome sequencing", "Whole genome sequencing"}, v.TypeOfData)
		assert.Equal(t, []string{"2015-06-01", "2016-03-01"}, v.ReleaseDates)
	}
}

func TestFoldWarnings(t *testing.T) {
	d := record.ParsedDetail{
		HumID: "hum0006", HumVersionID: "hum0006-v1", Version: 1,
		Datasets: []record.RawDatasetRef{{IDText: "to be decided"}},
		MolecularData: []record.MolecularDataBlock{
			{IDs: []string{"NOTANID"}},
			{IDs: []string{"JGAD000123"}, Data: []record.KV{kv("Samples", "1")}},
			{IDs: []string{"JGAD000123"}, Data: []record.KV{kv("Samples", "2")}},
		},
	}

	res, warns := differ.Fold([]record.ParsedDetail{d})
	// row without accession, invalid block id, repeated sighting
	assert.Len(t, warns, 3)

	ds := res["JGAD000123"]
	if assert.NotNil(t, ds) {
		// the repeated sighting within one revision was ignored
		assert.Len(t, ds.Versions, 1)
	}
	assert.NotContains(t, res, "NOTANID")
}

func TestFoldNamespace(t *testing.T) {
	d := record.ParsedDetail{
		HumID: "hum0012", HumVersionID: "hum0012-v1", Version: 1,
		MolecularData: []record.MolecularDataBlock{
			{IDs: []string{"E-GEAD-420"}, Data: []record.KV{kv("Assay", "RNA-seq")}},
		},
	}
	res, _ := differ.Fold([]record.ParsedDetail{d})
	if assert.Contains(t, res, "E-GEAD-420") {
		assert.Equal(t, "GEA", res["E-GEAD-420"].Namespace)
	}
}
