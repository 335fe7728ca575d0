package ids_test

import (
	"testing"

	"github.com/humandbs/humcat/internal/ids"
	"github.com/stretchr/testify/assert"
)

func TestExtractByType(t *testing.T) {
	text := "Data in JGAD000123 and JGAS000456 (sequencing: DRA009876), " +
		"expression at E-GEAD-420, metabolome MTBKS123, entry hum0006."
	res := ids.ExtractByType(text)

	assert.Equal(t, []string{"JGAD000123"}, res[ids.NsJGAD])
	assert.Equal(t, []string{"JGAS000456"}, res[ids.NsJGAS])
	assert.Equal(t, []string{"DRA009876"}, res[ids.NsDRA])
	assert.Equal(t, []string{"E-GEAD-420"}, res[ids.NsGEA])
	assert.Equal(t, []string{"MTBKS123"}, res[ids.NsMTB])
	assert.Equal(t, []string{"hum0006"}, res[ids.NsHum])
}

// Digit counts are exact: one digit more or less must not match.
func TestExtractDigitCounts(t *testing.T) {
	tests := []struct {
		msg, in string
		found   bool
	}{
		{"JGAD five digits", "JGAD00012", false},
		{"JGAD seven digits", "JGAD0001234", false},
		{"JGAD six digits", "JGAD000123", true},
		{"DRA seven digits", "DRA0098765", false},
		{"MTBKS four digits", "MTBKS1234", false},
		{"hum three digits", "hum006", false},
		{"GEA three digits", "E-GEAD-420", true},
		{"GEA four digits", "E-GEAD-1121", true},
		{"GEA two digits", "E-GEAD-42", false},
		{"GEA five digits", "E-GEAD-11210", false},
	}

	for _, v := range tests {
		got := ids.ExtractDatasetIDs(v.in)
		if v.found {
			assert.Len(t, got, 1, v.msg)
		} else {
			assert.Empty(t, got, v.msg)
		}
	}
}

// In GEA archive URLs the final path segment is the dataset; the segment
// one level up is a bucket directory and must not surface.
func TestExtractGeaURL(t *testing.T) {
	text := "Available at " +
		"https://ddbj.nig.ac.jp/public/ddbj_database/gea/experiment/" +
		"E-GEAD-1000/E-GEAD-1121/"
	res := ids.ExtractByType(text)
	assert.Equal(t, []string{"E-GEAD-1121"}, res[ids.NsGEA])
}

func TestExtractGeaPlainText(t *testing.T) {
	res := ids.ExtractByType("expression data: E-GEAD-420 and E-GEAD-1121")
	assert.Equal(t, []string{"E-GEAD-420", "E-GEAD-1121"}, res[ids.NsGEA])
}

func TestExtractDatasetIDs(t *testing.T) {
	text := "hum0006 provides JGAD000123 and JGAD000123 again"
	got := ids.ExtractDatasetIDs(text)
	// duplicates preserved, hum excluded
	assert.Equal(t, []string{"JGAD000123", "JGAD000123"}, got)
}

func TestIsValidDatasetID(t *testing.T) {
	tests := []struct {
		msg, in string
		out     bool
	}{
		{"plain", "JGAD000123", true},
		{"surrounding space", "  JGAD000123  ", true},
		{"trailing punctuation", "JGAD000123.", false},
		{"zero width space", "JGAD​000123", false},
		{"embedded in text", "see JGAD000123", false},
		{"hum is not a dataset", "hum0006", false},
		{"gea", "E-GEAD-1121", true},
		{"empty", "", false},
	}

	for _, v := range tests {
		assert.Equal(t, v.out, ids.IsValidDatasetID(v.in), v.msg)
	}
}

func TestType(t *testing.T) {
	tests := []struct {
		in  string
		out ids.Namespace
	}{
		{"JGAD000123", ids.NsJGAD},
		{"JGAS000456", ids.NsJGAS},
		{"DRA009876", ids.NsDRA},
		{"E-GEAD-420", ids.NsGEA},
		{"MTBKS123", ids.NsMTB},
		{"hum0006", ids.NsHum},
		{"XYZ123", ""},
	}

	for _, v := range tests {
		assert.Equal(t, v.out, ids.Type(v.in), v.in)
	}
}
