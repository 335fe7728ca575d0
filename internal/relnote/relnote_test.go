package relnote_test

import (
	"testing"

	"github.com/humandbs/humcat/internal/relnote"
	"github.com/stretchr/testify/assert"
)

var knownIDs = []string{
	"hum0006-v1", "hum0006-v2", "hum0006-v10",
}

func blocks(texts ...string) []relnote.Block {
	res := make([]relnote.Block, len(texts))
	for i, t := range texts {
		res[i] = relnote.Block{Text: t, HTML: "<p>" + t + "</p>"}
	}
	return res
}

func TestAssociate(t *testing.T) {
	in := blocks(
		"hum0006-v2 (2016/3/1)",
		"Whole genome sequencing data were added.",
		"Sample count grew to 512.",
		"hum0006-v1 (2015/6/1)",
		"Initial release.",
	)
	res := relnote.Associate(in, knownIDs)

	assert.Len(t, res.Notes, 2)
	assert.Equal(t,
		"hum0006-v2 (2016/3/1)\nWhole genome sequencing data were added.\n"+
			"Sample count grew to 512.",
		res.Notes["hum0006-v2"].Text)
	assert.Equal(t, "hum0006-v1 (2015/6/1)\nInitial release.",
		res.Notes["hum0006-v1"].Text)
	assert.Nil(t, res.Trailing)
}

// Text before the first version marker belongs to no revision.
func TestAssociatePreamble(t *testing.T) {
	in := blocks(
		"Release history of this study.",
		"hum0006-v1 (2015/6/1)",
		"Initial release.",
	)
	res := relnote.Associate(in, knownIDs)

	assert.Len(t, res.Notes, 1)
	assert.Equal(t, "hum0006-v1 (2015/6/1)\nInitial release.",
		res.Notes["hum0006-v1"].Text)
}

// hum0006-v1 must not claim the hum0006-v10 marker.
func TestAssociateLongestIDWins(t *testing.T) {
	in := blocks(
		"hum0006-v10 (2024/1/10)",
		"Tenth revision.",
		"hum0006-v1 (2015/6/1)",
		"First revision.",
	)
	res := relnote.Associate(in, knownIDs)

	assert.Equal(t, "hum0006-v10 (2024/1/10)\nTenth revision.",
		res.Notes["hum0006-v10"].Text)
	assert.Equal(t, "hum0006-v1 (2015/6/1)\nFirst revision.",
		res.Notes["hum0006-v1"].Text)
}

// The terminal note section ends collection; its content is gathered
// separately and not attached to the last revision.
func TestAssociateTrailingNote(t *testing.T) {
	in := blocks(
		"hum0006-v1 (2015/6/1)",
		"Initial release.",
		"Note:",
		"Aggregate frequencies moved to a new URL.",
		"Contact the center for details.",
	)
	res := relnote.Associate(in, knownIDs)

	assert.Equal(t, "hum0006-v1 (2015/6/1)\nInitial release.",
		res.Notes["hum0006-v1"].Text)
	if assert.NotNil(t, res.Trailing) {
		assert.Equal(t,
			"Aggregate frequencies moved to a new URL.\n"+
				"Contact the center for details.",
			res.Trailing.Text)
	}
}

// The marker line often carries the section's first sentence; it belongs
// to the trailing section, never to the previous revision's note.
func TestAssociateNoteMarkerWithContent(t *testing.T) {
	in := blocks(
		"hum0006-v1 (2015/6/1)",
		"Initial release.",
		"Note: scanners used were HiSeq 2500 and NovaSeq 6000.",
	)
	res := relnote.Associate(in, knownIDs)

	assert.Equal(t, "hum0006-v1 (2015/6/1)\nInitial release.",
		res.Notes["hum0006-v1"].Text)
	if assert.NotNil(t, res.Trailing) {
		assert.Equal(t, "scanners used were HiSeq 2500 and NovaSeq 6000.",
			res.Trailing.Text)
	}
}

// A page that repeats a version marker keeps the last note.
func TestAssociateRepeatedMarker(t *testing.T) {
	in := blocks(
		"hum0006-v1 (2015/6/1)",
		"First sighting.",
		"hum0006-v1 (2015/6/1)",
		"Second sighting.",
	)
	res := relnote.Associate(in, knownIDs)

	assert.Len(t, res.Notes, 1)
	assert.Equal(t, "hum0006-v1 (2015/6/1)\nSecond sighting.",
		res.Notes["hum0006-v1"].Text)
}

func TestAssociateJapaneseNoteMarker(t *testing.T) {
	in := blocks(
		"hum0006-v1 (2015/6/1)",
		"初回公開",
		"備考：",
		"集計データは移動しました。",
	)
	res := relnote.Associate(in, knownIDs)

	assert.Equal(t, "hum0006-v1 (2015/6/1)\n初回公開",
		res.Notes["hum0006-v1"].Text)
	if assert.NotNil(t, res.Trailing) {
		assert.Equal(t, "集計データは移動しました。", res.Trailing.Text)
	}
}

func TestAssociateKeepsMarkup(t *testing.T) {
	in := []relnote.Block{
		{Text: "hum0006-v1 (2015/6/1)", HTML: "<h4>hum0006-v1 (2015/6/1)</h4>"},
		{Text: "Initial release.", HTML: "<p>Initial <b>release</b>.</p>"},
	}
	res := relnote.Associate(in, knownIDs)

	assert.Equal(t,
		"<h4>hum0006-v1 (2015/6/1)</h4>\n<p>Initial <b>release</b>.</p>",
		res.Notes["hum0006-v1"].HTML)
}

func TestAssociateEmpty(t *testing.T) {
	res := relnote.Associate(nil, knownIDs)
	assert.Empty(t, res.Notes)
	assert.Nil(t, res.Trailing)
}
