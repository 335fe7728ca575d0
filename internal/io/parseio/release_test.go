package parseio_test

import (
	"testing"

	"github.com/humandbs/humcat/internal/ent/record"
	"github.com/humandbs/humcat/internal/io/parseio"
	"github.com/stretchr/testify/assert"
)

var releasePage = []byte(`<html><body>
<table class="release">
  <tr><th>Research ID</th><th>Release Date</th><th>Type of Data</th></tr>
  <tr><td>hum0006.v1</td><td>2015/6/1</td><td>WGS</td></tr>
  <tr><td>hum0006.v2</td><td>2016/3/1</td><td>WGS (addition)</td></tr>
</table>
<div class="release-detail">
  <h4>hum0006-v2 (2016/3/1)</h4>
  <p>Whole genome sequencing data were added.</p>
  <h4>hum0006-v1 (2015/6/1)</h4>
  <p>Initial release.</p>
  <p>Note:</p>
  <p>Aggregate frequencies moved to a new URL.</p>
</div>
</body></html>`)

func TestParseRelease(t *testing.T) {
	res, err := parseio.ParseRelease(releasePage, record.LangEn)
	assert.NoError(t, err)

	if assert.Len(t, res, 2) {
		// dot notation rewritten to the hyphenated join key
		assert.Equal(t, "hum0006-v1", res[0].HumVersionID)
		assert.Equal(t, "2015/6/1", res[0].Date)
		assert.Equal(t, "WGS", res[0].Content)
		assert.Equal(t, "hum0006-v2", res[1].HumVersionID)
	}
}

func TestParseReleaseNotes(t *testing.T) {
	res, err := parseio.ParseRelease(releasePage, record.LangEn)
	assert.NoError(t, err)

	if assert.Len(t, res, 2) {
		if assert.NotNil(t, res[1].Note) {
			assert.Equal(t,
				"hum0006-v2 (2016/3/1)\nWhole genome sequencing data were added.",
				res[1].Note.Text)
			assert.Contains(t, res[1].Note.HTML, "<h4>hum0006-v2 (2016/3/1)</h4>")
		}
		if assert.NotNil(t, res[0].Note) {
			// the trailing note section is not attached to the last revision
			assert.Equal(t, "hum0006-v1 (2015/6/1)\nInitial release.",
				res[0].Note.Text)
		}
	}
}

func TestParseReleaseNoTable(t *testing.T) {
	res, err := parseio.ParseRelease([]byte("<html><body></body></html>"),
		record.LangEn)
	assert.NoError(t, err)
	assert.Nil(t, res)
}

// A drifted header is logged, not fatal; the rows still parse.
func TestParseReleaseDriftedHeader(t *testing.T) {
	page := []byte(`<html><body>
<table class="release">
  <tr><th>ID</th><th>Date</th><th>Data</th></tr>
  <tr><td>hum0012.v1</td><td>2018/1/10</td><td>RNA-seq</td></tr>
</table>
</body></html>`)

	res, err := parseio.ParseRelease(page, record.LangEn)
	assert.NoError(t, err)
	if assert.Len(t, res, 1) {
		assert.Equal(t, "hum0012-v1", res[0].HumVersionID)
	}
}

func TestValidReleaseHeader(t *testing.T) {
	tests := []struct {
		msg   string
		cells []string
		lang  record.Lang
		out   bool
	}{
		{"en exact", []string{"Research ID", "Release Date", "Type of Data"},
			record.LangEn, true},
		{"ja exact", []string{"Research ID", "公開日", "内容"},
			record.LangJa, true},
		{"ja full-width folded", []string{"Research　ID", "公開日", "内容"},
			record.LangJa, true},
		{"wrong order", []string{"Release Date", "Research ID", "Type of Data"},
			record.LangEn, false},
		{"short", []string{"Research ID", "Release Date"}, record.LangEn, false},
		{"wrong language", []string{"Research ID", "公開日", "内容"},
			record.LangEn, false},
	}

	for _, v := range tests {
		assert.Equal(t, v.out, parseio.ValidReleaseHeader(v.cells, v.lang), v.msg)
	}
}
