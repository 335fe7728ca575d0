package parseio

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/humandbs/humcat/internal/ent/record"
	"github.com/humandbs/humcat/internal/norm"
	"github.com/humandbs/humcat/internal/relnote"
	"github.com/humandbs/humcat/internal/str"
)

// The two known header sets of the release table, one per language. The
// site's markup has drifted before; a mismatch is logged, never fatal.
var releaseHeaders = map[record.Lang][]string{
	record.LangJa: {"Research ID", "公開日", "内容"},
	record.LangEn: {"Research ID", "Release Date", "Type of Data"},
}

// ValidReleaseHeader reports whether the header cells match the known set
// for the language.
func ValidReleaseHeader(cells []string, lang record.Lang) bool {
	want := releaseHeaders[lang]
	if len(cells) != len(want) {
		return false
	}
	for i, c := range cells {
		if norm.Fold(c) != want[i] {
			return false
		}
	}
	return true
}

// ParseRelease converts one release page into the ordered list of Release
// rows, each joined with its free-text note when the page carries one.
// An empty or missing table yields an empty list.
func ParseRelease(html []byte, lang record.Lang) ([]record.Release, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table.release").First()
	if table.Length() == 0 {
		return nil, nil
	}

	var header []string
	table.Find("tr").First().Find("th").Each(func(_ int, th *goquery.Selection) {
		header = append(header, strings.TrimSpace(th.Text()))
	})
	if !ValidReleaseHeader(header, lang) {
		slog.Warn("Release table header drifted, parsing anyway",
			"lang", lang, "header", header)
	}

	var res []record.Release
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		res = append(res, record.Release{
			// the table uses dot notation; the join key is hyphenated
			HumVersionID: str.FromDotToHyphen(cells.Eq(0).Text()),
			Date:         strings.TrimSpace(cells.Eq(1).Text()),
			Content:      strings.TrimSpace(cells.Eq(2).Text()),
		})
	})
	if len(res) == 0 {
		return nil, nil
	}

	known := make([]string, len(res))
	for i, r := range res {
		known[i] = r.HumVersionID
	}

	assoc := relnote.Associate(detailBlocks(doc), known)
	for i := range res {
		if note, ok := assoc.Notes[res[i].HumVersionID]; ok {
			res[i].Note = note
		} else {
			// tolerated: old revisions often have a table row only
			slog.Debug("Release row without note", "humVersionId", res[i].HumVersionID)
		}
	}
	if assoc.Trailing != nil {
		// detected but not attached anywhere; kept out on purpose until
		// there is a decision on where scanner/instrument lists belong
		slog.Debug("Trailing note section discarded",
			"chars", len(assoc.Trailing.Text))
	}

	return res, nil
}

// detailBlocks reduces the release-detail container's direct children to
// ordered (text, markup) pairs for the note scanner.
func detailBlocks(doc *goquery.Document) []relnote.Block {
	var res []relnote.Block
	doc.Find("div.release-detail").First().Children().
		Each(func(_ int, child *goquery.Selection) {
			html, err := goquery.OuterHtml(child)
			if err != nil {
				html = ""
			}
			res = append(res, relnote.Block{
				Text: strings.TrimSpace(child.Text()),
				HTML: html,
			})
		})
	return res
}
