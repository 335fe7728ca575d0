// Package relnote associates free-text release-note blocks with revision
// rows. The portal does not wrap each note in its own container: a release
// page is one continuous run of elements, so the association is a linear
// scan with an explicit two-state machine over (text, markup) pairs. The
// package is DOM-free so the machine can be tested with string fixtures.
package relnote

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/humandbs/humcat/internal/ent/record"
)

// Block is one direct child of the release container, reduced to its
// visible text and its original markup.
type Block struct {
	Text string
	HTML string
}

// Assoc is the outcome of a scan: per-revision notes plus the trailing
// "note" section, which is detected but deliberately not attached to any
// revision (current site behavior, pending a product decision).
type Assoc struct {
	Notes    map[string]*record.ReleaseNote
	Trailing *record.ReleaseNote
}

type state int

const (
	seekingVersion state = iota
	collectingDetail
)

// noteMarkerRe matches the heading of the terminal note section in either
// language; the colon is optional and may be full-width. The marker is a
// prefix: the heading line often carries the section's first sentence
// (scanner and instrument lists) on the same line.
var noteMarkerRe = regexp.MustCompile(`(?i)^(notes?|備考)\s*[:：]?\s*`)

// Associate splits the ordered blocks into per-revision release notes.
// A block whose text starts with one of the known revision IDs (word
// boundary after the ID, longest ID wins) opens collection for that
// revision; collection runs until the next version marker or the note
// marker. Everything after the note marker is the trailing note section.
func Associate(blocks []Block, knownIDs []string) Assoc {
	ids := make([]string, len(knownIDs))
	copy(ids, knownIDs)
	// longest first, so hum0006-v1 never claims a hum0006-v10 marker
	sort.Slice(ids, func(i, j int) bool { return len(ids[i]) > len(ids[j]) })

	markers := make([]*regexp.Regexp, len(ids))
	for i, id := range ids {
		markers[i] = regexp.MustCompile(`^` + regexp.QuoteMeta(id) + `\b`)
	}

	res := Assoc{Notes: make(map[string]*record.ReleaseNote)}

	st := seekingVersion
	var cur *record.ReleaseNote
	var trailingTexts, trailingHTML []string

	flushTrailing := func() {
		if len(trailingTexts) == 0 {
			return
		}
		res.Trailing = &record.ReleaseNote{
			Text: strings.Join(trailingTexts, "\n"),
			HTML: strings.Join(trailingHTML, "\n"),
		}
	}

	var inTrailing bool
	for _, b := range blocks {
		text := strings.TrimSpace(b.Text)

		if inTrailing {
			if text == "" {
				continue
			}
			trailingTexts = append(trailingTexts, text)
			trailingHTML = append(trailingHTML, b.HTML)
			continue
		}

		if loc := noteMarkerRe.FindStringIndex(text); loc != nil {
			st = seekingVersion
			cur = nil
			inTrailing = true
			if rest := strings.TrimSpace(text[loc[1]:]); rest != "" {
				trailingTexts = append(trailingTexts, rest)
				trailingHTML = append(trailingHTML, b.HTML)
			}
			continue
		}

		if id := matchVersion(text, ids, markers); id != "" {
			note := &record.ReleaseNote{Text: text, HTML: b.HTML}
			if _, ok := res.Notes[id]; ok {
				slog.Warn("Repeated version marker, replacing earlier note",
					"humVersionId", id)
			}
			res.Notes[id] = note
			cur = note
			st = collectingDetail
			continue
		}

		if st == collectingDetail && text != "" {
			cur.Text += "\n" + text
			cur.HTML += "\n" + b.HTML
		}
	}

	flushTrailing()
	return res
}

func matchVersion(text string, ids []string, markers []*regexp.Regexp) string {
	for i, re := range markers {
		if re.MatchString(text) {
			return ids[i]
		}
	}
	return ""
}
