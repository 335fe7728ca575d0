// Package norm holds the language-aware cleanup rules applied to raw
// strings extracted from catalog pages. All functions are pure.
package norm

import (
	"regexp"
	"strings"
	"time"

	"github.com/humandbs/humcat/internal/ent/record"
	unorm "golang.org/x/text/unicode/norm"
)

// fullToHalf folds full-width punctuation to its half-width counterpart.
// Japanese sentence punctuation (、。) is left alone on purpose.
var fullToHalf = strings.NewReplacer(
	"（", "(",
	"）", ")",
	"［", "[",
	"］", "]",
	"：", ":",
	"；", ";",
	"，", ",",
	"．", ".",
	"！", "!",
	"？", "?",
	"～", "~",
	"／", "/",
	"＊", "*",
	"＋", "+",
	"－", "-",
	"＝", "=",
	"％", "%",
	"＆", "&",
	"　", " ",
)

var multiSpaceRe = regexp.MustCompile(` {2,}`)

// Fold composes the text to NFC, normalizes punctuation width and
// collapses runs of spaces.
func Fold(s string) string {
	s = unorm.NFC.String(s)
	s = fullToHalf.Replace(s)
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

var parentheticalRe = regexp.MustCompile(`[(（][^)）]*[)）]`)

// CleanIDText prepares a raw dataset-ID cell for identifier extraction:
// width folding, then removal of parenthetical annotations such as
// "(data addition)" / "（データ追加）" that the site appends to IDs.
func CleanIDText(s string) string {
	s = Fold(s)
	s = parentheticalRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "データ追加", " ")
	s = strings.ReplaceAll(s, "data addition", " ")
	return Fold(s)
}

// Date rewrites a slash-delimited date ("2015/6/1") to ISO-8601
// ("2015-06-01"). Non-calendrical placeholders seen in the source data
// ("TBD", "-") degrade to a Skipped result instead of an error: the
// fallback is load-bearing for known dirty pages.
func Date(s string) record.Result[string] {
	s = Fold(s)
	if s == "" {
		return record.Skipped[string]("empty date")
	}
	t, err := time.Parse("2006/1/2", s)
	if err != nil {
		return record.Skipped[string]("not a calendar date: %q", s)
	}
	return record.Ok(t.Format("2006-01-02"))
}
