package str

import (
	"regexp"
	"strings"
)

var dotVersionRe = regexp.MustCompile(`^(hum\d{4})\.(v\d+)$`)

// FromDotToHyphen rewrites the dot-separated revision notation used inside
// release tables ("hum0006.v1") to the canonical hyphenated form
// ("hum0006-v1"). Already-hyphenated input passes through unchanged.
func FromDotToHyphen(s string) string {
	s = strings.TrimSpace(s)
	if m := dotVersionRe.FindStringSubmatch(s); m != nil {
		return m[1] + "-" + m[2]
	}
	return s
}

// ShortTitle truncates a title to 45 characters if necessary.
func ShortTitle(title string) string {
	if len(title) < 45 {
		return title
	}
	return title[0:41] + "..."
}

var (
	punctRe = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	wsRe    = regexp.MustCompile(`\s+`)
)

// NormalizeTitle lowercases a title, strips punctuation and collapses
// whitespace, so two renditions of the same title compare equal.
func NormalizeTitle(s string) string {
	s = strings.ToLower(s)
	s = punctRe.ReplaceAllString(s, " ")
	s = wsRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// TokenSetRatio returns |A∩B| / |A∪B| over the word sets of two normalized
// strings. Returns 0 when either side has no words.
func TokenSetRatio(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	var inter int
	for w := range setA {
		if _, ok := setB[w]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	res := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		res[w] = struct{}{}
	}
	return res
}
