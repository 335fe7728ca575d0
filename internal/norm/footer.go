package norm

import "strings"

// boilerplatePrefixes are legal disclaimers the portal appends under most
// molecular-data tables. Matching is by prefix on the folded line.
var boilerplatePrefixes = []string{
	"* Data users are required to follow the NBDC",
	"* Please refer to the NBDC policy",
	"* 本データの利用にあたってはNBDC",
	"* リリース情報の詳細は",
}

// bullet markers the site mixes freely; rewritten to a single form.
var bulletMarkers = []string{"※", "＊", "*"}

// Footers folds footer lines, rewrites the assorted bullet markers to a
// single "*" marker and drops the fixed boilerplate disclaimers. Empty
// lines disappear.
func Footers(lines []string) []string {
	var res []string
loop:
	for _, line := range lines {
		line = Fold(line)
		for _, m := range bulletMarkers {
			if strings.HasPrefix(line, m) {
				line = "* " + strings.TrimSpace(strings.TrimPrefix(line, m))
				break
			}
		}
		if line == "" {
			continue
		}
		for _, p := range boilerplatePrefixes {
			if strings.HasPrefix(line, p) {
				continue loop
			}
		}
		res = append(res, line)
	}
	return res
}
