// Package ids extracts external accession identifiers from free text.
// Every namespace has a fixed pattern with an exact digit-count
// requirement; GEA is the one deliberate exception and accepts 3-4 digits.
package ids

import (
	"regexp"
	"strings"
)

// Namespace tags one family of accession identifiers.
type Namespace string

const (
	NsJGAD Namespace = "JGAD"
	NsJGAS Namespace = "JGAS"
	NsDRA  Namespace = "DRA"
	NsGEA  Namespace = "GEA"
	NsMTB  Namespace = "MTBKS"
	NsHum  Namespace = "hum"
)

// patterns maps a namespace to its identifier shape. Digit counts are
// exact: a run one digit shorter or longer must not match.
var patterns = map[Namespace]*regexp.Regexp{
	NsJGAD: regexp.MustCompile(`\bJGAD\d{6}\b`),
	NsJGAS: regexp.MustCompile(`\bJGAS\d{6}\b`),
	NsDRA:  regexp.MustCompile(`\bDRA\d{6}\b`),
	NsGEA:  regexp.MustCompile(`\bE-GEAD-\d{3,4}\b`),
	NsMTB:  regexp.MustCompile(`\bMTBKS\d{3}\b`),
	NsHum:  regexp.MustCompile(`\bhum\d{4}\b`),
}

// namespaces is the extraction order; keeps ExtractByType deterministic.
var namespaces = []Namespace{NsJGAD, NsJGAS, NsDRA, NsGEA, NsMTB, NsHum}

// datasetNamespaces are the namespaces a dataset accession may belong to.
var datasetNamespaces = []Namespace{NsJGAD, NsJGAS, NsDRA, NsGEA, NsMTB}

// geaURLRe matches GEA archive URLs where the dataset identifier is the
// final path segment and the segment one level up is a bucket directory of
// the same shape. Only the final segment names a real dataset.
var geaURLRe = regexp.MustCompile(
	`https?://[^\s<>"']*E-GEAD-\d{3,4}/(E-GEAD-\d{3,4})/?`)

// ExtractByType scans free text and returns matched identifiers grouped by
// namespace. Duplicates are preserved; deduplication is the caller's call.
// GEA archive URLs are handled first: their final path segment is taken
// and the whole URL is removed before the generic scan, so that bucket
// directory names never surface as dataset identifiers.
func ExtractByType(text string) map[Namespace][]string {
	res := make(map[Namespace][]string)

	for _, m := range geaURLRe.FindAllStringSubmatch(text, -1) {
		res[NsGEA] = append(res[NsGEA], m[1])
	}
	text = geaURLRe.ReplaceAllString(text, " ")

	for _, ns := range namespaces {
		for _, m := range patterns[ns].FindAllString(text, -1) {
			res[ns] = append(res[ns], m)
		}
	}
	return res
}

// ExtractDatasetIDs returns all dataset-namespace identifiers found in the
// text, in namespace order, duplicates preserved.
func ExtractDatasetIDs(text string) []string {
	byType := ExtractByType(text)
	var res []string
	for _, ns := range datasetNamespaces {
		res = append(res, byType[ns]...)
	}
	return res
}

// anchored holds full-string versions of the namespace patterns.
var anchored = func() map[Namespace]*regexp.Regexp {
	res := make(map[Namespace]*regexp.Regexp, len(patterns))
	for ns, re := range patterns {
		pat := strings.ReplaceAll(re.String(), `\b`, "")
		res[ns] = regexp.MustCompile(`^` + pat + `$`)
	}
	return res
}()

// IsValidDatasetID reports whether s, after trimming surrounding
// whitespace, is exactly one dataset accession identifier. Embedded
// zero-width characters or trailing punctuation cause rejection; they are
// never silently stripped.
func IsValidDatasetID(s string) bool {
	s = strings.TrimSpace(s)
	for _, ns := range datasetNamespaces {
		if anchored[ns].MatchString(s) {
			return true
		}
	}
	return false
}

// Type returns the namespace of a single valid identifier, or "" when the
// string is not a valid identifier of any namespace.
func Type(s string) Namespace {
	s = strings.TrimSpace(s)
	for _, ns := range namespaces {
		if anchored[ns].MatchString(s) {
			return ns
		}
	}
	return ""
}
