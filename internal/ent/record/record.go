package record

import "fmt"

// Lang is a two-valued language tag for the catalog's bilingual pages.
type Lang string

const (
	LangJa Lang = "ja"
	LangEn Lang = "en"
)

// Langs lists all supported languages in a stable order.
func Langs() []Lang {
	return []Lang{LangJa, LangEn}
}

// Valid returns true if the language tag is one of the two supported values.
func (l Lang) Valid() bool {
	return l == LangJa || l == LangEn
}

// ParsedDetail is the structured record extracted from one detail page.
// It is produced by the parse stage and consumed read-only downstream.
type ParsedDetail struct {
	// HumID is the stable identifier of the research series, e.g. "hum0006".
	HumID string `json:"humId"`

	// HumVersionID identifies one published revision, e.g. "hum0006-v2".
	HumVersionID string `json:"humVersionId"`

	// Version is the numeric suffix of HumVersionID.
	Version int `json:"version"`

	// Lang is the language of the source page.
	Lang Lang `json:"lang"`

	Summary Summary `json:"summary"`

	// Datasets holds the rows of the dataset table. The ID field is free
	// text and may mention several accession identifiers.
	Datasets []RawDatasetRef `json:"datasets"`

	// MolecularData holds the per-dataset molecular data tables.
	MolecularData []MolecularDataBlock `json:"molecularData"`

	Providers    []Provider    `json:"dataProviders"`
	Publications []Publication `json:"publications"`
	Grants       []Grant       `json:"grants"`

	Releases []Release `json:"releases,omitempty"`
}

// Summary holds the free-text fields of the page header section.
type Summary struct {
	Title   string   `json:"title"`
	Aims    string   `json:"aims"`
	Methods string   `json:"methods"`
	Targets string   `json:"targets"`
	URL     string   `json:"url,omitempty"`
	Footers []string `json:"footers,omitempty"`
}

// RawDatasetRef is one row of the dataset table. All fields keep the raw
// page text; the normalize stage cleans them up.
type RawDatasetRef struct {
	// IDText is the raw content of the Dataset ID cell. It can name one or
	// several accession identifiers plus annotations like "(data addition)".
	IDText      string `json:"dataId"`
	TypeOfData  string `json:"typeOfData"`
	Criteria    string `json:"criteria"`
	ReleaseDate string `json:"releaseDate"`
}

// MolecularDataBlock is one molecular-data table together with its footer
// lines. A block belongs to one or more accession identifiers.
type MolecularDataBlock struct {
	// IDs are the accession identifiers from the block heading.
	IDs []string `json:"ids"`

	// Data keeps the table rows in document order. Unknown keys pass
	// through untouched.
	Data []KV `json:"data"`

	Footers []string `json:"footers,omitempty"`
}

// KV is one row of a molecular-data table.
type KV struct {
	Key   string `json:"key"`
	Value Value  `json:"value"`
}

// Value is either a single text scalar or a list of scalars, never both.
type Value struct {
	Text string   `json:"text,omitempty"`
	List []string `json:"list,omitempty"`
}

// IsList reports whether the value is the list variant.
func (v Value) IsList() bool {
	return v.List != nil
}

// Provider is one principal investigator or affiliated project member.
type Provider struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation,omitempty"`
	Role        string `json:"role,omitempty"`
}

// Publication is one literature reference from the publications section.
type Publication struct {
	Title   string `json:"title"`
	Journal string `json:"journal,omitempty"`
	Year    string `json:"year,omitempty"`
	DOI     string `json:"doi,omitempty"`
}

// Grant is one funding source from the grants section.
type Grant struct {
	Agency  string `json:"grantName"`
	Project string `json:"projectTitle,omitempty"`
	ID      string `json:"grantId,omitempty"`
}

// Release is one row of the release-history table, optionally joined with
// the free-text release note gathered from the surrounding page structure.
type Release struct {
	HumVersionID string `json:"humVersionId"`
	Date         string `json:"releaseDate"`
	Content      string `json:"content"`

	Note *ReleaseNote `json:"releaseNote,omitempty"`
}

// ReleaseNote keeps both the plain text and the original markup of a note,
// since downstream consumers render the markup while search indexes text.
type ReleaseNote struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

// Result is the outcome of a lossy normalization: either a value, or a
// deliberate skip with a reason. It replaces an overloaded null so callers
// cannot confuse "absent by design" with "failed to parse".
type Result[T any] struct {
	ok     bool
	val    T
	reason string
}

// Ok wraps a successfully produced value.
func Ok[T any](v T) Result[T] {
	return Result[T]{ok: true, val: v}
}

// Skipped marks a value that was intentionally dropped.
func Skipped[T any](format string, args ...any) Result[T] {
	return Result[T]{reason: fmt.Sprintf(format, args...)}
}

// IsOk reports whether the result carries a value.
func (r Result[T]) IsOk() bool {
	return r.ok
}

// Value returns the carried value. Zero value when skipped.
func (r Result[T]) Value() T {
	return r.val
}

// Reason explains a skip. Empty for Ok results.
func (r Result[T]) Reason() string {
	return r.reason
}
