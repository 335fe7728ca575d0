// Package model defines the JSON documents the pipeline hands to the
// downstream search/index engine. The pipeline's whole obligation to that
// layer is to emit well-formed documents keyed by the composite
// (accession, version) identifiers below; indexing happens elsewhere.
package model

import (
	"fmt"

	"github.com/humandbs/humcat/internal/ent/record"
)

// Research aggregates one catalog entry across all of its revisions.
type Research struct {
	// HumID is the stable identifier of the research series.
	HumID string `json:"humId"`

	// Title is the normalized title, per language.
	Title map[record.Lang]string `json:"title"`

	// URL is the public page of the latest revision.
	URL string `json:"url,omitempty"`

	// FirstReleaseDate and LastReleaseDate bound the release history,
	// ISO-8601. Empty when every source date was non-calendrical.
	FirstReleaseDate string `json:"firstReleaseDate,omitempty"`
	LastReleaseDate  string `json:"lastReleaseDate,omitempty"`

	// HumVersionIDs lists the revisions, ascending.
	HumVersionIDs []string `json:"humVersionIds"`

	// DatasetIDs lists every accession referenced by any revision.
	DatasetIDs []string `json:"datasetIds"`
}

// ResearchVersion is one published revision of a catalog entry.
type ResearchVersion struct {
	HumID        string `json:"humId"`
	HumVersionID string `json:"humVersionId"`
	Version      int    `json:"version"`

	// ReleaseDate is ISO-8601, empty for non-calendrical source values.
	ReleaseDate string `json:"releaseDate,omitempty"`

	// Content is the short release description, per language.
	Content map[record.Lang]string `json:"content,omitempty"`

	// ReleaseNote is the associated free-text note, per language.
	ReleaseNote map[record.Lang]*record.ReleaseNote `json:"releaseNote,omitempty"`

	// DatasetIDs lists the accessions whose blocks appear in the revision.
	DatasetIDs []string `json:"datasetIds"`
}

// Dataset is one externally-identified data product with its own version
// history, tracked independently from catalog revisions via content
// diffing.
type Dataset struct {
	AccessionID string `json:"accessionId"`

	// Namespace tags the accession family (JGAD, DRA, GEA, ...).
	Namespace string `json:"namespace,omitempty"`

	// Versions is append-only and ordered by version number.
	Versions []DatasetVersion `json:"versions"`
}

// DatasetVersion is one distinct content snapshot of a dataset's
// molecular-data block. A new version exists only because its content
// differs from the previous one.
type DatasetVersion struct {
	AccessionID string `json:"accessionId"`
	Version     int    `json:"version"`

	// HumVersionIDs lists every catalog revision whose block carried this
	// exact content.
	HumVersionIDs []string `json:"humVersionIds"`

	// Data is the molecular-data table, document order preserved.
	Data []record.KV `json:"data"`

	Footers []string `json:"footers,omitempty"`

	// Accumulated row metadata from the dataset table, concatenated in
	// revision order across all contributing revisions, not deduplicated.
	TypeOfData   []string `json:"typeOfData,omitempty"`
	Criteria     []string `json:"criteria,omitempty"`
	ReleaseDates []string `json:"releaseDates,omitempty"`

	// Fingerprint is the content-address of Data+Footers; identity fields
	// are excluded from it.
	Fingerprint string `json:"fingerprint"`
}

// ID returns the composite identifier used by the storage engine.
func (dv DatasetVersion) ID() string {
	return fmt.Sprintf("%s-v%d", dv.AccessionID, dv.Version)
}

// Enriched is a Research document extended with registry lookups.
type Enriched struct {
	Research

	Publications []record.Publication `json:"publications,omitempty"`

	// OriginalMetadata carries what the external registries know about
	// the entry's accessions and publications.
	OriginalMetadata OriginalMetadata `json:"originalMetadata"`
}

// OriginalMetadata is the registry-derived part of an enriched document.
type OriginalMetadata struct {
	// DOIs maps a publication title to its matched DOI.
	DOIs map[string]string `json:"dois,omitempty"`

	// StudyDatasets maps a JGA study accession to its dataset accessions.
	StudyDatasets map[string][]string `json:"studyDatasets,omitempty"`

	// DatasetStudies is the reverse direction.
	DatasetStudies map[string][]string `json:"datasetStudies,omitempty"`
}
