package enrich

import (
	"context"
	"time"

	"github.com/humandbs/humcat/internal/ent/runstat"
)

// Enricher resolves external identifiers against remote registries and
// writes enriched documents.
type Enricher interface {
	// Enrich matches publication titles to DOIs and cross-references JGA
	// study/dataset accessions, then writes the enriched store. Lookup
	// results are memoized in on-disk caches flushed once at the end.
	Enrich(ctx context.Context) (*runstat.Summary, error)
}

// DoiCacheEntry memoizes one title lookup against the bibliographic API.
type DoiCacheEntry struct {
	Title   string    `json:"title"`
	DOI     string    `json:"doi"`
	Score   float64   `json:"score"`
	Matched bool      `json:"matched"`
	Updated time.Time `json:"updated"`
}

// JgaRelationEntry memoizes the accessions related to one JGA accession.
type JgaRelationEntry struct {
	Accession string    `json:"accession"`
	Related   []string  `json:"related"`
	Updated   time.Time `json:"updated"`
}
