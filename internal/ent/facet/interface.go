package facet

import (
	"context"

	"github.com/humandbs/humcat/internal/ent/runstat"
)

// Collector tallies raw facet values across the corpus and merges them
// into the reviewable mapping tables.
type Collector interface {
	// Collect scans every dataset document, refreshes the per-facet TSV
	// mapping tables and reports which raw values are new.
	Collect(ctx context.Context) (*runstat.Summary, error)
}
