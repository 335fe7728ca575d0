package humcat

import (
	"context"

	"github.com/humandbs/humcat/internal/ent/build"
	"github.com/humandbs/humcat/internal/ent/enrich"
	"github.com/humandbs/humcat/internal/ent/facet"
	"github.com/humandbs/humcat/internal/ent/harvest"
	"github.com/humandbs/humcat/internal/ent/normalize"
	"github.com/humandbs/humcat/internal/ent/parse"
	"github.com/humandbs/humcat/internal/ent/runstat"
)

// HumCat ties the pipeline stages together. Every stage consumes the
// previous stage's file store and can be re-run on its own.
type HumCat interface {
	// Harvest discovers revisions and fills the raw HTML cache.
	Harvest(context.Context, harvest.Harvester) (*runstat.Summary, error)

	// Parse converts cached HTML into structured per-revision records.
	Parse(context.Context, parse.Parser) (*runstat.Summary, error)

	// Normalize applies the bilingual cleanup rules.
	Normalize(context.Context, normalize.Normalizer) (*runstat.Summary, error)

	// Build folds records into dataset / research documents.
	Build(context.Context, build.Builder) (*runstat.Summary, error)

	// Facets refreshes the reviewable facet mapping tables.
	Facets(context.Context, facet.Collector) (*runstat.Summary, error)

	// Enrich resolves external registries and writes enriched documents.
	Enrich(context.Context, enrich.Enricher) (*runstat.Summary, error)
}
