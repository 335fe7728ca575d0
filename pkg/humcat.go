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
	"github.com/humandbs/humcat/pkg/config"
)

// Version and Build are set by the build script.
var (
	Version = "v0.3.1"
	Build   = "n/a"
)

// humcat is an implementation of the HumCat interface.
type humcat struct {
	cfg config.Config
}

// New creates a new instance of HumCat.
func New(cfg config.Config) HumCat {
	return &humcat{cfg: cfg}
}

func (h *humcat) Harvest(
	ctx context.Context, hrv harvest.Harvester,
) (*runstat.Summary, error) {
	return hrv.Harvest(ctx)
}

func (h *humcat) Parse(
	ctx context.Context, p parse.Parser,
) (*runstat.Summary, error) {
	return p.Parse(ctx)
}

func (h *humcat) Normalize(
	ctx context.Context, n normalize.Normalizer,
) (*runstat.Summary, error) {
	return n.Normalize(ctx)
}

func (h *humcat) Build(
	ctx context.Context, b build.Builder,
) (*runstat.Summary, error) {
	return b.Build(ctx)
}

func (h *humcat) Facets(
	ctx context.Context, c facet.Collector,
) (*runstat.Summary, error) {
	return c.Collect(ctx)
}

func (h *humcat) Enrich(
	ctx context.Context, e enrich.Enricher,
) (*runstat.Summary, error) {
	return e.Enrich(ctx)
}
