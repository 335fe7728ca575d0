package harvest

import (
	"context"

	"github.com/humandbs/humcat/internal/ent/runstat"
)

// Harvester discovers catalog revisions and fills the raw HTML cache.
type Harvester interface {
	// Harvest resolves revisions for the selected catalog entries and
	// downloads every missing page into the HTML cache.
	Harvest(ctx context.Context) (*runstat.Summary, error)
}
