package build

import (
	"context"

	"github.com/humandbs/humcat/internal/ent/runstat"
)

// Builder folds normalized records into the dataset / research /
// research-version documents consumed by the storage engine.
type Builder interface {
	// Build runs the version differ over every catalog entry and writes
	// the structured JSON stores.
	Build(ctx context.Context) (*runstat.Summary, error)
}
