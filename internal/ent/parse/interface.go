package parse

import (
	"context"

	"github.com/humandbs/humcat/internal/ent/runstat"
)

// Parser converts cached HTML pages into structured per-revision records.
type Parser interface {
	// Parse processes every cached (entry, revision, language) page and
	// writes ParsedDetail JSON to the detail store.
	Parse(ctx context.Context) (*runstat.Summary, error)
}
