package normalize

import (
	"context"

	"github.com/humandbs/humcat/internal/ent/runstat"
)

// Normalizer applies the language-specific cleanup rules to parsed
// records.
type Normalizer interface {
	// Normalize rewrites every detail record into the normalized store.
	Normalize(ctx context.Context) (*runstat.Summary, error)
}
