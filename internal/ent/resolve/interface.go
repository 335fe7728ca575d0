package resolve

import (
	"context"
	"errors"
)

// ErrNotFound reports that no revision of a catalog entry resolved up to
// the configured probe maximum.
var ErrNotFound = errors.New("no revision found")

// Resolver finds how many revisions of a catalog entry exist.
type Resolver interface {
	// Latest returns the highest known revision number for a catalog
	// entry. The local HTML cache is consulted first; a live existence
	// probe runs only when the cache has nothing.
	Latest(ctx context.Context, humID string) (int, error)
}
