package fetch

import (
	"context"
	"errors"
)

// ErrNotFound reports an expected absence: the page does not exist on the
// portal. Optional pages (translations, release pages) treat it as empty,
// not as a failure.
var ErrNotFound = errors.New("page not found")

// Fetcher is the narrow fetch-or-read-cached-file collaborator. The
// transport and cache internals live outside this pipeline; stages only
// need these two operations.
type Fetcher interface {
	// Page returns the body for a URL, reading the cached file when it
	// exists and fetching (and caching) otherwise. noCache forces a
	// refetch.
	Page(ctx context.Context, url, cachePath string, noCache bool) ([]byte, error)

	// Exists probes a URL with redirects enabled and returns the final
	// resolved URL when the page exists.
	Exists(ctx context.Context, url string) (bool, string, error)
}
