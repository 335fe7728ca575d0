package resolvio

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/humandbs/humcat/internal/ent/fetch"
	"github.com/humandbs/humcat/internal/ent/resolve"
	"github.com/humandbs/humcat/internal/io/fstore"
	"github.com/humandbs/humcat/pkg/config"
)

// resolvio finds the highest revision of a catalog entry. The local HTML
// cache decides when it can; otherwise a redirect-following existence
// probe against the portal does. Deterministic for a fixed cache and
// portal state.
type resolvio struct {
	cfg  config.Config
	ftch fetch.Fetcher
}

// New returns a new instance of Resolver.
func New(cfg config.Config, ftch fetch.Fetcher) resolve.Resolver {
	return &resolvio{cfg: cfg, ftch: ftch}
}

func (r *resolvio) Latest(ctx context.Context, humID string) (int, error) {
	if v := r.fromCache(humID); v > 0 {
		return v, nil
	}
	return r.probe(ctx, humID)
}

// fromCache scans the HTML cache for {humId}-v{n}-{lang}.html files and
// returns the highest version found, 0 when the entry is not cached.
func (r *resolvio) fromCache(humID string) int {
	keys, err := fstore.List(r.cfg.HTMLDir, ".html")
	if err != nil {
		slog.Warn("Cannot scan HTML cache", "error", err)
		return 0
	}
	var res int
	for _, key := range keys {
		id, v, _, ok := fstore.ParseKey(key)
		if !ok || id != humID {
			continue
		}
		if v > res {
			res = v
		}
	}
	return res
}

var versionURLRe = regexp.MustCompile(`-v(\d+)/?$`)

// probe asks the portal. The bare entry URL redirects to its latest
// revision; when it does not, a linear probe walks v1..MaxVersionProbe.
// Transient failures are retried with backoff inside the fetcher.
func (r *resolvio) probe(ctx context.Context, humID string) (int, error) {
	ok, finalURL, err := r.ftch.Exists(ctx, r.cfg.BaseURL+"/"+humID)
	if err != nil {
		return 0, err
	}
	if ok {
		if m := versionURLRe.FindStringSubmatch(finalURL); m != nil {
			v, err := strconv.Atoi(m[1])
			if err == nil && v > 0 {
				return v, nil
			}
		}
		slog.Debug("Probe did not redirect to a version, probing linearly",
			"humId", humID, "url", finalURL)
	}

	var res int
	for v := 1; v <= r.cfg.MaxVersionProbe; v++ {
		url := fmt.Sprintf("%s/%s-v%d", r.cfg.BaseURL, humID, v)
		ok, _, err := r.ftch.Exists(ctx, url)
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		res = v
	}
	if res == 0 {
		return 0, fmt.Errorf("%s: %w", humID, resolve.ErrNotFound)
	}
	return res, nil
}
