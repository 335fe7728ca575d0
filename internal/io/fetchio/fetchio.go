package fetchio

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gnames/gnsys"
	"github.com/go-resty/resty/v2"
	"github.com/humandbs/humcat/internal/ent/fetch"
	"github.com/humandbs/humcat/pkg/config"
)

// fetchio is the thin fetch-or-read-cached-file collaborator. Transient
// failures are retried with backoff by the client; a 404 surfaces as
// fetch.ErrNotFound.
type fetchio struct {
	cfg config.Config
	cl  *resty.Client
}

// New returns a new instance of Fetcher.
func New(cfg config.Config) fetch.Fetcher {
	cl := resty.New().
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests ||
				r.StatusCode() >= 500
		})
	return &fetchio{cfg: cfg, cl: cl}
}

func (f *fetchio) Page(
	ctx context.Context, url, cachePath string, noCache bool,
) ([]byte, error) {
	if !noCache {
		if ok, _ := gnsys.FileExists(cachePath); ok {
			return os.ReadFile(cachePath)
		}
	}

	resp, err := f.cl.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fetch.ErrNotFound
	case resp.StatusCode() != http.StatusOK:
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode())
	}

	body := resp.Body()
	if err = gnsys.MakeDir(filepath.Dir(cachePath)); err != nil {
		return nil, err
	}
	if err = os.WriteFile(cachePath, body, 0644); err != nil {
		slog.Warn("Cannot cache page", "path", cachePath, "error", err)
	}
	return body, nil
}

func (f *fetchio) Exists(
	ctx context.Context, url string,
) (bool, string, error) {
	resp, err := f.cl.R().SetContext(ctx).Get(url)
	if err != nil {
		return false, "", err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return false, "", nil
	}
	if resp.StatusCode() != http.StatusOK {
		return false, "", fmt.Errorf("probe %s: status %d", url, resp.StatusCode())
	}
	final := url
	if raw := resp.RawResponse; raw != nil && raw.Request != nil {
		final = raw.Request.URL.String()
	}
	return true, final, nil
}
