package resolvio_test

import (
	"context"
	"strings"
	"testing"

	"github.com/humandbs/humcat/internal/ent/resolve"
	"github.com/humandbs/humcat/internal/io/fstore"
	"github.com/humandbs/humcat/internal/io/resolvio"
	"github.com/humandbs/humcat/pkg/config"
	"github.com/stretchr/testify/assert"
)

// stubFetcher serves existence probes from a fixed URL set and records
// how many probes were made.
type stubFetcher struct {
	exists   map[string]string // url -> final url
	requests int
}

func (f *stubFetcher) Page(
	_ context.Context, url, _ string, _ bool,
) ([]byte, error) {
	return nil, nil
}

func (f *stubFetcher) Exists(
	_ context.Context, url string,
) (bool, string, error) {
	f.requests++
	final, ok := f.exists[url]
	return ok, final, nil
}

func newCfg(t *testing.T) config.Config {
	return config.New(config.OptInputDir(t.TempDir()))
}

func TestLatestFromCache(t *testing.T) {
	cfg := newCfg(t)
	for _, key := range []string{"hum0006-v1-ja", "hum0006-v3-en", "hum0012-v9-ja"} {
		err := fstore.Write(cfg.HTMLDir+"/"+key+".html", struct{}{})
		assert.NoError(t, err)
	}

	ftch := &stubFetcher{}
	rsl := resolvio.New(cfg, ftch)

	v, err := rsl.Latest(context.Background(), "hum0006")
	assert.NoError(t, err)
	assert.Equal(t, 3, v)
	// cache answered; the portal was never asked
	assert.Zero(t, ftch.requests)
}

func TestLatestFromRedirect(t *testing.T) {
	cfg := newCfg(t)
	ftch := &stubFetcher{exists: map[string]string{
		cfg.BaseURL + "/hum0006": cfg.BaseURL + "/hum0006-v4/",
	}}
	rsl := resolvio.New(cfg, ftch)

	v, err := rsl.Latest(context.Background(), "hum0006")
	assert.NoError(t, err)
	assert.Equal(t, 4, v)
	assert.Equal(t, 1, ftch.requests)
}

// When the entry URL does not redirect to a versioned URL, the resolver
// walks versions linearly and stops at the first miss.
func TestLatestLinearProbe(t *testing.T) {
	cfg := newCfg(t)
	ftch := &stubFetcher{exists: map[string]string{
		cfg.BaseURL + "/hum0006":    cfg.BaseURL + "/hum0006",
		cfg.BaseURL + "/hum0006-v1": cfg.BaseURL + "/hum0006-v1",
		cfg.BaseURL + "/hum0006-v2": cfg.BaseURL + "/hum0006-v2",
	}}
	rsl := resolvio.New(cfg, ftch)

	v, err := rsl.Latest(context.Background(), "hum0006")
	assert.NoError(t, err)
	assert.Equal(t, 2, v)
	// entry probe, v1, v2, v3 (miss)
	assert.Equal(t, 4, ftch.requests)
}

func TestLatestNotFound(t *testing.T) {
	cfg := newCfg(t)
	rsl := resolvio.New(cfg, &stubFetcher{})

	_, err := rsl.Latest(context.Background(), "hum9999")
	assert.ErrorIs(t, err, resolve.ErrNotFound)
	assert.True(t, strings.Contains(err.Error(), "hum9999"))
}
