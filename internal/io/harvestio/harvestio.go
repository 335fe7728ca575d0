package harvestio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gnames/gnsys"
	"github.com/humandbs/humcat/internal/ent/fetch"
	"github.com/humandbs/humcat/internal/ent/harvest"
	"github.com/humandbs/humcat/internal/ent/record"
	"github.com/humandbs/humcat/internal/ent/resolve"
	"github.com/humandbs/humcat/internal/ent/runstat"
	"github.com/humandbs/humcat/internal/ids"
	"github.com/humandbs/humcat/internal/io/fstore"
	"github.com/humandbs/humcat/pkg/config"
	"golang.org/x/sync/errgroup"
)

// harvestio is a struct that implements the harvest.Harvester interface.
type harvestio struct {
	cfg  config.Config
	rsl  resolve.Resolver
	ftch fetch.Fetcher
}

// New returns a new instance of Harvester.
func New(
	cfg config.Config,
	rsl resolve.Resolver,
	ftch fetch.Fetcher,
) (harvest.Harvester, error) {
	err := gnsys.MakeDir(cfg.HTMLDir)
	if err != nil {
		slog.Error("Cannot create HTML cache directory", "error", err)
		return nil, err
	}
	return &harvestio{cfg: cfg, rsl: rsl, ftch: ftch}, nil
}

func (h *harvestio) Harvest(ctx context.Context) (*runstat.Summary, error) {
	sum := runstat.New()

	humIDs, err := h.entryList(ctx)
	if err != nil {
		return sum, err
	}
	slog.Info("Harvesting catalog entries", "entries", len(humIDs))

	chIn := make(chan string)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		for _, id := range humIDs {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case chIn <- id:
			}
		}
		return nil
	})

	// entries run in parallel; revisions of one entry stay sequential
	// and ascending inside one worker
	for i := 0; i < h.cfg.JobsNum; i++ {
		g.Go(func() error {
			for humID := range chIn {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				h.harvestEntry(ctx, humID, sum)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return sum, err
	}
	sum.Log("harvest")
	return sum, nil
}

// harvestEntry resolves the revision list of one entry and downloads
// every missing page. Per-revision failures accumulate in the summary.
func (h *harvestio) harvestEntry(
	ctx context.Context, humID string, sum *runstat.Summary,
) {
	latest, err := h.rsl.Latest(ctx, humID)
	if err != nil {
		if errors.Is(err, resolve.ErrNotFound) {
			slog.Warn("No revision resolved", "humId", humID)
			sum.Skip()
			return
		}
		sum.Failure(humID, err)
		return
	}

	first := 1
	if h.cfg.LatestOnly {
		first = latest
	}

	for v := first; v <= latest; v++ {
		for _, lang := range h.cfg.Langs() {
			h.fetchPage(ctx, humID,
				h.pageURL(humID, v, lang),
				fstore.Key(humID, v, lang)+".html",
				lang == string(record.LangEn), // translations are optional
				sum)
		}
	}
	for _, lang := range h.cfg.Langs() {
		h.fetchPage(ctx, humID,
			h.releaseURL(humID, lang),
			fmt.Sprintf("%s-release-%s.html", humID, lang),
			true, // release pages are optional
			sum)
	}
}

func (h *harvestio) fetchPage(
	ctx context.Context,
	humID, url, file string,
	optional bool,
	sum *runstat.Summary,
) {
	path := filepath.Join(h.cfg.HTMLDir, file)
	if !h.cfg.NoCache && !h.cfg.Force && fstore.Exists(path) {
		sum.Skip()
		return
	}

	_, err := h.ftch.Page(ctx, url, path, h.cfg.NoCache)
	switch {
	case errors.Is(err, fetch.ErrNotFound) && optional:
		sum.Skip()
	case err != nil:
		sum.Failure(file, err)
	default:
		sum.Success()
	}
	time.Sleep(time.Duration(h.cfg.DelayMs) * time.Millisecond)
}

func (h *harvestio) pageURL(humID string, version int, lang string) string {
	if lang == string(record.LangEn) {
		return fmt.Sprintf("%s/en/%s-v%d", h.cfg.BaseURL, humID, version)
	}
	return fmt.Sprintf("%s/%s-v%d", h.cfg.BaseURL, humID, version)
}

func (h *harvestio) releaseURL(humID, lang string) string {
	if lang == string(record.LangEn) {
		return fmt.Sprintf("%s/en/%s/release", h.cfg.BaseURL, humID)
	}
	return fmt.Sprintf("%s/%s/release", h.cfg.BaseURL, humID)
}

// entryList returns the catalog entries for this run: the --hum-id filter
// when set, otherwise every hum ID linked from the portal's research
// list.
func (h *harvestio) entryList(ctx context.Context) ([]string, error) {
	if h.cfg.HumID != "" {
		return []string{h.cfg.HumID}, nil
	}

	listPath := filepath.Join(h.cfg.HTMLDir, "research-list.html")
	body, err := h.ftch.Page(
		ctx, h.cfg.BaseURL+"/research-list", listPath, h.cfg.NoCache)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch research list: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		for _, id := range ids.ExtractByType(href)[ids.NsHum] {
			seen[id] = true
		}
	})

	res := make([]string, 0, len(seen))
	for id := range seen {
		res = append(res, id)
	}
	sort.Strings(res)
	return res, nil
}
