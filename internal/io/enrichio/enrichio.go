package enrichio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/humandbs/humcat/internal/ent/enrich"
	"github.com/humandbs/humcat/internal/ent/kv"
	"github.com/humandbs/humcat/internal/ent/record"
	"github.com/humandbs/humcat/internal/ent/runstat"
	"github.com/humandbs/humcat/internal/io/fstore"
	"github.com/humandbs/humcat/internal/io/kvio"
	"github.com/humandbs/humcat/internal/str"
	"github.com/humandbs/humcat/pkg/config"
	"github.com/humandbs/humcat/pkg/ent/model"
	"golang.org/x/sync/errgroup"
)

// enrichio is a struct that implements the enrich.Enricher interface.
type enrichio struct {
	cfg   config.Config
	doi   *crossrefClient
	jga   *jgaClient
	doiKV kv.KeyVal
	jgaKV kv.KeyVal
}

// New returns a new instance of Enricher. The lookup caches are opened
// here and flushed exactly once when Enrich finishes.
func New(cfg config.Config) (enrich.Enricher, error) {
	if _, err := os.Stat(cfg.ResearchDir); err != nil {
		return nil, fmt.Errorf("research directory missing: %s", cfg.ResearchDir)
	}

	res := &enrichio{cfg: cfg}
	delay := time.Duration(cfg.DelayMs) * time.Millisecond

	if !cfg.SkipDOI {
		store, err := kvio.New(cfg.DoiKVDir)
		if err != nil {
			return nil, err
		}
		if err = store.Open(); err != nil {
			return nil, err
		}
		res.doiKV = store
		res.doi = newCrossrefClient(cfg.CrossrefURL, store, delay)
	}
	if !cfg.SkipJGA {
		store, err := kvio.New(cfg.JgaKVDir)
		if err != nil {
			return nil, err
		}
		if err = store.Open(); err != nil {
			return nil, err
		}
		res.jgaKV = store
		res.jga = newJgaClient(cfg.JgaURL, store, delay)
	}
	return res, nil
}

func (e *enrichio) Enrich(ctx context.Context) (*runstat.Summary, error) {
	sum := runstat.New()
	defer e.closeCaches()

	humIDs, err := fstore.List(e.cfg.ResearchDir, ".json")
	if err != nil {
		return sum, err
	}
	slog.Info("Enriching research documents", "entries", len(humIDs))

	chIn := make(chan string)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		for _, id := range humIDs {
			if e.cfg.HumID != "" && e.cfg.HumID != id {
				continue
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case chIn <- id:
			}
		}
		return nil
	})

	for i := 0; i < e.cfg.JobsNum; i++ {
		g.Go(func() error {
			for humID := range chIn {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				if err := e.enrichOne(ctx, humID); err != nil {
					sum.Failure(humID, err)
					continue
				}
				sum.Success()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return sum, err
	}
	sum.Log("enrich")
	return sum, nil
}

// enrichOne resolves the registries for one research document. A failed
// lookup degrades to "no enrichment" for that item; pre-existing DOIs
// are never discarded.
func (e *enrichio) enrichOne(ctx context.Context, humID string) error {
	var research model.Research
	err := fstore.Read(
		filepath.Join(e.cfg.ResearchDir, humID+".json"), &research)
	if err != nil {
		return err
	}

	doc := model.Enriched{
		Research:     research,
		Publications: e.publications(humID),
		OriginalMetadata: model.OriginalMetadata{
			DOIs:           make(map[string]string),
			StudyDatasets:  make(map[string][]string),
			DatasetStudies: make(map[string][]string),
		},
	}

	if e.doi != nil {
		e.matchDOIs(ctx, &doc)
	}
	if e.jga != nil {
		e.crossReference(ctx, &doc)
	}

	return fstore.Write(
		filepath.Join(e.cfg.EnrichedDir, humID+".json"), doc)
}

func (e *enrichio) matchDOIs(ctx context.Context, doc *model.Enriched) {
	notBefore := 0
	if len(doc.FirstReleaseDate) >= 4 {
		if y, err := strconv.Atoi(doc.FirstReleaseDate[:4]); err == nil {
			notBefore = y - e.cfg.LookBackYears
		}
	}

	for i, pub := range doc.Publications {
		if pub.Title == "" {
			continue
		}
		if pub.DOI != "" {
			// the page already names a DOI; registry lookups only add
			doc.OriginalMetadata.DOIs[pub.Title] = pub.DOI
			continue
		}
		entry, err := e.doi.MatchDOI(ctx, pub.Title, notBefore)
		if err != nil {
			slog.Warn("DOI lookup degraded",
				"title", str.ShortTitle(pub.Title), "error", err)
			continue
		}
		if entry.Matched {
			doc.Publications[i].DOI = entry.DOI
			doc.OriginalMetadata.DOIs[pub.Title] = entry.DOI
		}
	}
}

func (e *enrichio) crossReference(ctx context.Context, doc *model.Enriched) {
	for _, id := range doc.DatasetIDs {
		var isStudy bool
		switch {
		case strings.HasPrefix(id, "JGAS"):
			isStudy = true
		case strings.HasPrefix(id, "JGAD"):
		default:
			continue
		}
		related, err := e.jga.Related(ctx, id)
		if err != nil {
			slog.Warn("JGA lookup degraded", "accession", id, "error", err)
			continue
		}
		if len(related) == 0 {
			continue
		}
		if isStudy {
			doc.OriginalMetadata.StudyDatasets[id] = related
		} else {
			doc.OriginalMetadata.DatasetStudies[id] = related
		}
	}
}

// publications reads the publication list from the newest normalized
// record of the entry; English is preferred, Japanese is the fallback.
func (e *enrichio) publications(humID string) []record.Publication {
	keys, err := fstore.List(e.cfg.NormDir, ".json")
	if err != nil {
		return nil
	}

	best := make(map[string]struct {
		version int
		key     string
	})
	for _, key := range keys {
		id, v, lang, ok := fstore.ParseKey(key)
		if !ok || id != humID {
			continue
		}
		if cur, ok := best[lang]; !ok || v > cur.version {
			best[lang] = struct {
				version int
				key     string
			}{version: v, key: key}
		}
	}

	for _, lang := range []string{"en", "ja"} {
		sel, ok := best[lang]
		if !ok {
			continue
		}
		var d record.ParsedDetail
		err = fstore.Read(filepath.Join(e.cfg.NormDir, sel.key+".json"), &d)
		if err != nil {
			slog.Warn("Cannot read normalized record",
				"key", sel.key, "error", err)
			continue
		}
		if len(d.Publications) > 0 {
			return d.Publications
		}
	}
	return nil
}

// closeCaches flushes both lookup caches once.
func (e *enrichio) closeCaches() {
	if e.doiKV != nil {
		if err := e.doiKV.Close(); err != nil {
			slog.Error("Cannot close DOI cache", "error", err)
		}
	}
	if e.jgaKV != nil {
		if err := e.jgaKV.Close(); err != nil {
			slog.Error("Cannot close JGA cache", "error", err)
		}
	}
}
