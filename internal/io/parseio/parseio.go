package parseio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/humandbs/humcat/internal/ent/parse"
	"github.com/humandbs/humcat/internal/ent/record"
	"github.com/humandbs/humcat/internal/ent/runstat"
	"github.com/humandbs/humcat/internal/io/fstore"
	"github.com/humandbs/humcat/pkg/config"
	"golang.org/x/sync/errgroup"
)

// parseio is a struct that implements the parse.Parser interface.
type parseio struct {
	cfg config.Config
}

// New returns a new instance of Parser.
func New(cfg config.Config) (parse.Parser, error) {
	if _, err := os.Stat(cfg.HTMLDir); err != nil {
		return nil, fmt.Errorf("HTML cache directory missing: %s", cfg.HTMLDir)
	}
	return &parseio{cfg: cfg}, nil
}

// unit is one (entry, revision, language) page to parse.
type unit struct {
	humID   string
	version int
	lang    record.Lang
}

func (p *parseio) Parse(ctx context.Context) (*runstat.Summary, error) {
	sum := runstat.New()

	units, err := p.units()
	if err != nil {
		return sum, err
	}
	slog.Info("Parsing cached pages", "pages", len(units))

	releases := p.releaseTables(units)

	chIn := make(chan unit)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		for _, u := range units {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case chIn <- u:
			}
		}
		return nil
	})

	for i := 0; i < p.cfg.JobsNum; i++ {
		g.Go(func() error {
			for u := range chIn {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				p.parseOne(u, releases, sum)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return sum, err
	}
	sum.Log("parse")
	return sum, nil
}

// parseOne processes a single page. Failures land in the summary with
// enough context to retry the unit; they never stop the batch.
func (p *parseio) parseOne(
	u unit,
	releases map[string]map[record.Lang][]record.Release,
	sum *runstat.Summary,
) {
	key := fstore.Key(u.humID, u.version, string(u.lang))
	outPath := filepath.Join(p.cfg.DetailDir, key+".json")
	if !p.cfg.Force && fstore.Exists(outPath) {
		sum.Skip()
		return
	}

	html, err := os.ReadFile(filepath.Join(p.cfg.HTMLDir, key+".html"))
	if err != nil {
		sum.Failure(key, err)
		return
	}

	detail, err := ParseDetail(html, u.humID, u.version, u.lang)
	if err != nil {
		sum.Failure(key, err)
		return
	}
	if rel, ok := releases[u.humID][u.lang]; ok {
		detail.Releases = rel
	}

	if err = fstore.Write(outPath, detail); err != nil {
		sum.Failure(key, err)
		return
	}
	sum.Success()
}

// units lists the cached detail pages selected by the run filters.
func (p *parseio) units() ([]unit, error) {
	keys, err := fstore.List(p.cfg.HTMLDir, ".html")
	if err != nil {
		return nil, err
	}
	var res []unit
	for _, key := range keys {
		humID, version, lang, ok := fstore.ParseKey(key)
		if !ok || lang == "" {
			continue // release pages and strays
		}
		if p.cfg.HumID != "" && p.cfg.HumID != humID {
			continue
		}
		if p.cfg.Lang != "" && p.cfg.Lang != lang {
			continue
		}
		res = append(res, unit{humID: humID, version: version, lang: record.Lang(lang)})
	}
	return res, nil
}

// releaseTables parses the cached release page of every selected entry
// once per language. A missing release page is an expected absence.
func (p *parseio) releaseTables(
	units []unit,
) map[string]map[record.Lang][]record.Release {
	res := make(map[string]map[record.Lang][]record.Release)
	for _, u := range units {
		if _, ok := res[u.humID][u.lang]; ok {
			continue
		}
		path := filepath.Join(
			p.cfg.HTMLDir, fmt.Sprintf("%s-release-%s.html", u.humID, u.lang))
		html, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				slog.Warn("Cannot read release page", "path", path, "error", err)
			}
			continue
		}
		rel, err := ParseRelease(html, u.lang)
		if err != nil {
			slog.Warn("Cannot parse release page",
				"humId", u.humID, "lang", u.lang, "error", err)
			continue
		}
		if res[u.humID] == nil {
			res[u.humID] = make(map[record.Lang][]record.Release)
		}
		res[u.humID][u.lang] = rel
	}
	return res
}
