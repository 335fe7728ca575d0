package facetio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gnames/gnsys"
	"github.com/humandbs/humcat/internal/ent/facet"
	"github.com/humandbs/humcat/internal/ent/runstat"
	"github.com/humandbs/humcat/internal/io/fstore"
	"github.com/humandbs/humcat/internal/norm"
	"github.com/humandbs/humcat/pkg/config"
	"github.com/humandbs/humcat/pkg/ent/model"
	"golang.org/x/sync/errgroup"
)

// facetio is a struct that implements the facet.Collector interface.
type facetio struct {
	cfg config.Config

	mu      sync.Mutex
	tallies map[string]map[string]int
}

// New returns a new instance of Collector.
func New(cfg config.Config) (facet.Collector, error) {
	if _, err := os.Stat(cfg.DatasetDir); err != nil {
		return nil, fmt.Errorf("dataset directory missing: %s", cfg.DatasetDir)
	}
	if err := gnsys.MakeDir(cfg.FacetDir); err != nil {
		return nil, err
	}
	res := &facetio{cfg: cfg, tallies: make(map[string]map[string]int)}
	for _, f := range facet.Fields {
		res.tallies[f] = make(map[string]int)
	}
	return res, nil
}

func (f *facetio) Collect(ctx context.Context) (*runstat.Summary, error) {
	sum := runstat.New()

	keys, err := fstore.List(f.cfg.DatasetDir, ".json")
	if err != nil {
		return sum, err
	}
	slog.Info("Collecting facet values", "datasets", len(keys))

	chIn := make(chan string)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		for _, key := range keys {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case chIn <- key:
			}
		}
		return nil
	})

	for i := 0; i < f.cfg.JobsNum; i++ {
		g.Go(func() error {
			for key := range chIn {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				if err := f.tallyOne(key); err != nil {
					sum.Failure(key, err)
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

	if err := f.mergeTables(); err != nil {
		return sum, err
	}
	sum.Log("facets")
	return sum, nil
}

// tallyOne counts the searchable values of one dataset document.
func (f *facetio) tallyOne(key string) error {
	var ds model.Dataset
	err := fstore.Read(filepath.Join(f.cfg.DatasetDir, key+".json"), &ds)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range ds.Versions {
		for _, t := range v.TypeOfData {
			f.tallies["typeOfData"][t]++
		}
		for _, c := range v.Criteria {
			f.tallies["criteria"][c]++
		}
		for _, kv := range v.Data {
			if strings.ToLower(norm.Fold(kv.Key)) != "platform" {
				continue
			}
			if kv.Value.IsList() {
				for _, item := range kv.Value.List {
					f.tallies["platform"][item]++
				}
			} else if kv.Value.Text != "" {
				f.tallies["platform"][kv.Value.Text]++
			}
		}
	}
	return nil
}

// mergeTables folds the run's tallies into the persisted mapping tables.
// Human decisions survive; new raw values arrive as PENDING and are
// reported for review.
func (f *facetio) mergeTables() error {
	for _, field := range facet.Fields {
		path := filepath.Join(f.cfg.FacetDir, field+".tsv")

		table, err := readTable(path, field)
		if err != nil {
			return err
		}
		merged, rep := facet.Merge(table, f.tallies[field])
		if err = writeTable(path, merged); err != nil {
			return err
		}

		slog.Info("Facet table merged",
			"field", field,
			"entries", len(merged.Entries),
			"new", len(rep.New),
			"pending", rep.Pending,
		)
		for _, raw := range rep.New {
			slog.Info("New facet value awaiting review",
				"field", field, "raw", raw)
		}
	}
	return nil
}
