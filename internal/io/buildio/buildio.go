package buildio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/humandbs/humcat/internal/differ"
	"github.com/humandbs/humcat/internal/ent/build"
	"github.com/humandbs/humcat/internal/ent/record"
	"github.com/humandbs/humcat/internal/ent/runstat"
	"github.com/humandbs/humcat/internal/io/fstore"
	"github.com/humandbs/humcat/pkg/config"
	"golang.org/x/sync/errgroup"
)

// buildio is a struct that implements the build.Builder interface.
type buildio struct {
	cfg config.Config
}

// New returns a new instance of Builder.
func New(cfg config.Config) (build.Builder, error) {
	if _, err := os.Stat(cfg.NormDir); err != nil {
		return nil, fmt.Errorf("normalized directory missing: %s", cfg.NormDir)
	}
	return &buildio{cfg: cfg}, nil
}

func (b *buildio) Build(ctx context.Context) (*runstat.Summary, error) {
	sum := runstat.New()

	humIDs, err := b.humIDs()
	if err != nil {
		return sum, err
	}
	slog.Info("Building structured documents", "entries", len(humIDs))

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

	// entries fold in parallel; inside one entry the differ is strictly
	// sequential over ascending revisions
	for i := 0; i < b.cfg.JobsNum; i++ {
		g.Go(func() error {
			for humID := range chIn {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				if err := b.buildEntry(humID); err != nil {
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
	sum.Log("build")
	return sum, nil
}

// buildEntry folds one catalog entry: per-language dataset histories plus
// the research and research-version documents.
func (b *buildio) buildEntry(humID string) error {
	byLang, err := b.loadDetails(humID)
	if err != nil {
		return err
	}
	if len(byLang) == 0 {
		return fmt.Errorf("no normalized records for %s", humID)
	}

	for lang, details := range byLang {
		datasets, warns := differ.Fold(details)
		for _, w := range warns {
			slog.Warn("Differ warning", "humId", humID, "lang", lang, "msg", w)
		}
		for id, ds := range datasets {
			path := filepath.Join(
				b.cfg.DatasetDir, fmt.Sprintf("%s-%s.json", id, lang))
			if err = fstore.Write(path, ds); err != nil {
				return err
			}
		}
	}

	research, versions := assembleResearch(b.cfg, humID, byLang)
	path := filepath.Join(b.cfg.ResearchDir, humID+".json")
	if err = fstore.Write(path, research); err != nil {
		return err
	}
	for _, rv := range versions {
		path = filepath.Join(b.cfg.ResearchVersionDir, rv.HumVersionID+".json")
		if err = fstore.Write(path, rv); err != nil {
			return err
		}
	}
	return nil
}

// loadDetails reads the normalized records of one entry, grouped by
// language, ascending by version. Ascending order is a hard requirement
// of the differ.
func (b *buildio) loadDetails(
	humID string,
) (map[record.Lang][]record.ParsedDetail, error) {
	keys, err := fstore.List(b.cfg.NormDir, ".json")
	if err != nil {
		return nil, err
	}

	res := make(map[record.Lang][]record.ParsedDetail)
	for _, key := range keys {
		id, _, lang, ok := fstore.ParseKey(key)
		if !ok || id != humID {
			continue
		}
		if b.cfg.Lang != "" && b.cfg.Lang != lang {
			continue
		}
		var d record.ParsedDetail
		err = fstore.Read(filepath.Join(b.cfg.NormDir, key+".json"), &d)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		l := record.Lang(lang)
		res[l] = append(res[l], d)
	}
	for _, details := range res {
		sort.Slice(details, func(i, j int) bool {
			return details[i].Version < details[j].Version
		})
	}
	return res, nil
}

func (b *buildio) humIDs() ([]string, error) {
	keys, err := fstore.List(b.cfg.NormDir, ".json")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, key := range keys {
		id, _, _, ok := fstore.ParseKey(key)
		if !ok {
			continue
		}
		if b.cfg.HumID != "" && b.cfg.HumID != id {
			continue
		}
		seen[id] = true
	}
	res := make([]string, 0, len(seen))
	for id := range seen {
		res = append(res, id)
	}
	sort.Strings(res)
	return res, nil
}
