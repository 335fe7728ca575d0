package normio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/humandbs/humcat/internal/ent/normalize"
	"github.com/humandbs/humcat/internal/ent/record"
	"github.com/humandbs/humcat/internal/ent/runstat"
	"github.com/humandbs/humcat/internal/io/fstore"
	"github.com/humandbs/humcat/internal/norm"
	"github.com/humandbs/humcat/pkg/config"
	"golang.org/x/sync/errgroup"
)

// normio is a struct that implements the normalize.Normalizer interface.
type normio struct {
	cfg config.Config
}

// New returns a new instance of Normalizer.
func New(cfg config.Config) (normalize.Normalizer, error) {
	if _, err := os.Stat(cfg.DetailDir); err != nil {
		return nil, fmt.Errorf("detail directory missing: %s", cfg.DetailDir)
	}
	return &normio{cfg: cfg}, nil
}

func (n *normio) Normalize(ctx context.Context) (*runstat.Summary, error) {
	sum := runstat.New()

	keys, err := n.keys()
	if err != nil {
		return sum, err
	}
	slog.Info("Normalizing records", "records", len(keys))

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

	for i := 0; i < n.cfg.JobsNum; i++ {
		g.Go(func() error {
			for key := range chIn {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				n.normalizeOne(key, sum)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return sum, err
	}
	sum.Log("normalize")
	return sum, nil
}

// normalizeOne rewrites a single record. An out-of-vocabulary criteria
// value fails the record; lossy date skips are only logged.
func (n *normio) normalizeOne(key string, sum *runstat.Summary) {
	outPath := filepath.Join(n.cfg.NormDir, key+".json")
	if !n.cfg.Force && fstore.Exists(outPath) {
		sum.Skip()
		return
	}

	var detail record.ParsedDetail
	err := fstore.Read(filepath.Join(n.cfg.DetailDir, key+".json"), &detail)
	if err != nil {
		sum.Failure(key, err)
		return
	}

	normalized, skips, err := norm.Detail(detail)
	if err != nil {
		sum.Failure(key, err)
		return
	}
	for _, s := range skips {
		slog.Debug("Value skipped during normalization", "unit", key, "reason", s)
	}

	if err = fstore.Write(outPath, normalized); err != nil {
		sum.Failure(key, err)
		return
	}
	sum.Success()
}

func (n *normio) keys() ([]string, error) {
	keys, err := fstore.List(n.cfg.DetailDir, ".json")
	if err != nil {
		return nil, err
	}
	var res []string
	for _, key := range keys {
		humID, _, lang, ok := fstore.ParseKey(key)
		if !ok {
			continue
		}
		if n.cfg.HumID != "" && n.cfg.HumID != humID {
			continue
		}
		if n.cfg.Lang != "" && n.cfg.Lang != lang {
			continue
		}
		res = append(res, key)
	}
	return res, nil
}
