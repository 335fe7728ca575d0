package enrichio

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/go-resty/resty/v2"
	"github.com/humandbs/humcat/internal/ent/enrich"
	"github.com/humandbs/humcat/internal/ent/kv"
	"github.com/humandbs/humcat/internal/ids"
)

// jgaClient cross-references JGA study and dataset accessions through the
// DDBJ search API. A study groups several datasets; lookups work in both
// directions and every result is memoized.
type jgaClient struct {
	url   string
	cl    *resty.Client
	cache kv.KeyVal
	delay time.Duration
}

func newJgaClient(url string, cache kv.KeyVal, delay time.Duration) *jgaClient {
	cl := resty.New().
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	return &jgaClient{url: url, cl: cl, cache: cache, delay: delay}
}

type jgaResp struct {
	DbXrefs []struct {
		Identifier string `json:"identifier"`
		Type       string `json:"type"`
	} `json:"dbXrefs"`
}

// Related returns the accessions cross-referenced with one JGA accession:
// datasets for a study, studies for a dataset.
func (j *jgaClient) Related(
	ctx context.Context, accession string,
) ([]string, error) {
	enc := gnfmt.GNjson{}
	cacheKey := "jga:" + accession

	if bs, err := j.cache.Get(cacheKey); err == nil && bs != nil {
		var entry enrich.JgaRelationEntry
		if err = enc.Decode(bs, &entry); err == nil {
			return entry.Related, nil
		}
		slog.Warn("Unreadable JGA cache entry, refetching", "accession", accession)
	}

	time.Sleep(j.delay)

	kind := "jga-study"
	if strings.HasPrefix(accession, "JGAD") {
		kind = "jga-dataset"
	}
	req := func() (*resty.Response, error) {
		return j.cl.R().
			SetContext(ctx).
			SetResult(&jgaResp{}).
			Get(fmt.Sprintf("%s/%s/%s.json", j.url, kind, accession))
	}

	resp, err := req()
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		slog.Warn("JGA rate limit hit, backing off",
			"wait", backoff429, "accession", accession)
		time.Sleep(backoff429)
		if resp, err = req(); err != nil {
			return nil, err
		}
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		// unknown accession: memoize the absence too
	case resp.StatusCode() != http.StatusOK:
		return nil, fmt.Errorf("jga %s: status %d", accession, resp.StatusCode())
	}

	var related []string
	if res, ok := resp.Result().(*jgaResp); ok {
		wantNs := ids.NsJGAD
		if kind == "jga-dataset" {
			wantNs = ids.NsJGAS
		}
		for _, xref := range res.DbXrefs {
			if ids.Type(xref.Identifier) == wantNs {
				related = append(related, xref.Identifier)
			}
		}
	}

	entry := enrich.JgaRelationEntry{
		Accession: accession,
		Related:   related,
		Updated:   time.Now(),
	}
	if bs, err := enc.Encode(entry); err == nil {
		j.cache.Set(cacheKey, bs)
	}
	return related, nil
}
