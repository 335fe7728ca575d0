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
	"github.com/humandbs/humcat/internal/str"
)

const (
	// minTokenRatio is the hard floor on title similarity. A candidate
	// below it is rejected no matter how confident the registry is.
	minTokenRatio = 0.5

	// minCombinedScore keeps matches with a decent token ratio but
	// near-zero registry relevance out.
	minCombinedScore = 2.0

	// backoff429 is the fixed wait before the single retry after a 429.
	backoff429 = 10 * time.Second
)

// crossrefClient matches publication titles to DOIs through the Crossref
// works API, memoizing every lookup in the on-disk cache.
type crossrefClient struct {
	url   string
	cl    *resty.Client
	cache kv.KeyVal
	delay time.Duration
}

func newCrossrefClient(
	url string, cache kv.KeyVal, delay time.Duration,
) *crossrefClient {
	cl := resty.New().
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	return &crossrefClient{url: url, cl: cl, cache: cache, delay: delay}
}

type crossrefResp struct {
	Message struct {
		Items []crossrefItem `json:"items"`
	} `json:"message"`
}

type crossrefItem struct {
	DOI   string   `json:"DOI"`
	Title []string `json:"title"`
	Score float64  `json:"score"`
}

// MatchDOI finds the DOI of a publication title, or reports no match.
// The cache is consulted first; the registry's own relevance score is
// combined with a token-set ratio and both thresholds must clear.
func (c *crossrefClient) MatchDOI(
	ctx context.Context, title string, notBeforeYear int,
) (enrich.DoiCacheEntry, error) {
	enc := gnfmt.GNjson{}
	cacheKey := "doi:" + strings.ToLower(strings.TrimSpace(title))

	if bs, err := c.cache.Get(cacheKey); err == nil && bs != nil {
		var entry enrich.DoiCacheEntry
		if err = enc.Decode(bs, &entry); err == nil {
			return entry, nil
		}
		slog.Warn("Unreadable DOI cache entry, refetching", "title",
			str.ShortTitle(title))
	}

	time.Sleep(c.delay)
	resp, err := c.query(ctx, title, notBeforeYear)
	if err != nil {
		return enrich.DoiCacheEntry{}, err
	}

	entry := c.pickBest(title, resp)
	if bs, err := enc.Encode(entry); err == nil {
		c.cache.Set(cacheKey, bs)
	}
	return entry, nil
}

func (c *crossrefClient) query(
	ctx context.Context, title string, notBeforeYear int,
) (*crossrefResp, error) {
	req := func() (*resty.Response, error) {
		r := c.cl.R().
			SetContext(ctx).
			SetQueryParam("query.bibliographic", title).
			SetQueryParam("rows", "5").
			SetResult(&crossrefResp{})
		if notBeforeYear > 0 {
			r.SetQueryParam("filter",
				fmt.Sprintf("from-pub-date:%d-01-01", notBeforeYear))
		}
		return r.Get(c.url + "/works")
	}

	resp, err := req()
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		slog.Warn("Crossref rate limit hit, backing off",
			"wait", backoff429, "title", str.ShortTitle(title))
		time.Sleep(backoff429)
		if resp, err = req(); err != nil {
			return nil, err
		}
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("crossref: status %d", resp.StatusCode())
	}

	res, ok := resp.Result().(*crossrefResp)
	if !ok {
		return nil, fmt.Errorf("crossref: unexpected response shape")
	}
	return res, nil
}

// pickBest scores the candidates and returns the best acceptable one, or
// an unmatched entry when nothing clears the thresholds.
func (c *crossrefClient) pickBest(
	title string, resp *crossrefResp,
) enrich.DoiCacheEntry {
	entry := enrich.DoiCacheEntry{Title: title, Updated: time.Now()}
	want := str.NormalizeTitle(title)

	var bestScore float64
	for _, item := range resp.Message.Items {
		if len(item.Title) == 0 {
			continue
		}
		ratio := str.TokenSetRatio(want, str.NormalizeTitle(item.Title[0]))
		if ratio < minTokenRatio {
			continue
		}
		combined := item.Score * ratio
		if combined > bestScore {
			bestScore = combined
			entry.DOI = item.DOI
			entry.Score = combined
		}
	}

	if bestScore < minCombinedScore {
		entry.DOI = ""
		entry.Score = bestScore
		return entry
	}
	entry.Matched = true
	return entry
}
