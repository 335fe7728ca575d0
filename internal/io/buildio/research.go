package buildio

import (
	"fmt"
	"sort"

	"github.com/humandbs/humcat/internal/ent/record"
	"github.com/humandbs/humcat/internal/ids"
	"github.com/humandbs/humcat/pkg/config"
	"github.com/humandbs/humcat/pkg/ent/model"
)

// assembleResearch merges the per-language records of one entry into the
// research document and one research-version document per revision.
func assembleResearch(
	cfg config.Config,
	humID string,
	byLang map[record.Lang][]record.ParsedDetail,
) (model.Research, []model.ResearchVersion) {
	res := model.Research{
		HumID: humID,
		Title: make(map[record.Lang]string),
	}

	// collect the union of revisions over both languages
	revs := make(map[int]*model.ResearchVersion)

	var latest int
	for lang, details := range byLang {
		for _, d := range details {
			if d.Version > latest {
				latest = d.Version
			}
			res.Title[lang] = d.Summary.Title

			rv, ok := revs[d.Version]
			if !ok {
				rv = &model.ResearchVersion{
					HumID:        humID,
					HumVersionID: d.HumVersionID,
					Version:      d.Version,
					Content:      make(map[record.Lang]string),
					ReleaseNote:  make(map[record.Lang]*record.ReleaseNote),
				}
				revs[d.Version] = rv
			}

			for _, rel := range d.Releases {
				if rel.HumVersionID != d.HumVersionID {
					continue
				}
				if rv.ReleaseDate == "" {
					rv.ReleaseDate = rel.Date
				}
				if rel.Content != "" {
					rv.Content[lang] = rel.Content
				}
				if rel.Note != nil {
					rv.ReleaseNote[lang] = rel.Note
				}
			}

			rv.DatasetIDs = union(rv.DatasetIDs, blockIDs(d))
		}
	}

	versions := make([]model.ResearchVersion, 0, len(revs))
	for _, rv := range revs {
		versions = append(versions, *rv)
	}
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Version < versions[j].Version
	})

	for _, rv := range versions {
		res.HumVersionIDs = append(res.HumVersionIDs, rv.HumVersionID)
		res.DatasetIDs = union(res.DatasetIDs, rv.DatasetIDs)
		if rv.ReleaseDate == "" {
			continue
		}
		if res.FirstReleaseDate == "" || rv.ReleaseDate < res.FirstReleaseDate {
			res.FirstReleaseDate = rv.ReleaseDate
		}
		if rv.ReleaseDate > res.LastReleaseDate {
			res.LastReleaseDate = rv.ReleaseDate
		}
	}
	res.URL = fmt.Sprintf("%s/%s-v%d", cfg.BaseURL, humID, latest)

	return res, versions
}

func blockIDs(d record.ParsedDetail) []string {
	var res []string
	for _, block := range d.MolecularData {
		for _, id := range block.IDs {
			if ids.IsValidDatasetID(id) {
				res = append(res, id)
			}
		}
	}
	return res
}

// union merges two id lists keeping a sorted, deduplicated result.
func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	for _, s := range a {
		seen[s] = true
	}
	for _, s := range b {
		seen[s] = true
	}
	res := make([]string, 0, len(seen))
	for s := range seen {
		res = append(res, s)
	}
	sort.Strings(res)
	return res
}
