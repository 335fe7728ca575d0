// Package differ folds per-revision molecular-data blocks into per-dataset
// version histories. A dataset gets a new version only when its block
// content actually changed relative to the latest known snapshot.
package differ

import (
	"fmt"
	"sort"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
	"github.com/humandbs/humcat/internal/ent/record"
	"github.com/humandbs/humcat/internal/ids"
	"github.com/humandbs/humcat/pkg/ent/model"
)

// Fold consumes the parsed records of one catalog entry in ascending
// revision order and returns the dataset version table keyed by accession.
// Warnings report tolerated oddities (dataset rows without a recognizable
// accession, repeated sightings inside one revision); they never abort.
func Fold(details []record.ParsedDetail) (map[string]*model.Dataset, []string) {
	res := make(map[string]*model.Dataset)
	var warns []string

	for _, d := range details {
		refs := refTable(d, &warns)

		seen := make(map[string]bool)
		for _, block := range d.MolecularData {
			for _, id := range block.IDs {
				if !ids.IsValidDatasetID(id) {
					warns = append(warns, fmt.Sprintf(
						"%s: molecular block id %q is not a dataset accession",
						d.HumVersionID, id))
					continue
				}
				if seen[id] {
					warns = append(warns, fmt.Sprintf(
						"%s: accession %s appears in more than one block",
						d.HumVersionID, id))
					continue
				}
				seen[id] = true
				foldBlock(res, id, block, d.HumVersionID)
				appendMeta(res[id], refs[id])
			}
		}
	}
	return res, warns
}

// foldBlock applies the diff rule for one (accession, block) sighting.
func foldBlock(
	res map[string]*model.Dataset,
	id string,
	block record.MolecularDataBlock,
	humVersionID string,
) {
	fp := Fingerprint(block)

	ds, ok := res[id]
	if !ok {
		ds = &model.Dataset{
			AccessionID: id,
			Namespace:   string(ids.Type(id)),
		}
		res[id] = ds
	}

	if n := len(ds.Versions); n > 0 {
		latest := &ds.Versions[n-1]
		if latest.Fingerprint == fp {
			latest.HumVersionIDs = append(latest.HumVersionIDs, humVersionID)
			return
		}
	}

	ds.Versions = append(ds.Versions, model.DatasetVersion{
		AccessionID:   id,
		Version:       len(ds.Versions) + 1,
		HumVersionIDs: []string{humVersionID},
		Data:          block.Data,
		Footers:       block.Footers,
		Fingerprint:   fp,
	})
}

// appendMeta concatenates the revision's dataset-table metadata onto the
// latest version. Values are accumulated, not deduplicated: the history
// of what the table said is part of the record.
func appendMeta(ds *model.Dataset, refs []record.RawDatasetRef) {
	if len(ds.Versions) == 0 {
		return
	}
	latest := &ds.Versions[len(ds.Versions)-1]
	for _, ref := range refs {
		if ref.TypeOfData != "" {
			latest.TypeOfData = append(latest.TypeOfData, ref.TypeOfData)
		}
		if ref.Criteria != "" {
			latest.Criteria = append(latest.Criteria, ref.Criteria)
		}
		if ref.ReleaseDate != "" {
			latest.ReleaseDates = append(latest.ReleaseDates, ref.ReleaseDate)
		}
	}
}

// refTable indexes the revision's dataset-table rows by the accessions
// mentioned in their ID cell.
func refTable(
	d record.ParsedDetail, warns *[]string,
) map[string][]record.RawDatasetRef {
	res := make(map[string][]record.RawDatasetRef)
	for i, ref := range d.Datasets {
		found := ids.ExtractDatasetIDs(ref.IDText)
		if len(found) == 0 {
			*warns = append(*warns, fmt.Sprintf(
				"%s: dataset row %d has no recognizable accession: %q",
				d.HumVersionID, i, ref.IDText))
			continue
		}
		for _, id := range found {
			res[id] = append(res[id], ref)
		}
	}
	return res
}

// fingerprintable is the canonical shape hashed for content comparison.
// Identity fields (accession, version, membership) are excluded; rows are
// sorted by key so that unrelated reordering does not count as a change.
type fingerprintable struct {
	Data    []record.KV `json:"data"`
	Footers []string    `json:"footers"`
}

// Fingerprint returns the content-address of a molecular-data block.
func Fingerprint(block record.MolecularDataBlock) string {
	rows := make([]record.KV, len(block.Data))
	copy(rows, block.Data)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Key < rows[j].Key
	})

	enc := gnfmt.GNjson{}
	bs, err := enc.Encode(fingerprintable{Data: rows, Footers: block.Footers})
	if err != nil {
		// encoding plain structs cannot fail; keep the signature simple
		return ""
	}
	return gnuuid.New(string(bs)).String()
}
