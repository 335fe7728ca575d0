package norm

import (
	"fmt"

	"github.com/humandbs/humcat/internal/ent/record"
)

// Detail applies every normalization rule to one parsed record and returns
// the normalized copy. Lossy date fallbacks are reported as skip reasons;
// an out-of-vocabulary access-criteria value fails the whole record.
func Detail(d record.ParsedDetail) (record.ParsedDetail, []string, error) {
	var skips []string

	d.Summary.Title = Fold(d.Summary.Title)
	d.Summary.Aims = Fold(d.Summary.Aims)
	d.Summary.Methods = Fold(d.Summary.Methods)
	d.Summary.Targets = Fold(d.Summary.Targets)
	d.Summary.Footers = Footers(d.Summary.Footers)

	for i, ds := range d.Datasets {
		canon, err := Criteria(ds.Criteria, d.Lang)
		if err != nil {
			return d, skips, fmt.Errorf("dataset row %d: %w", i, err)
		}
		d.Datasets[i].Criteria = canon
		d.Datasets[i].IDText = CleanIDText(ds.IDText)
		d.Datasets[i].TypeOfData = Fold(ds.TypeOfData)

		date := Date(ds.ReleaseDate)
		if date.IsOk() {
			d.Datasets[i].ReleaseDate = date.Value()
		} else {
			d.Datasets[i].ReleaseDate = ""
			skips = append(skips,
				fmt.Sprintf("dataset row %d release date: %s", i, date.Reason()))
		}
	}

	for i, md := range d.MolecularData {
		d.MolecularData[i].Footers = Footers(md.Footers)
		for j, kv := range md.Data {
			d.MolecularData[i].Data[j].Key = Fold(kv.Key)
			if kv.Value.IsList() {
				for k, v := range kv.Value.List {
					d.MolecularData[i].Data[j].Value.List[k] = Fold(v)
				}
			} else {
				d.MolecularData[i].Data[j].Value.Text = Fold(kv.Value.Text)
			}
		}
	}

	for i, r := range d.Releases {
		date := Date(r.Date)
		if date.IsOk() {
			d.Releases[i].Date = date.Value()
		} else {
			d.Releases[i].Date = ""
			skips = append(skips,
				fmt.Sprintf("release %s date: %s", r.HumVersionID, date.Reason()))
		}
		d.Releases[i].Content = Fold(r.Content)
	}

	for i, p := range d.Providers {
		d.Providers[i].Name = Fold(p.Name)
		d.Providers[i].Affiliation = Fold(p.Affiliation)
		d.Providers[i].Role = Fold(p.Role)
	}
	for i, p := range d.Publications {
		d.Publications[i].Title = Fold(p.Title)
		d.Publications[i].Journal = Fold(p.Journal)
	}
	for i, g := range d.Grants {
		d.Grants[i].Agency = Fold(g.Agency)
		d.Grants[i].Project = Fold(g.Project)
		d.Grants[i].ID = Fold(g.ID)
	}

	return d, skips, nil
}
