package parseio

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/humandbs/humcat/internal/ent/record"
	"github.com/humandbs/humcat/internal/ids"
	"github.com/humandbs/humcat/internal/norm"
)

// summary-table headings per field. Heading text drifted across the
// years, so matching is on the folded, lowercased text, never on markup.
var summaryHeadings = map[string][]string{
	"aims":    {"aims", "objective", "目的"},
	"methods": {"methods", "方法"},
	"targets": {"participants/materials", "materials", "対象"},
	"url":     {"url", "website"},
}

// ParseDetail converts one detail page into a structured record. The
// summary container is the only required anchor; every other section is
// optional and parses to an empty list when absent.
func ParseDetail(
	html []byte, humID string, version int, lang record.Lang,
) (record.ParsedDetail, error) {
	res := record.ParsedDetail{
		HumID:        humID,
		HumVersionID: fmt.Sprintf("%s-v%d", humID, version),
		Version:      version,
		Lang:         lang,
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return res, err
	}

	summary := doc.Find("#research-summary")
	if summary.Length() == 0 {
		return res, fmt.Errorf(
			"%s (%s): missing anchor #research-summary", res.HumVersionID, lang)
	}
	res.Summary = parseSummary(summary, doc)

	res.Datasets = parseDatasetTable(doc.Find("#datasets table").First())
	res.MolecularData = parseMolecular(doc.Find("#molecular-data"))
	res.Providers = parseProviders(doc.Find("#data-provider"))
	res.Publications = parsePublications(doc.Find("#publications table").First())
	res.Grants = parseGrants(doc.Find("#grants table").First())

	return res, nil
}

func parseSummary(sel *goquery.Selection, doc *goquery.Document) record.Summary {
	var res record.Summary

	res.Title = strings.TrimSpace(doc.Find("h1.research-title").First().Text())
	if res.Title == "" {
		res.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	sel.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		key := headingKey(row.Find("th").First().Text())
		cell := row.Find("td").First()
		switch key {
		case "aims":
			res.Aims = strings.TrimSpace(cell.Text())
		case "methods":
			res.Methods = strings.TrimSpace(cell.Text())
		case "targets":
			res.Targets = strings.TrimSpace(cell.Text())
		case "url":
			if href, ok := cell.Find("a").First().Attr("href"); ok {
				res.URL = href
			} else {
				res.URL = strings.TrimSpace(cell.Text())
			}
		}
	})

	sel.Find("p.footnote").Each(func(_ int, p *goquery.Selection) {
		res.Footers = append(res.Footers, strings.TrimSpace(p.Text()))
	})
	return res
}

// headingKey matches a heading cell against the known heading texts,
// whitespace-insensitively.
func headingKey(text string) string {
	t := strings.ToLower(norm.Fold(text))
	t = strings.Join(strings.Fields(t), " ")
	for key, variants := range summaryHeadings {
		for _, v := range variants {
			if t == v {
				return key
			}
		}
	}
	return ""
}

func parseDatasetTable(table *goquery.Selection) []record.RawDatasetRef {
	var res []record.RawDatasetRef
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return // header or malformed row
		}
		res = append(res, record.RawDatasetRef{
			IDText:      strings.TrimSpace(cells.Eq(0).Text()),
			TypeOfData:  strings.TrimSpace(cells.Eq(1).Text()),
			Criteria:    strings.TrimSpace(cells.Eq(2).Text()),
			ReleaseDate: strings.TrimSpace(cells.Eq(3).Text()),
		})
	})
	return res
}

// parseMolecular walks the molecular-data container in document order:
// every h4 opens a block, tables fill it, footnote paragraphs close it.
func parseMolecular(sel *goquery.Selection) []record.MolecularDataBlock {
	var res []record.MolecularDataBlock
	var cur *record.MolecularDataBlock

	sel.Children().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "h4":
			res = append(res, record.MolecularDataBlock{
				IDs: ids.ExtractDatasetIDs(norm.Fold(child.Text())),
			})
			cur = &res[len(res)-1]
		case "table":
			if cur == nil {
				return
			}
			cur.Data = append(cur.Data, parseKVRows(child)...)
		case "p":
			if cur == nil || !child.HasClass("footnote") {
				return
			}
			cur.Footers = append(cur.Footers, strings.TrimSpace(child.Text()))
		}
	})
	return res
}

func parseKVRows(table *goquery.Selection) []record.KV {
	var res []record.KV
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		key := strings.TrimSpace(row.Find("th").First().Text())
		if key == "" {
			return
		}
		cell := row.Find("td").First()
		items := cell.Find("li")
		var val record.Value
		if items.Length() > 0 {
			items.Each(func(_ int, li *goquery.Selection) {
				val.List = append(val.List, strings.TrimSpace(li.Text()))
			})
		} else {
			val.Text = strings.TrimSpace(cell.Text())
		}
		res = append(res, record.KV{Key: key, Value: val})
	})
	return res
}

func parseProviders(sel *goquery.Selection) []record.Provider {
	var res []record.Provider
	sel.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		p := record.Provider{
			Name:        strings.TrimSpace(cells.Eq(0).Text()),
			Affiliation: strings.TrimSpace(cells.Eq(1).Text()),
		}
		if cells.Length() > 2 {
			p.Role = strings.TrimSpace(cells.Eq(2).Text())
		}
		if p.Name != "" {
			res = append(res, p)
		}
	})
	return res
}

func parsePublications(table *goquery.Selection) []record.Publication {
	var res []record.Publication
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		p := record.Publication{
			Title:   strings.TrimSpace(cells.Eq(0).Text()),
			Journal: strings.TrimSpace(cells.Eq(1).Text()),
		}
		if cells.Length() > 2 {
			p.DOI = strings.TrimSpace(cells.Eq(2).Text())
		}
		if p.Title != "" {
			res = append(res, p)
		}
	})
	return res
}

func parseGrants(table *goquery.Selection) []record.Grant {
	var res []record.Grant
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		g := record.Grant{
			Agency:  strings.TrimSpace(cells.Eq(0).Text()),
			Project: strings.TrimSpace(cells.Eq(1).Text()),
		}
		if cells.Length() > 2 {
			g.ID = strings.TrimSpace(cells.Eq(2).Text())
		}
		if g.Agency != "" {
			res = append(res, g)
		}
	})
	return res
}
