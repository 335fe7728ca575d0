package facetio

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/humandbs/humcat/internal/ent/facet"
)

// readTable loads one TSV mapping table. The file is hand-edited between
// runs, so parsing is forgiving: a missing file is an empty table and
// malformed lines are logged and dropped.
func readTable(path, field string) (facet.Table, error) {
	res := facet.Table{Field: field}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return res, nil
	}
	if err != nil {
		return res, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("Malformed mapping line dropped",
				"file", path, "error", err)
			continue
		}
		if len(row) < 2 {
			slog.Warn("Short mapping line dropped", "file", path, "row", row)
			continue
		}
		entry := facet.MappingEntry{Raw: row[0], NormalizedTo: row[1]}
		if len(row) > 2 {
			entry.Count, _ = strconv.Atoi(row[2])
		}
		res.Entries = append(res.Entries, entry)
	}
	return res, nil
}

// writeTable persists one mapping table as raw\tnormalizedTo\tcount.
func writeTable(path string, t facet.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = '\t'
	for _, e := range t.Entries {
		err = w.Write([]string{e.Raw, e.NormalizedTo, strconv.Itoa(e.Count)})
		if err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
