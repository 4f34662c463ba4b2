package testkit

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"regpulse/domain/table"
	"regpulse/internal/errors"
)

// WriteCSVs writes each generated table to <dataDir>/<source>/<source>.csv
// in the layout the directory source reads back.
func WriteCSVs(dataDir string, tables map[string]*table.Table) error {
	for source, t := range tables {
		dir := filepath.Join(dataDir, source)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create data directory %s", dir)
		}
		path := filepath.Join(dir, source+".csv")
		if err := writeCSV(path, t); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(path string, t *table.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	columns := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c == table.SourceFileColumn {
			continue
		}
		columns = append(columns, c)
	}
	if err := w.Write(columns); err != nil {
		return errors.Wrapf(err, "write header to %s", path)
	}
	for _, row := range t.Rows {
		record := make([]string, len(columns))
		for i, c := range columns {
			record[i] = row[c]
		}
		if err := w.Write(record); err != nil {
			return errors.Wrapf(err, "write row to %s", path)
		}
	}
	w.Flush()
	return w.Error()
}
