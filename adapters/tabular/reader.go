// Package tabular loads the raw record tables from disk. Each logical
// source (enrollment, demographic, biometric) lives in its own directory
// of CSV or Excel files; every matching file is read and concatenated
// into one table per source.
package tabular

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"regpulse/domain/table"
	"regpulse/internal"
	"regpulse/ports"
)

// DirectorySource discovers and reads source files under a data
// directory laid out as <dataDir>/<source>/*.{csv,xlsx}.
type DirectorySource struct {
	dataDir string
	logger  *internal.Logger
}

var _ ports.TableSource = (*DirectorySource)(nil)

// NewDirectorySource creates a source rooted at dataDir.
func NewDirectorySource(dataDir string, logger *internal.Logger) *DirectorySource {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DirectorySource{dataDir: dataDir, logger: logger}
}

// LoadAll reads every logical source directory. A missing directory or
// an unreadable file is logged and skipped; the engine degrades
// per-source rather than failing the run.
func (s *DirectorySource) LoadAll(ctx context.Context) (map[string]*table.Table, error) {
	tables := make(map[string]*table.Table, len(table.Sources))
	for _, source := range table.Sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dir := filepath.Join(s.dataDir, source)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			s.logger.Debug("no %s directory at %s", source, dir)
			continue
		}

		t, err := s.loadDirectory(source, dir)
		if err != nil {
			return nil, err
		}
		tables[source] = t
		s.logger.Info("loaded %s: %d records from %s", source, t.Len(), dir)
	}
	return tables, nil
}

// loadDirectory concatenates every data file in dir into one table,
// tagging rows with the contributing file name.
func (s *DirectorySource) loadDirectory(source, dir string) (*table.Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".csv", ".xlsx":
			files = append(files, e.Name())
		}
	}
	// Stable file order keeps the concatenated row order reproducible.
	sort.Strings(files)

	t := table.New(source, nil)
	for _, name := range files {
		path := filepath.Join(dir, name)
		rows, err := readFile(path)
		if err != nil {
			s.logger.Warn("error loading %s: %v", name, err)
			continue
		}
		appendRows(t, rows, name)
		s.logger.Info("  loaded %s: %d records", name, len(rows)-1)
	}
	return t, nil
}

// readFile reads a CSV or Excel file into raw string rows, header first.
func readFile(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readExcel(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("file must have a header row and at least one data row")
	}
	return rows, nil
}

func readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	// Always the first sheet.
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("file must have a header row and at least one data row")
	}
	return rows, nil
}

// appendRows folds raw rows into the table, trimming headers and cells
// and recording the source file per row.
func appendRows(t *table.Table, rows [][]string, fileName string) {
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	for _, raw := range rows[1:] {
		row := make(table.Row, len(headers)+1)
		for j, cell := range raw {
			if j < len(headers) && headers[j] != "" {
				row[headers[j]] = strings.TrimSpace(cell)
			}
		}
		row[table.SourceFileColumn] = fileName
		t.Append(row)
	}
}
