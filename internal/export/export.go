// Package export writes procurement tables to disk and reads them back for
// validation.
package export

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/Lumos-Labs-HQ/procgen/internal/schema"
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
)

const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
	FormatJSON    = "json"
	FormatSQLite  = "sqlite"
	FormatXLSX    = "xlsx"
)

const (
	databaseFile = "procurement.db"
	workbookFile = "procurement.xlsx"
)

var ErrUnsupportedFormat = errors.New("unsupported format")

// TableFormats write one file per table and can be loaded back.
var TableFormats = []string{FormatCSV, FormatParquet, FormatJSON}

// Formats lists every output format.
var Formats = []string{FormatCSV, FormatParquet, FormatJSON, FormatSQLite, FormatXLSX}

// LoadFormats lists the formats Load understands.
var LoadFormats = []string{FormatCSV, FormatParquet, FormatJSON, FormatSQLite}

// Write persists every table of set under dir and returns the written
// paths. Tables are written in foreign-key insertion order.
func Write(set table.Set, dir, format string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	tables := ordered(set)

	switch format {
	case FormatSQLite:
		path := filepath.Join(dir, databaseFile)
		if err := writeSQLite(path, tables); err != nil {
			return nil, err
		}
		return []string{path}, nil
	case FormatXLSX:
		path := filepath.Join(dir, workbookFile)
		if err := writeXLSX(path, tables); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	write, err := tableWriter(format)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		path := TablePath(dir, t.Name(), format)
		if err := write(path, t); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", t.Name(), err)
		}
		slog.Debug("table written", "table", t.Name(), "records", t.Len(), "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}

func tableWriter(format string) (func(string, *table.Table) error, error) {
	switch format {
	case FormatCSV:
		return writeCSV, nil
	case FormatParquet:
		return writeParquet, nil
	case FormatJSON:
		return writeJSON, nil
	}
	return nil, fmt.Errorf("%w: %q (expected one of %v)", ErrUnsupportedFormat, format, Formats)
}

// TablePath is the file a per-table format uses for name.
func TablePath(dir, name, format string) string {
	file := name
	if t, ok := schema.Lookup(name); ok {
		file = t.File
	}
	return filepath.Join(dir, file+"."+format)
}

// ordered returns the registered tables in insertion order followed by any
// others by name.
func ordered(set table.Set) []*table.Table {
	out := make([]*table.Table, 0, len(set))
	seen := make(map[string]bool, len(set))
	for _, name := range schema.Names() {
		if t := set.Get(name); t != nil {
			out = append(out, t)
			seen[name] = true
		}
	}
	var rest []string
	for name := range set {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		out = append(out, set.Get(name))
	}
	return out
}

// cellText renders a cell for text formats. Nil renders as "".
func cellText(v any) string {
	return schema.Text(v)
}
