package export

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Lumos-Labs-HQ/procgen/internal/schema"
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
)

// LoadResult holds the tables that could be read and the names of those
// that could not.
type LoadResult struct {
	Tables  table.Set
	Missing []string
}

// Load reads every registered table from dir. A missing or unreadable
// file is logged and reported in Missing; only an unsupported format is
// returned as an error.
func Load(dir, format string) (*LoadResult, error) {
	res := &LoadResult{Tables: table.Set{}}

	if format == FormatSQLite {
		tables, err := readSQLite(filepath.Join(dir, databaseFile))
		if err != nil {
			slog.Error("failed to open database", "path", filepath.Join(dir, databaseFile), "error", err)
		}
		for _, name := range schema.Names() {
			if t, ok := tables[name]; ok {
				res.Tables[name] = t
				continue
			}
			slog.Error("table missing from database", "table", name)
			res.Missing = append(res.Missing, name)
		}
		return res, nil
	}

	read, err := tableReader(format)
	if err != nil {
		return nil, err
	}
	for _, name := range schema.Names() {
		path := TablePath(dir, name, format)
		t, err := read(path, name)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				slog.Error("table file not found", "table", name, "path", path)
			} else {
				slog.Error("failed to load table", "table", name, "path", path, "error", err)
			}
			res.Missing = append(res.Missing, name)
			continue
		}
		slog.Info("table loaded", "table", name, "records", t.Len())
		res.Tables[name] = t
	}
	return res, nil
}

func tableReader(format string) (func(string, string) (*table.Table, error), error) {
	switch format {
	case FormatCSV:
		return readCSV, nil
	case FormatParquet:
		return readParquet, nil
	case FormatJSON:
		return readJSON, nil
	}
	return nil, fmt.Errorf("%w: %q (expected one of %v)", ErrUnsupportedFormat, format, LoadFormats)
}
