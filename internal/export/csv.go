package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/Lumos-Labs-HQ/procgen/internal/table"
)

func writeCSV(path string, t *table.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	columns := t.Columns()
	if err := w.Write(columns); err != nil {
		return err
	}
	record := make([]string, len(columns))
	for i := 0; i < t.Len(); i++ {
		for j, v := range t.Row(i) {
			record[j] = cellText(v)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return file.Close()
}

func readCSV(path, name string) (*table.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s has no header row", path)
	}

	columns := records[0]
	conv := newConverter(name, columns)
	b := table.NewBuilder(name, columns...)
	for n, rec := range records[1:] {
		if len(rec) > len(columns) {
			return nil, fmt.Errorf("%s line %d: %d fields, header has %d", path, n+2, len(rec), len(columns))
		}
		row := make([]any, len(columns))
		for j := range rec {
			row[j] = conv.text(j, rec[j])
		}
		if err := b.Append(row...); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}
