package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/Lumos-Labs-HQ/procgen/internal/config"
	"github.com/Lumos-Labs-HQ/procgen/internal/schema"
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
)

// record marshals one row as an object with keys in column order.
type record struct {
	columns []string
	values  []any
}

func (r record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		v := r.values[i]
		if d, ok := v.(time.Time); ok {
			v = d.Format(config.DateLayout)
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(path string, t *table.Table) error {
	columns := t.Columns()
	rows := make([]record, t.Len())
	for i := range rows {
		rows[i] = record{columns: columns, values: t.Row(i)}
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// readJSON reads an array of objects. Columns follow the registered field
// order, with unregistered keys appended by name.
func readJSON(path, name string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	present := map[string]bool{}
	for _, obj := range objects {
		for k := range obj {
			present[k] = true
		}
	}
	var columns []string
	if t, ok := schema.Lookup(name); ok {
		for _, f := range t.FieldNames() {
			if present[f] {
				columns = append(columns, f)
				delete(present, f)
			}
		}
	}
	extra := make([]string, 0, len(present))
	for k := range present {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	columns = append(columns, extra...)

	conv := newConverter(name, columns)
	b := table.NewBuilder(name, columns...)
	for _, obj := range objects {
		row := make([]any, len(columns))
		for j, col := range columns {
			switch v := obj[col].(type) {
			case nil:
			case json.Number:
				row[j] = conv.text(j, v.String())
			case string:
				row[j] = conv.text(j, v)
			case bool:
				row[j] = conv.value(j, v)
			default:
				row[j] = conv.text(j, fmt.Sprint(v))
			}
		}
		if err := b.Append(row...); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}
