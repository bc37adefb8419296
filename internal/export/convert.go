package export

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/procgen/internal/config"
	"github.com/Lumos-Labs-HQ/procgen/internal/schema"
)

// converter coerces loaded cells to the registered field types. Blank
// text becomes nil; text that does not parse is kept as a string so the
// schema checks can report it.
type converter struct {
	fields []*schema.Field
}

func newConverter(tableName string, columns []string) converter {
	c := converter{fields: make([]*schema.Field, len(columns))}
	t, ok := schema.Lookup(tableName)
	if !ok {
		return c
	}
	for i, col := range columns {
		if f, ok := t.Field(col); ok {
			f := f
			c.fields[i] = &f
		}
	}
	return c
}

func (c converter) text(col int, s string) any {
	if s == "" {
		return nil
	}
	f := c.fields[col]
	if f == nil {
		return s
	}
	return parseText(f.Type, s)
}

// value conforms a typed cell from a columnar source.
func (c converter) value(col int, v any) any {
	f := c.fields[col]
	if f == nil || v == nil {
		return v
	}
	switch x := v.(type) {
	case string:
		return c.text(col, x)
	case []byte:
		return c.text(col, string(x))
	case int64:
		switch f.Type {
		case schema.Float:
			return float64(x)
		case schema.Bool:
			return x != 0
		case schema.String:
			return strconv.FormatInt(x, 10)
		}
	case float64:
		if f.Type == schema.Int && x == math.Trunc(x) {
			return int64(x)
		}
	case time.Time:
		if f.Type == schema.Date {
			return x.UTC().Truncate(24 * time.Hour)
		}
	}
	return v
}

func parseText(t schema.FieldType, s string) any {
	switch t {
	case schema.Int:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
			return int64(f)
		}
	case schema.Float:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case schema.Date:
		if d, err := time.Parse(config.DateLayout, s); err == nil {
			return d
		}
		// timestamps written by other tools
		if len(s) > len(config.DateLayout) && (s[10] == ' ' || s[10] == 'T') && strings.Trim(s[11:], "0:.Z") == "" {
			if d, err := time.Parse(config.DateLayout, s[:10]); err == nil {
				return d
			}
		}
	case schema.Bool:
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	default:
		return s
	}
	return s
}
