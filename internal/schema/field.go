package schema

import (
	"regexp"
	"time"

	"github.com/Lumos-Labs-HQ/procgen/internal/config"
)

type FieldType int

const (
	String FieldType = iota
	Int
	Float
	Date
	Bool
)

func (t FieldType) String() string {
	switch t {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Date:
		return "date"
	case Bool:
		return "bool"
	}
	return "unknown"
}

// Field is the contract for one column.
type Field struct {
	Name      string
	Type      FieldType
	Mandatory bool
	// MinLen and MaxLen bound string length; both zero means unchecked.
	MinLen, MaxLen int
	Format         *regexp.Regexp
	Values         []string
	Min            *float64
}

// HasLength reports whether a length constraint applies.
func (f Field) HasLength() bool {
	return f.Type == String && f.MaxLen > 0
}

// HasFormat reports whether the regex applies; only strings and dates are
// format checked.
func (f Field) HasFormat() bool {
	return f.Format != nil && (f.Type == String || f.Type == Date)
}

// TypeMatches reports whether a non-nil cell has the field's type.
func (f Field) TypeMatches(v any) bool {
	switch f.Type {
	case String:
		_, ok := v.(string)
		return ok
	case Int:
		_, ok := v.(int64)
		return ok
	case Float:
		switch v.(type) {
		case float64, int64:
			return true
		}
		return false
	case Date:
		_, ok := v.(time.Time)
		return ok
	case Bool:
		_, ok := v.(bool)
		return ok
	}
	return false
}

// Text renders a cell the way it is matched against formats and lengths.
func Text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case time.Time:
		return x.Format(config.DateLayout)
	}
	return toString(v)
}

func fixed(n int) (int, int) { return n, n }

func minimum(v float64) *float64 { return &v }

// field option helpers keep the registry table compact.
type option func(*Field)

func mandatory() option { return func(f *Field) { f.Mandatory = true } }

func length(n int) option {
	return func(f *Field) { f.MinLen, f.MaxLen = fixed(n) }
}

func lengthRange(lo, hi int) option {
	return func(f *Field) { f.MinLen, f.MaxLen = lo, hi }
}

func format(expr string) option {
	re := regexp.MustCompile(expr)
	return func(f *Field) { f.Format = re }
}

func values(v ...string) option {
	return func(f *Field) { f.Values = v }
}

func atLeast(v float64) option {
	return func(f *Field) { f.Min = minimum(v) }
}

func field(name string, t FieldType, opts ...option) Field {
	f := Field{Name: name, Type: t}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}
