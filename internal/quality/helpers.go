package quality

import (
	"sort"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/procgen/internal/schema"
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
)

// keyOf renders the values of cols in row i, joined with "/".
func keyOf(t *table.Table, i int, cols []string) string {
	parts := make([]string, len(cols))
	for j, c := range cols {
		parts[j] = schema.Text(t.Value(i, c))
	}
	return strings.Join(parts, "/")
}

// idFields returns the registered key columns of a table.
func idFields(name string) []string {
	if st, ok := schema.Lookup(name); ok {
		return st.IDFields
	}
	return nil
}

// examples collects up to limit offending record keys.
type examples struct {
	limit int
	keys  []string
}

func newExamples(limit int) *examples {
	return &examples{limit: limit, keys: []string{}}
}

func (e *examples) add(key string) {
	if len(e.keys) < e.limit {
		e.keys = append(e.keys, key)
	}
}

func (e *examples) list() []string { return e.keys }

// lineKey identifies a PO line item.
type lineKey struct {
	po, item string
}

func (k lineKey) String() string { return k.po + "/" + k.item }

func lineKeyAt(t *table.Table, i int) (lineKey, bool) {
	po, ok1 := t.String(i, "EBELN")
	item, ok2 := t.String(i, "EBELP")
	return lineKey{po, item}, ok1 && ok2
}

func sortLineKeys(keys []lineKey) {
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].po != keys[b].po {
			return keys[a].po < keys[b].po
		}
		return keys[a].item < keys[b].item
	})
}

// header is the subset of an EKKO row other checks join on.
type header struct {
	orderType string
	vendor    string
	date      time.Time
	hasDate   bool
}

// headerIndex maps EBELN to its header; the first occurrence wins.
func headerIndex(t *table.Table) map[string]header {
	idx := make(map[string]header, t.Len())
	for i := 0; i < t.Len(); i++ {
		po, ok := t.String(i, "EBELN")
		if !ok {
			continue
		}
		if _, seen := idx[po]; seen {
			continue
		}
		h := header{}
		h.orderType, _ = t.String(i, "BSART")
		h.vendor, _ = t.String(i, "LIFNR")
		h.date, h.hasDate = t.Date(i, "AEDAT")
		idx[po] = h
	}
	return idx
}

// distinctStrings returns the distinct non-null string values of col.
func distinctStrings(t *table.Table, col string) map[string]struct{} {
	out := make(map[string]struct{})
	for i := 0; i < t.Len(); i++ {
		if s, ok := t.String(i, col); ok {
			out[s] = struct{}{}
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// isHistoryKind reports whether row i of EKBE has the given BEWTP.
func isHistoryKind(t *table.Table, i int, kind string) bool {
	s, ok := t.String(i, "BEWTP")
	return ok && s == kind
}
