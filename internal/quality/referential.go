package quality

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Lumos-Labs-HQ/procgen/internal/schema"
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
)

// referentialChecks derives one check per foreign key in the schema
// registry, so a new relationship is validated as soon as it is declared.
func referentialChecks() []Check {
	var checks []Check
	for _, st := range schema.Tables() {
		for _, fk := range st.ForeignKeys {
			child, fk := st.Name, fk
			name := fmt.Sprintf("%s.%s in %s", child, strings.Join(fk.Columns, "+"), fk.RefTable)
			checks = append(checks, NewCheck(name, CategoryReferential, func(in *Input) []Finding {
				return checkForeignKey(in, name, child, fk)
			}))
		}
	}
	return checks
}

func checkForeignKey(in *Input, name, child string, fk schema.ForeignKey) []Finding {
	ct, pt := in.table(child), in.table(fk.RefTable)
	if ct == nil || pt == nil || !hasColumns(ct, fk.Columns) || !hasColumns(pt, fk.RefColumns) {
		return nil
	}

	parents := compositeKeys(pt, fk.RefColumns)
	children := compositeKeys(ct, fk.Columns)

	var missing []string
	for k := range children {
		if _, ok := parents[k]; !ok {
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)

	cols := strings.Join(fk.Columns, "+")
	if len(missing) == 0 {
		return []Finding{pass(CategoryReferential, name,
			fmt.Sprintf("All %s.%s exist in %s.", child, cols, fk.RefTable))}
	}

	desc := fmt.Sprintf("%s records found with %s not present in %s.", child, cols, fk.RefTable)
	if len(fk.Columns) > 1 {
		desc = fmt.Sprintf("%s records found with %s combinations not present in %s.", child, cols, fk.RefTable)
	}
	ex := newExamples(in.exampleLimit())
	for _, k := range missing {
		ex.add(k)
	}
	return []Finding{violation(CategoryReferential, name, StatusFail, SeverityCritical, desc,
		len(missing), len(children), ex.list())}
}

// compositeKeys returns the distinct keys over cols, skipping rows where
// any key column is null.
func compositeKeys(t *table.Table, cols []string) map[string]struct{} {
	out := make(map[string]struct{})
rows:
	for i := 0; i < t.Len(); i++ {
		for _, c := range cols {
			if t.Value(i, c) == nil {
				continue rows
			}
		}
		out[keyOf(t, i, cols)] = struct{}{}
	}
	return out
}

func hasColumns(t *table.Table, cols []string) bool {
	for _, c := range cols {
		if !t.Has(c) {
			return false
		}
	}
	return true
}
