package quality

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/Lumos-Labs-HQ/procgen/internal/schema"
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
)

// schemaChecks returns one check per registered table. Only violations
// are reported; a clean table contributes no findings.
func schemaChecks() []Check {
	var checks []Check
	for _, st := range schema.Tables() {
		st := st
		checks = append(checks, NewCheck(st.Name+" schema", CategorySchema, func(in *Input) []Finding {
			t := in.table(st.Name)
			if t == nil {
				return nil
			}
			return validateTable(st, t, in.exampleLimit())
		}))
	}
	return checks
}

func validateTable(st *schema.Table, t *table.Table, limit int) []Finding {
	var out []Finding
	total := t.Len()

	for _, f := range st.Fields {
		if !t.Has(f.Name) {
			missing := violation(CategorySchema, st.Name+"."+f.Name+" - Field Missing",
				StatusFail, SeverityCritical,
				fmt.Sprintf("Field '%s' is missing from table '%s'.", f.Name, st.Name),
				total, total, nil)
			missing.AffectedPct = 100
			out = append(out, missing)
		}
	}

	for _, f := range st.Fields {
		if !t.Has(f.Name) {
			continue
		}
		for _, rule := range fieldRules(f) {
			ex := newExamples(limit)
			n := 0
			for i := 0; i < total; i++ {
				if rule.violates(t.Value(i, f.Name)) {
					n++
					ex.add(keyOf(t, i, st.IDFields))
				}
			}
			if n == 0 {
				continue
			}
			out = append(out, violation(CategorySchema, st.Name+"."+f.Name+" - "+rule.name,
				StatusFail, rule.severity,
				fmt.Sprintf(rule.description, f.Name, st.Name),
				n, total, ex.list()))
		}
	}
	return out
}

type fieldRule struct {
	name        string
	severity    Severity
	description string
	violates    func(v any) bool
}

// fieldRules lists the constraints that apply to f, in reporting order.
// Every rule except the null check ignores null cells.
func fieldRules(f schema.Field) []fieldRule {
	var rules []fieldRule
	if f.Mandatory {
		rules = append(rules, fieldRule{
			name:        "Null Values in Mandatory Field",
			severity:    SeverityCritical,
			description: "Mandatory field '%s' in '%s' has null values.",
			violates:    func(v any) bool { return v == nil },
		})
	}
	rules = append(rules, fieldRule{
		name:        "Incorrect Data Type",
		severity:    SeverityCritical,
		description: "Field '%s' in '%s' has incorrect data types.",
		violates:    func(v any) bool { return v != nil && !f.TypeMatches(v) },
	})
	if f.HasLength() {
		rules = append(rules, fieldRule{
			name:        "Invalid Length",
			severity:    SeverityWarning,
			description: "Field '%s' in '%s' has invalid length.",
			violates: func(v any) bool {
				if v == nil {
					return false
				}
				n := utf8.RuneCountInString(schema.Text(v))
				return n < f.MinLen || n > f.MaxLen
			},
		})
	}
	if f.HasFormat() {
		rules = append(rules, fieldRule{
			name:        "Invalid Format",
			severity:    SeverityWarning,
			description: "Field '%s' in '%s' has invalid format.",
			violates: func(v any) bool {
				return v != nil && !f.Format.MatchString(schema.Text(v))
			},
		})
	}
	if len(f.Values) > 0 {
		rules = append(rules, fieldRule{
			name:        "Invalid Value",
			severity:    SeverityWarning,
			description: "Field '%s' in '%s' contains values not in the allowed list.",
			violates: func(v any) bool {
				return v != nil && !slices.Contains(f.Values, schema.Text(v))
			},
		})
	}
	if f.Min != nil {
		floor := *f.Min
		rules = append(rules, fieldRule{
			name:        "Value Below Minimum",
			severity:    SeverityWarning,
			description: fmt.Sprintf("Field '%%s' in '%%s' has values below the minimum of %g.", floor),
			violates: func(v any) bool {
				switch x := v.(type) {
				case float64:
					return x < floor
				case int64:
					return float64(x) < floor
				}
				return false
			},
		})
	}
	return rules
}
