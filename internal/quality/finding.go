// Package quality is the rule-based validation engine for the procurement
// tables. Checks are independent and produce findings; the engine groups
// them by category, profiles the data and computes a weighted score.
package quality

import "math"

type Status string

const (
	StatusPass    Status = "PASS"
	StatusFail    Status = "FAIL"
	StatusWarning Status = "WARNING"
	StatusInfo    Status = "INFO"
)

type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityWarning  Severity = "Warning"
	SeverityInfo     Severity = "Info"
)

type Category string

const (
	CategorySchema       Category = "schema_validation"
	CategoryReferential  Category = "referential_integrity"
	CategoryBusiness     Category = "business_logic_validation"
	CategoryStatistical  Category = "statistical_validation"
	CategoryCompleteness Category = "completeness_checks"
)

// Categories in pipeline and report order.
var Categories = []Category{
	CategorySchema,
	CategoryReferential,
	CategoryBusiness,
	CategoryStatistical,
	CategoryCompleteness,
}

// Weights of each category in the overall score.
var Weights = map[Category]float64{
	CategorySchema:       0.30,
	CategoryReferential:  0.30,
	CategoryBusiness:     0.25,
	CategoryStatistical:  0.10,
	CategoryCompleteness: 0.05,
}

// Finding is one structured validation result.
type Finding struct {
	Category    Category `json:"category" yaml:"category"`
	Check       string   `json:"check_name" yaml:"check_name"`
	Status      Status   `json:"status" yaml:"status"`
	Severity    Severity `json:"severity" yaml:"severity"`
	Description string   `json:"description" yaml:"description"`
	Violations  int      `json:"violations" yaml:"violations"`
	AffectedPct float64  `json:"affected_percentage" yaml:"affected_percentage"`
	Examples    []string `json:"examples" yaml:"examples"`
}

func pass(cat Category, check, description string) Finding {
	return Finding{Category: cat, Check: check, Status: StatusPass, Severity: SeverityInfo,
		Description: description, Examples: []string{}}
}

func info(cat Category, check, description string) Finding {
	return Finding{Category: cat, Check: check, Status: StatusInfo, Severity: SeverityInfo,
		Description: description, Examples: []string{}}
}

// violation builds a FAIL or WARNING finding; the affected percentage is
// violations over total, rounded to two decimals.
func violation(cat Category, check string, status Status, sev Severity, description string, violations, total int, examples []string) Finding {
	if examples == nil {
		examples = []string{}
	}
	return Finding{
		Category:    cat,
		Check:       check,
		Status:      status,
		Severity:    sev,
		Description: description,
		Violations:  violations,
		AffectedPct: percent(violations, total),
		Examples:    examples,
	}
}

func percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
