package quality

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/Lumos-Labs-HQ/procgen/internal/config"
	"github.com/Lumos-Labs-HQ/procgen/internal/export"
	"github.com/Lumos-Labs-HQ/procgen/internal/schema"
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
)

// ErrMissingTables aborts a validation run when not every table loaded.
var ErrMissingTables = errors.New("not every table could be loaded")

// Requirements lists the thresholds the engine reads.
var Requirements = []config.Requirement{
	config.Float(config.KeyNetValueTolerance).AtLeast(0),
	config.Float(config.KeyContractPriceTolerance).AtLeast(0),
	config.Float(config.KeyInvoiceGRTolerance).AtLeast(0),
	config.Int(config.KeyBlockedVendorDays).AtLeast(0),
	config.Float(config.KeyOutlierStdDev).Above(0),
	config.Float(config.KeyParetoTopFraction).Fraction(),
	config.Float(config.KeyParetoExpectedShare).Fraction(),
	config.Float(config.KeyParetoTolerance).Fraction(),
	config.FloatRange(config.KeyComplianceRange).Fraction(),
	config.FloatRange(config.KeyLateDeliveryRange).Fraction(),
	config.Float(config.KeyGRInvoiceRatioTolerance).AtLeast(0),
	config.Float(config.KeyMaxMaterialGroupShare).Fraction(),
	config.Date(config.KeyDateRangeStart),
	config.Date(config.KeyDateRangeEnd),
	config.Date(config.KeyReferenceDate),
	config.Int(config.KeyExampleLimit).AtLeast(1),
}

var categoryTitles = map[Category]string{
	CategorySchema:       "Schema Validation",
	CategoryReferential:  "Referential Integrity Checks",
	CategoryBusiness:     "Business Logic Validation",
	CategoryStatistical:  "Statistical Validation",
	CategoryCompleteness: "Completeness Checks",
}

// Engine runs the registered checks over a set of tables and assembles the
// report.
type Engine struct {
	config   *config.Config
	registry *Registry
	log      *slog.Logger
	quiet    bool
	now      func() time.Time
}

func NewEngine(cfg *config.Config) *Engine {
	return &Engine{
		config:   cfg,
		registry: DefaultRegistry(),
		log:      slog.Default(),
		now:      time.Now,
	}
}

// Quiet disables console progress lines.
func (e *Engine) Quiet() *Engine {
	e.quiet = true
	return e
}

// WithRegistry replaces the built-in checks.
func (e *Engine) WithRegistry(r *Registry) *Engine {
	e.registry = r
	return e
}

// Validate loads the tables from dir and runs the engine. Any table that
// cannot be loaded aborts the run with ErrMissingTables.
func (e *Engine) Validate(dir, format string) (*Report, error) {
	if err := e.config.Check(Requirements...); err != nil {
		return nil, err
	}
	e.info(color.Cyan, "📂 Loading data from %s...", dir)
	res, err := export.Load(dir, format)
	if err != nil {
		return nil, err
	}
	for _, name := range schema.Names() {
		if t := res.Tables.Get(name); t != nil {
			e.info(color.Green, "  ✅ %s: loaded %d records", name, t.Len())
		}
	}
	if len(res.Missing) > 0 {
		e.info(color.Red, "  ❌ Not all required tables could be loaded: %s", strings.Join(res.Missing, ", "))
		return nil, fmt.Errorf("%w: %s", ErrMissingTables, strings.Join(res.Missing, ", "))
	}

	report, err := e.Run(res.Tables)
	if err != nil {
		return nil, err
	}
	report.Metadata.DataDir = dir
	return report, nil
}

// Run executes every check family in order, then profiles and scores the
// data. Findings are data: only invalid thresholds return an error.
func (e *Engine) Run(tables table.Set) (*Report, error) {
	if err := e.config.Check(Requirements...); err != nil {
		return nil, err
	}
	in := &Input{Tables: tables, Thresholds: e.config.Quality, ReferenceDate: e.config.ReferenceDate}

	findings := make(Findings)
	for _, cat := range Categories {
		e.info(color.Cyan, "\n🔍 Running %s...", categoryTitles[cat])
		var results []Finding
		for _, c := range e.registry.ByCategory(cat) {
			results = append(results, e.runCheck(c, in)...)
		}
		if len(results) > 0 {
			findings[cat] = results
		}
		e.log.Info("category validated", "category", cat, "findings", len(results), "score", round2(CategoryScore(results)))
	}

	e.info(color.Cyan, "\n📊 Generating data profile...")
	profile := BuildProfile(in)

	all := findings.All()
	scores := make(map[Category]float64, len(Categories))
	for _, cat := range Categories {
		scores[cat] = round2(CategoryScore(findings[cat]))
	}
	report := &Report{
		Metadata: Metadata{
			RunID:         uuid.NewString(),
			GeneratedAt:   e.now().UTC(),
			ReferenceDate: e.config.ReferenceDate.Format(config.DateLayout),
			SchemaVersion: schema.Version,
		},
		OverallScore:    Score(findings),
		CategoryScores:  scores,
		Summary:         summarize(all),
		Findings:        findings,
		Profile:         profile,
		Recommendations: recommend(all),
	}

	e.log.Info("validation finished", "score", report.OverallScore,
		"passed", report.Summary.PassCount, "failed", report.Summary.FailCount, "warnings", report.Summary.WarningCount)
	e.info(scoreColor(report.OverallScore), "\n🏁 Overall Data Quality Score: %.2f/100", report.OverallScore)
	return report, nil
}

// runCheck isolates one check: a panic becomes an INFO finding so the
// remaining checks still run.
func (e *Engine) runCheck(c Check, in *Input) (out []Finding) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("check panicked", "category", c.Category(), "check", c.Name(), "panic", fmt.Sprint(r))
			e.info(color.Red, "  ❌ %s could not be completed: %v", c.Name(), r)
			out = []Finding{info(c.Category(), c.Name(), fmt.Sprintf("Check could not be completed: %v", r))}
		}
	}()

	out = c.Run(in)
	for _, f := range out {
		e.log.Debug("check result", "category", f.Category, "check", f.Check, "status", f.Status, "violations", f.Violations)
		e.printFinding(f)
	}
	return out
}

func (e *Engine) printFinding(f Finding) {
	switch f.Status {
	case StatusPass:
		e.info(color.Green, "  ✅ %s: %s", f.Check, f.Description)
	case StatusFail:
		e.info(color.Red, "  ❌ %s: %s (%d violations, %.2f%%)", f.Check, f.Description, f.Violations, f.AffectedPct)
	case StatusWarning:
		e.info(color.Yellow, "  ⚠️  %s: %s", f.Check, f.Description)
	default:
		e.info(color.Blue, "  ℹ️  %s: %s", f.Check, f.Description)
	}
}

func scoreColor(score float64) func(string, ...interface{}) {
	switch {
	case score >= 90:
		return color.Green
	case score >= 70:
		return color.Yellow
	}
	return color.Red
}

func (e *Engine) info(print func(string, ...interface{}), format string, args ...any) {
	if e.quiet {
		return
	}
	print(format, args...)
}
