package seeder

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fatih/color"

	"github.com/Lumos-Labs-HQ/procgen/internal/config"
	"github.com/Lumos-Labs-HQ/procgen/internal/schema"
	"github.com/Lumos-Labs-HQ/procgen/internal/stats"
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
	"github.com/Lumos-Labs-HQ/procgen/internal/types"
)

var (
	// ErrEmptyInput reports that an upstream table a generator needs is
	// empty. The stage yields an empty table and the run continues.
	ErrEmptyInput = errors.New("required input table is empty")

	// ErrWeightMismatch reports vendor weights not aligned with the vendor
	// table. It aborts the run.
	ErrWeightMismatch = errors.New("vendor weights do not match vendor table")
)

// Seeder runs the generation pipeline in foreign-key order.
type Seeder struct {
	config *config.Config
	gen    *Generator
	log    *slog.Logger
	quiet  bool
}

func NewSeeder(cfg *config.Config) *Seeder {
	return &Seeder{
		config: cfg,
		gen:    NewGenerator(cfg, stats.NewSampler(cfg.Seed)),
		log:    slog.Default(),
	}
}

// Quiet disables console progress lines; structured logs are unaffected.
func (s *Seeder) Quiet() *Seeder {
	s.quiet = true
	return s
}

// Validate checks every parameter the generators read.
func (s *Seeder) Validate() error {
	var all []config.Requirement
	for _, reqs := range [][]config.Requirement{
		weightRequirements, vendorRequirements, materialRequirements, contractRequirements,
		headerRequirements, itemRequirements, historyRequirements,
	} {
		all = append(all, reqs...)
	}
	if err := s.config.Check(all...); err != nil {
		return err
	}
	return s.config.Validate()
}

// Run generates all six tables. Only configuration errors and a weight
// mismatch are returned; any other stage failure is logged and leaves an
// empty table in the dataset.
func (s *Seeder) Run() (*Dataset, error) {
	s.info(color.Cyan, "🌱 Starting procurement data generation (seed %d)...", s.config.Seed)

	order, err := schema.InsertionOrder()
	if err != nil {
		return nil, fmt.Errorf("failed to build generation order: %w", err)
	}
	s.info(color.Cyan, "📋 Generation order: %s", strings.Join(order, " → "))

	weights, err := s.gen.VendorWeights()
	if err != nil {
		s.log.Error("vendor weight calculation failed", "error", err)
		return nil, fmt.Errorf("vendor weights: %w", err)
	}

	ds := &Dataset{}
	for _, name := range order {
		name := name
		stage := s.stage(name, ds, weights)
		if stage == nil {
			return nil, fmt.Errorf("no generator for table %s", name)
		}

		t, err := s.runStage(name, stage)
		if err != nil {
			return nil, err
		}
		ds.set(name, t)
		if t.IsEmpty() {
			ds.Failed = append(ds.Failed, name)
		}
	}

	if len(ds.Failed) > 0 {
		s.info(color.Yellow, "⚠️  Generation finished with empty tables: %s", strings.Join(ds.Failed, ", "))
	} else {
		s.info(color.Green, "✅ Generation completed successfully!")
	}
	return ds, nil
}

func (s *Seeder) stage(name string, ds *Dataset, weights []float64) func() (*table.Table, error) {
	g := s.gen
	switch name {
	case types.TableVendors:
		return g.Vendors
	case types.TableMaterials:
		return g.Materials
	case types.TableContracts:
		return func() (*table.Table, error) { return g.Contracts(ds.Vendors, ds.Materials) }
	case types.TableHeaders:
		return func() (*table.Table, error) { return g.Headers(ds.Vendors, weights) }
	case types.TableItems:
		return func() (*table.Table, error) {
			return g.LineItems(ds.Headers, ds.Materials, ds.Vendors, ds.Contracts)
		}
	case types.TableHistory:
		return func() (*table.Table, error) { return g.History(ds.Items, ds.Vendors) }
	}
	return nil
}

// runStage is the error boundary around one generator: configuration and
// weight errors propagate, everything else (including panics) is logged and
// turned into an empty table.
func (s *Seeder) runStage(name string, fn func() (*table.Table, error)) (t *table.Table, err error) {
	empty := table.Empty(name, columnsOf(name)...)
	s.info(color.Cyan, "  📝 Generating %s...", name)

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("generator panicked", "table", name, "panic", fmt.Sprint(r))
			s.info(color.Red, "  ❌ %s failed: %v", name, r)
			t, err = empty, nil
		}
	}()

	t, err = fn()
	if err == nil {
		s.log.Info("table generated", "table", name, "records", t.Len())
		s.info(color.Green, "  ✅ %s: %d records", name, t.Len())
		return t, nil
	}

	var cfgErr *config.Error
	switch {
	case errors.As(err, &cfgErr):
		s.log.Error("invalid configuration", "table", name, "key", cfgErr.Key, "constraint", cfgErr.Constraint, "error", err)
		s.info(color.Red, "  ❌ %s: %v", name, err)
		return nil, fmt.Errorf("generate %s: %w", name, err)
	case errors.Is(err, ErrWeightMismatch):
		s.log.Error("vendor weights misaligned", "table", name, "error", err)
		return nil, fmt.Errorf("generate %s: %w", name, err)
	case errors.Is(err, ErrEmptyInput):
		s.log.Warn("skipping table, upstream input is empty", "table", name, "error", err)
		s.info(color.Yellow, "  ⚠️  %s skipped: %v", name, err)
	default:
		s.log.Error("table generation failed", "table", name, "error", err)
		s.info(color.Red, "  ❌ %s failed: %v", name, err)
	}
	return empty, nil
}

func (s *Seeder) info(print func(string, ...interface{}), format string, args ...any) {
	if s.quiet {
		return
	}
	print(format, args...)
}
