package quality

import (
	"time"

	"github.com/Lumos-Labs-HQ/procgen/internal/config"
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
)

// Input is what every check reads. Checks must not modify the tables.
type Input struct {
	Tables        table.Set
	Thresholds    config.Quality
	ReferenceDate time.Time
}

// table returns the named table, or nil when it was not loaded.
func (in *Input) table(name string) *table.Table {
	return in.Tables.Get(name)
}

// has reports whether every named table was loaded.
func (in *Input) has(names ...string) bool {
	for _, n := range names {
		if in.Tables.Get(n) == nil {
			return false
		}
	}
	return true
}

func (in *Input) exampleLimit() int {
	if in.Thresholds.ExampleLimit > 0 {
		return in.Thresholds.ExampleLimit
	}
	return 5
}

// Check is one independent validation rule. Run returns no findings when
// the tables it needs are absent.
type Check interface {
	Name() string
	Category() Category
	Run(in *Input) []Finding
}

type checkFunc struct {
	name     string
	category Category
	run      func(*Input) []Finding
}

func (c checkFunc) Name() string            { return c.name }
func (c checkFunc) Category() Category      { return c.category }
func (c checkFunc) Run(in *Input) []Finding { return c.run(in) }

// NewCheck wraps a function as a Check.
func NewCheck(name string, cat Category, run func(*Input) []Finding) Check {
	return checkFunc{name: name, category: cat, run: run}
}

// Registry holds the checks the engine runs, in registration order.
type Registry struct {
	checks []Check
}

func NewRegistry(checks ...Check) *Registry {
	r := &Registry{}
	for _, c := range checks {
		r.Register(c)
	}
	return r
}

func (r *Registry) Register(c Check) {
	r.checks = append(r.checks, c)
}

// ByCategory returns the registered checks of cat.
func (r *Registry) ByCategory(cat Category) []Check {
	var out []Check
	for _, c := range r.checks {
		if c.Category() == cat {
			out = append(out, c)
		}
	}
	return out
}

func (r *Registry) Len() int { return len(r.checks) }

// DefaultRegistry returns every built-in check.
func DefaultRegistry() *Registry {
	r := NewRegistry(schemaChecks()...)
	for _, group := range [][]Check{referentialChecks(), businessChecks(), statisticalChecks(), completenessChecks()} {
		for _, c := range group {
			r.Register(c)
		}
	}
	return r
}
