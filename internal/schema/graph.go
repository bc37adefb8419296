package schema

import "fmt"

// DependencyGraph orders tables so every parent precedes its children.
// Tables without a mutual dependency keep their registration order.
type DependencyGraph struct {
	deps  map[string][]string
	names []string
	order []string
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		deps: make(map[string][]string),
	}
}

func (g *DependencyGraph) AddTable(name string, dependsOn ...string) {
	if _, ok := g.deps[name]; !ok {
		g.names = append(g.names, name)
	}
	g.deps[name] = dependsOn
}

func (g *DependencyGraph) BuildInsertionOrder() ([]string, error) {
	visited := make(map[string]bool)
	temp := make(map[string]bool)
	var order []string

	var visit func(string) error
	visit = func(tableName string) error {
		if temp[tableName] {
			return fmt.Errorf("circular dependency detected involving table: %s", tableName)
		}
		if visited[tableName] {
			return nil
		}

		temp[tableName] = true
		for _, dep := range g.deps[tableName] {
			if dep == tableName {
				continue
			}
			if _, known := g.deps[dep]; !known {
				return fmt.Errorf("table %s depends on unknown table %s", tableName, dep)
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		temp[tableName] = false
		visited[tableName] = true
		order = append(order, tableName)
		return nil
	}

	for _, tableName := range g.names {
		if !visited[tableName] {
			if err := visit(tableName); err != nil {
				return nil, err
			}
		}
	}

	g.order = order
	return order, nil
}

func (g *DependencyGraph) GetOrder() []string {
	return g.order
}
