package table

import "sort"

// Set is a collection of tables keyed by name.
type Set map[string]*Table

func NewSet(tables ...*Table) Set {
	s := make(Set, len(tables))
	for _, t := range tables {
		s[t.Name()] = t
	}
	return s
}

// Get returns the named table, or nil when absent.
func (s Set) Get(name string) *Table {
	return s[name]
}

// With returns a copy of the set with t added or replaced.
func (s Set) With(t *Table) Set {
	out := make(Set, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[t.Name()] = t
	return out
}

// Names returns the table names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
