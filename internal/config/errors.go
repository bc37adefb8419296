package config

import (
	"fmt"
	"strings"
)

// Error reports a single parameter that is missing, wrong-typed or out of bounds.
type Error struct {
	Key        string
	Constraint string
	Value      any
}

func (e *Error) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("config %s: %s", e.Key, e.Constraint)
	}
	return fmt.Sprintf("config %s: %s (got %v)", e.Key, e.Constraint, e.Value)
}

// Errors collects parameter errors so they can be reported together.
type Errors struct {
	Errors []*Error
}

func (e *Errors) Add(key, constraint string, value any) {
	e.Errors = append(e.Errors, &Error{Key: key, Constraint: constraint, Value: value})
}

func (e *Errors) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *Errors) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e *Errors) Unwrap() []error {
	out := make([]error, 0, len(e.Errors))
	for _, err := range e.Errors {
		out = append(out, err)
	}
	return out
}

// Err returns nil when nothing was collected.
func (e *Errors) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}
