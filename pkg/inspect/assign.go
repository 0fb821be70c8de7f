// Package inspect provides option inspection utilities for tools.
//
// The inspect package offers:
//   - Parsing name=value assignments
//   - Resolving abbreviated option names
//   - Formatting options for display
//   - Snapshots of a device for YAML dumps
package inspect

import (
	"errors"
	"fmt"
	"strings"
)

// Assignment errors.
var (
	ErrEmptyAssignment   = errors.New("empty assignment")
	ErrInvalidAssignment = errors.New("invalid assignment, want name=value")
)

// Assignment is one parsed name=value pair.
type Assignment struct {
	Name  string
	Value string
}

// ParseAssignment parses "name=value". The value may be empty and may
// contain '='; whitespace around the name is ignored.
func ParseAssignment(input string) (Assignment, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Assignment{}, ErrEmptyAssignment
	}
	name, value, found := strings.Cut(input, "=")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return Assignment{}, fmt.Errorf("%w: %q", ErrInvalidAssignment, input)
	}
	return Assignment{Name: name, Value: value}, nil
}

// ParseAssignments parses a list of assignments into a map. A later
// assignment to the same name replaces an earlier one.
func ParseAssignments(inputs []string) (map[string]string, error) {
	out := make(map[string]string, len(inputs))
	for _, in := range inputs {
		a, err := ParseAssignment(in)
		if err != nil {
			return nil, err
		}
		out[a.Name] = a.Value
	}
	return out, nil
}
