package inspect

import (
	"errors"
	"fmt"
	"strings"
)

// Name resolution errors.
var (
	ErrUnknownName   = errors.New("unknown option")
	ErrAmbiguousName = errors.New("ambiguous option name")
)

// ResolveName finds the option name meant by input. An exact match wins,
// then a case-insensitive match, then a unique case-insensitive prefix.
func ResolveName(names []string, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%w: empty name", ErrUnknownName)
	}

	for _, n := range names {
		if n == input {
			return n, nil
		}
	}

	lname := strings.ToLower(input)
	for _, n := range names {
		if strings.ToLower(n) == lname {
			return n, nil
		}
	}

	var matches []string
	for _, n := range names {
		if strings.HasPrefix(strings.ToLower(n), lname) {
			matches = append(matches, n)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrUnknownName, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %s", ErrAmbiguousName, input, strings.Join(matches, ", "))
	}
}

// CompleteName returns the names starting with prefix, for shell completion.
func CompleteName(names []string, prefix string) []string {
	lp := strings.ToLower(prefix)
	var out []string
	for _, n := range names {
		if strings.HasPrefix(strings.ToLower(n), lp) {
			out = append(out, n)
		}
	}
	return out
}
