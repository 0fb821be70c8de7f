// Package version parses and compares eSCL protocol versions as
// advertised in the "vers" TXT key and the scanner capabilities document.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Minimum is the oldest eSCL version whose option set this library maps.
const Minimum = "2.0"

// Version represents a parsed "major.minor" protocol version.
type Version struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string. Surrounding space is
// ignored.
func Parse(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 2 {
		return Version{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil || parts[0] == "" {
		return Version{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil || parts[1] == "" {
		return Version{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return Version{Major: uint16(major), Minor: uint16(minor)}, nil
}

// MustParse is Parse for constants. It panics on malformed input.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compare returns -1, 0, or +1 as v is older than, equal to, or newer
// than other. Minor components compare numerically, so 2.10 is newer
// than 2.9.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		if v.Major < other.Major {
			return -1
		}
		return 1
	case v.Minor < other.Minor:
		return -1
	case v.Minor > other.Minor:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether v is min or newer.
func (v Version) AtLeast(min Version) bool {
	return v.Compare(min) >= 0
}

// Compatible returns true if the other version has the same major version.
func (v Version) Compatible(other Version) bool {
	return v.Major == other.Major
}

// Supported reports whether s parses and is at least Minimum.
func Supported(s string) bool {
	v, err := Parse(s)
	if err != nil {
		return false
	}
	return v.AtLeast(MustParse(Minimum))
}
