package option

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Canonical boolean tokens.
const (
	TokenTrue  = "true"
	TokenFalse = "false"
)

// EncodeBool returns the canonical token for b.
func EncodeBool(b bool) string {
	if b {
		return TokenTrue
	}
	return TokenFalse
}

// DecodeBool accepts "true"/"false" in any case, and "1"/"0".
func DecodeBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case TokenTrue, "1":
		return true, nil
	case TokenFalse, "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidFormat, s)
	}
}

// EncodeInt returns the decimal text of v.
func EncodeInt(v int) string {
	return strconv.Itoa(v)
}

// DecodeInt parses decimal text.
func DecodeInt(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidFormat, s)
	}
	return v, nil
}

// EncodeFloat returns the shortest decimal text that parses back to v.
func EncodeFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// DecodeFloat parses decimal text. NaN and infinities are rejected.
func DecodeFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidFormat, s)
	}
	return v, nil
}

// DecodeChoice returns the index of s in choices.
func DecodeChoice(s string, choices []string) (int, error) {
	for i, c := range choices {
		if c == s {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrInvalidChoice, s)
}

// GammaTriple is the (brightness, contrast, gamma) summary of a gamma table.
// Gamma is scaled by 100, so 100 means a linear curve.
type GammaTriple struct {
	Brightness int
	Contrast   int
	Gamma      int
}

// EncodeTriple formats t as "brightness:contrast:gamma".
func EncodeTriple(t GammaTriple) string {
	return fmt.Sprintf("%d:%d:%d", t.Brightness, t.Contrast, t.Gamma)
}

// DecodeTriple parses "brightness:contrast:gamma". Exactly three integer
// fields are required.
func DecodeTriple(s string) (GammaTriple, error) {
	fields := strings.Split(s, ":")
	if len(fields) != 3 {
		return GammaTriple{}, fmt.Errorf("%w: gamma needs 3 fields, got %d", ErrInvalidFormat, len(fields))
	}
	var vals [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return GammaTriple{}, fmt.Errorf("%w: gamma field %d %q", ErrInvalidFormat, i, f)
		}
		vals[i] = v
	}
	return GammaTriple{Brightness: vals[0], Contrast: vals[1], Gamma: vals[2]}, nil
}

// EncodeIntArray formats values as a comma separated list.
func EncodeIntArray(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// DecodeIntArray parses a comma separated integer list. The empty string
// decodes to an empty slice.
func DecodeIntArray(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%w: array element %d %q", ErrInvalidFormat, i, p)
		}
		out[i] = v
	}
	return out, nil
}

// EncodeFloatArray formats values as a comma separated list.
func EncodeFloatArray(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = EncodeFloat(v)
	}
	return strings.Join(parts, ",")
}

// DecodeFloatArray parses a comma separated number list.
func DecodeFloatArray(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return []float64{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := DecodeFloat(p)
		if err != nil {
			return nil, fmt.Errorf("%w: array element %d %q", ErrInvalidFormat, i, p)
		}
		out[i] = v
	}
	return out, nil
}

// Encode formats a native value. Supported types are bool, int, float64,
// string, []int, []float64, and GammaTriple.
func Encode(v any) (string, error) {
	switch val := v.(type) {
	case bool:
		return EncodeBool(val), nil
	case int:
		return EncodeInt(val), nil
	case float64:
		return EncodeFloat(val), nil
	case string:
		return val, nil
	case []int:
		return EncodeIntArray(val), nil
	case []float64:
		return EncodeFloatArray(val), nil
	case GammaTriple:
		return EncodeTriple(val), nil
	default:
		return "", fmt.Errorf("%w: cannot encode %T", ErrInvalidFormat, v)
	}
}

// Decode parses s as a single value of the given native type.
func Decode(s string, vt ValueType) (any, error) {
	switch vt {
	case ValueBool:
		return DecodeBool(s)
	case ValueInt:
		return DecodeInt(s)
	case ValueFixed:
		return DecodeFloat(s)
	case ValueString:
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %s has no string form", ErrInvalidFormat, vt)
	}
}
