package option

import (
	"fmt"
	"math"
)

// Gamma triple limits.
const (
	MinBrightness = -100
	MaxBrightness = 100
	MinContrast   = -100
	MaxContrast   = 100
	MinGamma      = 1
	MaxGamma      = 1000

	// LinearGamma is the gamma value of a straight curve.
	LinearGamma = 100
)

// IdentityTriple produces the identity ramp.
var IdentityTriple = GammaTriple{Brightness: 0, Contrast: 0, Gamma: LinearGamma}

// Validate checks the triple against its limits.
func (t GammaTriple) Validate() error {
	if t.Brightness < MinBrightness || t.Brightness > MaxBrightness {
		return fmt.Errorf("%w: brightness %d not in [%d,%d]", ErrOutOfRange, t.Brightness, MinBrightness, MaxBrightness)
	}
	if t.Contrast < MinContrast || t.Contrast > MaxContrast {
		return fmt.Errorf("%w: contrast %d not in [%d,%d]", ErrOutOfRange, t.Contrast, MinContrast, MaxContrast)
	}
	if t.Gamma < MinGamma || t.Gamma > MaxGamma {
		return fmt.Errorf("%w: gamma %d not in [%d,%d]", ErrOutOfRange, t.Gamma, MinGamma, MaxGamma)
	}
	return nil
}

// GammaTable builds a lookup table of the given length whose entries lie
// in [0, maxValue].
//
// Each input code is normalized to [0,1]. Brightness is added as an offset,
// contrast scales the distance from the midpoint, and the gamma power curve
// is applied last. Every stage is non-decreasing, so the table is too. The
// identity triple yields round(i*maxValue/(length-1)) exactly.
//
// There is no inverse: a table cannot be summarized back into a triple.
func GammaTable(t GammaTriple, length, maxValue int) ([]int, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if length < 2 {
		return nil, fmt.Errorf("%w: gamma table length %d", ErrOutOfRange, length)
	}
	if maxValue < 1 {
		return nil, fmt.Errorf("%w: gamma table max value %d", ErrOutOfRange, maxValue)
	}

	span := float64(length - 1)
	maxF := float64(maxValue)
	identity := t == IdentityTriple

	table := make([]int, length)
	for i := range table {
		// Scale first so the identity ramp is computed with one rounding.
		v := float64(i) * maxF / span
		if !identity {
			v = applyTriple(v/maxF, t) * maxF
		}
		table[i] = clampInt(int(math.Floor(v+0.5)), 0, maxValue)
	}
	return table, nil
}

// GammaTableRange is GammaTable for devices whose table entries must lie in
// [minValue, maxValue]. The curve is computed over the span and offset by
// minValue, so the identity triple yields a straight ramp from minValue to
// maxValue.
func GammaTableRange(t GammaTriple, length, minValue, maxValue int) ([]int, error) {
	if minValue < 0 || minValue >= maxValue {
		return nil, fmt.Errorf("%w: gamma table range [%d,%d]", ErrOutOfRange, minValue, maxValue)
	}
	table, err := GammaTable(t, length, maxValue-minValue)
	if err != nil {
		return nil, err
	}
	for i := range table {
		table[i] += minValue
	}
	return table, nil
}

func applyTriple(x float64, t GammaTriple) float64 {
	x += float64(t.Brightness) / 100

	switch {
	case t.Contrast >= MaxContrast:
		// Infinite slope degenerates to a threshold at the midpoint.
		switch {
		case x > 0.5:
			x = 1
		case x < 0.5:
			x = 0
		}
	case t.Contrast > 0:
		x = 0.5 + (x-0.5)*100/float64(100-t.Contrast)
	case t.Contrast < 0:
		x = 0.5 + (x-0.5)*float64(100+t.Contrast)/100
	}

	x = math.Max(0, math.Min(1, x))

	if t.Gamma != LinearGamma {
		x = math.Pow(x, float64(LinearGamma)/float64(t.Gamma))
	}
	return x
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
