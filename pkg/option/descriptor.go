package option

import "math"

// WordSize is the byte size of one native word. Array options (gamma
// tables) report their size in bytes, so their length is Size / WordSize.
const WordSize = 4

// Range is a numeric constraint. A zero Step means any value in range.
type Range struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step,omitempty"`
}

// Contains reports whether v lies within [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Descriptor is the immutable metadata the backend reports for one option.
// A descriptor is never modified once handed to the registry; a capability
// change produces a new descriptor for the same name.
type Descriptor struct {
	// Index is the position of the option in the backend enumeration.
	Index int

	// Name is the technical name, unique within a device session.
	Name string

	// Title is the display label.
	Title string

	// Description is the display help text.
	Description string

	// Type is the option kind (see Classify).
	Type Type

	// ValueType is the native backend type.
	ValueType ValueType

	// Unit is the physical unit of the value.
	Unit Unit

	// Size is the value size in bytes.
	Size int

	// Cap holds the capability flags.
	Cap Capability

	// Constraint selects which of Range, Words, or Strings applies.
	Constraint ConstraintKind

	Range   Range
	Words   []float64
	Strings []string

	// MaxLen limits entry text length. Zero means unlimited.
	MaxLen int
}

// Length returns the number of elements of an array value.
func (d *Descriptor) Length() int {
	if d.Size <= WordSize {
		return 1
	}
	return d.Size / WordSize
}

// Choices returns the enumerated values as strings, in backend order.
// Word lists are formatted with the codec so they match what the string
// protocol accepts.
func (d *Descriptor) Choices() []string {
	switch d.Constraint {
	case ConstraintStringList:
		out := make([]string, len(d.Strings))
		copy(out, d.Strings)
		return out
	case ConstraintWordList:
		out := make([]string, len(d.Words))
		for i, w := range d.Words {
			if d.ValueType == ValueInt {
				out[i] = EncodeInt(int(w))
			} else {
				out[i] = EncodeFloat(w)
			}
		}
		return out
	default:
		return nil
	}
}

// ReadOnly reports whether software cannot set the value.
func (d *Descriptor) ReadOnly() bool {
	return !d.Cap.Has(CapSoftSelect)
}

// IsHardwareButton reports whether the option behaves like a hardware
// button: a read-only boolean whose value the device changes by itself.
// Backends do not declare buttons explicitly, so this is a heuristic.
func (d *Descriptor) IsHardwareButton() bool {
	return d.ValueType == ValueBool && d.ReadOnly() && d.Cap.Has(CapSoftDetect)
}

// Visibility derives the presentation state from the capability flags.
func (d *Descriptor) Visibility() Visibility {
	if !d.Cap.Has(CapSoftDetect) && d.Type != TypeButton {
		return Hidden
	}
	if d.Cap.Has(CapInactive) {
		return Hidden
	}
	if d.Size == 0 && d.Type != TypeButton {
		return Hidden
	}
	if d.ReadOnly() {
		return Disabled
	}
	return Shown
}

// MinTableValue returns the smallest value a gamma table entry may hold.
func (d *Descriptor) MinTableValue() int {
	if d.Constraint == ConstraintRange && d.Range.Min > 0 {
		return int(math.Ceil(d.Range.Min))
	}
	return 0
}

// MaxTableValue returns the largest value a gamma table entry may hold.
func (d *Descriptor) MaxTableValue() int {
	if d.Constraint == ConstraintRange && d.Range.Max >= 1 {
		return int(d.Range.Max)
	}
	return d.Length() - 1
}
