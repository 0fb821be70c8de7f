package option

// Type identifies the option kind, which decides how a value is stored,
// validated, and exchanged as a string.
type Type uint8

const (
	// TypeNone marks group headers and entries the model cannot represent.
	TypeNone Type = iota
	TypeCheckBox
	TypeSlider
	TypeSliderF
	TypeCombo
	TypeEntry
	TypeGamma
	TypeButton
)

// String returns the type name.
func (t Type) String() string {
	names := []string{
		"none", "checkbox", "slider", "sliderf", "combo", "entry", "gamma", "button",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return "unknown"
}

// Visibility is the presentation state of an option.
type Visibility uint8

const (
	// Hidden options are suppressed: not readable, not writable.
	Hidden Visibility = iota
	// Disabled options are readable but inert.
	Disabled
	// Shown options are readable and, unless read-only, writable.
	Shown
)

// String returns the visibility name.
func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case Disabled:
		return "disabled"
	case Shown:
		return "shown"
	default:
		return "unknown"
	}
}

// Unit is the physical unit of an option value.
type Unit uint8

const (
	UnitNone Unit = iota
	UnitPixel
	UnitBit
	UnitMM
	UnitDPI
	UnitPercent
	UnitMicrosecond
)

// String returns the unit suffix used when displaying values.
func (u Unit) String() string {
	switch u {
	case UnitPixel:
		return "px"
	case UnitBit:
		return "bit"
	case UnitMM:
		return "mm"
	case UnitDPI:
		return "dpi"
	case UnitPercent:
		return "%"
	case UnitMicrosecond:
		return "µs"
	default:
		return ""
	}
}

// ValueType is the native type the backend uses for an option.
type ValueType uint8

const (
	ValueBool ValueType = iota
	ValueInt
	// ValueFixed is a fractional number; it is carried as float64.
	ValueFixed
	ValueString
	ValueButton
	ValueGroup
)

// String returns the value type name.
func (v ValueType) String() string {
	names := []string{"bool", "int", "fixed", "string", "button", "group"}
	if int(v) < len(names) {
		return names[v]
	}
	return "unknown"
}

// ConstraintKind says which constraint payload of a Descriptor is in use.
type ConstraintKind uint8

const (
	ConstraintNone ConstraintKind = iota
	ConstraintRange
	ConstraintWordList
	ConstraintStringList
)

// String returns the constraint kind name.
func (c ConstraintKind) String() string {
	switch c {
	case ConstraintNone:
		return "none"
	case ConstraintRange:
		return "range"
	case ConstraintWordList:
		return "word_list"
	case ConstraintStringList:
		return "string_list"
	default:
		return "unknown"
	}
}

// Capability flags reported by the backend for each option.
type Capability uint16

const (
	// CapSoftSelect means the value can be set by software.
	CapSoftSelect Capability = 1 << iota
	// CapHardSelect means the value is set by a physical control on the device.
	CapHardSelect
	// CapSoftDetect means the value can be read by software.
	CapSoftDetect
	// CapEmulated means the backend emulates the option in software.
	CapEmulated
	// CapAutomatic means the backend can choose the value itself.
	CapAutomatic
	// CapInactive means the option currently has no effect.
	CapInactive
	// CapAdvanced marks options normal users rarely need.
	CapAdvanced

	// CapDefault is a plain software readable and settable option.
	CapDefault = CapSoftSelect | CapSoftDetect
)

// Has reports whether all flags in c are set.
func (c Capability) Has(flag Capability) bool { return c&flag == flag }

// String returns the flags as a compact letter string.
func (c Capability) String() string {
	var s string
	if c.Has(CapSoftSelect) {
		s += "W"
	}
	if c.Has(CapHardSelect) {
		s += "H"
	}
	if c.Has(CapSoftDetect) {
		s += "R"
	}
	if c.Has(CapEmulated) {
		s += "E"
	}
	if c.Has(CapAutomatic) {
		s += "A"
	}
	if c.Has(CapInactive) {
		s += "I"
	}
	if c.Has(CapAdvanced) {
		s += "+"
	}
	if s == "" {
		return "-"
	}
	return s
}

// WriteInfo carries the side effects a backend reports for a write.
type WriteInfo uint8

const (
	// InfoInexact means the backend stored a different value than requested.
	InfoInexact WriteInfo = 1 << iota
	// InfoReloadOptions means descriptors of other options may have changed.
	InfoReloadOptions
	// InfoReloadParams means scan parameters (image size, format) changed.
	InfoReloadParams
)

// Has reports whether flag is set.
func (i WriteInfo) Has(flag WriteInfo) bool { return i&flag != 0 }
