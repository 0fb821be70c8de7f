package sim

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/scanopt/scanopt-go/pkg/option"
)

// Simulator errors.
var (
	ErrInvalidProfile = errors.New("sim: invalid profile")
	ErrUnknownOption  = errors.New("sim: unknown option")
	ErrInactive       = errors.New("sim: option inactive")
	ErrReadOnly       = errors.New("sim: option is read-only")
	ErrInvalidValue   = errors.New("sim: invalid value")
	ErrClosed         = errors.New("sim: device closed")
)

const defaultStringSize = 32

type entry struct {
	spec      OptionSpec
	index     int
	vt        option.ValueType
	unit      option.Unit
	caps      option.Capability
	size      int
	length    int
	value     any
	triggered int
}

// Backend is an in-memory scanner driven by a Profile. It implements
// option.Backend and is safe for concurrent use.
type Backend struct {
	mu      sync.Mutex
	profile *Profile
	entries []*entry
	byName  map[string]*entry
	closed  bool
}

// New builds a simulated scanner from p.
func New(p *Profile) (*Backend, error) {
	b := &Backend{
		profile: p,
		byName:  make(map[string]*entry, len(p.Options)),
	}
	for i, spec := range p.Options {
		e, err := newEntry(i, spec)
		if err != nil {
			return nil, err
		}
		if e.vt != option.ValueGroup {
			if _, dup := b.byName[spec.Name]; dup {
				return nil, fmt.Errorf("%w: duplicate option %q", ErrInvalidProfile, spec.Name)
			}
			b.byName[spec.Name] = e
		}
		b.entries = append(b.entries, e)
	}

	for _, e := range b.entries {
		for _, c := range e.spec.ActiveWhen {
			if _, ok := b.byName[c.Option]; !ok {
				return nil, fmt.Errorf("%w: %s depends on unknown option %q", ErrInvalidProfile, e.spec.Name, c.Option)
			}
		}
		if rb := e.spec.RangesBy; rb != nil {
			if _, ok := b.byName[rb.Option]; !ok {
				return nil, fmt.Errorf("%w: %s ranges by unknown option %q", ErrInvalidProfile, e.spec.Name, rb.Option)
			}
		}
	}
	for _, e := range b.entries {
		if e.value != nil {
			e.value = b.clamp(e, e.value)
		}
	}
	return b, nil
}

// NewDefault builds the embedded default scanner.
func NewDefault() *Backend {
	b, err := New(DefaultProfile())
	if err != nil {
		panic(fmt.Sprintf("sim: default profile: %v", err))
	}
	return b
}

func newEntry(index int, spec OptionSpec) (*entry, error) {
	vt, ok := valueTypes[spec.Type]
	if !ok {
		return nil, fmt.Errorf("%w: option %q has unknown type %q", ErrInvalidProfile, spec.Name, spec.Type)
	}
	unit, ok := units[spec.Unit]
	if !ok {
		return nil, fmt.Errorf("%w: option %q has unknown unit %q", ErrInvalidProfile, spec.Name, spec.Unit)
	}
	if vt != option.ValueGroup && spec.Name == "" {
		return nil, fmt.Errorf("%w: option %d has no name", ErrInvalidProfile, index)
	}

	e := &entry{spec: spec, index: index, vt: vt, unit: unit, length: max(spec.Length, 1)}

	switch {
	case vt == option.ValueGroup:
	case len(spec.Caps) == 0:
		e.caps = option.CapDefault
	default:
		for _, name := range spec.Caps {
			c, ok := capNames[name]
			if !ok {
				return nil, fmt.Errorf("%w: option %q has unknown capability %q", ErrInvalidProfile, spec.Name, name)
			}
			e.caps |= c
		}
	}

	e.size = spec.Size
	if e.size == 0 {
		switch vt {
		case option.ValueBool, option.ValueInt, option.ValueFixed:
			e.size = e.length * option.WordSize
		case option.ValueString:
			e.size = defaultStringSize
			for _, s := range spec.Strings {
				e.size = max(e.size, len(s)+1)
			}
		}
	}

	v, err := initialValue(e)
	if err != nil {
		return nil, fmt.Errorf("%w: option %q default: %v", ErrInvalidProfile, spec.Name, err)
	}
	e.value = v
	return e, nil
}

func initialValue(e *entry) (any, error) {
	spec := e.spec
	switch e.vt {
	case option.ValueBool:
		if spec.Default == nil {
			return false, nil
		}
		return toBool(spec.Default)

	case option.ValueInt, option.ValueFixed:
		if e.length > 1 {
			if spec.Default == nil {
				return ramp(e.length, tableMax(e)), nil
			}
			items, ok := spec.Default.([]any)
			if !ok {
				return nil, fmt.Errorf("want a list, got %T", spec.Default)
			}
			table := make([]int, len(items))
			for i, it := range items {
				f, ok := toFloat(it)
				if !ok {
					return nil, fmt.Errorf("element %d is %T", i, it)
				}
				table[i] = int(f)
			}
			return table, nil
		}
		var f float64
		switch {
		case spec.Default != nil:
			v, ok := toFloat(spec.Default)
			if !ok {
				return nil, fmt.Errorf("want a number, got %T", spec.Default)
			}
			f = v
		case spec.Range != nil:
			f = spec.Range.Min
		case len(spec.Words) > 0:
			f = spec.Words[0]
		}
		if e.vt == option.ValueInt {
			return int(math.Round(f)), nil
		}
		return f, nil

	case option.ValueString:
		if spec.Default != nil {
			s, ok := spec.Default.(string)
			if !ok {
				return nil, fmt.Errorf("want a string, got %T", spec.Default)
			}
			return s, nil
		}
		if len(spec.Strings) > 0 {
			return spec.Strings[0], nil
		}
		return "", nil

	default:
		return nil, nil
	}
}

// Profile returns the profile the backend was built from.
func (b *Backend) Profile() *Profile { return b.profile }

// Descriptors implements option.Backend.
func (b *Backend) Descriptors() ([]option.Descriptor, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}

	descs := make([]option.Descriptor, 0, len(b.entries))
	for _, e := range b.entries {
		d := option.Descriptor{
			Index:       e.index,
			Name:        e.spec.Name,
			Title:       e.spec.Title,
			Description: e.spec.Description,
			ValueType:   e.vt,
			Unit:        e.unit,
			Size:        e.size,
			Cap:         e.caps,
		}
		if e.vt != option.ValueGroup && !b.active(e) {
			d.Cap |= option.CapInactive
		}
		if r, ok := b.currentRange(e); ok {
			d.Constraint = option.ConstraintRange
			d.Range = r
		} else if len(e.spec.Words) > 0 {
			d.Constraint = option.ConstraintWordList
			d.Words = slices.Clone(e.spec.Words)
		} else if len(e.spec.Strings) > 0 {
			d.Constraint = option.ConstraintStringList
			d.Strings = slices.Clone(e.spec.Strings)
		}
		if e.vt == option.ValueString {
			d.MaxLen = e.size - 1
		}
		descs = append(descs, d)
	}
	return descs, nil
}

// ReadValue implements option.Backend.
func (b *Backend) ReadValue(index int) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, err := b.lookup(index)
	if err != nil {
		return nil, err
	}
	if e.vt == option.ValueButton || e.vt == option.ValueGroup {
		return nil, fmt.Errorf("%w: %s has no value", ErrInvalidValue, e.spec.Name)
	}
	if !b.active(e) {
		return nil, fmt.Errorf("%w: %s", ErrInactive, e.spec.Name)
	}
	if t, ok := e.value.([]int); ok {
		return slices.Clone(t), nil
	}
	return e.value, nil
}

// WriteValue implements option.Backend.
func (b *Backend) WriteValue(index int, value any) (option.WriteInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, err := b.lookup(index)
	if err != nil {
		return 0, err
	}
	if e.vt == option.ValueGroup {
		return 0, fmt.Errorf("%w: %s is a group", ErrInvalidValue, e.spec.Name)
	}
	if !b.active(e) {
		return 0, fmt.Errorf("%w: %s", ErrInactive, e.spec.Name)
	}
	if !e.caps.Has(option.CapSoftSelect) {
		return 0, fmt.Errorf("%w: %s", ErrReadOnly, e.spec.Name)
	}

	if e.vt == option.ValueButton {
		e.triggered++
		return 0, nil
	}

	v, err := b.validate(e, value)
	if err != nil {
		return 0, err
	}

	var info option.WriteInfo
	if q := e.spec.Quantum; q > 0 && e.length == 1 {
		f, _ := toFloat(v)
		snapped := b.snap(e, f, q)
		if snapped != f {
			info |= option.InfoInexact
		}
		if e.vt == option.ValueInt {
			v = int(math.Round(snapped))
		} else {
			v = snapped
		}
	}
	e.value = v

	for _, dep := range b.dependents(e.spec.Name) {
		info |= option.InfoReloadOptions
		if dep.spec.RangesBy != nil {
			dep.value = b.clamp(dep, dep.value)
		}
	}
	return info, nil
}

// Press sets the state of a hardware button option.
func (b *Backend) Press(name string, pressed bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}
	if e.vt != option.ValueBool || e.caps.Has(option.CapSoftSelect) {
		return fmt.Errorf("%w: %s is not a hardware button", ErrInvalidValue, name)
	}
	e.value = pressed
	return nil
}

// Triggered returns how often a button option was fired.
func (b *Backend) Triggered(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e, ok := b.byName[name]; ok {
		return e.triggered
	}
	return 0
}

// Value returns the stored native value of an option.
func (b *Backend) Value(name string) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}
	if t, ok := e.value.([]int); ok {
		return slices.Clone(t), nil
	}
	return e.value, nil
}

// Close releases the device. Later calls fail with ErrClosed.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

func (b *Backend) lookup(index int) (*entry, error) {
	if b.closed {
		return nil, ErrClosed
	}
	if index < 0 || index >= len(b.entries) {
		return nil, fmt.Errorf("%w: index %d", ErrUnknownOption, index)
	}
	return b.entries[index], nil
}

func (b *Backend) active(e *entry) bool {
	if e.caps.Has(option.CapInactive) {
		return false
	}
	for _, c := range e.spec.ActiveWhen {
		src := b.byName[c.Option]
		if !slices.Contains(c.Values, stringValue(src.value)) {
			return false
		}
	}
	return true
}

func (b *Backend) currentRange(e *entry) (option.Range, bool) {
	if rb := e.spec.RangesBy; rb != nil {
		if r, ok := rb.Ranges[stringValue(b.byName[rb.Option].value)]; ok {
			return r, true
		}
	}
	if e.spec.Range != nil {
		return *e.spec.Range, true
	}
	return option.Range{}, false
}

// dependents returns the entries whose state depends on the named option.
func (b *Backend) dependents(name string) []*entry {
	var out []*entry
	for _, e := range b.entries {
		if e.spec.RangesBy != nil && e.spec.RangesBy.Option == name {
			out = append(out, e)
			continue
		}
		for _, c := range e.spec.ActiveWhen {
			if c.Option == name {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func (b *Backend) validate(e *entry, value any) (any, error) {
	switch e.vt {
	case option.ValueBool:
		v, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %s wants bool, got %T", ErrInvalidValue, e.spec.Name, value)
		}
		return v, nil

	case option.ValueInt, option.ValueFixed:
		if e.length > 1 {
			table, ok := value.([]int)
			if !ok || len(table) != e.length {
				return nil, fmt.Errorf("%w: %s wants %d element table", ErrInvalidValue, e.spec.Name, e.length)
			}
			r, hasRange := b.currentRange(e)
			for i, v := range table {
				if hasRange && !r.Contains(float64(v)) {
					return nil, fmt.Errorf("%w: %s[%d]=%d out of range", ErrInvalidValue, e.spec.Name, i, v)
				}
			}
			return slices.Clone(table), nil
		}
		f, ok := toFloat(value)
		if !ok {
			return nil, fmt.Errorf("%w: %s wants a number, got %T", ErrInvalidValue, e.spec.Name, value)
		}
		if r, ok := b.currentRange(e); ok && !r.Contains(f) {
			return nil, fmt.Errorf("%w: %s=%g out of range", ErrInvalidValue, e.spec.Name, f)
		}
		if len(e.spec.Words) > 0 && !slices.Contains(e.spec.Words, f) {
			return nil, fmt.Errorf("%w: %s=%g not listed", ErrInvalidValue, e.spec.Name, f)
		}
		if e.vt == option.ValueInt {
			return int(math.Round(f)), nil
		}
		return f, nil

	case option.ValueString:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s wants string, got %T", ErrInvalidValue, e.spec.Name, value)
		}
		if len(s) > e.size-1 {
			return nil, fmt.Errorf("%w: %s too long", ErrInvalidValue, e.spec.Name)
		}
		if len(e.spec.Strings) > 0 && !slices.Contains(e.spec.Strings, s) {
			return nil, fmt.Errorf("%w: %s=%q not listed", ErrInvalidValue, e.spec.Name, s)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidValue, e.spec.Name)
	}
}

// snap moves f onto the quantum grid anchored at the range minimum. A grid
// point past either end is replaced by its neighbour inside the range.
func (b *Backend) snap(e *entry, f, q float64) float64 {
	r, ok := b.currentRange(e)
	if !ok {
		return math.Round(f/q) * q
	}
	snapped := r.Min + math.Round((f-r.Min)/q)*q
	if snapped > r.Max {
		snapped -= q
	}
	return math.Max(r.Min, math.Min(r.Max, snapped))
}

// clamp moves a scalar numeric value into the current range.
func (b *Backend) clamp(e *entry, v any) any {
	r, ok := b.currentRange(e)
	if !ok || e.length > 1 {
		return v
	}
	f, ok := toFloat(v)
	if !ok {
		return v
	}
	f = math.Max(r.Min, math.Min(r.Max, f))
	if e.vt == option.ValueInt {
		return int(math.Round(f))
	}
	return f
}

func tableMax(e *entry) int {
	if e.spec.Range != nil && e.spec.Range.Max >= 1 {
		return int(e.spec.Range.Max)
	}
	return e.length - 1
}

func ramp(length, maxValue int) []int {
	t := make([]int, length)
	for i := range t {
		t[i] = (2*i*maxValue + (length - 1)) / (2 * (length - 1))
	}
	return t
}

// stringValue renders a native value the way conditions refer to it.
func stringValue(v any) string {
	s, err := option.Encode(v)
	if err != nil {
		return ""
	}
	return s
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		return option.DecodeBool(b)
	default:
		return false, fmt.Errorf("want a bool, got %T", v)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
