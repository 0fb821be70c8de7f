package option

import (
	"fmt"
	"math"
	"slices"
)

// Observer is notified when an option changes. Observers stay attached
// across registry reloads as long as the option keeps its name and type.
type Observer interface {
	// OnValueChanged is called after the value changed.
	OnValueChanged(o *Option)

	// OnVisibilityChanged is called after the visibility changed.
	OnVisibilityChanged(o *Option)
}

// Option is the stateful, typed representation of one backend capability.
// The Type of its descriptor selects how the value is stored:
//
//	CheckBox  bool
//	Slider    int
//	SliderF   float64
//	Combo     int (index into Choices)
//	Entry     string
//	Gamma     []int (full table)
//	Button    no value
//
// Option is not safe for concurrent use.
type Option struct {
	desc       *Descriptor
	backend    Backend
	visibility Visibility
	readOnly   bool
	detached   bool
	value      any

	observers []Observer

	// Set by the registry.
	afterWrite func(o *Option, info WriteInfo)
	onButton   func(o *Option, pressed bool)
}

func newOption(desc *Descriptor, backend Backend) *Option {
	return &Option{
		desc:       desc,
		backend:    backend,
		visibility: desc.Visibility(),
		readOnly:   desc.ReadOnly(),
	}
}

// Name returns the technical name.
func (o *Option) Name() string { return o.desc.Name }

// Title returns the display label.
func (o *Option) Title() string { return o.desc.Title }

// Type returns the option kind.
func (o *Option) Type() Type { return o.desc.Type }

// Descriptor returns the current descriptor. It may be replaced by a
// reload; callers must not modify it.
func (o *Option) Descriptor() *Descriptor { return o.desc }

// Visibility returns the presentation state.
func (o *Option) Visibility() Visibility { return o.visibility }

// ReadOnly reports whether the registry marked the option read-only.
func (o *Option) ReadOnly() bool { return o.readOnly }

// Editable reports whether a write could currently succeed.
func (o *Option) Editable() bool {
	return !o.detached && o.visibility == Shown && !o.readOnly
}

// SetVisibility changes the presentation state and notifies observers.
func (o *Option) SetVisibility(v Visibility) {
	if o.visibility == v {
		return
	}
	o.visibility = v
	for _, obs := range slices.Clone(o.observers) {
		obs.OnVisibilityChanged(o)
	}
}

// Subscribe attaches an observer.
func (o *Option) Subscribe(obs Observer) {
	o.observers = append(o.observers, obs)
}

// Unsubscribe detaches an observer.
func (o *Option) Unsubscribe(obs Observer) {
	for i, s := range o.observers {
		if s == obs {
			o.observers = append(o.observers[:i], o.observers[i+1:]...)
			return
		}
	}
}

// Value returns the native value. Gamma tables are returned as a copy;
// buttons and never loaded options return nil.
func (o *Option) Value() any {
	if t, ok := o.value.([]int); ok {
		return slices.Clone(t)
	}
	return o.value
}

// Choices returns the enumerated values of a combo option.
func (o *Option) Choices() []string {
	if o.desc.Type != TypeCombo {
		return nil
	}
	return o.desc.Choices()
}

// Range returns the numeric constraint, if the option has one.
func (o *Option) Range() (Range, bool) {
	switch o.desc.Constraint {
	case ConstraintRange:
		return o.desc.Range, true
	case ConstraintWordList:
		if len(o.desc.Words) == 0 {
			return Range{}, false
		}
		return Range{Min: slices.Min(o.desc.Words), Max: slices.Max(o.desc.Words)}, true
	default:
		return Range{}, false
	}
}

// MinValue returns the lower numeric bound, or 0 without one.
func (o *Option) MinValue() float64 {
	r, _ := o.Range()
	return r.Min
}

// MaxValue returns the upper numeric bound, or 0 without one.
func (o *Option) MaxValue() float64 {
	r, _ := o.Range()
	return r.Max
}

// Step returns the quantization step, or 0 for continuous values.
func (o *Option) Step() float64 {
	r, _ := o.Range()
	return r.Step
}

// Table returns a copy of the gamma table, or nil for other kinds.
func (o *Option) Table() []int {
	if t, ok := o.value.([]int); ok {
		return slices.Clone(t)
	}
	return nil
}

// Closest returns the supported numeric value nearest to v.
func (o *Option) Closest(v float64) float64 {
	switch o.desc.Constraint {
	case ConstraintRange:
		r := o.desc.Range
		return quantize(math.Max(r.Min, math.Min(r.Max, v)), r)
	case ConstraintWordList:
		if len(o.desc.Words) == 0 {
			return v
		}
		return o.desc.Words[nearestWord(o.desc.Words, v)]
	default:
		return v
	}
}

// Read returns the canonical string of the current value. Gamma tables
// and buttons have no string form and always fail.
func (o *Option) Read() (string, error) {
	switch o.desc.Type {
	case TypeGamma, TypeButton:
		return "", fmt.Errorf("%w: %s option %s cannot be read", ErrUnsupportedOperation, o.desc.Type, o.desc.Name)
	}
	if o.detached {
		return "", fmt.Errorf("%w: %s was removed", ErrNotFound, o.desc.Name)
	}
	if o.visibility == Hidden {
		return "", fmt.Errorf("%w: %s is hidden", ErrNotEditable, o.desc.Name)
	}
	if o.value == nil {
		return "", fmt.Errorf("%w: %s has no value", ErrBackend, o.desc.Name)
	}

	switch o.desc.Type {
	case TypeCheckBox:
		return EncodeBool(o.value.(bool)), nil
	case TypeSlider:
		return EncodeInt(o.value.(int)), nil
	case TypeSliderF:
		return EncodeFloat(o.value.(float64)), nil
	case TypeCombo:
		idx := o.value.(int)
		choices := o.desc.Choices()
		if idx < 0 || idx >= len(choices) {
			return "", fmt.Errorf("%w: %s holds no listed value", ErrInvalidChoice, o.desc.Name)
		}
		return choices[idx], nil
	case TypeEntry:
		return o.value.(string), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedOperation, o.desc.Type)
	}
}

// Write decodes s, validates it against the current constraints, and
// stores it in the backend. A failed write leaves the value unchanged.
//
// Gamma options take a "brightness:contrast:gamma" triple; buttons fire
// once for any non-empty string.
func (o *Option) Write(s string) error {
	if err := o.checkWritable(); err != nil {
		return err
	}
	native, wire, err := o.decode(s)
	if err != nil {
		return err
	}
	return o.commit(native, wire)
}

// WriteTable stores a raw gamma table. The table must have the descriptor
// length and every entry must lie in [MinTableValue, MaxTableValue].
func (o *Option) WriteTable(table []int) error {
	if o.desc.Type != TypeGamma {
		return fmt.Errorf("%w: %s is not a gamma option", ErrUnsupportedOperation, o.desc.Name)
	}
	if err := o.checkWritable(); err != nil {
		return err
	}
	if len(table) != o.desc.Length() {
		return fmt.Errorf("%w: table length %d, want %d", ErrOutOfRange, len(table), o.desc.Length())
	}
	minValue, maxValue := o.desc.MinTableValue(), o.desc.MaxTableValue()
	for i, v := range table {
		if v < minValue || v > maxValue {
			return fmt.Errorf("%w: table[%d]=%d not in [%d,%d]", ErrOutOfRange, i, v, minValue, maxValue)
		}
	}
	return o.commit(slices.Clone(table), slices.Clone(table))
}

// Trigger fires a button option.
func (o *Option) Trigger() error {
	if o.desc.Type != TypeButton {
		return fmt.Errorf("%w: %s is not a button", ErrUnsupportedOperation, o.desc.Name)
	}
	if err := o.checkWritable(); err != nil {
		return err
	}
	return o.commit(nil, nil)
}

func (o *Option) checkWritable() error {
	if o.detached {
		return fmt.Errorf("%w: %s was removed", ErrNotFound, o.desc.Name)
	}
	if o.visibility != Shown {
		return fmt.Errorf("%w: %s is %s", ErrNotEditable, o.desc.Name, o.visibility)
	}
	if o.readOnly {
		return fmt.Errorf("%w: %s is read-only", ErrNotEditable, o.desc.Name)
	}
	return nil
}

// decode turns a protocol string into the stored value and the value sent
// to the backend.
func (o *Option) decode(s string) (native, wire any, err error) {
	d := o.desc
	switch d.Type {
	case TypeCheckBox:
		b, err := DecodeBool(s)
		if err != nil {
			return nil, nil, err
		}
		return b, b, nil

	case TypeSlider:
		v, err := DecodeInt(s)
		if err != nil {
			return nil, nil, err
		}
		f, err := o.checkRange(float64(v))
		if err != nil {
			return nil, nil, err
		}
		n := int(math.Round(f))
		return n, n, nil

	case TypeSliderF:
		v, err := DecodeFloat(s)
		if err != nil {
			return nil, nil, err
		}
		f, err := o.checkRange(v)
		if err != nil {
			return nil, nil, err
		}
		return f, f, nil

	case TypeCombo:
		idx, err := DecodeChoice(s, d.Choices())
		if err != nil {
			return nil, nil, err
		}
		return idx, o.choiceWire(idx), nil

	case TypeEntry:
		if d.MaxLen > 0 && len(s) > d.MaxLen {
			return nil, nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrOutOfRange, len(s), d.MaxLen)
		}
		return s, s, nil

	case TypeGamma:
		t, err := DecodeTriple(s)
		if err != nil {
			return nil, nil, err
		}
		table, err := GammaTableRange(t, d.Length(), d.MinTableValue(), d.MaxTableValue())
		if err != nil {
			return nil, nil, err
		}
		return table, slices.Clone(table), nil

	case TypeButton:
		if s == "" {
			return nil, nil, fmt.Errorf("%w: empty button trigger", ErrInvalidFormat)
		}
		return nil, nil, nil

	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedOperation, d.Type)
	}
}

// checkRange rejects values outside the range and snaps in-range values
// to the step grid.
func (o *Option) checkRange(v float64) (float64, error) {
	if o.desc.Constraint != ConstraintRange {
		return v, nil
	}
	r := o.desc.Range
	if !r.Contains(v) {
		return 0, fmt.Errorf("%w: %s not in [%s,%s]", ErrOutOfRange,
			EncodeFloat(v), EncodeFloat(r.Min), EncodeFloat(r.Max))
	}
	return quantize(v, r), nil
}

func (o *Option) choiceWire(idx int) any {
	d := o.desc
	switch d.Constraint {
	case ConstraintStringList:
		return d.Strings[idx]
	case ConstraintWordList:
		if d.ValueType == ValueInt {
			return int(d.Words[idx])
		}
		return d.Words[idx]
	default:
		return nil
	}
}

func (o *Option) commit(native, wire any) error {
	info, err := o.backend.WriteValue(o.desc.Index, wire)
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrBackend, o.desc.Name, err)
	}
	if o.desc.Type != TypeButton && !sameValue(o.value, native) {
		o.value = native
		o.notifyValue()
	}
	if o.afterWrite != nil {
		o.afterWrite(o, info)
	}
	return nil
}

// refresh re-reads the value from the backend. With emitButton set, a
// change of a hardware button option is reported through onButton.
func (o *Option) refresh(emitButton bool) (bool, error) {
	if o.desc.Type == TypeButton || o.visibility == Hidden || o.detached {
		return false, nil
	}
	raw, err := o.backend.ReadValue(o.desc.Index)
	if err != nil {
		return false, fmt.Errorf("%w: read %s: %v", ErrBackend, o.desc.Name, err)
	}
	native, err := o.fromBackend(raw)
	if err != nil {
		return false, err
	}
	if sameValue(o.value, native) {
		return false, nil
	}
	known := o.value != nil
	o.value = native
	o.notifyValue()

	if emitButton && known && o.onButton != nil && o.desc.IsHardwareButton() {
		o.onButton(o, native.(bool))
	}
	return true, nil
}

// fromBackend converts a native backend value to the stored form.
func (o *Option) fromBackend(raw any) (any, error) {
	d := o.desc
	switch d.Type {
	case TypeCheckBox:
		switch b := raw.(type) {
		case bool:
			return b, nil
		default:
			if n, ok := toFloat64(raw); ok {
				return n != 0, nil
			}
		}
	case TypeSlider:
		if n, ok := toFloat64(raw); ok {
			return int(math.Round(n)), nil
		}
	case TypeSliderF:
		if n, ok := toFloat64(raw); ok {
			return n, nil
		}
	case TypeCombo:
		if d.Constraint == ConstraintStringList {
			if s, ok := raw.(string); ok {
				return slices.Index(d.Strings, s), nil
			}
		} else if n, ok := toFloat64(raw); ok {
			return nearestWord(d.Words, n), nil
		}
	case TypeEntry:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	case TypeGamma:
		if t, ok := raw.([]int); ok {
			return slices.Clone(t), nil
		}
	}
	return nil, fmt.Errorf("%w: %s got %T from backend", ErrBackend, d.Name, raw)
}

func (o *Option) notifyValue() {
	for _, obs := range slices.Clone(o.observers) {
		obs.OnValueChanged(o)
	}
}

// quantize snaps v to the nearest step from r.Min, staying within r.
func quantize(v float64, r Range) float64 {
	if r.Step <= 0 {
		return v
	}
	q := r.Min + math.Round((v-r.Min)/r.Step)*r.Step
	if q > r.Max {
		q -= r.Step
	}
	// Drop binary noise from fractional steps such as 0.1.
	return math.Round(q*1e9) / 1e9
}

func nearestWord(words []float64, v float64) int {
	best := -1
	bestDist := math.Inf(1)
	for i, w := range words {
		if d := math.Abs(w - v); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func sameValue(a, b any) bool {
	ta, okA := a.([]int)
	tb, okB := b.([]int)
	if okA || okB {
		return okA && okB && slices.Equal(ta, tb)
	}
	return a == b
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
