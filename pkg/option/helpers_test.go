package option

import (
	"errors"
	"slices"
)

type fakeWrite struct {
	index int
	value any
}

// fakeBackend is an in-memory Backend. onWrite runs after a successful
// write and may change descriptors or stored values.
type fakeBackend struct {
	descs     []Descriptor
	values    map[int]any
	writes    []fakeWrite
	failWrite map[int]error
	onWrite   func(f *fakeBackend, index int, v any) WriteInfo
}

func (f *fakeBackend) Descriptors() ([]Descriptor, error) {
	return slices.Clone(f.descs), nil
}

func (f *fakeBackend) ReadValue(index int) (any, error) {
	v, ok := f.values[index]
	if !ok {
		return nil, errors.New("no value")
	}
	return v, nil
}

func (f *fakeBackend) WriteValue(index int, v any) (WriteInfo, error) {
	if err := f.failWrite[index]; err != nil {
		return 0, err
	}
	f.writes = append(f.writes, fakeWrite{index: index, value: v})
	if v != nil {
		f.values[index] = v
	}
	if f.onWrite != nil {
		return f.onWrite(f, index, v), nil
	}
	return 0, nil
}

func (f *fakeBackend) writesTo(index int) int {
	n := 0
	for _, w := range f.writes {
		if w.index == index {
			n++
		}
	}
	return n
}

func identityRamp(n int) []int {
	t := make([]int, n)
	for i := range t {
		t[i] = i
	}
	return t
}

// Option indices of newFakeScanner.
const (
	idxMode = iota
	idxResolution
	idxPreview
	idxGammaR
	idxBrightness
	idxCalibrate
	idxScanButton
	idxThreshold
	idxLabel
	idxDepth
	idxGroup
)

func newFakeScanner() *fakeBackend {
	return &fakeBackend{
		descs: []Descriptor{
			{Index: idxMode, Name: "mode", Title: "Scan mode", ValueType: ValueString, Size: 32,
				Cap: CapDefault, Constraint: ConstraintStringList, Strings: []string{"Lineart", "Gray", "Color"}},
			{Index: idxResolution, Name: "resolution", Title: "Resolution", ValueType: ValueInt, Unit: UnitDPI, Size: 4,
				Cap: CapDefault, Constraint: ConstraintRange, Range: Range{Min: 100, Max: 1200}},
			{Index: idxPreview, Name: "preview", Title: "Preview", ValueType: ValueBool, Size: 4, Cap: CapDefault},
			{Index: idxGammaR, Name: "gamma-r", Title: "Red gamma", ValueType: ValueInt, Size: 256 * WordSize,
				Cap: CapDefault, Constraint: ConstraintRange, Range: Range{Min: 0, Max: 255}},
			{Index: idxBrightness, Name: "brightness", Title: "Brightness", ValueType: ValueFixed, Unit: UnitPercent, Size: 4,
				Cap: CapDefault, Constraint: ConstraintRange, Range: Range{Min: -100, Max: 100, Step: 0.5}},
			{Index: idxCalibrate, Name: "calibrate", Title: "Calibrate", ValueType: ValueButton, Cap: CapSoftSelect},
			{Index: idxScanButton, Name: "scan", Title: "Scan button", ValueType: ValueBool, Size: 4,
				Cap: CapSoftDetect | CapHardSelect},
			{Index: idxThreshold, Name: "threshold", Title: "Threshold", ValueType: ValueInt, Size: 4,
				Cap: CapDefault | CapInactive, Constraint: ConstraintRange, Range: Range{Min: 0, Max: 255}},
			{Index: idxLabel, Name: "label", Title: "Label", ValueType: ValueString, Size: 16, MaxLen: 15, Cap: CapDefault},
			{Index: idxDepth, Name: "depth", Title: "Bit depth", ValueType: ValueInt, Unit: UnitBit, Size: 4,
				Cap: CapDefault, Constraint: ConstraintWordList, Words: []float64{8, 16}},
			{Index: idxGroup, Name: "advanced", Title: "Advanced", ValueType: ValueGroup},
		},
		values: map[int]any{
			idxMode:       "Gray",
			idxResolution: 300,
			idxPreview:    false,
			idxGammaR:     identityRamp(256),
			idxBrightness: 0.0,
			idxScanButton: false,
			idxThreshold:  128,
			idxLabel:      "",
			idxDepth:      8,
		},
	}
}

func newLoadedRegistry(f *fakeBackend) (*Registry, error) {
	r := NewRegistry(f)
	return r, r.Reload()
}
