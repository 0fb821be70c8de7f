package option

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		vt   ValueType
		ck   ConstraintKind
		size int
		want Type
	}{
		{"Bool", ValueBool, ConstraintNone, 4, TypeCheckBox},
		{"IntRange", ValueInt, ConstraintRange, 4, TypeSlider},
		{"IntUnbounded", ValueInt, ConstraintNone, 4, TypeSlider},
		{"FixedRange", ValueFixed, ConstraintRange, 4, TypeSliderF},
		{"IntWordList", ValueInt, ConstraintWordList, 4, TypeCombo},
		{"FixedWordList", ValueFixed, ConstraintWordList, 4, TypeCombo},
		{"IntArrayRange", ValueInt, ConstraintRange, 1024, TypeGamma},
		{"IntArrayUnbounded", ValueInt, ConstraintNone, 1024, TypeNone},
		{"IntStringList", ValueInt, ConstraintStringList, 4, TypeNone},
		{"StringList", ValueString, ConstraintStringList, 32, TypeCombo},
		{"StringFree", ValueString, ConstraintNone, 32, TypeEntry},
		{"StringRange", ValueString, ConstraintRange, 32, TypeNone},
		{"Button", ValueButton, ConstraintNone, 0, TypeButton},
		{"Group", ValueGroup, ConstraintNone, 0, TypeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.vt, tt.ck, tt.size); got != tt.want {
				t.Errorf("Classify = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDescriptorVisibility(t *testing.T) {
	tests := []struct {
		name string
		desc Descriptor
		want Visibility
	}{
		{"Default", Descriptor{Type: TypeSlider, Size: 4, Cap: CapDefault}, Shown},
		{"Inactive", Descriptor{Type: TypeSlider, Size: 4, Cap: CapDefault | CapInactive}, Hidden},
		{"NotReadable", Descriptor{Type: TypeSlider, Size: 4, Cap: CapSoftSelect}, Hidden},
		{"ZeroSize", Descriptor{Type: TypeSlider, Cap: CapDefault}, Hidden},
		{"ReadOnly", Descriptor{Type: TypeCheckBox, Size: 4, Cap: CapSoftDetect}, Disabled},
		{"Button", Descriptor{Type: TypeButton, Cap: CapSoftSelect}, Shown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.desc.Visibility(); got != tt.want {
				t.Errorf("Visibility = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDescriptorHelpers(t *testing.T) {
	d := Descriptor{ValueType: ValueInt, Size: 256 * WordSize, Constraint: ConstraintRange, Range: Range{Max: 4095}}
	if d.Length() != 256 {
		t.Errorf("Length = %d", d.Length())
	}
	if d.MaxTableValue() != 4095 {
		t.Errorf("MaxTableValue = %d", d.MaxTableValue())
	}

	d.Range.Max = 0
	if d.MaxTableValue() != 255 {
		t.Errorf("MaxTableValue fallback = %d", d.MaxTableValue())
	}

	words := Descriptor{ValueType: ValueInt, Constraint: ConstraintWordList, Words: []float64{75, 150, 300}}
	choices := words.Choices()
	if len(choices) != 3 || choices[0] != "75" || choices[2] != "300" {
		t.Errorf("Choices = %v", choices)
	}

	button := Descriptor{ValueType: ValueBool, Size: 4, Cap: CapSoftDetect | CapHardSelect}
	if !button.IsHardwareButton() {
		t.Error("expected hardware button")
	}
	flag := Descriptor{ValueType: ValueBool, Size: 4, Cap: CapDefault}
	if flag.IsHardwareButton() {
		t.Error("writable bool is not a hardware button")
	}
}
