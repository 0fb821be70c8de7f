package option

import (
	"errors"
	"testing"
)

func TestDecodeBool(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"true", true, false},
		{"false", false, false},
		{"TRUE", true, false},
		{"False", false, false},
		{"1", true, false},
		{"0", false, false},
		{" true ", true, false},
		{"yes", false, true},
		{"", false, true},
		{"2", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := DecodeBool(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFormat) {
					t.Fatalf("expected ErrInvalidFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeBool(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("DecodeBool(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBoolRoundTrip(t *testing.T) {
	for _, b := range []bool{true, false} {
		got, err := DecodeBool(EncodeBool(b))
		if err != nil || got != b {
			t.Errorf("round trip of %v gave %v, %v", b, got, err)
		}
	}
}

func TestDecodeInt(t *testing.T) {
	if v, err := DecodeInt("300"); err != nil || v != 300 {
		t.Errorf("DecodeInt(300) = %d, %v", v, err)
	}
	if v, err := DecodeInt("-42"); err != nil || v != -42 {
		t.Errorf("DecodeInt(-42) = %d, %v", v, err)
	}
	for _, in := range []string{"", "abc", "1.5", "12x"} {
		if _, err := DecodeInt(in); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("DecodeInt(%q): expected ErrInvalidFormat, got %v", in, err)
		}
	}
}

func TestFloatRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1, -1, 0.1, 25.4, 215.9, 1e-6, -99.5} {
		s := EncodeFloat(v)
		got, err := DecodeFloat(s)
		if err != nil {
			t.Fatalf("DecodeFloat(%q) failed: %v", s, err)
		}
		if got != v {
			t.Errorf("round trip of %v gave %v via %q", v, got, s)
		}
	}
}

func TestDecodeFloatRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "NaN", "Inf", "-Inf", "1,5"} {
		if _, err := DecodeFloat(in); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("DecodeFloat(%q): expected ErrInvalidFormat, got %v", in, err)
		}
	}
}

func TestDecodeChoice(t *testing.T) {
	choices := []string{"Lineart", "Gray", "Color"}

	idx, err := DecodeChoice("Gray", choices)
	if err != nil || idx != 1 {
		t.Errorf("DecodeChoice(Gray) = %d, %v", idx, err)
	}

	// Matching is exact.
	if _, err := DecodeChoice("gray", choices); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("expected ErrInvalidChoice, got %v", err)
	}
	if _, err := DecodeChoice("Sepia", choices); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("expected ErrInvalidChoice, got %v", err)
	}
}

func TestDecodeTriple(t *testing.T) {
	got, err := DecodeTriple("10:-5:100")
	if err != nil {
		t.Fatalf("DecodeTriple failed: %v", err)
	}
	want := GammaTriple{Brightness: 10, Contrast: -5, Gamma: 100}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if s := EncodeTriple(got); s != "10:-5:100" {
		t.Errorf("EncodeTriple = %q", s)
	}

	for _, in := range []string{"", "1:2", "1:2:3:4", "a:b:c", "1::3", "1.5:0:100"} {
		if _, err := DecodeTriple(in); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("DecodeTriple(%q): expected ErrInvalidFormat, got %v", in, err)
		}
	}
}

func TestIntArray(t *testing.T) {
	got, err := DecodeIntArray(EncodeIntArray([]int{0, 5, 255}))
	if err != nil {
		t.Fatalf("DecodeIntArray failed: %v", err)
	}
	if len(got) != 3 || got[0] != 0 || got[1] != 5 || got[2] != 255 {
		t.Errorf("got %v", got)
	}

	empty, err := DecodeIntArray("")
	if err != nil || len(empty) != 0 {
		t.Errorf("DecodeIntArray(\"\") = %v, %v", empty, err)
	}

	if _, err := DecodeIntArray("1,x,3"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestFloatArray(t *testing.T) {
	got, err := DecodeFloatArray(EncodeFloatArray([]float64{0.5, -1, 25.4}))
	if err != nil {
		t.Fatalf("DecodeFloatArray failed: %v", err)
	}
	if len(got) != 3 || got[0] != 0.5 || got[1] != -1 || got[2] != 25.4 {
		t.Errorf("got %v", got)
	}
}

func TestEncodeDecodeGeneric(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"bool", true, "true"},
		{"int", 300, "300"},
		{"float", 2.5, "2.5"},
		{"string", "Color", "Color"},
		{"ints", []int{1, 2}, "1,2"},
		{"triple", GammaTriple{Brightness: 1, Contrast: 2, Gamma: 100}, "1:2:100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.value)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Encode = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := Encode(struct{}{}); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}

	v, err := Decode("300", ValueInt)
	if err != nil || v != 300 {
		t.Errorf("Decode int = %v, %v", v, err)
	}
	v, err = Decode("0.5", ValueFixed)
	if err != nil || v != 0.5 {
		t.Errorf("Decode fixed = %v, %v", v, err)
	}
	if _, err := Decode("x", ValueButton); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat for button, got %v", err)
	}
}
