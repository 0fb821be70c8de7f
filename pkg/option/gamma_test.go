package option

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

func TestGammaTableIdentity(t *testing.T) {
	lengths := []int{2, 3, 16, 255, 256, 1024, 4096}
	maxValues := []int{1, 255, 1023, 4095, 65535}

	for _, length := range lengths {
		for _, maxValue := range maxValues {
			t.Run(fmt.Sprintf("%dx%d", length, maxValue), func(t *testing.T) {
				table, err := GammaTable(IdentityTriple, length, maxValue)
				if err != nil {
					t.Fatalf("GammaTable failed: %v", err)
				}
				if len(table) != length {
					t.Fatalf("expected length %d, got %d", length, len(table))
				}
				span := length - 1
				for i, got := range table {
					// round(i*max/span), half up, in integer arithmetic.
					want := (2*i*maxValue + span) / (2 * span)
					if got != want {
						t.Fatalf("table[%d] = %d, want %d", i, got, want)
					}
				}
			})
		}
	}
}

func TestGammaTableLinearRamp(t *testing.T) {
	table, err := GammaTable(IdentityTriple, 256, 255)
	if err != nil {
		t.Fatalf("GammaTable failed: %v", err)
	}
	for i, v := range table {
		if v != i {
			t.Fatalf("table[%d] = %d", i, v)
		}
	}
}

func TestGammaTableMonotonic(t *testing.T) {
	values := []int{-100, -50, -1, 0, 1, 50, 99, 100}
	gammas := []int{1, 50, 100, 180, 1000}

	for _, b := range values {
		for _, c := range values {
			for _, g := range gammas {
				triple := GammaTriple{Brightness: b, Contrast: c, Gamma: g}
				table, err := GammaTable(triple, 256, 255)
				if err != nil {
					t.Fatalf("%+v: %v", triple, err)
				}
				for i, v := range table {
					if v < 0 || v > 255 {
						t.Fatalf("%+v: table[%d] = %d out of bounds", triple, i, v)
					}
					if i > 0 && v < table[i-1] {
						t.Fatalf("%+v: table[%d]=%d < table[%d]=%d", triple, i, v, i-1, table[i-1])
					}
				}
			}
		}
	}
}

func TestGammaTableShape(t *testing.T) {
	t.Run("BrightnessRaises", func(t *testing.T) {
		base, _ := GammaTable(IdentityTriple, 256, 255)
		bright, _ := GammaTable(GammaTriple{Brightness: 20, Gamma: LinearGamma}, 256, 255)
		if bright[100] <= base[100] {
			t.Errorf("expected brighter midtone, got %d <= %d", bright[100], base[100])
		}
		if bright[255] != 255 {
			t.Errorf("expected clipped top, got %d", bright[255])
		}
	})

	t.Run("FullContrastThresholds", func(t *testing.T) {
		table, _ := GammaTable(GammaTriple{Contrast: 100, Gamma: LinearGamma}, 256, 255)
		if table[0] != 0 || table[127] != 0 || table[128] != 255 || table[255] != 255 {
			t.Errorf("unexpected threshold table: %d %d %d %d", table[0], table[127], table[128], table[255])
		}
	})

	t.Run("MinimumContrastIsFlat", func(t *testing.T) {
		table, _ := GammaTable(GammaTriple{Contrast: -100, Gamma: LinearGamma}, 256, 255)
		for i, v := range table {
			if v != 128 {
				t.Fatalf("table[%d] = %d, want 128", i, v)
			}
		}
	})

	t.Run("GammaBrightensMidtones", func(t *testing.T) {
		table, _ := GammaTable(GammaTriple{Gamma: 200}, 256, 255)
		if table[64] <= 64 {
			t.Errorf("expected table[64] > 64, got %d", table[64])
		}
		if table[0] != 0 || table[255] != 255 {
			t.Errorf("endpoints moved: %d %d", table[0], table[255])
		}
	})
}

func TestGammaTableErrors(t *testing.T) {
	tests := []struct {
		name     string
		triple   GammaTriple
		length   int
		maxValue int
	}{
		{"ShortTable", IdentityTriple, 1, 255},
		{"ZeroMax", IdentityTriple, 256, 0},
		{"BrightnessHigh", GammaTriple{Brightness: 101, Gamma: 100}, 256, 255},
		{"ContrastLow", GammaTriple{Contrast: -101, Gamma: 100}, 256, 255},
		{"GammaZero", GammaTriple{Gamma: 0}, 256, 255},
		{"GammaHigh", GammaTriple{Gamma: 1001}, 256, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GammaTable(tt.triple, tt.length, tt.maxValue)
			if !errors.Is(err, ErrOutOfRange) {
				t.Errorf("expected ErrOutOfRange, got %v", err)
			}
		})
	}
}

func TestGammaTableRange(t *testing.T) {
	table, err := GammaTableRange(IdentityTriple, 256, 16, 235)
	if err != nil {
		t.Fatalf("GammaTableRange failed: %v", err)
	}
	if table[0] != 16 || table[255] != 235 {
		t.Errorf("endpoints = %d, %d; want 16, 235", table[0], table[255])
	}
	for i := 1; i < len(table); i++ {
		if table[i] < table[i-1] {
			t.Fatalf("not monotonic at %d", i)
		}
	}

	zeroBased, _ := GammaTableRange(GammaTriple{Brightness: 10, Contrast: -5, Gamma: 150}, 64, 0, 255)
	plain, _ := GammaTable(GammaTriple{Brightness: 10, Contrast: -5, Gamma: 150}, 64, 255)
	if !slices.Equal(zeroBased, plain) {
		t.Error("a zero minimum should match GammaTable")
	}

	for _, bounds := range [][2]int{{-1, 255}, {100, 100}, {200, 100}} {
		if _, err := GammaTableRange(IdentityTriple, 256, bounds[0], bounds[1]); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("range %v: expected ErrOutOfRange, got %v", bounds, err)
		}
	}
}
