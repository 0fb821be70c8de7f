package scanner

import (
	"fmt"
	"math"

	"github.com/scanopt/scanopt-go/pkg/option"
)

const mmPerInch = 25.4

// CurrentDPI returns the resolution currently set, or 0 when the device
// has no readable resolution option.
func (d *Device) CurrentDPI() float64 {
	var dpi float64
	d.with(func() {
		dpi = d.currentDPI()
	})
	return dpi
}

// ScanAreaWidth returns the width of the scan bed in millimeters.
func (d *Device) ScanAreaWidth() float64 {
	var w float64
	d.with(func() {
		w = d.extent(OptBottomRightX)
	})
	return w
}

// ScanAreaHeight returns the height of the scan bed in millimeters.
func (d *Device) ScanAreaHeight() float64 {
	var h float64
	d.with(func() {
		h = d.extent(OptBottomRightY)
	})
	return h
}

// SetSelection sets the scan area in millimeters. Equal corners select the
// whole bed. Corners outside the bed are moved onto it. Every corner is
// checked before the first write, so a rejected selection leaves the
// previous one in place. A backend failure part way through can still leave
// some corners updated.
func (d *Device) SetSelection(topLeft, bottomRight Point) error {
	if bottomRight.X < topLeft.X || bottomRight.Y < topLeft.Y {
		return fmt.Errorf("%w: (%g,%g)-(%g,%g)", ErrInvalidSelection,
			topLeft.X, topLeft.Y, bottomRight.X, bottomRight.Y)
	}

	var err error
	d.with(func() {
		if err = d.writable(); err != nil {
			return
		}

		names := []string{OptTopLeftX, OptTopLeftY, OptBottomRightX, OptBottomRightY}
		opts := make([]*option.Option, len(names))
		for i, name := range names {
			o, ok := d.registry.Option(name)
			if !ok {
				err = fmt.Errorf("%w: missing %s", ErrNoGeometry, name)
				return
			}
			opts[i] = o
		}

		var mm [4]float64
		if topLeft == bottomRight {
			mm = [4]float64{
				d.toMM(opts[0], opts[0].MinValue()),
				d.toMM(opts[1], opts[1].MinValue()),
				d.toMM(opts[2], opts[2].MaxValue()),
				d.toMM(opts[3], opts[3].MaxValue()),
			}
		} else {
			mm = [4]float64{topLeft.X, topLeft.Y, bottomRight.X, bottomRight.Y}
		}

		var values [4]string
		for i, o := range opts {
			if !o.Editable() {
				err = fmt.Errorf("%w: %s", option.ErrNotEditable, names[i])
				return
			}
			v := o.Closest(d.fromMM(o, mm[i]))
			if r, ok := o.Range(); ok && !r.Contains(v) {
				err = fmt.Errorf("%w: %s=%g", option.ErrOutOfRange, names[i], v)
				return
			}
			values[i] = formatNumber(o, v)
		}

		for i, name := range names {
			if werr := d.registry.Write(name, values[i]); werr != nil && err == nil {
				err = werr
			}
		}
	})
	return err
}

// SetPreviewResolution sets the resolution used for preview scans. Zero
// selects the default. The value is snapped to the nearest supported
// resolution when the preview starts.
func (d *Device) SetPreviewResolution(dpi float64) error {
	if dpi < 0 || math.IsNaN(dpi) || math.IsInf(dpi, 0) {
		return fmt.Errorf("%w: preview resolution %g", option.ErrOutOfRange, dpi)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.previewDPI = dpi
	return nil
}

// PreviewResolution returns the resolution a preview scan would use.
func (d *Device) PreviewResolution() float64 {
	var dpi float64
	d.with(func() {
		o, ok := d.registry.Option(d.resolutionName())
		if !ok {
			dpi = d.requestedPreviewDPI()
			return
		}
		dpi = d.effectivePreviewDPI(o)
	})
	return dpi
}

func (d *Device) requestedPreviewDPI() float64 {
	if d.previewDPI > 0 {
		return d.previewDPI
	}
	return d.config.DefaultPreviewDPI
}

func (d *Device) effectivePreviewDPI(o *option.Option) float64 {
	return o.Closest(d.requestedPreviewDPI())
}

func (d *Device) resolutionName() string {
	for _, name := range []string{OptResolution, OptXResolution} {
		if o, ok := d.registry.Option(name); ok && o.Visibility() != option.Hidden {
			return name
		}
	}
	return ""
}

func (d *Device) currentDPI() float64 {
	name := d.resolutionName()
	if name == "" {
		return 0
	}
	o, _ := d.registry.Option(name)
	return readNumber(o)
}

// extent returns the upper bound of a geometry option in millimeters.
func (d *Device) extent(name string) float64 {
	o, ok := d.registry.Option(name)
	if !ok {
		return 0
	}
	return d.toMM(o, o.MaxValue())
}

func (d *Device) toMM(o *option.Option, v float64) float64 {
	if o.Descriptor().Unit != option.UnitPixel {
		return v
	}
	dpi := d.currentDPI()
	if dpi <= 0 {
		return 0
	}
	return v / dpi * mmPerInch
}

func (d *Device) fromMM(o *option.Option, mm float64) float64 {
	if o.Descriptor().Unit != option.UnitPixel {
		return mm
	}
	return mm / mmPerInch * d.currentDPI()
}

// readNumber returns the numeric value of o, or 0 if it has none.
func readNumber(o *option.Option) float64 {
	s, err := o.Read()
	if err != nil {
		return 0
	}
	v, err := option.DecodeFloat(s)
	if err != nil {
		return 0
	}
	return v
}

// formatNumber renders v in the string form o accepts.
func formatNumber(o *option.Option, v float64) string {
	if o.Descriptor().ValueType == option.ValueInt {
		return option.EncodeInt(int(math.Round(v)))
	}
	return option.EncodeFloat(v)
}
