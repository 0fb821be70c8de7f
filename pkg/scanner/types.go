package scanner

import (
	"errors"
	"log/slog"
	"time"

	"github.com/scanopt/scanopt-go/pkg/log"
)

// Scanner errors.
var (
	ErrClosed           = errors.New("scanner: device closed")
	ErrScanInProgress   = errors.New("scanner: scan in progress")
	ErrInvalidSelection = errors.New("scanner: invalid selection")
	ErrNoGeometry       = errors.New("scanner: device has no scan area options")
)

// Well-known option names.
const (
	OptResolution   = "resolution"
	OptXResolution  = "x-resolution"
	OptPreview      = "preview"
	OptTopLeftX     = "tl-x"
	OptTopLeftY     = "tl-y"
	OptBottomRightX = "br-x"
	OptBottomRightY = "br-y"
)

// Info identifies a scanner.
type Info struct {
	// Name is the backend device name (for example "sim:flatbed").
	Name string

	Vendor string
	Model  string

	// Type is the device class ("flatbed scanner", "sheetfed scanner", ...).
	Type string
}

// Point is a position on the scan bed in millimeters.
type Point struct {
	X float64
	Y float64
}

// ButtonFunc receives hardware button transitions.
type ButtonFunc func(name, label string, pressed bool)

// Config configures a Device.
type Config struct {
	// Logger for debug output (optional).
	Logger *slog.Logger

	// EventLogger receives option events (optional).
	EventLogger log.Logger

	// DefaultPreviewDPI is used when no preview resolution was requested.
	DefaultPreviewDPI float64

	// ButtonPollInterval is the WatchButtons interval when none is given.
	ButtonPollInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultPreviewDPI:  100,
		ButtonPollInterval: 250 * time.Millisecond,
	}
}
