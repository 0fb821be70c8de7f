package log

import (
	"errors"
	"time"

	"github.com/scanopt/scanopt-go/pkg/option"
)

// Event represents one option access or device state change.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID uniquely identifies the device session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// DeviceName is the backend device name.
	DeviceName string `cbor:"4,keyasint,omitempty"`

	// Option is the option name (empty for device level events).
	Option string `cbor:"5,keyasint,omitempty"`

	// Value is the string value read or written.
	Value string `cbor:"6,keyasint,omitempty"`

	// Status is the outcome of the access.
	Status Status `cbor:"7,keyasint"`

	// Message is the error text for failed accesses.
	Message string `cbor:"8,keyasint,omitempty"`

	// Type-specific payload (at most one is set).
	Button *ButtonEvent `cbor:"9,keyasint,omitempty"`
	Scan   *ScanEvent   `cbor:"10,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryRead indicates an option read.
	CategoryRead Category = 0
	// CategoryWrite indicates an option write.
	CategoryWrite Category = 1
	// CategoryButton indicates a hardware button transition.
	CategoryButton Category = 2
	// CategoryVisibility indicates an option changed visibility.
	CategoryVisibility Category = 3
	// CategoryReload indicates the option set was reloaded.
	CategoryReload Category = 4
	// CategoryScan indicates a scan started or ended.
	CategoryScan Category = 5
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryRead:
		return "READ"
	case CategoryWrite:
		return "WRITE"
	case CategoryButton:
		return "BUTTON"
	case CategoryVisibility:
		return "VISIBILITY"
	case CategoryReload:
		return "RELOAD"
	case CategoryScan:
		return "SCAN"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory returns the category with the given name (case-sensitive,
// as returned by String).
func ParseCategory(s string) (Category, bool) {
	for c := CategoryRead; c <= CategoryScan; c++ {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// CategoryFromKind maps a registry event kind to its category.
func CategoryFromKind(k option.EventKind) Category {
	switch k {
	case option.EventRead:
		return CategoryRead
	case option.EventWrite:
		return CategoryWrite
	case option.EventButton:
		return CategoryButton
	case option.EventVisibility:
		return CategoryVisibility
	default:
		return CategoryReload
	}
}

// Status is the outcome of an option access.
type Status uint8

const (
	StatusOK Status = iota
	StatusInvalidFormat
	StatusInvalidChoice
	StatusOutOfRange
	StatusNotEditable
	StatusUnsupported
	StatusNotFound
	StatusBackendError
	StatusFailed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusInvalidFormat:
		return "INVALID_FORMAT"
	case StatusInvalidChoice:
		return "INVALID_CHOICE"
	case StatusOutOfRange:
		return "OUT_OF_RANGE"
	case StatusNotEditable:
		return "NOT_EDITABLE"
	case StatusUnsupported:
		return "UNSUPPORTED"
	case StatusNotFound:
		return "NOT_FOUND"
	case StatusBackendError:
		return "BACKEND_ERROR"
	case StatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// StatusFromError classifies an option error. A nil error is StatusOK.
func StatusFromError(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, option.ErrInvalidFormat):
		return StatusInvalidFormat
	case errors.Is(err, option.ErrInvalidChoice):
		return StatusInvalidChoice
	case errors.Is(err, option.ErrOutOfRange):
		return StatusOutOfRange
	case errors.Is(err, option.ErrNotEditable):
		return StatusNotEditable
	case errors.Is(err, option.ErrUnsupportedOperation):
		return StatusUnsupported
	case errors.Is(err, option.ErrNotFound):
		return StatusNotFound
	case errors.Is(err, option.ErrBackend):
		return StatusBackendError
	default:
		return StatusFailed
	}
}

// ButtonEvent captures a hardware button transition.
type ButtonEvent struct {
	// Label is the button display label.
	Label string `cbor:"1,keyasint,omitempty"`

	// Pressed is the new button state.
	Pressed bool `cbor:"2,keyasint"`
}

// ScanEvent captures the start or end of an acquisition.
type ScanEvent struct {
	// Phase is the scan phase.
	Phase ScanPhase `cbor:"1,keyasint"`

	// DPI is the resolution in effect.
	DPI int `cbor:"2,keyasint,omitempty"`

	// Preview marks preview scans.
	Preview bool `cbor:"3,keyasint,omitempty"`

	// Cancelled is set on an end event when the scan was aborted.
	Cancelled bool `cbor:"4,keyasint,omitempty"`
}

// ScanPhase distinguishes scan start and end.
type ScanPhase uint8

const (
	// ScanStarted indicates acquisition began.
	ScanStarted ScanPhase = 0
	// ScanEnded indicates acquisition finished.
	ScanEnded ScanPhase = 1
)

// String returns the phase name.
func (p ScanPhase) String() string {
	switch p {
	case ScanStarted:
		return "STARTED"
	case ScanEnded:
		return "ENDED"
	default:
		return "UNKNOWN"
	}
}
