package log

import (
	"errors"
	"io"
	"iter"
	"os"
	"time"
)

// ErrCorrupt is returned when an .olog file holds bytes that do not decode
// as an event, including a partially written last event.
var ErrCorrupt = errors.New("log: corrupt event stream")

// Filter selects events. Zero fields match everything.
type Filter struct {
	SessionID  string
	DeviceName string
	Option     string
	Category   *Category

	// FailuresOnly keeps only events whose status is not OK.
	FailuresOnly bool

	// TimeStart and TimeEnd bound the half-open window [TimeStart, TimeEnd).
	TimeStart *time.Time
	TimeEnd   *time.Time
}

// Match reports whether event passes every criterion of f.
func (f Filter) Match(event Event) bool {
	switch {
	case f.SessionID != "" && event.SessionID != f.SessionID:
		return false
	case f.DeviceName != "" && event.DeviceName != f.DeviceName:
		return false
	case f.Option != "" && event.Option != f.Option:
		return false
	case f.Category != nil && event.Category != *f.Category:
		return false
	case f.FailuresOnly && event.Status == StatusOK:
		return false
	case f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart):
		return false
	case f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd):
		return false
	}
	return true
}

// Reader streams events from an .olog file without loading it whole.
type Reader struct {
	file   *os.File
	dec    *EventDecoder
	filter Filter
}

// NewReader opens path for reading every event.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens path for reading the events that match filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{file: f, dec: NewDecoder(f), filter: filter}, nil
}

// Next returns the next matching event, or io.EOF at a clean end of file.
// Undecodable data yields an error wrapping ErrCorrupt with the byte
// offset reached.
func (r *Reader) Next() (Event, error) {
	for {
		event, err := r.dec.Decode()
		if err != nil {
			return Event{}, err
		}
		if r.filter.Match(event) {
			return event, nil
		}
	}
}

// Events iterates the remaining matching events. Iteration stops after the
// first error, which is yielded with a zero Event.
func (r *Reader) Events() iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for {
			event, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(event, err) || err != nil {
				return
			}
		}
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// ReadAll returns every event in path matching filter. On a decode error
// the events read so far are returned with it.
func ReadAll(path string, filter Filter) ([]Event, error) {
	r, err := NewFilteredReader(path, filter)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var events []Event
	for event, err := range r.Events() {
		if err != nil {
			return events, err
		}
		events = append(events, event)
	}
	return events, nil
}
