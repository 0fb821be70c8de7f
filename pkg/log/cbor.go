package log

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Events are written with canonical key order and RFC 3339 nanosecond
// timestamps, so equal sessions produce equal files. Reading accepts
// indefinite lengths but bounds nesting and container sizes.
var eventEncMode, eventDecMode = eventModes()

func eventModes() (cbor.EncMode, cbor.DecMode) {
	enc, err := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("log: event encoder mode: %v", err))
	}

	dec, err := cbor.DecOptions{
		DupMapKey:        cbor.DupMapKeyQuiet,
		IndefLength:      cbor.IndefLengthAllowed,
		MaxNestedLevels:  16,
		MaxArrayElements: 4096,
		MaxMapPairs:      64,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("log: event decoder mode: %v", err))
	}
	return enc, dec
}

// EventEncoder appends events to an .olog stream.
type EventEncoder struct {
	enc *cbor.Encoder
}

// NewEncoder returns an encoder writing events to w.
func NewEncoder(w io.Writer) *EventEncoder {
	return &EventEncoder{enc: eventEncMode.NewEncoder(w)}
}

// Encode writes one event.
func (e *EventEncoder) Encode(event Event) error {
	return e.enc.Encode(event)
}

// EventDecoder reads events back from an .olog stream.
type EventDecoder struct {
	dec *cbor.Decoder
}

// NewDecoder returns a decoder reading events from r.
func NewDecoder(r io.Reader) *EventDecoder {
	return &EventDecoder{dec: eventDecMode.NewDecoder(r)}
}

// Decode reads the next event. It returns io.EOF at a clean end of the
// stream. Anything else that fails wraps ErrCorrupt with the byte offset
// reached.
func (d *EventDecoder) Decode() (Event, error) {
	var event Event
	err := d.dec.Decode(&event)
	switch {
	case err == nil:
		return event, nil
	case errors.Is(err, io.EOF):
		return Event{}, io.EOF
	default:
		return Event{}, fmt.Errorf("%w at byte %d: %v", ErrCorrupt, d.dec.NumBytesRead(), err)
	}
}

// EncodeEvent encodes a single event.
func EncodeEvent(event Event) ([]byte, error) {
	return eventEncMode.Marshal(event)
}

// DecodeEvent decodes exactly one event from data.
func DecodeEvent(data []byte) (Event, error) {
	d := NewDecoder(bytes.NewReader(data))
	event, err := d.Decode()
	if err == io.EOF {
		return Event{}, fmt.Errorf("%w: empty input", ErrCorrupt)
	}
	if err != nil {
		return Event{}, err
	}
	if n := d.dec.NumBytesRead(); n != len(data) {
		return Event{}, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(data)-n)
	}
	return event, nil
}
