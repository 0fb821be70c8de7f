package scanner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scanopt/scanopt-go/pkg/log"
	"github.com/scanopt/scanopt-go/pkg/option"
)

type buttonPress struct {
	name    string
	label   string
	pressed bool
}

// Device is the caller facing view of one open scanner. It owns the option
// registry and serializes every access to it, so a Device is safe for
// concurrent use.
type Device struct {
	mu sync.Mutex

	info      Info
	sessionID string
	backend   option.Backend
	registry  *option.Registry

	logger *slog.Logger
	events log.Logger
	config Config

	scanning        bool
	previewScan     bool
	savedResolution string
	closed          bool

	// Requested preview resolution; 0 selects the configured default.
	previewDPI float64

	buttonFuncs []ButtonFunc
	pending     []buttonPress
}

// Open creates a Device over backend and loads its options.
func Open(info Info, backend option.Backend, config Config) (*Device, error) {
	defaults := DefaultConfig()
	if config.DefaultPreviewDPI <= 0 {
		config.DefaultPreviewDPI = defaults.DefaultPreviewDPI
	}
	if config.ButtonPollInterval <= 0 {
		config.ButtonPollInterval = defaults.ButtonPollInterval
	}

	d := &Device{
		info:      info,
		sessionID: uuid.NewString(),
		backend:   backend,
		logger:    config.Logger,
		events:    config.EventLogger,
		config:    config,
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	if d.events == nil {
		d.events = log.NoopLogger{}
	}

	d.registry = option.NewRegistry(backend, option.WithLogger(d.logger.With("device", info.Name)))
	d.registry.OnEvent(d.recordOptionEvent)
	d.registry.OnButton(d.queueButton)

	if err := d.registry.Reload(); err != nil {
		return nil, fmt.Errorf("open %s: %w", info.Name, err)
	}
	d.logger.Debug("device opened", "name", info.Name, "session", d.sessionID,
		"options", len(d.registry.Names()))
	return d, nil
}

// Info returns the device identity.
func (d *Device) Info() Info { return d.info }

// Name returns the backend device name.
func (d *Device) Name() string { return d.info.Name }

// Vendor returns the device vendor.
func (d *Device) Vendor() string { return d.info.Vendor }

// Model returns the device model.
func (d *Device) Model() string { return d.info.Model }

// SessionID returns the unique ID of this open session.
func (d *Device) SessionID() string { return d.sessionID }

// OnButtonPressed registers a callback for hardware button transitions.
// Callbacks run on the goroutine that detected the transition, after the
// device lock is released.
func (d *Device) OnButtonPressed(fn ButtonFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buttonFuncs = append(d.buttonFuncs, fn)
}

// GetOptVals returns the string values of every readable option.
func (d *Device) GetOptVals() map[string]string {
	var out map[string]string
	d.with(func() {
		out = d.registry.GetAll()
	})
	return out
}

// SetOptVals applies values in option order and returns how many were
// accepted. While a scan is active every write is rejected.
func (d *Device) SetOptVals(values map[string]string) int {
	var n int
	d.with(func() {
		if err := d.writable(); err != nil {
			for name, v := range values {
				d.recordRejected(name, v, err)
			}
			return
		}
		n = d.registry.SetAll(values)
	})
	return n
}

// GetOptVal reads one option as a string.
func (d *Device) GetOptVal(name string) (string, bool) {
	v, err := d.Get(name)
	return v, err == nil
}

// SetOptVal writes one option from a string and reports whether it was
// accepted.
func (d *Device) SetOptVal(name, value string) bool {
	return d.Set(name, value) == nil
}

// Get is GetOptVal with the failure reason.
func (d *Device) Get(name string) (string, error) {
	var (
		v   string
		err error
	)
	d.with(func() {
		v, err = d.registry.Read(name)
	})
	return v, err
}

// Set is SetOptVal with the failure reason.
func (d *Device) Set(name, value string) error {
	var err error
	d.with(func() {
		if err = d.writable(); err != nil {
			d.recordRejected(name, value, err)
			return
		}
		err = d.registry.Write(name, value)
	})
	return err
}

// SetGammaTable writes a raw table to a gamma option.
func (d *Device) SetGammaTable(name string, table []int) error {
	var err error
	d.with(func() {
		if err = d.writable(); err != nil {
			return
		}
		o, ok := d.registry.Option(name)
		if !ok {
			err = fmt.Errorf("%w: %s", option.ErrNotFound, name)
			return
		}
		err = o.WriteTable(table)
		d.record(log.Event{
			Category: log.CategoryWrite,
			Option:   name,
			Value:    option.EncodeIntArray(table),
			Status:   log.StatusFromError(err),
			Message:  errText(err),
		})
	})
	return err
}

// View runs fn with the option registry while holding the device lock.
// fn must not write options or retain the registry.
func (d *Device) View(fn func(r *option.Registry)) {
	d.with(func() {
		fn(d.registry)
	})
}

// Names returns the option names in backend order.
func (d *Device) Names() []string {
	var names []string
	d.with(func() {
		names = d.registry.Names()
	})
	return names
}

// Reload re-reads the descriptor set from the backend.
func (d *Device) Reload() error {
	var err error
	d.with(func() {
		if d.closed {
			err = ErrClosed
			return
		}
		err = d.registry.Reload()
	})
	return err
}

// PollButtons re-reads the hardware button options once.
func (d *Device) PollButtons() {
	d.with(func() {
		if !d.closed {
			d.registry.PollButtons()
		}
	})
}

// WatchButtons polls the hardware buttons until ctx is done. A zero
// interval uses the configured default.
func (d *Device) WatchButtons(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = d.config.ButtonPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if d.isClosed() {
				return ErrClosed
			}
			d.PollButtons()
		}
	}
}

// BeginScan marks the start of an acquisition. Option writes are rejected
// until EndScan. A preview scan switches the resolution to the preview
// resolution and sets the preview option where the device has one.
func (d *Device) BeginScan(preview bool) error {
	var err error
	d.with(func() {
		if d.closed {
			err = ErrClosed
			return
		}
		if d.scanning {
			err = ErrScanInProgress
			return
		}
		if preview {
			d.enterPreview()
		}
		d.scanning = true
		d.previewScan = preview
		d.record(log.Event{
			Category: log.CategoryScan,
			Scan:     &log.ScanEvent{Phase: log.ScanStarted, DPI: int(d.currentDPI()), Preview: preview},
		})
	})
	return err
}

// EndScan marks the end of an acquisition and restores settings changed
// for a preview. Calling EndScan without an active scan does nothing.
func (d *Device) EndScan(cancelled bool) {
	d.with(func() {
		if !d.scanning {
			return
		}
		d.scanning = false
		dpi := d.currentDPI()
		if d.previewScan {
			d.leavePreview()
		}
		d.previewScan = false
		d.record(log.Event{
			Category: log.CategoryScan,
			Scan:     &log.ScanEvent{Phase: log.ScanEnded, DPI: int(dpi), Cancelled: cancelled},
		})
	})
}

// Scanning reports whether an acquisition is active.
func (d *Device) Scanning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scanning
}

// Close ends the session. The backend is closed if it implements io.Closer.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.scanning = false
	d.logger.Debug("device closed", "name", d.info.Name, "session", d.sessionID)
	if c, ok := d.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (d *Device) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// with runs fn under the device lock, then delivers button transitions
// queued while fn ran.
func (d *Device) with(fn func()) {
	d.mu.Lock()
	fn()
	pending := d.pending
	d.pending = nil
	funcs := slices.Clone(d.buttonFuncs)
	d.mu.Unlock()

	for _, p := range pending {
		for _, f := range funcs {
			f(p.name, p.label, p.pressed)
		}
	}
}

func (d *Device) writable() error {
	if d.closed {
		return ErrClosed
	}
	if d.scanning {
		return fmt.Errorf("%w: %w", option.ErrNotEditable, ErrScanInProgress)
	}
	return nil
}

func (d *Device) enterPreview() {
	res := d.resolutionName()
	if res == "" {
		return
	}
	if v, err := d.registry.Read(res); err == nil {
		d.savedResolution = v
	}
	if o, ok := d.registry.Option(res); ok {
		if err := d.registry.Write(res, formatNumber(o, d.effectivePreviewDPI(o))); err != nil {
			d.logger.Debug("preview resolution not applied", "error", err)
		}
	}
	if o, ok := d.registry.Option(OptPreview); ok && o.Type() == option.TypeCheckBox && o.Editable() {
		if err := d.registry.Write(OptPreview, option.TokenTrue); err != nil {
			d.logger.Debug("preview option not applied", "error", err)
		}
	}
}

func (d *Device) leavePreview() {
	if d.savedResolution != "" {
		if err := d.registry.Write(d.resolutionName(), d.savedResolution); err != nil {
			d.logger.Debug("resolution not restored", "error", err)
		}
		d.savedResolution = ""
	}
	if o, ok := d.registry.Option(OptPreview); ok && o.Type() == option.TypeCheckBox && o.Editable() {
		if err := d.registry.Write(OptPreview, option.TokenFalse); err != nil {
			d.logger.Debug("preview option not cleared", "error", err)
		}
	}
}

func (d *Device) queueButton(name, label string, pressed bool) {
	d.pending = append(d.pending, buttonPress{name: name, label: label, pressed: pressed})
	d.record(log.Event{
		Category: log.CategoryButton,
		Option:   name,
		Value:    option.EncodeBool(pressed),
		Button:   &log.ButtonEvent{Label: label, Pressed: pressed},
	})
}

func (d *Device) recordOptionEvent(e option.Event) {
	// Buttons are recorded with their label by queueButton.
	if e.Kind == option.EventButton {
		return
	}
	d.record(log.Event{
		Category: log.CategoryFromKind(e.Kind),
		Option:   e.Option,
		Value:    e.Value,
		Status:   log.StatusFromError(e.Err),
		Message:  errText(e.Err),
	})
}

func (d *Device) recordRejected(name, value string, err error) {
	d.record(log.Event{
		Category: log.CategoryWrite,
		Option:   name,
		Value:    value,
		Status:   log.StatusFromError(err),
		Message:  err.Error(),
	})
}

func (d *Device) record(e log.Event) {
	e.Timestamp = time.Now()
	e.SessionID = d.sessionID
	e.DeviceName = d.info.Name
	d.events.Log(e)
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
