package option

import (
	"fmt"
	"log/slog"
	"slices"
)

// EventKind classifies registry events.
type EventKind uint8

const (
	EventRead EventKind = iota
	EventWrite
	EventButton
	EventVisibility
	EventReload
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventRead:
		return "read"
	case EventWrite:
		return "write"
	case EventButton:
		return "button"
	case EventVisibility:
		return "visibility"
	case EventReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Event describes one access or change observed by the registry.
type Event struct {
	Kind   EventKind
	Option string
	Value  string
	Err    error
}

// ButtonFunc receives hardware button transitions.
type ButtonFunc func(name, label string, pressed bool)

// EventFunc receives registry events.
type EventFunc func(Event)

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// Registry holds the options of one device session and keeps them in sync
// with the backend. Names are unique; lookups always resolve against the
// current descriptor set.
//
// Registry is not safe for concurrent use. Callers serialize access (see
// scanner.Device).
type Registry struct {
	backend Backend
	logger  *slog.Logger

	options []*Option
	byName  map[string]*Option

	buttonFuncs []ButtonFunc
	eventFuncs  []EventFunc

	reloading bool
}

// NewRegistry creates a registry over backend. Call Reload to populate it.
func NewRegistry(backend Backend, opts ...RegistryOption) *Registry {
	r := &Registry{
		backend: backend,
		logger:  slog.New(slog.DiscardHandler),
		byName:  make(map[string]*Option),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnButton registers a callback for hardware button transitions.
func (r *Registry) OnButton(fn ButtonFunc) {
	r.buttonFuncs = append(r.buttonFuncs, fn)
}

// OnEvent registers a callback for registry events.
func (r *Registry) OnEvent(fn EventFunc) {
	r.eventFuncs = append(r.eventFuncs, fn)
}

// Reload rebuilds the option set from the backend descriptors. An option
// whose name and type are unchanged keeps its identity, observers included;
// only its descriptor, visibility, and value are refreshed. Options the
// backend no longer reports are detached and fail every later access.
func (r *Registry) Reload() error {
	descs, err := r.backend.Descriptors()
	if err != nil {
		return fmt.Errorf("%w: descriptors: %v", ErrBackend, err)
	}

	r.reloading = true
	defer func() { r.reloading = false }()

	next := make([]*Option, 0, len(descs))
	nextByName := make(map[string]*Option, len(descs))
	var fresh []*Option

	for i := range descs {
		d := descs[i]
		d.Type = Classify(d.ValueType, d.Constraint, d.Size)
		if d.Type == TypeNone || d.Name == "" {
			continue
		}
		if _, dup := nextByName[d.Name]; dup {
			r.logger.Warn("duplicate option name", "name", d.Name, "index", d.Index)
			continue
		}

		o, ok := r.byName[d.Name]
		if ok && o.desc.Type == d.Type {
			o.desc = &d
			o.readOnly = d.ReadOnly()
		} else {
			o = newOption(&d, r.backend)
			o.afterWrite = r.afterWrite
			o.onButton = r.fireButton
			fresh = append(fresh, o)
		}
		next = append(next, o)
		nextByName[d.Name] = o
	}

	for name, old := range r.byName {
		if nextByName[name] != old {
			old.detached = true
			old.afterWrite = nil
			old.onButton = nil
			r.logger.Debug("option removed", "name", name)
		}
	}
	r.options = next
	r.byName = nextByName

	for _, o := range r.options {
		prev := o.visibility
		o.SetVisibility(o.desc.Visibility())
		if prev != o.visibility && !slices.Contains(fresh, o) {
			r.emit(Event{Kind: EventVisibility, Option: o.Name(), Value: o.visibility.String()})
		}
	}
	for _, o := range r.options {
		if _, err := o.refresh(!slices.Contains(fresh, o)); err != nil {
			r.logger.Warn("option read failed", "name", o.Name(), "error", err)
		}
	}

	r.logger.Debug("options reloaded", "count", len(r.options), "new", len(fresh))
	r.emit(Event{Kind: EventReload, Value: fmt.Sprint(len(r.options))})
	return nil
}

// Options returns the options in backend order.
func (r *Registry) Options() []*Option {
	return slices.Clone(r.options)
}

// Names returns the option names in backend order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.options))
	for i, o := range r.options {
		names[i] = o.Name()
	}
	return names
}

// Option returns the option with the given name.
func (r *Registry) Option(name string) (*Option, bool) {
	o, ok := r.byName[name]
	return o, ok
}

// Get reads the string value of the named option. It reports false for
// unknown names and for options that cannot be read right now.
func (r *Registry) Get(name string) (string, bool) {
	v, err := r.Read(name)
	return v, err == nil
}

// Set writes the string value of the named option and reports whether the
// write was accepted. Side effects reported by the backend (reload, inexact
// value) are applied before Set returns.
func (r *Registry) Set(name, value string) bool {
	return r.Write(name, value) == nil
}

// Read is Get with the failure reason.
func (r *Registry) Read(name string) (string, error) {
	o, ok := r.byName[name]
	if !ok {
		err := fmt.Errorf("%w: %s", ErrNotFound, name)
		r.emit(Event{Kind: EventRead, Option: name, Err: err})
		return "", err
	}
	v, err := o.Read()
	r.emit(Event{Kind: EventRead, Option: name, Value: v, Err: err})
	return v, err
}

// Write is Set with the failure reason.
func (r *Registry) Write(name, value string) error {
	o, ok := r.byName[name]
	if !ok {
		err := fmt.Errorf("%w: %s", ErrNotFound, name)
		r.emit(Event{Kind: EventWrite, Option: name, Value: value, Err: err})
		return err
	}
	err := o.Write(value)
	r.emit(Event{Kind: EventWrite, Option: name, Value: value, Err: err})
	if err != nil {
		r.logger.Debug("option write rejected", "name", name, "value", value, "error", err)
	}
	return err
}

// GetAll returns the string values of every readable option. Hidden
// options and options without a string form are left out.
func (r *Registry) GetAll() map[string]string {
	out := make(map[string]string, len(r.options))
	for _, o := range r.options {
		if o.visibility == Hidden {
			continue
		}
		v, err := o.Read()
		if err != nil {
			continue
		}
		out[o.Name()] = v
	}
	return out
}

// SetAll applies values in registry order and returns how many writes
// succeeded. Names are resolved again after every write, so an option that
// appears because of an earlier write in the batch is still applied. Names
// that never resolve are skipped.
func (r *Registry) SetAll(values map[string]string) int {
	applied := 0
	tried := make(map[string]bool, len(values))
	for {
		progressed := false
		for _, o := range r.Options() {
			name := o.Name()
			v, ok := values[name]
			if !ok || tried[name] {
				continue
			}
			tried[name] = true
			progressed = true
			if r.Set(name, v) {
				applied++
			}
		}
		if !progressed {
			return applied
		}
	}
}

// PollButtons re-reads every hardware button option and reports
// transitions through the OnButton callbacks.
func (r *Registry) PollButtons() {
	for _, o := range r.options {
		if o.Type() != TypeCheckBox || !o.desc.IsHardwareButton() {
			continue
		}
		if _, err := o.refresh(true); err != nil {
			r.logger.Debug("button poll failed", "name", o.Name(), "error", err)
		}
	}
}

func (r *Registry) afterWrite(o *Option, info WriteInfo) {
	switch {
	case info.Has(InfoReloadOptions) && !r.reloading:
		if err := r.Reload(); err != nil {
			r.logger.Warn("reload after write failed", "name", o.Name(), "error", err)
		}
	case info.Has(InfoInexact):
		if _, err := o.refresh(false); err != nil {
			r.logger.Warn("re-read after inexact write failed", "name", o.Name(), "error", err)
		}
	}
}

func (r *Registry) fireButton(o *Option, pressed bool) {
	r.logger.Debug("button", "name", o.Name(), "pressed", pressed)
	for _, fn := range r.buttonFuncs {
		fn(o.Name(), o.Title(), pressed)
	}
	r.emit(Event{Kind: EventButton, Option: o.Name(), Value: EncodeBool(pressed)})
}

func (r *Registry) emit(e Event) {
	for _, fn := range r.eventFuncs {
		fn(e)
	}
}
