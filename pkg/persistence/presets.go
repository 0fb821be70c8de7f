package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"
)

// StateVersion is the current version of the preset file format.
const StateVersion = 1

// ErrPresetNotFound is returned when a device has no preset of that name.
var ErrPresetNotFound = errors.New("persistence: preset not found")

// PresetState is the content of a preset file.
type PresetState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// Devices maps a device name to its presets by preset name.
	Devices map[string]map[string]Preset `json:"devices,omitempty"`
}

// Preset is one saved set of option values.
type Preset struct {
	// SavedAt is when the preset was taken.
	SavedAt time.Time `json:"saved_at"`

	// Values maps option names to their string values.
	Values map[string]string `json:"values"`
}

// PresetStore manages persistence of presets to a JSON file.
type PresetStore struct {
	mu   sync.Mutex
	path string
}

// NewPresetStore creates a new preset store.
func NewPresetStore(path string) *PresetStore {
	return &PresetStore{path: path}
}

// Path returns the file the store writes.
func (s *PresetStore) Path() string {
	return s.path
}

// Save persists the state to disk.
func (s *PresetStore) Save(state *PresetState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(state)
}

// Load reads the state from disk.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *PresetStore) Load() (*PresetState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Clear removes the state file.
func (s *PresetStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Put stores values as the named preset of device, replacing any preset
// of the same name.
func (s *PresetStore) Put(device, name string, values map[string]string) error {
	if name == "" {
		return fmt.Errorf("persistence: empty preset name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	if state == nil {
		state = &PresetState{}
	}
	if state.Devices == nil {
		state.Devices = make(map[string]map[string]Preset)
	}
	presets := state.Devices[device]
	if presets == nil {
		presets = make(map[string]Preset)
		state.Devices[device] = presets
	}

	now := time.Now()
	presets[name] = Preset{SavedAt: now, Values: maps.Clone(values)}
	state.SavedAt = now
	return s.save(state)
}

// Get returns the values of the named preset of device.
func (s *PresetStore) Get(device, name string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}
	if state != nil {
		if p, ok := state.Devices[device][name]; ok {
			return maps.Clone(p.Values), nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrPresetNotFound, device, name)
}

// Names returns the sorted preset names of device.
func (s *PresetStore) Names(device string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil || state == nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(state.Devices[device])), nil
}

// Delete removes the named preset of device.
func (s *PresetStore) Delete(device, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	if state == nil {
		return fmt.Errorf("%w: %s/%s", ErrPresetNotFound, device, name)
	}
	if _, ok := state.Devices[device][name]; !ok {
		return fmt.Errorf("%w: %s/%s", ErrPresetNotFound, device, name)
	}
	delete(state.Devices[device], name)
	if len(state.Devices[device]) == 0 {
		delete(state.Devices, device)
	}
	state.SavedAt = time.Now()
	return s.save(state)
}

func (s *PresetStore) save(state *PresetState) error {
	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	state.Version = StateVersion
	if state.SavedAt.IsZero() {
		state.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	// Replace the file atomically.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *PresetStore) load() (*PresetState, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &PresetState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}
	if state.Version > StateVersion {
		return nil, fmt.Errorf("persistence: %s has format version %d, newest supported is %d", s.path, state.Version, StateVersion)
	}

	return state, nil
}
