package inspect

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/scanopt/scanopt-go/pkg/option"
	"github.com/scanopt/scanopt-go/pkg/scanner"
)

// Inspector provides inspection of an open device.
type Inspector struct {
	device    *scanner.Device
	formatter *Formatter
}

// NewInspector creates a new Inspector for the given device.
func NewInspector(device *scanner.Device) *Inspector {
	return &Inspector{device: device, formatter: NewFormatter()}
}

// Device returns the underlying device.
func (i *Inspector) Device() *scanner.Device {
	return i.device
}

// Formatter returns the formatter used for text output.
func (i *Inspector) Formatter() *Formatter {
	return i.formatter
}

// DeviceSnapshot is the state of a device at one point in time.
type DeviceSnapshot struct {
	Name    string           `yaml:"name"`
	Vendor  string           `yaml:"vendor"`
	Model   string           `yaml:"model"`
	Type    string           `yaml:"type"`
	Session string           `yaml:"session"`
	Options []OptionSnapshot `yaml:"options"`
}

// OptionSnapshot is the state of one option.
type OptionSnapshot struct {
	Name       string `yaml:"name"`
	Title      string `yaml:"title,omitempty"`
	Type       string `yaml:"type"`
	Value      string `yaml:"value,omitempty"`
	Table      []int  `yaml:"table,omitempty,flow"`
	Unit       string `yaml:"unit,omitempty"`
	Constraint string `yaml:"constraint,omitempty"`
	Visibility string `yaml:"visibility"`
	Caps       string `yaml:"caps"`
}

func snapshotOption(o *option.Option) OptionSnapshot {
	s := OptionSnapshot{
		Name:       o.Name(),
		Title:      o.Title(),
		Type:       o.Type().String(),
		Table:      o.Table(),
		Unit:       o.Descriptor().Unit.String(),
		Constraint: FormatConstraint(o),
		Visibility: o.Visibility().String(),
		Caps:       o.Descriptor().Cap.String(),
	}
	if v, err := o.Read(); err == nil {
		s.Value = v
	}
	return s
}

// Snapshot captures every option of the device. Hidden options are
// included only when includeHidden is set.
func (i *Inspector) Snapshot(includeHidden bool) *DeviceSnapshot {
	info := i.device.Info()
	snap := &DeviceSnapshot{
		Name:    info.Name,
		Vendor:  info.Vendor,
		Model:   info.Model,
		Type:    info.Type,
		Session: i.device.SessionID(),
	}
	i.device.View(func(r *option.Registry) {
		for _, o := range r.Options() {
			if o.Visibility() == option.Hidden && !includeHidden {
				continue
			}
			snap.Options = append(snap.Options, snapshotOption(o))
		}
	})
	return snap
}

// YAML encodes the snapshot.
func (s *DeviceSnapshot) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}

// InspectOption returns the snapshot of one option. The name may be
// abbreviated (see ResolveName).
func (i *Inspector) InspectOption(name string) (*OptionSnapshot, error) {
	var (
		snap *OptionSnapshot
		err  error
	)
	i.device.View(func(r *option.Registry) {
		var full string
		full, err = ResolveName(r.Names(), name)
		if err != nil {
			return
		}
		o, _ := r.Option(full)
		s := snapshotOption(o)
		snap = &s
	})
	return snap, err
}

// Text renders the device header and option table.
func (i *Inspector) Text() string {
	info := i.device.Info()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s %s (%s)\n", info.Name, info.Vendor, info.Model, info.Type))
	i.device.View(func(r *option.Registry) {
		sb.WriteString(i.formatter.FormatOptionTable(i.formatter.Rows(r.Options())))
	})
	return sb.String()
}
