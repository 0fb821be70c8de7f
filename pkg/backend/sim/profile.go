package sim

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/scanopt/scanopt-go/pkg/option"
)

//go:embed profiles/*.yaml
var builtinFS embed.FS

// DefaultProfileName is the built-in profile used when none is given.
const DefaultProfileName = "flatbed"

// Profile describes a simulated scanner.
type Profile struct {
	Name    string       `yaml:"name"`
	Vendor  string       `yaml:"vendor"`
	Model   string       `yaml:"model"`
	Type    string       `yaml:"type"`
	Options []OptionSpec `yaml:"options"`
}

// OptionSpec describes one backend option in native terms.
type OptionSpec struct {
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`

	// Type is one of bool, int, fixed, string, button, group.
	Type string `yaml:"type"`

	// Unit is one of none, pixel, bit, mm, dpi, percent, microsecond.
	Unit string `yaml:"unit,omitempty"`

	// Length is the element count of array options (gamma tables).
	Length int `yaml:"length,omitempty"`

	// Size overrides the computed byte size.
	Size int `yaml:"size,omitempty"`

	// Caps lists capability names. Empty means soft_select + soft_detect.
	Caps []string `yaml:"caps,omitempty"`

	Range   *option.Range `yaml:"range,omitempty"`
	Words   []float64     `yaml:"words,omitempty"`
	Strings []string      `yaml:"strings,omitempty"`

	Default any `yaml:"default,omitempty"`

	// Quantum makes the device store the nearest multiple of this value
	// and report the write as inexact.
	Quantum float64 `yaml:"quantum,omitempty"`

	// ActiveWhen lists conditions that must all hold for the option to be
	// active.
	ActiveWhen []Condition `yaml:"active_when,omitempty"`

	// RangesBy switches the range by the value of another option.
	RangesBy *RangeSwitch `yaml:"ranges_by,omitempty"`
}

// Condition holds when the named option has one of Values (string form).
type Condition struct {
	Option string   `yaml:"option"`
	Values []string `yaml:"values"`
}

// RangeSwitch selects a range by the string value of another option.
type RangeSwitch struct {
	Option string                  `yaml:"option"`
	Ranges map[string]option.Range `yaml:"ranges"`
}

// ParseProfile decodes a YAML profile.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidProfile)
	}
	return &p, nil
}

// LoadProfile reads a YAML profile from path.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseProfile(data)
}

// Builtin returns the embedded profile with the given name.
func Builtin(name string) (*Profile, error) {
	data, err := builtinFS.ReadFile(path.Join("profiles", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: no built-in profile %q", ErrInvalidProfile, name)
	}
	return ParseProfile(data)
}

// BuiltinNames lists the embedded profiles.
func BuiltinNames() []string {
	entries, _ := builtinFS.ReadDir("profiles")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// DefaultProfile returns the embedded flatbed profile.
func DefaultProfile() *Profile {
	p, err := Builtin(DefaultProfileName)
	if err != nil {
		panic(fmt.Sprintf("sim: default profile: %v", err))
	}
	return p
}

// Marshal encodes the profile as YAML.
func (p *Profile) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}

var valueTypes = map[string]option.ValueType{
	"bool":   option.ValueBool,
	"int":    option.ValueInt,
	"fixed":  option.ValueFixed,
	"string": option.ValueString,
	"button": option.ValueButton,
	"group":  option.ValueGroup,
}

var units = map[string]option.Unit{
	"":            option.UnitNone,
	"none":        option.UnitNone,
	"pixel":       option.UnitPixel,
	"bit":         option.UnitBit,
	"mm":          option.UnitMM,
	"dpi":         option.UnitDPI,
	"percent":     option.UnitPercent,
	"microsecond": option.UnitMicrosecond,
}

var capNames = map[string]option.Capability{
	"soft_select": option.CapSoftSelect,
	"hard_select": option.CapHardSelect,
	"soft_detect": option.CapSoftDetect,
	"emulated":    option.CapEmulated,
	"automatic":   option.CapAutomatic,
	"inactive":    option.CapInactive,
	"advanced":    option.CapAdvanced,
}
