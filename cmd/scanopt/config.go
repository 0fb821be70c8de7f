package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/scanopt/scanopt-go/pkg/backend/sim"
	"github.com/scanopt/scanopt-go/pkg/frame"
	"github.com/scanopt/scanopt-go/pkg/inspect"
	"github.com/scanopt/scanopt-go/pkg/version"
)

// Config holds the scanopt configuration. Values come from the optional
// YAML file first; flags given on the command line win.
type Config struct {
	ConfigFile  string  `yaml:"-"`
	Profile     string  `yaml:"profile"`
	LogLevel    string  `yaml:"log_level"`
	EventLog    string  `yaml:"event_log"`
	PreviewDPI  float64 `yaml:"preview_dpi"`
	Interactive bool    `yaml:"interactive"`

	// Options are applied in one batch right after the device opens.
	Options map[string]string `yaml:"options"`

	Get  stringList `yaml:"-"`
	Set  stringList `yaml:"-"`
	Dump string     `yaml:"dump"`

	StateFile  string `yaml:"state_file"`
	Preset     string `yaml:"preset"`
	SavePreset string `yaml:"-"`

	Discover        bool          `yaml:"-"`
	DiscoverTimeout time.Duration `yaml:"discover_timeout"`
	Interface       string        `yaml:"interface"`
	MinVersion      string        `yaml:"min_version"`

	Convert string `yaml:"-"`
	Width   int    `yaml:"-"`
	Height  int    `yaml:"-"`
	Format  string `yaml:"-"`
	Output  string `yaml:"-"`
	Thumb   int    `yaml:"-"`
}

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func registerFlags(fs *flag.FlagSet, c *Config) {
	fs.StringVar(&c.ConfigFile, "config", "", "Configuration file path (YAML)")
	fs.StringVar(&c.Profile, "profile", "", "Simulated scanner: built-in name ("+strings.Join(sim.BuiltinNames(), ", ")+") or YAML file")
	fs.StringVar(&c.LogLevel, "log-level", "", "Log level: debug, info, warn, error (default \"info\")")
	fs.StringVar(&c.EventLog, "event-log", "", "File path for option event logging (CBOR format)")
	fs.Float64Var(&c.PreviewDPI, "preview-dpi", 0, "Preview resolution in dpi (default 100)")
	fs.BoolVar(&c.Interactive, "interactive", false, "Enable interactive command mode")

	fs.Var(&c.Get, "get", "Print an option value (repeatable)")
	fs.Var(&c.Set, "set", "Set an option, name=value (repeatable)")
	fs.StringVar(&c.Dump, "dump", "", "Dump all options: text, yaml")

	fs.StringVar(&c.StateFile, "state-file", "", "Preset file (JSON)")
	fs.StringVar(&c.Preset, "preset", "", "Apply a saved preset after opening")
	fs.StringVar(&c.SavePreset, "save-preset", "", "Save the resulting option values as a preset")

	fs.BoolVar(&c.Discover, "discover", false, "Browse the network for eSCL scanners and exit")
	fs.DurationVar(&c.DiscoverTimeout, "discover-timeout", 0, "How long to browse (default 5s)")
	fs.StringVar(&c.Interface, "interface", "", "Network interface to browse on (default: all)")
	fs.StringVar(&c.MinVersion, "min-version", "", "Only list scanners advertising this eSCL version or newer")

	fs.StringVar(&c.Convert, "convert", "", "Convert a raw frame file to PNG/JPEG and exit")
	fs.IntVar(&c.Width, "width", 0, "Raw frame width in pixels")
	fs.IntVar(&c.Height, "height", 0, "Raw frame height in lines")
	fs.StringVar(&c.Format, "format", "rgb8", "Raw frame format: bw, gray8, gray16, rgb8, rgb16")
	fs.StringVar(&c.Output, "o", "", "Output image file (extension selects the encoder)")
	fs.IntVar(&c.Thumb, "thumbnail", 0, "Fit the converted image into a box of this size")
}

// loadConfigFile reads the YAML configuration file.
func loadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &c, nil
}

// mergeConfig fills every setting that was not given as a flag from the
// file configuration.
func mergeConfig(c *Config, file *Config, set map[string]bool) {
	if !set["profile"] && file.Profile != "" {
		c.Profile = file.Profile
	}
	if !set["log-level"] && file.LogLevel != "" {
		c.LogLevel = file.LogLevel
	}
	if !set["event-log"] && file.EventLog != "" {
		c.EventLog = file.EventLog
	}
	if !set["preview-dpi"] && file.PreviewDPI != 0 {
		c.PreviewDPI = file.PreviewDPI
	}
	if !set["interactive"] && file.Interactive {
		c.Interactive = true
	}
	if !set["dump"] && file.Dump != "" {
		c.Dump = file.Dump
	}
	if !set["state-file"] && file.StateFile != "" {
		c.StateFile = file.StateFile
	}
	if !set["preset"] && file.Preset != "" {
		c.Preset = file.Preset
	}
	if !set["discover-timeout"] && file.DiscoverTimeout != 0 {
		c.DiscoverTimeout = file.DiscoverTimeout
	}
	if !set["interface"] && file.Interface != "" {
		c.Interface = file.Interface
	}
	if !set["min-version"] && file.MinVersion != "" {
		c.MinVersion = file.MinVersion
	}
	if len(file.Options) > 0 {
		merged := make(map[string]string, len(file.Options)+len(c.Options))
		for k, v := range file.Options {
			merged[k] = v
		}
		for k, v := range c.Options {
			merged[k] = v
		}
		c.Options = merged
	}
}

// parseConfig parses args into a Config, reading the -config file if given.
func parseConfig(fs *flag.FlagSet, args []string) (*Config, error) {
	var c Config
	registerFlags(fs, &c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if c.ConfigFile != "" {
		file, err := loadConfigFile(c.ConfigFile)
		if err != nil {
			return nil, err
		}
		set := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		mergeConfig(&c, file, set)
	}

	if len(c.Set) > 0 {
		values, err := inspect.ParseAssignments(c.Set)
		if err != nil {
			return nil, err
		}
		if c.Options == nil {
			c.Options = make(map[string]string, len(values))
		}
		for k, v := range values {
			c.Options[k] = v
		}
	}
	return &c, nil
}

func validateConfig(c *Config) error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s", c.LogLevel)
	}
	switch c.Dump {
	case "", "text", "yaml":
	default:
		return fmt.Errorf("unknown dump format: %s (use: text, yaml)", c.Dump)
	}
	if c.PreviewDPI < 0 {
		return fmt.Errorf("preview resolution must not be negative, got %g", c.PreviewDPI)
	}
	if (c.Preset != "" || c.SavePreset != "") && c.StateFile == "" {
		return fmt.Errorf("-preset and -save-preset need a preset file (-state-file)")
	}
	if c.DiscoverTimeout < 0 {
		return fmt.Errorf("discover timeout must not be negative, got %s", c.DiscoverTimeout)
	}
	if c.MinVersion != "" {
		if _, err := version.Parse(c.MinVersion); err != nil {
			return err
		}
	}
	if c.Convert != "" {
		if c.Width <= 0 || c.Height <= 0 {
			return fmt.Errorf("-convert needs -width and -height, got %dx%d", c.Width, c.Height)
		}
		if _, err := frame.ParseFormat(c.Format); err != nil {
			return err
		}
		if c.Output == "" {
			return fmt.Errorf("-convert needs an output file (-o)")
		}
	}
	return nil
}

func applyDefaults(c *Config) {
	if c.Profile == "" {
		c.Profile = sim.DefaultProfileName
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.PreviewDPI == 0 {
		c.PreviewDPI = 100
	}
	if c.DiscoverTimeout == 0 {
		c.DiscoverTimeout = 5 * time.Second
	}
	if c.Format == "" {
		c.Format = frame.RGB8.String()
	}
}

// loadProfile resolves a built-in profile name or a YAML file path.
func loadProfile(nameOrPath string) (*sim.Profile, error) {
	if p, err := sim.Builtin(nameOrPath); err == nil {
		return p, nil
	}
	p, err := sim.LoadProfile(nameOrPath)
	if err != nil {
		return nil, fmt.Errorf("profile %q is neither built in (%s) nor a readable file: %w",
			nameOrPath, strings.Join(sim.BuiltinNames(), ", "), err)
	}
	return p, nil
}
