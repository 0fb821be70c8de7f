// Command scanopt opens a scanner and inspects or changes its options.
//
// The scanner is simulated from a YAML profile; network scanners can be
// listed with -discover.
//
// Usage:
//
//	scanopt [flags]
//
// Flags:
//
//	-config string           Configuration file path (YAML)
//	-profile string          Built-in profile name or profile file (default "flatbed")
//	-log-level string        Log level: debug, info, warn, error (default "info")
//	-event-log string        File path for option event logging (CBOR format)
//	-preview-dpi float       Preview resolution in dpi (default 100)
//	-get name                Print an option value (repeatable)
//	-set name=value          Set an option (repeatable)
//	-dump string             Dump all options: text, yaml
//	-state-file string       Preset file (JSON)
//	-preset name             Apply a saved preset after opening
//	-save-preset name        Save the resulting option values as a preset
//	-interactive             Enable interactive command mode
//	-discover                Browse the network for eSCL scanners and exit
//	-discover-timeout dur    How long to browse (default 5s)
//	-min-version string      Only list scanners advertising this eSCL version or newer
//	-convert file            Convert a raw frame to an image file and exit
//
// Examples:
//
//	# Show every option of the default flatbed
//	scanopt
//
//	# Switch to gray and read back the resolution
//	scanopt -set mode=Gray -set resolution=150 -get resolution
//
//	# Keep an event log of an interactive session
//	scanopt -profile sheetfed -event-log session.olog -interactive
//
//	# Save a preset and use it later
//	scanopt -state-file ~/.scanopt.json -set mode=Gray -save-preset docs
//	scanopt -state-file ~/.scanopt.json -preset docs -dump text
//
//	# List network scanners
//	scanopt -discover -discover-timeout 3s
//
//	# Turn a raw 8-bit gray frame into a PNG
//	scanopt -convert frame.raw -width 850 -height 1100 -format gray8 -o frame.png
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/disintegration/imaging"

	"github.com/scanopt/scanopt-go/cmd/scanopt/interactive"
	"github.com/scanopt/scanopt-go/pkg/backend/sim"
	"github.com/scanopt/scanopt-go/pkg/discovery"
	"github.com/scanopt/scanopt-go/pkg/frame"
	"github.com/scanopt/scanopt-go/pkg/inspect"
	scanlog "github.com/scanopt/scanopt-go/pkg/log"
	"github.com/scanopt/scanopt-go/pkg/persistence"
	"github.com/scanopt/scanopt-go/pkg/scanner"
	"github.com/scanopt/scanopt-go/pkg/version"
)

// ProfileName implements interactive.ShellConfig.
func (c *Config) ProfileName() string {
	return c.Profile
}

// EventLogPath implements interactive.ShellConfig.
func (c *Config) EventLogPath() string {
	return c.EventLog
}

func main() {
	config, err := parseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := validateConfig(config); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	applyDefaults(config)

	logger := setupLogging(config.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	switch {
	case config.Discover:
		err = runDiscover(ctx, config, logger)
	case config.Convert != "":
		err = runConvert(config)
	default:
		err = runDevice(ctx, cancel, config, logger)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// setupLogging configures the standard logger and returns the structured
// logger handed to the library packages. Both write through log's output.
func setupLogging(level string) *slog.Logger {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	lvl := slog.LevelInfo
	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
		lvl = slog.LevelDebug
	case "warn":
		log.SetFlags(log.Ltime)
		lvl = slog.LevelWarn
	case "error":
		log.SetFlags(log.Ltime)
		lvl = slog.LevelError
	}
	slog.SetLogLoggerLevel(lvl)
	return slog.Default()
}

func runDevice(ctx context.Context, cancel context.CancelFunc, config *Config, logger *slog.Logger) error {
	profile, err := loadProfile(config.Profile)
	if err != nil {
		return err
	}
	backend, err := sim.New(profile)
	if err != nil {
		return err
	}

	devConfig := scanner.DefaultConfig()
	devConfig.Logger = logger
	devConfig.DefaultPreviewDPI = config.PreviewDPI

	var eventLoggers []scanlog.Logger
	if config.EventLog != "" {
		fileLogger, err := scanlog.NewFileLogger(config.EventLog)
		if err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
		defer fileLogger.Close()
		eventLoggers = append(eventLoggers, fileLogger)
		log.Printf("Event logging to %s", config.EventLog)
	}
	if config.LogLevel == "debug" {
		eventLoggers = append(eventLoggers, scanlog.NewSlogAdapter(logger))
	}
	if len(eventLoggers) > 0 {
		devConfig.EventLogger = scanlog.NewMultiLogger(eventLoggers...)
	}

	info := scanner.Info{Name: profile.Name, Vendor: profile.Vendor, Model: profile.Model, Type: profile.Type}
	dev, err := scanner.Open(info, backend, devConfig)
	if err != nil {
		return err
	}
	defer dev.Close()

	log.Printf("Opened %s (%s %s), session %s", dev.Name(), dev.Vendor(), dev.Model(), dev.SessionID())

	dev.OnButtonPressed(func(name, label string, pressed bool) {
		state := "released"
		if pressed {
			state = "pressed"
		}
		log.Printf("[BUTTON] %s (%s) %s", name, label, state)
	})

	var presets *persistence.PresetStore
	if config.StateFile != "" {
		presets = persistence.NewPresetStore(config.StateFile)
	}
	if config.Preset != "" {
		values, err := presets.Get(dev.Name(), config.Preset)
		if err != nil {
			return err
		}
		n := dev.SetOptVals(values)
		log.Printf("Preset %s: applied %d of %d values", config.Preset, n, len(values))
	}

	if len(config.Options) > 0 {
		n := dev.SetOptVals(config.Options)
		if n < len(config.Options) {
			log.Printf("Warning: applied %d of %d option values", n, len(config.Options))
		}
	}

	if config.SavePreset != "" {
		if err := presets.Put(dev.Name(), config.SavePreset, dev.GetOptVals()); err != nil {
			return err
		}
		log.Printf("Saved preset %s to %s", config.SavePreset, presets.Path())
	}

	for _, raw := range config.Get {
		name, err := inspect.ResolveName(dev.Names(), raw)
		if err != nil {
			log.Printf("Warning: %v", err)
			continue
		}
		v, err := dev.Get(name)
		if err != nil {
			log.Printf("Warning: %s: %v", name, err)
			continue
		}
		fmt.Printf("%s=%s\n", name, v)
	}

	insp := inspect.NewInspector(dev)
	switch config.Dump {
	case "text":
		fmt.Print(insp.Text())
	case "yaml":
		data, err := insp.Snapshot(false).YAML()
		if err != nil {
			return err
		}
		os.Stdout.Write(data)
	}

	if !config.Interactive {
		if config.Dump == "" && len(config.Get) == 0 && len(config.Options) == 0 && config.SavePreset == "" {
			fmt.Print(insp.Text())
		}
		return nil
	}

	shell, err := interactive.New(dev, config, backend)
	if err != nil {
		return err
	}
	if presets != nil {
		shell.SetPresetStore(presets)
	}
	// Redirect log output through readline to avoid interfering with input
	log.SetOutput(shell.Stdout())
	go shell.Run(ctx, cancel)

	go func() {
		if err := dev.WatchButtons(ctx, 0); err != nil && ctx.Err() == nil {
			log.Printf("Button watch stopped: %v", err)
		}
	}()

	// Wait for shutdown signal or context cancellation
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
	case <-ctx.Done():
		// Context was cancelled (e.g., by interactive exit command)
	}
	cancel()
	return nil
}

func runDiscover(ctx context.Context, config *Config, logger *slog.Logger) error {
	browserConfig := discovery.DefaultBrowserConfig()
	browserConfig.Interface = config.Interface
	browserConfig.Logger = logger

	browser, err := discovery.NewMDNSBrowser(browserConfig)
	if err != nil {
		return err
	}
	defer browser.Stop()

	log.Printf("Browsing for scanners (%s)...", config.DiscoverTimeout)
	services, err := browser.FindAll(ctx, config.DiscoverTimeout)
	if err != nil {
		return err
	}
	if config.MinVersion != "" {
		keep := discovery.FilterByMinVersion(version.MustParse(config.MinVersion))
		services = slices.DeleteFunc(services, func(svc *discovery.ScannerService) bool {
			return !keep(svc)
		})
	}
	if len(services) == 0 {
		fmt.Println("No scanners found")
		return nil
	}

	fmt.Printf("Found %d scanner(s):\n", len(services))
	for idx, svc := range services {
		info := discovery.ServiceToDeviceInfo(svc)
		fmt.Printf("  %d. %s\n", idx+1, info.Name)
		fmt.Printf("      %s %s (%s)\n", info.Vendor, info.Model, info.Type)
		if svc.Version != "" {
			fmt.Printf("      eSCL %s\n", svc.Version)
		}
		if len(svc.ColorSpaces) > 0 {
			fmt.Printf("      Color spaces: %v\n", svc.ColorSpaces)
		}
	}
	return nil
}

func runConvert(config *Config) error {
	data, err := os.ReadFile(config.Convert)
	if err != nil {
		return err
	}
	f, err := frame.ParseFormat(config.Format)
	if err != nil {
		return err
	}

	img, err := frame.ToImage(data, config.Width, config.Height, f.MinBytesPerLine(config.Width), f)
	if err != nil {
		return err
	}
	if config.Thumb > 0 {
		img, err = frame.Thumbnail(img, config.Thumb, config.Thumb)
		if err != nil {
			return err
		}
	}

	if err := imaging.Save(img, config.Output); err != nil {
		return fmt.Errorf("save %s: %w", config.Output, err)
	}
	b := img.Bounds()
	log.Printf("Wrote %s (%dx%d %s)", config.Output, b.Dx(), b.Dy(), f)
	return nil
}
