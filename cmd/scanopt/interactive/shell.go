// Package interactive provides the interactive command-line interface
// for scanopt.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/scanopt/scanopt-go/pkg/inspect"
	"github.com/scanopt/scanopt-go/pkg/option"
	"github.com/scanopt/scanopt-go/pkg/persistence"
	"github.com/scanopt/scanopt-go/pkg/scanner"
)

// ShellConfig provides configuration information to the shell.
// This interface allows the interactive layer to access settings
// without depending on the main package's config structure.
type ShellConfig interface {
	// ProfileName returns the simulated scanner profile in use.
	ProfileName() string

	// EventLogPath returns the event log file, or "" when disabled.
	EventLogPath() string
}

// ButtonPresser simulates physical button presses on the device.
type ButtonPresser interface {
	Press(name string, pressed bool) error
}

// Shell handles interactive mode for scanopt.
type Shell struct {
	dev       *scanner.Device
	config    ShellConfig
	presser   ButtonPresser
	presets   *persistence.PresetStore
	inspector *inspect.Inspector
	formatter *inspect.Formatter
	out       io.Writer
	rl        *readline.Instance
}

// New creates a new interactive shell. presser may be nil when the
// device has no simulated buttons.
func New(dev *scanner.Device, cfg ShellConfig, presser ButtonPresser) (*Shell, error) {
	s := newShell(dev, cfg, presser, nil)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "scanopt> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    s.completer(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	s.rl = rl
	s.out = rl.Stdout()
	return s, nil
}

func newShell(dev *scanner.Device, cfg ShellConfig, presser ButtonPresser, out io.Writer) *Shell {
	insp := inspect.NewInspector(dev)
	return &Shell{
		dev:       dev,
		config:    cfg,
		presser:   presser,
		inspector: insp,
		formatter: insp.Formatter(),
		out:       out,
	}
}

// SetPresetStore enables the save, load, and presets commands.
func (s *Shell) SetPresetStore(store *persistence.PresetStore) {
	s.presets = store
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
func (s *Shell) Stderr() io.Writer {
	return s.rl.Stderr()
}

func (s *Shell) completer() *readline.PrefixCompleter {
	names := readline.PcItemDynamic(func(string) []string { return s.dev.Names() })
	return readline.NewPrefixCompleter(
		readline.PcItem("list", readline.PcItem("all")),
		readline.PcItem("get", names),
		readline.PcItem("set", names),
		readline.PcItem("getall"),
		readline.PcItem("setall"),
		readline.PcItem("gamma", names),
		readline.PcItem("press", names),
		readline.PcItem("select"),
		readline.PcItem("preview"),
		readline.PcItem("scan", readline.PcItem("preview")),
		readline.PcItem("reload"),
		readline.PcItem("dump", readline.PcItem("yaml")),
		readline.PcItem("save"),
		readline.PcItem("load", readline.PcItemDynamic(s.presetNames)),
		readline.PcItem("presets"),
		readline.PcItem("info"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if !s.Exec(line) {
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}
	}
}

// Exec runs one command line. It reports false when the shell should exit.
func (s *Shell) Exec(line string) bool {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "list", "ls", "l":
		s.cmdList(args)

	case "get", "g":
		s.cmdGet(args)

	case "set", "s":
		s.cmdSet(args)

	case "getall":
		s.cmdGetAll()

	case "setall":
		s.cmdSetAll(args)

	case "gamma":
		s.cmdGamma(args)

	case "press":
		s.cmdPress(args)

	case "select":
		s.cmdSelect(args)

	case "preview":
		s.cmdPreview(args)

	case "scan":
		s.cmdScan(args)

	case "reload":
		s.cmdReload()

	case "dump":
		s.cmdDump(args)

	case "info":
		s.cmdInfo()

	case "save":
		s.cmdSave(args)

	case "load":
		s.cmdLoad(args)

	case "presets":
		s.cmdPresets()

	case "quit", "exit", "q":
		return false

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Scanner Option Commands:
  Options:
    list [all]               - List options (all includes hidden ones)
    get <name>               - Read an option value
    set <name> <value>       - Write an option value
    getall                   - Read every readable option
    setall <name=value>...   - Write several options in one batch
    gamma <name> <b:c:g>     - Write a gamma table from brightness:contrast:gamma
    reload                   - Reload the option set from the device

  Device:
    press <button>           - Simulate a hardware button press
    select <x1> <y1> <x2> <y2> - Set the scan area in mm (equal corners: full area)
    preview [dpi]            - Show or set the preview resolution
    scan [preview]           - Run an empty acquisition cycle
    dump [yaml]              - Dump all option state
    info                     - Show device information

  Presets:
    save <preset>            - Save the current option values
    load <preset>            - Apply saved option values
    presets                  - List saved presets

  General:
    help                     - Show this help
    exit                     - Exit the shell

  Option names may be abbreviated to any unique prefix.`)
}

// resolve expands an abbreviated option name.
func (s *Shell) resolve(name string) (string, bool) {
	full, err := inspect.ResolveName(s.dev.Names(), name)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return "", false
	}
	return full, true
}

func (s *Shell) cmdList(args []string) {
	f := *s.formatter
	f.ShowHidden = len(args) > 0 && args[0] == "all"

	s.dev.View(func(r *option.Registry) {
		fmt.Fprint(s.out, f.FormatOptionTable(f.Rows(r.Options())))
	})
}

func (s *Shell) cmdGet(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: get <name>")
		return
	}
	name, ok := s.resolve(args[0])
	if !ok {
		return
	}
	value, err := s.dev.Get(name)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	snap, err := s.inspector.InspectOption(name)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if snap.Unit != "" {
		value += " " + snap.Unit
	}
	fmt.Fprintf(s.out, "%s = %s  [%s]\n", name, value, snap.Constraint)
}

func (s *Shell) cmdSet(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: set <name> <value>")
		return
	}
	name, ok := s.resolve(args[0])
	if !ok {
		return
	}
	// Entry values may contain spaces.
	value := strings.Join(args[1:], " ")
	if err := s.dev.Set(name, value); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if v, err := s.dev.Get(name); err == nil {
		fmt.Fprintf(s.out, "%s = %s\n", name, v)
	} else {
		fmt.Fprintf(s.out, "%s written\n", name)
	}
}

func (s *Shell) cmdGetAll() {
	values := s.dev.GetOptVals()
	for _, name := range slices.Sorted(maps.Keys(values)) {
		fmt.Fprintf(s.out, "%s=%s\n", name, values[name])
	}
}

func (s *Shell) cmdSetAll(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "Usage: setall <name=value>...")
		return
	}
	values, err := inspect.ParseAssignments(args)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	n := s.dev.SetOptVals(values)
	fmt.Fprintf(s.out, "Applied %d of %d values\n", n, len(values))
}

func (s *Shell) cmdGamma(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "Usage: gamma <name> <brightness:contrast:gamma>")
		return
	}
	name, ok := s.resolve(args[0])
	if !ok {
		return
	}
	triple, err := option.DecodeTriple(args[1])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if err := s.dev.Set(name, option.EncodeTriple(triple)); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%s set from %s\n", name, option.EncodeTriple(triple))
}

func (s *Shell) cmdPress(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: press <button>")
		return
	}
	if s.presser == nil {
		fmt.Fprintln(s.out, "This device has no simulated buttons")
		return
	}
	name, ok := s.resolve(args[0])
	if !ok {
		return
	}
	for _, pressed := range []bool{true, false} {
		if err := s.presser.Press(name, pressed); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		s.dev.PollButtons()
	}
}

func (s *Shell) cmdSelect(args []string) {
	if len(args) != 4 {
		fmt.Fprintln(s.out, "Usage: select <x1> <y1> <x2> <y2>")
		return
	}
	var v [4]float64
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			fmt.Fprintf(s.out, "Invalid coordinate: %s\n", a)
			return
		}
		v[i] = f
	}
	err := s.dev.SetSelection(scanner.Point{X: v[0], Y: v[1]}, scanner.Point{X: v[2], Y: v[3]})
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	values := s.dev.GetOptVals()
	fmt.Fprintf(s.out, "Selection: (%s, %s) - (%s, %s)\n",
		values[scanner.OptTopLeftX], values[scanner.OptTopLeftY],
		values[scanner.OptBottomRightX], values[scanner.OptBottomRightY])
}

func (s *Shell) cmdPreview(args []string) {
	if len(args) > 1 {
		fmt.Fprintln(s.out, "Usage: preview [dpi]")
		return
	}
	if len(args) == 1 {
		dpi, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			fmt.Fprintf(s.out, "Invalid resolution: %s\n", args[0])
			return
		}
		if err := s.dev.SetPreviewResolution(dpi); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
	}
	fmt.Fprintf(s.out, "Preview resolution: %s dpi\n", option.EncodeFloat(s.dev.PreviewResolution()))
}

func (s *Shell) cmdScan(args []string) {
	preview := len(args) > 0 && args[0] == "preview"
	if err := s.dev.BeginScan(preview); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	dpi := s.dev.CurrentDPI()
	s.dev.EndScan(false)

	kind := "Scan"
	if preview {
		kind = "Preview scan"
	}
	fmt.Fprintf(s.out, "%s at %s dpi\n", kind, option.EncodeFloat(dpi))
}

func (s *Shell) cmdReload() {
	if err := s.dev.Reload(); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Reloaded %d options\n", len(s.dev.Names()))
}

func (s *Shell) cmdDump(args []string) {
	if len(args) > 0 && args[0] == "yaml" {
		data, err := s.inspector.Snapshot(true).YAML()
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		fmt.Fprint(s.out, string(data))
		return
	}
	fmt.Fprint(s.out, s.inspector.Text())
}

func (s *Shell) cmdInfo() {
	info := s.dev.Info()
	fmt.Fprintf(s.out, "Device:   %s\n", info.Name)
	fmt.Fprintf(s.out, "Vendor:   %s\n", info.Vendor)
	fmt.Fprintf(s.out, "Model:    %s\n", info.Model)
	fmt.Fprintf(s.out, "Type:     %s\n", info.Type)
	fmt.Fprintf(s.out, "Session:  %s\n", s.dev.SessionID())
	if s.config != nil {
		fmt.Fprintf(s.out, "Profile:  %s\n", s.config.ProfileName())
		if path := s.config.EventLogPath(); path != "" {
			fmt.Fprintf(s.out, "Event log: %s\n", path)
		}
	}
	fmt.Fprintf(s.out, "Options:  %d\n", len(s.dev.Names()))
	fmt.Fprintf(s.out, "Resolution: %s dpi\n", option.EncodeFloat(s.dev.CurrentDPI()))
	fmt.Fprintf(s.out, "Scan area:  %s x %s mm\n",
		option.EncodeFloat(s.dev.ScanAreaWidth()), option.EncodeFloat(s.dev.ScanAreaHeight()))
}

func (s *Shell) presetNames(string) []string {
	if s.presets == nil {
		return nil
	}
	names, _ := s.presets.Names(s.dev.Name())
	return names
}

func (s *Shell) cmdSave(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: save <preset>")
		return
	}
	if s.presets == nil {
		fmt.Fprintln(s.out, "No preset file configured (use -state-file)")
		return
	}
	values := s.dev.GetOptVals()
	if err := s.presets.Put(s.dev.Name(), args[0], values); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Saved %d values as %s\n", len(values), args[0])
}

func (s *Shell) cmdLoad(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: load <preset>")
		return
	}
	if s.presets == nil {
		fmt.Fprintln(s.out, "No preset file configured (use -state-file)")
		return
	}
	values, err := s.presets.Get(s.dev.Name(), args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	n := s.dev.SetOptVals(values)
	fmt.Fprintf(s.out, "Applied %d of %d values from %s\n", n, len(values), args[0])
}

func (s *Shell) cmdPresets() {
	if s.presets == nil {
		fmt.Fprintln(s.out, "No preset file configured (use -state-file)")
		return
	}
	names, err := s.presets.Names(s.dev.Name())
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if len(names) == 0 {
		fmt.Fprintln(s.out, "No presets saved")
		return
	}
	for _, n := range names {
		fmt.Fprintf(s.out, "  %s\n", n)
	}
}
