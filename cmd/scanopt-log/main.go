// Command scanopt-log is a tool for viewing and analyzing scanner option
// event logs.
//
// Log files are written by scanopt when it runs with the -event-log flag.
// Every option read and write, button transition, visibility change, reload,
// and scan start or end is one CBOR record.
//
// Usage:
//
//	scanopt-log <command> [flags] <file.olog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSON or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	scanopt-log view session.olog
//
//	# View only rejected writes
//	scanopt-log view --category write --failures session.olog
//
//	# Export to JSONL
//	scanopt-log export --format jsonl session.olog
//
//	# Keep one device's resolution history in a new file
//	scanopt-log filter --device sim:flatbed --option resolution -o resolution.olog session.olog
//
//	# Show statistics
//	scanopt-log stats session.olog
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/scanopt/scanopt-go/cmd/scanopt-log/commands"
)

// subcommand binds a name to its flag set. bind registers the flags and
// returns the action to run on the log file once flags are parsed.
type subcommand struct {
	name    string
	summary string
	bind    func(fs *flag.FlagSet) func(path string) error
}

var subcommands = []subcommand{
	{"view", "View log file in human-readable format", bindView},
	{"export", "Export log file to JSON or CSV format", bindExport},
	{"filter", "Filter log file and write to new file", bindFilter},
	{"stats", "Show statistics about the log file", bindStats},
}

var errUsage = errors.New("usage")

func usage() string {
	var sb strings.Builder
	sb.WriteString("scanopt-log - Scanner Option Event Log Analyzer\n\n")
	sb.WriteString("Usage:\n  scanopt-log <command> [flags] <file.olog>\n\nCommands:\n")
	for _, c := range subcommands {
		fmt.Fprintf(&sb, "  %-8s %s\n", c.name, c.summary)
	}
	sb.WriteString("\nUse \"scanopt-log <command> -help\" for more information about a command.\n")
	return sb.String()
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage())
		os.Exit(1)
	}

	name := os.Args[1]
	if name == "-h" || name == "-help" || name == "--help" || name == "help" {
		fmt.Print(usage())
		return
	}

	for _, c := range subcommands {
		if c.name != name {
			continue
		}
		if err := run(c, os.Args[2:]); err != nil {
			if !errors.Is(err, errUsage) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			os.Exit(1)
		}
		return
	}

	fmt.Fprintf(os.Stderr, "Unknown command: %s\n", name)
	fmt.Fprint(os.Stderr, usage())
	os.Exit(1)
}

func run(c subcommand, args []string) error {
	fs := flag.NewFlagSet(c.name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "scanopt-log %s - %s\n\nUsage:\n  scanopt-log %s [flags] <file.olog>\n\nFlags:\n",
			c.name, c.summary, c.name)
		fs.PrintDefaults()
	}
	action := c.bind(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return errUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(fs.Output(), "Error: log file path required")
		fs.Usage()
		return errUsage
	}
	return action(fs.Arg(0))
}

func bindView(fs *flag.FlagSet) func(string) error {
	category := fs.String("category", "", "Filter by category (read, write, button, visibility, reload, scan)")
	optName := fs.String("option", "", "Filter by option name")
	failures := fs.Bool("failures", false, "Show only failed accesses")

	return func(path string) error {
		filter := commands.ViewFilter{Option: *optName, FailuresOnly: *failures}
		if *category != "" {
			c, err := commands.ParseCategoryFlag(*category)
			if err != nil {
				return err
			}
			filter.Category = &c
		}
		return commands.RunView(path, filter, os.Stdout)
	}
}

func bindExport(fs *flag.FlagSet) func(string) error {
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	return func(path string) error {
		return commands.RunExport(path, *format, *output)
	}
}

func bindFilter(fs *flag.FlagSet) func(string) error {
	var opts commands.FilterOptions
	fs.StringVar(&opts.Output, "o", "", "Output file (required)")
	fs.StringVar(&opts.SessionID, "session", "", "Filter by session ID")
	fs.StringVar(&opts.DeviceName, "device", "", "Filter by device name")
	fs.StringVar(&opts.Option, "option", "", "Filter by option name")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (read, write, button, visibility, reload, scan)")
	fs.BoolVar(&opts.FailuresOnly, "failures", false, "Keep only failed accesses")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")

	return func(path string) error {
		if opts.Output == "" {
			return fmt.Errorf("output file (-o) required")
		}
		n, err := commands.RunFilter(path, opts)
		if err != nil {
			return err
		}
		fmt.Printf("Filtered %d events to %s\n", n, opts.Output)
		return nil
	}
}

func bindStats(*flag.FlagSet) func(string) error {
	return func(path string) error {
		return commands.RunStats(path, os.Stdout)
	}
}
