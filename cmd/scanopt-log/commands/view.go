package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/scanopt/scanopt-go/pkg/log"
)

// ViewFilter selects the events printed by the view command.
type ViewFilter struct {
	Category     *log.Category
	Option       string
	FailuresOnly bool
}

func (f ViewFilter) matches(e log.Event) bool {
	if f.Category != nil && e.Category != *f.Category {
		return false
	}
	if f.Option != "" && e.Option != f.Option {
		return false
	}
	if f.FailuresOnly && e.Status == log.StatusOK {
		return false
	}
	return true
}

// formatEvent writes a single event as one line.
func formatEvent(w io.Writer, e log.Event) {
	session := e.SessionID
	if len(session) > 8 {
		session = session[:8]
	}
	fmt.Fprintf(w, "%s [sess:%s] %-10s", e.Timestamp.Format(time.RFC3339Nano), session, e.Category)

	switch e.Category {
	case log.CategoryRead, log.CategoryWrite:
		fmt.Fprintf(w, " %s", e.Option)
		if e.Value != "" || e.Status == log.StatusOK {
			fmt.Fprintf(w, " = %q", e.Value)
		}
	case log.CategoryVisibility:
		fmt.Fprintf(w, " %s -> %s", e.Option, e.Value)
	case log.CategoryButton:
		fmt.Fprintf(w, " %s", e.Option)
		if e.Button != nil {
			state := "released"
			if e.Button.Pressed {
				state = "pressed"
			}
			if e.Button.Label != "" {
				fmt.Fprintf(w, " (%s)", e.Button.Label)
			}
			fmt.Fprintf(w, " %s", state)
		}
	case log.CategoryReload:
		if e.Value != "" {
			fmt.Fprintf(w, " %s options", e.Value)
		}
	case log.CategoryScan:
		if e.Scan != nil {
			fmt.Fprintf(w, " %s", e.Scan.Phase)
			if e.Scan.DPI > 0 {
				fmt.Fprintf(w, " %d dpi", e.Scan.DPI)
			}
			if e.Scan.Preview {
				fmt.Fprint(w, " preview")
			}
			if e.Scan.Cancelled {
				fmt.Fprint(w, " cancelled")
			}
		}
	}

	if e.Status != log.StatusOK {
		fmt.Fprintf(w, " [%s]", e.Status)
		if e.Message != "" {
			fmt.Fprintf(w, " %s", e.Message)
		}
	}
	fmt.Fprintln(w)
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	c, ok := log.ParseCategory(strings.ToUpper(s))
	if !ok {
		return 0, fmt.Errorf("invalid category: %s (must be read, write, button, visibility, reload, or scan)", s)
	}
	return c, nil
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if !filter.matches(event) {
			continue
		}
		formatEvent(output, event)
	}

	return nil
}
