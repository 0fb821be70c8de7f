package commands

import (
	"fmt"
	"time"

	"github.com/scanopt/scanopt-go/pkg/log"
)

// FilterOptions holds the filter command criteria as given on the command
// line. Empty fields match everything.
type FilterOptions struct {
	Output       string
	SessionID    string
	DeviceName   string
	Option       string
	Category     string
	FailuresOnly bool
	TimeStart    string // RFC3339
	TimeEnd      string // RFC3339
}

func parseTimeFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format: %w", name, err)
	}
	return &t, nil
}

func (o FilterOptions) filter() (log.Filter, error) {
	filter := log.Filter{
		SessionID:    o.SessionID,
		DeviceName:   o.DeviceName,
		Option:       o.Option,
		FailuresOnly: o.FailuresOnly,
	}

	var err error
	if filter.TimeStart, err = parseTimeFlag("time-start", o.TimeStart); err != nil {
		return filter, err
	}
	if filter.TimeEnd, err = parseTimeFlag("time-end", o.TimeEnd); err != nil {
		return filter, err
	}
	if o.Category != "" {
		c, err := ParseCategoryFlag(o.Category)
		if err != nil {
			return filter, err
		}
		filter.Category = &c
	}
	return filter, nil
}

// RunFilter copies the events of path that match opts into opts.Output and
// returns how many were written. The output is appended to if it exists.
func RunFilter(path string, opts FilterOptions) (int, error) {
	filter, err := opts.filter()
	if err != nil {
		return 0, err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	out, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}

	for event, err := range reader.Events() {
		if err != nil {
			out.Close()
			written, _ := out.Counts()
			return written, fmt.Errorf("failed to read event: %w", err)
		}
		out.Log(event)
	}

	if err := out.Close(); err != nil {
		return 0, err
	}
	written, dropped := out.Counts()
	if dropped > 0 {
		return written, fmt.Errorf("%d events could not be written", dropped)
	}
	return written, nil
}
