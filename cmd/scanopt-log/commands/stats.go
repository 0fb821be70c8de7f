package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/scanopt/scanopt-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	EventsByStatus   map[log.Status]int
	Options          map[string]*OptionStats
	Sessions         map[string]*SessionStats
	Failures         int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// OptionStats counts accesses to a single option.
type OptionStats struct {
	Reads    int
	Writes   int
	Failures int
}

// SessionStats holds statistics for a single device session.
type SessionStats struct {
	FirstSeen    time.Time
	LastSeen     time.Time
	Events       int
	DeviceName   string
	ButtonPushes int
	Scans        int
}

// CollectStats reads the whole log file and aggregates it.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		EventsByStatus:   make(map[log.Status]int),
		Options:          make(map[string]*OptionStats),
		Sessions:         make(map[string]*SessionStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++
		stats.EventsByStatus[event.Status]++
		if event.Status != log.StatusOK {
			stats.Failures++
		}

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		if event.Option != "" && (event.Category == log.CategoryRead || event.Category == log.CategoryWrite) {
			opt, ok := stats.Options[event.Option]
			if !ok {
				opt = &OptionStats{}
				stats.Options[event.Option] = opt
			}
			if event.Category == log.CategoryRead {
				opt.Reads++
			} else {
				opt.Writes++
			}
			if event.Status != log.StatusOK {
				opt.Failures++
			}
		}

		sess, ok := stats.Sessions[event.SessionID]
		if !ok {
			sess = &SessionStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
			}
			stats.Sessions[event.SessionID] = sess
		}
		sess.Events++
		if event.Timestamp.Before(sess.FirstSeen) {
			sess.FirstSeen = event.Timestamp
		}
		if event.Timestamp.After(sess.LastSeen) {
			sess.LastSeen = event.Timestamp
		}
		if event.DeviceName != "" && sess.DeviceName == "" {
			sess.DeviceName = event.DeviceName
		}
		if event.Button != nil && event.Button.Pressed {
			sess.ButtonPushes++
		}
		if event.Scan != nil && event.Scan.Phase == log.ScanStarted {
			sess.Scans++
		}
	}

	return stats, nil
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Scanner Option Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for c := log.CategoryRead; c <= log.CategoryScan; c++ {
		if count := stats.EventsByCategory[c]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", c.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Status:")
	for s := log.StatusOK; s <= log.StatusFailed; s++ {
		if count := stats.EventsByStatus[s]; count > 0 {
			fmt.Fprintf(w, "  %-16s %d\n", s.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.Options) > 0 {
		names := make([]string, 0, len(stats.Options))
		for name := range stats.Options {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintf(w, "Options: %d\n", len(names))
		for _, name := range names {
			o := stats.Options[name]
			fmt.Fprintf(w, "  %-20s %d reads, %d writes", name, o.Reads, o.Writes)
			if o.Failures > 0 {
				fmt.Fprintf(w, ", %d failed", o.Failures)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) > 0 {
		type sessionInfo struct {
			id    string
			stats *SessionStats
		}
		sessions := make([]sessionInfo, 0, len(stats.Sessions))
		for id, ss := range stats.Sessions {
			sessions = append(sessions, sessionInfo{id, ss})
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, s := range sessions {
			duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
			shortID := s.id
			if len(shortID) > 8 {
				shortID = shortID[:8]
			}
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortID, s.stats.Events, duration)
			if s.stats.DeviceName != "" {
				fmt.Fprintf(w, "           Device: %s\n", s.stats.DeviceName)
			}
			if s.stats.Scans > 0 {
				fmt.Fprintf(w, "           Scans: %d\n", s.stats.Scans)
			}
			if s.stats.ButtonPushes > 0 {
				fmt.Fprintf(w, "           Button presses: %d\n", s.stats.ButtonPushes)
			}
		}
	}

	if stats.Failures > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Failures: %d\n", stats.Failures)
	}
}
