package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes option events to an slog.Logger.
// Useful for development when you want to see option traffic in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level, or Warn level
// for failed accesses.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("category", event.Category.String()),
		slog.String("status", event.Status.String()),
	}

	if event.DeviceName != "" {
		attrs = append(attrs, slog.String("device", event.DeviceName))
	}
	if event.Option != "" {
		attrs = append(attrs, slog.String("option", event.Option))
	}
	if event.Value != "" {
		attrs = append(attrs, slog.String("value", event.Value))
	}
	if event.Message != "" {
		attrs = append(attrs, slog.String("error", event.Message))
	}

	switch {
	case event.Button != nil:
		attrs = append(attrs,
			slog.String("label", event.Button.Label),
			slog.Bool("pressed", event.Button.Pressed),
		)
	case event.Scan != nil:
		attrs = append(attrs,
			slog.String("phase", event.Scan.Phase.String()),
			slog.Int("dpi", event.Scan.DPI),
		)
		if event.Scan.Preview {
			attrs = append(attrs, slog.Bool("preview", true))
		}
		if event.Scan.Cancelled {
			attrs = append(attrs, slog.Bool("cancelled", true))
		}
	}

	level := slog.LevelDebug
	if event.Status != StatusOK {
		level = slog.LevelWarn
	}
	a.logger.LogAttrs(context.Background(), level, "option", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
