package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/scanopt/scanopt-go/pkg/log"
)

// exportRecord is the JSON shape of one event. Enumerations are written by
// name so the output is readable without the CBOR key table.
type exportRecord struct {
	Timestamp time.Time     `json:"timestamp"`
	SessionID string        `json:"session_id"`
	Category  string        `json:"category"`
	Device    string        `json:"device,omitempty"`
	Option    string        `json:"option,omitempty"`
	Value     string        `json:"value,omitempty"`
	Status    string        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Button    *exportButton `json:"button,omitempty"`
	Scan      *exportScan   `json:"scan,omitempty"`
}

type exportButton struct {
	Label   string `json:"label,omitempty"`
	Pressed bool   `json:"pressed"`
}

type exportScan struct {
	Phase     string `json:"phase"`
	DPI       int    `json:"dpi,omitempty"`
	Preview   bool   `json:"preview,omitempty"`
	Cancelled bool   `json:"cancelled,omitempty"`
}

func newExportRecord(e log.Event) exportRecord {
	r := exportRecord{
		Timestamp: e.Timestamp,
		SessionID: e.SessionID,
		Category:  e.Category.String(),
		Device:    e.DeviceName,
		Option:    e.Option,
		Value:     e.Value,
		Status:    e.Status.String(),
		Message:   e.Message,
	}
	if e.Button != nil {
		r.Button = &exportButton{Label: e.Button.Label, Pressed: e.Button.Pressed}
	}
	if e.Scan != nil {
		r.Scan = &exportScan{
			Phase:     e.Scan.Phase.String(),
			DPI:       e.Scan.DPI,
			Preview:   e.Scan.Preview,
			Cancelled: e.Scan.Cancelled,
		}
	}
	return r
}

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string) error {
	if format != "jsonl" && format != "csv" {
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if format == "csv" {
		return exportCSV(reader, w)
	}
	return exportJSONL(reader, w)
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(newExportRecord(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

var csvHeader = []string{"timestamp", "session_id", "category", "device", "option", "value", "status", "message", "detail"}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		row := []string{
			event.Timestamp.Format(time.RFC3339Nano),
			event.SessionID,
			event.Category.String(),
			event.DeviceName,
			event.Option,
			event.Value,
			event.Status.String(),
			event.Message,
			eventDetail(event),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// eventDetail flattens the type-specific payload into one column.
func eventDetail(e log.Event) string {
	switch {
	case e.Button != nil:
		return "pressed=" + strconv.FormatBool(e.Button.Pressed)
	case e.Scan != nil:
		s := e.Scan.Phase.String()
		if e.Scan.DPI > 0 {
			s += " dpi=" + strconv.Itoa(e.Scan.DPI)
		}
		if e.Scan.Preview {
			s += " preview"
		}
		if e.Scan.Cancelled {
			s += " cancelled"
		}
		return s
	default:
		return ""
	}
}
