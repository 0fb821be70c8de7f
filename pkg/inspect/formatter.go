package inspect

import (
	"fmt"
	"strings"

	"github.com/scanopt/scanopt-go/pkg/option"
)

// Formatter formats inspection output.
type Formatter struct {
	// ShowMetadata includes type, constraint, and capability columns.
	ShowMetadata bool

	// ShowHidden includes options that are currently hidden.
	ShowHidden bool

	// IndentWidth is the number of spaces per indent level
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowMetadata: true,
		IndentWidth:  2,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	indent := strings.Repeat(" ", depth*width)
	return indent + content
}

// FormatValue formats the current value of o for display, with its unit.
func (f *Formatter) FormatValue(o *option.Option) string {
	switch o.Type() {
	case option.TypeButton:
		return "<button>"
	case option.TypeGamma:
		if t := o.Table(); t != nil {
			return fmt.Sprintf("<table[%d]>", len(t))
		}
		return "<table>"
	}

	v, err := o.Read()
	if err != nil {
		return "-"
	}
	if o.Type() == option.TypeEntry {
		return fmt.Sprintf("%q", v)
	}
	if unit := o.Descriptor().Unit.String(); unit != "" {
		return v + " " + unit
	}
	return v
}

// FormatConstraint describes the accepted values of o.
func FormatConstraint(o *option.Option) string {
	d := o.Descriptor()
	switch o.Type() {
	case option.TypeCheckBox:
		return "true|false"
	case option.TypeCombo:
		return strings.Join(o.Choices(), "|")
	case option.TypeEntry:
		if d.MaxLen > 0 {
			return fmt.Sprintf("max %d chars", d.MaxLen)
		}
		return "text"
	case option.TypeGamma:
		return fmt.Sprintf("%d entries %d..%d", d.Length(), d.MinTableValue(), d.MaxTableValue())
	case option.TypeButton:
		return ""
	}

	r, ok := o.Range()
	if !ok {
		return "any"
	}
	s := option.EncodeFloat(r.Min) + ".." + option.EncodeFloat(r.Max)
	if r.Step > 0 {
		s += " step " + option.EncodeFloat(r.Step)
	}
	return s
}

// OptionRow represents a formatted option for display.
type OptionRow struct {
	Name       string
	Title      string
	Type       string
	Value      string
	Constraint string
	Visibility string
	Caps       string
}

// Row builds the display row of o.
func (f *Formatter) Row(o *option.Option) OptionRow {
	return OptionRow{
		Name:       o.Name(),
		Title:      o.Title(),
		Type:       o.Type().String(),
		Value:      f.FormatValue(o),
		Constraint: FormatConstraint(o),
		Visibility: o.Visibility().String(),
		Caps:       o.Descriptor().Cap.String(),
	}
}

// Rows builds display rows for opts, leaving out hidden options unless
// ShowHidden is set.
func (f *Formatter) Rows(opts []*option.Option) []OptionRow {
	rows := make([]OptionRow, 0, len(opts))
	for _, o := range opts {
		if o.Visibility() == option.Hidden && !f.ShowHidden {
			continue
		}
		rows = append(rows, f.Row(o))
	}
	return rows
}

// FormatOptionTable formats a list of options as a table.
func (f *Formatter) FormatOptionTable(rows []OptionRow) string {
	if len(rows) == 0 {
		return "  (no options)"
	}

	nameWidth := 0
	for _, row := range rows {
		nameWidth = max(nameWidth, len(row.Name))
	}

	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(f.Indent(1, fmt.Sprintf("%-*s  %s", nameWidth, row.Name, row.Value)))
		if f.ShowMetadata {
			sb.WriteString(fmt.Sprintf("  (%s, %s", row.Type, row.Caps))
			if row.Constraint != "" {
				sb.WriteString(", " + row.Constraint)
			}
			if row.Visibility != option.Shown.String() {
				sb.WriteString(", " + row.Visibility)
			}
			sb.WriteString(")")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
