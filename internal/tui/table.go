package tui

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"
)

// Mode selects how output is drawn.
type Mode int

const (
	// ModePlain writes tab-aligned text without escape sequences.
	ModePlain Mode = iota
	// ModeStyled draws bordered, colored tables.
	ModeStyled
)

// DetectMode returns ModeStyled when f is a terminal.
func DetectMode(f *os.File) Mode {
	if f != nil && term.IsTerminal(int(f.Fd())) {
		return ModeStyled
	}
	return ModePlain
}

// style applies st in styled mode and returns s untouched otherwise.
func (m Mode) style(st lipgloss.Style, s string) string {
	if m == ModeStyled {
		return st.Render(s)
	}
	return s
}

// Table is a titled grid of pre-formatted cells.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Render draws the table. Plain mode pads columns with tabwriter and
// underlines the headers; styled mode uses a rounded lipgloss border.
func (t Table) Render(mode Mode) string {
	var b strings.Builder
	if t.Title != "" {
		b.WriteString(mode.style(HeaderStyle, t.Title))
		b.WriteByte('\n')
	}

	if mode == ModeStyled {
		tbl := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(TableBorderStyle).
			Headers(t.Headers...).
			Rows(t.Rows...).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return TableHeaderStyle
				}
				return TableCellStyle
			})
		b.WriteString(tbl.Render())
		b.WriteByte('\n')
		return b.String()
	}

	const tabPadding = 2
	w := tabwriter.NewWriter(&b, 0, 0, tabPadding, ' ', 0)
	underline := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		underline[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(w, strings.Join(t.Headers, "\t"))
	fmt.Fprintln(w, strings.Join(underline, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
	return b.String()
}

// field is one label/value line of a panel.
type field struct {
	label string
	value string
}

// renderPanel draws a titled list of label/value pairs, boxed in styled mode.
func renderPanel(mode Mode, title string, fields []field) string {
	if mode == ModeStyled {
		width := 0
		for _, f := range fields {
			width = max(width, len(f.label))
		}
		var content strings.Builder
		content.WriteString(HeaderStyle.Render(title))
		for _, f := range fields {
			content.WriteString("\n")
			content.WriteString(LabelStyle.Render(fmt.Sprintf("%-*s  ", width+1, f.label+":")))
			content.WriteString(ValueStyle.Render(f.value))
		}
		return BoxStyle.Render(content.String()) + "\n"
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteByte('\n')
	const tabPadding = 2
	w := tabwriter.NewWriter(&b, 0, 0, tabPadding, ' ', 0)
	for _, f := range fields {
		fmt.Fprintf(w, "  %s:\t%s\n", f.label, f.value)
	}
	_ = w.Flush()
	return b.String()
}

// emptyMessage renders the placeholder shown for an empty list.
func emptyMessage(mode Mode, what string) string {
	return mode.style(InfoStyle, fmt.Sprintf("No %s to display.", what)) + "\n"
}
