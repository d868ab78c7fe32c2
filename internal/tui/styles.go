package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/finboard/internal/upstream"
)

// Palette.
const (
	ColorHeader   = lipgloss.Color("39")
	ColorLabel    = lipgloss.Color("245")
	ColorValue    = lipgloss.Color("255")
	ColorOK       = lipgloss.Color("42")
	ColorWarning  = lipgloss.Color("214")
	ColorCritical = lipgloss.Color("196")
	ColorMuted    = lipgloss.Color("241")
	ColorBorder   = lipgloss.Color("238")
)

// Direction icons.
const (
	IconArrowUp    = "↑"
	IconArrowDown  = "↓"
	IconArrowRight = "→"
)

//nolint:gochecknoglobals // Shared lipgloss styles.
var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	LabelStyle  = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorValue)
	InfoStyle   = lipgloss.NewStyle().Italic(true).Foreground(ColorMuted)
	SubtleStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	GainStyle     = lipgloss.NewStyle().Foreground(ColorOK)
	LossStyle     = lipgloss.NewStyle().Foreground(ColorCritical)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	CriticalStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorCritical)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader).Padding(0, 1)
	TableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	TableBorderStyle = lipgloss.NewStyle().Foreground(ColorBorder)
)

// signalStyle colors a score label.
func signalStyle(label string) lipgloss.Style {
	switch label {
	case upstream.LabelStrongBuy, upstream.LabelBuy:
		return GainStyle
	case upstream.LabelHold:
		return WarningStyle
	default:
		return LossStyle
	}
}
