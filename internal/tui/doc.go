// Package tui renders finboard data for the terminal: quote and position
// tables, portfolio and autotrader panels, cache statistics and the full
// dashboard snapshot.
//
// Every renderer takes a Mode. ModeStyled draws lipgloss borders and colors
// for interactive terminals; ModePlain emits tab-aligned text suitable for
// pipes and tests.
package tui
