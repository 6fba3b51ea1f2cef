package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/printwatch/topbar/internal/monitor"
)

// Semantic colors, ANSI codes for broad terminal compatibility.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy.
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// Target indicator glyphs: heating, cooling, holding.
const (
	TargetUp   = "▲"
	TargetDown = "▼"
	TargetHold = "●"
)

var (
	BarStyle = lipgloss.NewStyle().
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	IconStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	IconHotStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	PausedStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// monitorIcons maps the persisted icon names to terminal glyphs.
var monitorIcons = map[string]string{
	"thermometer": "🌡",
	"bed":         "▭",
	"chamber":     "◰",
	"flame":       "▲",
	"fan":         "✣",
}

// Icon resolves a configured icon name to its glyph, falling back to the
// thermometer.
func Icon(name string) string {
	if glyph, ok := monitorIcons[name]; ok {
		return glyph
	}
	return monitorIcons["thermometer"]
}

// TargetGlyph returns the indicator for a target comparison state.
func TargetGlyph(state monitor.TargetState) string {
	switch state {
	case monitor.TargetBelow:
		return TargetUp
	case monitor.TargetAbove:
		return TargetDown
	}
	return TargetHold
}
