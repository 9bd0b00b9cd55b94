// Package theme provides the Lip Gloss color palette and reusable styles
// for the visualizer TUI. It is a leaf package with no internal imports
// to avoid import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Brand colors.
var (
	ColorPrimary   = lipgloss.Color("#4f46e5")
	ColorPrimaryHi = lipgloss.Color("#6366f1")
	ColorAccent    = lipgloss.Color("#06b6d4")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
)

// Chart bar palette, cycled per equipment type.
var barPalette = []lipgloss.Color{
	lipgloss.Color("#4f46e5"),
	lipgloss.Color("#06b6d4"),
	lipgloss.Color("#22c55e"),
	lipgloss.Color("#f59e0b"),
	lipgloss.Color("#ec4899"),
	lipgloss.Color("#8b5cf6"),
}

// BarColor returns the chart color for the i-th category.
func BarColor(i int) lipgloss.Color {
	if i < 0 {
		i = 0
	}
	return barPalette[i%len(barPalette)]
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimaryHi)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorDanger)

	StyleErrorBox = lipgloss.NewStyle().
			Foreground(ColorDanger).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorDanger).
			Padding(0, 1)

	StyleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)
)
