// Package chart renders the equipment type distribution as a horizontal
// bar chart.
package chart

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/theme"
)

const (
	labelWidth  = 16
	maxBarWidth = 36
)

// Model holds the chart state.
type Model struct {
	Width int

	dist map[string]int
}

// New creates an empty chart model.
func New() Model {
	return Model{}
}

// SetDistribution replaces the charted categories.
func (m *Model) SetDistribution(dist map[string]int) {
	m.dist = dist
}

// View renders the chart: one bar per equipment type, largest first. Ties
// break on the label so renders are deterministic.
func (m Model) View() string {
	header := theme.StyleHeader.Render("Equipment Type Distribution")

	if len(m.dist) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			theme.StyleDimmed.Render("  No type data"),
		)
	}

	type entry struct {
		label string
		count int
	}
	entries := make([]entry, 0, len(m.dist))
	maxCount := 0
	for label, count := range m.dist {
		entries = append(entries, entry{label, count})
		if count > maxCount {
			maxCount = count
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].label < entries[j].label
	})

	lines := []string{header}
	for i, e := range entries {
		label := e.label
		if len(label) > labelWidth-1 {
			label = label[:labelWidth-2] + "…"
		}

		barLen := 0
		if maxCount > 0 {
			barLen = e.count * maxBarWidth / maxCount
		}
		if e.count > 0 && barLen == 0 {
			barLen = 1
		}

		bar := lipgloss.NewStyle().Foreground(theme.BarColor(i)).
			Render(strings.Repeat("█", barLen))
		count := theme.StyleDimmed.Render(fmt.Sprintf(" %d", e.count))

		lines = append(lines, fmt.Sprintf("  %-*s %s%s", labelWidth, label, bar, count))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
