// Package history renders the recent-uploads list.
package history

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/client"
	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/theme"
)

const nameWidth = 28

// Model holds the history list state.
type Model struct {
	entries []client.HistoryEntry
}

// New creates an empty history model.
func New() Model {
	return Model{}
}

// SetEntries replaces the list. The backend owns ordering and the 5-item
// cap, so the entries are shown as received.
func (m *Model) SetEntries(entries []client.HistoryEntry) {
	m.entries = entries
}

// View renders the list: name, local upload time, and total count when the
// listing includes the summary.
func (m Model) View() string {
	header := theme.StyleHeader.Render("Last 5 Datasets")

	if len(m.entries) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			theme.StyleDimmed.Render("  No uploads yet"),
		)
	}

	lines := []string{header}
	for _, e := range m.entries {
		name := e.Name
		if len(name) > nameWidth-1 {
			name = name[:nameWidth-2] + "…"
		}

		when := e.UploadedAt.Local().Format("2006-01-02 15:04")

		total := "-"
		if e.Summary != nil && e.Summary.TotalCount != nil {
			total = fmt.Sprintf("%d", *e.Summary.TotalCount)
		}

		line := fmt.Sprintf("  %s  %s  %s",
			lipgloss.NewStyle().Foreground(theme.ColorBright).Width(nameWidth).Render(name),
			theme.StyleDimmed.Render(when),
			theme.StyleDimmed.Render("rows: "+total),
		)
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
