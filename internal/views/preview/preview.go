// Package preview renders the first rows of the active dataset as a table.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/client"
	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/theme"
)

const (
	maxRows     = 10
	maxColWidth = 20
)

// Model holds the preview table state.
type Model struct {
	Width int

	rows []client.PreviewRow
	cols []string
}

// New creates an empty preview model.
func New() Model {
	return Model{}
}

// SetRows replaces the previewed rows. Columns come from the first row's
// keys, in wire order.
func (m *Model) SetRows(rows []client.PreviewRow) {
	m.rows = rows
	m.cols = nil
	if len(rows) > 0 {
		m.cols = rows[0].Columns()
	}
}

// View renders the table header and up to the first ten rows.
func (m Model) View() string {
	header := theme.StyleHeader.Render("Preview (First 10 Rows)")

	if len(m.rows) == 0 || len(m.cols) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			theme.StyleDimmed.Render("  No preview data available."),
		)
	}

	rows := m.rows
	if len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	widths := m.columnWidths(rows)

	dimStyle := lipgloss.NewStyle().Foreground(theme.ColorDimmed)

	var head strings.Builder
	head.WriteString("  ")
	for i, col := range m.cols {
		head.WriteString(fmt.Sprintf("%-*s ", widths[i], clip(col, widths[i])))
	}

	total := 2
	for _, w := range widths {
		total += w + 1
	}

	lines := []string{
		header,
		dimStyle.Render(head.String()),
		dimStyle.Render("  " + strings.Repeat("─", total-2)),
	}

	for _, row := range rows {
		var b strings.Builder
		b.WriteString("  ")
		for i, col := range m.cols {
			b.WriteString(fmt.Sprintf("%-*s ", widths[i], clip(row.Cell(col), widths[i])))
		}
		lines = append(lines, b.String())
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// columnWidths sizes each column to its widest cell, capped so one long
// value cannot push the table off screen.
func (m Model) columnWidths(rows []client.PreviewRow) []int {
	widths := make([]int, len(m.cols))
	for i, col := range m.cols {
		widths[i] = len(col)
		for _, row := range rows {
			if n := len(row.Cell(col)); n > widths[i] {
				widths[i] = n
			}
		}
		if widths[i] > maxColWidth {
			widths[i] = maxColWidth
		}
	}
	return widths
}

func clip(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 1 {
		return s[:width]
	}
	return s[:width-1] + "…"
}
