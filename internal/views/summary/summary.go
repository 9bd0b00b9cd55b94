// Package summary renders the dataset statistics as a row of cards.
package summary

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/client"
	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/theme"
)

var (
	styleCard = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.ColorBorder).
			Padding(0, 1).
			Width(18)

	styleCardLabel = lipgloss.NewStyle().
			Foreground(theme.ColorDimmed)

	styleCardValue = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorBright)
)

// Model holds the summary state.
type Model struct {
	summary *client.Summary
}

// New creates an empty summary model.
func New() Model {
	return Model{}
}

// SetSummary replaces the displayed summary. Pass nil to clear.
func (m *Model) SetSummary(s *client.Summary) {
	m.summary = s
}

// View renders the four summary cards. Absent values show a placeholder.
func (m Model) View() string {
	header := theme.StyleHeader.Render("Summary")

	if m.summary == nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			theme.StyleDimmed.Render("  No dataset loaded yet."),
		)
	}

	s := m.summary
	cards := []string{
		card("Total Equipment", intValue(s.TotalCount)),
		card("Avg Flowrate", floatValue(s.AverageFlowrate)),
		card("Avg Pressure", floatValue(s.AveragePressure)),
		card("Avg Temperature", floatValue(s.AverageTemperature)),
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	return lipgloss.JoinVertical(lipgloss.Left, header, row)
}

func card(label, value string) string {
	inner := lipgloss.JoinVertical(lipgloss.Left,
		styleCardLabel.Render(label),
		styleCardValue.Render(value),
	)
	return styleCard.Render(inner)
}

func intValue(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func floatValue(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
