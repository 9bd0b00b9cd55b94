package status

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/theme"
)

// Model holds the status bar state.
type Model struct {
	Width       int
	Username    string
	BackendHost string
	Uploading   bool
	Notice      string
}

// New creates a status bar model.
func New(backendHost string) Model {
	return Model{BackendHost: backendHost}
}

// View renders the top status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	title := theme.StyleTitle.Render("Chemical Equipment Parameter Visualizer")

	user := theme.StyleDimmed.Render("not logged in")
	if m.Username != "" {
		user = lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("● " + m.Username)
	}

	state := lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("ready")
	if m.Uploading {
		state = lipgloss.NewStyle().Foreground(theme.ColorWarning).Render("uploading")
	}

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := title + sep + user + sep + theme.StyleDimmed.Render(m.BackendHost) + sep + state
	if m.Notice != "" {
		content += sep + lipgloss.NewStyle().Foreground(theme.ColorAccent).Render(m.Notice)
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
