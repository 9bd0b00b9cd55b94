// Package login renders the credential form shown while unauthenticated.
package login

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/theme"
)

const panelWidth = 48

var (
	stylePanel = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.ColorPrimary).
			Padding(1, 2).
			Width(panelWidth)

	styleLabel = lipgloss.NewStyle().
			Foreground(theme.ColorDimmed)
)

// Model holds the login form state.
type Model struct {
	Username textinput.Model
	Password textinput.Model
	ErrorMsg string

	focus int // 0 = username, 1 = password
}

// New creates the login form with the username field focused.
func New() Model {
	user := textinput.New()
	user.Placeholder = "admin"
	user.CharLimit = 64
	user.Width = panelWidth - 8
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "Your password"
	pass.CharLimit = 128
	pass.Width = panelWidth - 8
	pass.EchoMode = textinput.EchoPassword

	return Model{Username: user, Password: pass}
}

// Reset clears both fields and the error, refocusing the username field.
func (m *Model) Reset() {
	m.Username.SetValue("")
	m.Password.SetValue("")
	m.ErrorMsg = ""
	m.focus = 0
	m.Username.Focus()
	m.Password.Blur()
}

// Values returns the entered credential pair.
func (m Model) Values() (username, password string) {
	return m.Username.Value(), m.Password.Value()
}

// Update routes input to the focused field. The returned flag reports a
// submit request (enter pressed); validation stays with the caller.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "shift+tab", "up", "down":
			m.toggleFocus()
			return m, nil, false
		case "enter":
			return m, nil, true
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.Username, cmd = m.Username.Update(msg)
	} else {
		m.Password, cmd = m.Password.Update(msg)
	}
	return m, cmd, false
}

func (m *Model) toggleFocus() {
	if m.focus == 0 {
		m.focus = 1
		m.Username.Blur()
		m.Password.Focus()
	} else {
		m.focus = 0
		m.Password.Blur()
		m.Username.Focus()
	}
}

// View renders the centered login panel.
func (m Model) View(width, height int) string {
	lines := []string{
		theme.StyleTitle.Render("Admin Login"),
		theme.StyleDimmed.Render("Only the admin user can access the dashboard."),
		"",
	}

	if m.ErrorMsg != "" {
		lines = append(lines, theme.StyleErrorBox.Render(m.ErrorMsg), "")
	}

	lines = append(lines,
		styleLabel.Render("Username"),
		m.Username.View(),
		"",
		styleLabel.Render("Password"),
		m.Password.View(),
		"",
		theme.StyleDimmed.Render("enter: login  tab: switch field  ctrl+c: quit"),
	)

	panel := stylePanel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	if width <= 0 || height <= 0 {
		return panel
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel)
}
