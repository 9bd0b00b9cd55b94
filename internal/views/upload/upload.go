// Package upload renders the file selection section and the CSV picker
// overlay.
package upload

import (
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/theme"
)

var stylePickerPanel = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.ColorPrimary).
	Padding(1, 2)

// Model holds the upload section state: the picked file, the picker overlay
// and the in-flight spinner.
type Model struct {
	Picker    filepicker.Model
	Spinner   spinner.Model
	Selected  string
	Uploading bool
}

// New creates the upload section. The picker starts in startDir and only
// offers .csv files.
func New(startDir string) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".csv"}
	fp.CurrentDirectory = startDir
	fp.Height = 12

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorPrimaryHi)

	return Model{Picker: fp, Spinner: sp}
}

// InitPicker starts the picker's directory read.
func (m Model) InitPicker() tea.Cmd {
	return m.Picker.Init()
}

// UpdatePicker feeds a message to the picker overlay. The returned path is
// non-empty once the user has picked a file.
func (m Model) UpdatePicker(msg tea.Msg) (Model, tea.Cmd, string) {
	var cmd tea.Cmd
	m.Picker, cmd = m.Picker.Update(msg)

	if ok, path := m.Picker.DidSelectFile(msg); ok {
		m.Selected = path
		return m, cmd, path
	}
	return m, cmd, ""
}

// UpdateSpinner advances the in-flight spinner.
func (m Model) UpdateSpinner(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.Spinner, cmd = m.Spinner.Update(msg)
	return m, cmd
}

// ClearSelection drops the selected file reference.
func (m *Model) ClearSelection() {
	m.Selected = ""
}

// View renders the upload section.
func (m Model) View() string {
	header := theme.StyleHeader.Render("Upload CSV File")

	var fileLine string
	if m.Selected != "" {
		fileLine = "  " + lipgloss.NewStyle().Foreground(theme.ColorBright).Render(filepath.Base(m.Selected)) +
			theme.StyleDimmed.Render("  ("+m.Selected+")")
	} else {
		fileLine = theme.StyleDimmed.Render("  No file selected — press o to browse")
	}

	hint := theme.StyleDimmed.Render("  Supported format: .csv (max 10MB)")

	var action string
	switch {
	case m.Uploading:
		action = "  " + m.Spinner.View() + " Uploading..."
	case m.Selected != "":
		action = theme.StyleDimmed.Render("  u: upload & analyze  c: clear selection")
	default:
		action = ""
	}

	lines := []string{header, fileLine, hint}
	if action != "" {
		lines = append(lines, action)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// PickerView renders the file picker overlay panel.
func (m Model) PickerView(width, height int) string {
	inner := lipgloss.JoinVertical(lipgloss.Left,
		theme.StyleTitle.Render("Select CSV File"),
		"",
		m.Picker.View(),
		theme.StyleDimmed.Render("enter: select  esc: cancel"),
	)
	panel := stylePickerPanel.Render(inner)
	if width <= 0 || height <= 0 {
		return panel
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel)
}
