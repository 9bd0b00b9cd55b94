// Package app holds the root Bubble Tea model: the single workflow state
// that gates every backend call and drives all rendering.
package app

import (
	"net/url"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/client"
	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/config"
	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/logging"
	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/theme"
	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/views/chart"
	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/views/history"
	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/views/login"
	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/views/preview"
	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/views/status"
	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/views/summary"
	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/views/upload"
)

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayPicker
)

// Model is the root Bubble Tea model. It is the only owner of the workflow
// state; sub-views receive copies of whatever they render.
type Model struct {
	api *client.APIClient
	cfg *config.Config
	log *logging.Logger

	keys   KeyMap
	width  int
	height int

	// Session state. epoch is bumped on every login and logout so that a
	// late-arriving backend response from a previous session is discarded
	// instead of applied.
	authed   bool
	username string
	epoch    int

	// Workflow state.
	dataset   *client.Dataset
	errMsg    string
	uploading bool

	overlay Overlay

	// Sub-views.
	loginForm   login.Model
	uploadSec   upload.Model
	statusBar   status.Model
	chartView   chart.Model
	summaryView summary.Model
	previewView preview.Model
	historyView history.Model
}

// New creates the root model.
func New(api *client.APIClient, cfg *config.Config, log *logging.Logger) Model {
	return Model{
		api:         api,
		cfg:         cfg,
		log:         log,
		keys:        DefaultKeyMap(),
		loginForm:   login.New(),
		uploadSec:   upload.New("."),
		statusBar:   status.New(backendHost(cfg.Backend.URL)),
		chartView:   chart.New(),
		summaryView: summary.New(),
		previewView: preview.New(),
		historyView: history.New(),
	}
}

// Init returns the initial command. No backend call happens until the user
// logs in; only the login cursor starts blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.chartView.Width = msg.Width
		m.previewView.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.uploading {
			return m, nil
		}
		var cmd tea.Cmd
		m.uploadSec, cmd = m.uploadSec.UpdateSpinner(msg)
		return m, cmd

	case loginResultMsg:
		return m.applyLoginResult(msg)

	case uploadResultMsg:
		return m.applyUploadResult(msg)

	case historyResultMsg:
		return m.applyHistoryResult(msg)

	case reportResultMsg:
		return m.applyReportResult(msg)
	}

	// Remaining message types belong to the file picker (directory reads)
	// or the login form (cursor blink).
	if m.overlay == OverlayPicker {
		var cmd tea.Cmd
		m.uploadSec, cmd, _ = m.uploadSec.UpdatePicker(msg)
		return m, cmd
	}
	if !m.authed {
		var cmd tea.Cmd
		m.loginForm, cmd, _ = m.loginForm.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.overlay == OverlayPicker {
		if key.Matches(msg, m.keys.Escape) {
			m.overlay = OverlayNone
			return m, nil
		}
		var cmd tea.Cmd
		var picked string
		m.uploadSec, cmd, picked = m.uploadSec.UpdatePicker(msg)
		if picked != "" {
			m.overlay = OverlayNone
		}
		return m, cmd
	}

	if !m.authed {
		// The login form owns most keys while typing; only ctrl+c quits.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		var submitted bool
		m.loginForm, cmd, submitted = m.loginForm.Update(msg)
		if submitted {
			return m.submitLogin()
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Logout):
		m = m.resetSession("")
		return m, nil

	case key.Matches(msg, m.keys.Browse):
		if m.uploading {
			return m, nil
		}
		m.overlay = OverlayPicker
		return m, m.uploadSec.InitPicker()

	case key.Matches(msg, m.keys.Clear):
		m.uploadSec.ClearSelection()
		return m, nil

	case key.Matches(msg, m.keys.Upload):
		return m.startUpload()

	case key.Matches(msg, m.keys.Report):
		return m.startReportDownload()
	}

	return m, nil
}

// View renders the full TUI as a pure projection of the model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	if m.overlay == OverlayPicker {
		return m.uploadSec.PickerView(m.width, m.height)
	}

	if !m.authed {
		return m.loginForm.View(m.width, m.height)
	}

	sections := []string{m.statusBar.View()}

	if m.errMsg != "" {
		sections = append(sections, theme.StyleErrorBox.Render(m.errMsg))
	}

	sections = append(sections, m.uploadSec.View())

	if m.dataset != nil {
		sections = append(sections,
			m.chartView.View(),
			m.previewView.View(),
			m.summaryView.View(),
		)
	} else {
		sections = append(sections,
			theme.StyleDimmed.Render("  Upload a CSV file to view charts, summary and data preview."),
		)
	}

	sections = append(sections,
		m.historyView.View(),
		theme.StyleDimmed.Render("  o:browse  u:upload  c:clear  r:report  ctrl+l:logout  q:quit"),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// backendHost extracts the host for the status bar.
func backendHost(backendURL string) string {
	u, err := url.Parse(backendURL)
	if err != nil || u.Host == "" {
		return backendURL
	}
	return u.Host
}
