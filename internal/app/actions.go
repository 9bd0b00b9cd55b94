package app

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/client"
)

// User-facing messages. The wording is part of the product surface, so they
// live in one place.
const (
	msgEmptyFields        = "Please enter username and password."
	msgAdminOnly          = "Only 'admin' user is allowed to access this dashboard."
	msgInvalidCredentials = "Invalid credentials or backend not running."
	msgLoginFirst         = "Please login first."
	msgNoFileSelected     = "Please select a CSV file first."
	msgUploadFallback     = "Upload failed. Check backend & CSV columns."
	msgNoDataset          = "No dataset available to download PDF."
	msgReportFailed       = "Failed to download PDF report."
	msgSessionExpired     = "Session expired. Please login again."
)

// Only the admin identity may operate the dashboard.
const allowedUsername = "admin"

// Async results. Every message carries the epoch it was issued under; a
// mismatch means the session changed while the request was in flight and
// the result is dropped.
type loginResultMsg struct {
	epoch    int
	username string
	password string
	err      error
}

type uploadResultMsg struct {
	epoch   int
	dataset *client.Dataset
	err     error
}

type historyResultMsg struct {
	epoch   int
	entries []client.HistoryEntry
	err     error
}

type reportResultMsg struct {
	epoch int
	path  string
	err   error
}

// --- SessionManager ---

// submitLogin validates the form locally and, only if both checks pass,
// probes the backend with the candidate credential. Validation failures
// never issue a request.
func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	username, password := m.loginForm.Values()
	username = strings.TrimSpace(username)

	if username == "" || password == "" {
		m.loginForm.ErrorMsg = msgEmptyFields
		return m, nil
	}
	if username != allowedUsername {
		m.loginForm.ErrorMsg = msgAdminOnly
		return m, nil
	}

	m.loginForm.ErrorMsg = ""
	return m, m.loginCmd(username, password)
}

func (m Model) loginCmd(username, password string) tea.Cmd {
	api, timeout, epoch := m.api, m.cfg.Backend.Timeout, m.epoch
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := api.Ping(ctx, username, password)
		return loginResultMsg{epoch: epoch, username: username, password: password, err: err}
	}
}

func (m Model) applyLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	if msg.epoch != m.epoch {
		return m, nil
	}

	if msg.err != nil {
		m.log.Warn().Err(msg.err).Str("username", msg.username).Msg("login probe failed")
		m.loginForm.ErrorMsg = msgInvalidCredentials
		return m, nil
	}

	// New session: prior dataset, history and errors do not carry over.
	m.epoch++
	m.authed = true
	m.username = msg.username
	m.api.SetCredentials(msg.username, msg.password)
	m.dataset = nil
	m.errMsg = ""
	m.chartView.SetDistribution(nil)
	m.summaryView.SetSummary(nil)
	m.previewView.SetRows(nil)
	m.historyView.SetEntries(nil)
	m.statusBar.Username = msg.username
	m.statusBar.Notice = ""

	m.log.Info().Str("username", msg.username).Msg("logged in")
	return m, m.refreshHistoryCmd()
}

// resetSession returns the model to the unauthenticated view. loginErr, if
// non-empty, is shown on the login form (used for forced logouts). No
// backend call is made.
func (m Model) resetSession(loginErr string) Model {
	m.epoch++
	m.authed = false
	m.username = ""
	m.api.ClearCredentials()
	m.dataset = nil
	m.errMsg = ""
	m.uploading = false
	m.overlay = OverlayNone
	m.uploadSec.ClearSelection()
	m.uploadSec.Uploading = false
	m.chartView.SetDistribution(nil)
	m.summaryView.SetSummary(nil)
	m.previewView.SetRows(nil)
	m.historyView.SetEntries(nil)
	m.statusBar.Username = ""
	m.statusBar.Uploading = false
	m.statusBar.Notice = ""
	m.loginForm.Reset()
	m.loginForm.ErrorMsg = loginErr
	return m
}

// --- UploadController ---

// startUpload begins an upload for the selected file. The submit affordance
// is gated while a previous upload is in flight, so two rapid triggers
// produce exactly one request.
func (m Model) startUpload() (tea.Model, tea.Cmd) {
	if m.uploading {
		return m, nil
	}
	if m.uploadSec.Selected == "" {
		m.errMsg = msgNoFileSelected
		return m, nil
	}

	m.errMsg = ""
	m.uploading = true
	m.uploadSec.Uploading = true
	m.statusBar.Uploading = true
	m.statusBar.Notice = ""

	return m, tea.Batch(m.uploadSec.Spinner.Tick, m.uploadCmd(m.uploadSec.Selected))
}

func (m Model) uploadCmd(path string) tea.Cmd {
	api, timeout, epoch := m.api, m.cfg.Backend.Timeout, m.epoch
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		ds, err := api.Upload(ctx, path)
		return uploadResultMsg{epoch: epoch, dataset: ds, err: err}
	}
}

func (m Model) applyUploadResult(msg uploadResultMsg) (tea.Model, tea.Cmd) {
	if msg.epoch != m.epoch {
		return m, nil
	}

	// Cleared on every exit path, success or failure.
	m.uploading = false
	m.uploadSec.Uploading = false
	m.statusBar.Uploading = false

	if msg.err != nil {
		if errors.Is(msg.err, client.ErrUnauthorized) {
			return m.resetSession(msgSessionExpired), nil
		}
		m.log.Error().Err(msg.err).Msg("upload failed")
		m.errMsg = uploadErrorMessage(msg.err)
		return m, nil
	}

	// Replace, never merge.
	m.dataset = msg.dataset
	m.errMsg = ""
	m.chartView.SetDistribution(msg.dataset.Summary.TypeDistribution)
	m.summaryView.SetSummary(&msg.dataset.Summary)
	m.previewView.SetRows(msg.dataset.PreviewRows)

	m.log.Info().Int("dataset_id", msg.dataset.ID).Str("name", msg.dataset.Name).Msg("upload complete")
	return m, m.refreshHistoryCmd()
}

// uploadErrorMessage picks the most specific message available: the
// backend's structured error, then the generic fallback.
func uploadErrorMessage(err error) string {
	if errors.Is(err, client.ErrUnauthenticated) {
		return msgLoginFirst
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return msgUploadFallback
}

// --- HistoryCache ---

// refreshHistoryCmd fetches the recent-uploads list. It is edge-triggered:
// issued only after a successful login or upload, never per render.
func (m Model) refreshHistoryCmd() tea.Cmd {
	api, timeout, epoch := m.api, m.cfg.Backend.Timeout, m.epoch
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		entries, err := api.ListDatasets(ctx)
		return historyResultMsg{epoch: epoch, entries: entries, err: err}
	}
}

func (m Model) applyHistoryResult(msg historyResultMsg) (tea.Model, tea.Cmd) {
	if msg.epoch != m.epoch {
		return m, nil
	}

	if msg.err != nil {
		// History is supplementary: keep whatever list is showing and stay
		// out of the primary error slot.
		m.log.Warn().Err(msg.err).Msg("history refresh failed")
		return m, nil
	}

	m.historyView.SetEntries(msg.entries)
	return m, nil
}

// --- ReportFetcher ---

func (m Model) startReportDownload() (tea.Model, tea.Cmd) {
	if m.dataset == nil {
		m.errMsg = msgNoDataset
		return m, nil
	}
	return m, m.reportCmd(m.dataset.ID)
}

func (m Model) reportCmd(id int) tea.Cmd {
	api, timeout, epoch := m.api, m.cfg.Backend.Timeout, m.epoch
	dir := m.cfg.Download.Dir
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		path, err := api.DownloadReport(ctx, id, dir)
		return reportResultMsg{epoch: epoch, path: path, err: err}
	}
}

func (m Model) applyReportResult(msg reportResultMsg) (tea.Model, tea.Cmd) {
	if msg.epoch != m.epoch {
		return m, nil
	}

	if msg.err != nil {
		if errors.Is(msg.err, client.ErrUnauthorized) {
			return m.resetSession(msgSessionExpired), nil
		}
		m.log.Error().Err(msg.err).Msg("report download failed")
		m.errMsg = msgReportFailed
		return m, nil
	}

	m.errMsg = ""
	m.statusBar.Notice = "Report saved: " + filepath.Base(msg.path)
	m.log.Info().Str("path", msg.path).Msg("report saved")
	return m, nil
}
