package app

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/client"
	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/config"
	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/logging"
)

func newTestModel() Model {
	cfg := config.Default()
	api := client.NewAPIClient(cfg.Backend.URL, time.Second, logging.NewDiscardLogger())
	m := New(api, cfg, logging.NewDiscardLogger())
	m.width = 100
	m.height = 40
	return m
}

func loggedInModel() Model {
	m := newTestModel()
	m.loginForm.Username.SetValue("admin")
	m.loginForm.Password.SetValue("secret")
	next, _ := m.Update(loginResultMsg{epoch: 0, username: "admin", password: "secret"})
	return next.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func sampleDataset(id int) *client.Dataset {
	total := 3
	return &client.Dataset{
		ID:      id,
		Name:    "plant1.csv",
		Summary: client.Summary{TotalCount: &total, TypeDistribution: map[string]int{"Pump": 2, "Valve": 1}},
	}
}

func TestLoginValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantMsg  string
	}{
		{"empty username", "", "secret", msgEmptyFields},
		{"empty password", "admin", "", msgEmptyFields},
		{"both empty", "", "", msgEmptyFields},
		{"non-admin user", "bob", "x", msgAdminOnly},
		{"non-admin ignores password", "alice", "correct-horse", msgAdminOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel()
			m.loginForm.Username.SetValue(tt.username)
			m.loginForm.Password.SetValue(tt.password)

			next, cmd := m.Update(keyMsg("enter"))
			got := next.(Model)

			if cmd != nil {
				t.Error("validation failure must not issue a request")
			}
			if got.loginForm.ErrorMsg != tt.wantMsg {
				t.Errorf("ErrorMsg = %q, want %q", got.loginForm.ErrorMsg, tt.wantMsg)
			}
			if got.authed {
				t.Error("model should stay unauthenticated")
			}
		})
	}
}

func TestLoginValidSubmitStartsAuthCheck(t *testing.T) {
	m := newTestModel()
	m.loginForm.Username.SetValue("admin")
	m.loginForm.Password.SetValue("secret")

	next, cmd := m.Update(keyMsg("enter"))
	got := next.(Model)

	if cmd == nil {
		t.Fatal("valid submit should start the auth check")
	}
	if got.loginForm.ErrorMsg != "" {
		t.Errorf("ErrorMsg = %q, want empty", got.loginForm.ErrorMsg)
	}
}

func TestLoginSendsPasswordAsTyped(t *testing.T) {
	// Whitespace is significant in a password; it goes over the wire verbatim.
	const typed = "  s3cret pass  "

	var sent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, pass, _ := r.BasicAuth()
		sent = pass
	}))
	defer srv.Close()

	m := newTestModel()
	m.api = client.NewAPIClient(srv.URL, time.Second, logging.NewDiscardLogger())
	m.loginForm.Username.SetValue("admin")
	m.loginForm.Password.SetValue(typed)

	_, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("valid submit should start the auth check")
	}
	msg := cmd()
	res, ok := msg.(loginResultMsg)
	if !ok {
		t.Fatalf("cmd result = %T, want loginResultMsg", msg)
	}
	if res.err != nil {
		t.Fatalf("login err = %v", res.err)
	}
	if sent != typed {
		t.Errorf("password on the wire = %q, want %q", sent, typed)
	}
	if res.password != typed {
		t.Errorf("stored password = %q, want %q", res.password, typed)
	}
}

func TestLoginSuccessClearsPriorState(t *testing.T) {
	m := newTestModel()
	m.dataset = sampleDataset(7)
	m.errMsg = "stale error"
	m.historyView.SetEntries([]client.HistoryEntry{{ID: 7}})

	next, cmd := m.Update(loginResultMsg{epoch: 0, username: "admin", password: "secret"})
	got := next.(Model)

	if !got.authed || got.username != "admin" {
		t.Fatalf("authed = %v username = %q, want admin session", got.authed, got.username)
	}
	if got.dataset != nil {
		t.Error("prior dataset should be cleared on login")
	}
	if got.errMsg != "" {
		t.Error("prior error should be cleared on login")
	}
	if cmd == nil {
		t.Error("login success should trigger a history refresh")
	}
	if !got.api.Authenticated() {
		t.Error("credential should be installed on the API client")
	}
}

func TestLoginFailure(t *testing.T) {
	m := newTestModel()

	next, cmd := m.Update(loginResultMsg{epoch: 0, username: "admin", password: "bad", err: errors.New("status 401")})
	got := next.(Model)

	if got.authed {
		t.Error("failed login must leave the session unauthenticated")
	}
	if got.loginForm.ErrorMsg != msgInvalidCredentials {
		t.Errorf("ErrorMsg = %q, want %q", got.loginForm.ErrorMsg, msgInvalidCredentials)
	}
	if cmd != nil {
		t.Error("failed login should not trigger follow-up requests")
	}
}

func TestUploadGatedWhileInFlight(t *testing.T) {
	m := loggedInModel()
	m.uploadSec.Selected = "/tmp/plant1.csv"

	next, cmd := m.Update(keyMsg("u"))
	got := next.(Model)
	if cmd == nil {
		t.Fatal("first upload trigger should start the request")
	}
	if !got.uploading {
		t.Fatal("uploading flag should be set while in flight")
	}

	// Second trigger while in flight: exactly one request stays in flight.
	next, cmd = got.Update(keyMsg("u"))
	if cmd != nil {
		t.Error("second upload trigger should be ignored while uploading")
	}
	if !next.(Model).uploading {
		t.Error("uploading flag should remain set")
	}
}

func TestUploadWithoutSelection(t *testing.T) {
	m := loggedInModel()

	next, cmd := m.Update(keyMsg("u"))
	got := next.(Model)

	if cmd != nil {
		t.Error("upload without a selection must not issue a request")
	}
	if got.errMsg != msgNoFileSelected {
		t.Errorf("errMsg = %q, want %q", got.errMsg, msgNoFileSelected)
	}
}

func TestUploadSuccessReplacesDataset(t *testing.T) {
	m := loggedInModel()
	m.dataset = sampleDataset(1)
	m.uploading = true

	ds := sampleDataset(2)
	next, cmd := m.Update(uploadResultMsg{epoch: m.epoch, dataset: ds})
	got := next.(Model)

	if got.dataset != ds {
		t.Error("activeDataset should be exactly the backend-returned dataset")
	}
	if got.uploading {
		t.Error("uploading flag must be cleared on success")
	}
	if got.errMsg != "" {
		t.Errorf("errMsg = %q, want empty", got.errMsg)
	}
	if cmd == nil {
		t.Error("successful upload should trigger a history refresh")
	}
}

func TestUploadFailureKeepsDataset(t *testing.T) {
	m := loggedInModel()
	m.uploading = true

	next, cmd := m.Update(uploadResultMsg{
		epoch: m.epoch,
		err:   &client.APIError{StatusCode: 400, Message: "Missing column: Flowrate"},
	})
	got := next.(Model)

	if got.dataset != nil {
		t.Error("failed upload must leave activeDataset unset")
	}
	if got.uploading {
		t.Error("uploading flag must be cleared on failure")
	}
	if got.errMsg != "Missing column: Flowrate" {
		t.Errorf("errMsg = %q, want backend message", got.errMsg)
	}
	if cmd != nil {
		t.Error("failed upload should not trigger a history refresh")
	}
}

func TestUploadFailureGenericMessage(t *testing.T) {
	m := loggedInModel()
	m.uploading = true

	next, _ := m.Update(uploadResultMsg{epoch: m.epoch, err: errors.New("connection refused")})
	got := next.(Model)

	if got.errMsg != msgUploadFallback {
		t.Errorf("errMsg = %q, want %q", got.errMsg, msgUploadFallback)
	}
}

func TestUploadFailureHTMLErrorPage(t *testing.T) {
	// A backend error page carries no structured message; the user gets the
	// fixed fallback, never raw body content.
	m := loggedInModel()
	m.uploading = true

	next, _ := m.Update(uploadResultMsg{epoch: m.epoch, err: &client.APIError{StatusCode: 400}})
	got := next.(Model)

	if got.errMsg != msgUploadFallback {
		t.Errorf("errMsg = %q, want %q", got.errMsg, msgUploadFallback)
	}
}

func TestUpload401ForcesLogout(t *testing.T) {
	m := loggedInModel()
	m.uploading = true

	next, _ := m.Update(uploadResultMsg{epoch: m.epoch, err: client.ErrUnauthorized})
	got := next.(Model)

	if got.authed {
		t.Error("401 during upload must force the session back to unauthenticated")
	}
	if got.loginForm.ErrorMsg != msgSessionExpired {
		t.Errorf("login ErrorMsg = %q, want %q", got.loginForm.ErrorMsg, msgSessionExpired)
	}
}

func TestLogoutResetsEverything(t *testing.T) {
	m := loggedInModel()
	m.dataset = sampleDataset(1)
	m.errMsg = "old error"
	m.uploadSec.Selected = "/tmp/plant1.csv"
	m.historyView.SetEntries([]client.HistoryEntry{{ID: 1}})

	next, cmd := m.Update(keyMsg("ctrl+l"))
	got := next.(Model)

	if cmd != nil {
		t.Error("logout is purely local, no request may be issued")
	}
	if got.authed || got.username != "" {
		t.Error("session should be cleared")
	}
	if got.dataset != nil {
		t.Error("dataset should be cleared")
	}
	if got.errMsg != "" {
		t.Error("error message should be cleared")
	}
	if got.uploadSec.Selected != "" {
		t.Error("selected file should be cleared")
	}
	if got.api.Authenticated() {
		t.Error("credential should be removed from the API client")
	}
}

func TestHistoryFailureIsNonFatal(t *testing.T) {
	m := loggedInModel()
	m.historyView.SetEntries([]client.HistoryEntry{{ID: 1, Name: "plant1.csv"}})

	next, _ := m.Update(historyResultMsg{epoch: m.epoch, err: errors.New("timeout")})
	got := next.(Model)

	if got.errMsg != "" {
		t.Error("history failure must not surface in the primary error slot")
	}
	if !strings.Contains(got.historyView.View(), "plant1.csv") {
		t.Error("existing history list should be retained on refresh failure")
	}
}

func TestHistorySuccessReplacesList(t *testing.T) {
	m := loggedInModel()
	m.historyView.SetEntries([]client.HistoryEntry{{ID: 1, Name: "old.csv"}})

	entries := []client.HistoryEntry{{ID: 3, Name: "new.csv"}}
	next, _ := m.Update(historyResultMsg{epoch: m.epoch, entries: entries})
	got := next.(Model)

	v := got.historyView.View()
	if !strings.Contains(v, "new.csv") {
		t.Error("history view should show the refreshed list")
	}
	if strings.Contains(v, "old.csv") {
		t.Error("history list is replaced, not merged")
	}
}

func TestStaleHistoryDiscardedAfterLogout(t *testing.T) {
	m := loggedInModel()
	staleEpoch := m.epoch

	next, _ := m.Update(keyMsg("ctrl+l"))
	got := next.(Model)

	next, _ = got.Update(historyResultMsg{epoch: staleEpoch, entries: []client.HistoryEntry{{ID: 9, Name: "late.csv"}}})
	got = next.(Model)

	if strings.Contains(got.historyView.View(), "late.csv") {
		t.Error("a history response arriving after logout must be discarded")
	}
}

func TestStaleUploadDiscardedAfterLogout(t *testing.T) {
	m := loggedInModel()
	staleEpoch := m.epoch

	next, _ := m.Update(keyMsg("ctrl+l"))
	got := next.(Model)

	next, _ = got.Update(uploadResultMsg{epoch: staleEpoch, dataset: sampleDataset(5)})
	got = next.(Model)

	if got.dataset != nil {
		t.Error("an upload response arriving after logout must be discarded")
	}
}

func TestReportWithoutDataset(t *testing.T) {
	m := loggedInModel()

	next, cmd := m.Update(keyMsg("r"))
	got := next.(Model)

	if cmd != nil {
		t.Error("report download without a dataset must not issue a request")
	}
	if got.errMsg != msgNoDataset {
		t.Errorf("errMsg = %q, want %q", got.errMsg, msgNoDataset)
	}
}

func TestReportSuccessShowsSavedPath(t *testing.T) {
	m := loggedInModel()
	m.dataset = sampleDataset(1)

	next, _ := m.Update(reportResultMsg{epoch: m.epoch, path: "/tmp/dataset_1_report.pdf"})
	got := next.(Model)

	if got.statusBar.Notice != "Report saved: dataset_1_report.pdf" {
		t.Errorf("Notice = %q, want saved-report notice", got.statusBar.Notice)
	}
	if got.errMsg != "" {
		t.Errorf("errMsg = %q, want empty", got.errMsg)
	}
}

func TestReportFailure(t *testing.T) {
	m := loggedInModel()
	m.dataset = sampleDataset(1)

	next, _ := m.Update(reportResultMsg{epoch: m.epoch, err: errors.New("boom")})
	got := next.(Model)

	if got.errMsg != msgReportFailed {
		t.Errorf("errMsg = %q, want %q", got.errMsg, msgReportFailed)
	}
}

func TestViewUnauthenticatedShowsLogin(t *testing.T) {
	m := newTestModel()
	v := m.View()
	if !strings.Contains(v, "Admin Login") {
		t.Error("unauthenticated view should show the login panel")
	}
}

func TestViewDashboardAfterUpload(t *testing.T) {
	m := loggedInModel()
	next, _ := m.Update(uploadResultMsg{epoch: m.epoch, dataset: sampleDataset(1)})
	got := next.(Model)

	v := got.View()
	for _, want := range []string{
		"Equipment Type Distribution",
		"Preview (First 10 Rows)",
		"Summary",
		"Last 5 Datasets",
	} {
		if !strings.Contains(v, want) {
			t.Errorf("dashboard view should contain %q", want)
		}
	}
}

func TestViewNoDatasetHint(t *testing.T) {
	m := loggedInModel()
	v := m.View()
	if !strings.Contains(v, "Upload a CSV file to view charts") {
		t.Error("dashboard without dataset should show the upload hint")
	}
}
