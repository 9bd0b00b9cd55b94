package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/logging"
)

// ErrUnauthenticated is returned when a call requiring an active credential
// is made without one. No request is issued in that case.
var ErrUnauthenticated = errors.New("not logged in")

// ErrUnauthorized is returned when the backend rejects the active credential
// (HTTP 401). The session layer treats it as a forced logout.
var ErrUnauthorized = errors.New("credentials rejected by backend")

// APIError carries the status code and the most specific message the backend
// offered for a failed request.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Message)
}

// retryLogger bridges retryablehttp's leveled logger onto the file logger.
// Info and debug retry chatter is dropped.
type retryLogger struct {
	log *logging.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error().Msgf("retry: %s %v", msg, keysAndValues)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn().Msgf("retry: %s %v", msg, keysAndValues)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{})  {}
func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {}

// APIClient makes REST calls to the analytics backend. The active credential
// is written only by the session layer; every other caller treats it as
// read-only.
type APIClient struct {
	baseURL string
	client  *http.Client

	username string
	password string
	authed   bool
}

// NewAPIClient creates a client targeting the given base URL
// (e.g. "http://127.0.0.1:8000/api"). Transient failures are retried with
// backoff before a call is reported as failed.
func NewAPIClient(baseURL string, timeout time.Duration, log *logging.Logger) *APIClient {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = &retryLogger{log: log}

	httpClient := retryClient.StandardClient()
	httpClient.Timeout = timeout

	return &APIClient{
		baseURL: baseURL,
		client:  httpClient,
	}
}

// SetCredentials installs the active credential for subsequent calls.
func (c *APIClient) SetCredentials(username, password string) {
	c.username = username
	c.password = password
	c.authed = true
}

// ClearCredentials drops the active credential.
func (c *APIClient) ClearCredentials() {
	c.username = ""
	c.password = ""
	c.authed = false
}

// Authenticated reports whether an active credential is installed.
func (c *APIClient) Authenticated() bool {
	return c.authed
}

// Ping probes GET /hello/ with a candidate credential. A nil error means the
// backend accepted the credential.
func (c *APIClient) Ping(ctx context.Context, username, password string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/hello/", nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(username, password)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("hello probe: status %d", resp.StatusCode)
	}
	return nil
}

// Upload POSTs the file at path as a multipart form to /upload/ and returns
// the resulting dataset. The whole file is buffered so the retry layer can
// replay the request body.
func (c *APIClient) Upload(ctx context.Context, path string) (*Dataset, error) {
	if !c.authed {
		return nil, ErrUnauthenticated
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload/", bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		return nil, ErrUnauthorized
	}
	if resp.StatusCode >= 300 {
		return nil, apiErrorFromBody(resp)
	}

	var ds Dataset
	if err := json.NewDecoder(resp.Body).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return &ds, nil
}

// ListDatasets fetches GET /datasets/: the most recent uploads, newest
// first. The backend owns the ordering and the cap; the list is returned
// as-is.
func (c *APIClient) ListDatasets(ctx context.Context) ([]HistoryEntry, error) {
	if !c.authed {
		return nil, ErrUnauthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/datasets/", nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		return nil, ErrUnauthorized
	}
	if resp.StatusCode >= 300 {
		return nil, apiErrorFromBody(resp)
	}

	var entries []HistoryEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode dataset list: %w", err)
	}
	return entries, nil
}

// DownloadReport fetches GET /datasets/{id}/report/ and writes the binary
// payload to dir as dataset_<id>_report.pdf, returning the saved path. The
// payload is streamed through a temp file so a failed download never leaves
// a partial report behind.
func (c *APIClient) DownloadReport(ctx context.Context, id int, dir string) (string, error) {
	if !c.authed {
		return "", ErrUnauthenticated
	}

	url := fmt.Sprintf("%s/datasets/%d/report/", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		return "", ErrUnauthorized
	}
	if resp.StatusCode >= 300 {
		return "", apiErrorFromBody(resp)
	}

	dest := filepath.Join(dir, fmt.Sprintf("dataset_%d_report.pdf", id))
	tmp, err := os.CreateTemp(dir, ".report-*.tmp")
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return dest, nil
}

// apiErrorFromBody extracts the most specific message the backend offered:
// a structured "error" field, then "detail". Anything else (an HTML error
// page, plain text) leaves Message empty so callers show their own fixed
// fallback instead of raw body content.
func apiErrorFromBody(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var parsed struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	msg := ""
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch {
		case parsed.Error != "":
			msg = parsed.Error
		case parsed.Detail != "":
			msg = parsed.Detail
		}
	}

	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
