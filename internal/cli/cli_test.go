package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func reportServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generate_report", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"employee_name": req["employee_name"],
			"report":        "Employee ID: " + req["employee_name"] + "\n\nSummary: " + strings.TrimSpace(req["logs"]),
		})
	}))
}

func TestReportFromStdin(t *testing.T) {
	srv := reportServer(t)
	defer srv.Close()

	out, _, err := runCLI(t, "Employee E001 completed 11 tasks\n", "report", "--api", srv.URL, "-e", "E001", "-l", "-")
	require.NoError(t, err)
	assert.Equal(t, "Employee ID: E001\n\nSummary: Employee E001 completed 11 tasks\n", out)
}

func TestReportWritesPDF(t *testing.T) {
	srv := reportServer(t)
	defer srv.Close()

	dir := t.TempDir()
	logsPath := filepath.Join(dir, "logs.txt")
	pdfPath := filepath.Join(dir, "out.pdf")
	require.NoError(t, os.WriteFile(logsPath, []byte("Employee E002 fixed 5 bugs"), 0o644))

	_, _, err := runCLI(t, "", "report", "--api", srv.URL, "-e", "E002", "-l", logsPath, "--pdf", pdfPath)
	require.NoError(t, err)

	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestReportPlaceholderOnServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Failed to generate report"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	out, stderr, err := runCLI(t, "Employee E003 logs", "report", "--api", srv.URL, "-e", "E003", "-l", "-")
	require.Error(t, err)
	assert.Equal(t, "Summary generation failed.\n", out)
	assert.Contains(t, stderr, "API error")
	assert.Contains(t, stderr, "status 500")
}

func TestReportPlaceholderWhenUnreachable(t *testing.T) {
	srv := reportServer(t)
	url := srv.URL
	srv.Close()

	out, _, err := runCLI(t, "Employee E004 logs", "report", "--api", url, "-e", "E004", "-l", "-")
	require.Error(t, err)
	assert.Equal(t, "Summary generation failed.\n", out)
}

func TestReportRequiresLogs(t *testing.T) {
	_, _, err := runCLI(t, "   ", "report", "-e", "E001", "-l", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "please provide logs")

	_, _, err = runCLI(t, "", "report", "-l", "-")
	assert.Error(t, err)
}

func TestHealthCommand(t *testing.T) {
	healthy := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"error"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	out, _, err := runCLI(t, "", "health", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "ok"`)

	healthy = false
	_, _, err = runCLI(t, "", "health", "--api", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
