package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/perfeval/backend/internal/config"
	"github.com/perfeval/backend/internal/llm"
	"github.com/perfeval/backend/internal/models"
	"github.com/perfeval/backend/internal/services"
	"github.com/perfeval/backend/internal/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeEvaluator struct {
	calls    int
	employee string
	logs     string
	err      error
}

func (f *fakeEvaluator) Evaluate(_ context.Context, employeeID, rawLogs string) (*models.Report, error) {
	f.calls++
	f.employee = employeeID
	f.logs = rawLogs
	if f.err != nil {
		return nil, f.err
	}
	return &models.Report{EmployeeName: employeeID, Report: "Employee ID: " + employeeID + "\n\nSummary: steady"}, nil
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newReportRouter(eval Evaluator) (*gin.Engine, *ReportController) {
	r := gin.New()
	r.SetHTMLTemplate(web.Templates())
	rc := NewReportController(eval)
	r.GET("/", rc.Index)
	r.POST("/generate_report", rc.GenerateReport)
	r.POST("/generate_report/pdf", rc.RenderPDF)
	return r, rc
}

func TestGenerateReportRejectsMalformedBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing employee_name", `{"logs":"Employee E001 did things"}`},
		{"missing logs", `{"employee_name":"E001"}`},
		{"null logs", `{"employee_name":"E001","logs":null}`},
		{"blank employee_name", `{"employee_name":"  ","logs":"x"}`},
		{"not json", `employee_name=E001`},
		{"wrong type", `{"employee_name":1,"logs":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := &fakeEvaluator{}
			r, _ := newReportRouter(eval)

			w := doJSON(r, http.MethodPost, "/generate_report", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
			assert.Equal(t, 0, eval.calls, "no pipeline call on invalid input")
		})
	}
}

func TestGenerateReportSuccess(t *testing.T) {
	eval := &fakeEvaluator{}
	r, _ := newReportRouter(eval)

	w := doJSON(r, http.MethodPost, "/generate_report", `{"employee_name":"E001","logs":"Employee E001 completed 11 tasks"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "E001", resp.EmployeeName)
	assert.Contains(t, resp.Report, "E001")
	assert.Equal(t, "Employee E001 completed 11 tasks", eval.logs)
}

func TestGenerateReportAcceptsEmptyLogs(t *testing.T) {
	eval := &fakeEvaluator{}
	r, _ := newReportRouter(eval)

	w := doJSON(r, http.MethodPost, "/generate_report", `{"employee_name":"E002","logs":""}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, eval.calls)
	assert.Equal(t, "", eval.logs)
}

func TestGenerateReportPipelineFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"indexing", fmt.Errorf("%w: store down", services.ErrIndexingFailure), http.StatusInternalServerError},
		{"retrieval", fmt.Errorf("%w: 401", services.ErrRetrievalFailure), http.StatusInternalServerError},
		{"generation", fmt.Errorf("%w: quota", services.ErrGenerationFailure), http.StatusInternalServerError},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
		{"input", fmt.Errorf("%w: bad id", services.ErrInputFailure), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newReportRouter(&fakeEvaluator{err: tt.err})
			w := doJSON(r, http.MethodPost, "/generate_report", `{"employee_name":"E003","logs":"x"}`)
			assert.Equal(t, tt.want, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
			if tt.want == http.StatusInternalServerError {
				assert.Equal(t, "Failed to generate report", body["error"])
			}
		})
	}
}

func TestRenderPDF(t *testing.T) {
	r, rc := newReportRouter(&fakeEvaluator{})
	rc.now = func() time.Time { return time.Unix(1700000000, 0) }

	w := doJSON(r, http.MethodPost, "/generate_report/pdf", `{"employee_name":"E004","report":"Summary generation failed."}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="performance_summary_E004_1700000000.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = doJSON(r, http.MethodPost, "/generate_report/pdf", `{"report":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIndexServesForm(t *testing.T) {
	r, _ := newReportRouter(&fakeEvaluator{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Generate Summary")
	assert.Contains(t, w.Body.String(), `<option value="E005">E005</option>`)
}

type stubHistory struct {
	runs []models.EvaluationRun
	err  error
	last struct {
		employee string
		limit    int
	}
}

func (s *stubHistory) Start(context.Context, string) (*models.EvaluationRun, error) {
	return nil, nil
}

func (s *stubHistory) Finish(context.Context, *models.EvaluationRun) error { return nil }

func (s *stubHistory) List(_ context.Context, employeeID string, limit int) ([]models.EvaluationRun, error) {
	s.last.employee = employeeID
	s.last.limit = limit
	return s.runs, s.err
}

func (s *stubHistory) Get(_ context.Context, id string) (*models.EvaluationRun, error) {
	for _, run := range s.runs {
		if run.ID == id {
			return &run, nil
		}
	}
	return nil, services.ErrRunNotFound
}

func newAdminRouter(history services.HistoryRecorder, tracker *llm.Tracker) *gin.Engine {
	r := gin.New()
	ac := NewAdminController(history, tracker)
	r.GET("/evaluations", ac.ListEvaluations)
	r.GET("/evaluations/:id", ac.GetEvaluation)
	r.GET("/llm-api-calls", ac.GetLLMAPICalls)
	r.DELETE("/llm-api-calls", ac.ClearLLMAPICalls)
	return r
}

func TestAdminEvaluations(t *testing.T) {
	history := &stubHistory{runs: []models.EvaluationRun{
		{ID: "4b0a5f7e-8d5e-4c1b-9d7a-2f1f3c9b6a11", EmployeeID: "E001", Status: models.EvaluationStatusCompleted},
	}}
	r := newAdminRouter(history, llm.NewTracker())

	w := doJSON(r, http.MethodGet, "/evaluations?employee=E001&limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
	assert.Equal(t, "E001", history.last.employee)
	assert.Equal(t, 5, history.last.limit)

	w = doJSON(r, http.MethodGet, "/evaluations?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/evaluations/4b0a5f7e-8d5e-4c1b-9d7a-2f1f3c9b6a11", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"employeeId":"E001"`)

	w = doJSON(r, http.MethodGet, "/evaluations/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminEvaluationsWithoutDatabase(t *testing.T) {
	r := newAdminRouter(services.NoopHistory{}, nil)

	w := doJSON(r, http.MethodGet, "/evaluations", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(r, http.MethodGet, "/evaluations/abc", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAdminLLMAPICalls(t *testing.T) {
	tracker := llm.NewTracker()
	tracker.Track(llm.APICall{Provider: "gemini", Model: "gemini-2.5-flash", CallType: "generate", Status: 200})
	r := newAdminRouter(services.NoopHistory{}, tracker)

	w := doJSON(r, http.MethodGet, "/llm-api-calls", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
	assert.Contains(t, w.Body.String(), `"provider":"gemini"`)

	w = doJSON(r, http.MethodDelete, "/llm-api-calls", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, tracker.Calls())

	w = doJSON(r, http.MethodGet, "/llm-api-calls", "")
	assert.Contains(t, w.Body.String(), `"calls":[]`)
}

func TestAdminLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := config.AdminConfig{JWTSecret: "jwt-secret", PasswordHash: string(hash), TokenTTL: time.Hour}

	r := gin.New()
	r.POST("/login", NewAuthController(cfg).Login)

	w := doJSON(r, http.MethodPost, "/login", `{"password":"s3cret"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("jwt-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "admin", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)

	w = doJSON(r, http.MethodPost, "/login", `{"password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/login", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminLoginNotConfigured(t *testing.T) {
	r := gin.New()
	r.POST("/login", NewAuthController(config.AdminConfig{}).Login)

	w := doJSON(r, http.MethodPost, "/login", `{"password":"x"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		ping     func(context.Context) error
		want     int
		dbStatus string
	}{
		{"no database", nil, http.StatusOK, "disabled"},
		{"database up", func(context.Context) error { return nil }, http.StatusOK, "ok"},
		{"database down", func(context.Context) error { return errors.New("connection refused") }, http.StatusServiceUnavailable, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", NewHealthController(tt.ping, "bolt", "ollama", "llama2:13b").Health)

			w := doJSON(r, http.MethodGet, "/health", "")
			assert.Equal(t, tt.want, w.Code)

			var body struct {
				Status   string `json:"status"`
				Services struct {
					Database struct {
						Status string `json:"status"`
					} `json:"database"`
					VectorStore struct {
						Backend string `json:"backend"`
					} `json:"vector_store"`
				} `json:"services"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.dbStatus, body.Services.Database.Status)
			assert.Equal(t, "bolt", body.Services.VectorStore.Backend)
		})
	}
}
