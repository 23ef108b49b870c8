package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ManasMalla/devfest-vizag-2025/internal/api/http/handlers"
	"github.com/ManasMalla/devfest-vizag-2025/internal/auth"
	"github.com/ManasMalla/devfest-vizag-2025/internal/cache"
	"github.com/ManasMalla/devfest-vizag-2025/internal/config"
	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/notify"
	"github.com/ManasMalla/devfest-vizag-2025/internal/observability"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository/memory"
)

type nopSender struct{}

func (nopSender) SendToTopic(context.Context, string, notify.Message) error { return nil }

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

type harness struct {
	app      *fiber.App
	repos    repository.Set
	provider *auth.LocalProvider
}

func newHarness(t *testing.T, health map[string]handlers.Pinger) *harness {
	t.Helper()
	cfg := &config.Config{
		App:          config.AppConfig{Name: "devfest-hub", Version: "test"},
		Cache:        config.CacheConfig{TTLSeconds: 60},
		Notification: config.NotificationConfig{PushTopic: "announcements", TimeoutSeconds: 1, Workers: 1, QueueSize: 8},
		Workflow:     config.WorkflowConfig{ApplicationsPageSize: 10},
	}
	repos := memory.New().Repositories()
	provider := auth.NewLocalProvider("test-secret", "devfest-hub", repos.Users)
	deps := Dependencies{
		Config:     cfg,
		Repos:      repos,
		Provider:   provider,
		CacheStore: cache.NewMemoryStore(),
		Sender:     nopSender{},
		Logger:     zap.NewNop(),
		Health:     health,
	}
	svc := NewServices(deps)
	t.Cleanup(func() {
		require.NoError(t, svc.Stop(context.Background()))
	})
	return &harness{app: NewHTTP(deps, svc, observability.NewMetrics()), repos: repos, provider: provider}
}

func (h *harness) token(t *testing.T, uid string, admin bool) string {
	t.Helper()
	ctx := context.Background()
	email := uid + "@example.com"
	require.NoError(t, h.repos.Users.Upsert(ctx, &repository.DirectoryUser{UID: uid, Email: email}))
	if admin {
		require.NoError(t, h.repos.Admins.Add(ctx, &domain.Admin{UID: uid, Email: email}))
	}
	token, _, err := h.provider.IssueToken(uid, email, time.Hour)
	require.NoError(t, err)
	return token
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func (h *harness) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func TestApplicationFlowOverHTTP(t *testing.T) {
	h := newHarness(t, nil)
	admin := h.token(t, "admin", true)
	applicant := h.token(t, "u1", false)

	status, env := h.do(t, http.MethodPost, "/api/jobs", admin, map[string]any{
		"title":               "Stage crew",
		"description":         "Keep the main stage running.",
		"category":            "Volunteer",
		"additionalQuestions": []string{"Availability?"},
	})
	require.Equal(t, http.StatusCreated, status)
	var job struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &job))
	assert.Equal(t, "open", job.Status)

	submit := map[string]any{
		"jobId":    job.ID,
		"fullName": "Asha Rao",
		"phone":    "9876543210",
		"whatsapp": "9876543210",
		"answers":  map[string]string{"Availability?": "Both days"},
	}
	status, env = h.do(t, http.MethodPost, "/api/applications", "", submit)
	require.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", env.Error.Code)

	status, env = h.do(t, http.MethodPost, "/api/applications", applicant, submit)
	require.Equal(t, http.StatusCreated, status)
	var app struct {
		ID                   string   `json:"id"`
		Status               string   `json:"status"`
		UserEmail            string   `json:"userEmail"`
		AvailableTransitions []string `json:"availableTransitions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &app))
	assert.Equal(t, "Applied", app.Status)
	assert.Equal(t, "u1@example.com", app.UserEmail)
	assert.ElementsMatch(t, []string{"Shortlisted", "Rejected"}, app.AvailableTransitions)

	status, env = h.do(t, http.MethodPost, "/api/applications", applicant, submit)
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	status, env = h.do(t, http.MethodGet, "/api/applications", applicant, nil)
	require.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	status, env = h.do(t, http.MethodPatch, "/api/applications/"+app.ID+"/status", admin, map[string]string{"status": "Accepted"})
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "NO_ACTIONS_AVAILABLE", env.Error.Code)
	assert.Equal(t, "Applied", env.Error.Details["current"])

	status, _ = h.do(t, http.MethodPatch, "/api/applications/"+app.ID+"/status", admin, map[string]string{"status": "Shortlisted"})
	require.Equal(t, http.StatusOK, status)

	status, env = h.do(t, http.MethodGet, "/api/applications?status=Shortlisted&limit=5", admin, nil)
	require.Equal(t, http.StatusOK, status)
	var page struct {
		Items      []map[string]any `json:"items"`
		NextCursor *string          `json:"nextCursor"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Items, 1)
	assert.Nil(t, page.NextCursor)
}

func TestValidationEnvelope(t *testing.T) {
	h := newHarness(t, nil)
	admin := h.token(t, "admin", true)

	status, env := h.do(t, http.MethodPost, "/api/announcements", admin, map[string]string{"content": "short"})
	require.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Equal(t, "Invalid input.", env.Error.Message)
	assert.Contains(t, env.Error.Details, "content")

	status, env = h.do(t, http.MethodGet, "/api/applications?limit=abc", admin, nil)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Error.Details, "limit")
}

func TestStrictRequestBodies(t *testing.T) {
	h := newHarness(t, nil)
	admin := h.token(t, "admin", true)

	job := map[string]any{
		"title":       "Stage crew",
		"description": "Keep the main stage running.",
		"category":    "Volunteer",
		"stauts":      "closed",
	}
	status, env := h.do(t, http.MethodPost, "/api/jobs", admin, job)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Equal(t, "Unknown field.", env.Error.Details["stauts"])

	job["bogusField"] = 42
	status, env = h.do(t, http.MethodPost, "/api/jobs", admin, job)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)

	status, env = h.do(t, http.MethodPost, "/api/agenda/tracks", admin, map[string]any{"name": 7})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid type.", env.Error.Details["name"])

	status, env = h.do(t, http.MethodPut, "/api/volunteers/v1/lead", admin, map[string]any{})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Error.Details, "isLead")

	status, env = h.do(t, http.MethodGet, "/api/jobs", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, "[]", string(env.Data))
}

func TestNotFoundEnvelope(t *testing.T) {
	h := newHarness(t, nil)

	status, env := h.do(t, http.MethodGet, "/api/jobs/missing", "", nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	status, env = h.do(t, http.MethodGet, "/api/nowhere", "", nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestInvalidTokenIsAnonymous(t *testing.T) {
	h := newHarness(t, nil)

	status, env := h.do(t, http.MethodGet, "/api/jobs", "not-a-token", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, "[]", string(env.Data))

	status, env = h.do(t, http.MethodGet, "/api/me", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", env.Error.Code)
}

func TestAgendaTrackRoutes(t *testing.T) {
	h := newHarness(t, nil)
	admin := h.token(t, "admin", true)

	status, env := h.do(t, http.MethodPost, "/api/agenda/tracks", admin, map[string]string{"name": "Main"})
	require.Equal(t, http.StatusCreated, status)
	var track struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &track))

	status, _ = h.do(t, http.MethodPost, "/api/agenda", admin, map[string]string{
		"title": "Keynote", "trackId": track.ID, "startTime": "09:00", "endTime": "09:45",
	})
	require.Equal(t, http.StatusCreated, status)

	status, env = h.do(t, http.MethodDelete, "/api/agenda/tracks/"+track.ID, admin, nil)
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	status, env = h.do(t, http.MethodGet, "/api/agenda/tracks", "", nil)
	require.Equal(t, http.StatusOK, status)
	var tracks []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &tracks))
	assert.Len(t, tracks, 1)
}

func TestHealthEndpoints(t *testing.T) {
	h := newHarness(t, map[string]handlers.Pinger{"postgres": failingPinger{}})

	status, _ := h.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, env := h.do(t, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", env.Error.Code)
	assert.Equal(t, "connection refused", env.Error.Details["postgres"])

	status, env = h.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, status)
	var snap map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.NotEmpty(t, snap)
}
