package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

type mockRepo struct {
	entries      []*Entry
	gotLimit     int
	gotLevel     string
	gotWithin    time.Duration
	gotRetention time.Duration
	purged       int64
	recentErr    error
}

func (m *mockRepo) Record(ctx context.Context, level, component, message string, opts ...Option) {
	e := &Entry{Level: level, Component: component, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	m.entries = append(m.entries, e)
}

func (m *mockRepo) Recent(ctx context.Context, limit int, level string) ([]*Entry, error) {
	m.gotLimit = limit
	m.gotLevel = level
	return m.entries, m.recentErr
}

func (m *mockRepo) RecentErrors(ctx context.Context, within time.Duration) ([]*Entry, error) {
	m.gotWithin = within
	return m.entries, m.recentErr
}

func (m *mockRepo) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	m.gotRetention = retention
	return m.purged, nil
}

func TestListLogs(t *testing.T) {
	repo := &mockRepo{entries: []*Entry{
		{Level: LevelInfo, Component: "engine", Message: "started"},
		{Level: LevelError, Component: "engine", Message: "failed"},
	}}
	h := NewHandler(repo)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/logs?limit=50&level=error", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListLogs(c); err != nil {
		t.Fatalf("ListLogs() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if repo.gotLimit != 50 {
		t.Errorf("limit = %d, want 50", repo.gotLimit)
	}
	if repo.gotLevel != LevelError {
		t.Errorf("level = %q, want ERROR", repo.gotLevel)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["count"].(float64) != 2 {
		t.Errorf("count = %v, want 2", body["count"])
	}
}

func TestListLogs_BadParams(t *testing.T) {
	h := NewHandler(&mockRepo{})
	e := echo.New()

	for _, target := range []string{"/api/v1/logs?limit=-1", "/api/v1/logs?level=VERBOSE"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := h.ListLogs(c)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusBadRequest {
			t.Errorf("ListLogs(%s) error = %v, want 400", target, err)
		}
	}
}

func TestListRecentErrors(t *testing.T) {
	repo := &mockRepo{}
	h := NewHandler(repo)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/logs/errors?hours=6", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListRecentErrors(c); err != nil {
		t.Fatalf("ListRecentErrors() error = %v", err)
	}
	if repo.gotWithin != 6*time.Hour {
		t.Errorf("within = %v, want 6h", repo.gotWithin)
	}
}

func TestPurgeLogs(t *testing.T) {
	repo := &mockRepo{purged: 42}
	h := NewHandler(repo)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/logs?days=7", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.PurgeLogs(c); err != nil {
		t.Fatalf("PurgeLogs() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if repo.gotRetention != 7*24*time.Hour {
		t.Errorf("retention = %v, want 168h", repo.gotRetention)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["removed"].(float64) != 42 {
		t.Errorf("removed = %v, want 42", body["removed"])
	}
	if body["days"].(float64) != 7 {
		t.Errorf("days = %v, want 7", body["days"])
	}
}

func TestPurgeLogs_BadDays(t *testing.T) {
	h := NewHandler(&mockRepo{})
	e := echo.New()

	for _, target := range []string{"/api/v1/logs?days=0", "/api/v1/logs?days=soon"} {
		req := httptest.NewRequest(http.MethodDelete, target, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := h.PurgeLogs(c)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusBadRequest {
			t.Errorf("PurgeLogs(%s) error = %v, want 400", target, err)
		}
	}
}

func TestOptions(t *testing.T) {
	repo := &mockRepo{}
	repo.Record(context.Background(), LevelError, "engine", "boom",
		WithDetail("stack"), WithEndpoint("/api/v1/analysis"))

	e := repo.entries[0]
	if e.Detail == nil || *e.Detail != "stack" {
		t.Errorf("Detail = %v, want stack", e.Detail)
	}
	if e.Endpoint == nil || *e.Endpoint != "/api/v1/analysis" {
		t.Errorf("Endpoint = %v, want /api/v1/analysis", e.Endpoint)
	}
}
