package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	hlhttp "github.com/hookline/hookline/internal/adapter/http"
	"github.com/hookline/hookline/internal/config"
	"github.com/hookline/hookline/internal/domain"
	"github.com/hookline/hookline/internal/middleware"
	"github.com/hookline/hookline/internal/port/tracker"
	"github.com/hookline/hookline/internal/service"
)

const testSecret = "test-webhook-secret"

type stubTracker struct {
	issues []tracker.Issue
	teams  []tracker.Team
	err    error
}

func (s *stubTracker) TeamIssues(context.Context, string) ([]tracker.Issue, error) {
	return s.issues, s.err
}

func (s *stubTracker) Teams(context.Context) ([]tracker.Team, error) {
	return s.teams, s.err
}

func (s *stubTracker) CreateComment(_ context.Context, _, body string) (*tracker.Comment, error) {
	return &tracker.Comment{ID: "c1", Body: body}, nil
}

func newTestRouter(t *testing.T, trk tracker.Provider) chi.Router {
	t.Helper()

	agent := service.NewAgentService(trk, nil, nil, 0)
	handlers := &hlhttp.Handlers{Agent: agent}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.DeliveryID)
	hlhttp.MountRoutes(r, handlers, config.Webhook{
		Path:   "/webhooks/linear",
		Secret: testSecret,
	})
	return r
}

func postSigned(t *testing.T, r chi.Router, payload []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/linear", bytes.NewReader(payload))
	req.Header.Set(middleware.SignatureHeader, middleware.Sign(payload, testSecret))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestWebhookAssignmentProcessed(t *testing.T) {
	r := newTestRouter(t, &stubTracker{})

	payload := []byte(`{
		"action": "update",
		"type": "Assignment",
		"data": {"assigneeId": "u-1", "issueId": "iss-7"},
		"createdAt": "2024-05-01T10:00:00Z"
	}`)

	rec := postSigned(t, r, payload)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res struct {
		Status     string  `json:"status"`
		AssigneeID *string `json:"assigneeId"`
		IssueID    *string `json:"issueId"`
		Timestamp  string  `json:"timestamp"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Status != "processed" {
		t.Fatalf("expected processed, got %q", res.Status)
	}
	if res.AssigneeID == nil || *res.AssigneeID != "u-1" {
		t.Fatalf("expected assignee u-1, got %v", res.AssigneeID)
	}
	if res.IssueID == nil || *res.IssueID != "iss-7" {
		t.Fatalf("expected issue iss-7, got %v", res.IssueID)
	}
	if _, err := time.Parse(time.RFC3339, res.Timestamp); err != nil {
		t.Fatalf("timestamp not RFC3339: %v", err)
	}
}

func TestWebhookUnknownTypeUnhandled(t *testing.T) {
	r := newTestRouter(t, &stubTracker{})

	payload := []byte(`{"action": "create", "type": "Reaction", "data": {}}`)
	rec := postSigned(t, r, payload)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var res map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res["status"] != "unhandled" || res["type"] != "Reaction" {
		t.Fatalf("unexpected response: %v", res)
	}
}

func TestWebhookMissingTypeUnhandled(t *testing.T) {
	r := newTestRouter(t, &stubTracker{})

	// Valid JSON with no type at all is still dispatched, not a parse
	// failure; it falls through to the unhandled echo.
	payload := []byte(`{"action": "create", "data": {"id": "x"}}`)
	rec := postSigned(t, r, payload)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var res map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res["status"] != "unhandled" || res["type"] != "" {
		t.Fatalf("unexpected response: %v", res)
	}
}

func TestWebhookMalformedJSONIs500(t *testing.T) {
	r := newTestRouter(t, &stubTracker{})

	payload := []byte(`{"type": "Issue", "data":`)
	rec := postSigned(t, r, payload)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestWebhookBadSignatureRejected(t *testing.T) {
	r := newTestRouter(t, &stubTracker{})

	payload := []byte(`{"type": "Issue", "action": "update", "data": {}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/linear", bytes.NewReader(payload))
	req.Header.Set(middleware.SignatureHeader, middleware.Sign(payload, "some-other-secret"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, &stubTracker{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var res struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Status != "ok" {
		t.Fatalf("expected ok, got %q", res.Status)
	}
	if _, err := time.Parse(time.RFC3339, res.Timestamp); err != nil {
		t.Fatalf("timestamp not RFC3339: %v", err)
	}
}

func TestListTeamIssues(t *testing.T) {
	trk := &stubTracker{issues: []tracker.Issue{{ID: "iss-1", Title: "First"}}}
	r := newTestRouter(t, trk)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams/team-1/issues", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var issues []tracker.Issue
	if err := json.Unmarshal(rec.Body.Bytes(), &issues); err != nil {
		t.Fatal(err)
	}
	if len(issues) != 1 || issues[0].ID != "iss-1" {
		t.Fatalf("unexpected issues: %v", issues)
	}
}

func TestListTeamIssuesNoToken(t *testing.T) {
	r := newTestRouter(t, &stubTracker{err: domain.ErrNoToken})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams/team-1/issues", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateIssueComment(t *testing.T) {
	r := newTestRouter(t, &stubTracker{})

	body := bytes.NewReader([]byte(`{"body": "Thanks, looking into it."}`))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/issues/iss-1/comments", body)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateIssueCommentEmptyBody(t *testing.T) {
	r := newTestRouter(t, &stubTracker{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/issues/iss-1/comments", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
