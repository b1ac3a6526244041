package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hookline/hookline/internal/adapter/linear"
	"github.com/hookline/hookline/internal/domain/event"
	"github.com/hookline/hookline/internal/logger"
	"github.com/hookline/hookline/internal/service"
)

const maxBodyBytes = 1 << 20

// Handlers bundles the dependencies of the HTTP surface.
type Handlers struct {
	Agent *service.AgentService

	// OAuth is used by the callback route to exchange authorization
	// codes. OnToken, when set, receives each newly issued token.
	OAuth   linear.OAuthConfig
	OnToken func(token string)
}

// HandleWebhook handles POST <webhook path>. Signature verification has
// already happened in middleware; this handler parses the envelope and
// dispatches it. A body that is not valid JSON is a 500, matching the
// contract that the endpoint never distinguishes parse failures.
func (h *Handlers) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeInternalError(w, fmt.Errorf("read webhook body: %w", err))
		return
	}

	var env event.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		writeInternalError(w, fmt.Errorf("parse webhook envelope: %w", err))
		return
	}

	result := h.Agent.HandleEvent(r.Context(), logger.RequestID(r.Context()), &env)
	writeJSON(w, http.StatusOK, result)
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// OAuthCallback handles GET /oauth/callback, exchanging the tracker's
// authorization code for an app access token (actor=app).
func (h *Handlers) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if !requireField(w, code, "code") {
		return
	}

	redirectURI := "https://" + r.Host + r.URL.Path

	tok, err := linear.ExchangeCode(r.Context(), h.OAuth, code, redirectURI)
	if err != nil {
		writeInternalError(w, fmt.Errorf("oauth exchange: %w", err))
		return
	}

	if h.OnToken != nil {
		h.OnToken(tok.AccessToken)
	}

	writeJSON(w, http.StatusOK, tok)
}

// ListTeams handles GET /api/v1/teams.
func (h *Handlers) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.Agent.Teams(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

// ListTeamIssues handles GET /api/v1/teams/{id}/issues.
func (h *Handlers) ListTeamIssues(w http.ResponseWriter, r *http.Request) {
	teamID := urlParam(r, "id")
	if !requireField(w, teamID, "team id") {
		return
	}

	issues, err := h.Agent.TeamIssues(r.Context(), teamID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, issues)
}

type createCommentRequest struct {
	Body string `json:"body"`
}

// CreateIssueComment handles POST /api/v1/issues/{id}/comments.
func (h *Handlers) CreateIssueComment(w http.ResponseWriter, r *http.Request) {
	issueID := urlParam(r, "id")
	if !requireField(w, issueID, "issue id") {
		return
	}

	req, ok := readJSON[createCommentRequest](w, r, maxBodyBytes)
	if !ok {
		return
	}
	if !requireField(w, req.Body, "body") {
		return
	}

	comment, err := h.Agent.CreateComment(r.Context(), issueID, req.Body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}
