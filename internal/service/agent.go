// Package service contains the agent's event handling logic.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hookline/hookline/internal/adapter/otel"
	"github.com/hookline/hookline/internal/domain"
	"github.com/hookline/hookline/internal/domain/event"
	"github.com/hookline/hookline/internal/port/cache"
	"github.com/hookline/hookline/internal/port/completion"
	"github.com/hookline/hookline/internal/port/tracker"
)

// AgentService routes webhook events to handlers and drives the
// AI-generated responses back to the tracker.
type AgentService struct {
	tracker   tracker.Provider
	completer completion.Completer
	cache     cache.Cache
	issueTTL  time.Duration
	metrics   *otel.Metrics
	now       func() time.Time
}

// NewAgentService creates an agent service. completer may be nil, which
// disables AI responses; c may be nil, which disables issue caching.
func NewAgentService(trk tracker.Provider, comp completion.Completer, c cache.Cache, issueTTL time.Duration) *AgentService {
	return &AgentService{
		tracker:   trk,
		completer: comp,
		cache:     c,
		issueTTL:  issueTTL,
		now:       time.Now,
	}
}

// SetMetrics attaches metric instruments. Safe to leave unset.
func (s *AgentService) SetMetrics(m *otel.Metrics) {
	s.metrics = m
}

// HandleEvent classifies the envelope by its declared type and routes it
// to the matching handler. Unknown types are echoed back as unhandled;
// they are never an error.
func (s *AgentService) HandleEvent(ctx context.Context, deliveryID string, env *event.Envelope) any {
	ctx, span := otel.StartEventSpan(ctx, deliveryID, string(env.Type), string(env.Action))
	defer span.End()

	if s.metrics != nil {
		s.metrics.EventsReceived.Add(ctx, 1)
	}

	switch env.Type {
	case event.TypeAssignment:
		return s.handleAssignment(ctx, env)
	case event.TypeIssue:
		return s.handleIssueUpdate(ctx, env)
	case event.TypeComment:
		return event.CommentResult{Status: event.StatusCommentProcessed}
	default:
		slog.Info("unhandled event type", "type", env.Type, "delivery_id", deliveryID)
		if s.metrics != nil {
			s.metrics.EventsUnhandled.Add(ctx, 1)
		}
		return event.UnhandledResult{Status: event.StatusUnhandled, Type: env.Type}
	}
}

// assignmentData is the subset of an Assignment payload the handler
// reads. Anything missing stays nil and is echoed back as null.
type assignmentData struct {
	AssigneeID *string `json:"assigneeId"`
	IssueID    *string `json:"issueId"`
	IssueTitle string  `json:"issueTitle"`
}

func (s *AgentService) handleAssignment(ctx context.Context, env *event.Envelope) event.AssignmentResult {
	var data assignmentData
	// data is not schema-validated; a shape mismatch just leaves the ids null.
	_ = json.Unmarshal(env.Data, &data)

	slog.Info("assignment event",
		"action", env.Action,
		"assignee_id", strOrEmpty(data.AssigneeID),
		"issue_id", strOrEmpty(data.IssueID),
	)

	if env.Action == event.ActionCreate && data.IssueID != nil && s.completer != nil {
		// Respond out of band; the webhook response must not wait on
		// the completion service. Errors are logged, not returned.
		go s.respondToAssignment(context.WithoutCancel(ctx), *data.IssueID, data.IssueTitle)
	}

	return event.AssignmentResult{
		Status:     event.StatusProcessed,
		AssigneeID: data.AssigneeID,
		IssueID:    data.IssueID,
		Timestamp:  s.now().UTC(),
	}
}

type issueData struct {
	ID *string `json:"id"`
}

func (s *AgentService) handleIssueUpdate(_ context.Context, env *event.Envelope) event.IssueResult {
	var data issueData
	_ = json.Unmarshal(env.Data, &data)

	slog.Info("issue event", "action", env.Action, "issue_id", strOrEmpty(data.ID))

	return event.IssueResult{
		Status:    event.StatusProcessed,
		IssueID:   data.ID,
		Timestamp: s.now().UTC(),
	}
}

// respondToAssignment asks the completion service for a short kickoff
// note and posts it as a comment on the assigned issue.
func (s *AgentService) respondToAssignment(ctx context.Context, issueID, issueTitle string) {
	ctx, span := otel.StartCompletionSpan(ctx, issueID)
	defer span.End()

	prompt := "You were just assigned an issue in the team's tracker. " +
		"Write a brief, friendly kickoff comment (two or three sentences) acknowledging the assignment " +
		"and outlining how you will approach it."
	if issueTitle != "" {
		prompt += fmt.Sprintf(" The issue is titled: %q.", issueTitle)
	}

	start := s.now()
	text, err := s.completer.Complete(ctx, prompt)
	if s.metrics != nil {
		s.metrics.CompletionTime.Record(ctx, s.now().Sub(start).Seconds())
	}
	if err != nil {
		slog.Error("assignment response: completion failed", "issue_id", issueID, "error", err)
		return
	}

	comment, err := s.tracker.CreateComment(ctx, issueID, text)
	if err != nil {
		slog.Error("assignment response: create comment failed", "issue_id", issueID, "error", err)
		return
	}

	if s.metrics != nil {
		s.metrics.CommentsCreated.Add(ctx, 1)
	}
	slog.Info("assignment response posted", "issue_id", issueID, "comment_id", comment.ID)
}

// TeamIssues returns a team's issues, served from the in-process cache
// when a fresh copy is available.
func (s *AgentService) TeamIssues(ctx context.Context, teamID string) ([]tracker.Issue, error) {
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", domain.ErrValidation)
	}

	key := "issues:" + teamID

	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var issues []tracker.Issue
			if err := json.Unmarshal(data, &issues); err == nil {
				return issues, nil
			}
		}
	}

	ctx, span := otel.StartTrackerSpan(ctx, "team_issues")
	defer span.End()

	issues, err := s.tracker.TeamIssues(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(issues); err == nil {
			_ = s.cache.Set(ctx, key, data, s.issueTTL)
		}
	}
	return issues, nil
}

// Teams lists the workspace's teams.
func (s *AgentService) Teams(ctx context.Context) ([]tracker.Team, error) {
	ctx, span := otel.StartTrackerSpan(ctx, "teams")
	defer span.End()
	return s.tracker.Teams(ctx)
}

// CreateComment posts a comment on an issue and invalidates nothing:
// comments do not appear in the cached issue field set.
func (s *AgentService) CreateComment(ctx context.Context, issueID, body string) (*tracker.Comment, error) {
	if issueID == "" || body == "" {
		return nil, fmt.Errorf("%w: issue id and body are required", domain.ErrValidation)
	}

	ctx, span := otel.StartTrackerSpan(ctx, "create_comment")
	defer span.End()
	return s.tracker.CreateComment(ctx, issueID, body)
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
