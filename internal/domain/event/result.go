package event

import "time"

// StatusProcessed is reported when an event was routed to a handler.
const StatusProcessed = "processed"

// StatusCommentProcessed is reported for comment events.
const StatusCommentProcessed = "comment_processed"

// StatusUnhandled is reported for event types with no handler.
const StatusUnhandled = "unhandled"

// AssignmentResult is the response for an Assignment event. Identifier
// fields are pointers so that absent values render as JSON null rather
// than being omitted.
type AssignmentResult struct {
	Status     string    `json:"status"`
	AssigneeID *string   `json:"assigneeId"`
	IssueID    *string   `json:"issueId"`
	Timestamp  time.Time `json:"timestamp"`
}

// IssueResult is the response for an Issue event.
type IssueResult struct {
	Status    string    `json:"status"`
	IssueID   *string   `json:"issueId"`
	Timestamp time.Time `json:"timestamp"`
}

// CommentResult is the response for a Comment event.
type CommentResult struct {
	Status string `json:"status"`
}

// UnhandledResult echoes back an event type nothing is registered for.
type UnhandledResult struct {
	Status string `json:"status"`
	Type   Type   `json:"type"`
}
