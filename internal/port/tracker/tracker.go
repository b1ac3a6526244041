// Package tracker defines the port interface for the issue tracker the
// agent acts against.
package tracker

import "context"

// User identifies a tracker user on an issue.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Issue is an issue as returned by the tracker's fixed query field set.
type Issue struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	State       string `json:"state"`
	Assignee    *User  `json:"assignee,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// Team is a tracker team, as returned by the ad hoc team listing.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Key  string `json:"key,omitempty"`
}

// Comment is a created issue comment.
type Comment struct {
	ID        string `json:"id"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
}

// Provider is the port interface for tracker API operations.
type Provider interface {
	TeamIssues(ctx context.Context, teamID string) ([]Issue, error)
	CreateComment(ctx context.Context, issueID, body string) (*Comment, error)
	Teams(ctx context.Context) ([]Team, error)
}
