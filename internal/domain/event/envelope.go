// Package event defines domain types for tracker webhook events.
package event

import "encoding/json"

// Type classifies the webhook event by the entity it describes.
type Type string

const (
	TypeIssue      Type = "Issue"
	TypeComment    Type = "Comment"
	TypeAssignment Type = "Assignment"
)

// Action is the change the tracker reports for the entity.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionRemove Action = "remove"
)

// Envelope is the JSON payload the tracker delivers for one event.
// Data's shape depends on Type and is not schema-validated; handlers
// pull the identifiers they need and tolerate anything missing.
type Envelope struct {
	Action    Action          `json:"action"`
	Type      Type            `json:"type"`
	Data      json.RawMessage `json:"data"`
	CreatedAt string          `json:"createdAt,omitempty"`
	UpdatedAt string          `json:"updatedAt,omitempty"`
}
