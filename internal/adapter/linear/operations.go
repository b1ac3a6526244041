package linear

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hookline/hookline/internal/port/tracker"
)

const teamIssuesQuery = `
query GetTeamIssues($teamId: String!) {
    team(id: $teamId) {
        issues {
            nodes {
                id
                title
                description
                state {
                    name
                }
                assignee {
                    id
                    name
                    email
                }
                createdAt
                updatedAt
            }
        }
    }
}`

const createCommentMutation = `
mutation CreateComment($issueId: String!, $body: String!) {
    commentCreate(input: {
        issueId: $issueId
        body: $body
    }) {
        success
        comment {
            id
            body
            createdAt
        }
    }
}`

const teamsQuery = `
query {
    teams {
        nodes {
            id
            name
            key
        }
    }
}`

// TeamIssues returns the issues of a team with the fixed field set.
func (c *Client) TeamIssues(ctx context.Context, teamID string) ([]tracker.Issue, error) {
	data, err := c.Do(ctx, teamIssuesQuery, map[string]any{"teamId": teamID})
	if err != nil {
		return nil, fmt.Errorf("team issues: %w", err)
	}

	var result struct {
		Team struct {
			Issues struct {
				Nodes []struct {
					ID          string `json:"id"`
					Title       string `json:"title"`
					Description string `json:"description"`
					State       struct {
						Name string `json:"name"`
					} `json:"state"`
					Assignee  *tracker.User `json:"assignee"`
					CreatedAt string        `json:"createdAt"`
					UpdatedAt string        `json:"updatedAt"`
				} `json:"nodes"`
			} `json:"issues"`
		} `json:"team"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("unmarshal team issues: %w", err)
	}

	issues := make([]tracker.Issue, 0, len(result.Team.Issues.Nodes))
	for _, n := range result.Team.Issues.Nodes {
		issues = append(issues, tracker.Issue{
			ID:          n.ID,
			Title:       n.Title,
			Description: n.Description,
			State:       n.State.Name,
			Assignee:    n.Assignee,
			CreatedAt:   n.CreatedAt,
			UpdatedAt:   n.UpdatedAt,
		})
	}
	return issues, nil
}

// CreateComment creates a comment on an issue with the fixed mutation.
func (c *Client) CreateComment(ctx context.Context, issueID, body string) (*tracker.Comment, error) {
	data, err := c.Do(ctx, createCommentMutation, map[string]any{
		"issueId": issueID,
		"body":    body,
	})
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	var result struct {
		CommentCreate struct {
			Success bool            `json:"success"`
			Comment tracker.Comment `json:"comment"`
		} `json:"commentCreate"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("unmarshal comment: %w", err)
	}
	if !result.CommentCreate.Success {
		return nil, fmt.Errorf("create comment on %s: tracker reported failure", issueID)
	}

	return &result.CommentCreate.Comment, nil
}

// Teams lists the workspace's teams. Used by the manual CLI path.
func (c *Client) Teams(ctx context.Context) ([]tracker.Team, error) {
	data, err := c.Do(ctx, teamsQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("teams: %w", err)
	}

	var result struct {
		Teams struct {
			Nodes []tracker.Team `json:"nodes"`
		} `json:"teams"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("unmarshal teams: %w", err)
	}
	return result.Teams.Nodes, nil
}
