package operations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v74/github"
	"github.com/jrsteele09/gh-agent-gateway/internal/utils"
)

type issueView struct {
	ID        int64       `json:"id"`
	Number    int         `json:"number"`
	Title     string      `json:"title"`
	Body      string      `json:"body"`
	State     string      `json:"state"`
	HTMLURL   string      `json:"html_url"`
	User      userRef     `json:"user"`
	Labels    []labelView `json:"labels"`
	CreatedAt time.Time   `json:"created_at,omitzero"`
	UpdatedAt time.Time   `json:"updated_at,omitzero"`
}

func issueViewOf(i *github.Issue) issueView {
	return issueView{
		ID:        i.GetID(),
		Number:    i.GetNumber(),
		Title:     i.GetTitle(),
		Body:      i.GetBody(),
		State:     i.GetState(),
		HTMLURL:   i.GetHTMLURL(),
		User:      userRefOrUnknown(i.GetUser()),
		Labels:    labelsOf(i.Labels),
		CreatedAt: i.GetCreatedAt().Time,
		UpdatedAt: i.GetUpdatedAt().Time,
	}
}

type issueSummary struct {
	ID     int64  `json:"id"`
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body,omitempty"`
	State  string `json:"state"`
}

func validIssueState(p Params) error {
	return oneOf(FieldState, p.State, "open", "closed")
}

func issueOps() []descriptor {
	return []descriptor{
		op[[]*github.Issue]{
			name: ListIssues,
			call: func(ctx context.Context, c *github.Client, p Params) ([]*github.Issue, error) {
				issues, _, err := c.Issues.ListByRepo(ctx, p.Owner, p.Repo, &github.IssueListByRepoOptions{
					State:       "all",
					ListOptions: github.ListOptions{PerPage: 50},
				})
				return issues, err
			},
			project: func(_ Params, issues []*github.Issue) Outcome {
				return listed(len(issues), project(issues, issueViewOf), "Found %d issues")
			},
		},
		op[*github.Issue]{
			name:     CreateIssue,
			required: []Field{FieldTitle},
			call: func(ctx context.Context, c *github.Client, p Params) (*github.Issue, error) {
				issue, _, err := c.Issues.Create(ctx, p.Owner, p.Repo, &github.IssueRequest{
					Title: utils.Ptr(p.Title),
					Body:  utils.Ptr(p.Body),
				})
				return issue, err
			},
			project: func(_ Params, i *github.Issue) Outcome {
				return Outcome{
					Message: fmt.Sprintf("Issue #%d created successfully", i.GetNumber()),
					Data: struct {
						issueSummary
						HTMLURL string  `json:"html_url"`
						User    userRef `json:"user"`
					}{
						issueSummary: issueSummary{ID: i.GetID(), Number: i.GetNumber(), Title: i.GetTitle(), Body: i.GetBody(), State: i.GetState()},
						HTMLURL:      i.GetHTMLURL(),
						User:         userRefOrUnknown(i.GetUser()),
					},
				}
			},
		},
		op[*github.Issue]{
			name:     UpdateIssue,
			required: []Field{FieldIssueNumber},
			validate: validIssueState,
			call: func(ctx context.Context, c *github.Client, p Params) (*github.Issue, error) {
				issue, _, err := c.Issues.Edit(ctx, p.Owner, p.Repo, p.IssueNumber, &github.IssueRequest{
					Title: utils.PtrIfSet(p.Title),
					Body:  utils.PtrIfSet(p.Body),
					State: utils.PtrIfSet(p.State),
				})
				return issue, err
			},
			project: func(p Params, i *github.Issue) Outcome {
				return Outcome{
					Message: fmt.Sprintf("Issue #%d updated successfully", p.IssueNumber),
					Data:    issueSummary{ID: i.GetID(), Number: i.GetNumber(), Title: i.GetTitle(), Body: i.GetBody(), State: i.GetState()},
				}
			},
		},
		op[*github.Issue]{
			name:     CloseIssue,
			required: []Field{FieldIssueNumber},
			call: func(ctx context.Context, c *github.Client, p Params) (*github.Issue, error) {
				issue, _, err := c.Issues.Edit(ctx, p.Owner, p.Repo, p.IssueNumber, &github.IssueRequest{
					State: utils.Ptr("closed"),
				})
				return issue, err
			},
			project: func(p Params, i *github.Issue) Outcome {
				return Outcome{
					Message: fmt.Sprintf("Issue #%d closed successfully", p.IssueNumber),
					Data:    issueSummary{ID: i.GetID(), Number: i.GetNumber(), Title: i.GetTitle(), State: i.GetState()},
				}
			},
		},
	}
}
