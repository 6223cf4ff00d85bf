package operations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v74/github"
)

type codeHitView struct {
	Name       string  `json:"name"`
	Path       string  `json:"path"`
	SHA        string  `json:"sha"`
	HTMLURL    string  `json:"html_url"`
	Repository repoRef `json:"repository"`
}

type issueHitView struct {
	ID        int64       `json:"id"`
	Number    int         `json:"number"`
	Title     string      `json:"title"`
	State     string      `json:"state"`
	HTMLURL   string      `json:"html_url"`
	User      *userRef    `json:"user"`
	Labels    []labelView `json:"labels"`
	CreatedAt time.Time   `json:"created_at,omitzero"`
	UpdatedAt time.Time   `json:"updated_at,omitzero"`
}

// scopedQuery restricts a search to the target repository.
func scopedQuery(p Params) string {
	return fmt.Sprintf("%s repo:%s", p.Query, p.fullName())
}

func searchOps() []descriptor {
	return []descriptor{
		op[*github.CodeSearchResult]{
			name:     SearchCode,
			required: []Field{FieldQuery},
			call: func(ctx context.Context, c *github.Client, p Params) (*github.CodeSearchResult, error) {
				res, _, err := c.Search.Code(ctx, scopedQuery(p), nil)
				return res, err
			},
			project: func(_ Params, r *github.CodeSearchResult) Outcome {
				hits := project(r.CodeResults, func(h *github.CodeResult) codeHitView {
					return codeHitView{
						Name:       h.GetName(),
						Path:       h.GetPath(),
						SHA:        h.GetSHA(),
						HTMLURL:    h.GetHTMLURL(),
						Repository: repoRef{Name: h.GetRepository().GetName(), FullName: h.GetRepository().GetFullName()},
					}
				})
				return listed(r.GetTotal(), hits, "Found %d code results")
			},
		},
		op[*github.IssuesSearchResult]{
			name:     SearchIssues,
			required: []Field{FieldQuery},
			call: func(ctx context.Context, c *github.Client, p Params) (*github.IssuesSearchResult, error) {
				res, _, err := c.Search.Issues(ctx, scopedQuery(p), nil)
				return res, err
			},
			project: func(_ Params, r *github.IssuesSearchResult) Outcome {
				hits := project(r.Issues, func(i *github.Issue) issueHitView {
					return issueHitView{
						ID:        i.GetID(),
						Number:    i.GetNumber(),
						Title:     i.GetTitle(),
						State:     i.GetState(),
						HTMLURL:   i.GetHTMLURL(),
						User:      userRefOf(i.GetUser()),
						Labels:    labelsOf(i.Labels),
						CreatedAt: i.GetCreatedAt().Time,
						UpdatedAt: i.GetUpdatedAt().Time,
					}
				})
				return listed(r.GetTotal(), hits, "Found %d issue/PR results")
			},
		},
	}
}
