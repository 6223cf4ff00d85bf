package operations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v74/github"
	"github.com/jrsteele09/gh-agent-gateway/internal/utils"
)

const defaultBaseBranch = "main"

type repoRef struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

type branchRef struct {
	Ref  string   `json:"ref"`
	SHA  string   `json:"sha"`
	Repo *repoRef `json:"repo,omitempty"`
}

type pullView struct {
	ID        int64     `json:"id"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	State     string    `json:"state"`
	HTMLURL   string    `json:"html_url"`
	User      *userRef  `json:"user,omitempty"`
	Head      branchRef `json:"head"`
	Base      branchRef `json:"base"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

func pullViewOf(pr *github.PullRequest) pullView {
	user := userRefOrUnknown(pr.GetUser())
	v := pullView{
		ID:        pr.GetID(),
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		Body:      pr.GetBody(),
		State:     pr.GetState(),
		HTMLURL:   pr.GetHTMLURL(),
		User:      &user,
		Head:      branchRef{Ref: pr.GetHead().GetRef(), SHA: pr.GetHead().GetSHA()},
		Base:      branchRef{Ref: pr.GetBase().GetRef(), SHA: pr.GetBase().GetSHA()},
		CreatedAt: pr.GetCreatedAt().Time,
		UpdatedAt: pr.GetUpdatedAt().Time,
	}
	if r := pr.GetHead().GetRepo(); r != nil {
		v.Head.Repo = &repoRef{Name: r.GetName(), FullName: r.GetFullName()}
	}
	return v
}

type mergeView struct {
	SHA     string `json:"sha"`
	Merged  bool   `json:"merged"`
	Message string `json:"message"`
}

func pullOps() []descriptor {
	return []descriptor{
		op[[]*github.PullRequest]{
			name: ListPRs,
			call: func(ctx context.Context, c *github.Client, p Params) ([]*github.PullRequest, error) {
				prs, _, err := c.PullRequests.List(ctx, p.Owner, p.Repo, &github.PullRequestListOptions{
					State:       "all",
					ListOptions: github.ListOptions{PerPage: 50},
				})
				return prs, err
			},
			project: func(_ Params, prs []*github.PullRequest) Outcome {
				return listed(len(prs), project(prs, pullViewOf), "Found %d pull requests")
			},
		},
		op[*github.PullRequest]{
			name:     CreatePR,
			required: []Field{FieldTitle, FieldHead},
			call: func(ctx context.Context, c *github.Client, p Params) (*github.PullRequest, error) {
				pr, _, err := c.PullRequests.Create(ctx, p.Owner, p.Repo, &github.NewPullRequest{
					Title: utils.Ptr(p.Title),
					Head:  utils.Ptr(p.Head),
					Base:  utils.Ptr(utils.ValueOr(p.Base, defaultBaseBranch)),
					Body:  utils.Ptr(p.Body),
				})
				return pr, err
			},
			project: func(_ Params, pr *github.PullRequest) Outcome {
				v := pullViewOf(pr)
				v.User = nil
				v.Head.Repo = nil
				return Outcome{
					Message: fmt.Sprintf("Pull request #%d created successfully", pr.GetNumber()),
					Data:    v,
				}
			},
		},
		op[*github.PullRequestMergeResult]{
			name:     MergePR,
			required: []Field{FieldPRNumber},
			call: func(ctx context.Context, c *github.Client, p Params) (*github.PullRequestMergeResult, error) {
				res, _, err := c.PullRequests.Merge(ctx, p.Owner, p.Repo, p.PRNumber, p.Message, nil)
				return res, err
			},
			project: func(p Params, r *github.PullRequestMergeResult) Outcome {
				return Outcome{
					Message: fmt.Sprintf("Pull request #%d merged successfully", p.PRNumber),
					Data:    mergeView{SHA: r.GetSHA(), Merged: r.GetMerged(), Message: r.GetMessage()},
				}
			},
		},
	}
}
