package operations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/go-github/v74/github"
	"github.com/jrsteele09/gh-agent-gateway/internal/utils"
)

type repoView struct {
	ID              int64     `json:"id"`
	NodeID          string    `json:"node_id"`
	Owner           string    `json:"owner"`
	HTMLURL         string    `json:"html_url"`
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	Private         bool      `json:"private"`
	Description     string    `json:"description"`
	Fork            bool      `json:"fork"`
	Language        string    `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	OpenIssuesCount int       `json:"open_issues_count"`
	DefaultBranch   string    `json:"default_branch"`
	CreatedAt       time.Time `json:"created_at,omitzero"`
	UpdatedAt       time.Time `json:"updated_at,omitzero"`
}

func repoViewOf(r *github.Repository) repoView {
	return repoView{
		ID:              r.GetID(),
		NodeID:          r.GetNodeID(),
		Owner:           r.GetOwner().GetLogin(),
		HTMLURL:         r.GetHTMLURL(),
		Name:            r.GetName(),
		FullName:        r.GetFullName(),
		Private:         r.GetPrivate(),
		Description:     r.GetDescription(),
		Fork:            r.GetFork(),
		Language:        r.GetLanguage(),
		StargazersCount: r.GetStargazersCount(),
		ForksCount:      r.GetForksCount(),
		OpenIssuesCount: r.GetOpenIssuesCount(),
		DefaultBranch:   r.GetDefaultBranch(),
		CreatedAt:       r.GetCreatedAt().Time,
		UpdatedAt:       r.GetUpdatedAt().Time,
	}
}

type subscriptionView struct {
	Subscribed bool `json:"subscribed"`
	Ignored    bool `json:"ignored"`
}

func repoOps() []descriptor {
	return []descriptor{
		op[*github.Repository]{
			name: GetRepo,
			call: func(ctx context.Context, c *github.Client, p Params) (*github.Repository, error) {
				r, _, err := c.Repositories.Get(ctx, p.Owner, p.Repo)
				return r, err
			},
			project: func(_ Params, r *github.Repository) Outcome {
				return Outcome{Message: "Repository information retrieved successfully", Data: repoViewOf(r)}
			},
		},
		op[*github.Repository]{
			name: ForkRepo,
			call: func(ctx context.Context, c *github.Client, p Params) (*github.Repository, error) {
				r, _, err := c.Repositories.CreateFork(ctx, p.Owner, p.Repo, &github.RepositoryCreateForkOptions{})
				// 202 means the fork is being created in the background.
				var accepted *github.AcceptedError
				if errors.As(err, &accepted) {
					return r, nil
				}
				return r, err
			},
			project: func(p Params, r *github.Repository) Outcome {
				return Outcome{Message: fmt.Sprintf("Repository %s forked to %s", p.fullName(), r.GetFullName()), Data: repoViewOf(r)}
			},
		},
		op[struct{}]{
			name: StarRepo,
			call: func(ctx context.Context, c *github.Client, p Params) (struct{}, error) {
				_, err := c.Activity.Star(ctx, p.Owner, p.Repo)
				return struct{}{}, err
			},
			project: func(p Params, _ struct{}) Outcome {
				return Outcome{Message: fmt.Sprintf("Repository %s starred", p.fullName())}
			},
		},
		op[struct{}]{
			name: UnstarRepo,
			call: func(ctx context.Context, c *github.Client, p Params) (struct{}, error) {
				_, err := c.Activity.Unstar(ctx, p.Owner, p.Repo)
				return struct{}{}, err
			},
			project: func(p Params, _ struct{}) Outcome {
				return Outcome{Message: fmt.Sprintf("Repository %s unstarred", p.fullName())}
			},
		},
		op[*github.Subscription]{
			name: WatchRepo,
			call: func(ctx context.Context, c *github.Client, p Params) (*github.Subscription, error) {
				s, _, err := c.Activity.SetRepositorySubscription(ctx, p.Owner, p.Repo, &github.Subscription{Subscribed: utils.Ptr(true)})
				return s, err
			},
			project: func(p Params, s *github.Subscription) Outcome {
				return Outcome{
					Message: fmt.Sprintf("Now watching %s", p.fullName()),
					Data:    subscriptionView{Subscribed: s.GetSubscribed(), Ignored: s.GetIgnored()},
				}
			},
		},
		statsOp(),
	}
}
