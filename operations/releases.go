package operations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v74/github"
	"github.com/jrsteele09/gh-agent-gateway/internal/utils"
)

type releaseView struct {
	ID          int64     `json:"id"`
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	Body        string    `json:"body,omitempty"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	PublishedAt time.Time `json:"published_at,omitzero"`
	HTMLURL     string    `json:"html_url"`
	Author      *userRef  `json:"author,omitempty"`
}

func releaseViewOf(r *github.RepositoryRelease) releaseView {
	return releaseView{
		ID:          r.GetID(),
		TagName:     r.GetTagName(),
		Name:        r.GetName(),
		Body:        r.GetBody(),
		Draft:       r.GetDraft(),
		Prerelease:  r.GetPrerelease(),
		CreatedAt:   r.GetCreatedAt().Time,
		PublishedAt: r.GetPublishedAt().Time,
		HTMLURL:     r.GetHTMLURL(),
		Author:      userRefOf(r.GetAuthor()),
	}
}

func releaseOps() []descriptor {
	return []descriptor{
		op[[]*github.RepositoryRelease]{
			name: ListReleases,
			call: func(ctx context.Context, c *github.Client, p Params) ([]*github.RepositoryRelease, error) {
				releases, _, err := c.Repositories.ListReleases(ctx, p.Owner, p.Repo, &github.ListOptions{PerPage: 50})
				return releases, err
			},
			project: func(_ Params, releases []*github.RepositoryRelease) Outcome {
				return listed(len(releases), project(releases, releaseViewOf), "Found %d releases")
			},
		},
		op[*github.RepositoryRelease]{
			name:     CreateRelease,
			required: []Field{FieldTagName},
			call: func(ctx context.Context, c *github.Client, p Params) (*github.RepositoryRelease, error) {
				r, _, err := c.Repositories.CreateRelease(ctx, p.Owner, p.Repo, &github.RepositoryRelease{
					TagName:         utils.Ptr(p.TagName),
					Name:            utils.Ptr(utils.ValueOr(p.Title, p.TagName)),
					Body:            utils.Ptr(p.Body),
					Draft:           utils.Ptr(p.Draft),
					Prerelease:      utils.Ptr(p.Prerelease),
					TargetCommitish: utils.PtrIfSet(p.TargetCommitish),
				})
				return r, err
			},
			project: func(p Params, r *github.RepositoryRelease) Outcome {
				v := releaseViewOf(r)
				v.Body = ""
				v.Author = nil
				return Outcome{Message: fmt.Sprintf("Release %s created successfully", p.TagName), Data: v}
			},
		},
	}
}
