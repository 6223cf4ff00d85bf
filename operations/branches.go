package operations

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v74/github"
)

type commitPointer struct {
	SHA string `json:"sha"`
	URL string `json:"url,omitempty"`
}

type branchView struct {
	Name      string        `json:"name"`
	Commit    commitPointer `json:"commit"`
	Protected bool          `json:"protected"`
}

type refView struct {
	Ref    string `json:"ref"`
	NodeID string `json:"node_id"`
	URL    string `json:"url"`
	Object struct {
		Type string `json:"type"`
		SHA  string `json:"sha"`
		URL  string `json:"url"`
	} `json:"object"`
}

type branchDetailView struct {
	Name   string `json:"name"`
	Commit struct {
		SHA    string `json:"sha"`
		NodeID string `json:"node_id"`
		Commit struct {
			Message   string         `json:"message"`
			Author    *signatureView `json:"author"`
			Committer *signatureView `json:"committer"`
		} `json:"commit"`
	} `json:"commit"`
	Protected bool `json:"protected"`
}

// createRef posts the ref directly so the request body is exactly {ref, sha}.
func createRef(ctx context.Context, c *github.Client, p Params) (*github.Reference, error) {
	body := struct {
		Ref string `json:"ref"`
		SHA string `json:"sha"`
	}{Ref: "refs/heads/" + p.Branch, SHA: p.SHA}

	req, err := c.NewRequest(http.MethodPost, fmt.Sprintf("repos/%v/%v/git/refs", p.Owner, p.Repo), body)
	if err != nil {
		return nil, err
	}
	ref := new(github.Reference)
	if _, err := c.Do(ctx, req, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

func branchOps() []descriptor {
	return []descriptor{
		op[[]*github.Branch]{
			name: ListBranches,
			call: func(ctx context.Context, c *github.Client, p Params) ([]*github.Branch, error) {
				branches, _, err := c.Repositories.ListBranches(ctx, p.Owner, p.Repo, &github.BranchListOptions{
					ListOptions: github.ListOptions{PerPage: 100},
				})
				return branches, err
			},
			project: func(_ Params, branches []*github.Branch) Outcome {
				return listed(len(branches), project(branches, func(b *github.Branch) branchView {
					return branchView{
						Name:      b.GetName(),
						Commit:    commitPointer{SHA: b.GetCommit().GetSHA(), URL: b.GetCommit().GetURL()},
						Protected: b.GetProtected(),
					}
				}), "Found %d branches")
			},
		},
		op[*github.Reference]{
			name:     CreateBranch,
			required: []Field{FieldBranch, FieldSHA},
			call:     createRef,
			project: func(p Params, r *github.Reference) Outcome {
				v := refView{Ref: r.GetRef(), NodeID: r.GetNodeID(), URL: r.GetURL()}
				v.Object.Type = r.GetObject().GetType()
				v.Object.SHA = r.GetObject().GetSHA()
				v.Object.URL = r.GetObject().GetURL()
				return Outcome{Message: fmt.Sprintf("Branch created successfully: %s", p.Branch), Data: v}
			},
		},
		op[struct{}]{
			name:     DeleteBranch,
			required: []Field{FieldBranch},
			call: func(ctx context.Context, c *github.Client, p Params) (struct{}, error) {
				_, err := c.Git.DeleteRef(ctx, p.Owner, p.Repo, "heads/"+p.Branch)
				return struct{}{}, err
			},
			project: func(p Params, _ struct{}) Outcome {
				return Outcome{Message: fmt.Sprintf("Branch deleted successfully: %s", p.Branch)}
			},
		},
		op[*github.Branch]{
			name:     GetBranch,
			required: []Field{FieldBranch},
			call: func(ctx context.Context, c *github.Client, p Params) (*github.Branch, error) {
				b, _, err := c.Repositories.GetBranch(ctx, p.Owner, p.Repo, p.Branch, 1)
				return b, err
			},
			project: func(p Params, b *github.Branch) Outcome {
				var v branchDetailView
				v.Name = b.GetName()
				v.Protected = b.GetProtected()
				v.Commit.SHA = b.GetCommit().GetSHA()
				v.Commit.NodeID = b.GetCommit().GetNodeID()
				v.Commit.Commit.Message = b.GetCommit().GetCommit().GetMessage()
				v.Commit.Commit.Author = signatureOf(b.GetCommit().GetCommit().GetAuthor())
				v.Commit.Commit.Committer = signatureOf(b.GetCommit().GetCommit().GetCommitter())
				return Outcome{Message: fmt.Sprintf("Branch information retrieved: %s", p.Branch), Data: v}
			},
		},
	}
}
