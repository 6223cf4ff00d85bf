package operations

import (
	"context"
	"fmt"

	"github.com/google/go-github/v74/github"
)

type commitSummaryView struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message   string         `json:"message"`
		Author    signatureView  `json:"author"`
		Committer *signatureView `json:"committer,omitempty"`
	} `json:"commit"`
	HTMLURL string   `json:"html_url,omitempty"`
	Author  *userRef `json:"author"`
}

func commitSummaryOf(c *github.RepositoryCommit, withCommitter bool) commitSummaryView {
	var v commitSummaryView
	v.SHA = c.GetSHA()
	v.HTMLURL = c.GetHTMLURL()
	v.Author = userRefOf(c.GetAuthor())
	v.Commit.Message = c.GetCommit().GetMessage()
	v.Commit.Author = signatureOrUnknown(c.GetCommit().GetAuthor())
	if withCommitter {
		committer := signatureOrUnknown(c.GetCommit().GetCommitter())
		v.Commit.Committer = &committer
	}
	return v
}

type commitDetailView struct {
	SHA     string `json:"sha"`
	NodeID  string `json:"node_id"`
	HTMLURL string `json:"html_url"`
	Commit  struct {
		Message   string         `json:"message"`
		Author    *signatureView `json:"author"`
		Committer *signatureView `json:"committer"`
		TreeSHA   string         `json:"tree_sha"`
	} `json:"commit"`
	Author    *userRef         `json:"author"`
	Committer *userRef         `json:"committer"`
	Files     []fileChangeView `json:"files"`
	Stats     *statsView       `json:"stats,omitempty"`
}

type statsView struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
	Total     int `json:"total"`
}

type comparisonView struct {
	Status       string              `json:"status"`
	AheadBy      int                 `json:"ahead_by"`
	BehindBy     int                 `json:"behind_by"`
	TotalCommits int                 `json:"total_commits"`
	HTMLURL      string              `json:"html_url"`
	Commits      []commitSummaryView `json:"commits"`
	Files        []fileChangeView    `json:"files"`
}

func commitOps() []descriptor {
	return []descriptor{
		op[[]*github.RepositoryCommit]{
			name: ListCommits,
			call: func(ctx context.Context, c *github.Client, p Params) ([]*github.RepositoryCommit, error) {
				commits, _, err := c.Repositories.ListCommits(ctx, p.Owner, p.Repo, &github.CommitsListOptions{
					SHA:         p.Branch,
					ListOptions: github.ListOptions{PerPage: 20},
				})
				return commits, err
			},
			project: func(_ Params, commits []*github.RepositoryCommit) Outcome {
				return listed(len(commits), project(commits, func(c *github.RepositoryCommit) commitSummaryView {
					return commitSummaryOf(c, true)
				}), "Retrieved %d commits")
			},
		},
		op[*github.RepositoryCommit]{
			name:     GetCommit,
			required: []Field{FieldCommitSHA},
			call: func(ctx context.Context, c *github.Client, p Params) (*github.RepositoryCommit, error) {
				commit, _, err := c.Repositories.GetCommit(ctx, p.Owner, p.Repo, p.CommitSHA, nil)
				return commit, err
			},
			project: func(p Params, c *github.RepositoryCommit) Outcome {
				var v commitDetailView
				v.SHA = c.GetSHA()
				v.NodeID = c.GetNodeID()
				v.HTMLURL = c.GetHTMLURL()
				v.Commit.Message = c.GetCommit().GetMessage()
				v.Commit.Author = signatureOf(c.GetCommit().GetAuthor())
				v.Commit.Committer = signatureOf(c.GetCommit().GetCommitter())
				v.Commit.TreeSHA = c.GetCommit().GetTree().GetSHA()
				v.Author = userRefOf(c.GetAuthor())
				v.Committer = userRefOf(c.GetCommitter())
				v.Files = fileChangesOf(c.Files, true)
				if s := c.GetStats(); s != nil {
					v.Stats = &statsView{Additions: s.GetAdditions(), Deletions: s.GetDeletions(), Total: s.GetTotal()}
				}
				return Outcome{Message: fmt.Sprintf("Commit information retrieved: %s", p.CommitSHA), Data: v}
			},
		},
		op[*github.CommitsComparison]{
			name:     CompareCommits,
			required: []Field{FieldBaseSHA, FieldSHA},
			call: func(ctx context.Context, c *github.Client, p Params) (*github.CommitsComparison, error) {
				cmp, _, err := c.Repositories.CompareCommits(ctx, p.Owner, p.Repo, p.BaseSHA, p.SHA, nil)
				return cmp, err
			},
			project: func(p Params, cmp *github.CommitsComparison) Outcome {
				return Outcome{
					Message: fmt.Sprintf("Comparison completed between %s and %s", p.BaseSHA, p.SHA),
					Data: comparisonView{
						Status:       cmp.GetStatus(),
						AheadBy:      cmp.GetAheadBy(),
						BehindBy:     cmp.GetBehindBy(),
						TotalCommits: cmp.GetTotalCommits(),
						HTMLURL:      cmp.GetHTMLURL(),
						Commits: project(cmp.Commits, func(c *github.RepositoryCommit) commitSummaryView {
							return commitSummaryOf(c, false)
						}),
						Files: fileChangesOf(cmp.Files, false),
					},
				}
			},
		},
	}
}
