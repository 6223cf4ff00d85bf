package operations

import (
	"context"
	"fmt"

	"github.com/google/go-github/v74/github"
	"github.com/jrsteele09/gh-agent-gateway/internal/utils"
)

const defaultPermission = "push"

type collaboratorView struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	NodeID    string `json:"node_id"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
	RoleName  string `json:"role_name,omitempty"`
}

type grantView struct {
	Username   string `json:"username"`
	Permission string `json:"permission,omitempty"`
}

func validPermission(p Params) error {
	return oneOf(FieldPermission, p.Permission, "pull", "push", "admin", "maintain", "triage")
}

func collaboratorOps() []descriptor {
	return []descriptor{
		op[[]*github.User]{
			name: ListCollaborators,
			call: func(ctx context.Context, c *github.Client, p Params) ([]*github.User, error) {
				users, _, err := c.Repositories.ListCollaborators(ctx, p.Owner, p.Repo, &github.ListCollaboratorsOptions{
					ListOptions: github.ListOptions{PerPage: 100},
				})
				return users, err
			},
			project: func(_ Params, users []*github.User) Outcome {
				return listed(len(users), project(users, func(u *github.User) collaboratorView {
					return collaboratorView{
						Login:     u.GetLogin(),
						ID:        u.GetID(),
						NodeID:    u.GetNodeID(),
						AvatarURL: u.GetAvatarURL(),
						HTMLURL:   u.GetHTMLURL(),
						RoleName:  u.GetRoleName(),
					}
				}), "Found %d collaborators")
			},
		},
		op[struct{}]{
			name:     AddCollaborator,
			required: []Field{FieldUsername},
			validate: validPermission,
			call: func(ctx context.Context, c *github.Client, p Params) (struct{}, error) {
				_, _, err := c.Repositories.AddCollaborator(ctx, p.Owner, p.Repo, p.Username, &github.RepositoryAddCollaboratorOptions{
					Permission: utils.ValueOr(p.Permission, defaultPermission),
				})
				return struct{}{}, err
			},
			project: func(p Params, _ struct{}) Outcome {
				return Outcome{
					Message: fmt.Sprintf("Collaborator %s added successfully", p.Username),
					Data:    grantView{Username: p.Username, Permission: utils.ValueOr(p.Permission, defaultPermission)},
				}
			},
		},
		op[struct{}]{
			name:     RemoveCollaborator,
			required: []Field{FieldUsername},
			call: func(ctx context.Context, c *github.Client, p Params) (struct{}, error) {
				_, err := c.Repositories.RemoveCollaborator(ctx, p.Owner, p.Repo, p.Username)
				return struct{}{}, err
			},
			project: func(p Params, _ struct{}) Outcome {
				return Outcome{
					Message: fmt.Sprintf("Collaborator %s removed successfully", p.Username),
					Data:    grantView{Username: p.Username},
				}
			},
		},
	}
}
