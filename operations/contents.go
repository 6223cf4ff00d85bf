package operations

import (
	"context"
	"fmt"

	"github.com/google/go-github/v74/github"
	apperrors "github.com/jrsteele09/gh-agent-gateway/internal/errors"
	"github.com/jrsteele09/gh-agent-gateway/internal/utils"
)

type fileView struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Content     string `json:"content"`
	Encoding    string `json:"encoding"`
	Size        int    `json:"size"`
	SHA         string `json:"sha"`
	DownloadURL string `json:"download_url"`
	Type        string `json:"type"`
}

type entryView struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	Size        int    `json:"size"`
	SHA         string `json:"sha"`
	DownloadURL string `json:"download_url,omitempty"`
	HTMLURL     string `json:"html_url"`
}

func entryViewOf(c *github.RepositoryContent) entryView {
	return entryView{
		Name:        c.GetName(),
		Path:        c.GetPath(),
		Type:        c.GetType(),
		Size:        c.GetSize(),
		SHA:         c.GetSHA(),
		DownloadURL: c.GetDownloadURL(),
		HTMLURL:     c.GetHTMLURL(),
	}
}

type commitRef struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	HTMLURL string `json:"html_url"`
}

func commitRefOf(c github.Commit) commitRef {
	return commitRef{SHA: c.GetSHA(), Message: c.GetMessage(), HTMLURL: c.GetHTMLURL()}
}

type fileWriteView struct {
	Content *entryView `json:"content,omitempty"`
	Commit  commitRef  `json:"commit"`
}

func fileWriteViewOf(r *github.RepositoryContentResponse) fileWriteView {
	v := fileWriteView{Commit: commitRefOf(r.Commit)}
	if r.Content != nil {
		e := entryViewOf(r.Content)
		v.Content = &e
	}
	return v
}

// fileOptions carries content as raw bytes; the client base64-encodes it.
func fileOptions(p Params, withContent bool) *github.RepositoryContentFileOptions {
	opts := &github.RepositoryContentFileOptions{
		Message: utils.Ptr(p.Message),
		SHA:     utils.PtrIfSet(p.SHA),
		Branch:  utils.PtrIfSet(p.Branch),
	}
	if withContent {
		opts.Content = []byte(p.Content)
	}
	return opts
}

func contentOps() []descriptor {
	return []descriptor{
		op[*github.RepositoryContent]{
			name:     GetFile,
			required: []Field{FieldPath},
			call: func(ctx context.Context, c *github.Client, p Params) (*github.RepositoryContent, error) {
				file, dir, _, err := c.Repositories.GetContents(ctx, p.Owner, p.Repo, p.Path, refOption(p))
				if err != nil {
					return nil, err
				}
				if dir != nil || file == nil {
					return nil, apperrors.Validation(string(FieldPath), apperrors.ErrInvalidField, "Path points to a directory, not a file")
				}
				if file.GetType() != "file" {
					return nil, apperrors.Validation(string(FieldPath), apperrors.ErrInvalidField, "Path does not point to a file")
				}
				return file, nil
			},
			project: func(_ Params, f *github.RepositoryContent) Outcome {
				return Outcome{
					Message: fmt.Sprintf("File content retrieved: %s", f.GetName()),
					Data: fileView{
						Name:        f.GetName(),
						Path:        f.GetPath(),
						Content:     utils.Value(f.Content),
						Encoding:    utils.ValueOr(f.GetEncoding(), "base64"),
						Size:        f.GetSize(),
						SHA:         f.GetSHA(),
						DownloadURL: f.GetDownloadURL(),
						Type:        f.GetType(),
					},
				}
			},
		},
		op[*github.RepositoryContentResponse]{
			name:     CreateFile,
			required: []Field{FieldPath, FieldContent, FieldMessage},
			call: func(ctx context.Context, c *github.Client, p Params) (*github.RepositoryContentResponse, error) {
				res, _, err := c.Repositories.CreateFile(ctx, p.Owner, p.Repo, p.Path, fileOptions(p, true))
				return res, err
			},
			project: func(p Params, r *github.RepositoryContentResponse) Outcome {
				return Outcome{Message: fmt.Sprintf("File created successfully: %s", p.Path), Data: fileWriteViewOf(r)}
			},
		},
		op[*github.RepositoryContentResponse]{
			name:     UpdateFile,
			required: []Field{FieldPath, FieldContent, FieldMessage, FieldSHA},
			call: func(ctx context.Context, c *github.Client, p Params) (*github.RepositoryContentResponse, error) {
				res, _, err := c.Repositories.UpdateFile(ctx, p.Owner, p.Repo, p.Path, fileOptions(p, true))
				return res, err
			},
			project: func(p Params, r *github.RepositoryContentResponse) Outcome {
				return Outcome{Message: fmt.Sprintf("File updated successfully: %s", p.Path), Data: fileWriteViewOf(r)}
			},
		},
		op[*github.RepositoryContentResponse]{
			name:     DeleteFile,
			required: []Field{FieldPath, FieldMessage, FieldSHA},
			call: func(ctx context.Context, c *github.Client, p Params) (*github.RepositoryContentResponse, error) {
				res, _, err := c.Repositories.DeleteFile(ctx, p.Owner, p.Repo, p.Path, fileOptions(p, false))
				return res, err
			},
			project: func(p Params, r *github.RepositoryContentResponse) Outcome {
				return Outcome{
					Message: fmt.Sprintf("File deleted successfully: %s", p.Path),
					Data: struct {
						Commit commitRef `json:"commit"`
					}{Commit: commitRefOf(r.Commit)},
				}
			},
		},
		op[[]*github.RepositoryContent]{
			name:     ListDirectory,
			required: []Field{FieldPath},
			call: func(ctx context.Context, c *github.Client, p Params) ([]*github.RepositoryContent, error) {
				file, dir, _, err := c.Repositories.GetContents(ctx, p.Owner, p.Repo, p.Path, refOption(p))
				if err != nil {
					return nil, err
				}
				if file != nil {
					return nil, apperrors.Validation(string(FieldPath), apperrors.ErrInvalidField, "Path does not point to a directory")
				}
				return dir, nil
			},
			project: func(_ Params, entries []*github.RepositoryContent) Outcome {
				return listed(len(entries), project(entries, entryViewOf), "Directory contents retrieved: %d items")
			},
		},
	}
}

func refOption(p Params) *github.RepositoryContentGetOptions {
	if p.Branch == "" {
		return nil
	}
	return &github.RepositoryContentGetOptions{Ref: p.Branch}
}
