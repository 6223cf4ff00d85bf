package operations

import (
	"time"

	"github.com/google/go-github/v74/github"
)

// Projections shared by several operations. They keep only what a caller
// needs, never the full upstream payload.

type userRef struct {
	Login   string `json:"login"`
	HTMLURL string `json:"html_url,omitempty"`
}

func userRefOf(u *github.User) *userRef {
	if u == nil {
		return nil
	}
	return &userRef{Login: u.GetLogin(), HTMLURL: u.GetHTMLURL()}
}

func userRefOrUnknown(u *github.User) userRef {
	if u == nil || u.GetLogin() == "" {
		return userRef{Login: "unknown", HTMLURL: u.GetHTMLURL()}
	}
	return *userRefOf(u)
}

type labelView struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func labelsOf(labels []*github.Label) []labelView {
	out := make([]labelView, 0, len(labels))
	for _, l := range labels {
		out = append(out, labelView{Name: l.GetName(), Color: l.GetColor()})
	}
	return out
}

type signatureView struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Date  time.Time `json:"date,omitzero"`
}

func signatureOf(a *github.CommitAuthor) *signatureView {
	if a == nil {
		return nil
	}
	return &signatureView{Name: a.GetName(), Email: a.GetEmail(), Date: a.GetDate().Time}
}

func signatureOrUnknown(a *github.CommitAuthor) signatureView {
	if a == nil {
		return signatureView{Name: "unknown"}
	}
	return *signatureOf(a)
}

type fileChangeView struct {
	Filename  string `json:"filename"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
	Status    string `json:"status"`
	Patch     string `json:"patch,omitempty"`
}

func fileChangesOf(files []*github.CommitFile, withPatch bool) []fileChangeView {
	out := make([]fileChangeView, 0, len(files))
	for _, f := range files {
		v := fileChangeView{
			Filename:  f.GetFilename(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
			Changes:   f.GetChanges(),
			Status:    f.GetStatus(),
		}
		if withPatch {
			v.Patch = f.GetPatch()
		}
		out = append(out, v)
	}
	return out
}

func project[T, V any](items []T, fn func(T) V) []V {
	out := make([]V, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}
