package operations

import (
	"context"

	"github.com/google/go-github/v74/github"
)

// descriptor is one entry of the catalogue. The dispatcher only ever talks to
// operations through it.
type descriptor interface {
	Name() Name
	Required() []Field
	Validate(Params) error
	Run(ctx context.Context, client *github.Client, p Params) (Outcome, error)
}

// op binds a typed remote call to its projection. validate must be pure and
// runs before any remote call; project must be pure.
type op[T any] struct {
	name     Name
	required []Field
	validate func(Params) error
	call     func(ctx context.Context, client *github.Client, p Params) (T, error)
	project  func(p Params, v T) Outcome
}

var _ descriptor = op[struct{}]{}

func (o op[T]) Name() Name {
	return o.name
}

func (o op[T]) Required() []Field {
	return o.required
}

func (o op[T]) Validate(p Params) error {
	if o.validate == nil {
		return nil
	}
	return o.validate(p)
}

func (o op[T]) Run(ctx context.Context, client *github.Client, p Params) (Outcome, error) {
	v, err := o.call(ctx, client, p)
	if err != nil {
		return Outcome{}, err
	}
	return o.project(p, v), nil
}

func catalogue() []descriptor {
	var all []descriptor
	for _, group := range [][]descriptor{
		repoOps(),
		issueOps(),
		pullOps(),
		contentOps(),
		branchOps(),
		collaboratorOps(),
		releaseOps(),
		searchOps(),
		commitOps(),
	} {
		all = append(all, group...)
	}
	return all
}
