// Package authz decides whether an authenticated caller may mutate a post.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/pcblog/internal/auth"
	"github.com/geocoder89/pcblog/internal/domain/post"
)

var ErrForbidden = errors.New("not the owner of this post")

type OwnerLookup interface {
	OwnerOf(ctx context.Context, postID int64) (int64, error)
}

type Authorizer struct {
	posts OwnerLookup
}

func NewAuthorizer(posts OwnerLookup) *Authorizer {
	return &Authorizer{posts: posts}
}

// Authorize returns nil when id owns the post, post.ErrNotFound when the post
// does not exist and ErrForbidden when somebody else owns it.
func (a *Authorizer) Authorize(ctx context.Context, postID int64, id auth.Identity) error {
	ownerID, err := a.posts.OwnerOf(ctx, postID)
	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			return post.ErrNotFound
		}
		return fmt.Errorf("lookup owner of post %d: %w", postID, err)
	}

	if id.ID <= 0 || ownerID != id.ID {
		return ErrForbidden
	}

	return nil
}
