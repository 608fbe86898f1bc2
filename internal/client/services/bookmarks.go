package services

import (
	"context"

	"github.com/dmitrijs2005/comicreader/internal/client/bookmarks"
	"github.com/dmitrijs2005/comicreader/internal/client/profile"
)

// BookmarkService exposes the reader's bookmark set.
type BookmarkService interface {
	List() []profile.Bookmark
	Filter(query string) []profile.Bookmark
	Toggle(ctx context.Context, comicID string) (bookmarked bool, err error)
	Sync(ctx context.Context) error
}

// Bookmarks implements BookmarkService on top of a Reconciler.
type Bookmarks struct {
	rec  *bookmarks.Reconciler
	auth *Auth
}

func NewBookmarks(rec *bookmarks.Reconciler, auth *Auth) *Bookmarks {
	return &Bookmarks{rec: rec, auth: auth}
}

func (b *Bookmarks) List() []profile.Bookmark {
	return b.auth.profiles.State().Bookmarks.Items()
}

// Filter matches bookmark names case-insensitively; a blank query lists all.
func (b *Bookmarks) Filter(query string) []profile.Bookmark {
	return b.auth.profiles.State().Bookmarks.Filter(query)
}

// Toggle flips comicID and reports whether it is bookmarked afterwards,
// according to the reconciled local set.
func (b *Bookmarks) Toggle(ctx context.Context, comicID string) (bool, error) {
	err := b.rec.Toggle(ctx, comicID)
	if err != nil {
		err = expireOnUnauthorized(ctx, b.auth, err)
	}
	return b.rec.IsBookmarked(comicID), err
}

// Sync replaces the local set with the backend's list.
func (b *Bookmarks) Sync(ctx context.Context) error {
	return expireOnUnauthorized(ctx, b.auth, b.rec.Refresh(ctx))
}

var _ BookmarkService = (*Bookmarks)(nil)
