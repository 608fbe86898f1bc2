// Package bookmarks keeps the reader's bookmark set in step with the backend.
package bookmarks

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/comicreader/internal/client/models"
	"github.com/dmitrijs2005/comicreader/internal/client/profile"
	"github.com/dmitrijs2005/comicreader/internal/common"
	"github.com/dmitrijs2005/comicreader/internal/logging"
)

// Remote is the bookmark API.
type Remote interface {
	ToggleBookmark(ctx context.Context, credential, comicID string) error
	MyBookmarks(ctx context.Context, credential string) ([]models.Bookmark, error)
}

// Credentials exposes the current session credential; "" means signed out.
type Credentials interface {
	Credential() string
}

// Profiles is the profile store surface the reconciler needs.
type Profiles interface {
	State() profile.Profile
	DispatchFunc(fn func(current profile.Profile) profile.Action) profile.Profile
	Dispatch(a profile.Action) profile.Profile
}

// Reconciler flips bookmarks optimistically and then converges the local set
// on the backend's list.
type Reconciler struct {
	remote   Remote
	session  Credentials
	profiles Profiles
	log      logging.Logger
}

func NewReconciler(remote Remote, session Credentials, profiles Profiles, log logging.Logger) *Reconciler {
	return &Reconciler{remote: remote, session: session, profiles: profiles, log: log}
}

// Toggle flips comicID. When the comic is not yet bookmarked the optimistic
// entry carries only the id; the refetch fills in the rest.
func (r *Reconciler) Toggle(ctx context.Context, comicID string) error {
	return r.ToggleEntry(ctx, profile.Bookmark{ComicID: comicID})
}

// ToggleEntry flips membership of e.ComicID.
//
// The local set is updated first so the change shows at once, then the
// toggle is sent and the remote list is fetched whatever the toggle's
// outcome. A successful fetch replaces the local set; a failed one leaves
// the optimistic state until the next reconciliation. The returned error
// joins the toggle and fetch failures.
func (r *Reconciler) ToggleEntry(ctx context.Context, e profile.Bookmark) error {
	if e.ComicID == "" {
		return fmt.Errorf("%w: empty comic id", common.ErrInvalidArgument)
	}
	credential := r.session.Credential()
	if credential == "" {
		return common.ErrAuthRequired
	}

	r.profiles.DispatchFunc(func(cur profile.Profile) profile.Action {
		return profile.ReplaceBookmarks{Bookmarks: cur.Bookmarks.Toggle(e).Items()}
	})

	toggleErr := r.remote.ToggleBookmark(ctx, credential, e.ComicID)
	if toggleErr != nil {
		r.log.Warn(ctx, "bookmark toggle failed", "comic_id", e.ComicID, "error", toggleErr)
		toggleErr = fmt.Errorf("toggle bookmark: %w", toggleErr)
	}

	return errors.Join(toggleErr, r.Refresh(ctx))
}

// Refresh replaces the local set with the remote list.
func (r *Reconciler) Refresh(ctx context.Context) error {
	credential := r.session.Credential()
	if credential == "" {
		return common.ErrAuthRequired
	}
	remote, err := r.remote.MyBookmarks(ctx, credential)
	if err != nil {
		r.log.Warn(ctx, "bookmark refetch failed, keeping local set", "error", err)
		return fmt.Errorf("fetch bookmarks: %w", err)
	}
	r.profiles.Dispatch(profile.ReplaceBookmarks{Bookmarks: profile.BookmarksFromRemote(remote)})
	return nil
}

// IsBookmarked reports whether comicID is in the local set.
func (r *Reconciler) IsBookmarked(comicID string) bool {
	return r.profiles.State().Bookmarks.Contains(comicID)
}
