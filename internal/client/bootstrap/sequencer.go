// Package bootstrap turns the credential persisted by a previous run into the
// initial session and profile state.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/comicreader/internal/client/client"
	"github.com/dmitrijs2005/comicreader/internal/client/models"
	"github.com/dmitrijs2005/comicreader/internal/client/profile"
	"github.com/dmitrijs2005/comicreader/internal/client/session"
	"github.com/dmitrijs2005/comicreader/internal/logging"
)

// ErrInProgress is returned by Run while another Run is in flight.
var ErrInProgress = errors.New("bootstrap already in progress")

// ProfileSource fetches the signed-in reader's record and bookmark list.
type ProfileSource interface {
	MyInformation(ctx context.Context, credential string) (*models.UserInfo, error)
	MyBookmarks(ctx context.Context, credential string) ([]models.Bookmark, error)
}

// Remote is the backend surface the sequencer needs.
type Remote interface {
	session.Introspector
	ProfileSource
	Refresh(ctx context.Context, credential string) (string, error)
}

// Sessions is the session store surface the sequencer needs.
type Sessions interface {
	Stored(ctx context.Context) (string, error)
	Authenticate(ctx context.Context, credential string) error
	Suspend(credential string)
	Logout(ctx context.Context)
}

// Profiles accepts profile updates.
type Profiles interface {
	Dispatch(a profile.Action) profile.Profile
}

// Result describes how a bootstrap ended.
type Result struct {
	Decision      session.Decision
	Refreshed     bool
	Authenticated bool
	// Err is the failure that made the run finish unauthenticated, if any.
	Err error
}

// Sequencer runs the startup session check once.
type Sequencer struct {
	sessions  Sessions
	remote    Remote
	profiles  Profiles
	log       logging.Logger
	now       func() time.Time
	threshold time.Duration
	timeout   time.Duration

	running atomic.Bool
	mu      sync.Mutex
	done    bool
	result  Result
}

// Option customizes a Sequencer.
type Option func(*Sequencer)

// WithClock sets the time source used to judge expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Sequencer) { s.now = now }
}

// WithNearExpiryThreshold sets how close to expiry a credential is refreshed.
func WithNearExpiryThreshold(d time.Duration) Option {
	return func(s *Sequencer) { s.threshold = d }
}

// WithTimeout bounds the whole run. Zero means no bound beyond the caller's
// context.
func WithTimeout(d time.Duration) Option {
	return func(s *Sequencer) { s.timeout = d }
}

func NewSequencer(sessions Sessions, remote Remote, profiles Profiles, log logging.Logger, opts ...Option) *Sequencer {
	s := &Sequencer{
		sessions:  sessions,
		remote:    remote,
		profiles:  profiles,
		log:       log,
		now:       time.Now,
		threshold: session.DefaultNearExpiryThreshold,
		timeout:   30 * time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run performs the startup sequence. The first completed run is final:
// later calls return its Result without touching the network. A call made
// while a run is in flight returns ErrInProgress and does nothing.
func (s *Sequencer) Run(ctx context.Context) (Result, error) {
	if !s.running.CompareAndSwap(false, true) {
		return Result{}, ErrInProgress
	}
	defer s.running.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return s.result, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.result = s.run(ctx)
	s.done = true
	return s.result, nil
}

func (s *Sequencer) run(ctx context.Context) Result {
	stored, err := s.sessions.Stored(ctx)
	if err != nil {
		s.log.Warn(ctx, "bootstrap: couldn't read stored credential", "error", err)
		return Result{Decision: session.Absent, Err: err}
	}

	decision, err := session.Evaluate(ctx, stored, s.now(), s.threshold, s.remote)
	if err != nil {
		// The backend could not be asked; keep the stored credential for the next start.
		s.log.Warn(ctx, "bootstrap: liveness check failed, staying signed out", "error", err)
		return Result{Decision: decision, Err: err}
	}
	s.log.Info(ctx, "bootstrap: stored credential evaluated", "decision", decision.String())

	res := Result{Decision: decision}
	credential := stored

	switch decision {
	case session.Absent:
		return res
	case session.Expired, session.Invalid:
		s.sessions.Logout(ctx)
		return res
	case session.NearExpiry:
		fresh, err := s.remote.Refresh(ctx, stored)
		if err != nil {
			s.log.Warn(ctx, "bootstrap: refresh failed, signing out", "error", err)
			s.sessions.Logout(ctx)
			res.Err = fmt.Errorf("refresh: %w", err)
			return res
		}
		credential = fresh
		res.Refreshed = true
		s.log.Info(ctx, "bootstrap: credential refreshed")
	}

	if err := s.sessions.Authenticate(ctx, credential); err != nil {
		s.log.Warn(ctx, "bootstrap: authenticate rejected credential", "error", err)
		s.sessions.Logout(ctx)
		res.Err = err
		return res
	}

	if err := LoadProfile(ctx, s.remote, s.profiles, credential); err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			// Same as a failed liveness check: the credential may still be good.
			s.log.Warn(ctx, "bootstrap: profile load unreachable, staying signed out", "error", err)
			s.sessions.Suspend(credential)
		} else {
			s.log.Warn(ctx, "bootstrap: profile load failed, signing out", "error", err)
			s.sessions.Logout(ctx)
		}
		s.profiles.Dispatch(profile.ClearAll{})
		res.Err = err
		return res
	}

	res.Authenticated = true
	s.log.Info(ctx, "bootstrap: profile loaded", "refreshed", res.Refreshed)
	return res
}

// LoadProfile fetches the reader record and the bookmark list concurrently
// and, once both have arrived, applies them as one replace-all update
// followed by one replace-bookmarks update. Nothing is applied if either
// fetch fails.
func LoadProfile(ctx context.Context, src ProfileSource, profiles Profiles, credential string) error {
	var (
		user      *models.UserInfo
		bookmarks []models.Bookmark
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := src.MyInformation(gctx, credential)
		if err != nil {
			return fmt.Errorf("fetch profile: %w", err)
		}
		user = u
		return nil
	})
	g.Go(func() error {
		b, err := src.MyBookmarks(gctx, credential)
		if err != nil {
			return fmt.Errorf("fetch bookmarks: %w", err)
		}
		bookmarks = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if user == nil {
		return errors.New("fetch profile: empty reply")
	}

	profiles.Dispatch(profile.ReplaceAll{Fields: profile.FieldsFromUser(*user)})
	profiles.Dispatch(profile.ReplaceBookmarks{Bookmarks: profile.BookmarksFromRemote(bookmarks)})
	return nil
}
