package session

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/comicreader/internal/logging"
)

// CredentialStorage is the durable single-slot home of the credential.
// Load returns "" with a nil error when nothing is stored.
type CredentialStorage interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, credential string) error
	Remove(ctx context.Context) error
}

// Invalidator tells the backend to forget a credential.
type Invalidator interface {
	Logout(ctx context.Context, credential string) error
}

// State is a snapshot of the session.
// IsAuthenticated always equals Credential != "".
type State struct {
	Credential      string
	IsAuthenticated bool
}

// Store is the single source of truth for the current credential.
//
// Memory is authoritative for the running process: a failed write to
// storage is logged and otherwise ignored. Authenticate and Logout may race;
// the later call wins.
type Store struct {
	mu         sync.RWMutex
	credential string

	storage       CredentialStorage
	remote        Invalidator
	log           logging.Logger
	logoutTimeout time.Duration
}

// Option customizes a Store.
type Option func(*Store)

// WithLogoutTimeout bounds the best-effort remote logout call.
func WithLogoutTimeout(d time.Duration) Option {
	return func(s *Store) { s.logoutTimeout = d }
}

// NewStore returns an unauthenticated Store. remote may be nil, in which case
// Logout only clears local state.
func NewStore(storage CredentialStorage, remote Invalidator, log logging.Logger, opts ...Option) *Store {
	s := &Store{
		storage:       storage,
		remote:        remote,
		log:           log,
		logoutTimeout: 5 * time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{Credential: s.credential, IsAuthenticated: s.credential != ""}
}

// Credential returns the current credential or "".
func (s *Store) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// IsAuthenticated reports whether a credential is held.
func (s *Store) IsAuthenticated() bool {
	return s.Credential() != ""
}

// Stored reads the persisted credential.
func (s *Store) Stored(ctx context.Context) (string, error) {
	return s.storage.Load(ctx)
}

// Authenticate makes credential the current one and writes it through to
// storage.
func (s *Store) Authenticate(ctx context.Context, credential string) error {
	if credential == "" {
		return ErrEmptyCredential
	}

	s.mu.Lock()
	s.credential = credential
	s.mu.Unlock()

	if err := s.storage.Save(ctx, credential); err != nil {
		s.log.Warn(ctx, "couldn't persist credential, next start will require login", "error", err)
	}
	return nil
}

// Suspend clears the in-memory session but leaves the persisted credential
// in place and the backend uninformed, so a later start can try it again.
// It only clears credential if that is still the current one.
func (s *Store) Suspend(credential string) {
	s.mu.Lock()
	if s.credential == credential {
		s.credential = ""
	}
	s.mu.Unlock()
}

// Logout removes the persisted credential, asks the backend to invalidate
// it, and clears the in-memory session. Neither a storage nor a remote
// failure prevents the local state from being cleared. Calling Logout on an
// already cleared session is a no-op.
func (s *Store) Logout(ctx context.Context) {
	current := s.Credential()

	target := current
	if target == "" {
		stored, err := s.storage.Load(ctx)
		if err != nil {
			s.log.Warn(ctx, "couldn't read persisted credential", "error", err)
		}
		target = stored
	}
	if target == "" {
		return
	}

	if err := s.storage.Remove(ctx); err != nil {
		s.log.Warn(ctx, "couldn't remove credential from local storage", "error", err)
	}

	if s.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, s.logoutTimeout)
		if err := s.remote.Logout(rctx, target); err != nil {
			s.log.Warn(ctx, "remote logout failed", "error", err)
		}
		cancel()
	}

	s.mu.Lock()
	// An Authenticate that landed while the remote call was in flight is newer; keep it.
	if s.credential == current {
		s.credential = ""
	}
	s.mu.Unlock()
}
