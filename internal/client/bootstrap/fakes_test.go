package bootstrap

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/comicreader/internal/client/models"
)

var errBoom = errors.New("boom")

func mintToken(t *testing.T, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "reader",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return s
}

type memStorage struct {
	mu    sync.Mutex
	value string
	err   error
}

func (m *memStorage) Load(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, m.err
}

func (m *memStorage) Save(ctx context.Context, credential string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = credential
	return nil
}

func (m *memStorage) Remove(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = ""
	return nil
}

// fakeRemote records every call it receives.
type fakeRemote struct {
	mu sync.Mutex

	valid         bool
	introspectErr error
	refreshed     string
	refreshErr    error
	user          *models.UserInfo
	userErr       error
	bookmarks     []models.Bookmark
	bookmarksErr  error
	block         chan struct{}

	calls            []string
	lastIntrospect   string
	lastRefresh      string
	lastProfileCred  string
	lastBookmarkCred string
	logouts          []string
}

func (f *fakeRemote) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRemote) Introspect(ctx context.Context, credential string) (bool, error) {
	f.record("introspect")
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	f.mu.Lock()
	f.lastIntrospect = credential
	f.mu.Unlock()
	return f.valid, f.introspectErr
}

func (f *fakeRemote) Refresh(ctx context.Context, credential string) (string, error) {
	f.record("refresh")
	f.mu.Lock()
	f.lastRefresh = credential
	f.mu.Unlock()
	return f.refreshed, f.refreshErr
}

func (f *fakeRemote) MyInformation(ctx context.Context, credential string) (*models.UserInfo, error) {
	f.record("profile")
	f.mu.Lock()
	f.lastProfileCred = credential
	f.mu.Unlock()
	return f.user, f.userErr
}

func (f *fakeRemote) MyBookmarks(ctx context.Context, credential string) ([]models.Bookmark, error) {
	f.record("bookmarks")
	f.mu.Lock()
	f.lastBookmarkCred = credential
	f.mu.Unlock()
	return f.bookmarks, f.bookmarksErr
}

func (f *fakeRemote) Logout(ctx context.Context, credential string) error {
	f.record("logout")
	f.mu.Lock()
	f.logouts = append(f.logouts, credential)
	f.mu.Unlock()
	return nil
}
