package bootstrap

import (
	"context"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/comicreader/internal/client/client"
	"github.com/dmitrijs2005/comicreader/internal/client/models"
	"github.com/dmitrijs2005/comicreader/internal/client/profile"
	"github.com/dmitrijs2005/comicreader/internal/client/session"
	"github.com/dmitrijs2005/comicreader/internal/logging"
)

var fixedNow = time.Date(2024, 4, 22, 12, 0, 0, 0, time.UTC)

type harness struct {
	storage  *memStorage
	remote   *fakeRemote
	sessions *session.Store
	profiles *profile.Store
	seq      *Sequencer
}

func newHarness(t *testing.T, stored string, remote *fakeRemote, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		storage:  &memStorage{value: stored},
		remote:   remote,
		profiles: profile.NewStore(),
	}
	h.sessions = session.NewStore(h.storage, remote, logging.Nop())
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	h.seq = NewSequencer(h.sessions, remote, h.profiles, logging.Nop(), opts...)
	return h
}

// assertConsistent checks that session and profile agree after a run.
func (h *harness) assertConsistent(t *testing.T) {
	t.Helper()
	snap := h.sessions.Snapshot()
	assert.Equal(t, snap.Credential != "", snap.IsAuthenticated)
	assert.Equal(t, !snap.IsAuthenticated, h.profiles.State().IsGuest(),
		"profile must be populated exactly when signed in")
}

func nami() *models.UserInfo {
	male := false
	return &models.UserInfo{ID: "7", FullName: "Nami", Email: "nami@example.com", DateOfBirth: "2000-07-03", Male: &male}
}

func TestRun_NoStoredCredential_NoNetwork(t *testing.T) {
	h := newHarness(t, "", &fakeRemote{valid: true, user: nami()})

	res, err := h.seq.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, session.Absent, res.Decision)
	assert.False(t, res.Authenticated)
	assert.Empty(t, h.remote.Calls(), "no network calls without a credential")
	assert.True(t, h.profiles.State().IsGuest())
	h.assertConsistent(t)
}

func TestRun_TerminalDecisionsLogOut(t *testing.T) {
	tests := []struct {
		name      string
		stored    func(t *testing.T) string
		remote    *fakeRemote
		want      session.Decision
		wantCalls []string
	}{
		{
			name:      "expired skips the liveness check",
			stored:    func(t *testing.T) string { return mintToken(t, fixedNow.Add(-time.Minute)) },
			remote:    &fakeRemote{valid: true},
			want:      session.Expired,
			wantCalls: []string{"logout"},
		},
		{
			name:      "expires exactly now",
			stored:    func(t *testing.T) string { return mintToken(t, fixedNow) },
			remote:    &fakeRemote{valid: true},
			want:      session.Expired,
			wantCalls: []string{"logout"},
		},
		{
			name:      "malformed",
			stored:    func(*testing.T) string { return "not-a-token" },
			remote:    &fakeRemote{valid: true},
			want:      session.Invalid,
			wantCalls: []string{"logout"},
		},
		{
			name:      "revoked on the server",
			stored:    func(t *testing.T) string { return mintToken(t, fixedNow.Add(48*time.Hour)) },
			remote:    &fakeRemote{valid: false},
			want:      session.Invalid,
			wantCalls: []string{"introspect", "logout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := tt.stored(t)
			h := newHarness(t, stored, tt.remote)

			res, err := h.seq.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.want, res.Decision)
			assert.False(t, res.Authenticated)
			assert.Equal(t, tt.wantCalls, h.remote.Calls())
			assert.Equal(t, []string{stored}, h.remote.logouts)
			assert.Empty(t, h.storage.value, "persisted credential must be removed")
			h.assertConsistent(t)
		})
	}
}

func TestRun_LivenessCheckFailure_StaysSignedOutAndKeepsCredential(t *testing.T) {
	stored := mintToken(t, fixedNow.Add(48*time.Hour))
	h := newHarness(t, stored, &fakeRemote{introspectErr: errBoom})

	res, err := h.seq.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Authenticated)
	require.ErrorIs(t, res.Err, session.ErrLivenessCheck)
	assert.Equal(t, []string{"introspect"}, h.remote.Calls())
	assert.Equal(t, stored, h.storage.value)
	h.assertConsistent(t)
}

func TestRun_Valid_AuthenticatesAndLoadsProfile(t *testing.T) {
	stored := mintToken(t, fixedNow.Add(48*time.Hour))
	remote := &fakeRemote{
		valid: true,
		user:  nami(),
		bookmarks: []models.Bookmark{
			{ComicID: "4", Name: "Dragon Ball Super"},
			{ComicID: "6", Name: "Attack on Titan"},
		},
	}
	h := newHarness(t, stored, remote)

	res, err := h.seq.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, session.Valid, res.Decision)
	assert.True(t, res.Authenticated)
	assert.False(t, res.Refreshed)
	assert.NoError(t, res.Err)

	assert.Equal(t, stored, h.sessions.Credential())
	assert.Equal(t, stored, remote.lastProfileCred)
	assert.Equal(t, stored, remote.lastBookmarkCred)

	p := h.profiles.State()
	assert.Equal(t, "7", p.ID)
	assert.Equal(t, "Nami", p.FullName)
	assert.Equal(t, 2, p.Bookmarks.Len())
	assert.True(t, p.Bookmarks.Contains("6"))
	h.assertConsistent(t)
}

func TestRun_NearExpiry_RefreshesThenLoadsWithFreshCredential(t *testing.T) {
	stored := mintToken(t, fixedNow.Add(10*time.Second))
	fresh := mintToken(t, fixedNow.Add(24*time.Hour))
	remote := &fakeRemote{valid: true, refreshed: fresh, user: nami()}
	h := newHarness(t, stored, remote)

	res, err := h.seq.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, session.NearExpiry, res.Decision)
	assert.True(t, res.Refreshed)
	assert.True(t, res.Authenticated)

	assert.Equal(t, stored, remote.lastRefresh, "refresh is called with the old credential")
	assert.Equal(t, fresh, h.sessions.Credential())
	assert.Equal(t, fresh, h.storage.value)
	assert.Equal(t, fresh, remote.lastProfileCred)
	assert.Equal(t, fresh, remote.lastBookmarkCred)

	calls := remote.Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, []string{"introspect", "refresh"}, calls[:2])
	assert.ElementsMatch(t, []string{"profile", "bookmarks"}, calls[2:])
	h.assertConsistent(t)
}

func TestRun_ZeroThreshold_NeverRefreshes(t *testing.T) {
	stored := mintToken(t, fixedNow.Add(10*time.Second))
	remote := &fakeRemote{valid: true, user: nami()}
	h := newHarness(t, stored, remote, WithNearExpiryThreshold(0))

	res, err := h.seq.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, session.Valid, res.Decision)
	assert.False(t, slices.Contains(remote.Calls(), "refresh"))
}

func TestRun_RefreshFailure_LogsOut(t *testing.T) {
	stored := mintToken(t, fixedNow.Add(10*time.Second))
	remote := &fakeRemote{valid: true, refreshErr: errBoom, user: nami()}
	h := newHarness(t, stored, remote)

	res, err := h.seq.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Authenticated)
	require.ErrorIs(t, res.Err, errBoom)
	assert.Equal(t, []string{"introspect", "refresh", "logout"}, remote.Calls())
	assert.Empty(t, h.storage.value)
	h.assertConsistent(t)
}

func TestRun_ProfileFetchFailure_FinishesSignedOut(t *testing.T) {
	tests := []struct {
		name   string
		remote *fakeRemote
	}{
		{name: "profile", remote: &fakeRemote{valid: true, userErr: errBoom}},
		{name: "bookmarks", remote: &fakeRemote{valid: true, user: nami(), bookmarksErr: errBoom}},
		{name: "empty profile reply", remote: &fakeRemote{valid: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, mintToken(t, fixedNow.Add(48*time.Hour)), tt.remote)

			res, err := h.seq.Run(context.Background())
			require.NoError(t, err)

			assert.False(t, res.Authenticated)
			assert.Error(t, res.Err)
			assert.False(t, h.sessions.IsAuthenticated())
			assert.True(t, h.profiles.State().IsGuest(), "no partial profile may remain")
			h.assertConsistent(t)
		})
	}
}

func TestRun_UnreachableProfileFetch_KeepsCredential(t *testing.T) {
	stored := mintToken(t, fixedNow.Add(48*time.Hour))
	unreachable := fmt.Errorf("%w: connection refused", client.ErrUnavailable)
	h := newHarness(t, stored, &fakeRemote{valid: true, user: nami(), bookmarksErr: unreachable})

	res, err := h.seq.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Authenticated)
	require.ErrorIs(t, res.Err, client.ErrUnavailable)
	assert.NotContains(t, h.remote.Calls(), "logout", "the backend is not asked to invalidate")
	assert.Equal(t, stored, h.storage.value, "the next start may try again")
	assert.False(t, h.sessions.IsAuthenticated())
	h.assertConsistent(t)
}

func TestRun_OnlyOnce(t *testing.T) {
	stored := mintToken(t, fixedNow.Add(48*time.Hour))
	remote := &fakeRemote{valid: true, user: nami()}
	h := newHarness(t, stored, remote)

	first, err := h.seq.Run(context.Background())
	require.NoError(t, err)
	calls := len(remote.Calls())

	second, err := h.seq.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, remote.Calls(), calls, "a second run must not touch the network")
}

func TestRun_ConcurrentCallIsNoOp(t *testing.T) {
	stored := mintToken(t, fixedNow.Add(48*time.Hour))
	remote := &fakeRemote{valid: true, user: nami(), block: make(chan struct{})}
	h := newHarness(t, stored, remote)

	done := make(chan Result, 1)
	go func() {
		res, _ := h.seq.Run(context.Background())
		done <- res
	}()

	require.Eventually(t, func() bool {
		return slices.Contains(remote.Calls(), "introspect")
	}, time.Second, time.Millisecond)

	_, err := h.seq.Run(context.Background())
	require.ErrorIs(t, err, ErrInProgress)

	close(remote.block)
	res := <-done
	assert.True(t, res.Authenticated)

	introspections := 0
	for _, c := range remote.Calls() {
		if c == "introspect" {
			introspections++
		}
	}
	assert.Equal(t, 1, introspections)
}

func TestRun_BoundedByTimeout(t *testing.T) {
	stored := mintToken(t, fixedNow.Add(48*time.Hour))
	remote := &fakeRemote{valid: true, user: nami(), block: make(chan struct{})}
	h := newHarness(t, stored, remote, WithTimeout(20*time.Millisecond))

	start := time.Now()
	res, err := h.seq.Run(context.Background())
	require.NoError(t, err)

	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, res.Authenticated)
	require.ErrorIs(t, res.Err, context.DeadlineExceeded)
	h.assertConsistent(t)
}

func TestLoadProfile_AppliesNothingOnFailure(t *testing.T) {
	profiles := profile.NewStore()
	var updates int
	profiles.Subscribe(func(profile.Profile) { updates++ })

	err := LoadProfile(context.Background(), &fakeRemote{user: nami(), bookmarksErr: errBoom}, profiles, "cred")
	require.ErrorIs(t, err, errBoom)
	assert.Zero(t, updates)

	err = LoadProfile(context.Background(), &fakeRemote{user: nami()}, profiles, "cred")
	require.NoError(t, err)
	assert.Equal(t, 2, updates, "one replace-all plus one replace-bookmarks")
}
