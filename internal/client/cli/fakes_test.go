package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/dmitrijs2005/comicreader/internal/client/bootstrap"
	"github.com/dmitrijs2005/comicreader/internal/client/models"
	"github.com/dmitrijs2005/comicreader/internal/client/profile"
	"github.com/dmitrijs2005/comicreader/internal/client/services"
	"github.com/dmitrijs2005/comicreader/internal/logging"
)

type fakeAuth struct {
	current profile.Profile

	loginUser string
	loginPass []byte
	loginErr  error

	registered  models.Registration
	regPass     []byte
	registerErr error

	logoutCalls int

	resetEmail  string
	resetMsg    string
	verifyOTP   string
	verifyMsg   string
	recoveryErr error

	oldPass   []byte
	newPass   []byte
	passwdErr error

	change    models.ProfileChange
	changeErr error
}

func (f *fakeAuth) Login(_ context.Context, user string, pass []byte) error {
	f.loginUser, f.loginPass = user, append([]byte(nil), pass...)
	if f.loginErr == nil {
		f.current = profile.Profile{ID: "7", FullName: "Nami"}
	}
	return f.loginErr
}

func (f *fakeAuth) Register(_ context.Context, r models.Registration, pass []byte) error {
	f.registered, f.regPass = r, append([]byte(nil), pass...)
	return f.registerErr
}

func (f *fakeAuth) Logout(context.Context) {
	f.logoutCalls++
	f.current = profile.Profile{}
}

func (f *fakeAuth) ResetPassword(_ context.Context, email string) (string, error) {
	f.resetEmail = email
	return f.resetMsg, f.recoveryErr
}

func (f *fakeAuth) VerifyOTP(_ context.Context, email, otp string) (string, error) {
	f.resetEmail, f.verifyOTP = email, otp
	return f.verifyMsg, f.recoveryErr
}

func (f *fakeAuth) ChangePassword(_ context.Context, oldPass, newPass []byte) error {
	f.oldPass, f.newPass = append([]byte(nil), oldPass...), append([]byte(nil), newPass...)
	return f.passwdErr
}

func (f *fakeAuth) UpdateProfile(_ context.Context, c models.ProfileChange) error {
	f.change = c
	return f.changeErr
}

func (f *fakeAuth) Current() profile.Profile { return f.current }

type fakeCatalog struct {
	comics   []models.Comic
	comic    *models.Comic
	chapters []models.ChapterRef
	chapter  *models.Chapter
	genres   []models.Genre
	top      []models.Comic
	err      error

	lastQuery  string
	lastID     string
	lastGenre  string
	lastGenres []string
}

func (f *fakeCatalog) Comics(context.Context) ([]models.Comic, error) { return f.comics, f.err }

func (f *fakeCatalog) Search(_ context.Context, q string) ([]models.Comic, error) {
	f.lastQuery = q
	return f.comics, f.err
}

func (f *fakeCatalog) MostViewed(context.Context) ([]models.Comic, error) { return f.top, f.err }

func (f *fakeCatalog) Comic(_ context.Context, id string) (*models.Comic, error) {
	f.lastID = id
	return f.comic, f.err
}

func (f *fakeCatalog) Chapters(_ context.Context, id string) ([]models.ChapterRef, error) {
	f.lastID = id
	return f.chapters, f.err
}

func (f *fakeCatalog) Chapter(_ context.Context, id string) (*models.Chapter, error) {
	f.lastID = id
	return f.chapter, f.err
}

func (f *fakeCatalog) Genres(context.Context) ([]models.Genre, error) { return f.genres, f.err }

func (f *fakeCatalog) ComicsByGenre(_ context.Context, id string) ([]models.Comic, error) {
	f.lastGenre = id
	return f.comics, f.err
}

func (f *fakeCatalog) ComicsByGenres(_ context.Context, ids []string) ([]models.Comic, error) {
	f.lastGenres = ids
	return f.comics, f.err
}

type fakeCommunity struct {
	comments []models.Comment
	err      error

	lastChapter string
	lastContent string
	lastComic   string
	lastScore   int
}

func (f *fakeCommunity) Comments(_ context.Context, chapterID string) ([]models.Comment, error) {
	f.lastChapter = chapterID
	return f.comments, f.err
}

func (f *fakeCommunity) Comment(_ context.Context, chapterID, content string) error {
	f.lastChapter, f.lastContent = chapterID, content
	return f.err
}

func (f *fakeCommunity) Rate(_ context.Context, comicID string, score int) error {
	f.lastComic, f.lastScore = comicID, score
	return f.err
}

type fakeBookmarks struct {
	items      []profile.Bookmark
	bookmarked bool
	err        error

	lastFilter string
	lastToggle string
}

func (f *fakeBookmarks) List() []profile.Bookmark { return f.items }

func (f *fakeBookmarks) Filter(q string) []profile.Bookmark {
	f.lastFilter = q
	return profile.NewBookmarks(f.items...).Filter(q)
}

func (f *fakeBookmarks) Toggle(_ context.Context, id string) (bool, error) {
	f.lastToggle = id
	return f.bookmarked, f.err
}

func (f *fakeBookmarks) Sync(context.Context) error { return f.err }

type fakeStartup struct {
	res bootstrap.Result
	err error
}

func (f *fakeStartup) Run(context.Context) (bootstrap.Result, error) { return f.res, f.err }

type fakeAge struct {
	at time.Time
	ok bool
}

func (f fakeAge) SavedAt(context.Context) (time.Time, bool, error) { return f.at, f.ok, nil }

type fakeLocal struct {
	entries map[string][]byte
	err     error
}

func (f *fakeLocal) List(context.Context) (map[string][]byte, error) { return f.entries, f.err }

func (f *fakeLocal) Clear(context.Context) error {
	if f.err != nil {
		return f.err
	}
	f.entries = nil
	return nil
}

var (
	_ services.AuthService      = (*fakeAuth)(nil)
	_ services.CatalogService   = (*fakeCatalog)(nil)
	_ services.CommunityService = (*fakeCommunity)(nil)
	_ services.BookmarkService  = (*fakeBookmarks)(nil)
)

type testApp struct {
	*App
	out       *bytes.Buffer
	auth      *fakeAuth
	catalog   *fakeCatalog
	community *fakeCommunity
	bookmarks *fakeBookmarks
	local     *fakeLocal
}

// newTestApp builds an App over fakes; input feeds the prompts.
func newTestApp(input string) *testApp {
	t := &testApp{
		out:       &bytes.Buffer{},
		auth:      &fakeAuth{},
		catalog:   &fakeCatalog{},
		community: &fakeCommunity{},
		bookmarks: &fakeBookmarks{},
		local:     &fakeLocal{},
	}
	t.App = &App{
		log:       logging.Nop(),
		startup:   &fakeStartup{},
		auth:      t.auth,
		catalog:   t.catalog,
		community: t.community,
		bookmarks: t.bookmarks,
		local:     t.local,
		reader:    bufio.NewReader(bytes.NewBufferString(input)),
		out:       t.out,
	}
	return t
}

func (t *testApp) signIn() {
	t.auth.current = profile.Profile{ID: "7", FullName: "Nami", Email: "nami@example.com", DateOfBirth: "2000-07-03"}
}

// stubPasswords answers password prompts in order.
func stubPasswords(t *testing.T, passwords ...string) {
	t.Helper()
	orig := getPassword
	i := 0
	getPassword = func(_ string, _ io.Writer) ([]byte, error) {
		if i >= len(passwords) {
			return nil, io.EOF
		}
		pw := []byte(passwords[i])
		i++
		return pw, nil
	}
	t.Cleanup(func() { getPassword = orig })
}
