package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/comicreader/internal/client/client"
	"github.com/dmitrijs2005/comicreader/internal/client/models"
	"github.com/dmitrijs2005/comicreader/internal/client/profile"
	"github.com/dmitrijs2005/comicreader/internal/client/session"
	"github.com/dmitrijs2005/comicreader/internal/logging"
)

var (
	errBoom         = errors.New("boom")
	errUnauthorized = &client.APIError{Status: 401, Code: 1006, Message: "Unauthenticated"}
)

// fakeClient implements client.Client for the service tests.
type fakeClient struct {
	LoginRet string
	LoginErr error

	RegisterErr error

	ResetRet  string
	ResetErr  error
	VerifyRet string
	VerifyErr error

	UserRet      *models.UserInfo
	UserErr      error
	BookmarksRet []models.Bookmark
	BookmarksErr error
	ToggleErr    error

	ChangePasswordErr error
	ChangeInfoErr     error

	ComicsRet   []models.Comic
	ComicsErr   error
	SearchRet   []models.Comic
	ComicRet    *models.Comic
	ChaptersRet []models.ChapterRef
	ChapterRet  *models.Chapter
	GenresRet   []models.Genre
	ByGenresRet []models.Comic
	ByGenreRet  []models.Comic
	TopRet      []models.Comic

	CommentsRet []models.Comment
	CommentsErr error
	CommentErr  error
	RateErr     error

	LastLoginUser     string
	LastLoginPassword string
	LastRegister      models.Registration
	LastCredential    string
	LastOldPassword   string
	LastNewPassword   string
	LastProfileChange models.ProfileChange
	LastSearch        string
	LastComicID       string
	LastChapterID     string
	LastGenreIDs      []string
	LastGenreID       string
	LastEmail         string
	LastOTP           string
	LastComment       string
	LastScore         int
	AllComicsCalls    int
	LogoutCalls       int
}

func (f *fakeClient) Login(ctx context.Context, username, password string) (string, error) {
	f.LastLoginUser = username
	f.LastLoginPassword = password
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, r models.Registration) error {
	f.LastRegister = r
	return f.RegisterErr
}

func (f *fakeClient) Refresh(ctx context.Context, credential string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeClient) Introspect(ctx context.Context, credential string) (bool, error) {
	return true, nil
}

func (f *fakeClient) Logout(ctx context.Context, credential string) error {
	f.LogoutCalls++
	return nil
}

func (f *fakeClient) ResetPassword(ctx context.Context, email string) (string, error) {
	f.LastEmail = email
	return f.ResetRet, f.ResetErr
}

func (f *fakeClient) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	f.LastEmail = email
	f.LastOTP = otp
	return f.VerifyRet, f.VerifyErr
}

func (f *fakeClient) MyInformation(ctx context.Context, credential string) (*models.UserInfo, error) {
	f.LastCredential = credential
	return f.UserRet, f.UserErr
}

func (f *fakeClient) ChangePassword(ctx context.Context, credential, oldPassword, newPassword string) error {
	f.LastCredential = credential
	f.LastOldPassword = oldPassword
	f.LastNewPassword = newPassword
	return f.ChangePasswordErr
}

func (f *fakeClient) ChangeInformation(ctx context.Context, credential string, c models.ProfileChange) error {
	f.LastCredential = credential
	f.LastProfileChange = c
	return f.ChangeInfoErr
}

func (f *fakeClient) MyBookmarks(ctx context.Context, credential string) ([]models.Bookmark, error) {
	return f.BookmarksRet, f.BookmarksErr
}

func (f *fakeClient) ToggleBookmark(ctx context.Context, credential, comicID string) error {
	f.LastCredential = credential
	f.LastComicID = comicID
	return f.ToggleErr
}

func (f *fakeClient) AllComics(ctx context.Context) ([]models.Comic, error) {
	f.AllComicsCalls++
	return f.ComicsRet, f.ComicsErr
}

func (f *fakeClient) SearchComics(ctx context.Context, query string) ([]models.Comic, error) {
	f.LastSearch = query
	return f.SearchRet, nil
}

func (f *fakeClient) MostViewedComics(ctx context.Context) ([]models.Comic, error) {
	return f.TopRet, nil
}

func (f *fakeClient) ComicInformation(ctx context.Context, credential, comicID string) (*models.Comic, error) {
	f.LastCredential = credential
	f.LastComicID = comicID
	return f.ComicRet, nil
}

func (f *fakeClient) ComicChapters(ctx context.Context, comicID string) ([]models.ChapterRef, error) {
	f.LastComicID = comicID
	return f.ChaptersRet, nil
}

func (f *fakeClient) Chapter(ctx context.Context, chapterID string) (*models.Chapter, error) {
	f.LastChapterID = chapterID
	return f.ChapterRet, nil
}

func (f *fakeClient) AllGenres(ctx context.Context) ([]models.Genre, error) {
	return f.GenresRet, nil
}

func (f *fakeClient) ComicsByGenre(ctx context.Context, genreID string) ([]models.Comic, error) {
	f.LastGenreID = genreID
	return f.ByGenreRet, nil
}

func (f *fakeClient) ComicsByGenres(ctx context.Context, genreIDs []string) ([]models.Comic, error) {
	f.LastGenreIDs = genreIDs
	return f.ByGenresRet, nil
}

func (f *fakeClient) ChapterComments(ctx context.Context, credential, chapterID string) ([]models.Comment, error) {
	f.LastCredential = credential
	f.LastChapterID = chapterID
	return f.CommentsRet, f.CommentsErr
}

func (f *fakeClient) LeaveComment(ctx context.Context, credential, chapterID, content string) error {
	f.LastCredential = credential
	f.LastChapterID = chapterID
	f.LastComment = content
	return f.CommentErr
}

func (f *fakeClient) RateComic(ctx context.Context, credential, comicID string, score int) error {
	f.LastCredential = credential
	f.LastComicID = comicID
	f.LastScore = score
	return f.RateErr
}

var _ client.Client = (*fakeClient)(nil)

type memStorage struct{ value string }

func (m *memStorage) Load(ctx context.Context) (string, error) { return m.value, nil }

func (m *memStorage) Save(ctx context.Context, c string) error {
	m.value = c
	return nil
}

func (m *memStorage) Remove(ctx context.Context) error {
	m.value = ""
	return nil
}

type fixture struct {
	client   *fakeClient
	storage  *memStorage
	sessions *session.Store
	profiles *profile.Store
	auth     *Auth
}

func newFixture(fc *fakeClient) *fixture {
	f := &fixture{client: fc, storage: &memStorage{}, profiles: profile.NewStore()}
	f.sessions = session.NewStore(f.storage, fc, logging.Nop())
	f.auth = NewAuth(fc, f.sessions, f.profiles, logging.Nop())
	return f
}

// signIn puts the fixture into an authenticated state without a login call.
func (f *fixture) signIn(credential string) {
	_ = f.sessions.Authenticate(context.Background(), credential)
	id := "7"
	f.profiles.Dispatch(profile.ReplaceAll{Fields: profile.Fields{ID: &id}})
}

func nami() *models.UserInfo {
	return &models.UserInfo{ID: "7", FullName: "Nami", Email: "nami@example.com", DateOfBirth: "2000-07-03"}
}
