package client

import (
	"context"

	"github.com/dmitrijs2005/comicreader/internal/client/models"
)

// Client is the backend contract used by the reader. Methods that take a
// credential send it as a Bearer token; an empty credential sends none.
type Client interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, r models.Registration) error
	Refresh(ctx context.Context, credential string) (string, error)
	Introspect(ctx context.Context, credential string) (bool, error)
	Logout(ctx context.Context, credential string) error
	ResetPassword(ctx context.Context, email string) (string, error)
	VerifyOTP(ctx context.Context, email, otp string) (string, error)

	MyInformation(ctx context.Context, credential string) (*models.UserInfo, error)
	ChangePassword(ctx context.Context, credential, oldPassword, newPassword string) error
	ChangeInformation(ctx context.Context, credential string, c models.ProfileChange) error

	MyBookmarks(ctx context.Context, credential string) ([]models.Bookmark, error)
	ToggleBookmark(ctx context.Context, credential, comicID string) error

	AllComics(ctx context.Context) ([]models.Comic, error)
	SearchComics(ctx context.Context, query string) ([]models.Comic, error)
	MostViewedComics(ctx context.Context) ([]models.Comic, error)
	ComicInformation(ctx context.Context, credential, comicID string) (*models.Comic, error)
	ComicChapters(ctx context.Context, comicID string) ([]models.ChapterRef, error)
	Chapter(ctx context.Context, chapterID string) (*models.Chapter, error)
	AllGenres(ctx context.Context) ([]models.Genre, error)
	ComicsByGenre(ctx context.Context, genreID string) ([]models.Comic, error)
	ComicsByGenres(ctx context.Context, genreIDs []string) ([]models.Comic, error)

	ChapterComments(ctx context.Context, credential, chapterID string) ([]models.Comment, error)
	LeaveComment(ctx context.Context, credential, chapterID, content string) error
	RateComic(ctx context.Context, credential, comicID string, score int) error
}
