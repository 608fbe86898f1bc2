package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/comicreader/internal/client/client"
	"github.com/dmitrijs2005/comicreader/internal/client/models"
	"github.com/dmitrijs2005/comicreader/internal/common"
)

// CatalogService browses comics, chapters and genres. None of it needs a
// session; comic details are personalized when one exists.
type CatalogService interface {
	Comics(ctx context.Context) ([]models.Comic, error)
	Search(ctx context.Context, query string) ([]models.Comic, error)
	MostViewed(ctx context.Context) ([]models.Comic, error)
	Comic(ctx context.Context, comicID string) (*models.Comic, error)
	Chapters(ctx context.Context, comicID string) ([]models.ChapterRef, error)
	Chapter(ctx context.Context, chapterID string) (*models.Chapter, error)
	Genres(ctx context.Context) ([]models.Genre, error)
	ComicsByGenre(ctx context.Context, genreID string) ([]models.Comic, error)
	ComicsByGenres(ctx context.Context, genreIDs []string) ([]models.Comic, error)
}

// Catalog implements CatalogService.
type Catalog struct {
	client  client.Client
	session Session
}

func NewCatalog(c client.Client, s Session) *Catalog {
	return &Catalog{client: c, session: s}
}

func (c *Catalog) Comics(ctx context.Context) ([]models.Comic, error) {
	return c.client.AllComics(ctx)
}

// Search lists every comic for a blank query.
func (c *Catalog) Search(ctx context.Context, query string) ([]models.Comic, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.client.AllComics(ctx)
	}
	return c.client.SearchComics(ctx, query)
}

// MostViewed returns the home-screen picks, most viewed first.
func (c *Catalog) MostViewed(ctx context.Context) ([]models.Comic, error) {
	return c.client.MostViewedComics(ctx)
}

func (c *Catalog) Comic(ctx context.Context, comicID string) (*models.Comic, error) {
	if err := requireID("comic", comicID); err != nil {
		return nil, err
	}
	return c.client.ComicInformation(ctx, c.session.Credential(), comicID)
}

func (c *Catalog) Chapters(ctx context.Context, comicID string) ([]models.ChapterRef, error) {
	if err := requireID("comic", comicID); err != nil {
		return nil, err
	}
	return c.client.ComicChapters(ctx, comicID)
}

func (c *Catalog) Chapter(ctx context.Context, chapterID string) (*models.Chapter, error) {
	if err := requireID("chapter", chapterID); err != nil {
		return nil, err
	}
	return c.client.Chapter(ctx, chapterID)
}

func (c *Catalog) Genres(ctx context.Context) ([]models.Genre, error) {
	return c.client.AllGenres(ctx)
}

func (c *Catalog) ComicsByGenre(ctx context.Context, genreID string) ([]models.Comic, error) {
	if err := requireID("genre", genreID); err != nil {
		return nil, err
	}
	return c.client.ComicsByGenre(ctx, genreID)
}

func (c *Catalog) ComicsByGenres(ctx context.Context, genreIDs []string) ([]models.Comic, error) {
	if len(genreIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one genre is required", common.ErrInvalidArgument)
	}
	return c.client.ComicsByGenres(ctx, genreIDs)
}

func requireID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s id is required", common.ErrInvalidArgument, kind)
	}
	return nil
}

var _ CatalogService = (*Catalog)(nil)
