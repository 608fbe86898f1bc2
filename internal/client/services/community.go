package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/comicreader/internal/client/client"
	"github.com/dmitrijs2005/comicreader/internal/client/models"
	"github.com/dmitrijs2005/comicreader/internal/common"
)

const (
	MinScore = 1
	MaxScore = 5
)

// CommunityService covers comments and ratings. Every operation requires a
// session and fails with common.ErrAuthRequired without one.
type CommunityService interface {
	Comments(ctx context.Context, chapterID string) ([]models.Comment, error)
	Comment(ctx context.Context, chapterID, content string) error
	Rate(ctx context.Context, comicID string, score int) error
}

// Community implements CommunityService.
type Community struct {
	client client.Client
	auth   *Auth
}

// NewCommunity shares auth's session so a rejected credential signs the
// reader out.
func NewCommunity(c client.Client, auth *Auth) *Community {
	return &Community{client: c, auth: auth}
}

func (c *Community) credential() (string, error) {
	cred := c.auth.session.Credential()
	if cred == "" {
		return "", common.ErrAuthRequired
	}
	return cred, nil
}

func (c *Community) Comments(ctx context.Context, chapterID string) ([]models.Comment, error) {
	cred, err := c.credential()
	if err != nil {
		return nil, err
	}
	if err := requireID("chapter", chapterID); err != nil {
		return nil, err
	}
	comments, err := c.client.ChapterComments(ctx, cred, chapterID)
	if err != nil {
		return nil, expireOnUnauthorized(ctx, c.auth, err)
	}
	return comments, nil
}

func (c *Community) Comment(ctx context.Context, chapterID, content string) error {
	cred, err := c.credential()
	if err != nil {
		return err
	}
	if err := requireID("chapter", chapterID); err != nil {
		return err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("%w: comment is empty", common.ErrInvalidArgument)
	}
	return expireOnUnauthorized(ctx, c.auth, c.client.LeaveComment(ctx, cred, chapterID, content))
}

func (c *Community) Rate(ctx context.Context, comicID string, score int) error {
	cred, err := c.credential()
	if err != nil {
		return err
	}
	if err := requireID("comic", comicID); err != nil {
		return err
	}
	if score < MinScore || score > MaxScore {
		return fmt.Errorf("%w: score must be between %d and %d", common.ErrInvalidArgument, MinScore, MaxScore)
	}
	return expireOnUnauthorized(ctx, c.auth, c.client.RateComic(ctx, cred, comicID, score))
}

var _ CommunityService = (*Community)(nil)
