package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/comicreader/internal/client/models"
	"github.com/dmitrijs2005/comicreader/internal/common"
	"github.com/dmitrijs2005/comicreader/internal/logging"
	"github.com/google/uuid"
)

const maxResponseBytes = 8 << 20

// HTTPClient talks to the comic backend over REST.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
	newID   func() string
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithRequestID overrides the X-Request-ID generator.
func WithRequestID(fn func() string) Option {
	return func(c *HTTPClient) { c.newID = fn }
}

// NewHTTPClient returns a client for baseURL whose calls are bounded by
// timeout. A non-positive timeout leaves calls bounded by the context only.
func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: server url must be http(s), got %q", common.ErrInvalidArgument, baseURL)
	}
	if log == nil {
		log = logging.Nop()
	}
	c := &HTTPClient{
		baseURL: u.String(),
		http:    &http.Client{Timeout: max(timeout, 0)},
		log:     log,
		newID:   uuid.NewString,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

type tokenBody struct {
	Token string `json:"token"`
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	var out tokenBody
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", &APIError{Status: http.StatusOK, Message: "login reply carries no token"}
	}
	return out.Token, nil
}

func (c *HTTPClient) Register(ctx context.Context, r models.Registration) error {
	return c.do(ctx, http.MethodPost, "/api/auth/register", "", r, nil)
}

func (c *HTTPClient) Refresh(ctx context.Context, credential string) (string, error) {
	var out tokenBody
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", "", tokenBody{Token: credential}, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", &APIError{Status: http.StatusOK, Message: "refresh reply carries no token"}
	}
	return out.Token, nil
}

func (c *HTTPClient) Introspect(ctx context.Context, credential string) (bool, error) {
	var out struct {
		Valid bool `json:"valid"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/introspect", "", tokenBody{Token: credential}, &out); err != nil {
		return false, err
	}
	return out.Valid, nil
}

func (c *HTTPClient) Logout(ctx context.Context, credential string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", "", tokenBody{Token: credential}, nil)
}

// ResetPassword asks the backend to mail a one-time code to email. The
// backend's reply message is returned for display.
func (c *HTTPClient) ResetPassword(ctx context.Context, email string) (string, error) {
	body := map[string]string{"email": email}
	return c.call(ctx, http.MethodPost, "/api/auth/resetPassword", "", body, nil)
}

// VerifyOTP confirms the code mailed by ResetPassword.
func (c *HTTPClient) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	body := map[string]string{"email": email, "otp": otp}
	return c.call(ctx, http.MethodPost, "/api/auth/verifyOtp", "", body, nil)
}

func (c *HTTPClient) MyInformation(ctx context.Context, credential string) (*models.UserInfo, error) {
	var out models.UserInfo
	if err := c.do(ctx, http.MethodGet, "/api/user/getMyInformation", credential, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, credential, oldPassword, newPassword string) error {
	body := map[string]string{"oldPassword": oldPassword, "newPassword": newPassword}
	return c.do(ctx, http.MethodPut, "/api/user/changePassword", credential, body, nil)
}

func (c *HTTPClient) ChangeInformation(ctx context.Context, credential string, p models.ProfileChange) error {
	return c.do(ctx, http.MethodPut, "/api/user/changeInformation", credential, p, nil)
}

func (c *HTTPClient) MyBookmarks(ctx context.Context, credential string) ([]models.Bookmark, error) {
	var out []models.Bookmark
	if err := c.do(ctx, http.MethodGet, "/api/bookmark/getMyBookmarks", credential, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ToggleBookmark(ctx context.Context, credential, comicID string) error {
	body := struct {
		ComicID models.ID `json:"comicId"`
	}{ComicID: models.ID(comicID)}
	return c.do(ctx, http.MethodPost, "/api/bookmark/bookmarkComic", credential, body, nil)
}

func (c *HTTPClient) AllComics(ctx context.Context) ([]models.Comic, error) {
	var out []models.Comic
	if err := c.do(ctx, http.MethodGet, "/api/comic/getAllComics", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) SearchComics(ctx context.Context, query string) ([]models.Comic, error) {
	var out []models.Comic
	if err := c.do(ctx, http.MethodGet, "/api/comic/searchComics/"+url.PathEscape(query), "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) MostViewedComics(ctx context.Context) ([]models.Comic, error) {
	var out []models.Comic
	if err := c.do(ctx, http.MethodGet, "/api/comic/get3MostViewComics", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ComicInformation(ctx context.Context, credential, comicID string) (*models.Comic, error) {
	var out models.Comic
	if err := c.do(ctx, http.MethodGet, "/api/comic/getComicInformation/"+url.PathEscape(comicID), credential, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ComicChapters(ctx context.Context, comicID string) ([]models.ChapterRef, error) {
	var out []models.ChapterRef
	if err := c.do(ctx, http.MethodGet, "/api/chapter/getComicChapters/"+url.PathEscape(comicID), "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Chapter returns one chapter. Some backend versions answer with the bare
// list of page URLs instead of a chapter object; both are accepted.
func (c *HTTPClient) Chapter(ctx context.Context, chapterID string) (*models.Chapter, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/chapter/getChapter/"+url.PathEscape(chapterID), "", nil, &raw); err != nil {
		return nil, err
	}
	out := models.Chapter{ID: models.ID(chapterID)}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &out.ImageURLs); err != nil {
			return nil, fmt.Errorf("decode chapter pages: %w", err)
		}
		return &out, nil
	}
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, fmt.Errorf("decode chapter: %w", err)
		}
	}
	return &out, nil
}

func (c *HTTPClient) AllGenres(ctx context.Context) ([]models.Genre, error) {
	var out []models.Genre
	if err := c.do(ctx, http.MethodGet, "/api/genre/getAllGenres", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ComicsByGenre(ctx context.Context, genreID string) ([]models.Comic, error) {
	var out []models.Comic
	if err := c.do(ctx, http.MethodGet, "/api/genre/getComicsByGenre/"+url.PathEscape(genreID), "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ComicsByGenres(ctx context.Context, genreIDs []string) ([]models.Comic, error) {
	ids := make([]models.ID, len(genreIDs))
	for i, id := range genreIDs {
		ids[i] = models.ID(id)
	}
	body := struct {
		GenreIDs []models.ID `json:"genreIds"`
	}{GenreIDs: ids}

	var out []models.Comic
	if err := c.do(ctx, http.MethodPost, "/api/genre/getComicsByGenres", "", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ChapterComments(ctx context.Context, credential, chapterID string) ([]models.Comment, error) {
	var out []models.Comment
	if err := c.do(ctx, http.MethodGet, "/api/comment/getCommentsOfChapter/"+url.PathEscape(chapterID), credential, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) LeaveComment(ctx context.Context, credential, chapterID, content string) error {
	body := struct {
		Content   string    `json:"content"`
		ChapterID models.ID `json:"chapterId"`
	}{Content: content, ChapterID: models.ID(chapterID)}
	return c.do(ctx, http.MethodPost, "/api/comment/leaveComment", credential, body, nil)
}

func (c *HTTPClient) RateComic(ctx context.Context, credential, comicID string, score int) error {
	body := struct {
		ComicID models.ID `json:"comicId"`
		Score   int       `json:"score"`
	}{ComicID: models.ID(comicID), Score: score}
	return c.do(ctx, http.MethodPost, "/api/rating/rateComic", credential, body, nil)
}

// do sends one request and decodes the envelope result into out (if non-nil).
func (c *HTTPClient) do(ctx context.Context, method, path, credential string, in, out any) error {
	_, err := c.call(ctx, method, path, credential, in, out)
	return err
}

// call is do that also returns the envelope message of a successful reply.
func (c *HTTPClient) call(ctx context.Context, method, path, credential string, in, out any) (string, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return "", fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}
	reqID := c.newID()
	req.Header.Set(common.RequestIDHeaderName, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return "", mapTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", mapTransportError(err)
	}
	c.log.Debug(ctx, "request done", "method", method, "path", path, "request_id", reqID,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	var env models.Envelope
	var decodeErr error
	if len(bytes.TrimSpace(raw)) > 0 {
		decodeErr = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Code = env.Code
			apiErr.Message = env.Message
		}
		return "", apiErr
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode envelope: %w", decodeErr)
	}
	if !env.OK() {
		return "", &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.Message}
	}

	if out == nil || len(env.Result) == 0 || bytes.Equal(env.Result, []byte("null")) {
		return env.Message, nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return "", fmt.Errorf("decode result: %w", err)
	}
	return env.Message, nil
}

// IsUnauthorized reports whether err means the backend rejected the credential.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

var _ Client = (*HTTPClient)(nil)
