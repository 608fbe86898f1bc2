package models

import "encoding/json"

// SuccessCode is the envelope code of a successful reply.
const SuccessCode = 1000

// Envelope wraps every backend reply.
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// OK reports whether the envelope carries a successful result.
// Older endpoints omit the code or answer with an HTTP-style 200.
func (e Envelope) OK() bool {
	return e.Code == SuccessCode || e.Code == 0 || e.Code == 200
}

// ChapterRef is the short chapter reference attached to comics and bookmarks.
type ChapterRef struct {
	ID            ID     `json:"id,omitempty"`
	ChapterNumber int    `json:"chapterNumber"`
	Title         string `json:"title,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

// Genre is a catalog category.
type Genre struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Comic is a catalog entry.
type Comic struct {
	ID           ID           `json:"id"`
	Name         string       `json:"name"`
	Author       string       `json:"author"`
	Description  string       `json:"description"`
	ThumbnailURL string       `json:"thumbnailUrl"`
	View         int64        `json:"view"`
	Finished     bool         `json:"finished"`
	Genres       []Genre      `json:"genres"`
	LastChapter  *ChapterRef  `json:"lastestChapter,omitempty"`
	Chapters     []ChapterRef `json:"chapters,omitempty"`
}

// Chapter is a readable chapter with its page image URLs.
type Chapter struct {
	ID            ID       `json:"id"`
	ChapterNumber int      `json:"chapterNumber"`
	Title         string   `json:"title"`
	CreatedAt     string   `json:"createdAt"`
	ImageURLs     []string `json:"imageUrls"`
}

// Comment is a reader comment left on a chapter.
type Comment struct {
	ID        ID     `json:"id,omitempty"`
	FullName  string `json:"fullName"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// Bookmark is one entry of the remote bookmark list.
type Bookmark struct {
	ComicID      ID          `json:"comicId"`
	Name         string      `json:"name"`
	ThumbnailURL string      `json:"thumbnailUrl,omitempty"`
	LastChapter  *ChapterRef `json:"lastChapter,omitempty"`
}

// UserInfo is the signed-in reader's record as returned by getMyInformation.
type UserInfo struct {
	ID          ID     `json:"id"`
	Username    string `json:"username,omitempty"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	DateOfBirth string `json:"dateOfBirth"`
	Male        *bool  `json:"male"`
}

// Registration is the payload of a sign-up request.
type Registration struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	DateOfBirth string `json:"dateOfBirth"`
	Male        bool   `json:"male"`
}

// ProfileChange is the payload of a profile edit.
type ProfileChange struct {
	FullName    string `json:"fullName"`
	DateOfBirth string `json:"dateOfBirth"`
	Male        bool   `json:"male"`
}
