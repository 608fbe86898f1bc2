package profile

import (
	"strconv"

	"github.com/dmitrijs2005/comicreader/internal/client/models"
)

// BookmarkFromRemote converts a backend bookmark into a set entry.
func BookmarkFromRemote(m models.Bookmark) Bookmark {
	b := Bookmark{
		ComicID:      m.ComicID.String(),
		Name:         m.Name,
		ThumbnailURL: m.ThumbnailURL,
	}
	if m.LastChapter != nil {
		b.LastChapter = strconv.Itoa(m.LastChapter.ChapterNumber)
	}
	return b
}

// BookmarksFromRemote converts a backend bookmark list. The result is never nil,
// so a ReplaceAll built from it always replaces the set.
func BookmarksFromRemote(in []models.Bookmark) []Bookmark {
	out := make([]Bookmark, 0, len(in))
	for _, m := range in {
		out = append(out, BookmarkFromRemote(m))
	}
	return out
}

// FieldsFromUser builds a ReplaceAll payload from the backend user record.
func FieldsFromUser(u models.UserInfo) Fields {
	id := u.ID.String()
	f := Fields{
		ID:          &id,
		FullName:    &u.FullName,
		Email:       &u.Email,
		DateOfBirth: &u.DateOfBirth,
	}
	if u.Male != nil {
		v := *u.Male
		f.IsMale = &v
	}
	return f
}
