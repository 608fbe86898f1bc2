// Package profile holds the signed-in reader's denormalized record: identity
// fields plus the bookmark set. State changes only through Dispatch with one
// of the Action kinds declared here.
package profile

import "strings"

// Bookmark is one entry of the reader's bookmark set, keyed by ComicID.
type Bookmark struct {
	ComicID      string `json:"comicId"`
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	LastChapter  string `json:"lastChapter,omitempty"`
}

// Profile is the reader record. An empty ID means guest mode.
type Profile struct {
	ID          string
	FullName    string
	Email       string
	DateOfBirth string
	IsMale      *bool
	Bookmarks   Bookmarks
}

// IsGuest reports whether no signed-in reader is loaded.
func (p Profile) IsGuest() bool {
	return p.ID == ""
}

// clone returns a copy that shares no mutable memory with p.
func (p Profile) clone() Profile {
	c := p
	if p.IsMale != nil {
		v := *p.IsMale
		c.IsMale = &v
	}
	c.Bookmarks = p.Bookmarks.clone()
	return c
}

// Bookmarks is an insertion-ordered set of Bookmark keyed by ComicID.
// The zero value is an empty set.
type Bookmarks struct {
	items []Bookmark
}

// NewBookmarks builds a set from entries; later duplicates of a ComicID
// replace earlier ones in place, and entries without a ComicID are dropped.
func NewBookmarks(entries ...Bookmark) Bookmarks {
	var b Bookmarks
	for _, e := range entries {
		b = b.With(e)
	}
	return b
}

// Len returns the number of bookmarks.
func (b Bookmarks) Len() int { return len(b.items) }

// Items returns a copy of the entries in insertion order.
func (b Bookmarks) Items() []Bookmark {
	out := make([]Bookmark, len(b.items))
	copy(out, b.items)
	return out
}

// Contains reports whether comicID is bookmarked.
func (b Bookmarks) Contains(comicID string) bool {
	return b.index(comicID) >= 0
}

// With returns a set that includes e.
func (b Bookmarks) With(e Bookmark) Bookmarks {
	if e.ComicID == "" {
		return b
	}
	out := b.clone()
	if i := out.index(e.ComicID); i >= 0 {
		out.items[i] = e
		return out
	}
	out.items = append(out.items, e)
	return out
}

// Without returns a set that excludes comicID.
func (b Bookmarks) Without(comicID string) Bookmarks {
	i := b.index(comicID)
	if i < 0 {
		return b.clone()
	}
	out := Bookmarks{items: make([]Bookmark, 0, len(b.items)-1)}
	out.items = append(out.items, b.items[:i]...)
	out.items = append(out.items, b.items[i+1:]...)
	return out
}

// Toggle flips membership of e.ComicID.
func (b Bookmarks) Toggle(e Bookmark) Bookmarks {
	if b.Contains(e.ComicID) {
		return b.Without(e.ComicID)
	}
	return b.With(e)
}

// Filter returns the entries whose name contains query, case-insensitively.
// An empty query returns every entry.
func (b Bookmarks) Filter(query string) []Bookmark {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return b.Items()
	}
	var out []Bookmark
	for _, e := range b.items {
		if strings.Contains(strings.ToLower(e.Name), q) {
			out = append(out, e)
		}
	}
	return out
}

func (b Bookmarks) index(comicID string) int {
	for i, e := range b.items {
		if e.ComicID == comicID {
			return i
		}
	}
	return -1
}

func (b Bookmarks) clone() Bookmarks {
	if b.items == nil {
		return Bookmarks{}
	}
	out := Bookmarks{items: make([]Bookmark, len(b.items))}
	copy(out.items, b.items)
	return out
}
