package profile

// Action is a profile update. The set of kinds is closed: ReplaceAll,
// ReplaceBookmarks and ClearAll.
type Action interface {
	action()
}

// Fields carries the profile fields to merge. Nil fields are left untouched.
type Fields struct {
	ID          *string
	FullName    *string
	Email       *string
	DateOfBirth *string
	IsMale      *bool
	Bookmarks   []Bookmark
}

// ReplaceAll merges Fields into the state.
type ReplaceAll struct {
	Fields Fields
}

// ReplaceBookmarks replaces the bookmark set wholesale.
type ReplaceBookmarks struct {
	Bookmarks []Bookmark
}

// ClearAll resets the state to the empty guest profile.
type ClearAll struct{}

func (ReplaceAll) action()       {}
func (ReplaceBookmarks) action() {}
func (ClearAll) action()         {}

// Reduce returns the state that results from applying a to s.
// s is never modified. Unknown or nil actions return s unchanged.
func Reduce(s Profile, a Action) Profile {
	switch act := a.(type) {
	case ReplaceAll:
		next := s.clone()
		f := act.Fields
		if f.ID != nil {
			next.ID = *f.ID
		}
		if f.FullName != nil {
			next.FullName = *f.FullName
		}
		if f.Email != nil {
			next.Email = *f.Email
		}
		if f.DateOfBirth != nil {
			next.DateOfBirth = *f.DateOfBirth
		}
		if f.IsMale != nil {
			v := *f.IsMale
			next.IsMale = &v
		}
		if f.Bookmarks != nil {
			next.Bookmarks = NewBookmarks(f.Bookmarks...)
		}
		return next
	case ReplaceBookmarks:
		next := s.clone()
		next.Bookmarks = NewBookmarks(act.Bookmarks...)
		return next
	case ClearAll:
		return Profile{}
	default:
		return s
	}
}
