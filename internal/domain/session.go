package domain

import "strings"

// CaptionPrefix tags a fragment that came from a photo caption so the
// moderator can tell it apart from standalone text.
const CaptionPrefix = "[Подпись к фото]: "

const fragmentSeparator = "\n\n"

type UserID int64

// ChatID is a transport destination. Zero means "not configured".
type ChatID int64

// Session is one user's review between start and finish.
type Session struct {
	Owner         UserID
	TextFragments []string
	PhotoRefs     []string // file handles, best resolution only
}

func NewSession(owner UserID) *Session {
	return &Session{Owner: owner}
}

func (s *Session) AppendText(fragment string) {
	if fragment == "" {
		return
	}
	s.TextFragments = append(s.TextFragments, fragment)
}

func (s *Session) AppendCaption(caption string) {
	if caption == "" {
		return
	}
	s.AppendText(CaptionPrefix + caption)
}

func (s *Session) AppendPhoto(handle string) {
	if handle == "" {
		return
	}
	s.PhotoRefs = append(s.PhotoRefs, handle)
}

// Clone returns a copy that shares no backing arrays with s.
func (s Session) Clone() Session {
	out := Session{Owner: s.Owner}
	if n := len(s.TextFragments); n > 0 {
		out.TextFragments = make([]string, n)
		copy(out.TextFragments, s.TextFragments)
	}
	if n := len(s.PhotoRefs); n > 0 {
		out.PhotoRefs = make([]string, n)
		copy(out.PhotoRefs, s.PhotoRefs)
	}
	return out
}

func (s Session) IsEmpty() bool {
	return len(s.TextFragments) == 0 && len(s.PhotoRefs) == 0
}

// JoinedText concatenates fragments in arrival order with a blank line between them.
func (s Session) JoinedText() string {
	return strings.Join(s.TextFragments, fragmentSeparator)
}
