package domain

import "context"

type SessionStore interface {
	// Open creates an empty session for u, replacing any existing one.
	Open(u UserID) Session
	Get(u UserID) (Session, bool)
	// Take removes and returns the session for u.
	Take(u UserID) (Session, bool)
	// Update applies fn to the live session under the store's lock.
	// It reports false when u has no open session.
	Update(u UserID, fn func(*Session)) bool
	Len() int
}

// Control is an inline button attached to an outbound message.
type Control struct {
	Label  string
	Action string
}

type Messenger interface {
	SendText(ctx context.Context, to ChatID, body string, controls []Control) error
	SendPhoto(ctx context.Context, to ChatID, handle, caption string) error
	EditText(ctx context.Context, ref MessageRef, body string, controls []Control) error
	// AckAction confirms receipt of a button press to the transport.
	AckAction(ctx context.Context, callbackID string) error
}

type Identity struct {
	UserID      UserID
	DisplayName string
	Handle      string // without "@", may be empty
}

type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, u UserID) (Identity, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
