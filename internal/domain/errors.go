package domain

import "errors"

var (
	ErrNoActiveSession       = errors.New("no active review session")
	ErrModeratorUnconfigured = errors.New("moderator destination not configured")
	ErrIdentityResolution    = errors.New("identity resolution failed")
	ErrSend                  = errors.New("transport send failed")
)
