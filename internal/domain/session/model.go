package session

import (
	"strings"
	"time"
)

// DefaultTokenTTL applies when the provider omits expires_in.
const DefaultTokenTTL = 3500 * time.Second

// Session is the server-side state behind one browser session cookie.
type Session struct {
	ID           string
	Token        string
	RefreshToken string
	// TokenExp is the access token expiry in unix seconds.
	TokenExp  int64
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}

// Authenticated reports whether the session holds an access token.
func (s Session) Authenticated() bool {
	return strings.TrimSpace(s.Token) != ""
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !s.ExpiresAt.After(now)
}
