package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims is the payload the gateway puts in access tokens.
type tokenClaims struct {
	Role   string `json:"role"`
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// inspectToken decodes a JWT without verifying it. Only the server can
// verify; the console reads claims to prefill the profile and to drop
// expired tokens early. ok is false for tokens that are not JWTs.
func inspectToken(token string) (tokenClaims, bool) {
	var c tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return tokenClaims{}, false
	}
	return c, true
}

func (c tokenClaims) expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}

func (c tokenClaims) session() Session {
	return Session{
		SubjectID: c.UserID,
		Identity:  c.Subject,
		Role:      Role(c.Role),
		Active:    true,
	}
}
