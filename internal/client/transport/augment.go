package transport

import "net/http"

const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-Id"

	bearerPrefix = "Bearer "
)

// TokenSource yields the credential token of the live session, or "" when
// there is none.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Augment returns req decorated with "Authorization: Bearer <token>".
//
// With an empty token req itself is returned. Otherwise the result is a
// clone, so concurrent requests built from one template never observe each
// other's headers. The header is set, not appended: augmenting twice still
// yields exactly one Authorization value.
func Augment(req *http.Request, token string) *http.Request {
	if token == "" {
		return req
	}

	out := req.Clone(req.Context())
	out.Header.Set(HeaderAuthorization, bearerPrefix+token)
	return out
}
