package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/pharmaintel/internal/client/session"
	"github.com/dmitrijs2005/pharmaintel/internal/client/transport"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authClient implements session.AuthAPI over the gateway.
type authClient struct {
	doer transport.Doer
}

func NewAuthClient(doer transport.Doer) session.AuthAPI {
	return &authClient{doer: doer}
}

func (a *authClient) Login(ctx context.Context, email, password string) (session.LoginResult, error) {
	var out session.LoginResult
	err := a.doer.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   "auth/login",
		Body:   credentials{Email: email, Password: password},
	}, &out)
	return out, err
}

func (a *authClient) Me(ctx context.Context) (session.Session, error) {
	var out session.Session
	err := a.doer.Do(ctx, transport.Request{Method: http.MethodGet, Path: "users/me"}, &out)
	return out, err
}

func (a *authClient) Register(ctx context.Context, email, password string) (session.Session, error) {
	var out session.Session
	err := a.doer.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   "users",
		Body:   credentials{Email: email, Password: password},
	}, &out)
	return out, err
}
