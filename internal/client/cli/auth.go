package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/pharmaintel/internal/client/session"
)

const reasonLogout = "logout"

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) credentials() (string, string, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", "", err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", "", err
	}
	return email, string(password), nil
}

// Register creates an account. It does not log in.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}

	s, err := a.svc.Session.Register(ctx, email, password)
	if err != nil {
		return a.fail(err, "register", "account")
	}
	a.printf("%s %s as %s\n", okStyle.Render("Registered"), s.Identity, s.Role)
	return nil
}

// Login authenticates and then loads the full profile. A failed profile
// load keeps the provisional session built from the login response.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}

	s, err := a.svc.Session.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			a.printf("Invalid email or password\n")
			return err
		}
		return a.fail(err, "log in", "user")
	}

	if p, err := a.svc.Session.LoadProfile(ctx); err != nil {
		a.logger.Warn(ctx, "profile load failed, keeping provisional session", "error", err)
	} else {
		s = p
	}

	a.printf("%s as %s (%s)\n", okStyle.Render("Logged in"), s.Identity, s.Role)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.svc.Session.End(ctx, reasonLogout); err != nil {
		a.logger.Error(ctx, "logout incomplete", "error", err)
		return err
	}
	a.printf("Logged out\n")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	s, ok := a.svc.Session.Current()
	if !ok {
		a.printf("Not logged in\n")
		return session.ErrNoSession
	}
	a.printf("%s %s\n%s %s\n%s %s\n",
		labelStyle.Render("Email:"), s.Identity,
		labelStyle.Render("Role: "), s.Role,
		labelStyle.Render("ID:   "), s.SubjectID)
	return nil
}
