package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"tdl/internal/api"
)

// Auth performs login, logout and registration against the server and
// owns the credential store lifecycle.
type Auth struct {
	api   *api.Client
	store *Store
}

// NewAuth creates an Auth over the given client and store.
func NewAuth(client *api.Client, store *Store) *Auth {
	return &Auth{api: client, store: store}
}

// Login exchanges username and password for a session. On success the
// server-set cookies and the returned user id are persisted, and the
// user id is returned.
func (a *Auth) Login(ctx context.Context, username, password string) (int, error) {
	body := map[string]string{"username": username, "password": password}
	var resp struct {
		UserID int `json:"user_id"`
	}
	if err := a.api.Do(ctx, http.MethodPost, "/login", body, &resp); err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return 0, fmt.Errorf("incorrect username or password")
		}
		return 0, err
	}

	sessionTok, csrfTok := a.api.BearerCookies()
	if sessionTok == "" {
		return 0, fmt.Errorf("login response carried no session cookie")
	}
	if err := a.store.Set(Credentials{
		UserID:       resp.UserID,
		SessionToken: sessionTok,
		CSRFToken:    csrfTok,
	}); err != nil {
		return 0, err
	}
	return resp.UserID, nil
}

// Logout invalidates the session on the server, then clears the
// credential store. When the server already considers the session
// invalid the local state is cleared anyway (the 401 signal handles
// it); on transport failure the credentials are kept so a retry can
// still revoke the server-side session.
func (a *Auth) Logout(ctx context.Context) error {
	if _, ok := a.store.SessionToken(); !ok {
		return ErrNotLoggedIn
	}
	if err := a.api.Do(ctx, http.MethodGet, "/logout", nil, nil); err != nil {
		if errors.Is(err, api.ErrSessionExpired) {
			return nil
		}
		return err
	}
	return a.store.Clear()
}

// Register creates a regular user account. Registration never carries
// or establishes a session.
func (a *Auth) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
		"role":     "User",
	}
	return a.api.Do(ctx, http.MethodPost, "/users", body, nil)
}
