// Package todolist implements the service.Service interface against
// the todo REST API, wiring the API gateway, the credential store and
// the task cache together.
package todolist

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"tdl/internal/api"
	"tdl/internal/config"
	"tdl/internal/service"
	"tdl/internal/session"
	"tdl/internal/taskstore"
)

// Client implements service.Service.
type Client struct {
	api   *api.Client
	store *session.Store
	auth  *session.Auth
	tasks *taskstore.Store
}

// New creates a client from config. Credentials persisted by an
// earlier login are picked up from the session file. A 401 from any
// endpoint clears them, forcing a fresh login.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Client, error) {
	store := session.NewStore(cfg.SessionPath())

	apiClient, err := api.New(cfg.APIURL, store,
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(logger),
		api.WithSessionExpiredFunc(func() {
			// Best effort: the 401 itself already surfaces as an error.
			_ = store.Clear()
		}),
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		api:   apiClient,
		store: store,
		auth:  session.NewAuth(apiClient, store),
		tasks: taskstore.New(apiClient),
	}, nil
}

// Login implements service.Service.
func (c *Client) Login(ctx context.Context, username, password string) (int, error) {
	return c.auth.Login(ctx, username, password)
}

// Logout implements service.Service.
func (c *Client) Logout(ctx context.Context) error {
	return c.auth.Logout(ctx)
}

// Register implements service.Service.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	return c.auth.Register(ctx, username, email, password)
}

// UserID implements service.Service.
func (c *Client) UserID() (int, bool) {
	return c.store.UserID()
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	userID, ok := c.store.UserID()
	if !ok {
		return nil, session.ErrNotLoggedIn
	}
	return c.tasks.Load(ctx, userID)
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, draft service.TaskDraft) (service.Task, error) {
	return c.tasks.Create(ctx, draft)
}

// ToggleTask implements service.Service. The task must be in the
// cache; commands list before mutating.
func (c *Client) ToggleTask(ctx context.Context, id int) error {
	return c.tasks.Toggle(ctx, id)
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id int, patch service.TaskPatch) (service.Task, error) {
	return c.tasks.Update(ctx, id, patch)
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.tasks.Delete(ctx, id)
}

// GetUser implements service.Service.
func (c *Client) GetUser(ctx context.Context, id int) (service.User, error) {
	var user service.User
	if err := c.api.Do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &user); err != nil {
		return service.User{}, err
	}
	return user, nil
}

// UpdateUser implements service.Service.
func (c *Client) UpdateUser(ctx context.Context, id int, patch service.UserPatch) (service.User, error) {
	var user service.User
	if err := c.api.Do(ctx, http.MethodPatch, fmt.Sprintf("/users/%d", id), patch, &user); err != nil {
		return service.User{}, err
	}
	return user, nil
}

// DeleteUser implements service.Service. Deleting the authenticated
// account also drops the local session: the server-side session is
// gone with the account.
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	if err := c.api.Do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil); err != nil {
		return err
	}
	if userID, ok := c.store.UserID(); ok && userID == id {
		return c.store.Clear()
	}
	return nil
}
