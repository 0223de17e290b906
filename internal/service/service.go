// Package service defines the backend-agnostic interface for task and
// account operations.
package service

import "context"

// Service defines the interface for backend operations. All todo API
// calls go through this interface. Commands never touch the HTTP layer
// directly.
type Service interface {
	// Login authenticates and establishes a session. Returns the
	// authenticated user id.
	Login(ctx context.Context, username, password string) (int, error)

	// Logout invalidates the session on the server and locally.
	Logout(ctx context.Context) error

	// Register creates a new regular user account. No session required.
	Register(ctx context.Context, username, email, password string) error

	// UserID returns the authenticated user id, or false if no session
	// is established.
	UserID() (int, bool)

	// ListTasks fetches the authenticated user's tasks from the server,
	// replacing the local cache.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task and returns the server's representation
	// with its assigned id.
	CreateTask(ctx context.Context, draft TaskDraft) (Task, error)

	// ToggleTask flips a task's done flag. The local flip is applied
	// before the server confirms.
	ToggleTask(ctx context.Context, id int) error

	// UpdateTask applies a partial update and returns the server's
	// representation.
	UpdateTask(ctx context.Context, id int, patch TaskPatch) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id int) error

	// GetUser fetches an account by id.
	GetUser(ctx context.Context, id int) (User, error)

	// UpdateUser applies a partial account update.
	UpdateUser(ctx context.Context, id int, patch UserPatch) (User, error)

	// DeleteUser removes an account and, when it is the authenticated
	// account, the local session with it.
	DeleteUser(ctx context.Context, id int) error
}
