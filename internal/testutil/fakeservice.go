// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"tdl/internal/service"
	"tdl/internal/session"
	"tdl/internal/taskstore"
)

// FakeService is an in-memory implementation of service.Service for
// testing the command layer without a server.
type FakeService struct {
	mu     sync.RWMutex
	userID int // 0 means logged out
	users  map[int]service.User
	tasks  []service.Task
	nextID int

	// Error injection for testing
	LoginErr      error
	LogoutErr     error
	RegisterErr   error
	ListTasksErr  error
	CreateTaskErr error
	ToggleTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error
	GetUserErr    error
	UpdateUserErr error
	DeleteUserErr error
}

// NewFakeService creates a logged-out FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		users:  make(map[int]service.User),
		nextID: 1,
	}
}

// LoginAs establishes a fake session for the given user.
func (f *FakeService) LoginAs(id int, username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userID = id
	f.users[id] = service.User{ID: id, Username: username, Email: username + "@example.com", Role: "User"}
}

// AddTask seeds a task and returns its id.
func (f *FakeService) AddTask(title, description, dueDate string, done bool) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.tasks = append(f.tasks, service.Task{
		ID: id, Title: title, Description: description, DueDate: dueDate, Done: done,
	})
	return id
}

// TaskByID returns a seeded task for assertions.
func (f *FakeService) TaskByID(id int) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, username, password string) (int, error) {
	if f.LoginErr != nil {
		return 0, f.LoginErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userID == 0 {
		f.userID = 1
	}
	f.users[f.userID] = service.User{ID: f.userID, Username: username, Role: "User"}
	return f.userID, nil
}

// Logout implements service.Service.
func (f *FakeService) Logout(ctx context.Context) error {
	if f.LogoutErr != nil {
		return f.LogoutErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userID == 0 {
		return session.ErrNotLoggedIn
	}
	f.userID = 0
	return nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, username, email, password string) error {
	return f.RegisterErr
}

// UserID implements service.Service.
func (f *FakeService) UserID() (int, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.userID == 0 {
		return 0, false
	}
	return f.userID, true
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, draft service.TaskDraft) (service.Task, error) {
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	task := service.Task{
		ID:          f.nextID,
		Title:       draft.Title,
		Description: draft.Description,
		DueDate:     draft.DueDate,
		Done:        draft.Done,
	}
	f.nextID++
	f.tasks = append(f.tasks, task)
	return task, nil
}

// ToggleTask implements service.Service.
func (f *FakeService) ToggleTask(ctx context.Context, id int) error {
	if f.ToggleTaskErr != nil {
		return f.ToggleTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i].Done = !t.Done
			return nil
		}
	}
	return taskstore.ErrNotFound
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id int, patch service.TaskPatch) (service.Task, error) {
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID != id {
			continue
		}
		if patch.Title != nil {
			f.tasks[i].Title = *patch.Title
		}
		if patch.Description != nil {
			f.tasks[i].Description = *patch.Description
		}
		if patch.DueDate != nil {
			f.tasks[i].DueDate = *patch.DueDate
		}
		if patch.Done != nil {
			f.tasks[i].Done = *patch.Done
		}
		return f.tasks[i], nil
	}
	return service.Task{}, taskstore.ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return taskstore.ErrNotFound
}

// GetUser implements service.Service.
func (f *FakeService) GetUser(ctx context.Context, id int) (service.User, error) {
	if f.GetUserErr != nil {
		return service.User{}, f.GetUserErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	user, ok := f.users[id]
	if !ok {
		return service.User{}, taskstore.ErrNotFound
	}
	return user, nil
}

// UpdateUser implements service.Service.
func (f *FakeService) UpdateUser(ctx context.Context, id int, patch service.UserPatch) (service.User, error) {
	if f.UpdateUserErr != nil {
		return service.User{}, f.UpdateUserErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return service.User{}, taskstore.ErrNotFound
	}
	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	f.users[id] = user
	return user, nil
}

// DeleteUser implements service.Service.
func (f *FakeService) DeleteUser(ctx context.Context, id int) error {
	if f.DeleteUserErr != nil {
		return f.DeleteUserErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return taskstore.ErrNotFound
	}
	delete(f.users, id)
	if f.userID == id {
		f.userID = 0
	}
	return nil
}
