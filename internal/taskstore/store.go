// Package taskstore maintains the authoritative client-side cache of a
// user's tasks, synchronized with the server through optimistic
// mutations.
package taskstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"tdl/internal/api"
	"tdl/internal/service"
)

// ErrNotFound is returned when a task id is not present in the cache.
var ErrNotFound = errors.New("task not found")

// Store caches tasks while they are loaded. The server stays the
// system of record: every settled operation leaves the cache consistent
// with the last successful response for that task.
//
// Each task carries an operation sequence number. A response that
// settles after a newer operation on the same task was issued is
// discarded, so late arrivals never clobber newer local state.
type Store struct {
	api *api.Client

	mu    sync.Mutex
	tasks []service.Task
	seq   map[int]uint64
}

// New creates an empty store over the given client.
func New(client *api.Client) *Store {
	return &Store{api: client, seq: make(map[int]uint64)}
}

// Tasks returns a snapshot of the cache.
func (s *Store) Tasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns the cached task with the given id.
func (s *Store) Get(id int) (service.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return service.Task{}, false
}

// Load replaces the entire cache with the server's task list for the
// given user. On failure the cache is left at its prior state.
func (s *Store) Load(ctx context.Context, userID int) ([]service.Task, error) {
	var tasks []service.Task
	path := fmt.Sprintf("/tasks/user/%d", userID)
	if err := s.api.Do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.tasks = tasks
	s.seq = make(map[int]uint64)
	s.mu.Unlock()
	return s.Tasks(), nil
}

// Create sends the draft to the server and appends the returned task,
// with its server-assigned id, to the cache. There is no optimistic
// insert: a locally fabricated id could collide with a real one.
func (s *Store) Create(ctx context.Context, draft service.TaskDraft) (service.Task, error) {
	var created service.Task
	if err := s.api.Do(ctx, http.MethodPost, "/tasks", draft, &created); err != nil {
		return service.Task{}, err
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, created)
	s.mu.Unlock()
	return created, nil
}

// Delete removes the task from the cache immediately, then issues the
// server delete. If the server call fails the task is restored at its
// original position and the error is returned.
func (s *Store) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	removed := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.seq[id]++
	s.mu.Unlock()

	if err := s.api.Do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil); err != nil {
		s.mu.Lock()
		if i > len(s.tasks) {
			i = len(s.tasks)
		}
		s.tasks = append(s.tasks[:i], append([]service.Task{removed}, s.tasks[i:]...)...)
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	delete(s.seq, id)
	s.mu.Unlock()
	return nil
}

// Toggle flips the task's done flag locally, then issues a partial
// update. The local flip is not rolled back on failure: the cache may
// diverge from server truth until the next Load. That asymmetry with
// Delete is long-standing documented behavior.
func (s *Store) Toggle(ctx context.Context, id int) error {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	s.tasks[i].Done = !s.tasks[i].Done
	done := s.tasks[i].Done
	s.seq[id]++
	op := s.seq[id]
	s.mu.Unlock()

	var updated service.Task
	patch := service.TaskPatch{Done: &done}
	if err := s.api.Do(ctx, http.MethodPatch, fmt.Sprintf("/tasks/%d", id), patch, &updated); err != nil {
		return err
	}

	s.apply(id, op, updated)
	return nil
}

// Update sends the partial fields to the server and replaces the
// cached task with the returned representation only on success. Multi-
// field edits are not applied optimistically; they are harder to roll
// back safely than a boolean flip.
func (s *Store) Update(ctx context.Context, id int, patch service.TaskPatch) (service.Task, error) {
	s.mu.Lock()
	if s.index(id) < 0 {
		s.mu.Unlock()
		return service.Task{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	s.seq[id]++
	op := s.seq[id]
	s.mu.Unlock()

	var updated service.Task
	if err := s.api.Do(ctx, http.MethodPatch, fmt.Sprintf("/tasks/%d", id), patch, &updated); err != nil {
		return service.Task{}, err
	}

	s.apply(id, op, updated)
	return updated, nil
}

// apply installs a settled server representation unless a newer
// operation on the same task was issued in the meantime, or the task
// has left the cache.
func (s *Store) apply(id int, op uint64, t service.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq[id] != op {
		return
	}
	if i := s.index(id); i >= 0 {
		s.tasks[i] = t
	}
}

// index returns the cache position of id, or -1. Callers hold s.mu.
func (s *Store) index(id int) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
