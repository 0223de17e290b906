// Package editsession coordinates the inline edit of a single task:
// begin edit, accumulate draft changes, then save or cancel.
package editsession

import (
	"context"
	"errors"

	"tdl/internal/service"
)

// ErrNotEditing is returned when a draft operation is attempted while
// no edit is open.
var ErrNotEditing = errors.New("no edit in progress")

// Updater persists a finished draft. *taskstore.Store and
// service.Service both satisfy it.
type Updater interface {
	UpdateTask(ctx context.Context, id int, patch service.TaskPatch) (service.Task, error)
}

// State identifies the machine state.
type State int

const (
	// Idle means no task is being edited.
	Idle State = iota
	// Editing means exactly one task has an open draft.
	Editing
)

// Session is the per-task edit state machine. At most one draft exists
// at a time: starting an edit while another is open replaces it and the
// prior unsaved draft is discarded. That is the documented single-edit
// behavior, not a bug.
type Session struct {
	updater Updater

	state  State
	taskID int
	draft  service.TaskPatch
}

// New creates an idle session.
func New(updater Updater) *Session {
	return &Session{updater: updater}
}

// State returns the current machine state.
func (s *Session) State() State { return s.state }

// TaskID returns the task being edited. Valid only while Editing.
func (s *Session) TaskID() int { return s.taskID }

// Draft returns the accumulated changes. Valid only while Editing.
func (s *Session) Draft() service.TaskPatch { return s.draft }

// Start opens an edit for the given task, seeding the draft with its
// editable fields. Any previously open edit is abandoned.
func (s *Session) Start(t service.Task) {
	title, desc, due, done := t.Title, t.Description, t.DueDate, t.Done
	s.state = Editing
	s.taskID = t.ID
	s.draft = service.TaskPatch{
		Title:       &title,
		Description: &desc,
		DueDate:     &due,
		Done:        &done,
	}
}

// SetTitle updates the draft title.
func (s *Session) SetTitle(v string) error {
	if s.state != Editing {
		return ErrNotEditing
	}
	s.draft.Title = &v
	return nil
}

// SetDescription updates the draft description.
func (s *Session) SetDescription(v string) error {
	if s.state != Editing {
		return ErrNotEditing
	}
	s.draft.Description = &v
	return nil
}

// SetDueDate updates the draft due date.
func (s *Session) SetDueDate(v string) error {
	if s.state != Editing {
		return ErrNotEditing
	}
	s.draft.DueDate = &v
	return nil
}

// SetDone updates the draft done flag.
func (s *Session) SetDone(v bool) error {
	if s.state != Editing {
		return ErrNotEditing
	}
	s.draft.Done = &v
	return nil
}

// Cancel discards the draft and returns to Idle. The underlying task
// is untouched.
func (s *Session) Cancel() {
	s.state = Idle
	s.taskID = 0
	s.draft = service.TaskPatch{}
}

// Save persists the draft through the updater. On success the session
// returns to Idle and the server's representation is returned. On
// failure the session stays in Editing with the draft preserved, so
// unsaved input is not lost.
func (s *Session) Save(ctx context.Context) (service.Task, error) {
	if s.state != Editing {
		return service.Task{}, ErrNotEditing
	}
	updated, err := s.updater.UpdateTask(ctx, s.taskID, s.draft)
	if err != nil {
		return service.Task{}, err
	}
	s.Cancel()
	return updated, nil
}
