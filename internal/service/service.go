// Package service translates raw command input into repository operations
// and classifies the errors that come back. Both front ends (menu TUI and
// shell) talk to the repository exclusively through it.
package service

import (
	"errors"

	"taskdeck/internal/deck"
	"taskdeck/internal/logging"
	"taskdeck/internal/store"
)

// Service orchestrates a Store and optionally records every operation to a
// transcript.
type Service struct {
	store      store.Store
	transcript *logging.Transcript
}

// Option configures a Service.
type Option func(*Service)

// WithTranscript attaches an operation transcript.
func WithTranscript(tr *logging.Transcript) Option {
	return func(s *Service) {
		s.transcript = tr
	}
}

// New creates a Service over the given store.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{store: st}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TaskEdit carries raw field values of a task edit. Nil means keep the
// current value. An empty Deadline string clears the deadline.
type TaskEdit struct {
	Name        *string
	Description *string
	Deadline    *string
	Status      *string
}

// CreateProject adds a new project.
func (s *Service) CreateProject(name, description string) (deck.Project, error) {
	p, err := s.store.AddProject(name, description)
	s.record("add_project", err, p.ID, 0)
	return p, err
}

// ListProjects returns all projects in creation order.
func (s *Service) ListProjects() []deck.Project {
	ps := s.store.Projects()
	s.record("list_projects", nil, 0, 0)
	return ps
}

// GetProject returns one project with its tasks.
func (s *Service) GetProject(id int64) (deck.Project, error) {
	p, err := s.store.Project(id)
	s.record("get_project", err, id, 0)
	return p, err
}

// EditProject updates the provided fields of a project. Nil means keep.
func (s *Service) EditProject(id int64, name, description *string) (deck.Project, error) {
	p, err := s.store.EditProject(id, store.ProjectUpdate{Name: name, Description: description})
	s.record("edit_project", err, id, 0)
	return p, err
}

// DeleteProject removes a project and all its tasks.
func (s *Service) DeleteProject(id int64) error {
	err := s.store.DeleteProject(id)
	s.record("delete_project", err, id, 0)
	return err
}

// AddTask adds a task to a project. An empty deadline means none. The
// repository resolves the project and checks capacity before it validates
// the fields, so a missing project wins over a bad deadline.
func (s *Service) AddTask(projectID int64, name, description, deadline string) (deck.Task, error) {
	t, err := s.store.AddTask(projectID, name, description, deadline)
	s.record("add_task", err, projectID, t.ID)
	return t, err
}

// ListTasks returns the tasks of a project in creation order.
func (s *Service) ListTasks(projectID int64) ([]deck.Task, error) {
	ts, err := s.store.Tasks(projectID)
	s.record("list_tasks", err, projectID, 0)
	return ts, err
}

// GetTask returns one task.
func (s *Service) GetTask(projectID, taskID int64) (deck.Task, error) {
	t, err := s.store.Task(projectID, taskID)
	s.record("get_task", err, projectID, taskID)
	return t, err
}

// EditTask updates the provided fields of a task. The repository resolves
// the task before it parses the fields, and validates every supplied field
// before anything is written, so a single bad field rejects the whole edit.
func (s *Service) EditTask(projectID, taskID int64, edit TaskEdit) (deck.Task, error) {
	t, err := s.store.EditTask(projectID, taskID, store.TaskUpdate{
		Name:        edit.Name,
		Description: edit.Description,
		Deadline:    edit.Deadline,
		Status:      edit.Status,
	})
	s.record("edit_task", err, projectID, taskID)
	return t, err
}

// ChangeStatus moves a task to the status named by raw, any case.
func (s *Service) ChangeStatus(projectID, taskID int64, raw string) (deck.Task, error) {
	st, err := deck.ParseStatus(raw)
	if err != nil {
		s.record("change_status", err, projectID, taskID)
		return deck.Task{}, err
	}
	t, err := s.store.SetTaskStatus(projectID, taskID, st)
	s.record("change_status", err, projectID, taskID)
	return t, err
}

// DeleteTask removes a task from its project.
func (s *Service) DeleteTask(projectID, taskID int64) error {
	err := s.store.DeleteTask(projectID, taskID)
	s.record("delete_task", err, projectID, taskID)
	return err
}

func (s *Service) record(op string, err error, projectID, taskID int64) {
	ev := logging.Event{Op: op, Outcome: "ok", ProjectID: projectID, TaskID: taskID}
	if err != nil {
		ev.Outcome = "error"
		ev.Error = err.Error()
	}
	s.transcript.Record(ev)
}

// UserMessage renders err into the message the front ends print. Domain
// errors get a friendly form; anything else passes through unchanged.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var verr *deck.ValidationError
	if errors.As(err, &verr) {
		return "invalid " + verr.Error()
	}
	var cerr *deck.CapacityError
	if errors.As(err, &cerr) {
		return cerr.Error()
	}
	return err.Error()
}
