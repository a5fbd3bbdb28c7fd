// Package store provides the repository holding all projects and tasks.
// The only implementation is in-memory; everything is lost on exit.
package store

import (
	"taskdeck/internal/deck"
)

// Limits caps how many projects and how many tasks per project the
// repository accepts. Callers validate limits before constructing a store.
type Limits struct {
	MaxProjects        int
	MaxTasksPerProject int
}

// ProjectUpdate carries the fields of a project edit. Nil means keep the
// current value.
type ProjectUpdate struct {
	Name        *string
	Description *string
}

// TaskUpdate carries the raw field values of a task edit. Nil means keep
// the current value. An empty Deadline string clears the deadline.
type TaskUpdate struct {
	Name        *string
	Description *string
	Deadline    *string
	Status      *string
}

// Store is the repository interface the service layer works against. The
// repository owns field validation, and each mutation runs its checks in a
// fixed order: the target is resolved first, then capacity, then the
// supplied fields, so a missing project wins over a bad name. SetTaskStatus
// is the one exception and rejects an invalid status before resolving.
type Store interface {
	AddProject(name, description string) (deck.Project, error)
	Projects() []deck.Project
	Project(id int64) (deck.Project, error)
	EditProject(id int64, upd ProjectUpdate) (deck.Project, error)
	DeleteProject(id int64) error

	AddTask(projectID int64, name, description, deadline string) (deck.Task, error)
	Tasks(projectID int64) ([]deck.Task, error)
	Task(projectID, taskID int64) (deck.Task, error)
	EditTask(projectID, taskID int64, upd TaskUpdate) (deck.Task, error)
	SetTaskStatus(projectID, taskID int64, status deck.Status) (deck.Task, error)
	DeleteTask(projectID, taskID int64) error
}
