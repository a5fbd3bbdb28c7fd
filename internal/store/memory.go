package store

import (
	"fmt"
	"sync"
	"time"

	"taskdeck/internal/deck"
)

// Memory is a mutex-guarded in-memory Store. Project IDs and per-project
// task IDs are assigned from counters that only ever grow, so deleted IDs
// are never handed out again.
type Memory struct {
	mu       sync.Mutex
	limits   Limits
	projects map[int64]*deck.Project
	order    []int64

	nextProjectID int64
	nextTaskID    map[int64]int64
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty repository enforcing the given limits.
func NewMemory(limits Limits) *Memory {
	return &Memory{
		limits:     limits,
		projects:   make(map[int64]*deck.Project),
		nextTaskID: make(map[int64]int64),
	}
}

// AddProject stores a new project. Capacity is checked before the fields
// are validated; nothing is written when any check fails.
func (m *Memory) AddProject(name, description string) (deck.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.projects) >= m.limits.MaxProjects {
		return deck.Project{}, &deck.CapacityError{Resource: "projects", Limit: m.limits.MaxProjects}
	}
	if err := deck.ValidateName(name); err != nil {
		return deck.Project{}, err
	}
	if err := deck.ValidateDescription(description); err != nil {
		return deck.Project{}, err
	}

	m.nextProjectID++
	now := time.Now()
	p := &deck.Project{
		ID:          m.nextProjectID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.projects[p.ID] = p
	m.order = append(m.order, p.ID)
	return p.Clone(), nil
}

// Projects returns all projects in creation order.
func (m *Memory) Projects() []deck.Project {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]deck.Project, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.projects[id].Clone())
	}
	return out
}

// Project returns the project with the given ID.
func (m *Memory) Project(id int64) (deck.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.project(id)
	if err != nil {
		return deck.Project{}, err
	}
	return p.Clone(), nil
}

// EditProject applies the update to an existing project. The project is
// resolved before the fields are validated, and all provided fields are
// validated before any of them is written.
func (m *Memory) EditProject(id int64, upd ProjectUpdate) (deck.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.project(id)
	if err != nil {
		return deck.Project{}, err
	}
	if upd.Name != nil {
		if err := deck.ValidateName(*upd.Name); err != nil {
			return deck.Project{}, err
		}
	}
	if upd.Description != nil {
		if err := deck.ValidateDescription(*upd.Description); err != nil {
			return deck.Project{}, err
		}
	}

	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Name != nil || upd.Description != nil {
		p.UpdatedAt = time.Now()
	}
	return p.Clone(), nil
}

// DeleteProject removes a project and every task it owns.
func (m *Memory) DeleteProject(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.project(id); err != nil {
		return err
	}
	delete(m.projects, id)
	delete(m.nextTaskID, id)
	for i, pid := range m.order {
		if pid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// AddTask appends a new task with status pending. The project is resolved
// and its capacity checked before the fields are validated; nothing is
// written when any check fails.
func (m *Memory) AddTask(projectID int64, name, description, deadline string) (deck.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.project(projectID)
	if err != nil {
		return deck.Task{}, err
	}
	if len(p.Tasks) >= m.limits.MaxTasksPerProject {
		return deck.Task{}, &deck.CapacityError{Resource: "tasks", Limit: m.limits.MaxTasksPerProject}
	}
	if err := deck.ValidateName(name); err != nil {
		return deck.Task{}, err
	}
	if err := deck.ValidateDescription(description); err != nil {
		return deck.Task{}, err
	}
	due, err := deck.ParseDeadline(deadline)
	if err != nil {
		return deck.Task{}, err
	}

	m.nextTaskID[projectID]++
	now := time.Now()
	t := deck.Task{
		ID:          m.nextTaskID[projectID],
		ProjectID:   projectID,
		Name:        name,
		Description: description,
		Status:      deck.StatusPending,
		Deadline:    due,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.Tasks = append(p.Tasks, t)
	return t.Clone(), nil
}

// Tasks returns the tasks of a project in creation order.
func (m *Memory) Tasks(projectID int64) ([]deck.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.project(projectID)
	if err != nil {
		return nil, err
	}
	out := make([]deck.Task, len(p.Tasks))
	for i, t := range p.Tasks {
		out[i] = t.Clone()
	}
	return out, nil
}

// Task returns a single task of a project.
func (m *Memory) Task(projectID, taskID int64) (deck.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.project(projectID)
	if err != nil {
		return deck.Task{}, err
	}
	i, err := taskIndex(p, taskID)
	if err != nil {
		return deck.Task{}, err
	}
	return p.Tasks[i].Clone(), nil
}

// EditTask applies the update to an existing task. The task is resolved
// before the fields are validated, and all provided fields are validated
// before any of them is written.
func (m *Memory) EditTask(projectID, taskID int64, upd TaskUpdate) (deck.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.project(projectID)
	if err != nil {
		return deck.Task{}, err
	}
	i, err := taskIndex(p, taskID)
	if err != nil {
		return deck.Task{}, err
	}
	if upd.Name != nil {
		if err := deck.ValidateName(*upd.Name); err != nil {
			return deck.Task{}, err
		}
	}
	if upd.Description != nil {
		if err := deck.ValidateDescription(*upd.Description); err != nil {
			return deck.Task{}, err
		}
	}
	var status deck.Status
	if upd.Status != nil {
		status, err = deck.ParseStatus(*upd.Status)
		if err != nil {
			return deck.Task{}, err
		}
	}
	var due *time.Time
	if upd.Deadline != nil {
		due, err = deck.ParseDeadline(*upd.Deadline)
		if err != nil {
			return deck.Task{}, err
		}
	}

	t := &p.Tasks[i]
	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.Status != nil {
		t.Status = status
	}
	if upd.Deadline != nil {
		t.Deadline = due
	}
	if upd.Name != nil || upd.Description != nil || upd.Status != nil || upd.Deadline != nil {
		t.UpdatedAt = time.Now()
	}
	return t.Clone(), nil
}

// SetTaskStatus moves a task to the given status. Unlike the other
// mutations an invalid status is rejected before the task is resolved.
func (m *Memory) SetTaskStatus(projectID, taskID int64, status deck.Status) (deck.Task, error) {
	if !status.Valid() {
		return deck.Task{}, &deck.ValidationError{Field: "status", Err: fmt.Errorf("invalid status %q", status)}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.project(projectID)
	if err != nil {
		return deck.Task{}, err
	}
	i, err := taskIndex(p, taskID)
	if err != nil {
		return deck.Task{}, err
	}

	t := &p.Tasks[i]
	t.Status = status
	t.UpdatedAt = time.Now()
	return t.Clone(), nil
}

// DeleteTask removes a task from its project.
func (m *Memory) DeleteTask(projectID, taskID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.project(projectID)
	if err != nil {
		return err
	}
	i, err := taskIndex(p, taskID)
	if err != nil {
		return err
	}
	p.Tasks = append(p.Tasks[:i], p.Tasks[i+1:]...)
	return nil
}

// project resolves an ID to the live record. Callers hold m.mu.
func (m *Memory) project(id int64) (*deck.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", deck.ErrProjectNotFound, id)
	}
	return p, nil
}

func taskIndex(p *deck.Project, taskID int64) (int, error) {
	for i := range p.Tasks {
		if p.Tasks[i].ID == taskID {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %d", deck.ErrTaskNotFound, taskID)
}
