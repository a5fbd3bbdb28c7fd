// Package deck defines the project and task entities, their finite status
// set, and the validation rules applied to user input before any mutation.
package deck

import "time"

// Status represents a task status.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses returns all valid statuses in display order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusDone}
}

// Valid reports whether s is a member of the status set.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task represents a unit of work belonging to exactly one project.
// Task IDs are unique within their owning project, not globally.
type Task struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Overdue reports whether the task has a deadline in the past and is not done.
func (t *Task) Overdue() bool {
	if t.Status == StatusDone || t.Deadline == nil {
		return false
	}
	return t.Deadline.Before(time.Now())
}

// Clone returns a copy of the task that shares no pointers with the original.
func (t Task) Clone() Task {
	if t.Deadline != nil {
		d := *t.Deadline
		t.Deadline = &d
	}
	return t
}

// Project represents a named container for a bounded set of tasks.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Tasks       []Task    `json:"tasks,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the project so holders of the clone can
// never alias repository state.
func (p Project) Clone() Project {
	cp := p
	if p.Tasks != nil {
		cp.Tasks = make([]Task, len(p.Tasks))
		for i, t := range p.Tasks {
			cp.Tasks[i] = t.Clone()
		}
	}
	return cp
}
