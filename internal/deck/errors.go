package deck

import (
	"errors"
	"fmt"
)

var (
	// ErrProjectNotFound is returned when a project ID resolves to nothing.
	ErrProjectNotFound = errors.New("project not found")
	// ErrTaskNotFound is returned when a task ID resolves to nothing within
	// its project.
	ErrTaskNotFound = errors.New("task not found")
)

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field string // e.g. "name", "deadline"
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// CapacityError is returned when creating a resource would exceed a
// configured limit. The existing data is left untouched.
type CapacityError struct {
	Resource string // "projects" or "tasks"
	Limit    int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s limit reached (max %d)", e.Resource, e.Limit)
}
