// Package seed loads an optional JSON seed file and applies it to the fresh
// in-memory repository at startup. Seed files are read-only input; nothing
// is ever written back.
package seed

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"taskdeck/internal/deck"
	"taskdeck/internal/service"
)

//go:embed schema.json
var schemaJSON string

// File is the root of a seed document.
type File struct {
	SchemaVersion int       `json:"schema_version"`
	Projects      []Project `json:"projects"`
}

// Project is one seeded project with its tasks.
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Tasks       []Task `json:"tasks,omitempty"`
}

// Task is one seeded task. Status defaults to pending, deadline to none.
type Task struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	Deadline    string `json:"deadline,omitempty"`
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool
}

// Load reads and parses a seed file from path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	return &f, nil
}

// Validate checks the file against the embedded JSON Schema, falling back
// to minimal structural checks if schema compilation is unavailable.
func (f *File) Validate() *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	schemaResult := f.validateWithSchema()
	result.UsedSchema = schemaResult.UsedSchema
	result.Warnings = append(result.Warnings, schemaResult.Warnings...)
	if schemaResult.UsedSchema {
		if !schemaResult.Valid {
			result.Valid = false
			result.Errors = append(result.Errors, schemaResult.Errors...)
		}
		return result
	}

	result.Warnings = append(result.Warnings, "JSON Schema validation not available, using minimal checks")
	f.validateMinimal(result)
	return result
}

// Apply creates the seeded projects and tasks through svc, so every
// validation and capacity rule holds. It stops at the first error.
func (f *File) Apply(svc *service.Service) error {
	for i, sp := range f.Projects {
		p, err := svc.CreateProject(sp.Name, sp.Description)
		if err != nil {
			return fmt.Errorf("projects[%d]: %w", i, err)
		}
		for j, st := range sp.Tasks {
			task, err := svc.AddTask(p.ID, st.Name, st.Description, st.Deadline)
			if err != nil {
				return fmt.Errorf("projects[%d].tasks[%d]: %w", i, j, err)
			}
			if st.Status != "" && st.Status != string(deck.StatusPending) {
				if _, err := svc.ChangeStatus(p.ID, task.ID, st.Status); err != nil {
					return fmt.Errorf("projects[%d].tasks[%d]: %w", i, j, err)
				}
			}
		}
	}
	return nil
}

// LoadAndApply reads, validates and applies a seed file. Any failure aborts
// with an error suitable for startup reporting.
func LoadAndApply(path string, svc *service.Service) error {
	f, err := Load(path)
	if err != nil {
		return err
	}
	if result := f.Validate(); !result.Valid {
		return fmt.Errorf("seed file %s: %w", path, errors.Join(result.Errors...))
	}
	return f.Apply(svc)
}

// validateWithSchema attempts JSON Schema validation against the embedded
// schema.
func (f *File) validateWithSchema() *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource("seed.schema.json", strings.NewReader(schemaJSON)); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid embedded schema: %v", err))
		return result
	}
	schema, err := compiler.Compile("seed.schema.json")
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid embedded schema: %v", err))
		return result
	}

	result.UsedSchema = true

	fileData, err := json.Marshal(f)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Errorf("marshal seed for validation: %w", err))
		return result
	}
	var fileObj interface{}
	if err := json.Unmarshal(fileData, &fileObj); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Errorf("unmarshal seed for validation: %w", err))
		return result
	}

	if err := schema.Validate(fileObj); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}

	return result
}

// validateMinimal performs minimal validation without JSON Schema, reusing
// the entity validators.
func (f *File) validateMinimal(result *ValidationResult) {
	if f.SchemaVersion != 1 {
		addError(result, "schema_version", fmt.Errorf("expected 1, got %d", f.SchemaVersion))
	}
	if f.Projects == nil {
		addError(result, "projects", errors.New("missing required field"))
		return
	}

	for i := range f.Projects {
		p := &f.Projects[i]
		path := fmt.Sprintf("projects[%d]", i)
		if err := deck.ValidateName(p.Name); err != nil {
			addError(result, path+".name", err)
		}
		if err := deck.ValidateDescription(p.Description); err != nil {
			addError(result, path+".description", err)
		}
		for j := range p.Tasks {
			t := &p.Tasks[j]
			tpath := fmt.Sprintf("%s.tasks[%d]", path, j)
			if err := deck.ValidateName(t.Name); err != nil {
				addError(result, tpath+".name", err)
			}
			if err := deck.ValidateDescription(t.Description); err != nil {
				addError(result, tpath+".description", err)
			}
			if t.Status != "" {
				if _, err := deck.ParseStatus(t.Status); err != nil {
					addError(result, tpath+".status", err)
				}
			}
			if _, err := deck.ParseDeadline(t.Deadline); err != nil {
				addError(result, tpath+".deadline", err)
			}
		}
	}
}

// addError records a failure under path, unwrapping entity validation
// errors so the field name is not repeated.
func addError(result *ValidationResult, path string, err error) {
	result.Valid = false
	var verr *deck.ValidationError
	if errors.As(err, &verr) {
		err = verr.Err
	}
	result.Errors = append(result.Errors, &deck.ValidationError{Field: path, Err: err})
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &deck.ValidationError{
			Field: jsonPointerToPath(err.InstanceLocation),
			Err:   errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// jsonPointerToPath turns a JSON pointer like /projects/0/name into the
// friendlier projects[0].name.
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var path string
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
