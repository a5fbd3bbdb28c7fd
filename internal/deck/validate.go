package deck

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxNameLen is the maximum name length in runes for projects and tasks.
	MaxNameLen = 50
	// MaxDescriptionLen is the maximum description length in runes.
	MaxDescriptionLen = 200
	// DeadlineLayout is the accepted date format for task deadlines.
	DeadlineLayout = "2006-01-02"
)

// ValidateName rejects empty (after trimming) or over-long names.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Err: errors.New("must not be empty")}
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return &ValidationError{Field: "name", Err: fmt.Errorf("must be at most %d characters", MaxNameLen)}
	}
	return nil
}

// ValidateDescription rejects over-long descriptions. Empty is fine.
func ValidateDescription(desc string) error {
	if utf8.RuneCountInString(desc) > MaxDescriptionLen {
		return &ValidationError{Field: "description", Err: fmt.Errorf("must be at most %d characters", MaxDescriptionLen)}
	}
	return nil
}

// ParseStatus converts raw user input to a Status, ignoring case.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", &ValidationError{
			Field: "status",
			Err:   fmt.Errorf("%q is not one of %s", raw, statusList()),
		}
	}
	return s, nil
}

// ParseDeadline converts a YYYY-MM-DD string to a time. An empty string
// means no deadline and yields a nil pointer.
func ParseDeadline(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(DeadlineLayout, raw)
	if err != nil {
		return nil, &ValidationError{
			Field: "deadline",
			Err:   fmt.Errorf("%q is not a valid date, want YYYY-MM-DD", raw),
		}
	}
	return &t, nil
}

func statusList() string {
	parts := make([]string, 0, len(Statuses()))
	for _, s := range Statuses() {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, ", ")
}
