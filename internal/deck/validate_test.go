package deck

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidateName(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Website relaunch", false},
		{"max length", strings.Repeat("a", MaxNameLen), false},
		{"multibyte at limit", strings.Repeat("ü", MaxNameLen), false},
		{"too long", strings.Repeat("a", MaxNameLen+1), true},
		{"empty", "", true},
		{"whitespace only", "   \t", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateName(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateName(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if err == nil {
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error %v is not a *ValidationError", err)
			}
			if verr.Field != "name" {
				t.Errorf("Field = %q, want %q", verr.Field, "name")
			}
		})
	}
}

func TestValidateDescription(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"max length", strings.Repeat("x", MaxDescriptionLen), false},
		{"too long", strings.Repeat("x", MaxDescriptionLen+1), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDescription(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateDescription error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	cases := []struct {
		raw     string
		want    Status
		wantErr bool
	}{
		{"pending", StatusPending, false},
		{"in_progress", StatusInProgress, false},
		{"done", StatusDone, false},
		{"DONE", StatusDone, false},
		{"  Pending ", StatusPending, false},
		{"doing", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseStatus(tc.raw)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseStatus(%q) error = %v, wantErr %v", tc.raw, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestParseDeadline(t *testing.T) {
	t.Run("empty means none", func(t *testing.T) {
		got, err := ParseDeadline("")
		if err != nil {
			t.Fatalf("ParseDeadline(\"\") error = %v", err)
		}
		if got != nil {
			t.Errorf("ParseDeadline(\"\") = %v, want nil", got)
		}
	})

	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDeadline("2026-09-30")
		if err != nil {
			t.Fatalf("ParseDeadline error = %v", err)
		}
		want := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
		if got == nil || !got.Equal(want) {
			t.Errorf("ParseDeadline = %v, want %v", got, want)
		}
	})

	for _, raw := range []string{"2026-13-01", "30-09-2026", "tomorrow", "2026-09-30T12:00:00Z"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseDeadline(raw)
			if err == nil {
				t.Fatalf("ParseDeadline(%q) accepted invalid input", raw)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error %v is not a *ValidationError", err)
			}
			if verr.Field != "deadline" {
				t.Errorf("Field = %q, want %q", verr.Field, "deadline")
			}
		})
	}
}
