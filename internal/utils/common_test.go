package utils

import (
	"reflect"
	"testing"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{"empty", "", nil, false},
		{"spaces only", "   ", nil, false},
		{"plain words", "project list", []string{"project", "list"}, false},
		{"double quotes", `project create "Website relaunch" "Q4 site"`, []string{"project", "create", "Website relaunch", "Q4 site"}, false},
		{"single quotes", `task add 1 'Buy milk'`, []string{"task", "add", "1", "Buy milk"}, false},
		{"empty quoted arg", `project create "name" ""`, []string{"project", "create", "name", ""}, false},
		{"escaped quote", `say "a \"b\" c"`, []string{"say", `a "b" c`}, false},
		{"quote inside word", `--name="two words"`, []string{"--name=two words"}, false},
		{"collapsed spaces", "a   b\tc", []string{"a", "b", "c"}, false},
		{"unterminated double", `project create "oops`, nil, true},
		{"unterminated single", `project create 'oops`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitArgs(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitArgs(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitArgs(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		max   int
		want  string
	}{
		{"", 5, ""},
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"toolongvalue", 7, "toolon…"},
		{"über lang", 5, "über…"},
		{"whatever", 0, ""},
		{"ab", 1, "…"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Truncate(tt.input, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
		})
	}
}
