// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points HOME and the working directory at temp dirs and clears
// every taskdeck environment variable.
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, key := range []string{
		"MAX_NUMBER_OF_PROJECT",
		"MAX_NUMBER_OF_TASK",
		"TASKDECK_SEED",
		"TASKDECK_LOG_DIR",
		"TASKDECK_LOG_LEVEL",
		"TASKDECK_LOG_FORMAT",
		"TASKDECK_LOG_TIMESTAMPS",
		"TASKDECK_TRANSCRIPT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	dir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(oldWD) })
}

// captureStdout runs fn with stdout redirected to a pipe and returns
// what it printed.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	old := os.Stdout
	os.Stdout = w
	runErr := fn()
	os.Stdout = old
	w.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(data), runErr
}

// TestRun tests the main Run function.
func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("shows help with --help flag", func(t *testing.T) {
		isolate(t)
		out, err := captureStdout(t, func() error { return Run(ctx, []string{"--help"}) })
		if err != nil {
			t.Errorf("expected no error with --help, got %v", err)
		}
		if !strings.Contains(out, "Usage:") {
			t.Errorf("expected usage output, got:\n%s", out)
		}
	})

	t.Run("shows help with -h flag", func(t *testing.T) {
		isolate(t)
		if _, err := captureStdout(t, func() error { return Run(ctx, []string{"-h"}) }); err != nil {
			t.Errorf("expected no error with -h, got %v", err)
		}
	})

	t.Run("shows help with help command", func(t *testing.T) {
		isolate(t)
		if _, err := captureStdout(t, func() error { return Run(ctx, []string{"help"}) }); err != nil {
			t.Errorf("expected no error with help command, got %v", err)
		}
	})

	t.Run("shows version with --version flag", func(t *testing.T) {
		isolate(t)
		out, err := captureStdout(t, func() error { return Run(ctx, []string{"--version"}) })
		if err != nil {
			t.Errorf("expected no error with --version, got %v", err)
		}
		if !strings.Contains(out, "taskdeck version") {
			t.Errorf("expected version output, got:\n%s", out)
		}
	})

	t.Run("shows version with version command", func(t *testing.T) {
		isolate(t)
		if _, err := captureStdout(t, func() error { return Run(ctx, []string{"version"}) }); err != nil {
			t.Errorf("expected no error with version command, got %v", err)
		}
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		isolate(t)
		err := Run(ctx, []string{"unknown-command"})
		if err == nil {
			t.Fatal("expected error for unknown command, got nil")
		}
		if !strings.Contains(err.Error(), "unknown command") {
			t.Errorf("expected 'unknown command' error, got %v", err)
		}
	})

	t.Run("rejects extra arguments", func(t *testing.T) {
		isolate(t)
		err := Run(ctx, []string{"shell", "extra"})
		if err == nil || !strings.Contains(err.Error(), "unexpected arguments") {
			t.Errorf("expected unexpected arguments error, got %v", err)
		}
	})

	t.Run("malformed capacity env fails loudly", func(t *testing.T) {
		isolate(t)
		t.Setenv("MAX_NUMBER_OF_PROJECT", "ten")
		err := Run(ctx, []string{"doctor"})
		if err == nil {
			t.Fatal("expected error for malformed env, got nil")
		}
		if !strings.Contains(err.Error(), "MAX_NUMBER_OF_PROJECT") {
			t.Errorf("expected the variable name in the error, got %v", err)
		}
	})
}

// TestDoctorCommand tests the doctor checks.
func TestDoctorCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("passes with defaults", func(t *testing.T) {
		isolate(t)
		out, err := captureStdout(t, func() error { return Run(ctx, []string{"doctor"}) })
		if err != nil {
			t.Fatalf("doctor failed: %v", err)
		}
		if !strings.Contains(out, "All checks passed") {
			t.Errorf("expected passing doctor output, got:\n%s", out)
		}
	})

	t.Run("reports value sources", func(t *testing.T) {
		isolate(t)
		t.Setenv("MAX_NUMBER_OF_PROJECT", "7")
		out, err := captureStdout(t, func() error { return Run(ctx, []string{"doctor"}) })
		if err != nil {
			t.Fatalf("doctor failed: %v", err)
		}
		for _, want := range []string{
			"max_projects: 7 (environment)",
			"max_tasks_per_project: 200 (default)",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("fails on an invalid seed file", func(t *testing.T) {
		isolate(t)
		seedPath := filepath.Join(t.TempDir(), "seed.json")
		bad := `{"schema_version":1,"projects":[{"name":"P","tasks":[{"name":"T","status":"doing"}]}]}`
		if err := os.WriteFile(seedPath, []byte(bad), 0o644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("TASKDECK_SEED", seedPath)

		out, err := captureStdout(t, func() error { return Run(ctx, []string{"doctor"}) })
		if err == nil || !strings.Contains(err.Error(), "doctor checks failed") {
			t.Fatalf("expected doctor failure, got %v", err)
		}
		if !strings.Contains(out, "Validation failed") {
			t.Errorf("expected validation findings, got:\n%s", out)
		}
	})
}

// TestShellCommand drives the shell through the real entrypoint.
func TestShellCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("applies seed and runs a session", func(t *testing.T) {
		isolate(t)
		seedPath := filepath.Join(t.TempDir(), "seed.json")
		seedJSON := `{"schema_version":1,"projects":[{"name":"Demo","tasks":[{"name":"First","status":"done"}]}]}`
		if err := os.WriteFile(seedPath, []byte(seedJSON), 0o644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("TASKDECK_SEED", seedPath)

		inR, inW, err := os.Pipe()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := inW.WriteString("project list\ntask list 1\nquit\n"); err != nil {
			t.Fatal(err)
		}
		inW.Close()
		oldIn := os.Stdin
		os.Stdin = inR
		defer func() { os.Stdin = oldIn }()

		out, runErr := captureStdout(t, func() error { return Run(ctx, []string{"shell"}) })
		if runErr != nil {
			t.Fatalf("shell run: %v", runErr)
		}
		for _, want := range []string{"Demo", "First", "done"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}

		transcript := filepath.Join(os.Getenv("HOME"), ".taskdeck", "transcript.jsonl")
		if _, err := os.Stat(transcript); err != nil {
			t.Errorf("expected transcript at %s: %v", transcript, err)
		}
	})

	t.Run("fails startup on a broken seed", func(t *testing.T) {
		isolate(t)
		seedPath := filepath.Join(t.TempDir(), "seed.json")
		if err := os.WriteFile(seedPath, []byte(`{"schema_version":2,"projects":[]}`), 0o644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("TASKDECK_SEED", seedPath)

		inR, _, err := os.Pipe()
		if err != nil {
			t.Fatal(err)
		}
		oldIn := os.Stdin
		os.Stdin = inR
		defer func() { os.Stdin = oldIn }()

		runErr := Run(ctx, []string{"shell"})
		if runErr == nil || !strings.Contains(runErr.Error(), "seed file") {
			t.Fatalf("expected seed validation error, got %v", runErr)
		}
	})

	t.Run("disabled transcript writes nothing", func(t *testing.T) {
		isolate(t)
		t.Setenv("TASKDECK_TRANSCRIPT", "false")

		inR, inW, err := os.Pipe()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := inW.WriteString("project create \"P\"\nquit\n"); err != nil {
			t.Fatal(err)
		}
		inW.Close()
		oldIn := os.Stdin
		os.Stdin = inR
		defer func() { os.Stdin = oldIn }()

		if _, runErr := captureStdout(t, func() error { return Run(ctx, []string{"shell"}) }); runErr != nil {
			t.Fatalf("shell run: %v", runErr)
		}

		transcript := filepath.Join(os.Getenv("HOME"), ".taskdeck", "transcript.jsonl")
		if _, err := os.Stat(transcript); !os.IsNotExist(err) {
			t.Errorf("expected no transcript, stat returned %v", err)
		}
	})
}
