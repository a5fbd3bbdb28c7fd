package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// TestNewTranscript tests opening transcripts.
func TestNewTranscript(t *testing.T) {
	t.Run("creates directory and file on first write", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "logs", "nested")

		tr, err := NewTranscript(dir)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer tr.Close()

		if _, err := os.Stat(dir); err != nil {
			t.Errorf("transcript directory not created: %v", err)
		}

		tr.Record(Event{Op: "add_project", Outcome: "ok"})
		if _, err := os.Stat(filepath.Join(dir, TranscriptFile)); err != nil {
			t.Errorf("transcript file not created: %v", err)
		}
	})

	t.Run("empty dir returns error", func(t *testing.T) {
		if _, err := NewTranscript(""); err == nil {
			t.Fatal("expected error for empty dir, got nil")
		}
	})
}

// TestTranscriptRecord tests that events land in the file with session and
// time stamped.
func TestTranscriptRecord(t *testing.T) {
	dir := t.TempDir()
	tr, err := NewTranscript(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	tr.Record(Event{Op: "add_project", Outcome: "ok", ProjectID: 1})
	tr.Record(Event{Op: "add_task", Outcome: "error", Error: "name: must not be empty", ProjectID: 1})

	f, err := os.Open(filepath.Join(dir, TranscriptFile))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("invalid JSONL line %q: %v", scanner.Text(), err)
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	for i, ev := range events {
		if ev.Session != tr.Session() {
			t.Errorf("event %d session = %q, want %q", i, ev.Session, tr.Session())
		}
		if ev.Time.IsZero() {
			t.Errorf("event %d has zero time", i)
		}
	}
	if events[0].Op != "add_project" || events[0].Outcome != "ok" {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].Error == "" {
		t.Error("expected error text on failed event")
	}
}

// TestTranscriptNil tests that a nil transcript is safe everywhere.
func TestTranscriptNil(t *testing.T) {
	var tr *Transcript
	tr.Record(Event{Op: "noop"})
	if err := tr.Close(); err != nil {
		t.Errorf("close nil transcript failed: %v", err)
	}
	if tr.Session() != "" {
		t.Errorf("nil transcript session = %q, want empty", tr.Session())
	}
}

// TestTranscriptSession tests that session IDs are unique per transcript.
func TestTranscriptSession(t *testing.T) {
	a, err := NewTranscript(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	b, err := NewTranscript(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if a.Session() == "" || b.Session() == "" {
		t.Fatal("expected non-empty session IDs")
	}
	if a.Session() == b.Session() {
		t.Error("two transcripts share a session ID")
	}
}
