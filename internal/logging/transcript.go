package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// TranscriptFile is the name of the transcript inside the log directory.
const TranscriptFile = "transcript.jsonl"

// Event is one transcript line. Every operation issued through the service
// layer is recorded as one event.
type Event struct {
	Time      time.Time `json:"time"`
	Session   string    `json:"session"`
	Op        string    `json:"op"`
	Outcome   string    `json:"outcome"`
	Error     string    `json:"error,omitempty"`
	ProjectID int64     `json:"project_id,omitempty"`
	TaskID    int64     `json:"task_id,omitempty"`
}

// Transcript appends JSONL events to a rotating file in the log directory.
// Each process gets a fresh session ID stamped on every event it writes.
type Transcript struct {
	mu      sync.Mutex
	session string
	out     io.WriteCloser
	enc     *json.Encoder
}

// NewTranscript opens the transcript file under dir, creating the directory
// if needed. The file rotates at 10 MB and old rotations are compressed.
func NewTranscript(dir string) (*Transcript, error) {
	if dir == "" {
		return nil, fmt.Errorf("transcript dir is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create transcript dir: %w", err)
	}

	out := &lumberjack.Logger{
		Filename:   filepath.Join(dir, TranscriptFile),
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	return &Transcript{
		session: uuid.NewString(),
		out:     out,
		enc:     json.NewEncoder(out),
	}, nil
}

// Session returns the session ID stamped on every event.
func (t *Transcript) Session() string {
	if t == nil {
		return ""
	}
	return t.session
}

// Record appends one event, stamping time and session. A nil Transcript
// records nothing, so callers never need to guard. Write failures are
// dropped; the transcript is best effort.
func (t *Transcript) Record(ev Event) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	ev.Time = time.Now().UTC()
	ev.Session = t.session
	_ = t.enc.Encode(ev)
}

// Close closes the transcript file.
func (t *Transcript) Close() error {
	if t == nil || t.out == nil {
		return nil
	}
	return t.out.Close()
}
