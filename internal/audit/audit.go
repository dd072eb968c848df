// Package audit appends a best-effort, append-only JSONL trail of LLM
// calls. It is consulted by internal/llm exactly the way the teacher's
// internal/compact/haiku.go consults its own audit package: construct an
// Entry, call Append, and never let a logging failure fail the caller.
package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one audited LLM call.
type Entry struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Actor     string    `json:"actor,omitempty"`
	Model     string    `json:"model"`
	Operation string    `json:"operation,omitempty"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

var (
	mu      sync.Mutex
	logPath = defaultLogPath()
)

func defaultLogPath() string {
	base := os.Getenv("TEST_PROGRESS_DIR")
	if base == "" {
		base = "."
	}
	return filepath.Join(base, "progress", "audit.jsonl")
}

// SetLogPath overrides the audit log destination (used by tests).
func SetLogPath(path string) {
	mu.Lock()
	defer mu.Unlock()
	logPath = path
}

// Append writes one audit entry, creating the log file and its parent
// directory if needed, and returns the entry's ID. It stamps ID and
// Timestamp if unset. Errors are returned to the caller, which — per the
// teacher's own convention — should treat them as best-effort and never
// fail the originating operation because of them.
func Append(e *Entry) (string, error) {
	mu.Lock()
	defer mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return e.ID, err
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return e.ID, err
	}
	defer func() { _ = f.Close() }()

	line, err := json.Marshal(e)
	if err != nil {
		return e.ID, err
	}
	line = append(line, '\n')
	_, err = f.Write(line)
	return e.ID, err
}
