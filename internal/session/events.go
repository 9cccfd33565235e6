package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventType identifies the kind of session event.
type EventType string

const (
	EventLoadStart     EventType = "load_start"
	EventLoadPublished EventType = "load_published"
	EventLoadStale     EventType = "load_stale"
	EventLoadFailed    EventType = "load_failed"
	EventFetchFailure  EventType = "fetch_failure"
)

// Event is a single timestamped entry in a session log.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Type      EventType      `json:"type"`
	Token     uint64         `json:"token"`
	Data      map[string]any `json:"data,omitempty"`
}

// NewEvent creates an event with the current timestamp.
func NewEvent(t EventType, token uint64, data map[string]any) Event {
	return Event{
		Timestamp: time.Now().UTC(),
		Type:      t,
		Token:     token,
		Data:      data,
	}
}

func selectionData(sel Selection) map[string]any {
	return map[string]any{
		"dataset": sel.Dataset,
		"model":   sel.Model,
	}
}

// EventLog records session events.
type EventLog interface {
	Log(event Event) error
	Close() error
}

// JSONEventLog appends events as newline-delimited JSON.
type JSONEventLog struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
	path string
}

// NewJSONEventLog opens path for appending, creating parent directories.
func NewJSONEventLog(path string) (*JSONEventLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating event log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	return &JSONEventLog{file: f, enc: json.NewEncoder(f), path: path}, nil
}

// Log writes one event as one JSON line.
func (l *JSONEventLog) Log(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(event)
}

// Close closes the underlying file.
func (l *JSONEventLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// Path returns the file path of the log.
func (l *JSONEventLog) Path() string {
	return l.path
}

// NopEventLog discards all events.
type NopEventLog struct{}

// Log is a no-op.
func (NopEventLog) Log(Event) error { return nil }

// Close is a no-op.
func (NopEventLog) Close() error { return nil }
