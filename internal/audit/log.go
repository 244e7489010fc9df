// Package audit appends a tamper-evident JSONL trail of every request,
// decision, and execution.
package audit

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventType names a kind of audit entry.
type EventType string

const (
	EventUserRequest          EventType = "user_request"
	EventCommandGenerated     EventType = "command_generated"
	EventConfirmationDecision EventType = "confirmation_decision"
	EventCommandExecuted      EventType = "command_executed"
	EventCommandCancelled     EventType = "command_cancelled"
	EventError                EventType = "error"
)

// Event is one audit log line.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Type      EventType      `json:"type"`
	RequestID string         `json:"request_id,omitempty"`
	Command   string         `json:"command,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// Log appends events to a JSONL file. One line per event; writes are
// serialized so concurrent callers never interleave.
type Log struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewLog creates an audit log at path. The file and its directory are
// created on first write.
func NewLog(path string) *Log {
	return &Log{path: path, now: time.Now}
}

// Path returns the log file path.
func (l *Log) Path() string {
	return l.path
}

// Append writes one event. The timestamp is set here if the caller left
// it zero.
func (l *Log) Append(ev Event) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = l.now()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding audit event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o700); err != nil {
		return fmt.Errorf("creating audit dir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing audit event: %w", err)
	}
	return nil
}

// UserRequest records an incoming natural-language request.
func (l *Log) UserRequest(requestID, request string) error {
	return l.Append(Event{
		Type:      EventUserRequest,
		RequestID: requestID,
		Details:   map[string]any{"request": request},
	})
}

// CommandGenerated records the command produced for a request.
func (l *Log) CommandGenerated(requestID, command, explanation string) error {
	return l.Append(Event{
		Type:      EventCommandGenerated,
		RequestID: requestID,
		Command:   command,
		Details:   map[string]any{"explanation": explanation},
	})
}

// ConfirmationDecision records the user's approve/deny choice.
func (l *Log) ConfirmationDecision(requestID, command, decision string) error {
	return l.Append(Event{
		Type:      EventConfirmationDecision,
		RequestID: requestID,
		Command:   command,
		Details:   map[string]any{"decision": decision},
	})
}

// CommandExecuted records an execution attempt and its outcome.
func (l *Log) CommandExecuted(requestID, command string, exitCode int, success bool) error {
	return l.Append(Event{
		Type:      EventCommandExecuted,
		RequestID: requestID,
		Command:   command,
		Details:   map[string]any{"exit_code": exitCode, "success": success},
	})
}

// CommandCancelled records a command stopped before execution, whether by
// policy or by the user.
func (l *Log) CommandCancelled(requestID, command, reason string) error {
	return l.Append(Event{
		Type:      EventCommandCancelled,
		RequestID: requestID,
		Command:   command,
		Details:   map[string]any{"reason": reason},
	})
}

// Error records a pipeline failure unrelated to the command's own exit
// status.
func (l *Log) Error(requestID, stage string, err error) error {
	return l.Append(Event{
		Type:      EventError,
		RequestID: requestID,
		Details:   map[string]any{"stage": stage, "error": err.Error()},
	})
}

// Read returns the most recent limit events, oldest first. limit <= 0
// returns everything. A missing log file yields an empty slice.
func (l *Log) Read(limit int) ([]Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			// A corrupt line must not hide the rest of the trail.
			continue
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning audit log: %w", err)
	}

	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events, nil
}
