package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrChangeNotFound is returned when no change matches the given ID.
var ErrChangeNotFound = errors.New("change record not found")

// ChangeType categorizes what a command altered on the system.
type ChangeType string

const (
	ChangeFileDelete    ChangeType = "file-delete"
	ChangeFileModify    ChangeType = "file-modify"
	ChangeServiceStop   ChangeType = "service-stop"
	ChangeServiceStart  ChangeType = "service-start"
	ChangeRegistryWrite ChangeType = "registry-write"
	ChangePackage       ChangeType = "package"
	ChangeOther         ChangeType = "other"
)

// Change is one tracked system modification.
type Change struct {
	ID        string     `json:"id"`
	RequestID string     `json:"request_id"`
	Command   string     `json:"command"`
	Type      ChangeType `json:"change_type"`
	Target    string     `json:"target,omitempty"`
	BackupID  string     `json:"backup_id,omitempty"`
	Reverted  bool       `json:"reverted"`
	CreatedAt time.Time  `json:"created_at"`
}

// ChangeStore provides change-record CRUD over an open database.
type ChangeStore struct {
	db *sql.DB
}

// NewChangeStore wraps an open database.
func NewChangeStore(conn *sql.DB) *ChangeStore {
	return &ChangeStore{db: conn}
}

// Record inserts a new change and returns it with its generated ID.
func (s *ChangeStore) Record(requestID, command string, changeType ChangeType, target, backupID string) (*Change, error) {
	c := Change{
		ID:        uuid.NewString(),
		RequestID: requestID,
		Command:   command,
		Type:      changeType,
		Target:    target,
		BackupID:  backupID,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO changes (id, request_id, command, change_type, target, backup_id, reverted, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
		c.ID, c.RequestID, c.Command, string(c.Type), c.Target, c.BackupID, c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting change: %w", err)
	}
	return &c, nil
}

// Get returns one change by ID.
func (s *ChangeStore) Get(id string) (*Change, error) {
	row := s.db.QueryRow(
		`SELECT id, request_id, command, change_type, target, backup_id, reverted, created_at
		 FROM changes WHERE id = ?`, id)
	c, err := scanChange(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrChangeNotFound, id)
	}
	return c, err
}

// Recent returns the latest limit changes, newest first.
func (s *ChangeStore) Recent(limit int) ([]Change, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, request_id, command, change_type, target, backup_id, reverted, created_at
		 FROM changes ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying changes: %w", err)
	}
	defer rows.Close()
	return collectChanges(rows)
}

// ByRequest returns all changes made for one request, oldest first.
func (s *ChangeStore) ByRequest(requestID string) ([]Change, error) {
	rows, err := s.db.Query(
		`SELECT id, request_id, command, change_type, target, backup_id, reverted, created_at
		 FROM changes WHERE request_id = ? ORDER BY created_at, id`, requestID)
	if err != nil {
		return nil, fmt.Errorf("querying changes: %w", err)
	}
	defer rows.Close()
	return collectChanges(rows)
}

// MarkReverted flags a change as undone.
func (s *ChangeStore) MarkReverted(id string) error {
	res, err := s.db.Exec(`UPDATE changes SET reverted = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking change reverted: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking change reverted: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrChangeNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChange(row rowScanner) (*Change, error) {
	var c Change
	var changeType string
	if err := row.Scan(&c.ID, &c.RequestID, &c.Command, &changeType, &c.Target, &c.BackupID, &c.Reverted, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Type = ChangeType(changeType)
	return &c, nil
}

func collectChanges(rows *sql.Rows) ([]Change, error) {
	var changes []Change
	for rows.Next() {
		c, err := scanChange(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning change: %w", err)
		}
		changes = append(changes, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating changes: %w", err)
	}
	return changes, nil
}

// InferChangeType guesses the change category from the command text.
func InferChangeType(command string) ChangeType {
	lower := strings.ToLower(command)
	switch {
	case contains(lower, "remove-item", "rm ", "del ", "rd ", "rmdir", "unlink"):
		return ChangeFileDelete
	case contains(lower, "set-content", "out-file", "move-item", "copy-item", "mv ", "cp "):
		return ChangeFileModify
	case contains(lower, "stop-service", "sc stop", "systemctl stop"):
		return ChangeServiceStop
	case contains(lower, "start-service", "restart-service", "sc start", "systemctl start", "systemctl restart"):
		return ChangeServiceStart
	case contains(lower, "reg add", "reg delete", "set-itemproperty", "new-itemproperty"):
		return ChangeRegistryWrite
	case contains(lower, "winget", "apt ", "choco", "msiexec"):
		return ChangePackage
	default:
		return ChangeOther
	}
}

func contains(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
