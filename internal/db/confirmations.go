package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrConfirmationNotFound is returned when no confirmation matches
	// the given ID.
	ErrConfirmationNotFound = errors.New("confirmation not found")
	// ErrConfirmationDecided is returned when deciding a non-pending
	// confirmation.
	ErrConfirmationDecided = errors.New("confirmation already decided")
)

const confirmationSchema = `
CREATE TABLE IF NOT EXISTS confirmations (
	id          TEXT PRIMARY KEY,
	request     TEXT NOT NULL,
	command     TEXT NOT NULL,
	explanation TEXT NOT NULL DEFAULT '',
	risk_tier   TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'pending',
	decided_by  TEXT NOT NULL DEFAULT '',
	note        TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMP NOT NULL,
	decided_at  TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_confirmations_status ON confirmations(status);
`

// Confirmation is a persisted approval request, used when ward runs
// without a terminal and the decision must come from a later invocation.
type Confirmation struct {
	ID          string     `json:"id"`
	Request     string     `json:"request"`
	Command     string     `json:"command"`
	Explanation string     `json:"explanation,omitempty"`
	RiskTier    string     `json:"risk_tier,omitempty"`
	Status      string     `json:"status"`
	DecidedBy   string     `json:"decided_by,omitempty"`
	Note        string     `json:"note,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
}

// ConfirmationStore persists confirmation requests across invocations.
type ConfirmationStore struct {
	db *sql.DB
}

// NewConfirmationStore wraps an open database, applying the
// confirmations schema.
func NewConfirmationStore(conn *sql.DB) (*ConfirmationStore, error) {
	if _, err := conn.Exec(confirmationSchema); err != nil {
		return nil, fmt.Errorf("applying confirmations schema: %w", err)
	}
	return &ConfirmationStore{db: conn}, nil
}

// Park stores a new pending confirmation and returns it.
func (s *ConfirmationStore) Park(request, command, explanation, riskTier string) (*Confirmation, error) {
	c := Confirmation{
		ID:          uuid.NewString(),
		Request:     request,
		Command:     command,
		Explanation: explanation,
		RiskTier:    riskTier,
		Status:      "pending",
		CreatedAt:   time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO confirmations (id, request, command, explanation, risk_tier, status, created_at)
		 VALUES (?, ?, ?, ?, ?, 'pending', ?)`,
		c.ID, c.Request, c.Command, c.Explanation, c.RiskTier, c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting confirmation: %w", err)
	}
	return &c, nil
}

// Get returns one confirmation by ID. Short unambiguous prefixes are
// accepted.
func (s *ConfirmationStore) Get(id string) (*Confirmation, error) {
	rows, err := s.db.Query(
		`SELECT id, request, command, explanation, risk_tier, status, decided_by, note, created_at, decided_at
		 FROM confirmations WHERE id = ? OR id LIKE ? || '%'`, id, id)
	if err != nil {
		return nil, fmt.Errorf("querying confirmation: %w", err)
	}
	defer rows.Close()

	var matches []Confirmation
	for rows.Next() {
		c, err := scanConfirmation(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying confirmation: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrConfirmationNotFound, id)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("ambiguous confirmation id %q matches %d records", id, len(matches))
	}
}

// Pending returns all undecided confirmations, oldest first.
func (s *ConfirmationStore) Pending() ([]Confirmation, error) {
	rows, err := s.db.Query(
		`SELECT id, request, command, explanation, risk_tier, status, decided_by, note, created_at, decided_at
		 FROM confirmations WHERE status = 'pending' ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("querying pending confirmations: %w", err)
	}
	defer rows.Close()

	var out []Confirmation
	for rows.Next() {
		c, err := scanConfirmation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Decide moves a pending confirmation to a terminal status. Decisions are
// final: re-deciding returns ErrConfirmationDecided.
func (s *ConfirmationStore) Decide(id, status, decidedBy, note string) (*Confirmation, error) {
	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if c.Status != "pending" {
		return nil, fmt.Errorf("%w: %s is %s", ErrConfirmationDecided, c.ID, c.Status)
	}

	now := time.Now().UTC()
	_, err = s.db.Exec(
		`UPDATE confirmations SET status = ?, decided_by = ?, note = ?, decided_at = ?
		 WHERE id = ? AND status = 'pending'`,
		status, decidedBy, note, now, c.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("deciding confirmation: %w", err)
	}
	c.Status = status
	c.DecidedBy = decidedBy
	c.Note = note
	c.DecidedAt = &now
	return c, nil
}

func scanConfirmation(rows *sql.Rows) (*Confirmation, error) {
	var c Confirmation
	var decidedAt sql.NullTime
	if err := rows.Scan(&c.ID, &c.Request, &c.Command, &c.Explanation, &c.RiskTier,
		&c.Status, &c.DecidedBy, &c.Note, &c.CreatedAt, &decidedAt); err != nil {
		return nil, fmt.Errorf("scanning confirmation: %w", err)
	}
	if decidedAt.Valid {
		c.DecidedAt = &decidedAt.Time
	}
	return &c, nil
}
