// Package confirm implements the approval gate that stands between a
// generated command and its execution. Every decision is terminal: an
// approved or denied request never changes state again.
package confirm

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a confirmation request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

var (
	// ErrNotFound is returned when no request matches the given ID.
	ErrNotFound = errors.New("confirmation request not found")
	// ErrAlreadyDecided is returned when deciding a non-pending request.
	ErrAlreadyDecided = errors.New("confirmation request already decided")
)

// Request is one command awaiting a user decision.
type Request struct {
	ID          string    `json:"id"`
	Command     string    `json:"command"`
	Explanation string    `json:"explanation"`
	Risks       []string  `json:"risks,omitempty"`
	RiskLevel   string    `json:"risk_level"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	DecidedAt   time.Time `json:"decided_at,omitzero"`
	DecidedBy   string    `json:"decided_by,omitempty"`
	Note        string    `json:"note,omitempty"`
}

// DefaultMaxDecided caps how many terminal records the gate retains.
const DefaultMaxDecided = 256

// Gate tracks confirmation requests. Decided records are retained for
// inspection up to a bound; the oldest are evicted first. Safe for
// concurrent use.
type Gate struct {
	mu         sync.Mutex
	requests   map[string]*Request
	maxDecided int
	now        func() time.Time
}

// NewGate creates a gate with the default retention bound.
func NewGate() *Gate {
	return NewGateWithRetention(DefaultMaxDecided)
}

// NewGateWithRetention creates a gate retaining at most maxDecided
// terminal records. Values below 1 fall back to the default.
func NewGateWithRetention(maxDecided int) *Gate {
	if maxDecided < 1 {
		maxDecided = DefaultMaxDecided
	}
	return &Gate{
		requests:   make(map[string]*Request),
		maxDecided: maxDecided,
		now:        time.Now,
	}
}

// Submit registers a command for confirmation and returns the request.
func (g *Gate) Submit(command, explanation, riskLevel string, risks []string) *Request {
	req := &Request{
		ID:          uuid.NewString(),
		Command:     command,
		Explanation: explanation,
		Risks:       append([]string(nil), risks...),
		RiskLevel:   riskLevel,
		Status:      StatusPending,
		CreatedAt:   g.now(),
	}

	g.mu.Lock()
	g.requests[req.ID] = req
	g.evictLocked()
	g.mu.Unlock()

	return g.copyOf(req)
}

// Approve marks a pending request approved.
func (g *Gate) Approve(id, decidedBy, note string) (*Request, error) {
	return g.decide(id, StatusApproved, decidedBy, note)
}

// Deny marks a pending request denied.
func (g *Gate) Deny(id, decidedBy, note string) (*Request, error) {
	return g.decide(id, StatusDenied, decidedBy, note)
}

func (g *Gate) decide(id string, status Status, decidedBy, note string) (*Request, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	req, ok := g.requests[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if req.Status != StatusPending {
		return nil, fmt.Errorf("%w: %s is %s", ErrAlreadyDecided, id, req.Status)
	}

	req.Status = status
	req.DecidedAt = g.now()
	req.DecidedBy = decidedBy
	req.Note = note
	g.evictLocked()

	return g.copyOf(req), nil
}

// Get returns a request by ID.
func (g *Gate) Get(id string) (*Request, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	req, ok := g.requests[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return g.copyOf(req), nil
}

// Pending returns all pending requests, oldest first.
func (g *Gate) Pending() []*Request {
	return g.list(func(r *Request) bool { return r.Status == StatusPending })
}

// Decided returns all retained terminal requests, oldest first.
func (g *Gate) Decided() []*Request {
	return g.list(func(r *Request) bool { return r.Status != StatusPending })
}

func (g *Gate) list(keep func(*Request) bool) []*Request {
	g.mu.Lock()
	defer g.mu.Unlock()

	var out []*Request
	for _, req := range g.requests {
		if keep(req) {
			out = append(out, g.copyOf(req))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// evictLocked drops the oldest decided records past the retention bound.
// Pending requests are never evicted.
func (g *Gate) evictLocked() {
	var decided []*Request
	for _, req := range g.requests {
		if req.Status != StatusPending {
			decided = append(decided, req)
		}
	}
	excess := len(decided) - g.maxDecided
	if excess <= 0 {
		return
	}
	sort.Slice(decided, func(i, j int) bool {
		return decided[i].DecidedAt.Before(decided[j].DecidedAt)
	})
	for _, req := range decided[:excess] {
		delete(g.requests, req.ID)
	}
}

func (g *Gate) copyOf(req *Request) *Request {
	cp := *req
	cp.Risks = append([]string(nil), req.Risks...)
	return &cp
}
