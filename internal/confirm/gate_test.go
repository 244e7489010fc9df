package confirm

import (
	"errors"
	"strings"
	"testing"
)

func TestGateLifecycle(t *testing.T) {
	g := NewGate()

	req := g.Submit("Restart-Service Spooler", "restarts the print spooler", "caution", []string{"interrupts printing"})
	if req.ID == "" {
		t.Fatal("submit returned empty ID")
	}
	if req.Status != StatusPending {
		t.Fatalf("Status = %s, want %s", req.Status, StatusPending)
	}

	approved, err := g.Approve(req.ID, "user", "")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != StatusApproved {
		t.Fatalf("Status = %s, want %s", approved.Status, StatusApproved)
	}
	if approved.DecidedAt.IsZero() {
		t.Fatal("DecidedAt not set")
	}
}

func TestGateDecisionsAreTerminal(t *testing.T) {
	g := NewGate()

	req := g.Submit("Remove-Item old.log", "", "caution", nil)
	if _, err := g.Deny(req.ID, "user", "not now"); err != nil {
		t.Fatalf("Deny: %v", err)
	}

	if _, err := g.Approve(req.ID, "user", ""); !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("approving denied request: err = %v, want ErrAlreadyDecided", err)
	}
	if _, err := g.Deny(req.ID, "user", ""); !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("re-denying: err = %v, want ErrAlreadyDecided", err)
	}

	got, err := g.Get(req.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusDenied {
		t.Fatalf("Status = %s, want %s", got.Status, StatusDenied)
	}
}

func TestGateUnknownID(t *testing.T) {
	g := NewGate()
	if _, err := g.Approve("no-such-id", "user", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGatePendingListing(t *testing.T) {
	g := NewGate()

	first := g.Submit("cmd-1", "", "safe", nil)
	second := g.Submit("cmd-2", "", "safe", nil)
	if _, err := g.Approve(first.ID, "user", ""); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	pending := g.Pending()
	if len(pending) != 1 || pending[0].ID != second.ID {
		t.Fatalf("Pending() = %v, want only %s", pending, second.ID)
	}
	decided := g.Decided()
	if len(decided) != 1 || decided[0].ID != first.ID {
		t.Fatalf("Decided() = %v, want only %s", decided, first.ID)
	}
}

func TestGateEvictsOldestDecided(t *testing.T) {
	g := NewGateWithRetention(2)

	var ids []string
	for i := 0; i < 4; i++ {
		req := g.Submit("cmd", "", "safe", nil)
		if _, err := g.Approve(req.ID, "user", ""); err != nil {
			t.Fatalf("Approve: %v", err)
		}
		ids = append(ids, req.ID)
	}

	if got := len(g.Decided()); got != 2 {
		t.Fatalf("retained %d decided records, want 2", got)
	}
	if _, err := g.Get(ids[0]); !errors.Is(err, ErrNotFound) {
		t.Fatalf("oldest record not evicted: err = %v", err)
	}
	if _, err := g.Get(ids[3]); err != nil {
		t.Fatalf("newest record evicted: %v", err)
	}
}

func TestGateNeverEvictsPending(t *testing.T) {
	g := NewGateWithRetention(1)

	pending := g.Submit("keep-me", "", "safe", nil)
	for i := 0; i < 3; i++ {
		req := g.Submit("cmd", "", "safe", nil)
		if _, err := g.Deny(req.ID, "user", ""); err != nil {
			t.Fatalf("Deny: %v", err)
		}
	}

	if _, err := g.Get(pending.ID); err != nil {
		t.Fatalf("pending request evicted: %v", err)
	}
}

func TestPrompterNonInteractiveDenies(t *testing.T) {
	p := NewPrompterWith(strings.NewReader("y\n"), &strings.Builder{}, func() bool { return false })

	d, err := p.Ask(&Request{Command: "Get-Process", RiskLevel: "safe"}, false)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if d != DecisionDenied {
		t.Fatalf("Decision = %s, want %s without a terminal", d, DecisionDenied)
	}
}

func TestPrompterYesApproves(t *testing.T) {
	var out strings.Builder
	p := NewPrompterWith(strings.NewReader("y\n"), &out, func() bool { return true })

	d, err := p.Ask(&Request{Command: "Get-Process", RiskLevel: "safe"}, false)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if d != DecisionApproved {
		t.Fatalf("Decision = %s, want %s", d, DecisionApproved)
	}
	if !strings.Contains(out.String(), "Get-Process") {
		t.Fatal("prompt did not show the command")
	}
}

func TestPrompterDefaultIsDeny(t *testing.T) {
	p := NewPrompterWith(strings.NewReader("\n"), &strings.Builder{}, func() bool { return true })

	d, err := p.Ask(&Request{Command: "Remove-Item old.log", RiskLevel: "caution"}, false)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if d != DecisionDenied {
		t.Fatalf("Decision = %s, want %s on empty input", d, DecisionDenied)
	}
}

func TestPrompterExtraConfirmationPhrase(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Decision
	}{
		{"exact phrase", "yes, I understand the risk\n", DecisionApproved},
		{"plain yes", "yes\n", DecisionDenied},
		{"wrong case", "YES, I UNDERSTAND THE RISK\n", DecisionDenied},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPrompterWith(strings.NewReader(tc.input), &strings.Builder{}, func() bool { return true })
			d, err := p.Ask(&Request{Command: "Format-Volume D", RiskLevel: "dangerous"}, true)
			if err != nil {
				t.Fatalf("Ask: %v", err)
			}
			if d != tc.want {
				t.Fatalf("Decision = %s, want %s", d, tc.want)
			}
		})
	}
}
