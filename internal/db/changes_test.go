package db

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *ChangeStore {
	t.Helper()
	conn, err := Open(filepath.Join(t.TempDir(), "ward.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewChangeStore(conn)
}

func TestRecordAndGet(t *testing.T) {
	s := newTestStore(t)

	c, err := s.Record("req-1", "Remove-Item old.log", ChangeFileDelete, "old.log", "backup-1")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if c.ID == "" {
		t.Fatal("empty change ID")
	}

	got, err := s.Get(c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Command != c.Command || got.Type != ChangeFileDelete || got.BackupID != "backup-1" {
		t.Fatalf("Get = %+v, want %+v", got, c)
	}
	if got.Reverted {
		t.Fatal("new change marked reverted")
	}
}

func TestGetUnknownID(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get("nope"); !errors.Is(err, ErrChangeNotFound) {
		t.Fatalf("err = %v, want ErrChangeNotFound", err)
	}
}

func TestByRequestAndRecent(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Record("req-1", "cmd-a", ChangeOther, "", ""); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := s.Record("req-1", "cmd-b", ChangeOther, "", ""); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := s.Record("req-2", "cmd-c", ChangeOther, "", ""); err != nil {
		t.Fatalf("Record: %v", err)
	}

	byReq, err := s.ByRequest("req-1")
	if err != nil {
		t.Fatalf("ByRequest: %v", err)
	}
	if len(byReq) != 2 {
		t.Fatalf("len(byReq) = %d, want 2", len(byReq))
	}

	recent, err := s.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("len(recent) = %d, want 2", len(recent))
	}
}

func TestMarkReverted(t *testing.T) {
	s := newTestStore(t)

	c, err := s.Record("req-1", "Stop-Service Spooler", ChangeServiceStop, "Spooler", "")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.MarkReverted(c.ID); err != nil {
		t.Fatalf("MarkReverted: %v", err)
	}

	got, err := s.Get(c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Reverted {
		t.Fatal("change not marked reverted")
	}

	if err := s.MarkReverted("nope"); !errors.Is(err, ErrChangeNotFound) {
		t.Fatalf("err = %v, want ErrChangeNotFound", err)
	}
}

func TestInferChangeType(t *testing.T) {
	tests := []struct {
		command string
		want    ChangeType
	}{
		{"Remove-Item old.log", ChangeFileDelete},
		{"rm -r build", ChangeFileDelete},
		{"Move-Item a.txt b.txt", ChangeFileModify},
		{"Stop-Service -Name Spooler", ChangeServiceStop},
		{"systemctl restart nginx", ChangeServiceStart},
		{`reg add HKCU\Software\Acme /v K /d 1`, ChangeRegistryWrite},
		{"winget install jq", ChangePackage},
		{"echo hi", ChangeOther},
	}
	for _, tc := range tests {
		if got := InferChangeType(tc.command); got != tc.want {
			t.Errorf("InferChangeType(%q) = %s, want %s", tc.command, got, tc.want)
		}
	}
}
