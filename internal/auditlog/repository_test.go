package auditlog

import (
	"path/filepath"
	"testing"
	"time"
)

func tempRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "canaryctl.db")
	r, err := OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestSave_AssignsIDAndTimestamp(t *testing.T) {
	r := tempRepo(t)

	entry := &AuditEntry{
		Command:    "canaryctl canary list",
		Outcome:    OutcomeSuccess,
		DurationMs: 12,
	}

	if err := r.Save(entry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if entry.ID == 0 {
		t.Error("expected ID to be assigned")
	}
	if entry.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestSave_PersistsTargetFields(t *testing.T) {
	r := tempRepo(t)

	entry := &AuditEntry{
		Command:    "canaryctl canary query",
		Args:       "h1:i-1 --metric cpu",
		Endpoint:   "https://nova:8774/v2/t1",
		APIVersion: "v3",
		TargetType: TargetInstance,
		TargetID:   "h1:i-1",
		Metric:     "cpu",
		Outcome:    OutcomeSuccess,
	}
	if err := r.Save(entry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := r.List(1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	e := got[0]
	if e.TargetType != TargetInstance || e.TargetID != "h1:i-1" || e.Metric != "cpu" {
		t.Errorf("target fields not persisted: %+v", e)
	}
	if e.Endpoint != entry.Endpoint || e.APIVersion != "v3" || e.Args != entry.Args {
		t.Errorf("invocation fields not persisted: %+v", e)
	}
}

func TestList(t *testing.T) {
	r := tempRepo(t)

	for i := range 3 {
		entry := &AuditEntry{
			Command:   "canaryctl canary list",
			Outcome:   OutcomeSuccess,
			Timestamp: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}
		if err := r.Save(entry); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	entries, err := r.List(2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Timestamp.Before(entries[1].Timestamp) {
		t.Error("expected entries sorted by timestamp descending")
	}
}

func TestListByCommandAndTarget(t *testing.T) {
	r := tempRepo(t)

	entries := []*AuditEntry{
		{Command: "canaryctl canary query", TargetID: "h1", Outcome: OutcomeSuccess},
		{Command: "canaryctl canary info", TargetID: "h1:i-1", Outcome: OutcomeSuccess},
		{Command: "canaryctl canary query", TargetID: "h1:i-1", Outcome: OutcomeError},
	}
	for _, entry := range entries {
		if err := r.Save(entry); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	byCommand, err := r.ListByCommand("canaryctl canary query", 10)
	if err != nil {
		t.Fatalf("ListByCommand failed: %v", err)
	}
	if len(byCommand) != 2 {
		t.Fatalf("expected 2 entries by command, got %d", len(byCommand))
	}

	byTarget, err := r.ListByTarget("h1:i-1", 10)
	if err != nil {
		t.Fatalf("ListByTarget failed: %v", err)
	}
	if len(byTarget) != 2 {
		t.Fatalf("expected 2 entries by target, got %d", len(byTarget))
	}
	for _, entry := range byTarget {
		if entry.TargetID != "h1:i-1" {
			t.Errorf("expected target h1:i-1, got %q", entry.TargetID)
		}
	}
}

func TestPrune(t *testing.T) {
	r := tempRepo(t)

	oldEntry := &AuditEntry{
		Command:   "canaryctl canary list",
		Outcome:   OutcomeSuccess,
		Timestamp: time.Now().UTC().Add(-48 * time.Hour),
	}
	recentEntry := &AuditEntry{
		Command:   "canaryctl canary list",
		Outcome:   OutcomeSuccess,
		Timestamp: time.Now().UTC().Add(-1 * time.Hour),
	}

	if err := r.Save(oldEntry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := r.Save(recentEntry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	removed, err := r.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}

	remaining, err := r.List(10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("expected 1 remaining entry, got %d", len(remaining))
	}
}
