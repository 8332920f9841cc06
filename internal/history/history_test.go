package history

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(DBPath(t.TempDir()))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddAndGet(t *testing.T) {
	store := openTestStore(t)

	entry, err := store.Add("https://example.com/jobs/7", "claude-sonnet-4-20250514", "Dear Hiring Manager, ...")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if entry.ID == "" {
		t.Fatal("entry ID not generated")
	}

	got, err := store.Get(entry.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.JobSource != "https://example.com/jobs/7" {
		t.Errorf("unexpected job source %q", got.JobSource)
	}
	if got.Letter != "Dear Hiring Manager, ..." {
		t.Errorf("unexpected letter %q", got.Letter)
	}
	if got.Model != "claude-sonnet-4-20250514" {
		t.Errorf("unexpected model %q", got.Model)
	}
	if time.Since(got.CreatedAt) > time.Minute {
		t.Errorf("created_at too old: %v", got.CreatedAt)
	}
}

func TestGetMissing(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Get("nope"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openTestStore(t)

	// Insert with explicit timestamps so ordering doesn't depend on clock
	// resolution.
	base := time.Now().UTC().Add(-time.Hour)
	for i, source := range []string{"first", "second", "third"} {
		_, err := store.conn.Exec(`
			INSERT INTO letters (id, created_at, job_source, model, letter)
			VALUES (?, ?, ?, ?, ?)
		`, source, formatTime(base.Add(time.Duration(i)*time.Minute)), source, "m", "letter "+source)
		if err != nil {
			t.Fatalf("insert fixture: %v", err)
		}
	}

	entries, err := store.List(0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].JobSource != "third" || entries[2].JobSource != "first" {
		t.Errorf("entries not newest-first: %s, %s, %s",
			entries[0].JobSource, entries[1].JobSource, entries[2].JobSource)
	}

	limited, err := store.List(2)
	if err != nil {
		t.Fatalf("List with limit failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 entries with limit, got %d", len(limited))
	}
}

func TestDelete(t *testing.T) {
	store := openTestStore(t)

	entry, err := store.Add("pasted description", "qwen3:latest", "letter text")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := store.Delete(entry.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(entry.ID); err == nil {
		t.Fatal("entry should be gone after delete")
	}
	if err := store.Delete(entry.ID); err == nil {
		t.Fatal("deleting a missing entry should error")
	}
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "lettersmith.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()
	if store.Path() != path {
		t.Errorf("unexpected path %q", store.Path())
	}
}
