package ops

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBackupRestoreRoundTrip(t *testing.T) {
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "naruto.db"), []byte("ledger bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(src, "overrides"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "overrides", "gamedata.yml"), []byte("items: []"), 0o644); err != nil {
		t.Fatal(err)
	}

	archive := filepath.Join(t.TempDir(), "backups", "naruto.tar.gz")
	if err := Backup(src, archive); err != nil {
		t.Fatalf("backup: %v", err)
	}

	target := t.TempDir()
	if err := Restore(archive, target); err != nil {
		t.Fatalf("restore: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(target, "naruto.db"))
	if err != nil {
		t.Fatalf("read restored db: %v", err)
	}
	if string(got) != "ledger bytes" {
		t.Errorf("restored db = %q", got)
	}
	if _, err := os.Stat(filepath.Join(target, "overrides", "gamedata.yml")); err != nil {
		t.Errorf("restored override missing: %v", err)
	}
}

func TestBackupRefusesLiveWAL(t *testing.T) {
	src := t.TempDir()
	for _, name := range []string{"naruto.db", "naruto.db-wal"} {
		if err := os.WriteFile(filepath.Join(src, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	err := Backup(src, filepath.Join(t.TempDir(), "a.tar.gz"))
	if err == nil || !strings.Contains(err.Error(), "WAL") {
		t.Fatalf("expected a WAL refusal, got %v", err)
	}
}

func TestBackupRejectsMissingSource(t *testing.T) {
	if err := Backup(filepath.Join(t.TempDir(), "nope"), filepath.Join(t.TempDir(), "a.tar.gz")); err == nil {
		t.Fatal("expected an error for a missing data dir")
	}
}

func TestSanitizeEntryPath(t *testing.T) {
	for _, bad := range []string{"", ".", "..", "../escape", "/abs/path"} {
		if _, err := sanitizeEntryPath(bad); err == nil {
			t.Errorf("%q should be rejected", bad)
		}
	}
	if rel, err := sanitizeEntryPath("overrides/gamedata.yml"); err != nil || rel != filepath.Clean("overrides/gamedata.yml") {
		t.Errorf("sanitize = %q, %v", rel, err)
	}
}
