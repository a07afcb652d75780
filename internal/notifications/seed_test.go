package notifications

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing seed: %v", err)
	}
	return path
}

func TestLoadSeedFile(t *testing.T) {
	path := writeSeed(t, `
- id: a
  title: Deploy finished
  content: Release 1.2 is live
  type: system
  priority: urgent
  created_at: 2025-02-01T08:00:00Z
  action_url: /releases/1.2
  metadata:
    release: "1.2"
- title: New follower
  type: follow
  priority: low
  status: read
  created_at: 2025-02-01T07:00:00Z
  read_at: 2025-02-01T07:30:00Z
`)

	list, err := LoadSeedFile(path, "alice")
	if err != nil {
		t.Fatalf("LoadSeedFile: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}

	a := list[0]
	if a.Status != StatusUnread {
		t.Errorf("default status = %q, want unread", a.Status)
	}
	if a.UserID != "alice" {
		t.Errorf("UserID = %q, want alice", a.UserID)
	}
	if !a.UpdatedAt.Equal(a.CreatedAt) {
		t.Errorf("UpdatedAt = %v, want CreatedAt", a.UpdatedAt)
	}
	if a.Metadata["release"] != "1.2" {
		t.Errorf("Metadata = %v", a.Metadata)
	}

	b := list[1]
	if b.ID == "" {
		t.Error("expected generated id")
	}
	if b.ReadAt == nil {
		t.Error("expected ReadAt to be parsed")
	}
}

func TestLoadSeedFileRejectsBadData(t *testing.T) {
	tests := map[string]string{
		"bad type":     "- {id: x, title: t, type: spam, priority: low, created_at: 2025-02-01T08:00:00Z}",
		"bad priority": "- {id: x, title: t, type: like, priority: meh, created_at: 2025-02-01T08:00:00Z}",
		"bad status":   "- {id: x, title: t, type: like, priority: low, status: gone, created_at: 2025-02-01T08:00:00Z}",
		"duplicate id": "- {id: x, title: t, type: like, priority: low}\n- {id: x, title: u, type: like, priority: low}",
		"not a list":   "title: nope",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadSeedFile(writeSeed(t, body), "u"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadSeedFileMissing(t *testing.T) {
	if _, err := LoadSeedFile(filepath.Join(t.TempDir(), "none.yml"), "u"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadSeedGlob(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"team/a.yml":        "- id: a\n  title: A\n  type: system\n  priority: low\n  created_at: 2025-02-01T08:00:00Z\n",
		"team/nested/b.yml": "- id: b\n  title: B\n  type: like\n  priority: high\n  created_at: 2025-02-01T09:00:00Z\n",
		"team/ignored.txt":  "not yaml",
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	list, err := LoadSeed(filepath.Join(dir, "team", "**", "*.yml"), "alice")
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}

	if _, err := LoadSeed(filepath.Join(dir, "none", "*.yml"), "alice"); err == nil {
		t.Error("expected error for a pattern matching nothing")
	}
}

func TestLoadSeedDuplicateAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	body := "- id: same\n  title: X\n  type: system\n  priority: low\n  created_at: 2025-02-01T08:00:00Z\n"
	for _, name := range []string{"one.yml", "two.yml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := LoadSeed(filepath.Join(dir, "*.yml"), ""); err == nil {
		t.Error("expected duplicate id error")
	}
}

func TestSeedFilesPlainPath(t *testing.T) {
	got, err := SeedFiles("/tmp/seed.yml")
	if err != nil || len(got) != 1 || got[0] != "/tmp/seed.yml" {
		t.Errorf("SeedFiles = %v, %v", got, err)
	}
}
