package notifications

import (
	"context"
	"strings"
	"testing"

	"github.com/ziadkadry99/notifcenter/internal/db"
)

func setupSQLSource(t *testing.T) *SQLSource {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	src := NewSQLSource(database, "user1")
	if err := src.Insert(context.Background(), DefaultSeed("user1")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	return src
}

func TestSQLSourceList(t *testing.T) {
	src := setupSQLSource(t)

	got, err := src.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !equalIDs(ids(got), []string{"1", "2", "3", "4", "5"}) {
		t.Errorf("List order = %v", ids(got))
	}

	n4, _ := find(got, "4")
	if n4.ReadAt == nil || n4.ReadAt.Hour() != 18 {
		t.Errorf("ReadAt of 4 = %v, want 18:00", n4.ReadAt)
	}
	if n4.ActionText != "" {
		t.Errorf("ActionText of 4 = %q, want empty", n4.ActionText)
	}
	n1, _ := find(got, "1")
	if n1.ActionURL != "/system/maintenance" || n1.Title != "系统维护通知" {
		t.Errorf("notification 1 = %+v", n1)
	}
}

func TestSQLSourceScopedToUser(t *testing.T) {
	src := setupSQLSource(t)
	other := NewSQLSource(src.db, "user2")

	got, err := other.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("user2 sees %d notifications, want 0", len(got))
	}
}

func TestSQLSourceMutations(t *testing.T) {
	src := setupSQLSource(t)
	ctx := context.Background()

	if err := src.MarkRead(ctx, "1", testNow); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if err := src.MarkAllRead(ctx, testNow.Add(1)); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if err := src.Delete(ctx, "3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := src.Delete(ctx, "missing"); err != nil {
		t.Fatalf("Delete(missing): %v", err)
	}

	got, err := src.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	for _, n := range got {
		if n.Status != StatusRead {
			t.Errorf("%s status = %q", n.ID, n.Status)
		}
	}
	n1, _ := find(got, "1")
	if !n1.ReadAt.Equal(testNow) {
		t.Errorf("ReadAt of 1 = %v, want first mark time %v", n1.ReadAt, testNow)
	}
	n4, _ := find(got, "4")
	if n4.ReadAt.Hour() != 18 {
		t.Errorf("ReadAt of already read 4 was overwritten: %v", n4.ReadAt)
	}
}

func TestStoreOverSQLSource(t *testing.T) {
	src := setupSQLSource(t)
	store := NewStore(src, WithClock(fixedClock()), WithLogger(quietLogger(), false))
	ctx := context.Background()

	if _, err := store.Fetch(ctx, Query{}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	store.MarkAsRead(ctx, "1")
	store.DeleteNotification(ctx, "3")

	// A fresh fetch sees what the mutations wrote through.
	if _, err := store.Fetch(ctx, Query{}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	stats := store.Stats()
	if stats.Total != 4 || stats.Unread != 2 {
		t.Errorf("stats = %d/%d, want 4/2", stats.Total, stats.Unread)
	}
	checkInvariants(t, store)
}

func TestSQLSourceListCorruptMetadata(t *testing.T) {
	src := setupSQLSource(t)
	if _, err := src.db.Exec(`UPDATE notifications SET metadata = '{not json' WHERE id = '2'`); err != nil {
		t.Fatalf("corrupting metadata: %v", err)
	}

	_, err := src.List(context.Background())
	if err == nil || !strings.Contains(err.Error(), "parsing metadata of 2") {
		t.Errorf("List error = %v, want metadata parse failure for 2", err)
	}
}
