package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/notifcenter/internal/notifications"
)

func setupTest(t *testing.T, seed []notifications.Notification, limit int) (*Dashboard, *notifications.Store) {
	t.Helper()
	src := notifications.NewMemorySource(seed, 0)
	store := notifications.NewStore(src)
	if _, err := store.Fetch(context.Background(), notifications.Query{}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	return New(store, limit), store
}

func setupRouter(d *Dashboard) chi.Router {
	r := chi.NewRouter()
	d.RegisterRoutes(r)
	return r
}

func get(t *testing.T, r http.Handler, path string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s: status %d", path, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("GET %s: content type %q", path, ct)
	}
	return w.Body.String()
}

func TestServeIndex(t *testing.T) {
	d, _ := setupTest(t, notifications.DefaultSeed(""), 0)
	body := get(t, setupRouter(d), "/")

	for _, want := range []string{
		"<!DOCTYPE html>",
		"/ws/notifications",
		`<span class="badge">4</span>`,
		"系统维护通知",
		`class="tag tag-warning">High</span>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestServeDropdownReflectsStore(t *testing.T) {
	d, store := setupTest(t, notifications.DefaultSeed(""), 0)
	r := setupRouter(d)

	store.MarkAllAsRead(context.Background())
	body := get(t, r, "/dashboard/dropdown")

	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("fragment should not contain the page shell")
	}
	if strings.Contains(body, `class="badge"`) {
		t.Error("badge should be hidden with nothing unread")
	}
	if !strings.Contains(body, `data-cmd="mark_all_read" disabled`) {
		t.Error("mark all should be disabled with nothing unread")
	}
}

func TestDropdownLimitAndEmpty(t *testing.T) {
	d, _ := setupTest(t, notifications.DefaultSeed(""), 2)
	body := get(t, setupRouter(d), "/dashboard/dropdown")
	if got := strings.Count(body, "<li class="); got != 2 {
		t.Errorf("rendered %d rows, want 2", got)
	}
	if !strings.Contains(body, "View all") {
		t.Error("expected View all link when rows are cut")
	}

	d, _ = setupTest(t, nil, 0)
	body = get(t, setupRouter(d), "/dashboard/dropdown")
	if !strings.Contains(body, "No notifications") {
		t.Error("expected empty state")
	}
}

func TestMarkdownContent(t *testing.T) {
	now := time.Now()
	seed := []notifications.Notification{{
		ID:        "md",
		Title:     "Release",
		Content:   "Version **2.0** is out. <script>alert(1)</script>",
		Type:      notifications.TypeSystem,
		Priority:  notifications.PriorityLow,
		Status:    notifications.StatusUnread,
		CreatedAt: now,
		UpdatedAt: now,
	}}
	d, _ := setupTest(t, seed, 0)
	body := get(t, setupRouter(d), "/dashboard/dropdown")

	if !strings.Contains(body, "<strong>2.0</strong>") {
		t.Error("markdown emphasis not rendered")
	}
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("raw HTML in content must not pass through")
	}
	if strings.Contains(body, "tag-default") {
		t.Error("low priority rows carry no tag")
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 1, 21, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-time.Minute), "1 minute ago"},
		{now.Add(-5 * time.Minute), "5 minutes ago"},
		{now.Add(-3 * time.Hour), "3 hours ago"},
		{now.Add(-48 * time.Hour), "2 days ago"},
	}
	for _, tt := range tests {
		if got := relativeTimeFrom(tt.at, now); got != tt.want {
			t.Errorf("relativeTimeFrom(%v) = %q, want %q", now.Sub(tt.at), got, tt.want)
		}
	}
}
