package dashboard

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"

	"github.com/ziadkadry99/notifcenter/internal/notifications"
)

// Dashboard serves the notification dropdown as a server-rendered page
// that refreshes itself from the /ws/notifications stream.
type Dashboard struct {
	store *notifications.Store
	limit int
	md    goldmark.Markdown
	tmpl  *template.Template
}

// New creates a Dashboard showing at most limit rows; zero means
// notifications.DefaultDropdownLimit.
func New(store *notifications.Store, limit int) *Dashboard {
	if limit <= 0 {
		limit = notifications.DefaultDropdownLimit
	}
	d := &Dashboard{
		store: store,
		limit: limit,
		md:    newMarkdown(),
	}
	d.tmpl = template.Must(template.New("index").Funcs(template.FuncMap{
		"markdown": d.renderContent,
		"ago":      relativeTime,
	}).Parse(indexTemplate))
	return d
}

// RegisterRoutes mounts the dashboard page and its dropdown fragment.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.ServeIndex)
	r.Get("/dashboard/dropdown", d.ServeDropdown)
}

// ServeIndex renders the full page.
func (d *Dashboard) ServeIndex(w http.ResponseWriter, r *http.Request) {
	d.render(w, "page")
}

// ServeDropdown renders only the dropdown panel, for in-place refresh.
func (d *Dashboard) ServeDropdown(w http.ResponseWriter, r *http.Request) {
	d.render(w, "dropdown")
}

func (d *Dashboard) render(w http.ResponseWriter, name string) {
	view := notifications.DropdownView(d.store.Snapshot(), d.limit)

	var buf bytes.Buffer
	if err := d.tmpl.ExecuteTemplate(&buf, name, view); err != nil {
		log.Printf("dashboard: rendering %s: %v", name, err)
		http.Error(w, "rendering failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// relativeTime formats t the way the dropdown shows timestamps.
func relativeTime(t time.Time) string {
	return relativeTimeFrom(t, time.Now())
}

func relativeTimeFrom(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	case d < 30*24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day")
	default:
		return t.Local().Format("2006-01-02")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
