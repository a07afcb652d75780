package notifications

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts notification endpoints under /api/notifications and
// the snapshot stream at /ws/notifications on the given router.
// dropdownLimit is the dropdown row count when the request has no limit;
// zero means DefaultDropdownLimit.
func RegisterRoutes(r chi.Router, store *Store, dropdownLimit int) {
	if dropdownLimit <= 0 {
		dropdownLimit = DefaultDropdownLimit
	}
	r.Route("/api/notifications", func(r chi.Router) {
		r.Get("/", handleFetch(store))
		r.Get("/snapshot", handleSnapshot(store))
		r.Get("/stats", handleStats(store))
		r.Get("/dropdown", handleDropdown(store, dropdownLimit))
		r.Post("/read-all", handleMarkAllRead(store))
		r.Post("/{id}/read", handleMarkRead(store))
		r.Delete("/{id}", handleDelete(store))
	})
	r.Get("/ws/notifications", handleWebSocket(store))
}

func handleFetch(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := ParseQuery(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if _, err := store.Fetch(r.Context(), q); err != nil {
			status := http.StatusInternalServerError
			if KindOf(err) == KindUnavailable {
				status = http.StatusServiceUnavailable
			}
			http.Error(w, err.Error(), status)
			return
		}

		writeJSON(w, http.StatusOK, store.Snapshot())
	}
}

func handleSnapshot(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.Snapshot())
	}
}

func handleStats(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.Stats())
	}
}

func handleDropdown(store *Store, defaultLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = n
		}

		writeJSON(w, http.StatusOK, DropdownView(store.Snapshot(), limit))
	}
}

func handleMarkRead(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		writeResult(w, store.MarkAsRead(r.Context(), id))
	}
}

func handleMarkAllRead(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, store.MarkAllAsRead(r.Context()))
	}
}

func handleDelete(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		writeResult(w, store.DeleteNotification(r.Context(), id))
	}
}

func writeResult(w http.ResponseWriter, res ActionResult) {
	status := http.StatusOK
	if !res.Success {
		switch res.Kind {
		case KindUnavailable:
			status = http.StatusServiceUnavailable
		case KindNotFound:
			status = http.StatusNotFound
		default:
			status = http.StatusInternalServerError
		}
	}
	writeJSON(w, status, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
