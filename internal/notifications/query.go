package notifications

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// Matches reports whether n passes every filter set on q. Paging is ignored.
func (q Query) Matches(n Notification) bool {
	if q.Type != "" && n.Type != q.Type {
		return false
	}
	if q.Status != "" && n.Status != q.Status {
		return false
	}
	if q.Priority != "" && n.Priority != q.Priority {
		return false
	}
	if !q.StartDate.IsZero() && n.CreatedAt.Before(q.StartDate) {
		return false
	}
	if !q.EndDate.IsZero() && n.CreatedAt.After(q.EndDate) {
		return false
	}
	return true
}

// Apply filters list, sorts it newest first and pages it. The input is not
// modified. Records with equal CreatedAt keep their input order.
func (q Query) Apply(list []Notification) []Notification {
	result := make([]Notification, 0, len(list))
	for _, n := range list {
		if q.Matches(n) {
			result = append(result, n)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if q.PageSize <= 0 {
		return result
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	// Check the page count before multiplying; huge Page or PageSize values
	// would overflow start.
	pages := len(result) / q.PageSize
	if len(result)%q.PageSize != 0 {
		pages++
	}
	if page > pages {
		return []Notification{}
	}
	start := (page - 1) * q.PageSize
	end := start + min(q.PageSize, len(result)-start)
	return result[start:end]
}

// Validate checks that every set field holds a known value.
func (q Query) Validate() error {
	if q.Type != "" && !q.Type.Valid() {
		return fmt.Errorf("invalid type %q", q.Type)
	}
	if q.Status != "" && !q.Status.Valid() {
		return fmt.Errorf("invalid status %q", q.Status)
	}
	if q.Priority != "" && !q.Priority.Valid() {
		return fmt.Errorf("invalid priority %q", q.Priority)
	}
	if !q.StartDate.IsZero() && !q.EndDate.IsZero() && q.EndDate.Before(q.StartDate) {
		return fmt.Errorf("end_date is before start_date")
	}
	if q.Page < 0 || q.PageSize < 0 {
		return fmt.Errorf("page and page_size must be non-negative")
	}
	return nil
}

// ParseQuery builds a Query from URL parameters: type, status, priority,
// start_date, end_date (RFC 3339), page and page_size.
func ParseQuery(v url.Values) (Query, error) {
	q := Query{
		Type:     Type(v.Get("type")),
		Status:   Status(v.Get("status")),
		Priority: Priority(v.Get("priority")),
	}

	var err error
	if s := v.Get("start_date"); s != "" {
		if q.StartDate, err = time.Parse(time.RFC3339, s); err != nil {
			return Query{}, fmt.Errorf("parsing start_date: %w", err)
		}
	}
	if s := v.Get("end_date"); s != "" {
		if q.EndDate, err = time.Parse(time.RFC3339, s); err != nil {
			return Query{}, fmt.Errorf("parsing end_date: %w", err)
		}
	}
	if s := v.Get("page"); s != "" {
		if q.Page, err = strconv.Atoi(s); err != nil {
			return Query{}, fmt.Errorf("parsing page: %w", err)
		}
	}
	if s := v.Get("page_size"); s != "" {
		if q.PageSize, err = strconv.Atoi(s); err != nil {
			return Query{}, fmt.Errorf("parsing page_size: %w", err)
		}
	}

	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}
