package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrUnavailable means the backing source could not be reached.
	ErrUnavailable = errors.New("notification source unavailable")
	// ErrNotFound means the targeted notification does not exist.
	ErrNotFound = errors.New("notification not found")
)

// KindOf maps an error to the kind reported in a failed ActionResult.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnavailable), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return KindUnavailable
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}

// Source is the backend that owns the authoritative notification
// collection for one user. Mutations on a missing id are not errors.
type Source interface {
	List(ctx context.Context) ([]Notification, error)
	MarkRead(ctx context.Context, id string, at time.Time) error
	MarkAllRead(ctx context.Context, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// MemorySource is a Source over an in-memory slice with simulated latency on List.
type MemorySource struct {
	mu      sync.Mutex
	items   []Notification
	latency time.Duration
	// failing makes every call return ErrUnavailable; used to exercise failure paths.
	failing bool
}

// NewMemorySource creates a MemorySource holding copies of seed.
func NewMemorySource(seed []Notification, latency time.Duration) *MemorySource {
	items := make([]Notification, len(seed))
	for i, n := range seed {
		items[i] = n.clone()
	}
	return &MemorySource{items: items, latency: latency}
}

// SetFailing toggles simulated unavailability.
func (m *MemorySource) SetFailing(failing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = failing
}

// List returns all notifications in insertion order after the configured latency.
func (m *MemorySource) List(ctx context.Context) ([]Notification, error) {
	if err := wait(ctx, m.latency); err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, fmt.Errorf("listing notifications: %w", ErrUnavailable)
	}
	out := make([]Notification, len(m.items))
	for i, n := range m.items {
		out[i] = n.clone()
	}
	return out, nil
}

// MarkRead marks one notification read.
func (m *MemorySource) MarkRead(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return fmt.Errorf("marking %s read: %w", id, ErrUnavailable)
	}
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].markRead(at)
			break
		}
	}
	return nil
}

// MarkAllRead marks every unread notification read.
func (m *MemorySource) MarkAllRead(ctx context.Context, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return fmt.Errorf("marking all read: %w", ErrUnavailable)
	}
	for i := range m.items {
		m.items[i].markRead(at)
	}
	return nil
}

// Delete removes a notification.
func (m *MemorySource) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return fmt.Errorf("deleting %s: %w", id, ErrUnavailable)
	}
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			break
		}
	}
	return nil
}

// Delayed wraps src so that List waits d before reading. Mutations are not delayed.
// A non-positive d returns src unchanged.
func Delayed(src Source, d time.Duration) Source {
	if d <= 0 {
		return src
	}
	return &delayedSource{Source: src, delay: d}
}

type delayedSource struct {
	Source
	delay time.Duration
}

func (d *delayedSource) List(ctx context.Context) ([]Notification, error) {
	if err := wait(ctx, d.delay); err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return d.Source.List(ctx)
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
