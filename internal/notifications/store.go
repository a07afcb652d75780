package notifications

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Action names a mutation kind.
type Action string

const (
	ActionMarkRead    Action = "mark_read"
	ActionMarkAllRead Action = "mark_all_read"
	ActionDelete      Action = "delete"
)

// ActionEvent describes the outcome of one mutation.
type ActionEvent struct {
	Action         Action
	NotificationID string
	Result         ActionResult
	At             time.Time
}

// Recorder receives every mutation outcome.
type Recorder interface {
	Record(ctx context.Context, ev ActionEvent) error
}

// Option configures a Store.
type Option func(*Store)

// WithRecorder sends every mutation outcome to r.
func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for failures and, when verbose, for every operation.
func WithLogger(l *log.Logger, verbose bool) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
		s.verbose = verbose
	}
}

// journalEntry is a mutation that a fetch still in flight may not have seen.
type journalEntry struct {
	version uint64
	action  Action
	id      string
	at      time.Time
}

func (e journalEntry) replay(list []Notification) []Notification {
	switch e.action {
	case ActionMarkRead:
		for i := range list {
			if list[i].ID == e.id {
				list[i].markRead(e.at)
				break
			}
		}
	case ActionMarkAllRead:
		for i := range list {
			list[i].markRead(e.at)
		}
	case ActionDelete:
		for i := range list {
			if list[i].ID == e.id {
				return append(list[:i], list[i+1:]...)
			}
		}
	}
	return list
}

// Store owns the working set of notifications for one session and keeps
// its statistics consistent with it. Safe for concurrent use.
//
// Mutations that happen while a fetch is in flight are journalled and
// replayed onto the fetched records, so a fetch never discards them. When
// fetches overlap, the most recently issued one wins.
type Store struct {
	src      Source
	recorder Recorder
	now      func() time.Time
	logger   *log.Logger
	verbose  bool

	mu         sync.Mutex
	items      []Notification
	stats      Stats
	version    uint64
	inflight   int
	fetchSeq   uint64
	appliedSeq uint64
	journal    []journalEntry
	subs       map[int]chan Snapshot
	nextSub    int
}

// NewStore creates a Store over src with an empty working set.
func NewStore(src Source, opts ...Option) *Store {
	s := &Store{
		src:    src,
		now:    time.Now,
		logger: log.Default(),
		items:  []Notification{},
		stats:  ComputeStats(nil),
		subs:   make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch reads the collection from the source, applies q and makes the
// result the new working set. Stats are recomputed over that filtered
// view, not over the whole collection. A fetch that resolves after a newer
// fetch has already been applied returns its result without installing it.
func (s *Store) Fetch(ctx context.Context, q Query) ([]Notification, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	startVersion := s.version
	s.inflight++
	s.publishLocked()
	s.mu.Unlock()

	var all []Notification
	err := guard(func() error {
		var err error
		all, err = s.src.List(ctx)
		return err
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--

	if err != nil {
		s.trimJournalLocked()
		s.publishLocked()
		s.logger.Printf("notifications: fetch failed: %v", err)
		return nil, fmt.Errorf("fetching notifications: %w", err)
	}

	for _, e := range s.journal {
		if e.version > startVersion {
			all = e.replay(all)
		}
	}
	result := q.Apply(all)

	if seq < s.appliedSeq {
		s.trimJournalLocked()
		s.publishLocked()
		s.debugf("fetch #%d superseded by #%d, not applied", seq, s.appliedSeq)
		return cloneAll(result), nil
	}

	s.appliedSeq = seq
	s.items = result
	s.stats = ComputeStats(result)
	s.version++
	s.trimJournalLocked()
	s.publishLocked()
	s.debugf("fetch #%d applied: %d notifications, %d unread", seq, s.stats.Total, s.stats.Unread)
	return cloneAll(result), nil
}

// MarkAsRead marks one notification read. An already read notification or
// an unknown id is a successful no-op.
func (s *Store) MarkAsRead(ctx context.Context, id string) ActionResult {
	at := s.now()
	if err := guard(func() error { return s.src.MarkRead(ctx, id, at) }); err != nil {
		return s.fail(ctx, ActionMarkRead, id, at, "failed to mark as read", err)
	}

	s.mu.Lock()
	affected, found := 0, false
	for i := range s.items {
		if s.items[i].ID == id {
			found = true
			if s.items[i].markRead(at) {
				affected = 1
			}
			break
		}
	}
	s.commitLocked(journalEntry{action: ActionMarkRead, id: id, at: at})
	s.mu.Unlock()

	msg := "marked as read"
	switch {
	case !found:
		msg = "notification not in working set, nothing to do"
	case affected == 0:
		msg = "already read"
	}
	return s.succeed(ctx, ActionMarkRead, id, at, msg, affected)
}

// MarkAllAsRead marks every unread notification read. ReadAt values that
// are already set are kept.
func (s *Store) MarkAllAsRead(ctx context.Context) ActionResult {
	at := s.now()
	if err := guard(func() error { return s.src.MarkAllRead(ctx, at) }); err != nil {
		return s.fail(ctx, ActionMarkAllRead, "", at, "failed to mark all as read", err)
	}

	s.mu.Lock()
	affected := 0
	for i := range s.items {
		if s.items[i].markRead(at) {
			affected++
		}
	}
	s.commitLocked(journalEntry{action: ActionMarkAllRead, at: at})
	s.mu.Unlock()

	return s.succeed(ctx, ActionMarkAllRead, "", at, fmt.Sprintf("marked %d notification(s) as read", affected), affected)
}

// DeleteNotification removes a notification. An unknown id is a successful no-op.
func (s *Store) DeleteNotification(ctx context.Context, id string) ActionResult {
	at := s.now()
	if err := guard(func() error { return s.src.Delete(ctx, id) }); err != nil {
		return s.fail(ctx, ActionDelete, id, at, "failed to delete notification", err)
	}

	s.mu.Lock()
	affected := 0
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			affected = 1
			break
		}
	}
	s.commitLocked(journalEntry{action: ActionDelete, id: id, at: at})
	s.mu.Unlock()

	msg := "deleted"
	if affected == 0 {
		msg = "notification not in working set, nothing to do"
	}
	return s.succeed(ctx, ActionDelete, id, at, msg, affected)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Stats returns the statistics of the current working set.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.clone()
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// Subscribe returns a channel that receives a snapshot after every change,
// and a function that unsubscribes and closes the channel. The channel holds
// at most one pending snapshot; a slow reader only sees the latest state.
// Received snapshots are shared between subscribers and must not be modified.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
}

// commitLocked finishes a successful mutation: recompute, journal, publish.
func (s *Store) commitLocked(e journalEntry) {
	s.version++
	s.stats = ComputeStats(s.items)
	if s.inflight > 0 {
		e.version = s.version
		s.journal = append(s.journal, e)
	}
	s.publishLocked()
}

func (s *Store) trimJournalLocked() {
	if s.inflight == 0 {
		s.journal = nil
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Notifications: cloneAll(s.items),
		Loading:       s.inflight > 0,
		Stats:         s.stats.clone(),
		Version:       s.version,
	}
}

// publishLocked delivers the current state to every subscriber, replacing
// any snapshot the subscriber has not read yet. Sends and closes both
// happen under s.mu, so a channel is never written after it is closed.
func (s *Store) publishLocked() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func (s *Store) succeed(ctx context.Context, action Action, id string, at time.Time, msg string, affected int) ActionResult {
	res := ActionResult{Success: true, Message: msg, Affected: affected}
	s.debugf("%s %s: %s", action, id, msg)
	s.record(ctx, ActionEvent{Action: action, NotificationID: id, Result: res, At: at})
	return res
}

func (s *Store) fail(ctx context.Context, action Action, id string, at time.Time, msg string, err error) ActionResult {
	s.logger.Printf("notifications: %s %s: %v", action, id, err)
	res := ActionResult{Success: false, Message: msg + ": " + err.Error(), Kind: KindOf(err)}
	s.record(ctx, ActionEvent{Action: action, NotificationID: id, Result: res, At: at})
	return res
}

func (s *Store) record(ctx context.Context, ev ActionEvent) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(context.WithoutCancel(ctx), ev); err != nil {
		s.logger.Printf("notifications: recording %s: %v", ev.Action, err)
	}
}

func (s *Store) debugf(format string, args ...any) {
	if s.verbose {
		s.logger.Printf("notifications: "+format, args...)
	}
}

// guard runs fn and turns a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("source panicked: %v", r)
		}
	}()
	return fn()
}

func cloneAll(list []Notification) []Notification {
	out := make([]Notification, len(list))
	for i, n := range list {
		out[i] = n.clone()
	}
	return out
}
