package notifications

import "time"

// Type categorises what a notification is about.
type Type string

const (
	TypeSystem    Type = "system"
	TypeKnowledge Type = "knowledge"
	TypeAudit     Type = "audit"
	TypeComment   Type = "comment"
	TypeLike      Type = "like"
	TypeFollow    Type = "follow"
	TypeReminder  Type = "reminder"
)

// AllTypes returns every notification type in declaration order.
func AllTypes() []Type {
	return []Type{TypeSystem, TypeKnowledge, TypeAudit, TypeComment, TypeLike, TypeFollow, TypeReminder}
}

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	for _, v := range AllTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// Priority indicates how urgent a notification is. Ordered low to urgent.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// AllPriorities returns every priority from lowest to highest.
func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

// Rank returns the position of p in the low→urgent order, or -1 if unknown.
func (p Priority) Rank() int {
	for i, v := range AllPriorities() {
		if v == p {
			return i
		}
	}
	return -1
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool { return p.Rank() >= 0 }

// Status is the read state of a notification.
type Status string

const (
	StatusUnread Status = "unread"
	StatusRead   Status = "read"
	// StatusArchived is accepted in data and filters; no operation moves a record into it.
	StatusArchived Status = "archived"
)

// AllStatuses returns every status.
func AllStatuses() []Status {
	return []Status{StatusUnread, StatusRead, StatusArchived}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, v := range AllStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

// Notification is one user-facing alert.
type Notification struct {
	ID         string         `json:"id" yaml:"id"`
	Title      string         `json:"title" yaml:"title"`
	Content    string         `json:"content" yaml:"content"`
	Type       Type           `json:"type" yaml:"type"`
	Priority   Priority       `json:"priority" yaml:"priority"`
	Status     Status         `json:"status" yaml:"status"`
	UserID     string         `json:"userId" yaml:"user_id"`
	CreatedAt  time.Time      `json:"createdAt" yaml:"created_at"`
	UpdatedAt  time.Time      `json:"updatedAt" yaml:"updated_at"`
	ReadAt     *time.Time     `json:"readAt,omitempty" yaml:"read_at,omitempty"`
	ActionURL  string         `json:"actionUrl,omitempty" yaml:"action_url,omitempty"`
	ActionText string         `json:"actionText,omitempty" yaml:"action_text,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// IsUnread reports whether the notification has not been read yet.
func (n Notification) IsUnread() bool { return n.Status == StatusUnread }

// clone returns a copy that shares no mutable state with n.
func (n Notification) clone() Notification {
	c := n
	if n.ReadAt != nil {
		t := *n.ReadAt
		c.ReadAt = &t
	}
	if n.Metadata != nil {
		c.Metadata = make(map[string]any, len(n.Metadata))
		for k, v := range n.Metadata {
			c.Metadata[k] = v
		}
	}
	return c
}

// markRead moves an unread notification to read. ReadAt is only set if it
// was never set before. Returns false when nothing changed.
func (n *Notification) markRead(at time.Time) bool {
	if n.Status != StatusUnread {
		return false
	}
	n.Status = StatusRead
	if n.ReadAt == nil {
		t := at
		n.ReadAt = &t
	}
	n.UpdatedAt = at
	return true
}

// Stats are aggregate counts derived from a working set.
type Stats struct {
	Total      int              `json:"total"`
	Unread     int              `json:"unread"`
	ByType     map[Type]int     `json:"byType"`
	ByPriority map[Priority]int `json:"byPriority"`
}

// Query selects and pages notifications for Fetch. Zero values mean "no filter".
type Query struct {
	Type      Type      `json:"type,omitempty"`
	Status    Status    `json:"status,omitempty"`
	Priority  Priority  `json:"priority,omitempty"`
	StartDate time.Time `json:"startDate,omitempty"`
	EndDate   time.Time `json:"endDate,omitempty"`
	Page      int       `json:"page,omitempty"`
	PageSize  int       `json:"pageSize,omitempty"`
}

// ErrorKind classifies a failed action.
type ErrorKind string

const (
	KindUnavailable ErrorKind = "unavailable"
	KindNotFound    ErrorKind = "not_found"
	KindInternal    ErrorKind = "internal"
)

// ActionResult is returned by every mutation.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// Affected is the number of records whose state changed.
	Affected int       `json:"affected"`
	Kind     ErrorKind `json:"kind,omitempty"`
}

// Snapshot is the observable state of a Store.
type Snapshot struct {
	Notifications []Notification `json:"notifications"`
	Loading       bool           `json:"loading"`
	Stats         Stats          `json:"stats"`
	Version       uint64         `json:"version"`
}
