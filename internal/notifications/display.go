package notifications

// DefaultDropdownLimit is how many rows the dropdown shows before linking to the full list.
const DefaultDropdownLimit = 10

// TypeDisplay is how a notification type is drawn.
type TypeDisplay struct {
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// PriorityDisplay is how a priority tag is drawn.
type PriorityDisplay struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var typeDisplays = map[Type]TypeDisplay{
	TypeSystem:    {Icon: "setting", Color: "#1890ff"},
	TypeKnowledge: {Icon: "info-circle", Color: "#52c41a"},
	TypeAudit:     {Icon: "exclamation-circle", Color: "#fa8c16"},
	TypeComment:   {Icon: "info-circle", Color: "#722ed1"},
	TypeLike:      {Icon: "info-circle", Color: "#eb2f96"},
	TypeFollow:    {Icon: "info-circle", Color: "#13c2c2"},
	TypeReminder:  {Icon: "clock-circle", Color: "#faad14"},
}

var priorityDisplays = map[Priority]PriorityDisplay{
	PriorityLow:    {Label: "Low", Color: "default"},
	PriorityMedium: {Label: "Medium", Color: "processing"},
	PriorityHigh:   {Label: "High", Color: "warning"},
	PriorityUrgent: {Label: "Urgent", Color: "error"},
}

// DisplayForType returns the icon and color for t, falling back to a plain info icon.
func DisplayForType(t Type) TypeDisplay {
	if d, ok := typeDisplays[t]; ok {
		return d
	}
	return TypeDisplay{Icon: "info-circle"}
}

// DisplayForPriority returns the tag label and color for p.
func DisplayForPriority(p Priority) PriorityDisplay {
	if d, ok := priorityDisplays[p]; ok {
		return d
	}
	return PriorityDisplay{Label: string(p), Color: "default"}
}

// DropdownItem is one row of the dropdown.
type DropdownItem struct {
	Notification
	Icon TypeDisplay `json:"icon"`
	// Tag is nil for low priority rows, which are drawn without a tag.
	Tag *PriorityDisplay `json:"tag,omitempty"`
}

// Dropdown is the payload for the notification dropdown panel.
type Dropdown struct {
	Items       []DropdownItem `json:"items"`
	UnreadBadge int            `json:"unreadBadge"`
	// CanMarkAll is true when there is at least one unread notification.
	CanMarkAll bool `json:"canMarkAll"`
	HasMore    bool `json:"hasMore"`
	Loading    bool `json:"loading"`
}

// DropdownView builds the dropdown from snap, showing at most limit rows.
// A non-positive limit uses DefaultDropdownLimit.
func DropdownView(snap Snapshot, limit int) Dropdown {
	if limit <= 0 {
		limit = DefaultDropdownLimit
	}
	rows := snap.Notifications
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	items := make([]DropdownItem, 0, len(rows))
	for _, n := range rows {
		item := DropdownItem{Notification: n, Icon: DisplayForType(n.Type)}
		if n.Priority != PriorityLow {
			tag := DisplayForPriority(n.Priority)
			item.Tag = &tag
		}
		items = append(items, item)
	}

	return Dropdown{
		Items:       items,
		UnreadBadge: snap.Stats.Unread,
		CanMarkAll:  snap.Stats.Unread > 0,
		HasMore:     hasMore,
		Loading:     snap.Loading,
	}
}
