package notifications

// ComputeStats derives aggregate counts from list. Every type and priority
// has an entry, including those with no occurrences.
func ComputeStats(list []Notification) Stats {
	stats := Stats{
		Total:      len(list),
		ByType:     make(map[Type]int, len(AllTypes())),
		ByPriority: make(map[Priority]int, len(AllPriorities())),
	}
	for _, t := range AllTypes() {
		stats.ByType[t] = 0
	}
	for _, p := range AllPriorities() {
		stats.ByPriority[p] = 0
	}

	for _, n := range list {
		if n.Status == StatusUnread {
			stats.Unread++
		}
		if _, ok := stats.ByType[n.Type]; ok {
			stats.ByType[n.Type]++
		}
		if _, ok := stats.ByPriority[n.Priority]; ok {
			stats.ByPriority[n.Priority]++
		}
	}
	return stats
}

func (s Stats) clone() Stats {
	c := Stats{Total: s.Total, Unread: s.Unread}
	c.ByType = make(map[Type]int, len(s.ByType))
	for k, v := range s.ByType {
		c.ByType[k] = v
	}
	c.ByPriority = make(map[Priority]int, len(s.ByPriority))
	for k, v := range s.ByPriority {
		c.ByPriority[k] = v
	}
	return c
}
