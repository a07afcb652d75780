package notifications

import (
	"math"
	"net/url"
	"testing"
	"time"
)

func TestComputeStatsCoversEveryEnumValue(t *testing.T) {
	stats := ComputeStats(nil)
	if stats.Total != 0 || stats.Unread != 0 {
		t.Errorf("empty stats = %+v", stats)
	}
	for _, typ := range AllTypes() {
		if v, ok := stats.ByType[typ]; !ok || v != 0 {
			t.Errorf("ByType[%s] = %d, %v; want 0, true", typ, v, ok)
		}
	}
	for _, p := range AllPriorities() {
		if v, ok := stats.ByPriority[p]; !ok || v != 0 {
			t.Errorf("ByPriority[%s] = %d, %v; want 0, true", p, v, ok)
		}
	}
}

func TestComputeStatsSeed(t *testing.T) {
	stats := ComputeStats(DefaultSeed(""))

	if stats.Total != 5 || stats.Unread != 4 {
		t.Errorf("Total/Unread = %d/%d, want 5/4", stats.Total, stats.Unread)
	}
	wantType := map[Type]int{
		TypeSystem: 1, TypeKnowledge: 0, TypeAudit: 1, TypeComment: 1,
		TypeLike: 1, TypeFollow: 0, TypeReminder: 1,
	}
	for typ, want := range wantType {
		if got := stats.ByType[typ]; got != want {
			t.Errorf("ByType[%s] = %d, want %d", typ, got, want)
		}
	}
	wantPriority := map[Priority]int{PriorityLow: 2, PriorityMedium: 2, PriorityHigh: 1, PriorityUrgent: 0}
	for p, want := range wantPriority {
		if got := stats.ByPriority[p]; got != want {
			t.Errorf("ByPriority[%s] = %d, want %d", p, got, want)
		}
	}
}

func TestPriorityRank(t *testing.T) {
	if !(PriorityLow.Rank() < PriorityMedium.Rank() &&
		PriorityMedium.Rank() < PriorityHigh.Rank() &&
		PriorityHigh.Rank() < PriorityUrgent.Rank()) {
		t.Error("priorities are not ordered low to urgent")
	}
	if Priority("extreme").Rank() != -1 {
		t.Error("unknown priority should rank -1")
	}
}

func ids(list []Notification) []string {
	out := make([]string, len(list))
	for i, n := range list {
		out[i] = n.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQueryApply(t *testing.T) {
	seed := DefaultSeed("")

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"no filter", Query{}, []string{"1", "2", "3", "4", "5"}},
		{"by type", Query{Type: TypeAudit}, []string{"2"}},
		{"by status", Query{Status: StatusRead}, []string{"4"}},
		{"by priority", Query{Priority: PriorityLow}, []string{"3", "4"}},
		{"and of filters", Query{Priority: PriorityMedium, Status: StatusUnread}, []string{"2", "5"}},
		{"no match", Query{Type: TypeFollow}, []string{}},
		{"start date", Query{StartDate: time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)}, []string{"1", "2", "3"}},
		{"end date inclusive", Query{EndDate: time.Date(2025, 1, 19, 16, 20, 0, 0, time.UTC)}, []string{"4", "5"}},
		{"page 1", Query{PageSize: 2}, []string{"1", "2"}},
		{"page 3", Query{Page: 3, PageSize: 2}, []string{"5"}},
		{"page past end", Query{Page: 4, PageSize: 2}, []string{}},
		{"huge page", Query{Page: 1 << 62, PageSize: 4}, []string{}},
		{"huge page size", Query{PageSize: math.MaxInt}, []string{"1", "2", "3", "4", "5"}},
		{"second page of huge size", Query{Page: 2, PageSize: math.MaxInt}, []string{}},
		{"both huge", Query{Page: math.MaxInt, PageSize: math.MaxInt}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(tt.query.Apply(seed))
			if !equalIDs(got, tt.want) {
				t.Errorf("Apply = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQueryApplySortsAndIsStable(t *testing.T) {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	list := []Notification{
		{ID: "old", CreatedAt: ts.Add(-time.Hour)},
		{ID: "tie-a", CreatedAt: ts},
		{ID: "new", CreatedAt: ts.Add(time.Hour)},
		{ID: "tie-b", CreatedAt: ts},
	}

	got := ids(Query{}.Apply(list))
	want := []string{"new", "tie-a", "tie-b", "old"}
	if !equalIDs(got, want) {
		t.Errorf("Apply = %v, want %v", got, want)
	}
	if list[0].ID != "old" {
		t.Error("Apply reordered its input")
	}
}

func TestParseQuery(t *testing.T) {
	v := url.Values{}
	v.Set("type", "system")
	v.Set("status", "unread")
	v.Set("priority", "high")
	v.Set("start_date", "2025-01-19T00:00:00Z")
	v.Set("end_date", "2025-01-21T00:00:00Z")
	v.Set("page", "2")
	v.Set("page_size", "5")

	q, err := ParseQuery(v)
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if q.Type != TypeSystem || q.Status != StatusUnread || q.Priority != PriorityHigh {
		t.Errorf("enum fields = %q %q %q", q.Type, q.Status, q.Priority)
	}
	if q.StartDate.Day() != 19 || q.EndDate.Day() != 21 {
		t.Errorf("dates = %v .. %v", q.StartDate, q.EndDate)
	}
	if q.Page != 2 || q.PageSize != 5 {
		t.Errorf("paging = %d/%d", q.Page, q.PageSize)
	}
}

func TestParseQueryErrors(t *testing.T) {
	tests := map[string]url.Values{
		"bad type":      {"type": {"spam"}},
		"bad status":    {"status": {"deleted"}},
		"bad priority":  {"priority": {"meh"}},
		"bad date":      {"start_date": {"yesterday"}},
		"reverse range": {"start_date": {"2025-01-21T00:00:00Z"}, "end_date": {"2025-01-19T00:00:00Z"}},
		"bad page":      {"page": {"two"}},
		"negative page": {"page_size": {"-1"}},
	}
	for name, v := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseQuery(v); err == nil {
				t.Error("expected error")
			}
		})
	}
}
