package notifications

import (
	"fmt"
	"os"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// DefaultUserID owns the built-in seed notifications.
const DefaultUserID = "user1"

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func timePtr(t time.Time) *time.Time { return &t }

// DefaultSeed returns the built-in demo notifications for userID.
func DefaultSeed(userID string) []Notification {
	if userID == "" {
		userID = DefaultUserID
	}
	return []Notification{
		{
			ID:         "1",
			Title:      "系统维护通知",
			Content:    "系统将于今晚22:00-24:00进行维护，期间可能影响正常使用",
			Type:       TypeSystem,
			Priority:   PriorityHigh,
			Status:     StatusUnread,
			UserID:     userID,
			CreatedAt:  mustTime("2025-01-20T10:00:00Z"),
			UpdatedAt:  mustTime("2025-01-20T10:00:00Z"),
			ActionURL:  "/system/maintenance",
			ActionText: "查看详情",
		},
		{
			ID:         "2",
			Title:      "知识文档审核通过",
			Content:    "您提交的《React最佳实践指南》已通过审核并发布",
			Type:       TypeAudit,
			Priority:   PriorityMedium,
			Status:     StatusUnread,
			UserID:     userID,
			CreatedAt:  mustTime("2025-01-20T09:30:00Z"),
			UpdatedAt:  mustTime("2025-01-20T09:30:00Z"),
			ActionURL:  "/knowledge/documents/123",
			ActionText: "查看文档",
		},
		{
			ID:         "3",
			Title:      "新的评论",
			Content:    "张三对您的文档《TypeScript进阶教程》发表了评论",
			Type:       TypeComment,
			Priority:   PriorityLow,
			Status:     StatusUnread,
			UserID:     userID,
			CreatedAt:  mustTime("2025-01-20T08:45:00Z"),
			UpdatedAt:  mustTime("2025-01-20T08:45:00Z"),
			ActionURL:  "/knowledge/documents/456#comments",
			ActionText: "查看评论",
		},
		{
			ID:        "4",
			Title:     "文档获得点赞",
			Content:   "您的文档《Vue3组件设计模式》获得了5个新的点赞",
			Type:      TypeLike,
			Priority:  PriorityLow,
			Status:    StatusRead,
			UserID:    userID,
			CreatedAt: mustTime("2025-01-19T16:20:00Z"),
			UpdatedAt: mustTime("2025-01-19T16:20:00Z"),
			ReadAt:    timePtr(mustTime("2025-01-19T18:00:00Z")),
			ActionURL: "/knowledge/documents/789",
		},
		{
			ID:         "5",
			Title:      "定期备份提醒",
			Content:    "建议您定期备份重要的知识文档，确保数据安全",
			Type:       TypeReminder,
			Priority:   PriorityMedium,
			Status:     StatusUnread,
			UserID:     userID,
			CreatedAt:  mustTime("2025-01-19T14:00:00Z"),
			UpdatedAt:  mustTime("2025-01-19T14:00:00Z"),
			ActionURL:  "/settings/backup",
			ActionText: "立即备份",
		},
	}
}

// LoadSeedFile reads seed notifications from a YAML list. Missing ids are
// generated, missing status defaults to unread, and records without an
// owner are assigned to userID.
func LoadSeedFile(path, userID string) ([]Notification, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file %s: %w", path, err)
	}

	var list []Notification
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing seed file %s: %w", path, err)
	}

	seen := make(map[string]bool, len(list))
	for i := range list {
		n := &list[i]
		if n.ID == "" {
			n.ID = uuid.New().String()
		}
		if seen[n.ID] {
			return nil, fmt.Errorf("seed file %s: duplicate id %q", path, n.ID)
		}
		seen[n.ID] = true
		if n.Status == "" {
			n.Status = StatusUnread
		}
		if n.UserID == "" {
			n.UserID = userID
		}
		if n.UpdatedAt.IsZero() {
			n.UpdatedAt = n.CreatedAt
		}
		if !n.Type.Valid() {
			return nil, fmt.Errorf("seed file %s: notification %s has invalid type %q", path, n.ID, n.Type)
		}
		if !n.Priority.Valid() {
			return nil, fmt.Errorf("seed file %s: notification %s has invalid priority %q", path, n.ID, n.Priority)
		}
		if !n.Status.Valid() {
			return nil, fmt.Errorf("seed file %s: notification %s has invalid status %q", path, n.ID, n.Status)
		}
	}
	return list, nil
}

// SeedFiles expands a seed path. Patterns such as seeds/**/*.yml are matched
// with doublestar; a plain path is returned as is. A pattern that matches
// nothing is an error.
func SeedFiles(pattern string) ([]string, error) {
	if !hasMeta(pattern) {
		return []string{pattern}, nil
	}
	if !doublestar.ValidatePathPattern(pattern) {
		return nil, fmt.Errorf("invalid seed pattern %q", pattern)
	}
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expanding seed pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("seed pattern %q matches no files", pattern)
	}
	return matches, nil
}

// LoadSeed loads every file SeedFiles(pattern) yields, in order. Ids must
// be unique across files.
func LoadSeed(pattern, userID string) ([]Notification, error) {
	paths, err := SeedFiles(pattern)
	if err != nil {
		return nil, err
	}

	var all []Notification
	seen := make(map[string]string)
	for _, path := range paths {
		list, err := LoadSeedFile(path, userID)
		if err != nil {
			return nil, err
		}
		for _, n := range list {
			if prev, ok := seen[n.ID]; ok {
				return nil, fmt.Errorf("seed file %s: id %q already defined in %s", path, n.ID, prev)
			}
			seen[n.ID] = path
		}
		all = append(all, list...)
	}
	return all, nil
}

func hasMeta(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
