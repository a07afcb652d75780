package cmd

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ziadkadry99/notifcenter/internal/notifications"
)

var (
	colorGray   = lipgloss.Color("245")
	colorBlue   = lipgloss.Color("33")
	colorOrange = lipgloss.Color("208")
	colorRed    = lipgloss.Color("196")

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	unreadStyle = cellStyle.Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(colorGray)
)

// priorityStyle colors the priority column the way the dashboard colors its tags.
func priorityStyle(p notifications.Priority) lipgloss.Style {
	switch p {
	case notifications.PriorityUrgent:
		return cellStyle.Bold(true).Foreground(colorRed)
	case notifications.PriorityHigh:
		return cellStyle.Foreground(colorOrange)
	case notifications.PriorityMedium:
		return cellStyle.Foreground(colorBlue)
	default:
		return cellStyle.Foreground(colorGray)
	}
}
