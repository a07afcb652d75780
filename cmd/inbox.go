package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/notifcenter/internal/notifications"
)

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "Browse notifications interactively",
	Long:  `Opens an interactive list of notifications. Pick one to read or delete it, or mark everything read at once.`,
	RunE:  runInbox,
}

func init() {
	rootCmd.AddCommand(inboxCmd)
}

func runInbox(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if _, err := a.store.Fetch(ctx, notifications.Query{}); err != nil {
		return fmt.Errorf("fetching notifications: %w", err)
	}

	for {
		snap := a.store.Snapshot()
		items := inboxItems(snap)

		sel := promptui.Select{
			Label: fmt.Sprintf("Inbox: %d notification(s), %d unread", snap.Stats.Total, snap.Stats.Unread),
			Items: items,
			Size:  12,
		}
		idx, _, err := sel.Run()
		if err != nil {
			return promptDone(err)
		}

		var res notifications.ActionResult
		switch {
		case idx == 0:
			res = a.store.MarkAllAsRead(ctx)
		case idx == len(items)-1:
			return nil
		default:
			n := snap.Notifications[idx-1]
			printNotification(n)
			act := promptui.Select{
				Label: "Action",
				Items: []string{"Mark as read", "Delete", "Back"},
			}
			choice, _, err := act.Run()
			if err != nil {
				return promptDone(err)
			}
			switch choice {
			case 0:
				res = a.store.MarkAsRead(ctx, n.ID)
			case 1:
				res = a.store.DeleteNotification(ctx, n.ID)
			default:
				continue
			}
		}
		printResult(res)
	}
}

// inboxItems lays out the menu: mark-all first, one row per notification, quit last.
func inboxItems(snap notifications.Snapshot) []string {
	items := make([]string, 0, len(snap.Notifications)+2)
	items = append(items, fmt.Sprintf("Mark all as read (%d unread)", snap.Stats.Unread))
	for _, n := range snap.Notifications {
		items = append(items, inboxLabel(n))
	}
	return append(items, "Quit")
}

func inboxLabel(n notifications.Notification) string {
	marker := " "
	if n.IsUnread() {
		marker = "*"
	}
	tag := ""
	if n.Priority != notifications.PriorityLow {
		tag = " [" + notifications.DisplayForPriority(n.Priority).Label + "]"
	}
	return fmt.Sprintf("%s %s%s  %s", marker, truncate(n.Title, 40), tag, n.CreatedAt.Local().Format("01-02 15:04"))
}

func printNotification(n notifications.Notification) {
	fmt.Println()
	fmt.Printf("  %s\n", n.Title)
	fmt.Printf("  %s\n", strings.Repeat("-", len([]rune(n.Title))))
	fmt.Printf("  %s\n", n.Content)
	fmt.Printf("  Type: %s  Priority: %s  Status: %s\n", n.Type, notifications.DisplayForPriority(n.Priority).Label, n.Status)
	if n.ActionURL != "" {
		text := n.ActionText
		if text == "" {
			text = "Open"
		}
		fmt.Printf("  %s: %s\n", text, n.ActionURL)
	}
	fmt.Println()
}

func printResult(res notifications.ActionResult) {
	if res.Success {
		fmt.Printf("ok: %s\n", res.Message)
		return
	}
	fmt.Printf("failed (%s): %s\n", res.Kind, res.Message)
}

// promptDone treats Ctrl-C and Ctrl-D as a normal exit.
func promptDone(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return nil
	}
	return fmt.Errorf("prompt: %w", err)
}
