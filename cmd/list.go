package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/notifcenter/internal/notifications"
	"github.com/ziadkadry99/notifcenter/internal/progress"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Fetch notifications once and print them",
	Long: `Fetches notifications from the configured source, applies the filters and
prints them newest first together with the unread count.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("type", "", "filter by type: system, knowledge, audit, comment, like, follow, reminder")
	listCmd.Flags().String("status", "", "filter by status: unread, read, archived")
	listCmd.Flags().String("priority", "", "filter by priority: low, medium, high, urgent")
	listCmd.Flags().String("since", "", "only notifications created at or after this time (RFC 3339 or YYYY-MM-DD)")
	listCmd.Flags().String("until", "", "only notifications created at or before this time (RFC 3339 or YYYY-MM-DD)")
	listCmd.Flags().Int("page", 0, "page number, 1-based")
	listCmd.Flags().Int("page-size", 0, "page size (0 lists everything)")
	listCmd.Flags().Bool("json", false, "output the snapshot as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	stop := progress.Spin(progress.NewReporter(os.Stderr), "Fetching notifications", 100*time.Millisecond)
	_, err = a.store.Fetch(cmd.Context(), q)
	stop()
	if err != nil {
		return fmt.Errorf("fetching notifications: %w", err)
	}

	snap := a.store.Snapshot()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	printNotificationTable(os.Stdout, snap)
	return nil
}

func queryFromFlags(cmd *cobra.Command) (notifications.Query, error) {
	var q notifications.Query
	typ, _ := cmd.Flags().GetString("type")
	status, _ := cmd.Flags().GetString("status")
	priority, _ := cmd.Flags().GetString("priority")
	q.Type = notifications.Type(typ)
	q.Status = notifications.Status(status)
	q.Priority = notifications.Priority(priority)
	q.Page, _ = cmd.Flags().GetInt("page")
	q.PageSize, _ = cmd.Flags().GetInt("page-size")

	var err error
	if s, _ := cmd.Flags().GetString("since"); s != "" {
		if q.StartDate, err = parseDateFlag(s, false); err != nil {
			return q, fmt.Errorf("--since: %w", err)
		}
	}
	if s, _ := cmd.Flags().GetString("until"); s != "" {
		if q.EndDate, err = parseDateFlag(s, true); err != nil {
			return q, fmt.Errorf("--until: %w", err)
		}
	}

	if err := q.Validate(); err != nil {
		return q, err
	}
	return q, nil
}

// parseDateFlag accepts RFC 3339 or a bare date. A bare date used as an
// upper bound covers the whole day.
func parseDateFlag(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither RFC 3339 nor YYYY-MM-DD", s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func printNotificationTable(out io.Writer, snap notifications.Snapshot) {
	if len(snap.Notifications) == 0 {
		fmt.Fprintln(out, "No notifications.")
		return
	}

	rows := make([][]string, 0, len(snap.Notifications))
	for _, n := range snap.Notifications {
		status := string(n.Status)
		if n.IsUnread() {
			status = "* unread"
		}
		rows = append(rows, []string{
			n.ID,
			string(n.Type),
			notifications.DisplayForPriority(n.Priority).Label,
			status,
			n.CreatedAt.Local().Format("2006-01-02 15:04"),
			truncate(n.Title, 40),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("ID", "TYPE", "PRIORITY", "STATUS", "CREATED", "TITLE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2:
				return priorityStyle(snap.Notifications[row].Priority)
			case col == 3 && snap.Notifications[row].IsUnread():
				return unreadStyle
			default:
				return cellStyle
			}
		})
	fmt.Fprintln(out, t.Render())

	fmt.Fprintf(out, "%d notification(s), %d unread\n", snap.Stats.Total, snap.Stats.Unread)
}
