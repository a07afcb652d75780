package cmd

import "github.com/spf13/cobra"

var (
	cfgFile string
	envFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "notifcenter",
	Short: "Notification center for a single user session",
	Long: `notifcenter keeps a working set of notifications for one user, derives
unread and per-category statistics from it, and lets you fetch, mark read
and delete notifications over REST, a WebSocket stream or the terminal.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "notifcenter.yml", "config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before NOTIFCENTER_* overrides")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
