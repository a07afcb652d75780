package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/notifcenter/internal/activity"
	"github.com/ziadkadry99/notifcenter/internal/dashboard"
	"github.com/ziadkadry99/notifcenter/internal/notifications"
	"github.com/ziadkadry99/notifcenter/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the notification center server",
	Long:  `Starts the REST API under /api/notifications, the activity log under /api/activity, the snapshot stream at /ws/notifications and the dropdown page at /.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	// A failed initial fetch leaves an empty working set; clients can refetch.
	if _, err := a.store.Fetch(ctx, notifications.Query{}); err != nil {
		log.Printf("serve: initial fetch: %v", err)
	}

	srv := server.New(server.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
	notifications.RegisterRoutes(srv.Router(), a.store, cfg.Store.DropdownLimit)
	if a.activity != nil {
		activity.RegisterRoutes(srv.Router(), a.activity)
	}
	dashboard.New(a.store, cfg.Store.DropdownLimit).RegisterRoutes(srv.Router())

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("serve: shutdown: %v", err)
		}
	}()

	stats := a.store.Stats()
	fmt.Fprintf(os.Stderr, "notifcenter %s starting on port %d\n", Version, cfg.Server.Port)
	fmt.Fprintf(os.Stderr, "  Source: %s (user %s)\n", cfg.Store.Source, cfg.Store.UserID)
	fmt.Fprintf(os.Stderr, "  Notifications: %d (%d unread)\n", stats.Total, stats.Unread)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
