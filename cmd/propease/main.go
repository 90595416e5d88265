// PROPEASE CLI - command line client for the PROPEASE real-estate
// marketplace.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Bharath552-bit/Real-Estate-Platform/internal/api"
	"github.com/Bharath552-bit/Real-Estate-Platform/internal/config"
	"github.com/Bharath552-bit/Real-Estate-Platform/internal/session"
)

var (
	verbose bool

	cfg      *config.Config
	logger   zerolog.Logger
	sessions *session.Store
	client   *api.Client
)

var rootCmd = &cobra.Command{
	Use:   "propease",
	Short: "PROPEASE - browse, list and chat about properties",
	Long: `PROPEASE command line client.

Browse and filter property listings, manage your wishlist, post and edit
your own listings, and chat with buyers or sellers.

Environment:
  PROPEASE_API_URL        Backend API base URL (default: http://127.0.0.1:8000/api)
  PROPEASE_CONFIG         Config directory (default: ~/.propease)
  PROPEASE_POLL_INTERVAL  Chat poll interval (default: 5s)`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()

		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(level).
			With().
			Timestamp().
			Logger()

		sessions = session.NewStore(cfg.ConfigDir, logger)
		client = api.NewClient(cfg.APIBaseURL, sessions, logger)
		client.HTTPClient.Timeout = cfg.HTTPTimeout
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var authErr *api.AuthError
		if errors.As(err, &authErr) {
			fmt.Fprintln(os.Stderr, "Your session has expired. Run 'propease login' to sign in again.")
		}
		os.Exit(1)
	}
}

// requireLogin fails fast with a readable message when no session exists.
func requireLogin() error {
	if !sessions.Current().LoggedIn() {
		return errors.New("not logged in. Run 'propease login' first")
	}
	return nil
}
