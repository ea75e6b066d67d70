package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/userdir/internal/smoke"
	"github.com/okian/userdir/pkg/logger"
	"github.com/spf13/cobra"
)

// Default configuration constants.
const (
	defaultBaseURL = "http://localhost:9080"
	defaultTimeout = 10 * time.Second
)

var (
	baseURL string
	timeout time.Duration
	verbose bool
)

func main() {
	cobra.CheckErr(rootCmd.Execute())
}

var rootCmd = &cobra.Command{
	Use:           "userdir-smoke",
	Short:         "Replay the reference user scenario against a running server",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `userdir-smoke sends the reference sequence of requests to a user directory
server and stops at the first response that does not match:

  GET    /user/Nick                    -> 200 Nick/20/Postman
  GET    /user/Zoe                     -> 404 "User not found"
  POST   /user/Zoe/occupation/Artist   -> 201 Zoe/30/Artist       (age=30)
  POST   /user/Zoe/occupation/Artist   -> 400 "User with name Zoe already exists"
  PUT    /user/Paul                    -> 200 Paul/26/Surgeon     (age=26, occupation=Surgeon)
  DELETE /user/Rob                     -> 200 "Rob is deleted."
  GET    /user/Rob                     -> 404 "User not found"

The scenario changes server state, so run it against a freshly started server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Init(); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if verbose {
			_ = logger.SetLevelString("debug")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg := &smoke.Config{
			BaseURL: baseURL,
			Timeout: timeout,
			Verbose: verbose,
		}
		if _, err := smoke.Run(ctx, cfg, smoke.Scenario()); err != nil {
			return fmt.Errorf("smoke test failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&baseURL, "url", "u", defaultBaseURL, "base URL of the service")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", defaultTimeout, "HTTP request timeout")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every step")
}
