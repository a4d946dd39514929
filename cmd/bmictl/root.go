package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

const (
	defaultServer  = "http://localhost:8080"
	requestTimeout = 10 * time.Second
)

type rootOptions struct {
	server string
	token  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "bmictl",
		Short: "Body mass index calculator and BMI API client",
		Long: `bmictl calculates body mass index and talks to a BMI API server.

LOCAL:

  $ bmictl calc --weight 70 --height 1.75     # Validate and classify

REMOTE (needs a bearer token from /api/auth/login):

  $ bmictl history --take 10                  # Newest ten measurements
  $ bmictl history --asc --skip 5             # Oldest first, skipping five
  $ bmictl stats                              # Monthly averages

The server and token default to $BMI_SERVER_URL and $BMI_TOKEN.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.server, "server", envOr("BMI_SERVER_URL", defaultServer),
		"base URL of the BMI API")
	cmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("BMI_TOKEN"),
		"bearer token for the BMI API")

	cmd.AddCommand(newCalcCmd(), newHistoryCmd(opts), newStatsCmd(opts))
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
