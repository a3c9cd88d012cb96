package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"headlines/config"

	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

// rootCmd serves the site when run without a subcommand
var rootCmd = &cobra.Command{
	Use:   "headlines",
	Short: "Scrape news headlines into MongoDB and browse them in the browser",
	Long: `headlines fetches the New York Times front page, stores every article
summary it finds in MongoDB, and serves them as web pages where they can be
saved and annotated with notes.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFiles, err := cmd.Flags().GetStringSlice("env-file")
		if err != nil {
			return err
		}
		if err := config.LoadDotEnv(envFiles...); err != nil {
			return err
		}

		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
		slog.SetDefault(logger)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringSlice("env-file", nil, "dotenv files to load (default .env)")
	rootCmd.Flags().String("port", "", "port to listen on (overrides PORT)")
}
