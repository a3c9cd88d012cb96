package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the front page once and store the articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = a.Close(closeCtx)
		}()

		result, err := a.articles.Scrape(ctx)
		fmt.Fprintf(cmd.OutOrStdout(), "found %d articles, stored %d\n", result.Found, result.Stored)
		return err
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}
