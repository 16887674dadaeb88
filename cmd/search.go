package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/search"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Discover candidates without processing them",
	Long:  "Crawls people search with the configured keywords and prints discovered candidates as JSON. No profiles are scraped and no requests are sent.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate(); err != nil {
			return err
		}

		driver, sessions, err := newBrowserStack()
		if err != nil {
			return err
		}
		defer driver.Close()

		sess, err := sessions.Acquire(ctx)
		if err != nil {
			return eris.Wrap(err, "acquire session")
		}
		defer sess.Close()

		limit := searchLimit
		if limit == 0 {
			limit = cfg.Search.MaxProfiles
		}

		crawler := search.New(driver, cfg.Search)
		results := crawler.Search(ctx, cfg.Search.Keywords, cfg.Search.Locations, limit)

		var candidates []model.Candidate
		for results.Next() {
			candidates = append(candidates, results.Candidate())
		}
		if err := results.Err(); err != nil {
			return eris.Wrap(err, "search crawl")
		}

		zap.L().Info("search complete", zap.Int("candidates", len(candidates)))

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(candidates)
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "max candidates to discover (default from config)")
	rootCmd.AddCommand(searchCmd)
}
