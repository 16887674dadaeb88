package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/internal/connect"
	"github.com/sells-group/outreach-cli/internal/pipeline"
	"github.com/sells-group/outreach-cli/internal/scrape"
	"github.com/sells-group/outreach-cli/internal/search"
	"github.com/sells-group/outreach-cli/internal/summarize"
	anthropicpkg "github.com/sells-group/outreach-cli/pkg/anthropic"
)

var runPlanPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full outreach pipeline",
	Long:  "Logs into LinkedIn, crawls people search for candidates, then scrapes, scores, summarizes, and connects with each profile up to the configured budget.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if runPlanPath != "" {
			plan, err := config.LoadPlan(runPlanPath)
			if err != nil {
				return err
			}
			cfg.ApplyPlan(plan)
			zap.L().Info("plan applied",
				zap.String("file", runPlanPath),
				zap.Strings("keywords", cfg.Search.Keywords),
			)
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		leadStore, err := initLeadStore(ctx)
		if err != nil {
			return err
		}
		defer leadStore.Close()

		runStore, err := initRunStore()
		if err != nil {
			return err
		}
		if runStore != nil {
			defer runStore.Close()
		}

		driver, sessions, err := newBrowserStack()
		if err != nil {
			return err
		}
		defer driver.Close()

		anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)

		p := pipeline.New(
			cfg,
			sessions,
			crawlerSearcher{crawler: search.New(driver, cfg.Search)},
			scrape.NewScraper(driver),
			summarize.New(anthropicClient, cfg.Anthropic, cfg.Owner.Bio),
			connect.NewActor(driver, cfg.Run.TestMode),
			leadStore,
			runStore,
		)

		result, err := p.Run(ctx)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		zap.L().Info("run complete",
			zap.Int("discovered", result.Discovered),
			zap.Int("processed", result.Processed),
			zap.Int("sent", result.Sent),
			zap.Int("skipped", result.Skipped),
			zap.Int("failed", result.Failed),
			zap.Float64("avg_score", result.AvgScore),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	runCmd.Flags().StringVar(&runPlanPath, "plan", "", "YAML search plan overriding the configured search section")
	rootCmd.AddCommand(runCmd)
}
