package pipeline

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/browser"
	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/internal/connect"
	"github.com/sells-group/outreach-cli/internal/leads"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/scorer"
	"github.com/sells-group/outreach-cli/internal/store"
)

// Sessions acquires an authenticated browsing session.
type Sessions interface {
	Acquire(ctx context.Context) (*browser.Session, error)
}

// Candidates is the lazy candidate sequence produced by a search.
type Candidates interface {
	Next() bool
	Candidate() model.Candidate
	Err() error
}

// Searcher starts a candidate crawl.
type Searcher interface {
	Search(ctx context.Context, keywords, locations []string, maxResults int) Candidates
}

// Scraper extracts one profile.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*model.Profile, error)
}

// Summarizer generates the profile summary and connection note.
type Summarizer interface {
	Summarize(ctx context.Context, p *model.Profile) (string, error)
	CraftNote(ctx context.Context, p *model.Profile) (string, error)
}

// Connector attempts the connection request.
type Connector interface {
	Connect(ctx context.Context, url, note string, state model.ConnectionState) (model.ConnectionOutcome, error)
}

// Pipeline drives the end-to-end run: acquire session, pull candidates, then
// scrape, score, summarize, connect, and persist strictly sequentially, one
// profile at a time, under the MaxProfiles budget.
type Pipeline struct {
	cfg        *config.Config
	sessions   Sessions
	searcher   Searcher
	scraper    Scraper
	summarizer Summarizer
	connector  Connector
	leads      leads.Store
	runs       store.Store
	log        *zap.Logger
}

// New creates a Pipeline with all dependencies. The runs store may be nil
// when run history is disabled.
func New(
	cfg *config.Config,
	sessions Sessions,
	searcher Searcher,
	scraper Scraper,
	summarizer Summarizer,
	connector Connector,
	leadStore leads.Store,
	runStore store.Store,
) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		sessions:   sessions,
		searcher:   searcher,
		scraper:    scraper,
		summarizer: summarizer,
		connector:  connector,
		leads:      leadStore,
		runs:       runStore,
		log:        zap.L().Named("pipeline"),
	}
}

// Run executes one full pass. Authentication failure is fatal and aborts
// before any candidate is touched; per-profile failures are logged, recorded
// best-effort, and never stop the run.
func (p *Pipeline) Run(ctx context.Context) (*model.RunResult, error) {
	sess, err := p.sessions.Acquire(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: acquire session")
	}
	defer sess.Close()

	var runID string
	if p.runs != nil {
		run, rerr := p.runs.CreateRun(ctx,
			strings.Join(p.cfg.Search.Keywords, ","),
			strings.Join(p.cfg.Search.Locations, ","))
		if rerr != nil {
			p.log.Warn("run history unavailable", zap.Error(rerr))
		} else {
			runID = run.ID
		}
	}

	result := &model.RunResult{}
	budget := p.cfg.Search.MaxProfiles

	cands := p.searcher.Search(ctx, p.cfg.Search.Keywords, p.cfg.Search.Locations, budget)
	var scoreSum float64
	for result.Processed < budget && cands.Next() {
		cand := cands.Candidate()
		result.Discovered++

		rec := p.processOne(ctx, cand, result)
		if ctx.Err() != nil {
			break
		}
		scoreSum += rec.PopularityScore

		if _, uerr := p.leads.Upsert(ctx, rec); uerr != nil {
			p.log.Error("lead upsert failed", zap.String("url", cand.URL), zap.Error(uerr))
			result.Failed++
		}

		// A completed attempt, successful or not, consumes budget.
		result.Processed++
	}
	if serr := cands.Err(); serr != nil && ctx.Err() == nil {
		p.log.Warn("search ended early", zap.Error(serr))
	}
	if result.Processed > 0 {
		result.AvgScore = scoreSum / float64(result.Processed)
	}

	p.finishRun(runID, result, ctx.Err())

	p.log.Info("run complete",
		zap.Int("discovered", result.Discovered),
		zap.Int("processed", result.Processed),
		zap.Int("sent", result.Sent),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// processOne runs every stage for a single candidate, swallowing recoverable
// failures so partial work still produces a row.
func (p *Pipeline) processOne(ctx context.Context, cand model.Candidate, result *model.RunResult) *model.LeadRecord {
	log := p.log.With(zap.String("url", cand.URL))

	profile, err := p.scraper.Scrape(ctx, cand.URL)
	if err != nil || profile == nil {
		log.Warn("scrape failed", zap.Error(err))
		result.Failed++
		return &model.LeadRecord{
			Profile:          model.Profile{URL: cand.URL, Incomplete: true},
			ConnectionStatus: "scrape_failed",
		}
	}

	rec := &model.LeadRecord{
		Profile:         *profile,
		PopularityScore: scorer.Popularity(profile, p.cfg.Search.SeniorityKeywords),
	}

	if summary, serr := p.summarizer.Summarize(ctx, profile); serr != nil {
		log.Warn("summarize failed", zap.Error(serr))
	} else {
		rec.Summary = summary
	}

	note, nerr := p.summarizer.CraftNote(ctx, profile)
	if nerr != nil {
		// Without a note there is nothing worth sending; record the miss
		// and move on.
		log.Warn("note crafting failed, skipping connect", zap.Error(nerr))
		rec.ConnectionStatus = model.Failed("note generation failed").String()
		result.Failed++
		return rec
	}
	rec.ConnectionNote = connect.TruncateNote(note)

	outcome, cerr := p.connector.Connect(ctx, cand.URL, note, cand.ConnectionState)
	if cerr != nil && ctx.Err() == nil {
		log.Warn("connect attempt errored", zap.Error(cerr))
	}
	rec.ConnectSent = outcome.RequestSent()
	rec.ConnectionStatus = outcome.String()

	switch outcome.Kind {
	case model.OutcomeSent:
		result.Sent++
	case model.OutcomeSkippedTestMode, model.OutcomeAlreadyConnected:
		result.Skipped++
	default:
		result.Failed++
	}

	log.Info("profile processed",
		zap.Float64("score", rec.PopularityScore),
		zap.String("outcome", rec.ConnectionStatus),
	)
	return rec
}

func (p *Pipeline) finishRun(runID string, result *model.RunResult, runErr error) {
	if p.runs == nil || runID == "" {
		return
	}
	status := model.RunStatusComplete
	if runErr != nil {
		status = model.RunStatusFailed
		result.Error = runErr.Error()
	}
	// Use a fresh context: the run row should still be finalized when the
	// run itself was canceled.
	if err := p.runs.UpdateRunResult(context.Background(), runID, status, result); err != nil {
		p.log.Warn("finalize run history failed", zap.Error(err))
	}
}
