package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/browser"
	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/internal/model"
)

// Crawler produces a deduplicated, filtered, ordered sequence of candidates
// from paginated people search. Candidates whose card reads "Message" are
// already connected and excluded by policy; unreadable button labels are kept
// as unknown, which deliberately risks re-inviting a connected contact rather
// than dropping a reachable one.
type Crawler struct {
	driver browser.Driver
	cfg    config.SearchConfig
	log    *zap.Logger
}

// New creates a search crawler over a ready session driver.
func New(d browser.Driver, cfg config.SearchConfig) *Crawler {
	return &Crawler{driver: d, cfg: cfg, log: zap.L().Named("search")}
}

// Search starts a crawl and returns its candidate sequence. The sequence is
// lazy, finite, and non-restartable: pages are fetched as the caller pulls.
func (c *Crawler) Search(ctx context.Context, keywords, locations []string, maxResults int) *Results {
	return &Results{
		ctx:        ctx,
		crawler:    c,
		keywords:   keywords,
		locations:  locations,
		maxResults: maxResults,
		seen:       make(map[string]bool),
		page:       1,
	}
}

// Results iterates candidates in discovery order (page-major, then on-page
// order). Usage mirrors a database row iterator:
//
//	res := crawler.Search(ctx, kw, loc, 25)
//	for res.Next() {
//	    c := res.Candidate()
//	    ...
//	}
//	if err := res.Err(); err != nil { ... }
type Results struct {
	ctx     context.Context
	crawler *Crawler

	keywords   []string
	locations  []string
	maxResults int

	seen    map[string]bool
	buf     []model.Candidate
	cur     model.Candidate
	emitted int

	page     int
	round    int
	stagnant int

	done bool
	err  error
}

// Next advances to the next candidate, fetching and scrolling pages as
// needed. It returns false when the crawl is exhausted or failed.
func (r *Results) Next() bool {
	for len(r.buf) == 0 {
		if r.done || r.err != nil || r.ctx.Err() != nil {
			return false
		}
		r.fill()
	}
	r.cur = r.buf[0]
	r.buf = r.buf[1:]
	return true
}

// Candidate returns the candidate produced by the last successful Next.
func (r *Results) Candidate() model.Candidate { return r.cur }

// Err returns the first error encountered during the crawl, if any.
func (r *Results) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.ctx.Err()
}

// fill runs exactly one scroll-and-extract round. Total rounds are bounded by
// maxPages*scrollRounds regardless of what the page does, so the crawl can
// never livelock.
func (r *Results) fill() {
	cfg := r.crawler.cfg
	log := r.crawler.log

	if r.emitted >= r.maxResults || r.page > cfg.MaxPages {
		r.done = true
		return
	}

	// First round on a page navigates; later rounds scroll for more cards.
	if r.round == 0 {
		if err := r.crawler.driver.Navigate(r.ctx, SearchURL(r.keywords, r.locations, r.page)); err != nil {
			r.err = err
			return
		}
		log.Debug("search page loaded", zap.Int("page", r.page))
	} else {
		if err := r.crawler.driver.ScrollBottom(r.ctx); err != nil {
			r.err = err
			return
		}
	}
	r.round++

	html, err := r.crawler.driver.OuterHTML(r.ctx)
	if err != nil {
		r.err = err
		return
	}
	cards, err := ParseCards(html)
	if err != nil {
		r.err = err
		return
	}

	fresh := r.emit(cards)

	switch {
	case fresh == 0 && r.round == 1:
		// A brand-new page with nothing new means deeper pages are
		// just re-serving results we already have.
		log.Info("search exhausted, page added no new candidates",
			zap.Int("page", r.page))
		r.done = true
	case fresh == 0:
		r.stagnant++
		if r.stagnant >= cfg.StagnantRounds {
			log.Debug("page stagnant, advancing",
				zap.Int("page", r.page), zap.Int("rounds", r.round))
			r.advancePage()
		}
	default:
		r.stagnant = 0
		if r.round >= cfg.ScrollRounds {
			r.advancePage()
		}
	}
}

// emit buffers candidates for every not-yet-seen card URL, up to maxResults,
// and returns how many new URLs this round discovered.
func (r *Results) emit(cards []Card) int {
	fresh := 0
	for _, card := range cards {
		u := model.NormalizeProfileURL(card.URL)
		if u == "" || r.seen[u] {
			continue
		}
		r.seen[u] = true
		fresh++

		state := model.ConnectionStateFromLabel(card.ButtonLabel)
		if state == model.StateConnected {
			r.crawler.log.Debug("skipping connected contact", zap.String("url", u))
			continue
		}
		if state == model.StateUnknown {
			r.crawler.log.Info("unreadable connection label, including candidate",
				zap.String("url", u), zap.String("label", card.ButtonLabel))
		}

		r.buf = append(r.buf, model.Candidate{URL: u, ConnectionState: state})
		r.emitted++
		if r.emitted >= r.maxResults {
			r.done = true
			break
		}
	}
	return fresh
}

func (r *Results) advancePage() {
	r.page++
	r.round = 0
	r.stagnant = 0
}
