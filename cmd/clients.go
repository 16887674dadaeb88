package main

import (
	"context"

	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/browser"
	"github.com/sells-group/outreach-cli/internal/leads"
	"github.com/sells-group/outreach-cli/internal/pipeline"
	"github.com/sells-group/outreach-cli/internal/search"
	"github.com/sells-group/outreach-cli/internal/store"
	sfpkg "github.com/sells-group/outreach-cli/pkg/salesforce"
)

// initLeadStore opens the configured lead store backend.
func initLeadStore(ctx context.Context) (leads.Store, error) {
	st, err := leads.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open lead store")
	}
	return st, nil
}

// initRunStore opens the run-history store, or returns nil when disabled.
func initRunStore() (store.Store, error) {
	if cfg.Store.RunsPath == "" {
		return nil, nil
	}
	st, err := store.NewSQLite(cfg.Store.RunsPath)
	if err != nil {
		return nil, eris.Wrap(err, "open run store")
	}
	return st, nil
}

func initSalesforce() (sfpkg.Client, error) {
	if cfg.Salesforce.ConsumerKey == "" {
		return nil, eris.New("salesforce consumer key is required (OUTREACH_SALESFORCE_CONSUMER_KEY)")
	}

	sf, err := salesforce.Init(salesforce.Creds{
		Domain:         cfg.Salesforce.Domain,
		ConsumerKey:    cfg.Salesforce.ConsumerKey,
		ConsumerSecret: cfg.Salesforce.ConsumerSecret,
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return sfpkg.NewClient(sf), nil
}

// crawlerSearcher adapts *search.Crawler to the pipeline Searcher interface.
type crawlerSearcher struct {
	crawler *search.Crawler
}

func (s crawlerSearcher) Search(ctx context.Context, keywords, locations []string, maxResults int) pipeline.Candidates {
	return s.crawler.Search(ctx, keywords, locations, maxResults)
}

// newBrowserStack builds the Chrome driver and session manager from config.
func newBrowserStack() (*browser.Chrome, *browser.Manager, error) {
	driver, err := browser.NewChrome(cfg.Browser)
	if err != nil {
		return nil, nil, eris.Wrap(err, "launch browser")
	}
	return driver, browser.NewManager(driver, cfg.LinkedIn), nil
}
