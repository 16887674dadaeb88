package scrape

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/browser"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/resilience"
)

// Scraper extracts structured profile data for one URL at a time. Field
// extraction is best-effort; only navigation itself is retried.
type Scraper struct {
	driver browser.Driver
	retry  resilience.RetryConfig
	log    *zap.Logger
}

// NewScraper creates a profile scraper over a ready session driver.
func NewScraper(d browser.Driver) *Scraper {
	return &Scraper{
		driver: d,
		retry:  resilience.DefaultRetryConfig(),
		log:    zap.L().Named("scrape"),
	}
}

// Scrape navigates to the profile and extracts every field it can find.
// Navigation failures are retried with backoff; when retries are exhausted a
// Profile carrying only the URL and the Incomplete marker is returned with a
// nil error, leaving the proceed/skip decision to the caller.
func (s *Scraper) Scrape(ctx context.Context, url string) (*model.Profile, error) {
	url = model.NormalizeProfileURL(url)
	log := s.log.With(zap.String("url", url))

	retry := s.retry
	retry.OnRetry = func(attempt int, err error) {
		log.Warn("profile navigation retry", zap.Int("attempt", attempt), zap.Error(err))
	}

	html, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (string, error) {
		if err := s.driver.Navigate(ctx, url); err != nil {
			return "", err
		}
		// The name heading is the earliest signal the profile rendered.
		if err := s.driver.WaitVisible(ctx, "h1"); err != nil {
			return "", err
		}
		return s.driver.OuterHTML(ctx)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("profile unreachable after retries, returning incomplete", zap.Error(err))
		return &model.Profile{URL: url, Incomplete: true}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrapf(err, "scrape: parse profile %s", url)
	}

	profile := &model.Profile{
		URL:         url,
		Name:        extractName(doc),
		Headline:    extractHeadline(doc),
		Location:    extractLocation(doc),
		About:       extractAbout(doc),
		Experiences: extractExperiences(doc),
		Education:   extractEducation(doc),
		Skills:      extractSkills(doc),
		Followers:   extractFollowers(doc),
	}
	profile.Position = extractPosition(profile.Experiences)

	log.Debug("profile extracted",
		zap.String("name", model.Deref(profile.Name)),
		zap.Int("experiences", len(profile.Experiences)),
		zap.Int("skills", len(profile.Skills)),
	)
	return profile, nil
}
