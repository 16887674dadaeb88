package browser

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/outreach-cli/internal/config"
)

const defaultUserAgent = `Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36`

// Chrome drives a single headless Chrome tab via chromedp. One Chrome instance
// owns one browser context for the whole run; all pipeline navigation flows
// through it sequentially. Actions are paced by a rate limiter to keep the
// automation footprint human-scale.
type Chrome struct {
	ctx         context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
	navTimeout  time.Duration
	limiter     *rate.Limiter
}

// NewChrome launches a browser according to cfg.
func NewChrome(cfg config.BrowserConfig) (*Chrome, error) {
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(ua),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	taskCtx, cancelCtx := chromedp.NewContext(allocCtx)

	// Start the browser process eagerly so a broken Chrome install fails here
	// rather than on the first navigation.
	if err := chromedp.Run(taskCtx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, eris.Wrap(err, "browser: launch chrome")
	}

	navTimeout := time.Duration(cfg.NavTimeoutSecs) * time.Second
	if navTimeout <= 0 {
		navTimeout = 30 * time.Second
	}

	apm := cfg.ActionsPerMinute
	if apm <= 0 {
		apm = 30
	}

	return &Chrome{
		ctx:         taskCtx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
		navTimeout:  navTimeout,
		limiter:     rate.NewLimiter(rate.Limit(float64(apm)/60.0), 1),
	}, nil
}

// run executes actions on the browser context with the navigation timeout,
// bailing out early if the caller's context is done.
func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(c.ctx, c.navTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

// pace blocks until the next browser action is allowed.
func (c *Chrome) pace(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

func (c *Chrome) Navigate(ctx context.Context, url string) error {
	if err := c.pace(ctx); err != nil {
		return err
	}
	if err := c.run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return eris.Wrapf(err, "browser: navigate %s", url)
	}
	return nil
}

func (c *Chrome) Location(ctx context.Context) (string, error) {
	var loc string
	if err := c.run(ctx, chromedp.Location(&loc)); err != nil {
		return "", eris.Wrap(err, "browser: location")
	}
	return loc, nil
}

func (c *Chrome) WaitVisible(ctx context.Context, sel string) error {
	if err := c.run(ctx, chromedp.WaitVisible(sel, chromedp.ByQuery)); err != nil {
		return eris.Wrapf(err, "browser: wait visible %s", sel)
	}
	return nil
}

func (c *Chrome) OuterHTML(ctx context.Context) (string, error) {
	var html string
	if err := c.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", eris.Wrap(err, "browser: outer html")
	}
	return html, nil
}

func (c *Chrome) ScrollBottom(ctx context.Context) error {
	if err := c.pace(ctx); err != nil {
		return err
	}
	err := c.run(ctx, chromedp.Evaluate(`window.scrollBy(0, document.body.scrollHeight)`, nil))
	if err != nil {
		return eris.Wrap(err, "browser: scroll")
	}
	return nil
}

func (c *Chrome) Click(ctx context.Context, sel string) error {
	if err := c.pace(ctx); err != nil {
		return err
	}
	if err := c.run(ctx, chromedp.Click(sel, chromedp.ByQuery)); err != nil {
		return eris.Wrapf(err, "browser: click %s", sel)
	}
	return nil
}

func (c *Chrome) SetValue(ctx context.Context, sel, value string) error {
	if err := c.pace(ctx); err != nil {
		return err
	}
	if err := c.run(ctx, chromedp.SetValue(sel, value, chromedp.ByQuery)); err != nil {
		return eris.Wrapf(err, "browser: set value %s", sel)
	}
	return nil
}

func (c *Chrome) EvalBool(ctx context.Context, expr string) (bool, error) {
	if err := c.pace(ctx); err != nil {
		return false, err
	}
	var res bool
	if err := c.run(ctx, chromedp.Evaluate(expr, &res)); err != nil {
		return false, eris.Wrap(err, "browser: evaluate")
	}
	return res, nil
}

func (c *Chrome) Cookies(ctx context.Context) ([]Cookie, error) {
	var out []Cookie
	err := c.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		cookies, err := storage.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		out = make([]Cookie, 0, len(cookies))
		for _, ck := range cookies {
			out = append(out, Cookie{
				Name:     ck.Name,
				Value:    ck.Value,
				Domain:   ck.Domain,
				Path:     ck.Path,
				Expires:  ck.Expires,
				HTTPOnly: ck.HTTPOnly,
				Secure:   ck.Secure,
				SameSite: string(ck.SameSite),
			})
		}
		return nil
	}))
	if err != nil {
		return nil, eris.Wrap(err, "browser: get cookies")
	}
	return out, nil
}

func (c *Chrome) SetCookies(ctx context.Context, cookies []Cookie) error {
	params := make([]*network.CookieParam, 0, len(cookies))
	for _, ck := range cookies {
		p := &network.CookieParam{
			Name:     ck.Name,
			Value:    ck.Value,
			Domain:   ck.Domain,
			Path:     ck.Path,
			HTTPOnly: ck.HTTPOnly,
			Secure:   ck.Secure,
			SameSite: network.CookieSameSite(ck.SameSite),
		}
		if ck.Expires > 0 {
			expires := cdp.TimeSinceEpoch(time.Unix(int64(ck.Expires), 0))
			p.Expires = &expires
		}
		params = append(params, p)
	}
	err := c.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return network.SetCookies(params).Do(ctx)
	}))
	if err != nil {
		return eris.Wrap(err, "browser: set cookies")
	}
	return nil
}

func (c *Chrome) Close() error {
	c.cancelCtx()
	c.cancelAlloc()
	return nil
}
