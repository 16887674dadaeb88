package browser

import "context"

// Cookie is the persisted form of one browser cookie. The session file is a
// JSON array of these.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires,omitempty"`
	HTTPOnly bool    `json:"http_only,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
	SameSite string  `json:"same_site,omitempty"`
}

// Driver is the minimal browser surface the pipeline depends on. The crawler,
// scraper, and connection actor all talk to a Driver so they can be exercised
// against a fake; Chrome is the production implementation.
type Driver interface {
	// Navigate loads the given URL and waits for the document to be ready.
	Navigate(ctx context.Context, url string) error

	// Location returns the current page URL after any redirects.
	Location(ctx context.Context) (string, error)

	// WaitVisible blocks until the selector matches a visible element.
	WaitVisible(ctx context.Context, sel string) error

	// OuterHTML captures the full current document.
	OuterHTML(ctx context.Context) (string, error)

	// ScrollBottom scrolls the viewport to the bottom of the page.
	ScrollBottom(ctx context.Context) error

	// Click clicks the first element matching the selector.
	Click(ctx context.Context, sel string) error

	// SetValue fills a form control matching the selector.
	SetValue(ctx context.Context, sel, value string) error

	// EvalBool runs a JavaScript expression and returns its boolean result.
	// Used by the click strategies that match controls by accessible label.
	EvalBool(ctx context.Context, expr string) (bool, error)

	// Cookies and SetCookies move session state in and out of the browser.
	Cookies(ctx context.Context) ([]Cookie, error)
	SetCookies(ctx context.Context, cookies []Cookie) error

	// Close tears down the browser context.
	Close() error
}
