package connect

import (
	"context"

	"github.com/sells-group/outreach-cli/internal/browser"
)

// MatchResult reports whether a strategy located and clicked its control.
// A miss is an ordinary result, not an error: the next strategy gets its turn.
type MatchResult struct {
	Matched  bool
	Strategy string
}

// Strategy is one independent way of finding the connect control in the DOM.
// Strategies are tried in fixed priority order; the first match wins.
type Strategy struct {
	Name  string
	Click func(ctx context.Context, d browser.Driver) (bool, error)
}

// The page renames and reshuffles the connect control frequently, so the
// matchers work off accessible labels and roles rather than brittle class
// names, from most to least specific.
const (
	jsClickAriaInviteConnect = `(() => {
		for (const el of document.querySelectorAll('button')) {
			const label = (el.getAttribute('aria-label') || '').toLowerCase();
			if (label.includes('invite') && label.includes('connect')) { el.click(); return true; }
		}
		return false;
	})()`

	jsClickButtonTextConnect = `(() => {
		for (const el of document.querySelectorAll('button')) {
			if (el.innerText.trim() === 'Connect') { el.click(); return true; }
		}
		return false;
	})()`

	jsClickRoleConnect = `(() => {
		for (const el of document.querySelectorAll('[role="button"]')) {
			const name = (el.getAttribute('aria-label') || el.textContent || '').trim();
			if (name === 'Connect') { el.click(); return true; }
		}
		return false;
	})()`

	jsClickMoreActions = `(() => {
		for (const el of document.querySelectorAll('button, [role="button"]')) {
			const name = ((el.getAttribute('aria-label') || '') + ' ' + el.innerText).toLowerCase();
			if (name.includes('more actions') || name.trim() === 'more') { el.click(); return true; }
		}
		return false;
	})()`

	jsClickMenuConnect = `(() => {
		for (const el of document.querySelectorAll('div[role="button"], li, span')) {
			if (el.innerText && el.innerText.trim() === 'Connect') { el.click(); return true; }
		}
		return false;
	})()`
)

func evalStrategy(expr string) func(ctx context.Context, d browser.Driver) (bool, error) {
	return func(ctx context.Context, d browser.Driver) (bool, error) {
		return d.EvalBool(ctx, expr)
	}
}

// defaultStrategies is the fixed priority order for locating the connect
// control on a profile page.
func defaultStrategies() []Strategy {
	return []Strategy{
		{Name: "aria_invite_connect", Click: evalStrategy(jsClickAriaInviteConnect)},
		{Name: "button_text_connect", Click: evalStrategy(jsClickButtonTextConnect)},
		{Name: "role_connect", Click: evalStrategy(jsClickRoleConnect)},
		{Name: "more_menu_connect", Click: clickViaMoreMenu},
	}
}

// clickViaMoreMenu opens the overflow menu and looks for the connect item
// inside it. The dropdown renders asynchronously after the click, so the
// inner lookup is retried briefly.
func clickViaMoreMenu(ctx context.Context, d browser.Driver) (bool, error) {
	opened, err := d.EvalBool(ctx, jsClickMoreActions)
	if err != nil || !opened {
		return false, err
	}
	return pollBool(ctx, d, jsClickMenuConnect, menuRenderWait)
}
