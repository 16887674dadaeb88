package connect

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/browser"
	"github.com/sells-group/outreach-cli/internal/model"
)

// MaxNoteLength is the hard cap on a connection note. Whatever the caller
// passes in, the text filled into the dialog never exceeds this many runes.
const MaxNoteLength = 280

const (
	dialogWait     = 3 * time.Second
	menuRenderWait = 2 * time.Second
	pollInterval   = 250 * time.Millisecond
)

// attemptState names the states of one connection attempt. No state is ever
// revisited; every path ends in a ConnectionOutcome.
type attemptState string

const (
	stateIdle         attemptState = "idle"
	stateButtonSearch attemptState = "button_search"
	stateClicked      attemptState = "clicked"
	stateDialogOpen   attemptState = "dialog_open"
	stateNoteFilled   attemptState = "note_filled"
)

const (
	jsHasDialog = `!!document.querySelector('div[role="dialog"]')`

	jsClickAddNote = `(() => {
		for (const el of document.querySelectorAll('div[role="dialog"] button')) {
			if (el.innerText.trim().toLowerCase().startsWith('add a note')) { el.click(); return true; }
		}
		return false;
	})()`

	jsClickSend = `(() => {
		for (const el of document.querySelectorAll('div[role="dialog"] button')) {
			const name = (el.getAttribute('aria-label') || el.innerText).trim().toLowerCase();
			if (name === 'send' || name === 'send invitation' || name === 'send without a note') { el.click(); return true; }
		}
		return false;
	})()`

	jsDismissDialog = `(() => {
		for (const el of document.querySelectorAll('div[role="dialog"] button')) {
			const name = (el.getAttribute('aria-label') || el.innerText).trim().toLowerCase();
			if (name === 'dismiss' || name === 'cancel' || name === 'close') { el.click(); return true; }
		}
		return false;
	})()`

	noteTextareaSel = `div[role="dialog"] textarea`
)

// Actor sends connection requests with a personalized note. In test mode the
// whole flow runs up to the filled dialog and then backs out without
// submitting.
type Actor struct {
	driver     browser.Driver
	strategies []Strategy
	testMode   bool
	log        *zap.Logger
}

// NewActor creates a connection actor over a ready session driver.
func NewActor(d browser.Driver, testMode bool) *Actor {
	return &Actor{
		driver:     d,
		strategies: defaultStrategies(),
		testMode:   testMode,
		log:        zap.L().Named("connect"),
	}
}

// Connect attempts to send a connection request to the profile at url.
// A known-connected state short-circuits without navigating. The returned
// error is non-nil only for driver/context failures; every policy outcome is
// expressed in the ConnectionOutcome.
func (a *Actor) Connect(ctx context.Context, url, note string, state model.ConnectionState) (model.ConnectionOutcome, error) {
	log := a.log.With(zap.String("url", url))

	if state == model.StateConnected {
		log.Debug("already connected, skipping")
		return model.AlreadyConnected(), nil
	}

	if err := a.driver.Navigate(ctx, url); err != nil {
		return model.Failed("navigation failed"), err
	}

	// Idle -> ButtonSearch
	match, err := a.findAndClick(ctx, log)
	if err != nil {
		return model.Failed("button search failed"), err
	}
	if !match.Matched {
		log.Info("no connect control found")
		return model.ButtonNotFound(), nil
	}
	log.Debug("connect control clicked", zap.String("strategy", match.Strategy))

	// Clicked -> {NoDialog -> Sent | DialogOpen}
	hasDialog, err := pollBool(ctx, a.driver, jsHasDialog, dialogWait)
	if err != nil {
		return model.Failed("dialog check failed"), err
	}
	if !hasDialog {
		// Some profiles send the invitation directly off the button.
		log.Info("request sent without note dialog")
		return model.Sent(), nil
	}

	// DialogOpen -> NoteFilled
	if err := a.fillNote(ctx, note); err != nil {
		return model.Failed("note fill failed"), err
	}

	// NoteFilled -> {Closed (test mode) | Submitted}
	if a.testMode {
		dismissed, err := a.driver.EvalBool(ctx, jsDismissDialog)
		if err != nil {
			return model.Failed("dialog dismiss failed"), err
		}
		if !dismissed {
			// Leaving the filled dialog open would submit on the next
			// stray interaction.
			log.Warn("dismiss control not found, dialog left open")
			return model.Failed("dismiss control not found"), nil
		}
		log.Info("test mode, request prepared but not submitted")
		return model.SkippedTestMode(), nil
	}

	submitted, err := a.driver.EvalBool(ctx, jsClickSend)
	if err != nil {
		return model.Failed("submit failed"), err
	}
	if !submitted {
		return model.Failed("send control not found in dialog"), nil
	}
	log.Info("connection request sent")
	return model.Sent(), nil
}

func (a *Actor) findAndClick(ctx context.Context, log *zap.Logger) (MatchResult, error) {
	for _, strat := range a.strategies {
		clicked, err := strat.Click(ctx, a.driver)
		if err != nil {
			return MatchResult{}, err
		}
		if clicked {
			return MatchResult{Matched: true, Strategy: strat.Name}, nil
		}
		log.Debug("strategy missed", zap.String("strategy", strat.Name))
	}
	return MatchResult{}, nil
}

// fillNote opens the note input if needed and fills the truncated note.
func (a *Actor) fillNote(ctx context.Context, note string) error {
	// Newer dialogs show the textarea directly; older ones hide it behind
	// an "Add a note" button. Either way is fine.
	if _, err := a.driver.EvalBool(ctx, jsClickAddNote); err != nil {
		return err
	}
	return a.driver.SetValue(ctx, noteTextareaSel, TruncateNote(note))
}

// TruncateNote enforces the note length contract.
func TruncateNote(note string) string {
	runes := []rune(note)
	if len(runes) <= MaxNoteLength {
		return note
	}
	return string(runes[:MaxNoteLength])
}

// pollBool re-evaluates expr until it is true or the wait elapses. Used for
// UI that renders asynchronously after a click.
func pollBool(ctx context.Context, d browser.Driver, expr string, wait time.Duration) (bool, error) {
	deadline := time.Now().Add(wait)
	for {
		ok, err := d.EvalBool(ctx, expr)
		if err != nil || ok {
			return ok, err
		}
		if time.Now().After(deadline) {
			return false, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}
