package browser

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/config"
)

const (
	loginURL = "https://www.linkedin.com/login"
	feedURL  = "https://www.linkedin.com/feed/"

	// loginAttempts bounds fresh-login tries: the login surface being
	// unreachable twice in a row is fatal.
	loginAttempts = 2
)

// ErrAuth marks a fatal authentication failure: rejected credentials or an
// unreachable login surface. The run must abort before processing candidates.
var ErrAuth = eris.New("browser: authentication failed")

// Session is an authenticated browsing session. It owns the driver for the
// duration of a run.
type Session struct {
	driver     Driver
	FreshLogin bool
}

// NewSession wraps an already-authenticated driver. Manager.Acquire is the
// normal entry point; this exists for composing over a driver whose
// authentication is handled elsewhere.
func NewSession(d Driver) *Session { return &Session{driver: d} }

// Driver exposes the underlying browser to the crawler, scraper, and actor.
func (s *Session) Driver() Driver { return s.driver }

// Close tears down the browser context.
func (s *Session) Close() error { return s.driver.Close() }

// Manager establishes or resumes an authenticated session. It is the only
// component that reads or writes the persisted session file.
type Manager struct {
	driver Driver
	cfg    config.LinkedInConfig
}

// NewManager creates a session manager over an existing driver.
func NewManager(d Driver, cfg config.LinkedInConfig) *Manager {
	return &Manager{driver: d, cfg: cfg}
}

// Acquire returns a ready session. A persisted cookie blob is tried first; if
// the feed probe lands on a login surface, a credential login is performed
// instead and the fresh cookies are persisted exactly once. Corrupt or absent
// session files are never fatal by themselves.
func (m *Manager) Acquire(ctx context.Context) (*Session, error) {
	log := zap.L().Named("session")

	if cookies := m.loadSessionFile(); len(cookies) > 0 {
		if err := m.driver.SetCookies(ctx, cookies); err != nil {
			log.Warn("restore cookies failed, falling back to login", zap.Error(err))
		} else if m.probe(ctx) {
			log.Info("session resumed from persisted state",
				zap.String("file", m.cfg.SessionFile))
			return &Session{driver: m.driver}, nil
		} else {
			log.Info("persisted session stale, performing fresh login")
		}
	}

	var lastErr error
	for attempt := 1; attempt <= loginAttempts; attempt++ {
		lastErr = m.login(ctx)
		if lastErr == nil {
			break
		}
		if eris.Is(lastErr, ErrAuth) {
			// Rejected credentials do not improve on retry.
			return nil, lastErr
		}
		log.Warn("login surface unreachable",
			zap.Int("attempt", attempt), zap.Error(lastErr))
	}
	if lastErr != nil {
		return nil, eris.Wrap(ErrAuth, lastErr.Error())
	}

	if err := m.persistSession(ctx); err != nil {
		// The session itself is good; persistence failure only costs the
		// next run a fresh login.
		log.Warn("persist session state failed", zap.Error(err))
	}

	log.Info("fresh login complete")
	return &Session{driver: m.driver, FreshLogin: true}, nil
}

// login performs a credential login. Returns ErrAuth when the credentials are
// rejected, or a plain error when the login surface is unreachable.
func (m *Manager) login(ctx context.Context) error {
	if err := m.driver.Navigate(ctx, loginURL); err != nil {
		return eris.Wrap(err, "browser: reach login surface")
	}
	if err := m.driver.WaitVisible(ctx, "input#username"); err != nil {
		return eris.Wrap(err, "browser: login form")
	}
	if err := m.driver.SetValue(ctx, "input#username", m.cfg.Email); err != nil {
		return err
	}
	if err := m.driver.SetValue(ctx, "input#password", m.cfg.Password); err != nil {
		return err
	}
	if err := m.driver.Click(ctx, "button[type=submit]"); err != nil {
		return err
	}

	// The feed redirect can lag the submit; poll the location briefly.
	deadline := time.Now().Add(20 * time.Second)
	for {
		loc, err := m.driver.Location(ctx)
		if err != nil {
			return err
		}
		if isAuthenticatedURL(loc) {
			return nil
		}
		if time.Now().After(deadline) {
			return eris.Wrapf(ErrAuth, "credentials rejected, landed on %s", loc)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// probe checks whether the restored cookies still authenticate by visiting the
// feed and inspecting where the browser lands.
func (m *Manager) probe(ctx context.Context) bool {
	if err := m.driver.Navigate(ctx, feedURL); err != nil {
		return false
	}
	loc, err := m.driver.Location(ctx)
	if err != nil {
		return false
	}
	return isAuthenticatedURL(loc)
}

func isAuthenticatedURL(loc string) bool {
	for _, marker := range []string{"/login", "/checkpoint", "/authwall", "/uas/"} {
		if strings.Contains(loc, marker) {
			return false
		}
	}
	return loc != ""
}

// loadSessionFile reads the persisted cookie blob. Any failure returns nil: a
// missing or corrupt file simply means a fresh login.
func (m *Manager) loadSessionFile() []Cookie {
	if m.cfg.SessionFile == "" {
		return nil
	}
	data, err := os.ReadFile(m.cfg.SessionFile)
	if err != nil {
		return nil
	}
	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		zap.L().Warn("session file corrupt, ignoring",
			zap.String("file", m.cfg.SessionFile), zap.Error(err))
		return nil
	}
	return cookies
}

// persistSession writes the current cookies, overwriting any stale state.
// Called at most once per run, only after a fresh login.
func (m *Manager) persistSession(ctx context.Context) error {
	if m.cfg.SessionFile == "" {
		return nil
	}
	cookies, err := m.driver.Cookies(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(cookies)
	if err != nil {
		return eris.Wrap(err, "browser: marshal session state")
	}
	if dir := filepath.Dir(m.cfg.SessionFile); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return eris.Wrap(err, "browser: session dir")
		}
	}
	if err := os.WriteFile(m.cfg.SessionFile, data, 0o600); err != nil {
		return eris.Wrap(err, "browser: write session state")
	}
	return nil
}
