package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-cli/internal/browser"
	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/internal/model"
)

// fakeDriver serves a scripted sequence of page snapshots: every Navigate or
// ScrollBottom advances to the next OuterHTML response.
type fakeDriver struct {
	snapshots []string
	cursor    int
	navs      []string
	scrolls   int
}

func (d *fakeDriver) Navigate(_ context.Context, url string) error {
	d.navs = append(d.navs, url)
	return nil
}

func (d *fakeDriver) ScrollBottom(context.Context) error {
	d.scrolls++
	return nil
}

func (d *fakeDriver) OuterHTML(context.Context) (string, error) {
	if d.cursor >= len(d.snapshots) {
		return d.snapshots[len(d.snapshots)-1], nil
	}
	html := d.snapshots[d.cursor]
	d.cursor++
	return html, nil
}

func (d *fakeDriver) Location(context.Context) (string, error)       { return "", nil }
func (d *fakeDriver) WaitVisible(context.Context, string) error      { return nil }
func (d *fakeDriver) Click(context.Context, string) error            { return nil }
func (d *fakeDriver) SetValue(context.Context, string, string) error { return nil }
func (d *fakeDriver) EvalBool(context.Context, string) (bool, error) { return false, nil }
func (d *fakeDriver) Cookies(context.Context) ([]browser.Cookie, error) {
	return nil, nil
}
func (d *fakeDriver) SetCookies(context.Context, []browser.Cookie) error { return nil }
func (d *fakeDriver) Close() error                                       { return nil }

func searchCfg() config.SearchConfig {
	return config.SearchConfig{
		MaxProfiles:    25,
		MaxPages:       10,
		ScrollRounds:   5,
		StagnantRounds: 3,
	}
}

func collect(t *testing.T, r *Results) []model.Candidate {
	t.Helper()
	var out []model.Candidate
	for r.Next() {
		out = append(out, r.Candidate())
	}
	require.NoError(t, r.Err())
	return out
}

func card(slug, label string) [2]string {
	return [2]string{"https://www.linkedin.com/in/" + slug, label}
}

func TestSearch_BudgetStopsCrawl(t *testing.T) {
	d := &fakeDriver{snapshots: []string{resultHTML(
		card("a", "Connect"),
		card("b", "Connect"),
		card("c", "Connect"),
		card("d", "Connect"),
		card("e", "Connect"),
	)}}

	res := New(d, searchCfg()).Search(context.Background(), []string{"go"}, nil, 3)
	cands := collect(t, res)

	require.Len(t, cands, 3)
	assert.Equal(t, "https://www.linkedin.com/in/a", cands[0].URL)
	assert.Equal(t, "https://www.linkedin.com/in/c", cands[2].URL)
	assert.Len(t, d.navs, 1, "budget reached on the first page")
}

func TestSearch_DedupAcrossPages(t *testing.T) {
	cfg := searchCfg()
	cfg.ScrollRounds = 1 // advance pages after a single round
	cfg.MaxPages = 2

	d := &fakeDriver{snapshots: []string{
		resultHTML(card("a", "Connect"), card("b", "Connect")),
		// Page 2 re-serves page 1 plus one new result.
		resultHTML(card("a", "Connect"), card("b", "Connect"), card("c", "Connect")),
	}}

	res := New(d, cfg).Search(context.Background(), []string{"go"}, nil, 25)
	cands := collect(t, res)

	urls := make([]string, len(cands))
	for i, c := range cands {
		urls[i] = c.URL
	}
	assert.Equal(t, []string{
		"https://www.linkedin.com/in/a",
		"https://www.linkedin.com/in/b",
		"https://www.linkedin.com/in/c",
	}, urls)
	assert.Len(t, d.navs, 2)
}

func TestSearch_ConnectedContactsExcluded(t *testing.T) {
	d := &fakeDriver{snapshots: []string{resultHTML(
		card("connected", "Message"),
		card("open", "Connect"),
		card("mystery", "Pending"),
	)}}

	res := New(d, searchCfg()).Search(context.Background(), []string{"go"}, nil, 25)
	cands := collect(t, res)

	require.Len(t, cands, 2)
	assert.Equal(t, model.StateNotConnected, cands[0].ConnectionState)
	assert.Equal(t, "https://www.linkedin.com/in/open", cands[0].URL)
	assert.Equal(t, model.StateUnknown, cands[1].ConnectionState, "unreadable labels stay included")
}

func TestSearch_ExhaustedWhenNewPageAddsNothing(t *testing.T) {
	cfg := searchCfg()
	cfg.ScrollRounds = 1

	page := resultHTML(card("a", "Connect"))
	d := &fakeDriver{snapshots: []string{page, page}}

	res := New(d, cfg).Search(context.Background(), []string{"go"}, nil, 25)
	cands := collect(t, res)

	assert.Len(t, cands, 1)
	assert.Len(t, d.navs, 2, "stops after the first page that adds nothing")
}

func TestSearch_StagnantScrollsAdvancePage(t *testing.T) {
	cfg := searchCfg()
	cfg.ScrollRounds = 5
	cfg.StagnantRounds = 2

	page1 := resultHTML(card("a", "Connect"))
	d := &fakeDriver{snapshots: []string{
		page1, // page 1, round 1 (navigate)
		page1, // round 2 (scroll, stagnant 1)
		page1, // round 3 (scroll, stagnant 2 -> advance)
		page1, // page 2: nothing new -> done
	}}

	res := New(d, cfg).Search(context.Background(), []string{"go"}, nil, 25)
	cands := collect(t, res)

	assert.Len(t, cands, 1)
	assert.Equal(t, 2, d.scrolls)
	assert.Len(t, d.navs, 2)
}

func TestSearch_ContextCancelSurfaces(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := &fakeDriver{snapshots: []string{resultHTML(card("a", "Connect"))}}
	res := New(d, searchCfg()).Search(ctx, []string{"go"}, nil, 25)

	assert.False(t, res.Next())
	assert.ErrorIs(t, res.Err(), context.Canceled)
}
