package search

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

const peopleSearchBase = "https://www.linkedin.com/search/results/people/"

// Card is one search result as read off the page: the profile link plus the
// label of its action button, which encodes the connection state.
type Card struct {
	URL         string
	ButtonLabel string
}

// SearchURL builds the people-search URL for one page. Locations are folded
// into the keyword query; the page parameter drives pagination.
func SearchURL(keywords, locations []string, page int) string {
	terms := make([]string, 0, len(keywords)+len(locations))
	terms = append(terms, keywords...)
	terms = append(terms, locations...)

	q := url.Values{}
	q.Set("keywords", strings.Join(terms, " "))
	q.Set("page", strconv.Itoa(page))
	return peopleSearchBase + "?" + q.Encode()
}

// ParseCards extracts visible result cards from captured search page HTML.
// A card is any list item containing a profile link; the action button label
// is read from the first button inside the same item. Extraction is tolerant:
// items without a profile link are skipped, a missing button yields an empty
// label (connection state unknown).
func ParseCards(html string) ([]Card, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "search: parse results page")
	}

	var cards []Card
	doc.Find("li").Each(func(_ int, item *goquery.Selection) {
		// Nested list items would double-count; only take items that
		// directly contain a profile anchor.
		if item.Find("li").Length() > 0 {
			return
		}
		href := profileHref(item)
		if href == "" {
			return
		}
		label := strings.TrimSpace(item.Find("button").First().Text())
		if label == "" {
			label = strings.TrimSpace(item.Find("button").First().AttrOr("aria-label", ""))
		}
		cards = append(cards, Card{URL: href, ButtonLabel: label})
	})

	return cards, nil
}

func profileHref(item *goquery.Selection) string {
	var href string
	item.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		h, ok := a.Attr("href")
		if !ok || !strings.Contains(h, "/in/") {
			return true
		}
		href = h
		return false
	})
	return href
}
