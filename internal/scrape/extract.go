package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Field extractors. Each one works on the captured document independently and
// returns the zero value when its section cannot be located, so one missing
// or redesigned section never takes the rest of the profile down with it.

func extractName(doc *goquery.Document) *string {
	return CleanPtr(doc.Find("h1").First().Text())
}

func extractHeadline(doc *goquery.Document) *string {
	return CleanPtr(doc.Find("div.text-body-medium.break-words").First().Text())
}

func extractLocation(doc *goquery.Document) *string {
	return CleanPtr(doc.Find("span.text-body-small.inline.t-black--light.break-words").First().Text())
}

func extractAbout(doc *goquery.Document) *string {
	sec := sectionByAnchor(doc, "about")
	if sec == nil {
		return nil
	}
	text := sec.Find("div.inline-show-more-text").First().Text()
	if Clean(text) == "" {
		text = sec.Find("div.display-flex.full-width").First().Text()
	}
	return CleanPtr(text)
}

// extractExperiences returns one "title - company" line per visible
// experience entry, in page order.
func extractExperiences(doc *goquery.Document) []string {
	return sectionLines(doc, "experience")
}

// extractEducation returns one "school - degree" line per education entry.
func extractEducation(doc *goquery.Document) []string {
	return sectionLines(doc, "education")
}

func extractSkills(doc *goquery.Document) []string {
	sec := sectionByAnchor(doc, "skills")
	if sec == nil {
		return nil
	}
	var skills []string
	seen := make(map[string]bool)
	sec.Find("span[aria-hidden=true]").Each(func(_ int, s *goquery.Selection) {
		text := Clean(s.Text())
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		skills = append(skills, text)
	})
	return skills
}

var followersRe = regexp.MustCompile(`([\d,.]+)\s*followers`)

func extractFollowers(doc *goquery.Document) *int {
	var count *int
	doc.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		m := followersRe.FindStringSubmatch(s.Text())
		if m == nil {
			return true
		}
		digits := strings.NewReplacer(",", "", ".", "").Replace(m[1])
		n, err := strconv.Atoi(digits)
		if err != nil {
			return true
		}
		count = &n
		return false
	})
	return count
}

// extractPosition derives the current position from the first experience
// entry's title, falling back to nothing when there is no experience section.
func extractPosition(experiences []string) *string {
	if len(experiences) == 0 {
		return nil
	}
	title, _, _ := strings.Cut(experiences[0], " - ")
	return CleanPtr(title)
}

// sectionByAnchor locates a profile section by the hidden anchor div the page
// places inside it (e.g. <div id="about">), falling back to the section
// heading text.
func sectionByAnchor(doc *goquery.Document, id string) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("section").EachWithBreak(func(_ int, sec *goquery.Selection) bool {
		if sec.Find("#"+id).Length() > 0 {
			found = sec
			return false
		}
		heading := strings.ToLower(Clean(sec.Find("h2").First().Text()))
		if heading == id || strings.HasPrefix(heading, id+" ") {
			found = sec
			return false
		}
		return true
	})
	return found
}

// sectionLines extracts "first - second" lines from a section's list items.
// The first two aria-hidden spans in an item are its visible title/subtitle
// pair; duplicated screen-reader text is skipped that way.
func sectionLines(doc *goquery.Document, id string) []string {
	sec := sectionByAnchor(doc, id)
	if sec == nil {
		return nil
	}
	var lines []string
	sec.Find("li").Each(func(_ int, item *goquery.Selection) {
		if item.Find("li").Length() > 0 {
			return
		}
		var parts []string
		item.Find("span[aria-hidden=true]").EachWithBreak(func(i int, s *goquery.Selection) bool {
			if text := Clean(s.Text()); text != "" {
				parts = append(parts, text)
			}
			return len(parts) < 2
		})
		if len(parts) > 0 {
			lines = append(lines, strings.Join(parts, " - "))
		}
	})
	return lines
}
