package scrape

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Clean canonicalizes scraped text: NFC normalization, whitespace collapse,
// trim. Profile pages mix composed and decomposed unicode depending on how
// the text was entered, which would otherwise break exact-match joins.
func Clean(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// CleanPtr returns a pointer to the cleaned text, or nil when nothing
// remains. Absent and empty are the same thing for scraped fields.
func CleanPtr(s string) *string {
	c := Clean(s)
	if c == "" {
		return nil
	}
	return &c
}
