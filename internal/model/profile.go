package model

// Profile holds structured public profile data for one contact. Extraction is
// best-effort: every optional field is a pointer and nil means the section
// could not be located, which is distinct from an empty value. Scoring must
// never treat nil as a measured zero.
type Profile struct {
	URL         string   `json:"url"`
	Name        *string  `json:"name,omitempty"`
	Position    *string  `json:"position,omitempty"`
	Headline    *string  `json:"headline,omitempty"`
	Location    *string  `json:"location,omitempty"`
	About       *string  `json:"about,omitempty"`
	Experiences []string `json:"experiences,omitempty"`
	Education   []string `json:"education,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Followers   *int     `json:"followers,omitempty"`

	// Incomplete marks a profile whose navigation failed after all retries;
	// only URL is populated and the caller decides whether to proceed.
	Incomplete bool `json:"incomplete,omitempty"`
}

// Deref returns the pointed-to string or empty when absent.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns a pointer to s, or nil when s is empty after trimming.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
