package model

import (
	"net/url"
	"strings"
)

// NormalizeProfileURL canonicalizes a profile URL so it can serve as the
// identity key across candidates, profiles, and lead records. Tracking query
// parameters and fragments are dropped, scheme and host are lowercased, and
// the trailing slash is trimmed. The path keeps its case: profile slugs are
// case-sensitive.
func NormalizeProfileURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		// Unparseable input falls back to a query/fragment strip so dedup
		// still keys on something stable.
		if i := strings.IndexAny(raw, "?#"); i >= 0 {
			raw = raw[:i]
		}
		return strings.TrimSuffix(raw, "/")
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String()
}
