package model

import "strings"

// ConnectionState is the observed relationship to a candidate, read from the
// action button on their search result card.
type ConnectionState string

const (
	StateConnected    ConnectionState = "connected"
	StateNotConnected ConnectionState = "not_connected"
	StateUnknown      ConnectionState = "unknown"
)

// Candidate is a discovered profile identifier plus its observed connection
// state, not yet scraped. Immutable once emitted within a run.
type Candidate struct {
	URL             string          `json:"url"`
	ConnectionState ConnectionState `json:"connection_state"`
}

// ConnectionStateFromLabel maps a search-card action button label to a
// connection state. "Message" means the contact is already connected;
// "Connect" and "Follow" mean not connected. Anything else is unknown.
func ConnectionStateFromLabel(label string) ConnectionState {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "message":
		return StateConnected
	case "connect", "follow":
		return StateNotConnected
	default:
		return StateUnknown
	}
}
