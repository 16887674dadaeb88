package model

import "fmt"

// OutcomeKind enumerates the terminal states of a connection attempt.
type OutcomeKind string

const (
	OutcomeSent             OutcomeKind = "sent"
	OutcomeSkippedTestMode  OutcomeKind = "skipped_test_mode"
	OutcomeAlreadyConnected OutcomeKind = "already_connected"
	OutcomeButtonNotFound   OutcomeKind = "button_not_found"
	OutcomeFailed           OutcomeKind = "failed"
)

// ConnectionOutcome is the tagged result of a connection attempt. Reason is
// populated only for OutcomeFailed.
type ConnectionOutcome struct {
	Kind   OutcomeKind
	Reason string
}

func Sent() ConnectionOutcome             { return ConnectionOutcome{Kind: OutcomeSent} }
func SkippedTestMode() ConnectionOutcome  { return ConnectionOutcome{Kind: OutcomeSkippedTestMode} }
func AlreadyConnected() ConnectionOutcome { return ConnectionOutcome{Kind: OutcomeAlreadyConnected} }
func ButtonNotFound() ConnectionOutcome   { return ConnectionOutcome{Kind: OutcomeButtonNotFound} }

func Failed(reason string) ConnectionOutcome {
	return ConnectionOutcome{Kind: OutcomeFailed, Reason: reason}
}

func (o ConnectionOutcome) String() string {
	if o.Kind == OutcomeFailed && o.Reason != "" {
		return fmt.Sprintf("%s: %s", o.Kind, o.Reason)
	}
	return string(o.Kind)
}

// RequestSent reports whether the attempt actually submitted an invitation.
func (o ConnectionOutcome) RequestSent() bool {
	return o.Kind == OutcomeSent
}
