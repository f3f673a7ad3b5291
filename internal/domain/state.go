package domain

// State is the triage state derived from an issue.
// Values are ordered: Blocked < UnderReview < Open < Closed.
type State int

const (
	StateBlocked State = iota
	StateUnderReview
	StateOpen
	StateClosed
)

// String returns the user-facing text for the state.
func (s State) String() string {
	switch s {
	case StateBlocked:
		return "blocked"
	case StateUnderReview:
		return "under review"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
