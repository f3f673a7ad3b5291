package triage

import "github.com/vilaca/github-issues/internal/domain"

const (
	// LabelUnderReview marks an issue whose fix is being reviewed.
	LabelUnderReview = "under review"
	// LabelBlocked marks an issue waiting on something external.
	LabelBlocked = "blocked"
)

// Classifier derives the triage state of an issue.
// The zero value and a nil *Classifier classify on raw state and labels only.
type Classifier struct {
	maintainers map[string]struct{}
}

// NewClassifier creates a classifier. When maintainers is non-empty, open
// issues not assigned to one of them are classified as blocked.
func NewClassifier(maintainers []string) *Classifier {
	c := &Classifier{}
	if len(maintainers) == 0 {
		return c
	}

	c.maintainers = make(map[string]struct{}, len(maintainers))
	for _, m := range maintainers {
		c.maintainers[m] = struct{}{}
	}
	return c
}

// Classify returns the triage state of an issue. Rules are checked in
// order and the first match wins, so "under review" beats "blocked".
func (c *Classifier) Classify(issue domain.Issue) domain.State {
	if issue.State == domain.RawStateClosed {
		return domain.StateClosed
	}
	if issue.HasLabel(LabelUnderReview) {
		return domain.StateUnderReview
	}
	if issue.HasLabel(LabelBlocked) {
		return domain.StateBlocked
	}
	if c != nil && len(c.maintainers) > 0 && !c.isMaintainer(issue.AssigneeLogin()) {
		return domain.StateBlocked
	}
	return domain.StateOpen
}

func (c *Classifier) isMaintainer(login string) bool {
	if login == "" {
		return false
	}
	_, ok := c.maintainers[login]
	return ok
}
