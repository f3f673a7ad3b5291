package triage

import "github.com/vilaca/github-issues/internal/domain"

func labels(names ...string) []domain.Label {
	out := make([]domain.Label, len(names))
	for i, n := range names {
		out[i] = domain.Label{Name: n}
	}
	return out
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func newIssue(component string, number int, state domain.RawState, labelNames ...string) domain.Issue {
	issue := domain.Issue{
		Title:         "issue",
		HTMLURL:       "https://github.com/acme/" + component + "/issues",
		Number:        number,
		RepositoryURL: "https://api.github.com/repos/acme/" + component,
		State:         state,
		CreatedAt:     "2020-01-01T00:00:00Z",
	}
	if len(labelNames) > 0 {
		issue.Labels = labels(labelNames...)
	}
	return issue
}

func closedIssue(component string, number int, closedAt string) domain.Issue {
	issue := newIssue(component, number, domain.RawStateClosed)
	if closedAt != "" {
		issue.ClosedAt = strPtr(closedAt)
	}
	return issue
}
