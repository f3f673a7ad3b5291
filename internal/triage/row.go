package triage

import (
	"fmt"

	"github.com/vilaca/github-issues/internal/domain"
)

// Row is the exported projection of an issue.
type Row struct {
	Component string
	ID        string // "#<number>"
	Title     string
	State     domain.State
	Assignee  string // "" when unassigned
	Milestone string // "" when no milestone
	Priority  *int
	CreatedAt string
	ClosedAt  *string
	URL       string
}

// Project builds the exported row of an issue.
func (r *Ranker) Project(issue domain.Issue) (Row, error) {
	component, err := ResolveComponent(issue.RepositoryURL)
	if err != nil {
		return Row{}, fmt.Errorf("issue #%d: %w", issue.Number, err)
	}

	createdAt, err := NormalizeDate(issue.CreatedAt)
	if err != nil {
		return Row{}, fmt.Errorf("%s#%d created_at: %w", component, issue.Number, err)
	}

	closedAt, err := NormalizeOptionalDate(issue.ClosedAt)
	if err != nil {
		return Row{}, fmt.Errorf("%s#%d closed_at: %w", component, issue.Number, err)
	}

	row := Row{
		Component: component,
		ID:        fmt.Sprintf("#%d", issue.Number),
		Title:     issue.Title,
		State:     r.classifier.Classify(issue),
		Assignee:  issue.AssigneeLogin(),
		Priority:  ExtractPriority(issue.Labels),
		CreatedAt: createdAt,
		ClosedAt:  closedAt,
		URL:       issue.HTMLURL,
	}
	if issue.Milestone != nil {
		row.Milestone = issue.Milestone.Title
	}
	return row, nil
}
