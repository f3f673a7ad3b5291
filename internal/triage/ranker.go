package triage

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/vilaca/github-issues/internal/domain"
)

// RankKey holds the derived values the ordering policy compares.
type RankKey struct {
	State     domain.State
	Priority  *int
	ClosedAt  string // normalized closing date, "" when absent
	Component string
	Number    int
}

// Ranker orders issues from any number of repositories so the most
// actionable come first and closed issues come last.
type Ranker struct {
	classifier *Classifier
}

// NewRanker creates a ranker. A nil classifier uses the label-only rules.
func NewRanker(classifier *Classifier) *Ranker {
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	return &Ranker{classifier: classifier}
}

// Key computes the rank key of an issue.
func (r *Ranker) Key(issue domain.Issue) (RankKey, error) {
	component, err := ResolveComponent(issue.RepositoryURL)
	if err != nil {
		return RankKey{}, fmt.Errorf("issue #%d: %w", issue.Number, err)
	}

	closedAt, err := NormalizeOptionalDate(issue.ClosedAt)
	if err != nil {
		return RankKey{}, fmt.Errorf("%s#%d closed_at: %w", component, issue.Number, err)
	}

	key := RankKey{
		State:     r.classifier.Classify(issue),
		Priority:  ExtractPriority(issue.Labels),
		Component: component,
		Number:    issue.Number,
	}
	if closedAt != nil {
		key.ClosedAt = *closedAt
	}
	return key, nil
}

// Sort returns the issues in rank order. Keys are computed up front so a
// malformed issue fails the whole sort instead of producing a partial order.
// The input slice is not modified.
func (r *Ranker) Sort(issues []domain.Issue) ([]domain.Issue, error) {
	type ranked struct {
		issue domain.Issue
		key   RankKey
	}

	items := make([]ranked, len(issues))
	for i, issue := range issues {
		key, err := r.Key(issue)
		if err != nil {
			return nil, err
		}
		items[i] = ranked{issue: issue, key: key}
	}

	slices.SortStableFunc(items, func(a, b ranked) int {
		return CompareKeys(a.key, b.key)
	})

	sorted := make([]domain.Issue, len(items))
	for i, item := range items {
		sorted[i] = item.issue
	}
	return sorted, nil
}

// CompareKeys returns a negative number when a sorts before b, a positive
// number when b sorts before a and zero when they tie. Rules in order:
//
//  1. closed issues sort after everything else
//  2. declared priority sorts before none, lower values first
//  3. state order: blocked, under review, open, closed
//  4. closed issues sort by closing date, most recent first
//  5. component name ascending
//  6. issue number ascending
//
// Priority is deliberately checked before state: an open P0 issue sorts
// ahead of a blocked issue without priority.
func CompareKeys(a, b RankKey) int {
	aClosed := a.State == domain.StateClosed
	bClosed := b.State == domain.StateClosed
	if aClosed != bClosed {
		if aClosed {
			return 1
		}
		return -1
	}

	if c := comparePriority(a.Priority, b.Priority); c != 0 {
		return c
	}

	if a.State != b.State {
		return cmp.Compare(a.State, b.State)
	}

	if aClosed {
		// Descending; "" (no date) is the minimum and sorts last.
		if c := cmp.Compare(b.ClosedAt, a.ClosedAt); c != 0 {
			return c
		}
	}

	if c := cmp.Compare(a.Component, b.Component); c != 0 {
		return c
	}

	return cmp.Compare(a.Number, b.Number)
}

func comparePriority(a, b *int) int {
	switch {
	case a != nil && b == nil:
		return -1
	case a == nil && b != nil:
		return 1
	case a != nil && b != nil:
		return cmp.Compare(*a, *b)
	default:
		return 0
	}
}
