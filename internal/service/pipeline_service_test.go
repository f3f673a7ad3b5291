package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/vilaca/github-issues/internal/domain"
	"github.com/vilaca/github-issues/internal/triage"
)

// mockSource is a test double for api.IssueSource.
// Follows FIRST principles - Independent tests.
type mockSource struct {
	getIssuesFunc func(ctx context.Context, owner, component string) ([]domain.Issue, error)
	calls         []string
}

func (m *mockSource) GetIssues(ctx context.Context, owner, component string) ([]domain.Issue, error) {
	m.calls = append(m.calls, component)
	if m.getIssuesFunc != nil {
		return m.getIssuesFunc(ctx, owner, component)
	}
	return nil, nil
}

// recordingSink captures the rows it receives.
type recordingSink struct {
	rows   []triage.Row
	called bool
	err    error
}

func (s *recordingSink) Write(rows []triage.Row) error {
	s.called = true
	s.rows = rows
	return s.err
}

func strPtr(s string) *string {
	return &s
}

func testIssue(component string, number int, state domain.RawState, labelNames ...string) domain.Issue {
	issue := domain.Issue{
		Title:         fmt.Sprintf("%s issue %d", component, number),
		HTMLURL:       fmt.Sprintf("https://github.com/acme/%s/issues/%d", component, number),
		Number:        number,
		RepositoryURL: "https://api.github.com/repos/acme/" + component,
		State:         state,
		CreatedAt:     "2019-06-01T00:00:00Z",
	}
	for _, n := range labelNames {
		issue.Labels = append(issue.Labels, domain.Label{Name: n})
	}
	return issue
}

func alphaBetaSource() *mockSource {
	return &mockSource{
		getIssuesFunc: func(ctx context.Context, owner, component string) ([]domain.Issue, error) {
			switch component {
			case "alpha":
				closed := testIssue("alpha", 2, domain.RawStateClosed)
				closed.ClosedAt = strPtr("2020-01-01T00:00:00Z")
				return []domain.Issue{closed, testIssue("alpha", 5, domain.RawStateOpen, "P1")}, nil
			case "beta":
				pr := testIssue("beta", 10, domain.RawStateOpen)
				pr.PullRequest = &domain.PullRequestRef{URL: "https://api.github.com/repos/acme/beta/pulls/10"}
				return []domain.Issue{pr, testIssue("beta", 9, domain.RawStateOpen, "blocked")}, nil
			}
			return nil, fmt.Errorf("unknown component %s", component)
		},
	}
}

// TestRun_EndToEnd tests filtering, priority, state and closed-last ordering together.
// Follows AAA pattern.
func TestRun_EndToEnd(t *testing.T) {
	// Arrange
	source := alphaBetaSource()
	sink := &recordingSink{}
	pipeline := NewPipeline(source, triage.NewRanker(nil), sink, nil)

	// Act
	summary, err := pipeline.Run(context.Background(), "acme", []string{"alpha", "beta"})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !slices.Equal(source.calls, []string{"alpha", "beta"}) {
		t.Errorf("expected components fetched in order, got %v", source.calls)
	}

	var got []string
	for _, row := range sink.rows {
		got = append(got, fmt.Sprintf("%s%s:%s", row.Component, row.ID, row.State))
	}
	expected := []string{"alpha#5:open", "beta#9:blocked", "alpha#2:closed"}
	if !slices.Equal(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}

	if p := sink.rows[0].Priority; p == nil || *p != 1 {
		t.Errorf("expected alpha#5 priority 1, got %v", p)
	}
	if sink.rows[1].Priority != nil {
		t.Errorf("expected beta#9 without priority, got %d", *sink.rows[1].Priority)
	}
	if c := sink.rows[2].ClosedAt; c == nil || *c != "2020-01-01" {
		t.Errorf("expected alpha#2 closed_at '2020-01-01', got %v", c)
	}

	if summary.Fetched != 4 || summary.PullRequests != 1 || summary.Exported != 3 || summary.Repositories != 2 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

// TestRun_FetchFailureAborts tests that one failing repository aborts the run.
func TestRun_FetchFailureAborts(t *testing.T) {
	// Arrange
	fetchErr := errors.New("boom")
	source := &mockSource{
		getIssuesFunc: func(ctx context.Context, owner, component string) ([]domain.Issue, error) {
			if component == "beta" {
				return nil, fetchErr
			}
			return []domain.Issue{testIssue(component, 1, domain.RawStateOpen)}, nil
		},
	}
	sink := &recordingSink{}
	pipeline := NewPipeline(source, nil, sink, nil)

	// Act
	_, err := pipeline.Run(context.Background(), "acme", []string{"alpha", "beta", "gamma"})

	// Assert
	if !errors.Is(err, domain.ErrSourceFetchFailed) {
		t.Errorf("expected ErrSourceFetchFailed, got %v", err)
	}
	if !errors.Is(err, fetchErr) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
	if sink.called {
		t.Error("expected sink not to be called after a fetch failure")
	}
	if !slices.Equal(source.calls, []string{"alpha", "beta"}) {
		t.Errorf("expected fetching to stop at beta, got %v", source.calls)
	}
}

// TestRun_MalformedIssueAborts tests that ranking errors produce no output.
func TestRun_MalformedIssueAborts(t *testing.T) {
	source := &mockSource{
		getIssuesFunc: func(ctx context.Context, owner, component string) ([]domain.Issue, error) {
			bad := testIssue(component, 1, domain.RawStateOpen)
			bad.RepositoryURL = "::not-a-url"
			return []domain.Issue{bad}, nil
		},
	}
	sink := &recordingSink{}

	_, err := NewPipeline(source, nil, sink, nil).Run(context.Background(), "acme", []string{"alpha"})

	if !errors.Is(err, domain.ErrMalformedRepositoryURL) {
		t.Errorf("expected ErrMalformedRepositoryURL, got %v", err)
	}
	if sink.called {
		t.Error("expected sink not to be called")
	}
}

// TestRun_MalformedCreatedAtAborts tests that projection errors produce no output.
func TestRun_MalformedCreatedAtAborts(t *testing.T) {
	source := &mockSource{
		getIssuesFunc: func(ctx context.Context, owner, component string) ([]domain.Issue, error) {
			bad := testIssue(component, 1, domain.RawStateOpen)
			bad.CreatedAt = "2020"
			return []domain.Issue{bad}, nil
		},
	}
	sink := &recordingSink{}

	_, err := NewPipeline(source, nil, sink, nil).Run(context.Background(), "acme", []string{"alpha"})

	if !errors.Is(err, domain.ErrMalformedTimestamp) {
		t.Errorf("expected ErrMalformedTimestamp, got %v", err)
	}
	if sink.called {
		t.Error("expected sink not to be called")
	}
}

func TestRun_SinkError(t *testing.T) {
	sinkErr := errors.New("disk full")
	sink := &recordingSink{err: sinkErr}

	_, err := NewPipeline(alphaBetaSource(), nil, sink, nil).Run(context.Background(), "acme", []string{"alpha"})

	if !errors.Is(err, sinkErr) {
		t.Errorf("expected sink error, got %v", err)
	}
}

// TestRun_NoComponents tests that an empty request still reaches the sink.
func TestRun_NoComponents(t *testing.T) {
	sink := &recordingSink{}

	summary, err := NewPipeline(&mockSource{}, nil, sink, nil).Run(context.Background(), "acme", nil)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !sink.called || len(sink.rows) != 0 {
		t.Errorf("expected sink called with no rows, got %v", sink.rows)
	}
	if summary.Exported != 0 {
		t.Errorf("expected nothing exported, got %d", summary.Exported)
	}
}

// TestRun_MaintainerAllowlist tests that the classifier configuration reaches the export.
func TestRun_MaintainerAllowlist(t *testing.T) {
	source := &mockSource{
		getIssuesFunc: func(ctx context.Context, owner, component string) ([]domain.Issue, error) {
			owned := testIssue(component, 1, domain.RawStateOpen)
			owned.Assignee = &domain.User{Login: "alice"}
			return []domain.Issue{owned, testIssue(component, 2, domain.RawStateOpen)}, nil
		},
	}
	sink := &recordingSink{}
	ranker := triage.NewRanker(triage.NewClassifier([]string{"alice"}))

	if _, err := NewPipeline(source, ranker, sink, nil).Run(context.Background(), "acme", []string{"alpha"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(sink.rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(sink.rows))
	}
	if sink.rows[0].ID != "#2" || sink.rows[0].State != domain.StateBlocked {
		t.Errorf("expected unassigned #2 blocked first, got %+v", sink.rows[0])
	}
	if sink.rows[1].ID != "#1" || sink.rows[1].State != domain.StateOpen {
		t.Errorf("expected maintainer-owned #1 open second, got %+v", sink.rows[1])
	}
}

func TestFilterPullRequests(t *testing.T) {
	pr := testIssue("a", 1, domain.RawStateOpen)
	pr.PullRequest = &domain.PullRequestRef{}
	issue := testIssue("a", 2, domain.RawStateOpen)

	got := FilterPullRequests([]domain.Issue{pr, issue})

	if len(got) != 1 || got[0].Number != 2 {
		t.Errorf("expected only issue #2, got %+v", got)
	}
}
