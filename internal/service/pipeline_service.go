package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vilaca/github-issues/internal/api"
	"github.com/vilaca/github-issues/internal/domain"
	"github.com/vilaca/github-issues/internal/triage"
)

// Sink receives the exported rows in rank order.
type Sink interface {
	Write(rows []triage.Row) error
}

// Summary reports what a run did.
type Summary struct {
	Repositories int
	Fetched      int
	PullRequests int
	Exported     int
}

// Pipeline merges issues from several repositories into one ranked export.
// Repositories are fetched one at a time, in the order given.
type Pipeline struct {
	source api.IssueSource
	ranker *triage.Ranker
	sink   Sink
	logger *zap.Logger
}

// NewPipeline creates a new pipeline.
func NewPipeline(source api.IssueSource, ranker *triage.Ranker, sink Sink, logger *zap.Logger) *Pipeline {
	if ranker == nil {
		ranker = triage.NewRanker(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		source: source,
		ranker: ranker,
		sink:   sink,
		logger: logger,
	}
}

// Run fetches, filters, ranks and exports the issues of owner's components.
// Any error aborts the run before the sink is called, so no partial export
// is produced.
func (p *Pipeline) Run(ctx context.Context, owner string, components []string) (Summary, error) {
	summary := Summary{Repositories: len(components)}

	all, err := p.fetchAll(ctx, owner, components)
	if err != nil {
		return summary, err
	}
	summary.Fetched = len(all)

	issues := FilterPullRequests(all)
	summary.PullRequests = len(all) - len(issues)
	p.logger.Info("filtered pull requests",
		zap.Int("fetched", summary.Fetched),
		zap.Int("pull_requests", summary.PullRequests))

	ranked, err := p.ranker.Sort(issues)
	if err != nil {
		return summary, fmt.Errorf("failed to rank issues: %w", err)
	}

	rows := make([]triage.Row, 0, len(ranked))
	for _, issue := range ranked {
		row, err := p.ranker.Project(issue)
		if err != nil {
			return summary, fmt.Errorf("failed to project issue: %w", err)
		}
		p.logger.Debug("ranked issue",
			zap.String("component", row.Component),
			zap.String("id", row.ID),
			zap.Stringer("state", row.State),
			zap.Intp("priority", row.Priority))
		rows = append(rows, row)
	}

	if err := p.sink.Write(rows); err != nil {
		return summary, fmt.Errorf("failed to write export: %w", err)
	}
	summary.Exported = len(rows)

	return summary, nil
}

// fetchAll concatenates the issues of every component in order.
func (p *Pipeline) fetchAll(ctx context.Context, owner string, components []string) ([]domain.Issue, error) {
	var all []domain.Issue
	for _, component := range components {
		issues, err := p.source.GetIssues(ctx, owner, component)
		if err != nil {
			p.logger.Error("failed to fetch issues",
				zap.String("owner", owner),
				zap.String("component", component),
				zap.Error(err))
			return nil, fmt.Errorf("%w: %s/%s: %w", domain.ErrSourceFetchFailed, owner, component, err)
		}

		p.logger.Info("fetched issues",
			zap.String("owner", owner),
			zap.String("component", component),
			zap.Int("count", len(issues)))
		all = append(all, issues...)
	}
	return all, nil
}

// FilterPullRequests returns the records that are true issues.
func FilterPullRequests(records []domain.Issue) []domain.Issue {
	issues := make([]domain.Issue, 0, len(records))
	for _, r := range records {
		if !r.IsPullRequest() {
			issues = append(issues, r)
		}
	}
	return issues
}
