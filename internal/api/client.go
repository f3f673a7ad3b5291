package api

import (
	"context"

	"github.com/vilaca/github-issues/internal/domain"
)

// IssueSource fetches every issue record of one repository, open and closed,
// pull requests included. Pagination and authentication are the source's concern.
type IssueSource interface {
	// GetIssues returns all issue records of owner/component.
	GetIssues(ctx context.Context, owner, component string) ([]domain.Issue, error)
}

// ClientConfig holds common configuration for API clients.
type ClientConfig struct {
	BaseURL  string
	Token    string
	PageSize int // defaults to DefaultPageSize
}

// PageSizeOrDefault returns the configured page size, bounded to the
// maximum both trackers accept.
func (c ClientConfig) PageSizeOrDefault() int {
	if c.PageSize <= 0 || c.PageSize > MaxPageSize {
		return DefaultPageSize
	}
	return c.PageSize
}
