package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/vilaca/github-issues/internal/api"
	"github.com/vilaca/github-issues/internal/domain"
)

// Client implements api.IssueSource for GitLab.
type Client struct {
	base     *api.BaseClient
	token    string
	pageSize int
}

// NewClient creates a new GitLab client.
// Uses dependency injection for HTTPClient (IoC).
func NewClient(config api.ClientConfig, httpClient api.HTTPClient, logger *zap.Logger) *Client {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://gitlab.com"
	}

	return &Client{
		base:     api.NewBaseClient(baseURL, httpClient, logger),
		token:    config.Token,
		pageSize: config.PageSizeOrDefault(),
	}
}

// GetIssues retrieves every issue of the project owner/component, open and
// closed, following X-Next-Page across pages.
func (c *Client) GetIssues(ctx context.Context, owner, component string) ([]domain.Issue, error) {
	projectPath := owner + "/" + component
	repositoryURL := fmt.Sprintf("%s/%s", c.base.BaseURL, projectPath)

	var issues []domain.Issue
	for page := 1; page > 0; {
		if page > api.MaxPages {
			return nil, fmt.Errorf("failed to get issues: more than %d pages", api.MaxPages)
		}

		endpoint := fmt.Sprintf("%s/api/v4/projects/%s/issues?scope=all&per_page=%d&page=%d",
			c.base.BaseURL, url.PathEscape(projectPath), c.pageSize, page)

		var glIssues []gitlabIssue
		header, err := c.doRequest(ctx, endpoint, &glIssues)
		if err != nil {
			return nil, fmt.Errorf("failed to get issues: %w", err)
		}

		for _, gli := range glIssues {
			issue, err := convertIssue(gli, repositoryURL)
			if err != nil {
				return nil, fmt.Errorf("failed to convert issue #%d: %w", gli.IID, err)
			}
			issues = append(issues, issue)
		}

		c.base.Logger.Debug("fetched issue page",
			zap.String("repository", projectPath),
			zap.Int("page", page),
			zap.Int("count", len(glIssues)))

		page = nextPage(header.Get("X-Next-Page"))
	}

	return issues, nil
}

// doRequest performs an HTTP request to GitLab API.
func (c *Client) doRequest(ctx context.Context, endpoint string, result interface{}) (http.Header, error) {
	headers := map[string]string{
		"Accept": "application/json",
	}
	if c.token != "" {
		headers["PRIVATE-TOKEN"] = c.token
	}
	return c.base.GetJSON(ctx, endpoint, headers, result)
}

// nextPage returns the next page number, or 0 on the last page.
func nextPage(header string) int {
	n, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// convertIssue converts a GitLab issue to domain model. GitLab keeps merge
// requests out of the issues API, so PullRequest is always nil.
func convertIssue(gli gitlabIssue, repositoryURL string) (domain.Issue, error) {
	state, err := convertState(gli.State)
	if err != nil {
		return domain.Issue{}, err
	}

	issue := domain.Issue{
		Title:         gli.Title,
		HTMLURL:       gli.WebURL,
		Number:        gli.IID,
		RepositoryURL: repositoryURL,
		State:         state,
		CreatedAt:     gli.CreatedAt,
		ClosedAt:      gli.ClosedAt,
	}

	switch {
	case gli.Assignee != nil:
		issue.Assignee = &domain.User{Login: gli.Assignee.Username}
	case len(gli.Assignees) > 0:
		issue.Assignee = &domain.User{Login: gli.Assignees[0].Username}
	}
	if gli.Milestone != nil {
		issue.Milestone = &domain.Milestone{Title: gli.Milestone.Title}
	}
	if gli.Labels != nil {
		issue.Labels = make([]domain.Label, len(gli.Labels))
		for i, name := range gli.Labels {
			issue.Labels[i] = domain.Label{Name: name}
		}
	}
	return issue, nil
}

// convertState converts GitLab issue state to domain raw state.
func convertState(glState string) (domain.RawState, error) {
	switch glState {
	case "opened":
		return domain.RawStateOpen, nil
	case "closed":
		return domain.RawStateClosed, nil
	default:
		return "", fmt.Errorf("unknown issue state %q", glState)
	}
}

// GitLab API response types
type gitlabIssue struct {
	IID       int              `json:"iid"`
	Title     string           `json:"title"`
	WebURL    string           `json:"web_url"`
	State     string           `json:"state"`
	Labels    []string         `json:"labels"`
	Assignee  *gitlabUser      `json:"assignee"`
	Assignees []gitlabUser     `json:"assignees"`
	Milestone *gitlabMilestone `json:"milestone"`
	CreatedAt string           `json:"created_at"`
	ClosedAt  *string          `json:"closed_at"`
}

type gitlabUser struct {
	Username string `json:"username"`
}

type gitlabMilestone struct {
	Title string `json:"title"`
}
