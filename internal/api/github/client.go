package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/vilaca/github-issues/internal/api"
	"github.com/vilaca/github-issues/internal/domain"
)

// Client implements api.IssueSource for GitHub.
type Client struct {
	base     *api.BaseClient
	token    string
	pageSize int
}

// NewClient creates a new GitHub client.
// Uses dependency injection for HTTPClient (IoC).
func NewClient(config api.ClientConfig, httpClient api.HTTPClient, logger *zap.Logger) *Client {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}

	return &Client{
		base:     api.NewBaseClient(baseURL, httpClient, logger),
		token:    config.Token,
		pageSize: config.PageSizeOrDefault(),
	}
}

// GetIssues retrieves every issue of owner/component, open and closed,
// following the Link header across pages. Pull requests are included; the
// caller filters them.
func (c *Client) GetIssues(ctx context.Context, owner, component string) ([]domain.Issue, error) {
	next := fmt.Sprintf("%s/repos/%s/%s/issues?state=all&per_page=%d",
		c.base.BaseURL, url.PathEscape(owner), url.PathEscape(component), c.pageSize)

	var issues []domain.Issue
	for page := 1; next != ""; page++ {
		if page > api.MaxPages {
			return nil, fmt.Errorf("failed to get issues: more than %d pages", api.MaxPages)
		}

		var ghIssues []githubIssue
		header, err := c.doRequest(ctx, next, &ghIssues)
		if err != nil {
			return nil, fmt.Errorf("failed to get issues: %w", err)
		}

		for _, ghi := range ghIssues {
			issue, err := convertIssue(ghi)
			if err != nil {
				return nil, fmt.Errorf("failed to convert issue #%d: %w", ghi.Number, err)
			}
			issues = append(issues, issue)
		}

		c.base.Logger.Debug("fetched issue page",
			zap.String("repository", owner+"/"+component),
			zap.Int("page", page),
			zap.Int("count", len(ghIssues)))

		next = nextLink(header.Get("Link"))
	}

	return issues, nil
}

// doRequest performs an HTTP request to GitHub API.
func (c *Client) doRequest(ctx context.Context, endpoint string, result interface{}) (http.Header, error) {
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}
	if c.token != "" {
		headers["Authorization"] = fmt.Sprintf("Bearer %s", c.token)
	}
	return c.base.GetJSON(ctx, endpoint, headers, result)
}

// nextLink extracts the rel="next" URL from a Link header, e.g.
// <https://api.github.com/...&page=2>; rel="next", <...>; rel="last"
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		segments := strings.Split(part, ";")
		if len(segments) < 2 {
			continue
		}
		target := strings.TrimSpace(segments[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		for _, param := range segments[1:] {
			if strings.TrimSpace(param) == `rel="next"` {
				return strings.Trim(target, "<>")
			}
		}
	}
	return ""
}

// convertIssue converts a GitHub issue to domain model.
func convertIssue(ghi githubIssue) (domain.Issue, error) {
	state, err := convertState(ghi.State)
	if err != nil {
		return domain.Issue{}, err
	}

	issue := domain.Issue{
		Title:         ghi.Title,
		HTMLURL:       ghi.HTMLURL,
		Number:        ghi.Number,
		RepositoryURL: ghi.RepositoryURL,
		State:         state,
		CreatedAt:     ghi.CreatedAt,
		ClosedAt:      ghi.ClosedAt,
	}
	if ghi.PullRequest != nil {
		issue.PullRequest = &domain.PullRequestRef{URL: ghi.PullRequest.URL, HTMLURL: ghi.PullRequest.HTMLURL}
	}
	if ghi.Assignee != nil {
		issue.Assignee = &domain.User{Login: ghi.Assignee.Login}
	}
	if ghi.Milestone != nil {
		issue.Milestone = &domain.Milestone{Title: ghi.Milestone.Title}
	}
	if ghi.Labels != nil {
		issue.Labels = make([]domain.Label, len(ghi.Labels))
		for i, l := range ghi.Labels {
			issue.Labels[i] = domain.Label{Name: l.Name}
		}
	}
	return issue, nil
}

// convertState converts GitHub issue state to domain raw state.
func convertState(state string) (domain.RawState, error) {
	switch state {
	case "open":
		return domain.RawStateOpen, nil
	case "closed":
		return domain.RawStateClosed, nil
	default:
		return "", fmt.Errorf("unknown issue state %q", state)
	}
}

// GitHub API response types
type githubIssue struct {
	Title         string             `json:"title"`
	HTMLURL       string             `json:"html_url"`
	Number        int                `json:"number"`
	RepositoryURL string             `json:"repository_url"`
	PullRequest   *githubPullRequest `json:"pull_request"`
	Assignee      *githubUser        `json:"assignee"`
	Milestone     *githubMilestone   `json:"milestone"`
	Labels        []githubLabel      `json:"labels"`
	State         string             `json:"state"`
	CreatedAt     string             `json:"created_at"`
	ClosedAt      *string            `json:"closed_at"`
}

type githubPullRequest struct {
	URL     string `json:"url"`
	HTMLURL string `json:"html_url"`
}

type githubUser struct {
	Login string `json:"login"`
}

type githubMilestone struct {
	Title string `json:"title"`
}

type githubLabel struct {
	Name string `json:"name"`
}
