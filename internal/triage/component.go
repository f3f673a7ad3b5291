package triage

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vilaca/github-issues/internal/domain"
)

// ResolveComponent returns the last path segment of a repository URL,
// e.g. "https://api.github.com/repos/acme/widgets" -> "widgets".
func ResolveComponent(repositoryURL string) (string, error) {
	u, err := url.Parse(repositoryURL)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", domain.ErrMalformedRepositoryURL, repositoryURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q is not an absolute url", domain.ErrMalformedRepositoryURL, repositoryURL)
	}

	path := strings.Trim(u.Path, "/")
	if path == "" {
		return "", fmt.Errorf("%w: %q has no path segments", domain.ErrMalformedRepositoryURL, repositoryURL)
	}

	segments := strings.Split(path, "/")
	return segments[len(segments)-1], nil
}
