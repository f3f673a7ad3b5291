package domain

// RawState is the lifecycle state reported by the issue tracker.
type RawState string

const (
	RawStateOpen   RawState = "open"
	RawStateClosed RawState = "closed"
)

// Label is a named tag attached to an issue.
type Label struct {
	Name string `json:"name"`
}

// PullRequestRef links an issue record to a pull request.
// GitHub returns pull requests from the issues endpoint; a non-nil
// reference marks the record as a pull request rather than an issue.
type PullRequestRef struct {
	URL     string `json:"url"`
	HTMLURL string `json:"html_url"`
}

// Issue represents an issue record fetched from GitHub or GitLab.
// Issues are never mutated after decoding.
type Issue struct {
	Title         string
	HTMLURL       string
	Number        int
	RepositoryURL string
	PullRequest   *PullRequestRef
	Assignee      *User
	Milestone     *Milestone
	Labels        []Label // nil when the tracker returned no label set
	State         RawState
	CreatedAt     string
	ClosedAt      *string
}

// IsPullRequest reports whether the record is a pull request.
func (i Issue) IsPullRequest() bool {
	return i.PullRequest != nil
}

// HasLabel reports whether the issue carries a label with exactly the given name.
func (i Issue) HasLabel(name string) bool {
	for _, l := range i.Labels {
		if l.Name == name {
			return true
		}
	}
	return false
}

// AssigneeLogin returns the assignee login, or "" when unassigned.
func (i Issue) AssigneeLogin() string {
	if i.Assignee == nil {
		return ""
	}
	return i.Assignee.Login
}
