package domain

// User is an account on the issue tracker.
type User struct {
	Login string `json:"login"`
}

// Milestone groups issues toward a release.
type Milestone struct {
	Title string `json:"title"`
}
