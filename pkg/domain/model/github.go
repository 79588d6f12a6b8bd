package model

// Commit is a normalized view of a repository commit
type Commit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	URL     string `json:"url"`
}

// PullRequest is a normalized view of a repository pull request
type PullRequest struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	User      string `json:"user"`
	State     string `json:"state"`
	CreatedAt string `json:"created_at"`
	URL       string `json:"url"`
}

// RepoStats is the aggregated repository activity shown on the dashboard.
// Both lists are populated or the whole fetch fails; partial results are
// never surfaced.
type RepoStats struct {
	Owner   string        `json:"owner"`
	Repo    string        `json:"repo"`
	Commits []Commit      `json:"commits"`
	Pulls   []PullRequest `json:"pulls"`
}
