package github_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/pulseboard/pkg/service/github"
)

func TestParseRepoURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		owner string
		repo  string
		ok    bool
	}{
		{"https URL", "https://github.com/acme/rocket", "acme", "rocket", true},
		{"trailing .git", "https://github.com/acme/rocket.git", "acme", "rocket", true},
		{"no scheme", "github.com/acme/rocket", "acme", "rocket", true},
		{"extra path", "https://github.com/acme/rocket/pulls", "acme", "rocket", true},
		{"not github", "https://gitlab.com/acme/rocket", "", "", false},
		{"missing repo", "https://github.com/acme", "", "", false},
		{"empty", "", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			owner, repo, ok := github.ParseRepoURL(tc.input)
			gt.Value(t, ok).Equal(tc.ok)
			gt.Value(t, owner).Equal(tc.owner)
			gt.Value(t, repo).Equal(tc.repo)
		})
	}
}

const commitsJSON = `[
  {
    "sha": "abc123",
    "html_url": "https://github.com/acme/rocket/commit/abc123",
    "commit": {
      "message": "Fix launch sequence",
      "author": {"name": "Alice", "date": "2025-06-01T12:00:00Z"}
    }
  }
]`

const pullsJSON = `[
  {
    "number": 42,
    "title": "Add telemetry",
    "state": "open",
    "html_url": "https://github.com/acme/rocket/pull/42",
    "created_at": "2025-06-02T09:00:00Z",
    "user": {"login": "bob"}
  }
]`

func TestFetchStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/repos/acme/rocket/commits":
			gt.Value(t, r.URL.Query().Get("per_page")).Equal("10")
			_, _ = w.Write([]byte(commitsJSON))
		case "/repos/acme/rocket/pulls":
			gt.Value(t, r.URL.Query().Get("state")).Equal("all")
			gt.Value(t, r.URL.Query().Get("per_page")).Equal("10")
			_, _ = w.Write([]byte(pullsJSON))
		default:
			t.Errorf("unexpected request path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	svc, err := github.New(github.WithBaseURL(srv.URL))
	gt.NoError(t, err).Required()

	stats, err := svc.FetchStats(context.Background(), "acme", "rocket")
	gt.NoError(t, err).Required()

	gt.Value(t, stats.Owner).Equal("acme")
	gt.Value(t, stats.Repo).Equal("rocket")

	gt.Number(t, len(stats.Commits)).Equal(1)
	gt.Value(t, stats.Commits[0].SHA).Equal("abc123")
	gt.Value(t, stats.Commits[0].Message).Equal("Fix launch sequence")
	gt.Value(t, stats.Commits[0].Author).Equal("Alice")
	gt.Value(t, stats.Commits[0].URL).Equal("https://github.com/acme/rocket/commit/abc123")

	gt.Number(t, len(stats.Pulls)).Equal(1)
	gt.Value(t, stats.Pulls[0].ID).Equal(int64(42))
	gt.Value(t, stats.Pulls[0].Title).Equal("Add telemetry")
	gt.Value(t, stats.Pulls[0].User).Equal("bob")
	gt.Value(t, stats.Pulls[0].State).Equal("open")
}

func TestFetchStatsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/rocket/commits":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(commitsJSON))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	t.Cleanup(srv.Close)

	svc, err := github.New(github.WithBaseURL(srv.URL))
	gt.NoError(t, err).Required()

	// A failure in either upstream call fails the whole request.
	_, err = svc.FetchStats(context.Background(), "acme", "rocket")
	gt.Error(t, err)
}
