package github

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	github "github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulseboard/pkg/domain/model"
	"golang.org/x/sync/errgroup"
)

// fetchLimit is the number of commits and pull requests retrieved per
// stats request.
const fetchLimit = 10

var repoURLPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)`)

// ParseRepoURL extracts the owner and repository name from a GitHub URL.
// A trailing ".git" suffix on the repository name is stripped.
func ParseRepoURL(repoURL string) (owner, repo string, ok bool) {
	m := repoURLPattern.FindStringSubmatch(repoURL)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSuffix(m[2], ".git"), true
}

// Service fetches activity statistics for a repository.
type Service interface {
	FetchStats(ctx context.Context, owner, repo string) (*model.RepoStats, error)
}

type client struct {
	gh *github.Client
}

type config struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	appID          int64
	installationID int64
	privateKey     string
}

type Option func(*config)

// WithToken authenticates requests with a personal access token.
func WithToken(token string) Option {
	return func(c *config) {
		c.token = token
	}
}

// WithAppAuth authenticates requests as a GitHub App installation.
// privateKey can be a PEM string or a path to a PEM file.
func WithAppAuth(appID, installationID int64, privateKey string) Option {
	return func(c *config) {
		c.appID = appID
		c.installationID = installationID
		c.privateKey = privateKey
	}
}

// WithBaseURL points the client at an alternate API endpoint, mainly for
// tests.
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used for API requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *config) {
		c.httpClient = httpClient
	}
}

// New creates a GitHub stats service. Without auth options the client
// issues anonymous requests, which works for public repositories within
// the unauthenticated rate limit.
func New(opts ...Option) (Service, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	httpClient := cfg.httpClient

	if cfg.appID != 0 {
		var key []byte
		// #nosec G304 -- path comes from CLI flag, not user input
		if data, err := os.ReadFile(cfg.privateKey); err == nil {
			key = data
		} else {
			key = []byte(cfg.privateKey)
		}

		base := http.DefaultTransport
		if httpClient != nil && httpClient.Transport != nil {
			base = httpClient.Transport
		}
		tr, err := ghinstallation.New(base, cfg.appID, cfg.installationID, key)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create GitHub App transport")
		}
		httpClient = &http.Client{Transport: tr}
	}

	gh := github.NewClient(httpClient)
	if cfg.token != "" {
		gh = gh.WithAuthToken(cfg.token)
	}
	if cfg.baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(cfg.baseURL, "/") + "/")
		if err != nil {
			return nil, goerr.Wrap(err, "invalid base URL", goerr.V("base_url", cfg.baseURL))
		}
		gh.BaseURL = u
	}

	return &client{gh: gh}, nil
}

// FetchStats retrieves the most recent commits and pull requests for the
// repository. The two upstream calls run concurrently and the request
// fails as a whole if either one fails.
func (c *client) FetchStats(ctx context.Context, owner, repo string) (*model.RepoStats, error) {
	stats := &model.RepoStats{
		Owner: owner,
		Repo:  repo,
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		commits, _, err := c.gh.Repositories.ListCommits(ctx, owner, repo, &github.CommitsListOptions{
			ListOptions: github.ListOptions{PerPage: fetchLimit},
		})
		if err != nil {
			return goerr.Wrap(err, "failed to list commits",
				goerr.V("owner", owner), goerr.V("repo", repo))
		}
		stats.Commits = make([]model.Commit, 0, len(commits))
		for _, rc := range commits {
			stats.Commits = append(stats.Commits, model.Commit{
				SHA:     rc.GetSHA(),
				Message: rc.GetCommit().GetMessage(),
				Author:  rc.GetCommit().GetAuthor().GetName(),
				Date:    rc.GetCommit().GetAuthor().GetDate().Format(time.RFC3339),
				URL:     rc.GetHTMLURL(),
			})
		}
		return nil
	})

	eg.Go(func() error {
		pulls, _, err := c.gh.PullRequests.List(ctx, owner, repo, &github.PullRequestListOptions{
			State:       "all",
			ListOptions: github.ListOptions{PerPage: fetchLimit},
		})
		if err != nil {
			return goerr.Wrap(err, "failed to list pull requests",
				goerr.V("owner", owner), goerr.V("repo", repo))
		}
		stats.Pulls = make([]model.PullRequest, 0, len(pulls))
		for _, pr := range pulls {
			stats.Pulls = append(stats.Pulls, model.PullRequest{
				ID:        int64(pr.GetNumber()),
				Title:     pr.GetTitle(),
				User:      pr.GetUser().GetLogin(),
				State:     pr.GetState(),
				CreatedAt: pr.GetCreatedAt().Format(time.RFC3339),
				URL:       pr.GetHTMLURL(),
			})
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return stats, nil
}
