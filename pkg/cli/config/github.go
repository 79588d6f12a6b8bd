package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulseboard/pkg/service/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds configuration for the repository stats fetcher. The
// fetcher works anonymously for public repositories; a token or GitHub
// App credentials raise the rate limit.
type GitHub struct {
	token          string
	appID          int
	installationID int
	privateKey     string
}

// Flags returns CLI flags for GitHub configuration
func (g *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub personal access token",
			Sources:     cli.EnvVars("PULSEBOARD_GITHUB_TOKEN"),
			Destination: &g.token,
		},
		&cli.IntFlag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Sources:     cli.EnvVars("PULSEBOARD_GITHUB_APP_ID"),
			Destination: &g.appID,
		},
		&cli.IntFlag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App Installation ID",
			Sources:     cli.EnvVars("PULSEBOARD_GITHUB_APP_INSTALLATION_ID"),
			Destination: &g.installationID,
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App Private Key (PEM string or file path)",
			Sources:     cli.EnvVars("PULSEBOARD_GITHUB_APP_PRIVATE_KEY"),
			Destination: &g.privateKey,
		},
	}
}

// LogAttrs returns log attributes for the GitHub configuration (secrets hidden)
func (g *GitHub) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Bool("token_set", g.token != ""),
		slog.Int("app_id", g.appID),
		slog.Int("installation_id", g.installationID),
	}
}

// IsAppConfigured returns true if all GitHub App flags are set
func (g *GitHub) IsAppConfigured() bool {
	return g.appID != 0 && g.installationID != 0 && g.privateKey != ""
}

// Configure creates the GitHub stats service. Without credentials the
// service issues anonymous requests.
func (g *GitHub) Configure() (github.Service, error) {
	var opts []github.Option
	switch {
	case g.IsAppConfigured():
		opts = append(opts, github.WithAppAuth(int64(g.appID), int64(g.installationID), g.privateKey))
	case g.token != "":
		opts = append(opts, github.WithToken(g.token))
	}

	svc, err := github.New(opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub service")
	}

	return svc, nil
}
