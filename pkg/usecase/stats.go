package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulseboard/pkg/domain/interfaces"
	"github.com/secmon-lab/pulseboard/pkg/domain/model"
	"github.com/secmon-lab/pulseboard/pkg/service/github"
)

// StatsUseCase resolves the configured repository URL and fetches its
// recent activity.
type StatsUseCase struct {
	repo      interfaces.Repository
	githubSvc github.Service
}

func NewStatsUseCase(repo interfaces.Repository, githubSvc github.Service) *StatsUseCase {
	return &StatsUseCase{
		repo:      repo,
		githubSvc: githubSvc,
	}
}

// FetchRepoStats reads the github_repo setting, parses it, and fetches
// recent commits and pull requests. It fails with ErrRepoNotConfigured
// when the setting is absent, ErrInvalidRepoURL when the URL cannot be
// parsed, and ErrGitHubUpstream when either upstream call fails.
func (uc *StatsUseCase) FetchRepoStats(ctx context.Context) (*model.RepoStats, error) {
	repoURL, ok, err := uc.repo.Setting().Get(ctx, model.SettingGitHubRepo)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read repo setting")
	}
	if !ok || repoURL == "" {
		return nil, goerr.Wrap(ErrRepoNotConfigured, "set the github_repo setting first")
	}

	owner, repo, ok := github.ParseRepoURL(repoURL)
	if !ok {
		return nil, goerr.Wrap(ErrInvalidRepoURL, "cannot parse repo URL", goerr.V("url", repoURL))
	}

	if uc.githubSvc == nil {
		return nil, goerr.Wrap(ErrGitHubUpstream, "GitHub service is not configured")
	}

	stats, err := uc.githubSvc.FetchStats(ctx, owner, repo)
	if err != nil {
		return nil, goerr.Wrap(ErrGitHubUpstream, "stats fetch failed",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("cause", err))
	}

	return stats, nil
}
