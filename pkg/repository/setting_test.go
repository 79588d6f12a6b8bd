package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/pulseboard/pkg/domain/interfaces"
	"github.com/secmon-lab/pulseboard/pkg/domain/model"
	"github.com/secmon-lab/pulseboard/pkg/repository/memory"
)

func runSettingRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Get returns not ok for missing key", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, ok, err := repo.Setting().Get(ctx, "missing")
		gt.NoError(t, err).Required()
		gt.Bool(t, ok).False()
	})

	t.Run("Put then Get", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Setting().Put(ctx, model.SettingGitHubRepo, "https://github.com/acme/rocket")).Required()

		value, ok, err := repo.Setting().Get(ctx, model.SettingGitHubRepo)
		gt.NoError(t, err).Required()
		gt.Bool(t, ok).True()
		gt.Value(t, value).Equal("https://github.com/acme/rocket")
	})

	t.Run("Put overwrites existing value", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Setting().Put(ctx, model.SettingGitHubRepo, "https://github.com/acme/rocket")).Required()
		gt.NoError(t, repo.Setting().Put(ctx, model.SettingGitHubRepo, "https://github.com/acme/booster")).Required()

		value, ok, err := repo.Setting().Get(ctx, model.SettingGitHubRepo)
		gt.NoError(t, err).Required()
		gt.Bool(t, ok).True()
		gt.Value(t, value).Equal("https://github.com/acme/booster")
	})

	t.Run("List returns all entries", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Setting().Put(ctx, "alpha", "1")).Required()
		gt.NoError(t, repo.Setting().Put(ctx, "beta", "2")).Required()

		values, err := repo.Setting().List(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, len(values)).Equal(2)
		gt.Value(t, values["alpha"]).Equal("1")
		gt.Value(t, values["beta"]).Equal("2")
	})
}

func TestSettingRepository_Memory(t *testing.T) {
	runSettingRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestSettingRepository_Firestore(t *testing.T) {
	runSettingRepositoryTest(t, newFirestoreRepo)
}
