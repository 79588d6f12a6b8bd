package usecase

import (
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/pulseboard/pkg/domain/interfaces"
	"github.com/secmon-lab/pulseboard/pkg/service/github"
	"github.com/secmon-lab/pulseboard/pkg/service/hub"
	"github.com/secmon-lab/pulseboard/pkg/service/insight"
)

type UseCases struct {
	repo      interfaces.Repository
	publisher hub.Publisher
	githubSvc github.Service
	llmClient gollem.LLMClient

	Board   *BoardUseCase
	Stats   *StatsUseCase
	Insight *InsightUseCase
}

type Option func(*UseCases)

// WithPublisher wires the event broadcaster. Without it mutations still
// persist but no realtime events are delivered.
func WithPublisher(p hub.Publisher) Option {
	return func(uc *UseCases) {
		uc.publisher = p
	}
}

// WithGitHub wires the repository stats fetcher.
func WithGitHub(svc github.Service) Option {
	return func(uc *UseCases) {
		uc.githubSvc = svc
	}
}

// WithLLM wires the language model used for board summaries.
func WithLLM(llm gollem.LLMClient) Option {
	return func(uc *UseCases) {
		uc.llmClient = llm
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	var summarizer *insight.Service
	if uc.llmClient != nil {
		summarizer = insight.New(uc.llmClient)
	}

	uc.Board = NewBoardUseCase(repo, uc.publisher)
	uc.Stats = NewStatsUseCase(repo, uc.githubSvc)
	uc.Insight = NewInsightUseCase(uc.Board, uc.Stats, summarizer)

	return uc
}
