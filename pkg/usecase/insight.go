package usecase

import (
	"context"

	"github.com/secmon-lab/pulseboard/pkg/service/insight"
	"github.com/secmon-lab/pulseboard/pkg/utils/errutil"
)

// FallbackSummary is returned whenever a narrative summary cannot be
// produced. The summary is a non-critical enhancement, so failures never
// propagate to the caller.
const FallbackSummary = "Failed to generate project pulse summary."

// InsightUseCase produces a narrative summary of the current board state.
type InsightUseCase struct {
	board      *BoardUseCase
	stats      *StatsUseCase
	summarizer *insight.Service
}

func NewInsightUseCase(board *BoardUseCase, stats *StatsUseCase, summarizer *insight.Service) *InsightUseCase {
	return &InsightUseCase{
		board:      board,
		stats:      stats,
		summarizer: summarizer,
	}
}

// Summarize gathers the current snapshot and asks the language model for
// a short narrative. Repository stats are included when the stats feature
// is configured and reachable; a stats failure only drops that section.
// Any other failure degrades to FallbackSummary.
func (uc *InsightUseCase) Summarize(ctx context.Context) string {
	if uc.summarizer == nil {
		return FallbackSummary
	}

	snapshot, err := uc.board.Snapshot(ctx)
	if err != nil {
		errutil.Handle(ctx, err, "failed to gather snapshot for summary")
		return FallbackSummary
	}

	input := &insight.SummaryInput{
		Tasks:    snapshot.Tasks,
		Blockers: snapshot.Blockers,
		Activity: snapshot.Activity,
	}

	if stats, err := uc.stats.FetchRepoStats(ctx); err == nil {
		input.Stats = stats
	}

	summary, err := uc.summarizer.Summarize(ctx, input)
	if err != nil {
		errutil.Handle(ctx, err, "failed to generate summary")
		return FallbackSummary
	}

	return summary
}
