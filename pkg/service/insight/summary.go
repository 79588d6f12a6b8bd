package insight

import (
	"context"
	_ "embed"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/pulseboard/pkg/domain/model"
)

//go:embed prompt/summary.md
var summaryPromptRaw string

var summaryPromptTmpl = template.Must(template.New("summary").Parse(summaryPromptRaw))

// SummaryInput is the board state handed to the language model. Stats is
// optional; when nil the repository section is omitted from the prompt.
type SummaryInput struct {
	Tasks    []*model.Task
	Blockers []*model.Blocker
	Activity []*model.ActivityRecord
	Stats    *model.RepoStats
}

// Service generates narrative board summaries via a language model.
type Service struct {
	llm gollem.LLMClient
}

func New(llm gollem.LLMClient) *Service {
	return &Service{llm: llm}
}

// Summarize renders the board state into a prompt and asks the model for
// a short narrative. It is a pure function of its input: no caching, no
// stored state.
func (s *Service) Summarize(ctx context.Context, input *SummaryInput) (string, error) {
	var prompt strings.Builder
	if err := summaryPromptTmpl.Execute(&prompt, input); err != nil {
		return "", goerr.Wrap(err, "failed to render summary prompt")
	}

	session, err := s.llm.NewSession(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt.String()))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate summary")
	}
	if len(resp.Texts) == 0 {
		return "", goerr.New("summary generation returned empty result")
	}

	return strings.TrimSpace(strings.Join(resp.Texts, "\n")), nil
}
