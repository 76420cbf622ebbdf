package stagelist

import (
	"context"
	"strings"

	"github.com/YoshitsuguKoike/stagelist/internal/application/dto"
	"github.com/YoshitsuguKoike/stagelist/internal/application/port/output"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/failure"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/list"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/service/extract"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/service/handoff"
)

const (
	MsgNoInput         = "nothing to analyze: write a draft or goals first"
	MsgNoCandidatesOut = "could not extract any candidate actions from the result"
)

// SetDraft replaces the draft text.
func (s *Service) SetDraft(ctx context.Context, listID, text string) error {
	_, err := s.mutate(ctx, listID, "draft", func(doc *list.Document, env list.Env) error {
		doc.SetDraft(text, env)
		return nil
	})
	return err
}

// SetGoals replaces the goals text.
func (s *Service) SetGoals(ctx context.Context, listID, text string) error {
	_, err := s.mutate(ctx, listID, "goals", func(doc *list.Document, env list.Env) error {
		doc.SetGoals(text, env)
		return nil
	})
	return err
}

// Analyze asks the generation service for a categorized action list and
// stores it as the list's analysis.
func (s *Service) Analyze(ctx context.Context, listID string) (*dto.AnalyzeResult, error) {
	// 1. Build the prompt
	doc, err := s.read(ctx, listID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.Draft) == "" && strings.TrimSpace(doc.Goals) == "" {
		return nil, failure.New(failure.KindInputEmpty, MsgNoInput)
	}
	promptText, err := s.prompts.Analyze(doc)
	if err != nil {
		return nil, err
	}

	// 2. Call the generation service
	resp, err := s.generate(ctx, output.PurposeAnalyze, promptText, listID)
	if err != nil {
		return nil, err
	}
	candidates := extract.Candidates(resp.Text, s.canonicalizer)
	if len(candidates) == 0 {
		return nil, failure.New(failure.KindUnparsable, MsgNoCandidatesOut)
	}

	// 3. Store
	result := &dto.AnalyzeResult{
		Candidates: len(candidates),
		Backend:    resp.Backend,
		Duration:   resp.Duration,
	}
	_, err = s.mutate(ctx, listID, "analyze", func(doc *list.Document, env list.Env) error {
		doc.SetAnalysis(resp.Text, env)
		result.Remaining = len(s.engine.Eligible(doc))
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("list", listID).Int("candidates", result.Candidates).Int("remaining", result.Remaining).Msg("analysis stored")
	return result, nil
}

// AdvanceStage moves the list to its next stage.
func (s *Service) AdvanceStage(ctx context.Context, listID string) (*dto.AdvanceResult, error) {
	var result dto.AdvanceResult
	_, err := s.mutate(ctx, listID, "advance", func(doc *list.Document, env list.Env) error {
		out, err := s.engine.Advance(doc, env)
		if err != nil {
			return err
		}
		result = dto.AdvanceResult{
			Stage:       out.Stage,
			Issued:      out.Issued,
			Remaining:   out.Remaining,
			CarriedOver: out.CarriedOver,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("list", listID).Int("stage", result.Stage).
		Int("issued", len(result.Issued)).Int("carried_over", len(result.CarriedOver)).Msg("stage advanced")
	return &result, nil
}

func (s *Service) metrics(doc *list.Document) dto.MetricsDTO {
	done, total := doc.Checklist.Counts()
	return dto.MetricsDTO{
		Stage:               doc.Stage,
		StageProgress:       doc.StageProgress(),
		LifetimeProgress:    doc.LifetimeProgress(),
		RemainingCandidates: len(s.engine.Eligible(doc)),
		CanAdvance:          s.engine.CanAdvance(doc.Checklist),
		Done:                done,
		Total:               total,
		ActiveParked:        len(doc.Parked.Active()),
		Snapshots:           len(doc.History),
	}
}

// Metrics returns the derived metrics of a list.
func (s *Service) Metrics(ctx context.Context, listID string) (*dto.MetricsDTO, error) {
	doc, err := s.read(ctx, listID)
	if err != nil {
		return nil, err
	}
	m := s.metrics(doc)
	return &m, nil
}

// Status returns the full view of a list.
func (s *Service) Status(ctx context.Context, listID string) (*dto.StatusDTO, error) {
	doc, err := s.read(ctx, listID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ItemDTO, len(doc.Checklist))
	for i, it := range doc.Checklist {
		items[i] = dto.ItemDTO{Item: it, Index: i + 1, Busy: s.IsBusy(listID, it.ID)}
	}
	return &dto.StatusDTO{
		ListID:    listID,
		Goals:     doc.Goals,
		Draft:     doc.Draft,
		Analysis:  doc.Analysis,
		Items:     items,
		Parked:    parkedView(doc, false),
		Metrics:   s.metrics(doc),
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// ComposeHandoff renders the hand-off document and stores it as the last
// issued prompt.
func (s *Service) ComposeHandoff(ctx context.Context, listID string, req dto.HandoffRequest) (string, error) {
	var text string
	_, err := s.mutate(ctx, listID, "handoff", func(doc *list.Document, env list.Env) error {
		text = handoff.Compose(handoff.Input{
			Draft:           doc.Draft,
			Analysis:        doc.Analysis,
			Goals:           doc.Goals,
			Checklist:       doc.Checklist,
			Stage:           doc.Stage,
			IncludeDraft:    req.IncludeDraft,
			IncludeAnalysis: req.IncludeAnalysis,
		})
		doc.SetIssuedPrompt(text, env)
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// Lists returns every stored list.
func (s *Service) Lists(ctx context.Context) ([]output.DocumentInfo, error) {
	return s.store.List(ctx)
}
