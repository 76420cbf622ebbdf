package stagelist

import (
	"context"
	"strings"

	"github.com/YoshitsuguKoike/stagelist/internal/application/dto"
	"github.com/YoshitsuguKoike/stagelist/internal/application/port/output"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/failure"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/checklist"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/list"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/service/extract"
)

const (
	MsgEmptyResult   = "result was empty"
	MsgNoSubtasks    = "could not extract sub-tasks"
	MsgUpstream      = "generation failed"
	MsgItemBusy      = "a decomposition is already running for this item"
	MsgNothingToSend = "nothing to send: the item has no text"
)

// AddItem prepends a root task.
func (s *Service) AddItem(ctx context.Context, listID, text, category string) (*checklist.Item, error) {
	var added checklist.Item
	_, err := s.mutate(ctx, listID, "add", func(doc *list.Document, env list.Env) error {
		it, err := doc.AddTask(text, category, env)
		added = it
		return err
	})
	if err != nil {
		return nil, err
	}
	return &added, nil
}

// itemOp resolves ref inside the mutation and applies fn to the item id.
func (s *Service) itemOp(ctx context.Context, listID, ref, op string, fn func(doc *list.Document, id string, env list.Env) (checklist.Item, error)) (*checklist.Item, error) {
	var out checklist.Item
	_, err := s.mutate(ctx, listID, op, func(doc *list.Document, env list.Env) error {
		it, err := resolveItem(doc, ref)
		if err != nil {
			return err
		}
		out, err = fn(doc, it.ID, env)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateItem patches an item's text or category.
func (s *Service) UpdateItem(ctx context.Context, listID, ref string, patch checklist.Patch) (*checklist.Item, error) {
	return s.itemOp(ctx, listID, ref, "update", func(doc *list.Document, id string, env list.Env) (checklist.Item, error) {
		return doc.UpdateItem(id, patch, env)
	})
}

// ToggleItem flips a task's done flag.
func (s *Service) ToggleItem(ctx context.Context, listID, ref string) (*checklist.Item, error) {
	return s.itemOp(ctx, listID, ref, "toggle", func(doc *list.Document, id string, env list.Env) (checklist.Item, error) {
		return doc.ToggleDone(id, env)
	})
}

// SetUnknown toggles the unknown status.
func (s *Service) SetUnknown(ctx context.Context, listID, ref string) (*checklist.Item, error) {
	return s.itemOp(ctx, listID, ref, "unknown", func(doc *list.Document, id string, env list.Env) (checklist.Item, error) {
		return doc.SetStatus(id, checklist.StatusUnknown, env)
	})
}

// SetLater toggles the later status.
func (s *Service) SetLater(ctx context.Context, listID, ref string) (*checklist.Item, error) {
	return s.itemOp(ctx, listID, ref, "later", func(doc *list.Document, id string, env list.Env) (checklist.Item, error) {
		return doc.SetStatus(id, checklist.StatusLater, env)
	})
}

// DeleteItem removes an item and its descendants.
func (s *Service) DeleteItem(ctx context.Context, listID, ref string) ([]checklist.Item, error) {
	var removed []checklist.Item
	_, err := s.mutate(ctx, listID, "delete", func(doc *list.Document, env list.Env) error {
		it, err := resolveItem(doc, ref)
		if err != nil {
			return err
		}
		removed, err = doc.DeleteItem(it.ID, env)
		return err
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func busyKey(listID, itemID string) string {
	return listID + "\x00" + itemID
}

// IsBusy reports whether a decomposition is in flight for the item.
func (s *Service) IsBusy(listID, itemID string) bool {
	_, ok := s.busy.Get(busyKey(listID, itemID))
	return ok
}

// DecomposeItem asks the generation service for sub-tasks of one item and
// applies them. The item is marked busy for the duration of the call; the
// list itself stays unlocked so other operations can proceed. Nothing is
// changed unless the call succeeds and yields at least one sub-task.
func (s *Service) DecomposeItem(ctx context.Context, listID, ref string) (*dto.DecomposeResult, error) {
	// 1. Resolve the item and build the prompt from a consistent read
	doc, err := s.read(ctx, listID)
	if err != nil {
		return nil, err
	}
	item, err := resolveItem(doc, ref)
	if err != nil {
		return nil, err
	}
	if !item.IsTask() {
		return nil, failure.Newf(failure.KindInvalid, "item %s is already decomposed", item.ID)
	}
	if strings.TrimSpace(item.Text) == "" {
		return nil, failure.New(failure.KindInputEmpty, MsgNothingToSend)
	}

	// 2. Claim the item
	key := busyKey(listID, item.ID)
	if !s.busy.SetIfAbsent(key, s.now()) {
		return nil, failure.New(failure.KindBusy, MsgItemBusy)
	}
	defer s.busy.Delete(key)

	promptText, err := s.prompts.Decompose(doc, item)
	if err != nil {
		return nil, err
	}

	// 3. Call the generation service without holding the list lock
	resp, err := s.generate(ctx, output.PurposeDecompose, promptText, listID)
	if err != nil {
		return nil, err
	}
	subtasks := extract.Subtasks(resp.Text, s.canonicalizer)
	if len(subtasks) == 0 {
		return nil, failure.New(failure.KindUnparsable, MsgNoSubtasks)
	}
	if len(subtasks) < extract.MinSubtasks {
		s.logger.Warn().Str("list", listID).Str("item", item.ID).Int("subtasks", len(subtasks)).
			Msg("decomposition returned fewer sub-tasks than requested")
	}

	// 4. Apply against the current document
	var result dto.DecomposeResult
	_, err = s.mutate(ctx, listID, "decompose", func(doc *list.Document, env list.Env) error {
		children, err := doc.ApplyDecomposition(item.ID, subtasks, env)
		if err != nil {
			return err
		}
		parent, _ := doc.Checklist.Find(item.ID)
		result = dto.DecomposeResult{Parent: parent, Children: children, Backend: resp.Backend}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("list", listID).Str("item", item.ID).Int("subtasks", len(result.Children)).Msg("item decomposed")
	return &result, nil
}

// generate calls the gateway and maps its failures onto the taxonomy.
func (s *Service) generate(ctx context.Context, purpose output.GenerationPurpose, promptText, listID string) (*output.GenerationResponse, error) {
	resp, err := s.gateway.Generate(ctx, output.GenerationRequest{
		Purpose:     purpose,
		Prompt:      promptText,
		Timeout:     s.generation.Timeout,
		MaxTokens:   s.generation.MaxTokens,
		Temperature: s.generation.Temperature,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("list", listID).Str("purpose", string(purpose)).Msg("generation failed")
		return nil, failure.Wrap(failure.KindUpstream, MsgUpstream, err)
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return nil, failure.New(failure.KindEmptyResult, MsgEmptyResult)
	}
	s.logger.Debug().Str("list", listID).Str("purpose", string(purpose)).
		Str("backend", resp.Backend).Dur("duration", resp.Duration).Msg("generation finished")
	return resp, nil
}
