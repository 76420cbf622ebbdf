package stagelist

import (
	"context"

	"github.com/YoshitsuguKoike/stagelist/internal/application/dto"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/failure"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/list"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/parking"
)

func parkedView(doc *list.Document, includeResolved bool) []dto.ParkedDTO {
	var out []dto.ParkedDTO
	n := 0
	for _, it := range doc.Parked {
		if it.Resolved() {
			if includeResolved {
				out = append(out, dto.ParkedDTO{Item: it})
			}
			continue
		}
		n++
		out = append(out, dto.ParkedDTO{Item: it, Index: n})
	}
	return out
}

// resolveParked finds a parked key by "#n" position among active entries or
// by key.
func resolveParked(doc *list.Document, ref string) (string, error) {
	if n, ok := position(ref); ok {
		active := doc.Parked.Active()
		if n < 1 || n > len(active) {
			return "", failure.Newf(failure.KindNotFound, "no parked item at position %s", ref)
		}
		return active[n-1].Key, nil
	}
	return ref, nil
}

// ListParked returns the parking board, active entries first numbered.
func (s *Service) ListParked(ctx context.Context, listID string, includeResolved bool) ([]dto.ParkedDTO, error) {
	doc, err := s.read(ctx, listID)
	if err != nil {
		return nil, err
	}
	return parkedView(doc, includeResolved), nil
}

// ReviveParked brings a parked entry back into the active stage.
func (s *Service) ReviveParked(ctx context.Context, listID, ref string) (*dto.ReviveResult, error) {
	var result dto.ReviveResult
	_, err := s.mutate(ctx, listID, "revive", func(doc *list.Document, env list.Env) error {
		key, err := resolveParked(doc, ref)
		if err != nil {
			return err
		}
		it, created, err := doc.Revive(key, env)
		result = dto.ReviveResult{Item: it, Created: created}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ClearParked resolves a parked entry as cleared.
func (s *Service) ClearParked(ctx context.Context, listID, ref string) (*parking.Item, error) {
	var out parking.Item
	_, err := s.mutate(ctx, listID, "clear", func(doc *list.Document, env list.Env) error {
		key, err := resolveParked(doc, ref)
		if err != nil {
			return err
		}
		out, err = doc.ClearParked(key, env)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
