package stagelist

import (
	"context"

	"github.com/YoshitsuguKoike/stagelist/internal/application/dto"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/list"
)

func snapshotDTO(snap list.Snapshot) dto.SnapshotDTO {
	return dto.SnapshotDTO{
		ID:        snap.ID,
		Stage:     snap.Stage,
		CreatedAt: snap.CreatedAt,
		Items:     len(snap.State.Checklist),
		Parked:    len(snap.State.Parked.Active()),
	}
}

// ListSnapshots returns the snapshot log, newest first.
func (s *Service) ListSnapshots(ctx context.Context, listID string) ([]dto.SnapshotDTO, error) {
	doc, err := s.read(ctx, listID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SnapshotDTO, len(doc.History))
	for i, snap := range doc.History {
		out[i] = snapshotDTO(snap)
	}
	return out, nil
}

// CaptureSnapshot records the current state.
func (s *Service) CaptureSnapshot(ctx context.Context, listID string) (*dto.SnapshotDTO, error) {
	var out dto.SnapshotDTO
	_, err := s.mutate(ctx, listID, "snapshot", func(doc *list.Document, env list.Env) error {
		out = snapshotDTO(doc.Capture(env))
		doc.UpdatedAt = env.Now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RestoreSnapshot replaces the live state with a snapshot and drops it from
// the log.
func (s *Service) RestoreSnapshot(ctx context.Context, listID, snapshotID string) (*dto.SnapshotDTO, error) {
	var out dto.SnapshotDTO
	_, err := s.mutate(ctx, listID, "restore", func(doc *list.Document, env list.Env) error {
		snap, err := doc.Restore(snapshotID, env)
		out = snapshotDTO(snap)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("list", listID).Str("snapshot", snapshotID).Msg("snapshot restored")
	return &out, nil
}
