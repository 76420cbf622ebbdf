package input

import (
	"context"

	"github.com/YoshitsuguKoike/stagelist/internal/application/dto"
	"github.com/YoshitsuguKoike/stagelist/internal/application/port/output"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/checklist"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/parking"
)

// ItemUseCase defines checklist item operations. Item references are ids,
// unique id prefixes, or "#n" positions.
type ItemUseCase interface {
	// AddItem prepends a root task
	AddItem(ctx context.Context, listID, text, category string) (*checklist.Item, error)

	// UpdateItem patches an item's text or category
	UpdateItem(ctx context.Context, listID, ref string, patch checklist.Patch) (*checklist.Item, error)

	// ToggleItem flips a task's done flag
	ToggleItem(ctx context.Context, listID, ref string) (*checklist.Item, error)

	// DeleteItem removes an item and its descendants
	DeleteItem(ctx context.Context, listID, ref string) ([]checklist.Item, error)

	// SetUnknown toggles the unknown status
	SetUnknown(ctx context.Context, listID, ref string) (*checklist.Item, error)

	// SetLater toggles the later status
	SetLater(ctx context.Context, listID, ref string) (*checklist.Item, error)

	// DecomposeItem asks the generation service for sub-tasks of one item
	DecomposeItem(ctx context.Context, listID, ref string) (*dto.DecomposeResult, error)

	// IsBusy reports whether a decomposition is in flight for the item id
	IsBusy(listID, itemID string) bool
}

// StageUseCase defines text, analysis and stage operations.
type StageUseCase interface {
	SetDraft(ctx context.Context, listID, text string) error
	SetGoals(ctx context.Context, listID, text string) error

	// Analyze asks the generation service for a new analysis
	Analyze(ctx context.Context, listID string) (*dto.AnalyzeResult, error)

	// AdvanceStage moves the list to its next stage
	AdvanceStage(ctx context.Context, listID string) (*dto.AdvanceResult, error)

	// Metrics returns the derived metrics
	Metrics(ctx context.Context, listID string) (*dto.MetricsDTO, error)

	// Status returns the full list view
	Status(ctx context.Context, listID string) (*dto.StatusDTO, error)

	// ComposeHandoff renders and stores the hand-off document
	ComposeHandoff(ctx context.Context, listID string, req dto.HandoffRequest) (string, error)

	// Lists returns every stored list
	Lists(ctx context.Context) ([]output.DocumentInfo, error)
}

// ParkingUseCase defines parking board operations. References are keys or
// "#n" positions among active entries.
type ParkingUseCase interface {
	ListParked(ctx context.Context, listID string, includeResolved bool) ([]dto.ParkedDTO, error)
	ReviveParked(ctx context.Context, listID, ref string) (*dto.ReviveResult, error)
	ClearParked(ctx context.Context, listID, ref string) (*parking.Item, error)
}

// SnapshotUseCase defines snapshot log operations.
type SnapshotUseCase interface {
	ListSnapshots(ctx context.Context, listID string) ([]dto.SnapshotDTO, error)
	CaptureSnapshot(ctx context.Context, listID string) (*dto.SnapshotDTO, error)
	RestoreSnapshot(ctx context.Context, listID, snapshotID string) (*dto.SnapshotDTO, error)
}

// StagelistUseCase is everything the CLI drives.
type StagelistUseCase interface {
	ItemUseCase
	StageUseCase
	ParkingUseCase
	SnapshotUseCase
}
