package dto

import (
	"time"

	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/checklist"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/parking"
)

// ItemDTO is a checklist item plus its position for display.
type ItemDTO struct {
	checklist.Item
	Index int  `json:"index"` // 1-based position in the checklist
	Busy  bool `json:"busy"`  // a decomposition is in flight for this item
}

// ParkedDTO is a parked entry plus its position on the active board.
type ParkedDTO struct {
	parking.Item
	Index int `json:"index,omitempty"` // 1-based position among active entries, 0 when resolved
}

// MetricsDTO holds the read-only derived metrics of a list.
type MetricsDTO struct {
	Stage               int  `json:"stage"`
	StageProgress       int  `json:"stage_progress"`    // percent
	LifetimeProgress    int  `json:"lifetime_progress"` // percent
	RemainingCandidates int  `json:"remaining_candidates"`
	CanAdvance          bool `json:"can_advance"`
	Done                int  `json:"done"`
	Total               int  `json:"total"`
	ActiveParked        int  `json:"active_parked"`
	Snapshots           int  `json:"snapshots"`
}

// StatusDTO is the full view of one list.
type StatusDTO struct {
	ListID    string      `json:"list_id"`
	Goals     string      `json:"goals"`
	Draft     string      `json:"draft"`
	Analysis  string      `json:"analysis"`
	Items     []ItemDTO   `json:"items"`
	Parked    []ParkedDTO `json:"parked"`
	Metrics   MetricsDTO  `json:"metrics"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// AnalyzeResult reports a stored analysis.
type AnalyzeResult struct {
	Candidates int           `json:"candidates"` // candidates in the new analysis
	Remaining  int           `json:"remaining"`  // of those, never issued
	Backend    string        `json:"backend"`
	Duration   time.Duration `json:"duration"`
}

// DecomposeResult reports an applied decomposition.
type DecomposeResult struct {
	Parent   checklist.Item   `json:"parent"`
	Children []checklist.Item `json:"children"`
	Backend  string           `json:"backend"`
}

// AdvanceResult reports a stage transition.
type AdvanceResult struct {
	Stage       int              `json:"stage"`
	Issued      []checklist.Item `json:"issued"`
	Remaining   int              `json:"remaining"`
	CarriedOver []parking.Item   `json:"carried_over"`
}

// ReviveResult reports a revived parked entry.
type ReviveResult struct {
	Item    checklist.Item `json:"item"`
	Created bool           `json:"created"` // false when an existing item was reused
}

// SnapshotDTO summarizes one snapshot.
type SnapshotDTO struct {
	ID        string    `json:"id"`
	Stage     int       `json:"stage"`
	CreatedAt time.Time `json:"created_at"`
	Items     int       `json:"items"`
	Parked    int       `json:"parked"`
}

// HandoffRequest selects the optional hand-off sections.
type HandoffRequest struct {
	IncludeDraft    bool
	IncludeAnalysis bool
}
