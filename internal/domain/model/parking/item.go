// Package parking holds tasks that were marked unknown, deferred, or left
// unfinished at a stage boundary.
package parking

import (
	"time"

	"github.com/YoshitsuguKoike/stagelist/internal/domain/service/textnorm"
)

// Status is the reason a task was parked.
type Status string

const (
	StatusUnknown Status = "unknown"
	StatusLater   Status = "later"
)

// IsValid reports whether s is a known parking status.
func (s Status) IsValid() bool {
	return s == StatusUnknown || s == StatusLater
}

// Resolution records how a parked entry left the board.
type Resolution string

const (
	ResolutionReturned Resolution = "returned"
	ResolutionDone     Resolution = "done"
	ResolutionDeleted  Resolution = "deleted"
	ResolutionCleared  Resolution = "cleared"
)

// IsValid reports whether r is a known resolution.
func (r Resolution) IsValid() bool {
	switch r {
	case ResolutionReturned, ResolutionDone, ResolutionDeleted, ResolutionCleared:
		return true
	}
	return false
}

// Item is one entry on the board.
type Item struct {
	Key        string     `json:"key"`
	Text       string     `json:"text"`
	Category   string     `json:"category"`
	Status     Status     `json:"status"`
	Stage      int        `json:"stage"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
	Resolution Resolution `json:"resolution,omitempty"`
}

// Resolved reports whether the entry has left the board.
func (i Item) Resolved() bool {
	return i.ResolvedAt != nil
}

// KeyOf derives the board key for a task. Tasks whose normalized category and
// text collide are the same parked entry.
func KeyOf(category, text string) string {
	return textnorm.Key(category) + "::" + textnorm.Key(text)
}
