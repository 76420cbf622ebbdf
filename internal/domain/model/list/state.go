// Package list is the single persisted document behind one checklist: the
// live state, the snapshot log, and every operation that spans the
// checklist and the parking board.
package list

import (
	"time"

	"github.com/YoshitsuguKoike/stagelist/internal/domain/model"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/checklist"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/parking"
)

// DefaultHistoryLimit caps the snapshot log when no limit is configured.
const DefaultHistoryLimit = 20

// State is everything a snapshot captures.
type State struct {
	Draft           string         `json:"draft"`
	Goals           string         `json:"goals"`
	Analysis        string         `json:"analysis"`
	Checklist       checklist.Tree `json:"checklist"`
	Stage           int            `json:"stage"`
	UsedActions     Registry       `json:"usedActionKeys"`
	IssuedPrompt    string         `json:"issuedPrompt"`
	ArchivedCreated int            `json:"archivedCreated"`
	ArchivedDone    int            `json:"archivedDone"`
	Parked          parking.Board  `json:"parked"`
}

// Clone returns a deep copy.
func (s State) Clone() State {
	s.Checklist = s.Checklist.Clone()
	s.UsedActions = s.UsedActions.Clone()
	s.Parked = s.Parked.Clone()
	return s
}

// Snapshot is a point-in-time copy of State.
type Snapshot struct {
	ID        string    `json:"id"`
	Stage     int       `json:"stage"`
	CreatedAt time.Time `json:"createdAt"`
	State     State     `json:"state"`
}

// Document is the persisted unit: live state plus its snapshot log.
type Document struct {
	State
	History   []Snapshot `json:"stageHistory"`
	UpdatedAt time.Time  `json:"updatedAt"`

	// HistoryLimit bounds History. Zero means DefaultHistoryLimit.
	HistoryLimit int `json:"-"`
}

// Env carries the clock reading and id source for one mutation.
type Env struct {
	Now time.Time
	IDs model.IDGenerator
}

// New returns an empty document at stage 1.
func New(now time.Time) *Document {
	return &Document{
		State:     State{Stage: 1},
		UpdatedAt: now,
	}
}

func (d *Document) touch(env Env) {
	d.UpdatedAt = env.Now
}

func (d *Document) historyLimit() int {
	if d.HistoryLimit > 0 {
		return d.HistoryLimit
	}
	return DefaultHistoryLimit
}
