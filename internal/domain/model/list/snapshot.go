package list

import (
	"github.com/YoshitsuguKoike/stagelist/internal/domain/failure"
)

// Capture records the current state at the head of the log and drops the
// oldest entries beyond the limit.
func (d *Document) Capture(env Env) Snapshot {
	snap := Snapshot{
		ID:        env.IDs.NewID(),
		Stage:     d.Stage,
		CreatedAt: env.Now,
		State:     d.State.Clone(),
	}
	d.History = append([]Snapshot{snap}, d.History...)
	if limit := d.historyLimit(); len(d.History) > limit {
		d.History = d.History[:limit]
	}
	return snap
}

// Restore replaces the live state with the snapshot id and removes that
// entry from the log. Other entries are kept as they are.
func (d *Document) Restore(id string, env Env) (Snapshot, error) {
	for i, snap := range d.History {
		if snap.ID != id {
			continue
		}
		d.State = snap.State.Clone()
		d.History = append(d.History[:i:i], d.History[i+1:]...)
		d.touch(env)
		return snap, nil
	}
	return Snapshot{}, failure.Newf(failure.KindNotFound, "snapshot %s not found", id)
}

// FindSnapshot looks a snapshot up by id.
func (d *Document) FindSnapshot(id string) (Snapshot, bool) {
	for _, snap := range d.History {
		if snap.ID == id {
			return snap, true
		}
	}
	return Snapshot{}, false
}
