package list

import (
	"errors"
	"strings"

	"github.com/YoshitsuguKoike/stagelist/internal/domain/failure"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/checklist"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/parking"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/service/textnorm"
)

func parkingKey(it checklist.Item) string {
	return parking.KeyOf(it.Category, it.Text)
}

func notFound(id string) error {
	return failure.Newf(failure.KindNotFound, "item %s not found", id)
}

func (d *Document) taskIndex(id string) (int, error) {
	i := d.Checklist.IndexOf(id)
	if i < 0 {
		return -1, notFound(id)
	}
	if !d.Checklist[i].IsTask() {
		return -1, failure.Newf(failure.KindInvalid, "item %s is a group and cannot be changed this way", id)
	}
	return i, nil
}

// SetDraft replaces the free-form draft.
func (d *Document) SetDraft(text string, env Env) {
	d.Draft = text
	d.touch(env)
}

// SetGoals replaces the goals text.
func (d *Document) SetGoals(text string, env Env) {
	d.Goals = text
	d.touch(env)
}

// SetAnalysis stores the latest generated analysis.
func (d *Document) SetAnalysis(text string, env Env) {
	d.Analysis = text
	d.touch(env)
}

// SetIssuedPrompt stores the last hand-off document.
func (d *Document) SetIssuedPrompt(text string, env Env) {
	d.IssuedPrompt = text
	d.touch(env)
}

// AddTask prepends a new root task.
func (d *Document) AddTask(text, category string, env Env) (checklist.Item, error) {
	text = textnorm.Normalize(text)
	if text == "" {
		return checklist.Item{}, failure.New(failure.KindInputEmpty, "task text is empty")
	}
	it := checklist.NewTask(env.IDs.NewID(), text, category, 0)
	d.Checklist.InsertRoot(it)
	d.touch(env)
	return it, nil
}

// UpdateItem merges patch into the item.
func (d *Document) UpdateItem(id string, patch checklist.Patch, env Env) (checklist.Item, error) {
	if patch.Text != nil {
		text := textnorm.Normalize(*patch.Text)
		if text == "" {
			return checklist.Item{}, failure.New(failure.KindInputEmpty, "task text is empty")
		}
		patch.Text = &text
	}
	if patch.Category != nil {
		category := strings.TrimSpace(*patch.Category)
		if category == "" {
			category = checklist.DefaultCategory
		}
		patch.Category = &category
	}
	it, err := d.Checklist.Update(id, patch)
	if errors.Is(err, checklist.ErrNotFound) {
		return checklist.Item{}, notFound(id)
	}
	if err != nil {
		return checklist.Item{}, err
	}
	d.touch(env)
	return it, nil
}

// ToggleDone flips a task's done flag and keeps the parking board in step:
// finishing resolves the parked entry as done and clears the task status,
// unfinishing reopens a done entry and restores its status. Groups are
// returned unchanged.
func (d *Document) ToggleDone(id string, env Env) (checklist.Item, error) {
	it, changed, err := d.Checklist.Toggle(id)
	if errors.Is(err, checklist.ErrNotFound) {
		return checklist.Item{}, notFound(id)
	}
	if err != nil || !changed {
		return it, err
	}

	key := parkingKey(it)
	if it.Done {
		if it.Status != checklist.StatusNormal {
			i := d.Checklist.IndexOf(id)
			d.Checklist[i].Status = checklist.StatusNormal
			it = d.Checklist[i]
		}
		d.Parked.Resolve(key, parking.ResolutionDone, env.Now)
	} else if d.Parked.ReopenIfDoneResolved(key, env.Now) {
		p, _ := d.Parked.Find(key)
		i := d.Checklist.IndexOf(id)
		d.Checklist[i].Status = checklist.Status(p.Status)
		it = d.Checklist[i]
	}
	d.touch(env)
	return it, nil
}

// DeleteItem captures a snapshot, then removes the item and its
// descendants. Parked entries of every removed node are resolved as deleted.
func (d *Document) DeleteItem(id string, env Env) ([]checklist.Item, error) {
	i := d.Checklist.IndexOf(id)
	if i < 0 {
		return nil, notFound(id)
	}
	d.Capture(env)
	removed := d.Checklist.RemoveBlock(i)
	for _, it := range removed {
		d.Parked.Resolve(parkingKey(it), parking.ResolutionDeleted, env.Now)
	}
	d.touch(env)
	return removed, nil
}

// SetStatus toggles unknown or later on a task. Setting a status clears
// done and parks the task; setting the status it already has returns it to
// normal and resolves the parked entry as cleared. Later also sinks the
// task's block to the bottom of its sibling scope.
func (d *Document) SetStatus(id string, status checklist.Status, env Env) (checklist.Item, error) {
	if !status.Parked() {
		return checklist.Item{}, failure.Newf(failure.KindInvalid, "status %q cannot be toggled", status)
	}
	i, err := d.taskIndex(id)
	if err != nil {
		return checklist.Item{}, err
	}

	it := &d.Checklist[i]
	if it.Status == status {
		it.Status = checklist.StatusNormal
		d.Parked.Resolve(parkingKey(*it), parking.ResolutionCleared, env.Now)
		d.touch(env)
		return *it, nil
	}

	it.Status = status
	it.Done = false
	d.Parked.Upsert(parking.Entry{Text: it.Text, Category: it.Category}, parking.Status(status), d.Stage, env.Now)
	if status == checklist.StatusLater {
		i = d.Checklist.SinkToScopeEnd(i)
	}
	d.touch(env)
	return d.Checklist[i], nil
}

// ApplyDecomposition captures a snapshot, turns the task into a group with
// the given sub-tasks and registers every sub-task text as issued. A parked
// entry for the task is resolved as done.
func (d *Document) ApplyDecomposition(id string, texts []string, env Env) ([]checklist.Item, error) {
	i, err := d.taskIndex(id)
	if err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, failure.New(failure.KindUnparsable, "could not extract sub-tasks")
	}

	d.Capture(env)
	parentKey := parkingKey(d.Checklist[i])
	children, err := d.Checklist.Decompose(i, texts, env.IDs)
	if err != nil {
		return nil, err
	}
	d.Parked.Resolve(parentKey, parking.ResolutionDone, env.Now)
	d.UsedActions.Add(texts...)
	d.touch(env)
	return children, nil
}

// Revive brings a parked entry back into the active stage. A new root task
// is created unless a checklist item already matches the entry; a matching
// task is returned to normal status. The entry is resolved as returned.
func (d *Document) Revive(key string, env Env) (checklist.Item, bool, error) {
	p, err := d.activeParked(key)
	if err != nil {
		return checklist.Item{}, false, err
	}

	d.Capture(env)
	var (
		it      checklist.Item
		created bool
	)
	if i := d.matchIndex(key); i >= 0 {
		if d.Checklist[i].IsTask() {
			d.Checklist[i].Status = checklist.StatusNormal
		}
		it = d.Checklist[i]
	} else {
		it = checklist.NewTask(env.IDs.NewID(), p.Text, p.Category, 0)
		d.Checklist.InsertRoot(it)
		created = true
	}
	d.UsedActions.Add(p.Text)
	d.Parked.Resolve(key, parking.ResolutionReturned, env.Now)
	d.touch(env)
	return it, created, nil
}

// ClearParked resolves a parked entry as cleared and returns any matching
// task to normal status.
func (d *Document) ClearParked(key string, env Env) (parking.Item, error) {
	p, err := d.activeParked(key)
	if err != nil {
		return parking.Item{}, err
	}
	if i := d.matchIndex(key); i >= 0 && d.Checklist[i].IsTask() {
		d.Checklist[i].Status = checklist.StatusNormal
	}
	d.Parked.Resolve(key, parking.ResolutionCleared, env.Now)
	d.touch(env)
	p, _ = d.Parked.Find(key)
	return p, nil
}

func (d *Document) activeParked(key string) (parking.Item, error) {
	p, ok := d.Parked.Find(key)
	if !ok {
		return parking.Item{}, failure.Newf(failure.KindNotFound, "parked item %s not found", key)
	}
	if p.Resolved() {
		return parking.Item{}, failure.Newf(failure.KindInvalid, "parked item %s is already resolved (%s)", key, p.Resolution)
	}
	return p, nil
}

func (d *Document) matchIndex(key string) int {
	for i, it := range d.Checklist {
		if parkingKey(it) == key {
			return i
		}
	}
	return -1
}
