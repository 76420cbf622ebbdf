package checklist

import (
	"errors"
	"fmt"

	"github.com/YoshitsuguKoike/stagelist/internal/domain/model"
)

var (
	// ErrNotFound is returned when no node has the requested id.
	ErrNotFound = errors.New("checklist item not found")
	// ErrNotTask is returned when an operation needs a task but got a group.
	ErrNotTask = errors.New("checklist item is not a task")
	// ErrNoSubtasks is returned when a decomposition has nothing to insert.
	ErrNoSubtasks = errors.New("no sub-tasks to insert")
)

// Tree is the checklist as a pre-order flattening of a forest. A node's
// descendants are the maximal run right after it whose depth is strictly
// greater than its own.
type Tree []Item

// Clone returns an independent copy.
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	copy(out, t)
	return out
}

// IndexOf returns the position of id, or -1.
func (t Tree) IndexOf(id string) int {
	for i := range t {
		if t[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the node with the given id.
func (t Tree) Find(id string) (Item, bool) {
	if i := t.IndexOf(id); i >= 0 {
		return t[i], true
	}
	return Item{}, false
}

// BlockEnd returns the exclusive end of the block rooted at i: the node
// itself plus its descendant run. Every structural operation goes through
// this helper.
func (t Tree) BlockEnd(i int) int {
	j := i + 1
	for j < len(t) && t[j].Depth > t[i].Depth {
		j++
	}
	return j
}

// ScopeEnd returns the exclusive end of the sibling scope containing i: the
// contiguous run at depth >= t[i].Depth, bounded by the first node with a
// strictly lesser depth.
func (t Tree) ScopeEnd(i int) int {
	j := i + 1
	for j < len(t) && t[j].Depth >= t[i].Depth {
		j++
	}
	return j
}

// Descendants returns the descendant run of the node at i.
func (t Tree) Descendants(i int) []Item {
	return t[i+1 : t.BlockEnd(i)]
}

// InsertRoot prepends item as a root node.
func (t *Tree) InsertRoot(item Item) {
	item.Depth = 0
	*t = append(Tree{item}, *t...)
}

// Update merges patch into the node with id.
func (t Tree) Update(id string, patch Patch) (Item, error) {
	i := t.IndexOf(id)
	if i < 0 {
		return Item{}, ErrNotFound
	}
	if patch.Text != nil {
		t[i].Text = *patch.Text
	}
	if patch.Category != nil {
		t[i].Category = *patch.Category
	}
	return t[i], nil
}

// Toggle flips the done flag of a task. Group nodes are left untouched and
// reported with changed=false.
func (t Tree) Toggle(id string) (item Item, changed bool, err error) {
	i := t.IndexOf(id)
	if i < 0 {
		return Item{}, false, ErrNotFound
	}
	if !t[i].IsTask() {
		return t[i], false, nil
	}
	t[i].Done = !t[i].Done
	return t[i], true, nil
}

// RemoveBlock deletes the node at i together with its descendants and
// returns the removed nodes in order.
func (t *Tree) RemoveBlock(i int) []Item {
	cur := *t
	end := cur.BlockEnd(i)
	removed := make([]Item, end-i)
	copy(removed, cur[i:end])
	*t = append(cur[:i:i], cur[end:]...)
	return removed
}

// SinkToScopeEnd moves the block rooted at i behind its last sibling so it
// sits at the bottom of its level. Depths never change. It returns the new
// index of the moved node.
func (t *Tree) SinkToScopeEnd(i int) int {
	cur := *t
	blockEnd := cur.BlockEnd(i)
	scopeEnd := cur.ScopeEnd(i)
	if blockEnd == scopeEnd {
		return i
	}

	block := make([]Item, blockEnd-i)
	copy(block, cur[i:blockEnd])
	rest := make([]Item, scopeEnd-blockEnd)
	copy(rest, cur[blockEnd:scopeEnd])

	n := copy(cur[i:], rest)
	copy(cur[i+n:], block)
	return i + n
}

// Decompose turns the task at i into a group and splices one task per text
// right after it, one level deeper and filed under the child category. The
// new nodes are returned.
func (t *Tree) Decompose(i int, texts []string, ids model.IDGenerator) ([]Item, error) {
	cur := *t
	if i < 0 || i >= len(cur) {
		return nil, ErrNotFound
	}
	if !cur[i].IsTask() {
		return nil, ErrNotTask
	}
	if len(texts) == 0 {
		return nil, ErrNoSubtasks
	}

	parent := &cur[i]
	parent.Type = TypeGroup
	parent.Done = true
	parent.Status = StatusNormal

	children := make([]Item, 0, len(texts))
	for _, text := range texts {
		children = append(children, NewTask(ids.NewID(), text, parent.ChildCategory(), parent.Depth+1))
	}

	out := make(Tree, 0, len(cur)+len(children))
	out = append(out, cur[:i+1]...)
	out = append(out, children...)
	out = append(out, cur[i+1:]...)
	*t = out
	return children, nil
}

// Counts returns the done and total number of task nodes. Groups are inert.
func (t Tree) Counts() (done, total int) {
	for _, it := range t {
		if !it.IsTask() {
			continue
		}
		total++
		if it.Done {
			done++
		}
	}
	return done, total
}

// Incomplete returns the task nodes that are not done.
func (t Tree) Incomplete() []Item {
	var out []Item
	for _, it := range t {
		if it.IsTask() && !it.Done {
			out = append(out, it)
		}
	}
	return out
}

// Validate checks the flattened-forest shape: roots start at depth 0 and no
// node is more than one level deeper than the node before it.
func (t Tree) Validate() error {
	seen := make(map[string]struct{}, len(t))
	for i, it := range t {
		if it.Depth < 0 {
			return fmt.Errorf("item %d (%s): negative depth %d", i, it.ID, it.Depth)
		}
		if i == 0 && it.Depth != 0 {
			return fmt.Errorf("item 0 (%s): first node must be a root, got depth %d", it.ID, it.Depth)
		}
		if i > 0 && it.Depth > t[i-1].Depth+1 {
			return fmt.Errorf("item %d (%s): depth %d skips a level after depth %d", i, it.ID, it.Depth, t[i-1].Depth)
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("item %d: duplicate id %s", i, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}

// Repair clamps depths so the tree satisfies Validate's shape rules. It is
// used when loading documents that were written by older or broken clients.
func (t Tree) Repair() {
	for i := range t {
		limit := 0
		if i > 0 {
			limit = t[i-1].Depth + 1
		}
		if t[i].Depth < 0 {
			t[i].Depth = 0
		}
		if t[i].Depth > limit {
			t[i].Depth = limit
		}
	}
}
