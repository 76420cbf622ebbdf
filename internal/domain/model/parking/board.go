package parking

import "time"

// Entry is the task data the board needs to park something.
type Entry struct {
	Text     string
	Category string
}

// Board is the parking board, ordered by first insertion.
type Board []Item

// Clone returns a deep copy.
func (b Board) Clone() Board {
	if b == nil {
		return nil
	}
	out := make(Board, len(b))
	for i, it := range b {
		if it.ResolvedAt != nil {
			at := *it.ResolvedAt
			it.ResolvedAt = &at
		}
		out[i] = it
	}
	return out
}

func (b Board) indexOf(key string) int {
	for i := range b {
		if b[i].Key == key {
			return i
		}
	}
	return -1
}

// Find returns the entry stored under key.
func (b Board) Find(key string) (Item, bool) {
	if i := b.indexOf(key); i >= 0 {
		return b[i], true
	}
	return Item{}, false
}

// Upsert parks e with status. An existing entry is refreshed and any prior
// resolution is cleared; the stage is only set when the entry is new or had
// none recorded.
func (b *Board) Upsert(e Entry, status Status, stage int, now time.Time) Item {
	key := KeyOf(e.Category, e.Text)
	if i := b.indexOf(key); i >= 0 {
		it := &(*b)[i]
		it.Text = e.Text
		it.Category = e.Category
		it.Status = status
		it.UpdatedAt = now
		it.ResolvedAt = nil
		it.Resolution = ""
		if it.Stage == 0 {
			it.Stage = stage
		}
		return *it
	}

	it := Item{
		Key:       key,
		Text:      e.Text,
		Category:  e.Category,
		Status:    status,
		Stage:     stage,
		CreatedAt: now,
		UpdatedAt: now,
	}
	*b = append(*b, it)
	return it
}

// Resolve marks the entry under key as resolved. Already resolved or unknown
// keys are left alone; the return value reports whether anything changed.
func (b Board) Resolve(key string, r Resolution, now time.Time) bool {
	i := b.indexOf(key)
	if i < 0 || b[i].Resolved() {
		return false
	}
	at := now
	b[i].ResolvedAt = &at
	b[i].Resolution = r
	b[i].UpdatedAt = now
	return true
}

// ReopenIfDoneResolved reverses a done resolution. Every other resolution is
// permanent here.
func (b Board) ReopenIfDoneResolved(key string, now time.Time) bool {
	i := b.indexOf(key)
	if i < 0 || b[i].Resolution != ResolutionDone {
		return false
	}
	b[i].ResolvedAt = nil
	b[i].Resolution = ""
	b[i].UpdatedAt = now
	return true
}

// CarryOver parks an unfinished task at a stage boundary as later. An entry
// that is unresolved and unknown keeps its unknown status.
func (b *Board) CarryOver(e Entry, stage int, now time.Time) Item {
	status := StatusLater
	if cur, ok := b.Find(KeyOf(e.Category, e.Text)); ok && !cur.Resolved() && cur.Status == StatusUnknown {
		status = StatusUnknown
	}
	return b.Upsert(e, status, stage, now)
}

// Active returns the unresolved entries in board order.
func (b Board) Active() []Item {
	var out []Item
	for _, it := range b {
		if !it.Resolved() {
			out = append(out, it)
		}
	}
	return out
}
