package list

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/checklist"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/parking"
)

type object map[string]json.RawMessage

// field decodes key from o, reporting false when it is absent or has the
// wrong JSON type.
func field[T any](o object, key string) (T, bool) {
	var v T
	raw, ok := o[key]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

func objects(raw json.RawMessage) []object {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]object, 0, len(items))
	for _, item := range items {
		var o object
		if err := json.Unmarshal(item, &o); err != nil || o == nil {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Encode serializes the document.
func Encode(d *Document) ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode list document: %w", err)
	}
	return data, nil
}

// Decode parses a stored document. It never fails: missing, mistyped or out
// of range fields fall back to safe defaults one by one, and anything that
// is not a JSON object yields an empty document.
func Decode(data []byte) *Document {
	var o object
	if err := json.Unmarshal(data, &o); err != nil || o == nil {
		return New(time.Time{})
	}

	d := &Document{State: decodeState(o)}
	d.UpdatedAt, _ = field[time.Time](o, "updatedAt")
	if raw, ok := o["stageHistory"]; ok {
		for i, so := range objects(raw) {
			snap := Snapshot{State: State{Stage: 1}}
			snap.ID, _ = field[string](so, "id")
			if snap.ID == "" {
				snap.ID = fmt.Sprintf("legacy-snapshot-%d", i+1)
			}
			snap.Stage, _ = field[int](so, "stage")
			snap.CreatedAt, _ = field[time.Time](so, "createdAt")
			if st, ok := field[object](so, "state"); ok {
				snap.State = decodeState(st)
			}
			if snap.Stage < 1 {
				snap.Stage = snap.State.Stage
			}
			d.History = append(d.History, snap)
		}
	}
	return d
}

func decodeState(o object) State {
	var s State
	s.Draft, _ = field[string](o, "draft")
	s.Goals, _ = field[string](o, "goals")
	s.Analysis, _ = field[string](o, "analysis")
	s.IssuedPrompt, _ = field[string](o, "issuedPrompt")

	s.Stage, _ = field[int](o, "stage")
	if s.Stage < 1 {
		s.Stage = 1
	}
	s.ArchivedCreated, _ = field[int](o, "archivedCreated")
	s.ArchivedDone, _ = field[int](o, "archivedDone")
	if s.ArchivedCreated < 0 {
		s.ArchivedCreated = 0
	}
	if s.ArchivedDone < 0 {
		s.ArchivedDone = 0
	}
	if s.ArchivedDone > s.ArchivedCreated {
		s.ArchivedDone = s.ArchivedCreated
	}

	keys, _ := field[[]string](o, "usedActionKeys")
	s.UsedActions.Add(keys...)

	s.Checklist = decodeChecklist(o["checklist"])
	s.Parked = decodeParked(o["parked"])
	return s
}

func decodeChecklist(raw json.RawMessage) checklist.Tree {
	var tree checklist.Tree
	seen := make(map[string]bool)
	for i, o := range objects(raw) {
		text, _ := field[string](o, "text")
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		id, _ := field[string](o, "id")
		if id == "" || seen[id] {
			id = fmt.Sprintf("legacy-item-%d", i+1)
		}
		seen[id] = true

		it := checklist.NewTask(id, text, "", 0)
		if category, ok := field[string](o, "category"); ok && strings.TrimSpace(category) != "" {
			it.Category = category
		}
		it.Done, _ = field[bool](o, "done")
		if typ, ok := field[checklist.ItemType](o, "type"); ok && typ.IsValid() {
			it.Type = typ
		}
		it.Depth, _ = field[int](o, "depth")
		if status, ok := field[checklist.Status](o, "status"); ok && status.IsValid() {
			it.Status = status
		}
		if it.Status.Parked() {
			it.Done = false
		}
		if it.Type == checklist.TypeGroup {
			it.Status = checklist.StatusNormal
		}
		tree = append(tree, it)
	}
	tree.Repair()
	return tree
}

func decodeParked(raw json.RawMessage) parking.Board {
	var board parking.Board
	seen := make(map[string]bool)
	for _, o := range objects(raw) {
		text, _ := field[string](o, "text")
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		category, _ := field[string](o, "category")
		if strings.TrimSpace(category) == "" {
			category = checklist.DefaultCategory
		}
		key := parking.KeyOf(category, text)
		if seen[key] {
			continue
		}
		seen[key] = true

		it := parking.Item{Key: key, Text: text, Category: category, Status: parking.StatusLater}
		if status, ok := field[parking.Status](o, "status"); ok && status.IsValid() {
			it.Status = status
		}
		it.Stage, _ = field[int](o, "stage")
		if it.Stage < 0 {
			it.Stage = 0
		}
		it.CreatedAt, _ = field[time.Time](o, "createdAt")
		it.UpdatedAt, _ = field[time.Time](o, "updatedAt")
		if it.UpdatedAt.IsZero() {
			it.UpdatedAt = it.CreatedAt
		}
		if at, ok := field[time.Time](o, "resolvedAt"); ok {
			it.ResolvedAt = &at
			it.Resolution = parking.ResolutionCleared
			if r, ok := field[parking.Resolution](o, "resolution"); ok && r.IsValid() {
				it.Resolution = r
			}
		}
		board = append(board, it)
	}
	return board
}
