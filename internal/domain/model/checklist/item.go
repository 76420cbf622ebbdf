// Package checklist models the live checklist: an ordered, flattened forest
// of tasks and decomposed group nodes.
package checklist

import "strings"

// ItemType distinguishes leaf tasks from decomposed groups.
type ItemType string

const (
	TypeTask  ItemType = "task"
	TypeGroup ItemType = "group"
)

// IsValid reports whether t is a known item type.
func (t ItemType) IsValid() bool {
	return t == TypeTask || t == TypeGroup
}

// Status is the tri-state flag of a task.
type Status string

const (
	StatusNormal  Status = "normal"
	StatusUnknown Status = "unknown"
	StatusLater   Status = "later"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusNormal, StatusUnknown, StatusLater:
		return true
	}
	return false
}

// Parked reports whether the status puts the task on the parking board.
func (s Status) Parked() bool {
	return s == StatusUnknown || s == StatusLater
}

const (
	// DefaultCategory is used when an item carries no category.
	DefaultCategory = "uncategorized"
	// DecompositionPrefix prefixes the category of every decomposed child.
	DecompositionPrefix = "decomposition:"
)

// Item is one node of the checklist.
type Item struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Done     bool     `json:"done"`
	Category string   `json:"category"`
	Type     ItemType `json:"type"`
	Depth    int      `json:"depth"`
	Status   Status   `json:"status"`
}

// NewTask builds a normal, not-done task node.
func NewTask(id, text, category string, depth int) Item {
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultCategory
	}
	return Item{
		ID:       id,
		Text:     text,
		Category: category,
		Type:     TypeTask,
		Depth:    depth,
		Status:   StatusNormal,
	}
}

// IsTask reports whether the node is an actionable task.
func (i Item) IsTask() bool {
	return i.Type == TypeTask
}

// ChildCategory is the category given to sub-tasks produced from this item.
func (i Item) ChildCategory() string {
	return DecompositionPrefix + i.Category
}

// Patch carries optional field updates for Update. Nil fields are untouched.
type Patch struct {
	Text     *string
	Category *string
}
