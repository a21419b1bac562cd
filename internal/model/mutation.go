package model

import "time"

// Mutation operations
const (
	MutationCreate = "create"
	MutationUpdate = "update"
	MutationDelete = "delete"
)

// Mutation entity kinds
const (
	EntityList     = "list"
	EntityItem     = "item"
	EntityCategory = "category"
)

// MutationPayload carries the intent of a local operation, not a snapshot
// of application state. Exactly one of List/Item/Category is set for
// creates and updates; deletes carry the target id (plus ListID for
// list-scoped entities).
type MutationPayload struct {
	List     *TaskList `json:"list,omitempty"`
	Item     *ListItem `json:"item,omitempty"`
	Category *Category `json:"category,omitempty"`
	ListID   string    `json:"listId,omitempty"`
	ID       string    `json:"id,omitempty"`
}

// TargetID returns the id of the entity the payload refers to.
func (p MutationPayload) TargetID() string {
	switch {
	case p.ID != "":
		return p.ID
	case p.List != nil:
		return p.List.ID
	case p.Item != nil:
		return p.Item.ID
	case p.Category != nil:
		return p.Category.ID
	}
	return ""
}

// PendingMutation is one entry in the offline replay queue. Seq is
// assigned monotonically at enqueue time so ordering stays well-defined
// even when several mutations share a timestamp.
type PendingMutation struct {
	ID        string          `json:"id"`
	Seq       int64           `json:"seq"`
	Type      string          `json:"type"`
	Entity    string          `json:"entity"`
	Payload   MutationPayload `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// References reports whether the mutation touches the given list or any
// of the given descendant ids. Used to purge queued work for a deleted
// list so sync cannot resurrect dead data.
func (m PendingMutation) References(listID string, descendants map[string]bool) bool {
	if m.Payload.ListID == listID {
		return true
	}
	target := m.Payload.TargetID()
	if target == listID {
		return true
	}
	return descendants[target]
}
