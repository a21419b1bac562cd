package model

import "time"

// Sticky note kinds
const (
	NoteTypeTitle    = "title"
	NoteTypeContent  = "content"
	NoteTypeList     = "list"
	NoteTypeCategory = "category"
)

// Position is a note's placement on the freeform board.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// StickyNote is a freeform board note. Items is populated only for
// list-type notes. Category, when set, is a copy of a board category.
type StickyNote struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content,omitempty"`
	Items     []string  `json:"items,omitempty"`
	Category  *Category `json:"category,omitempty"`
	Color     string    `json:"color"`
	Position  Position  `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewStickyNote creates a note with defaults
func NewStickyNote(id, noteType, color string, pos Position) StickyNote {
	n := StickyNote{
		ID:        id,
		Type:      noteType,
		Color:     color,
		Position:  pos,
		CreatedAt: time.Now(),
	}
	if noteType == NoteTypeList {
		n.Items = []string{}
	}
	return n
}
