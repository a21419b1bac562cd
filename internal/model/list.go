package model

import "time"

// Priority levels for list items
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// TaskList is a named collection of items with its own category scope.
type TaskList struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Color       string     `json:"color"`
	Items       []ListItem `json:"items"`
	Categories  []Category `json:"categories"`
	Archived    bool       `json:"archived"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ListItem is a single todo entry belonging to exactly one list.
// Categories holds ids referencing the owning list's category scope;
// the references are weak and must be pruned when a category is deleted.
type ListItem struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Completed  bool       `json:"completed"`
	Categories []string   `json:"categories,omitempty"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	Priority   string     `json:"priority"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// NewTaskList creates a list with defaults
func NewTaskList(id, title, description, color string) TaskList {
	now := time.Now()
	return TaskList{
		ID:          id,
		Title:       title,
		Description: description,
		Color:       color,
		Items:       []ListItem{},
		Categories:  []Category{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewListItem creates an item with defaults
func NewListItem(id, text string) ListItem {
	return ListItem{
		ID:         id,
		Text:       text,
		Completed:  false,
		Categories: []string{},
		Priority:   PriorityMedium,
		CreatedAt:  time.Now(),
	}
}

// Item returns a pointer to the item with the given id, or nil.
func (l *TaskList) Item(itemID string) *ListItem {
	for i := range l.Items {
		if l.Items[i].ID == itemID {
			return &l.Items[i]
		}
	}
	return nil
}

// Category returns a pointer to the list-scoped category with the given id, or nil.
func (l *TaskList) Category(categoryID string) *Category {
	for i := range l.Categories {
		if l.Categories[i].ID == categoryID {
			return &l.Categories[i]
		}
	}
	return nil
}
