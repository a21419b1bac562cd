package repository

import (
	"time"

	"github.com/quicklist/quicklist/internal/logger"
	"github.com/quicklist/quicklist/internal/model"
)

// Stored record shapes. Dates travel as ISO-8601 strings; parsing is
// per-field so one bad date defaults to "now" instead of dropping the
// record.

type storedList struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Color       string           `json:"color"`
	Items       []storedItem     `json:"items"`
	Categories  []model.Category `json:"categories"`
	Archived    bool             `json:"archived"`
	CreatedAt   string           `json:"createdAt"`
	UpdatedAt   string           `json:"updatedAt"`
}

type storedItem struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Completed  bool     `json:"completed"`
	Categories []string `json:"categories,omitempty"`
	DueDate    string   `json:"dueDate,omitempty"`
	Priority   string   `json:"priority"`
	CreatedAt  string   `json:"createdAt"`
}

type storedNote struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Title     string          `json:"title,omitempty"`
	Content   string          `json:"content,omitempty"`
	Items     []string        `json:"items,omitempty"`
	Category  *model.Category `json:"category,omitempty"`
	Color     string          `json:"color"`
	Position  model.Position  `json:"position"`
	CreatedAt string          `json:"createdAt"`
}

type storedAchievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Unlocked    bool   `json:"unlocked"`
	UnlockedAt  string `json:"unlockedAt,omitempty"`
	Progress    int    `json:"progress"`
	MaxProgress int    `json:"maxProgress"`
	Type        string `json:"type"`
}

// legacyNote is the pre-v2 sticky-note shape: untyped text notes with
// bare x/y coordinates.
type legacyNote struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	Color     string  `json:"color"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	CreatedAt string  `json:"createdAt"`
}

func formatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseDate(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		logger.Warn("Unparseable stored date, defaulting to now", logger.F("value", s))
		return time.Now()
	}
	return t
}

func listToRecord(l model.TaskList) storedList {
	items := make([]storedItem, len(l.Items))
	for i, it := range l.Items {
		items[i] = itemToRecord(it)
	}
	categories := l.Categories
	if categories == nil {
		categories = []model.Category{}
	}
	return storedList{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Color:       l.Color,
		Items:       items,
		Categories:  categories,
		Archived:    l.Archived,
		CreatedAt:   formatDate(l.CreatedAt),
		UpdatedAt:   formatDate(l.UpdatedAt),
	}
}

func listFromRecord(rec storedList) model.TaskList {
	items := make([]model.ListItem, len(rec.Items))
	for i, it := range rec.Items {
		items[i] = itemFromRecord(it)
	}
	categories := rec.Categories
	if categories == nil {
		categories = []model.Category{}
	}
	return model.TaskList{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Color:       rec.Color,
		Items:       items,
		Categories:  categories,
		Archived:    rec.Archived,
		CreatedAt:   parseDate(rec.CreatedAt),
		UpdatedAt:   parseDate(rec.UpdatedAt),
	}
}

func itemToRecord(it model.ListItem) storedItem {
	rec := storedItem{
		ID:         it.ID,
		Text:       it.Text,
		Completed:  it.Completed,
		Categories: it.Categories,
		Priority:   it.Priority,
		CreatedAt:  formatDate(it.CreatedAt),
	}
	if it.DueDate != nil {
		rec.DueDate = formatDate(*it.DueDate)
	}
	return rec
}

func itemFromRecord(rec storedItem) model.ListItem {
	it := model.ListItem{
		ID:         rec.ID,
		Text:       rec.Text,
		Completed:  rec.Completed,
		Categories: rec.Categories,
		Priority:   rec.Priority,
		CreatedAt:  parseDate(rec.CreatedAt),
	}
	if it.Priority == "" {
		it.Priority = model.PriorityMedium
	}
	if rec.DueDate != "" {
		due := parseDate(rec.DueDate)
		it.DueDate = &due
	}
	return it
}

func noteToRecord(n model.StickyNote) storedNote {
	return storedNote{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Content:   n.Content,
		Items:     n.Items,
		Category:  n.Category,
		Color:     n.Color,
		Position:  n.Position,
		CreatedAt: formatDate(n.CreatedAt),
	}
}

func noteFromRecord(rec storedNote) model.StickyNote {
	n := model.StickyNote{
		ID:        rec.ID,
		Type:      rec.Type,
		Title:     rec.Title,
		Content:   rec.Content,
		Items:     rec.Items,
		Category:  rec.Category,
		Color:     rec.Color,
		Position:  rec.Position,
		CreatedAt: parseDate(rec.CreatedAt),
	}
	if n.Type == "" {
		n.Type = model.NoteTypeContent
	}
	return n
}

func achievementToRecord(a model.Achievement) storedAchievement {
	rec := storedAchievement{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Icon:        a.Icon,
		Unlocked:    a.Unlocked,
		Progress:    a.Progress,
		MaxProgress: a.MaxProgress,
		Type:        a.Type,
	}
	if a.UnlockedAt != nil {
		rec.UnlockedAt = formatDate(*a.UnlockedAt)
	}
	return rec
}

func achievementFromRecord(rec storedAchievement) model.Achievement {
	a := model.Achievement{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Icon:        rec.Icon,
		Unlocked:    rec.Unlocked,
		Progress:    rec.Progress,
		MaxProgress: rec.MaxProgress,
		Type:        rec.Type,
	}
	if rec.UnlockedAt != "" {
		t := parseDate(rec.UnlockedAt)
		a.UnlockedAt = &t
	}
	return a
}

func listsToRecords(lists []model.TaskList) []storedList {
	out := make([]storedList, len(lists))
	for i, l := range lists {
		out[i] = listToRecord(l)
	}
	return out
}

func listsFromRecords(recs []storedList) []model.TaskList {
	out := make([]model.TaskList, len(recs))
	for i, rec := range recs {
		out[i] = listFromRecord(rec)
	}
	return out
}

func notesToRecords(notes []model.StickyNote) []storedNote {
	out := make([]storedNote, len(notes))
	for i, n := range notes {
		out[i] = noteToRecord(n)
	}
	return out
}

func notesFromRecords(recs []storedNote) []model.StickyNote {
	out := make([]model.StickyNote, len(recs))
	for i, rec := range recs {
		out[i] = noteFromRecord(rec)
	}
	return out
}
