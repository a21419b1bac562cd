package repository

import (
	"github.com/quicklist/quicklist/internal/model"
)

// Sticky notes and the board category set live on the local device only;
// the remote schema has no note tables, so none of these operations
// record pending mutations.

// FindNote returns the note with the given id.
func (r *Repository) FindNote(noteID string) (model.StickyNote, error) {
	for _, n := range r.LoadNotes() {
		if n.ID == noteID {
			return n, nil
		}
	}
	return model.StickyNote{}, ErrNotFound
}

// CreateNote creates and persists a sticky note, returning the created entity.
func (r *Repository) CreateNote(noteType, title, content string, items []string, category *model.Category, color string, pos model.Position) (model.StickyNote, error) {
	notes := r.LoadNotes()

	note := model.NewStickyNote(newID(), noteType, color, pos)
	note.Title = title
	note.Content = content
	if noteType == model.NoteTypeList && items != nil {
		note.Items = items
	}
	note.Category = category

	notes = append(notes, note)
	if !r.SaveNotes(notes) {
		return model.StickyNote{}, ErrStorageWrite
	}
	return note, nil
}

// UpdateNote replaces a stored note, preserving CreatedAt.
func (r *Repository) UpdateNote(updated model.StickyNote) error {
	notes := r.LoadNotes()
	for i := range notes {
		if notes[i].ID != updated.ID {
			continue
		}
		updated.CreatedAt = notes[i].CreatedAt
		notes[i] = updated

		if !r.SaveNotes(notes) {
			return ErrStorageWrite
		}
		return nil
	}
	return ErrNotFound
}

// MoveNote updates a note's board position.
func (r *Repository) MoveNote(noteID string, pos model.Position) error {
	notes := r.LoadNotes()
	for i := range notes {
		if notes[i].ID != noteID {
			continue
		}
		notes[i].Position = pos

		if !r.SaveNotes(notes) {
			return ErrStorageWrite
		}
		return nil
	}
	return ErrNotFound
}

// DeleteNote removes a sticky note from the board.
func (r *Repository) DeleteNote(noteID string) error {
	notes := r.LoadNotes()
	for i := range notes {
		if notes[i].ID != noteID {
			continue
		}
		notes = append(notes[:i], notes[i+1:]...)

		if !r.SaveNotes(notes) {
			return ErrStorageWrite
		}
		return nil
	}
	return ErrNotFound
}

// CreateBoardCategory adds a category to the global board scope. Names
// are unique per scope under case normalization.
func (r *Repository) CreateBoardCategory(name, color, icon string) (model.Category, error) {
	categories := r.LoadCategories()

	norm := model.NormalizeName(name)
	for _, c := range categories {
		if model.NormalizeName(c.Name) == norm {
			return model.Category{}, ErrDuplicateCategory
		}
	}

	category := model.Category{ID: newID(), Name: name, Color: color, Icon: icon}
	categories = append(categories, category)
	if !r.SaveCategories(categories) {
		return model.Category{}, ErrStorageWrite
	}
	return category, nil
}

// DeleteBoardCategory removes a board category and clears it from every
// note that referenced it, so no note keeps a dangling category.
func (r *Repository) DeleteBoardCategory(categoryID string) error {
	categories := r.LoadCategories()
	for i := range categories {
		if categories[i].ID != categoryID {
			continue
		}
		categories = append(categories[:i], categories[i+1:]...)
		if !r.SaveCategories(categories) {
			return ErrStorageWrite
		}

		notes := r.LoadNotes()
		changed := false
		for j := range notes {
			if notes[j].Category != nil && notes[j].Category.ID == categoryID {
				notes[j].Category = nil
				changed = true
			}
		}
		if changed && !r.SaveNotes(notes) {
			return ErrStorageWrite
		}
		return nil
	}
	return ErrNotFound
}
