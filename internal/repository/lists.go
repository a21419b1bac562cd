package repository

import (
	"time"

	"github.com/google/uuid"

	"github.com/quicklist/quicklist/internal/logger"
	"github.com/quicklist/quicklist/internal/model"
)

func newID() string {
	return uuid.New().String()
}

func validPriority(p string) string {
	switch p {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
		return p
	}
	return model.PriorityMedium
}

// FindList returns the list with the given id.
func (r *Repository) FindList(listID string) (model.TaskList, error) {
	for _, l := range r.LoadLists() {
		if l.ID == listID {
			return l, nil
		}
	}
	return model.TaskList{}, ErrNotFound
}

// CreateList creates and persists a new task list, returning the created
// entity so callers never have to guess its position in the collection.
func (r *Repository) CreateList(title, description, color string) (model.TaskList, error) {
	lists := r.LoadLists()
	list := model.NewTaskList(newID(), title, description, color)
	lists = append(lists, list)

	if !r.SaveLists(lists) {
		return model.TaskList{}, ErrStorageWrite
	}
	return list, r.record(model.MutationCreate, model.EntityList, model.MutationPayload{List: &list})
}

// UpdateList replaces the stored list with the given one, preserving
// CreatedAt and bumping UpdatedAt.
func (r *Repository) UpdateList(updated model.TaskList) error {
	lists := r.LoadLists()
	for i := range lists {
		if lists[i].ID != updated.ID {
			continue
		}
		updated.CreatedAt = lists[i].CreatedAt
		updated.UpdatedAt = time.Now()
		lists[i] = updated

		if !r.SaveLists(lists) {
			return ErrStorageWrite
		}
		return r.record(model.MutationUpdate, model.EntityList, model.MutationPayload{List: &lists[i]})
	}
	return ErrNotFound
}

// DeleteList removes a list together with its owned items and
// list-scoped categories, and purges queued mutations referencing the
// list or any descendant so sync cannot resurrect dead data.
func (r *Repository) DeleteList(listID string) error {
	lists := r.LoadLists()
	for i := range lists {
		if lists[i].ID != listID {
			continue
		}

		var descendants []string
		for _, it := range lists[i].Items {
			descendants = append(descendants, it.ID)
		}
		for _, c := range lists[i].Categories {
			descendants = append(descendants, c.ID)
		}

		lists = append(lists[:i], lists[i+1:]...)
		if !r.SaveLists(lists) {
			return ErrStorageWrite
		}

		if r.recorder != nil {
			purged := r.recorder.PurgeList(listID, descendants)
			logger.Debug("List deleted",
				logger.F("listID", listID),
				logger.F("descendants", len(descendants)),
				logger.F("purged", purged))
		}
		return r.record(model.MutationDelete, model.EntityList, model.MutationPayload{ID: listID})
	}
	return ErrNotFound
}

// AddItem appends a new item to a list. Dangling category references are
// dropped before the item is stored.
func (r *Repository) AddItem(listID, text, priority string, dueDate *time.Time, categoryIDs []string) (model.ListItem, error) {
	lists := r.LoadLists()
	for i := range lists {
		if lists[i].ID != listID {
			continue
		}

		item := model.NewListItem(newID(), text)
		item.Priority = validPriority(priority)
		item.DueDate = dueDate
		for _, cid := range categoryIDs {
			if lists[i].Category(cid) != nil {
				item.Categories = append(item.Categories, cid)
			}
		}

		lists[i].Items = append(lists[i].Items, item)
		lists[i].UpdatedAt = time.Now()

		if !r.SaveLists(lists) {
			return model.ListItem{}, ErrStorageWrite
		}
		return item, r.record(model.MutationCreate, model.EntityItem, model.MutationPayload{Item: &item, ListID: listID})
	}
	return model.ListItem{}, ErrNotFound
}

// UpdateItem replaces a stored item, preserving CreatedAt.
func (r *Repository) UpdateItem(listID string, updated model.ListItem) error {
	lists := r.LoadLists()
	for i := range lists {
		if lists[i].ID != listID {
			continue
		}
		item := lists[i].Item(updated.ID)
		if item == nil {
			return ErrNotFound
		}

		updated.CreatedAt = item.CreatedAt
		updated.Priority = validPriority(updated.Priority)
		kept := updated.Categories[:0]
		for _, cid := range updated.Categories {
			if lists[i].Category(cid) != nil {
				kept = append(kept, cid)
			}
		}
		updated.Categories = kept
		*item = updated
		lists[i].UpdatedAt = time.Now()

		if !r.SaveLists(lists) {
			return ErrStorageWrite
		}
		return r.record(model.MutationUpdate, model.EntityItem, model.MutationPayload{Item: item, ListID: listID})
	}
	return ErrNotFound
}

// ToggleItem flips an item's completion state and returns the new state.
func (r *Repository) ToggleItem(listID, itemID string) (bool, error) {
	lists := r.LoadLists()
	for i := range lists {
		if lists[i].ID != listID {
			continue
		}
		item := lists[i].Item(itemID)
		if item == nil {
			return false, ErrNotFound
		}

		item.Completed = !item.Completed
		lists[i].UpdatedAt = time.Now()

		if !r.SaveLists(lists) {
			return false, ErrStorageWrite
		}
		return item.Completed, r.record(model.MutationUpdate, model.EntityItem, model.MutationPayload{Item: item, ListID: listID})
	}
	return false, ErrNotFound
}

// DeleteItem removes an item from its list.
func (r *Repository) DeleteItem(listID, itemID string) error {
	lists := r.LoadLists()
	for i := range lists {
		if lists[i].ID != listID {
			continue
		}
		for j := range lists[i].Items {
			if lists[i].Items[j].ID != itemID {
				continue
			}
			lists[i].Items = append(lists[i].Items[:j], lists[i].Items[j+1:]...)
			lists[i].UpdatedAt = time.Now()

			if !r.SaveLists(lists) {
				return ErrStorageWrite
			}
			return r.record(model.MutationDelete, model.EntityItem, model.MutationPayload{ID: itemID, ListID: listID})
		}
		return ErrNotFound
	}
	return ErrNotFound
}

// CreateCategory adds a category to a list's scope. Names are unique per
// scope under case normalization.
func (r *Repository) CreateCategory(listID, name, color, icon string) (model.Category, error) {
	lists := r.LoadLists()
	for i := range lists {
		if lists[i].ID != listID {
			continue
		}

		norm := model.NormalizeName(name)
		for _, c := range lists[i].Categories {
			if model.NormalizeName(c.Name) == norm {
				return model.Category{}, ErrDuplicateCategory
			}
		}

		category := model.Category{ID: newID(), Name: name, Color: color, Icon: icon}
		lists[i].Categories = append(lists[i].Categories, category)
		lists[i].UpdatedAt = time.Now()

		if !r.SaveLists(lists) {
			return model.Category{}, ErrStorageWrite
		}
		return category, r.record(model.MutationCreate, model.EntityCategory, model.MutationPayload{Category: &category, ListID: listID})
	}
	return model.Category{}, ErrNotFound
}

// DeleteCategory removes a list-scoped category and prunes the now
// dangling references from every item in the list.
func (r *Repository) DeleteCategory(listID, categoryID string) error {
	lists := r.LoadLists()
	for i := range lists {
		if lists[i].ID != listID {
			continue
		}
		for j := range lists[i].Categories {
			if lists[i].Categories[j].ID != categoryID {
				continue
			}
			lists[i].Categories = append(lists[i].Categories[:j], lists[i].Categories[j+1:]...)
			for k := range lists[i].Items {
				item := &lists[i].Items[k]
				kept := item.Categories[:0]
				for _, cid := range item.Categories {
					if cid != categoryID {
						kept = append(kept, cid)
					}
				}
				item.Categories = kept
			}
			lists[i].UpdatedAt = time.Now()

			if !r.SaveLists(lists) {
				return ErrStorageWrite
			}
			return r.record(model.MutationDelete, model.EntityCategory, model.MutationPayload{ID: categoryID, ListID: listID})
		}
		return ErrNotFound
	}
	return ErrNotFound
}
