package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type itemCategoryRow struct {
	ItemID     string `json:"item_id"`
	CategoryID string `json:"category_id"`
}

type snapshotResponse struct {
	Lists          []listRow         `json:"lists"`
	Items          []itemRow         `json:"items"`
	Categories     []categoryRow     `json:"categories"`
	ItemCategories []itemCategoryRow `json:"item_categories"`
}

// handleSnapshot returns every row owned by the user in one logical
// call: lists, items, categories, and the item→category join rows. The
// client adapter reshapes these into nested lists.
func (s *Server) handleSnapshot(c echo.Context) error {
	userID := c.Get("user_id").(string)

	snap := snapshotResponse{
		Lists:          []listRow{},
		Items:          []itemRow{},
		Categories:     []categoryRow{},
		ItemCategories: []itemCategoryRow{},
	}

	listRows, err := s.db.Query(`
		SELECT id, title, description, color, archived, created_at, updated_at
		FROM todo_lists WHERE user_id = $1
		ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		c.Logger().Error("snapshot error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load snapshot"})
	}
	defer listRows.Close()
	for listRows.Next() {
		var row listRow
		var createdAt, updatedAt time.Time
		if err := listRows.Scan(&row.ID, &row.Title, &row.Description, &row.Color,
			&row.Archived, &createdAt, &updatedAt); err != nil {
			continue
		}
		row.CreatedAt = createdAt.Format(time.RFC3339)
		row.UpdatedAt = updatedAt.Format(time.RFC3339)
		snap.Lists = append(snap.Lists, row)
	}

	itemRows, err := s.db.Query(`
		SELECT id, list_id, text, completed, due_date, priority, created_at
		FROM list_items WHERE user_id = $1
		ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		c.Logger().Error("snapshot error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load snapshot"})
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var row itemRow
		var dueDate *time.Time
		var createdAt time.Time
		if err := itemRows.Scan(&row.ID, &row.ListID, &row.Text, &row.Completed,
			&dueDate, &row.Priority, &createdAt); err != nil {
			continue
		}
		if dueDate != nil {
			row.DueDate = dueDate.Format(time.RFC3339)
		}
		row.CreatedAt = createdAt.Format(time.RFC3339)
		snap.Items = append(snap.Items, row)
	}

	categoryRows, err := s.db.Query(`
		SELECT id, list_id, name, color, icon
		FROM categories WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		c.Logger().Error("snapshot error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load snapshot"})
	}
	defer categoryRows.Close()
	for categoryRows.Next() {
		var row categoryRow
		if err := categoryRows.Scan(&row.ID, &row.ListID, &row.Name, &row.Color, &row.Icon); err != nil {
			continue
		}
		snap.Categories = append(snap.Categories, row)
	}

	joinRows, err := s.db.Query(`
		SELECT item_id, category_id
		FROM item_categories WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		c.Logger().Error("snapshot error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load snapshot"})
	}
	defer joinRows.Close()
	for joinRows.Next() {
		var row itemCategoryRow
		if err := joinRows.Scan(&row.ItemID, &row.CategoryID); err != nil {
			continue
		}
		snap.ItemCategories = append(snap.ItemCategories, row)
	}

	return c.JSON(http.StatusOK, snap)
}
