package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type itemRow struct {
	ID          string   `json:"id"`
	ListID      string   `json:"list_id"`
	Text        string   `json:"text"`
	Completed   bool     `json:"completed"`
	DueDate     string   `json:"due_date,omitempty"`
	Priority    string   `json:"priority"`
	CreatedAt   string   `json:"created_at"`
	CategoryIDs []string `json:"category_ids,omitempty"`
}

// handleUpsertItem creates or replaces an item row and replaces its
// category references in the join table, all in one transaction.
func (s *Server) handleUpsertItem(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var row itemRow
	if err := c.Bind(&row); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if id := c.Param("id"); id != "" {
		row.ID = id
	}
	if row.ID == "" || row.ListID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "id and list_id required"})
	}

	var dueDate *time.Time
	if row.DueDate != "" {
		t := parseTimestamp(row.DueDate)
		dueDate = &t
	}

	tx, err := s.db.Begin()
	if err != nil {
		c.Logger().Error("item upsert error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to store item"})
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO list_items (id, user_id, list_id, text, completed, due_date, priority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, id) DO UPDATE SET
			list_id = EXCLUDED.list_id,
			text = EXCLUDED.text,
			completed = EXCLUDED.completed,
			due_date = EXCLUDED.due_date,
			priority = EXCLUDED.priority`,
		row.ID, userID, row.ListID, row.Text, row.Completed, dueDate, row.Priority,
		parseTimestamp(row.CreatedAt),
	)
	if err != nil {
		c.Logger().Error("item upsert error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to store item"})
	}

	// Replace the weak item→category references.
	if _, err := tx.Exec(`
		DELETE FROM item_categories WHERE user_id = $1 AND item_id = $2`,
		userID, row.ID,
	); err != nil {
		c.Logger().Error("item categories error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to store item"})
	}
	for _, categoryID := range row.CategoryIDs {
		if _, err := tx.Exec(`
			INSERT INTO item_categories (user_id, item_id, category_id)
			VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING`,
			userID, row.ID, categoryID,
		); err != nil {
			c.Logger().Error("item categories error:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to store item"})
		}
	}

	if err := tx.Commit(); err != nil {
		c.Logger().Error("item upsert error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to store item"})
	}

	return c.JSON(http.StatusOK, row)
}

// handleDeleteItem removes an item; its join rows cascade.
func (s *Server) handleDeleteItem(c echo.Context) error {
	userID := c.Get("user_id").(string)
	itemID := c.Param("id")

	_, err := s.db.Exec(`
		DELETE FROM list_items WHERE user_id = $1 AND id = $2`,
		userID, itemID,
	)
	if err != nil {
		c.Logger().Error("item delete error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete item"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
