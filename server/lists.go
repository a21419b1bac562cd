package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type listRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
	Archived    bool   `json:"archived"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Now()
	}
	return t
}

// handleUpsertList creates or replaces a list row. Upserting keeps
// retried batches idempotent: replaying an already-applied create is a
// no-op overwrite, and the last writer wins.
func (s *Server) handleUpsertList(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var row listRow
	if err := c.Bind(&row); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if id := c.Param("id"); id != "" {
		row.ID = id
	}
	if row.ID == "" || row.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "id and title required"})
	}

	_, err := s.db.Exec(`
		INSERT INTO todo_lists (id, user_id, title, description, color, archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			color = EXCLUDED.color,
			archived = EXCLUDED.archived,
			updated_at = EXCLUDED.updated_at`,
		row.ID, userID, row.Title, row.Description, row.Color, row.Archived,
		parseTimestamp(row.CreatedAt), parseTimestamp(row.UpdatedAt),
	)
	if err != nil {
		c.Logger().Error("list upsert error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to store list"})
	}

	return c.JSON(http.StatusOK, row)
}

// handleDeleteList removes a list; items, categories, and join rows
// cascade at the database level. Deleting an absent list succeeds so
// replayed batches stay idempotent.
func (s *Server) handleDeleteList(c echo.Context) error {
	userID := c.Get("user_id").(string)
	listID := c.Param("id")

	_, err := s.db.Exec(`
		DELETE FROM todo_lists WHERE user_id = $1 AND id = $2`,
		userID, listID,
	)
	if err != nil {
		c.Logger().Error("list delete error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete list"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
