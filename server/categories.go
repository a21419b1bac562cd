package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type categoryRow struct {
	ID     string `json:"id"`
	ListID string `json:"list_id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Icon   string `json:"icon,omitempty"`
}

// handleUpsertCategory creates or replaces a category row.
func (s *Server) handleUpsertCategory(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var row categoryRow
	if err := c.Bind(&row); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if id := c.Param("id"); id != "" {
		row.ID = id
	}
	if row.ID == "" || row.ListID == "" || row.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "id, list_id, and name required"})
	}

	_, err := s.db.Exec(`
		INSERT INTO categories (id, user_id, list_id, name, color, icon)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, id) DO UPDATE SET
			name = EXCLUDED.name,
			color = EXCLUDED.color,
			icon = EXCLUDED.icon`,
		row.ID, userID, row.ListID, row.Name, row.Color, row.Icon,
	)
	if err != nil {
		c.Logger().Error("category upsert error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to store category"})
	}

	return c.JSON(http.StatusOK, row)
}

// handleDeleteCategory removes a category; join rows referencing it
// cascade, which is what keeps item references from dangling remotely.
func (s *Server) handleDeleteCategory(c echo.Context) error {
	userID := c.Get("user_id").(string)
	categoryID := c.Param("id")

	_, err := s.db.Exec(`
		DELETE FROM categories WHERE user_id = $1 AND id = $2`,
		userID, categoryID,
	)
	if err != nil {
		c.Logger().Error("category delete error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete category"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
