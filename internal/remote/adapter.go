package remote

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/quicklist/quicklist/internal/logger"
	"github.com/quicklist/quicklist/internal/model"
)

// Remote is the capability the sync coordinator drains the queue
// against. Apply maps one pending mutation to exactly one remote call
// and fails closed: any transport error or server rejection surfaces as
// that mutation's failure.
type Remote interface {
	Apply(ctx context.Context, m model.PendingMutation) error
	FetchAll(ctx context.Context) ([]model.TaskList, error)
}

// Row shapes of the remote relational schema.

type listRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
	Archived    bool   `json:"archived"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

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

type categoryRow struct {
	ID     string `json:"id"`
	ListID string `json:"list_id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Icon   string `json:"icon,omitempty"`
}

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

// Adapter translates between in-memory entities and the remote row
// shapes, one HTTP call per mutation. All calls are scoped server-side
// by the session's user identity.
type Adapter struct {
	client *Client
}

// NewAdapter creates an adapter over an authenticated client.
func NewAdapter(client *Client) *Adapter {
	return &Adapter{client: client}
}

// Apply implements Remote.
func (a *Adapter) Apply(ctx context.Context, m model.PendingMutation) error {
	logger.Debug("Applying mutation remotely",
		logger.F("type", m.Type),
		logger.F("entity", m.Entity),
		logger.F("target", m.Payload.TargetID()))

	switch m.Entity {
	case model.EntityList:
		return a.applyList(ctx, m)
	case model.EntityItem:
		return a.applyItem(ctx, m)
	case model.EntityCategory:
		return a.applyCategory(ctx, m)
	}
	return fmt.Errorf("unknown mutation entity %q", m.Entity)
}

func (a *Adapter) applyList(ctx context.Context, m model.PendingMutation) error {
	switch m.Type {
	case model.MutationCreate, model.MutationUpdate:
		if m.Payload.List == nil {
			return fmt.Errorf("list %s mutation without list payload", m.Type)
		}
		row := listToRow(*m.Payload.List)
		if m.Type == model.MutationCreate {
			return a.client.doJSON(ctx, "POST", "/api/v1/lists", row, nil)
		}
		return a.client.doJSON(ctx, "PUT", "/api/v1/lists/"+url.PathEscape(row.ID), row, nil)
	case model.MutationDelete:
		return a.client.doJSON(ctx, "DELETE", "/api/v1/lists/"+url.PathEscape(m.Payload.TargetID()), nil, nil)
	}
	return fmt.Errorf("unknown mutation type %q", m.Type)
}

func (a *Adapter) applyItem(ctx context.Context, m model.PendingMutation) error {
	switch m.Type {
	case model.MutationCreate, model.MutationUpdate:
		if m.Payload.Item == nil {
			return fmt.Errorf("item %s mutation without item payload", m.Type)
		}
		row := itemToRow(*m.Payload.Item, m.Payload.ListID)
		if m.Type == model.MutationCreate {
			return a.client.doJSON(ctx, "POST", "/api/v1/items", row, nil)
		}
		return a.client.doJSON(ctx, "PUT", "/api/v1/items/"+url.PathEscape(row.ID), row, nil)
	case model.MutationDelete:
		return a.client.doJSON(ctx, "DELETE", "/api/v1/items/"+url.PathEscape(m.Payload.TargetID()), nil, nil)
	}
	return fmt.Errorf("unknown mutation type %q", m.Type)
}

func (a *Adapter) applyCategory(ctx context.Context, m model.PendingMutation) error {
	switch m.Type {
	case model.MutationCreate, model.MutationUpdate:
		if m.Payload.Category == nil {
			return fmt.Errorf("category %s mutation without category payload", m.Type)
		}
		row := categoryRow{
			ID:     m.Payload.Category.ID,
			ListID: m.Payload.ListID,
			Name:   m.Payload.Category.Name,
			Color:  m.Payload.Category.Color,
			Icon:   m.Payload.Category.Icon,
		}
		if m.Type == model.MutationCreate {
			return a.client.doJSON(ctx, "POST", "/api/v1/categories", row, nil)
		}
		return a.client.doJSON(ctx, "PUT", "/api/v1/categories/"+url.PathEscape(row.ID), row, nil)
	case model.MutationDelete:
		return a.client.doJSON(ctx, "DELETE", "/api/v1/categories/"+url.PathEscape(m.Payload.TargetID()), nil, nil)
	}
	return fmt.Errorf("unknown mutation type %q", m.Type)
}

// FetchAll implements Remote: one logical call returning the user's flat
// row sets, reshaped here into nested lists with the item→category weak
// references rebuilt from the join rows.
func (a *Adapter) FetchAll(ctx context.Context) ([]model.TaskList, error) {
	var snap snapshotResponse
	if err := a.client.doJSON(ctx, "GET", "/api/v1/snapshot", nil, &snap); err != nil {
		return nil, fmt.Errorf("snapshot fetch failed: %w", err)
	}

	refs := map[string][]string{}
	for _, ic := range snap.ItemCategories {
		refs[ic.ItemID] = append(refs[ic.ItemID], ic.CategoryID)
	}

	itemsByList := map[string][]model.ListItem{}
	for _, row := range snap.Items {
		item := itemFromRow(row)
		if ids, ok := refs[row.ID]; ok {
			item.Categories = ids
		}
		itemsByList[row.ListID] = append(itemsByList[row.ListID], item)
	}

	categoriesByList := map[string][]model.Category{}
	for _, row := range snap.Categories {
		categoriesByList[row.ListID] = append(categoriesByList[row.ListID], model.Category{
			ID:    row.ID,
			Name:  row.Name,
			Color: row.Color,
			Icon:  row.Icon,
		})
	}

	lists := make([]model.TaskList, 0, len(snap.Lists))
	for _, row := range snap.Lists {
		list := listFromRow(row)
		if items, ok := itemsByList[row.ID]; ok {
			list.Items = items
		}
		if categories, ok := categoriesByList[row.ID]; ok {
			list.Categories = categories
		}
		lists = append(lists, list)
	}
	return lists, nil
}

func listToRow(l model.TaskList) listRow {
	return listRow{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Color:       l.Color,
		Archived:    l.Archived,
		CreatedAt:   l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   l.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func listFromRow(row listRow) model.TaskList {
	return model.TaskList{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Color:       row.Color,
		Items:       []model.ListItem{},
		Categories:  []model.Category{},
		Archived:    row.Archived,
		CreatedAt:   parseRowDate(row.CreatedAt),
		UpdatedAt:   parseRowDate(row.UpdatedAt),
	}
}

func itemToRow(it model.ListItem, listID string) itemRow {
	row := itemRow{
		ID:          it.ID,
		ListID:      listID,
		Text:        it.Text,
		Completed:   it.Completed,
		Priority:    it.Priority,
		CreatedAt:   it.CreatedAt.UTC().Format(time.RFC3339),
		CategoryIDs: it.Categories,
	}
	if it.DueDate != nil {
		row.DueDate = it.DueDate.UTC().Format(time.RFC3339)
	}
	return row
}

func itemFromRow(row itemRow) model.ListItem {
	it := model.ListItem{
		ID:         row.ID,
		Text:       row.Text,
		Completed:  row.Completed,
		Categories: []string{},
		Priority:   row.Priority,
		CreatedAt:  parseRowDate(row.CreatedAt),
	}
	if it.Priority == "" {
		it.Priority = model.PriorityMedium
	}
	if row.DueDate != "" {
		due := parseRowDate(row.DueDate)
		it.DueDate = &due
	}
	return it
}

func parseRowDate(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Now()
	}
	return t
}
