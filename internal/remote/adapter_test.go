package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quicklist/quicklist/internal/model"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sync.json")
	session := fmt.Sprintf(`{"server_url": %q, "token": "test-token", "user_id": "u1"}`, serverURL)
	if err := os.WriteFile(path, []byte(session), 0600); err != nil {
		t.Fatal(err)
	}
	return NewClientWithPath(path)
}

type capturedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   []byte
}

func captureServer(t *testing.T, status int, response string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Method = r.Method
		captured.Path = r.URL.Path
		captured.Auth = r.Header.Get("Authorization")
		captured.Body, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func TestApplyListCreate(t *testing.T) {
	srv, captured := captureServer(t, http.StatusOK, "{}")
	adapter := NewAdapter(newTestClient(t, srv.URL))

	list := model.NewTaskList("l1", "Groceries", "weekly", "#fff")
	err := adapter.Apply(context.Background(), model.PendingMutation{
		Type:    model.MutationCreate,
		Entity:  model.EntityList,
		Payload: model.MutationPayload{List: &list},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if captured.Method != "POST" || captured.Path != "/api/v1/lists" {
		t.Errorf("expected POST /api/v1/lists, got %s %s", captured.Method, captured.Path)
	}
	if captured.Auth != "Bearer test-token" {
		t.Errorf("missing bearer token: %q", captured.Auth)
	}

	var row listRow
	if err := json.Unmarshal(captured.Body, &row); err != nil {
		t.Fatalf("body not a list row: %v", err)
	}
	if row.ID != "l1" || row.Title != "Groceries" {
		t.Errorf("row fields lost: %+v", row)
	}
}

func TestApplyItemUpdateUsesPut(t *testing.T) {
	srv, captured := captureServer(t, http.StatusOK, "{}")
	adapter := NewAdapter(newTestClient(t, srv.URL))

	item := model.NewListItem("i1", "Milk")
	item.Completed = true
	err := adapter.Apply(context.Background(), model.PendingMutation{
		Type:    model.MutationUpdate,
		Entity:  model.EntityItem,
		Payload: model.MutationPayload{Item: &item, ListID: "l1"},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if captured.Method != "PUT" || captured.Path != "/api/v1/items/i1" {
		t.Errorf("expected PUT /api/v1/items/i1, got %s %s", captured.Method, captured.Path)
	}

	var row itemRow
	if err := json.Unmarshal(captured.Body, &row); err != nil {
		t.Fatal(err)
	}
	if row.ListID != "l1" || !row.Completed {
		t.Errorf("item row fields lost: %+v", row)
	}
}

func TestApplyCategoryDelete(t *testing.T) {
	srv, captured := captureServer(t, http.StatusOK, "{}")
	adapter := NewAdapter(newTestClient(t, srv.URL))

	err := adapter.Apply(context.Background(), model.PendingMutation{
		Type:    model.MutationDelete,
		Entity:  model.EntityCategory,
		Payload: model.MutationPayload{ID: "c1", ListID: "l1"},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if captured.Method != "DELETE" || captured.Path != "/api/v1/categories/c1" {
		t.Errorf("expected DELETE /api/v1/categories/c1, got %s %s", captured.Method, captured.Path)
	}
}

func TestApplyFailsClosedOnServerError(t *testing.T) {
	srv, _ := captureServer(t, http.StatusInternalServerError, `{"error": "boom"}`)
	adapter := NewAdapter(newTestClient(t, srv.URL))

	list := model.NewTaskList("l1", "Groceries", "", "#fff")
	err := adapter.Apply(context.Background(), model.PendingMutation{
		Type:    model.MutationCreate,
		Entity:  model.EntityList,
		Payload: model.MutationPayload{List: &list},
	})
	if err == nil {
		t.Fatal("server error not surfaced")
	}
}

func TestApplyRejectsMalformedMutation(t *testing.T) {
	srv, _ := captureServer(t, http.StatusOK, "{}")
	adapter := NewAdapter(newTestClient(t, srv.URL))

	err := adapter.Apply(context.Background(), model.PendingMutation{
		Type:   model.MutationCreate,
		Entity: model.EntityList,
		// No payload.
	})
	if err == nil {
		t.Fatal("create without payload accepted")
	}

	err = adapter.Apply(context.Background(), model.PendingMutation{
		Type:   model.MutationCreate,
		Entity: "widget",
	})
	if err == nil {
		t.Fatal("unknown entity accepted")
	}
}

func TestFetchAllRebuildsNesting(t *testing.T) {
	now := time.Now().UTC().Format(time.RFC3339)
	snapshot := fmt.Sprintf(`{
		"lists": [{"id": "l1", "title": "Groceries", "color": "#fff", "archived": false, "created_at": %q, "updated_at": %q}],
		"items": [
			{"id": "i1", "list_id": "l1", "text": "Milk", "completed": false, "priority": "high", "created_at": %q},
			{"id": "i2", "list_id": "l1", "text": "Eggs", "completed": true, "priority": "", "created_at": %q}
		],
		"categories": [{"id": "c1", "list_id": "l1", "name": "Dairy", "color": "#abc"}],
		"item_categories": [{"item_id": "i1", "category_id": "c1"}]
	}`, now, now, now, now)

	srv, captured := captureServer(t, http.StatusOK, snapshot)
	adapter := NewAdapter(newTestClient(t, srv.URL))

	lists, err := adapter.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if captured.Method != "GET" || captured.Path != "/api/v1/snapshot" {
		t.Errorf("expected GET /api/v1/snapshot, got %s %s", captured.Method, captured.Path)
	}

	if len(lists) != 1 {
		t.Fatalf("expected 1 list, got %d", len(lists))
	}
	list := lists[0]
	if len(list.Items) != 2 || len(list.Categories) != 1 {
		t.Fatalf("nesting not rebuilt: %d items, %d categories", len(list.Items), len(list.Categories))
	}

	milk := list.Item("i1")
	if milk == nil || len(milk.Categories) != 1 || milk.Categories[0] != "c1" {
		t.Errorf("item→category reference not rebuilt: %+v", milk)
	}
	eggs := list.Item("i2")
	if eggs == nil || len(eggs.Categories) != 0 {
		t.Errorf("unlinked item gained references: %+v", eggs)
	}
	if eggs.Priority != model.PriorityMedium {
		t.Errorf("empty priority not defaulted: %q", eggs.Priority)
	}
}
