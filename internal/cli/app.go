package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quicklist/quicklist/internal/config"
	"github.com/quicklist/quicklist/internal/connectivity"
	"github.com/quicklist/quicklist/internal/model"
	"github.com/quicklist/quicklist/internal/queue"
	"github.com/quicklist/quicklist/internal/remote"
	"github.com/quicklist/quicklist/internal/repository"
	"github.com/quicklist/quicklist/internal/storage"
	synccore "github.com/quicklist/quicklist/internal/sync"
)

// App wires the core components for one CLI invocation.
type App struct {
	Store       storage.Store
	Repo        *repository.Repository
	Queue       *queue.Queue
	Monitor     *connectivity.Monitor
	Client      *remote.Client
	Coordinator *synccore.Coordinator

	closeStore func() error
}

// openApp builds the component graph over the configured storage
// backend. The monitor is seeded from a single reachability probe when a
// session exists; later transitions come from Deliver calls.
func openApp() (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	var store storage.Store
	var closeStore func() error
	switch cfg.Storage {
	case config.StorageSQLite:
		path, err := storage.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		s, err := storage.OpenSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
		store = s
		closeStore = s.Close
	default:
		dir := cfg.DataDir
		if dir == "" {
			var err error
			dir, err = storage.DefaultDataDir()
			if err != nil {
				return nil, err
			}
		}
		s, err := storage.NewFileStore(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
		store = s
	}

	client, err := remote.NewClient()
	if err != nil {
		return nil, err
	}

	online := false
	if client.IsLoggedIn() {
		online = client.Reachable(context.Background())
	}

	q := queue.Open(store)
	monitor := connectivity.NewMonitor(online)
	repo := repository.New(store, q)
	coordinator := synccore.New(store, q, remote.NewAdapter(client), monitor)

	return &App{
		Store:       store,
		Repo:        repo,
		Queue:       q,
		Monitor:     monitor,
		Client:      client,
		Coordinator: coordinator,
		closeStore:  closeStore,
	}, nil
}

// Close releases the storage backend if it needs closing.
func (a *App) Close() {
	if a.closeStore != nil {
		_ = a.closeStore()
	}
}

// maybeSyncAfterChange runs a best-effort foreground sync pass after a
// mutating command, so queued work drains without waiting for the next
// explicit sync.
func maybeSyncAfterChange(app *App) {
	if !app.Client.IsLoggedIn() || app.Queue.Size() == 0 || !app.Monitor.Online() {
		return
	}

	result, ran := app.Coordinator.SyncNow(context.Background())
	if !ran {
		return
	}
	if result.Ok() {
		fmt.Printf("✓ Synced %d change(s)\n", result.Applied)
	} else {
		fmt.Printf("⚠️  Sync failed, %d change(s) still queued: %v\n", app.Queue.Size(), result.Err)
	}
}

// warnQueueWrite downgrades a failed pending-queue persist to a warning.
// The entity change itself landed; only the replay record is at risk of
// being lost on restart, so the command should not report failure.
func warnQueueWrite(err error) error {
	if errors.Is(err, repository.ErrQueueWrite) {
		fmt.Println("⚠️  Change saved but could not be queued for sync; it may not sync after a restart")
		return nil
	}
	return err
}

// findList resolves a list reference: exact id, then exact title, then
// case-insensitive title.
func findList(lists []model.TaskList, ref string) (model.TaskList, error) {
	for _, l := range lists {
		if l.ID == ref || l.Title == ref {
			return l, nil
		}
	}
	for _, l := range lists {
		if strings.EqualFold(l.Title, ref) {
			return l, nil
		}
	}
	return model.TaskList{}, fmt.Errorf("no list matches %q", ref)
}

// findItem resolves an item inside a list by id or exact text.
func findItem(list model.TaskList, ref string) (model.ListItem, error) {
	for _, it := range list.Items {
		if it.ID == ref || it.Text == ref {
			return it, nil
		}
	}
	return model.ListItem{}, fmt.Errorf("no item in %q matches %q", list.Title, ref)
}
