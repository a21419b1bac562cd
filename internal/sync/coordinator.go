// Package sync drives reconciliation of the pending-mutation queue
// against the remote store.
package sync

import (
	"context"
	"sync"
	"time"

	"github.com/quicklist/quicklist/internal/connectivity"
	"github.com/quicklist/quicklist/internal/logger"
	"github.com/quicklist/quicklist/internal/queue"
	"github.com/quicklist/quicklist/internal/remote"
	"github.com/quicklist/quicklist/internal/storage"
)

// Result summarizes one sync pass. Applied counts mutations that reached
// the remote store, so callers can always distinguish "nothing synced"
// from "synced N of M". Under the all-or-nothing batch policy the queue
// is only ever cleared when Applied equals Total.
type Result struct {
	Applied    int
	Total      int
	Err        error
	FinishedAt time.Time
}

// Ok reports whether the whole batch landed.
func (r Result) Ok() bool {
	return r.Err == nil
}

// Coordinator drains the pending-mutation queue against the remote
// adapter. At most one sync is ever in flight: a request arriving while
// syncing is a no-op, not queued. The queue is cleared only after every
// mutation of the pass succeeds; on any failure it is left fully intact
// for a later retry.
type Coordinator struct {
	store   storage.Store
	queue   *queue.Queue
	remote  remote.Remote
	monitor *connectivity.Monitor

	mu       sync.Mutex
	inFlight bool
	subs     []func(Result)
}

// New creates a coordinator. When monitor is non-nil, the coordinator
// subscribes to its transitions and starts a sync pass on every
// offline→online transition (the background best-effort trigger).
func New(store storage.Store, q *queue.Queue, r remote.Remote, monitor *connectivity.Monitor) *Coordinator {
	c := &Coordinator{store: store, queue: q, remote: r, monitor: monitor}
	if monitor != nil {
		monitor.Subscribe(func(state connectivity.State) {
			if state == connectivity.Online {
				go func() {
					_, _ = c.SyncNow(context.Background())
				}()
			}
		})
	}
	return c
}

// Subscribe registers a callback notified with the result of every
// completed sync pass.
func (c *Coordinator) Subscribe(fn func(Result)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Syncing reports whether a sync pass is currently in flight.
func (c *Coordinator) Syncing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// LastSync returns the persisted time of the last successful sync.
func (c *Coordinator) LastSync() (time.Time, bool) {
	var stamp string
	if !c.store.Load(storage.KeyLastSync, &stamp) {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SyncNow runs one sync pass. The second return value is false when the
// pass was skipped: another sync in flight, offline, or nothing queued.
// Skipping is silent by design; a concurrent request is not an error.
func (c *Coordinator) SyncNow(ctx context.Context) (Result, bool) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		logger.Debug("Sync already in flight, ignoring request")
		return Result{}, false
	}
	if c.monitor != nil && !c.monitor.Online() {
		c.mu.Unlock()
		logger.Debug("Offline, skipping sync")
		return Result{}, false
	}
	if c.queue.Size() == 0 {
		c.mu.Unlock()
		logger.Debug("Nothing queued, skipping sync")
		return Result{}, false
	}
	c.inFlight = true
	c.mu.Unlock()

	result := c.run(ctx)

	c.mu.Lock()
	c.inFlight = false
	subs := make([]func(Result), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(result)
	}
	return result, true
}

// Drain runs a sync pass like SyncNow, but when a pass is already in
// flight it waits for that pass and returns its result instead of
// skipping. The second return value is false only when no pass ran at
// all: offline, nothing queued, or ctx done while waiting.
func (c *Coordinator) Drain(ctx context.Context) (Result, bool) {
	done := make(chan Result, 1)
	c.Subscribe(func(r Result) {
		select {
		case done <- r:
		default:
		}
	})

	if result, ran := c.SyncNow(ctx); ran {
		return result, true
	}

	// Skipped. Either a concurrent pass is (or was) running, in which
	// case its result lands on the channel, or there was nothing to do.
	if !c.Syncing() {
		select {
		case r := <-done:
			return r, true
		default:
			return Result{}, false
		}
	}

	select {
	case r := <-done:
		return r, true
	case <-ctx.Done():
		return Result{}, false
	}
}

// run applies queued mutations strictly in enqueue order. Later entries
// may reference entities created by earlier ones in the same batch, so
// application is never reordered or parallelized.
func (c *Coordinator) run(ctx context.Context) Result {
	pending := c.queue.DequeueAll()
	result := Result{Total: len(pending)}

	logger.Info("Sync started", logger.F("pending", result.Total))

	for _, m := range pending {
		if err := c.remote.Apply(ctx, m); err != nil {
			result.Err = err
			result.FinishedAt = time.Now()
			logger.Warn("Sync failed, queue left intact for retry",
				logger.F("applied", result.Applied),
				logger.F("total", result.Total),
				logger.F("error", err))
			// All-or-nothing: the queue keeps every entry. Re-applying
			// the already-applied prefix on retry is safe because remote
			// writes are idempotent upserts.
			return result
		}
		result.Applied++
	}

	// Clear only the drained entries. Mutations enqueued while this pass
	// was in flight have higher sequence numbers and stay queued for the
	// next pass.
	if !c.queue.ClearThrough(pending[len(pending)-1].Seq) {
		logger.Warn("Failed to persist queue after sync")
	}
	stamp := time.Now().UTC().Format(time.RFC3339)
	if !c.store.Save(storage.KeyLastSync, stamp) {
		logger.Warn("Failed to persist last-sync timestamp")
	}
	result.FinishedAt = time.Now()

	logger.Info("Sync complete", logger.F("applied", result.Applied))
	return result
}
