// Package queue holds the ordered log of mutations performed locally but
// not yet applied to the remote store. Entries survive restarts: the
// queue persists itself after every mutating call.
package queue

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quicklist/quicklist/internal/logger"
	"github.com/quicklist/quicklist/internal/model"
	"github.com/quicklist/quicklist/internal/storage"
)

// Queue is a FIFO log of pending mutations backed by the durable store.
type Queue struct {
	mu      sync.Mutex
	store   storage.Store
	entries []model.PendingMutation
	seq     int64
}

// Open loads the persisted queue from the store, or starts empty.
func Open(store storage.Store) *Queue {
	q := &Queue{store: store}

	var entries []model.PendingMutation
	if store.Load(storage.KeyPending, &entries) {
		q.entries = entries
		for _, e := range entries {
			if e.Seq > q.seq {
				q.seq = e.Seq
			}
		}
	}
	return q
}

// Enqueue appends a mutation and persists the queue. The assigned
// sequence number is strictly increasing, so ordering stays well-defined
// even when several mutations land within the same millisecond. The
// second return value is false when the persist failed: the entry is
// held in memory but will not survive a restart.
func (q *Queue) Enqueue(mutationType, entity string, payload model.MutationPayload) (model.PendingMutation, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	m := model.PendingMutation{
		ID:        uuid.New().String(),
		Seq:       q.seq,
		Type:      mutationType,
		Entity:    entity,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	q.entries = append(q.entries, m)
	ok := q.persist()

	logger.Debug("Mutation queued",
		logger.F("type", mutationType),
		logger.F("entity", entity),
		logger.F("seq", m.Seq),
		logger.F("size", len(q.entries)))
	return m, ok
}

// Record implements the repository's mutation sink.
func (q *Queue) Record(mutationType, entity string, payload model.MutationPayload) bool {
	_, ok := q.Enqueue(mutationType, entity, payload)
	return ok
}

// DequeueAll returns a copy of all pending mutations in enqueue order.
// The queue itself is left untouched; callers clear it only after every
// returned mutation has been applied remotely.
func (q *Queue) DequeueAll() []model.PendingMutation {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]model.PendingMutation, len(q.entries))
	copy(out, q.entries)
	return out
}

// Clear drops all entries and persists the empty queue.
func (q *Queue) Clear() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.entries = nil
	return q.persist()
}

// ClearThrough drops every entry with a sequence number at or below
// maxSeq and persists the result. Mutations enqueued while a sync pass
// was draining an earlier snapshot of the queue stay put, so a
// concurrent Enqueue is never lost to the pass's cleanup.
func (q *Queue) ClearThrough(maxSeq int64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.entries[:0]
	for _, e := range q.entries {
		if e.Seq > maxSeq {
			kept = append(kept, e)
		}
	}
	q.entries = kept
	return q.persist()
}

// Size returns the number of pending mutations.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// PurgeList removes every queued mutation referencing the given list or
// any of its descendant ids, so a deleted list cannot be resurrected by
// a later sync. Returns the number of entries removed.
func (q *Queue) PurgeList(listID string, descendantIDs []string) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	descendants := make(map[string]bool, len(descendantIDs))
	for _, id := range descendantIDs {
		descendants[id] = true
	}

	kept := q.entries[:0]
	removed := 0
	for _, e := range q.entries {
		if e.References(listID, descendants) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	q.entries = kept

	if removed > 0 {
		q.persist()
		logger.Info("Purged queued mutations for deleted list",
			logger.F("listID", listID),
			logger.F("removed", removed))
	}
	return removed
}

func (q *Queue) persist() bool {
	entries := q.entries
	if entries == nil {
		entries = []model.PendingMutation{}
	}
	if !q.store.Save(storage.KeyPending, entries) {
		logger.Error("Failed to persist pending mutations", logger.F("size", len(entries)))
		return false
	}
	return true
}
