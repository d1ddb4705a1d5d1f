package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"dealer-admin-console/internal/model"
)

// Queue is the bounded toast queue backing the console's notification area.
// New alerts are prepended; the queue keeps at most capacity entries and each
// entry expires ttl after it was pushed.
type Queue struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	alerts   []model.Alert // newest first
	now      func() time.Time
}

func NewQueue(capacity int, ttl time.Duration) *Queue {
	if capacity <= 0 {
		capacity = 4
	}
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Queue{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Push enqueues a new alert in front of the queue, evicting the oldest entry
// when the queue is full.
func (q *Queue) Push(message string, status model.AlertStatus) model.Alert {
	q.mu.Lock()
	defer q.mu.Unlock()

	alert := model.Alert{
		ID:        uuid.NewString(),
		Message:   message,
		Status:    status,
		ExpiresAt: q.now().Add(q.ttl),
	}

	kept := q.alerts
	if len(kept) > q.capacity-1 {
		kept = kept[:q.capacity-1]
	}
	q.alerts = append([]model.Alert{alert}, kept...)

	return alert
}

// Snapshot returns the live alerts newest first, dropping expired entries.
func (q *Queue) Snapshot() []model.Alert {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.evictExpiredLocked()

	out := make([]model.Alert, len(q.alerts))
	copy(out, q.alerts)
	return out
}

func (q *Queue) Remove(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.alerts[:0]
	for _, alert := range q.alerts {
		if alert.ID != id {
			kept = append(kept, alert)
		}
	}
	q.alerts = kept
}

func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.alerts = nil
}

// StartSweeper expires alerts on a fixed interval until ctx is cancelled, so
// entries disappear even when nobody polls Snapshot.
func (q *Queue) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			q.mu.Lock()
			q.evictExpiredLocked()
			q.mu.Unlock()
		}
	}
}

func (q *Queue) evictExpiredLocked() {
	now := q.now()
	kept := q.alerts[:0]
	for _, alert := range q.alerts {
		if alert.ExpiresAt.After(now) {
			kept = append(kept, alert)
		}
	}
	q.alerts = kept
}
