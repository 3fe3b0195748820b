package audit

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultQueueSize is the Recorder buffer used when none is given.
const DefaultQueueSize = 256

// drainTimeout bounds the final flush after Run's context is cancelled.
const drainTimeout = 5 * time.Second

// Recorder queues audit entries and writes them serially.
//
// Thread Safety: Record is safe for concurrent use. Run must be called once.
type Recorder struct {
	repo    Repository
	queue   chan *AuditLog
	logger  Logger
	dropped atomic.Uint64
}

// NewRecorder creates a recorder writing to repo.
//
// Parameters:
//   - repo: Destination repository
//   - size: Queue capacity; <= 0 selects DefaultQueueSize
//   - logger: Optional
func NewRecorder(repo Repository, size int, logger Logger) *Recorder {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Recorder{
		repo:   repo,
		queue:  make(chan *AuditLog, size),
		logger: logger,
	}
}

// Record enqueues entry without blocking. A nil Recorder discards entries.
// It reports whether the entry was queued.
func (r *Recorder) Record(entry *AuditLog) bool {
	if r == nil || entry == nil {
		return false
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	select {
	case r.queue <- entry:
		return true
	default:
		r.dropped.Add(1)
		r.logger.Warn("audit queue full, dropping entry",
			"action", entry.Action,
			"entity_id", entry.EntityID,
		)
		return false
	}
}

// Dropped returns how many entries were discarded because the queue was full.
func (r *Recorder) Dropped() uint64 {
	if r == nil {
		return 0
	}
	return r.dropped.Load()
}

// Run writes queued entries until ctx is cancelled, then flushes what is
// still queued. It always returns nil.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case entry := <-r.queue:
			r.write(ctx, entry)
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
			defer cancel()
			for {
				select {
				case entry := <-r.queue:
					r.write(flushCtx, entry)
				default:
					return nil
				}
			}
		}
	}
}

func (r *Recorder) write(ctx context.Context, entry *AuditLog) {
	if err := r.repo.Create(ctx, entry); err != nil {
		r.logger.Error("audit log write failed",
			"action", entry.Action,
			"entity_id", entry.EntityID,
			"error", err,
		)
	}
}
