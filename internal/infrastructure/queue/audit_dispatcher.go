package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/cvmotors/dealership-system/internal/core/domain"
	"github.com/cvmotors/dealership-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	insertTimeout  = 5 * time.Second
)

// AuditDispatcher persists auth events off the request path. Events are
// routed to a fixed set of workers by hashing the account email, keeping
// per-account event ordering in the audit trail.
type AuditDispatcher struct {
	workers []chan domain.AuthEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuthEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuthEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an event for its shard. The call never blocks: when the
// shard channel is full the event is dropped and logged, because no request
// may stall on the audit trail.
func (d *AuditDispatcher) Record(event domain.AuthEvent) {
	shard := d.shardIndex(event.Email)
	select {
	case d.workers[shard] <- event:
	default:
		d.log.Warn().Str("kind", string(event.Kind)).Int("worker_id", shard).Msg("audit queue full, event dropped")
	}
}

func (d *AuditDispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32()) % len(d.workers)
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuthEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			insertCtx, cancel := context.WithTimeout(context.Background(), insertTimeout)
			if err := d.repo.Insert(insertCtx, &event); err != nil {
				d.log.Error().Err(err).
					Str("kind", string(event.Kind)).
					Int("worker_id", id).
					Msg("audit event insert failed")
			}
			cancel()
		}
	}
}
