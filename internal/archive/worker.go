package archive

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"lab-reservation-backend/internal/lab"
)

// SessionStore persists closed sessions.
type SessionStore interface {
	ArchiveSession(ctx context.Context, s lab.Session) error
}

// WorkerPool writes closed borrow sessions to the store in the background.
type WorkerPool struct {
	lab.NopObserver

	size    int
	jobs    chan lab.Session
	store   SessionStore
	wg      sync.WaitGroup
	dropped atomic.Int64
}

// NewWorkerPool creates a pool with the given worker count and queue capacity.
func NewWorkerPool(size, queueSize int, s SessionStore) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{
		size:  size,
		jobs:  make(chan lab.Session, queueSize),
		store: s,
	}
}

// Start launches the worker goroutines. Workers drain the queue after ctx is
// cancelled and exit once it is empty.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

// Wait blocks until every worker has exited.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	log.Printf("Archive worker %d started", id)
	for {
		select {
		case s := <-wp.jobs:
			wp.persist(ctx, s)
		case <-ctx.Done():
			for {
				select {
				case s := <-wp.jobs:
					wp.persist(context.Background(), s)
				default:
					log.Printf("Archive worker %d shutting down", id)
					return
				}
			}
		}
	}
}

func (wp *WorkerPool) persist(ctx context.Context, s lab.Session) {
	if err := wp.store.ArchiveSession(ctx, s); err != nil {
		log.Printf("Error archiving session for device %d user %d: %v", s.DeviceID, s.UserID, err)
	}
}

// SessionClosed queues the session without blocking. A full queue drops it.
func (wp *WorkerPool) SessionClosed(s lab.Session) {
	select {
	case wp.jobs <- s:
	default:
		wp.dropped.Add(1)
		log.Printf("Archive queue full; dropping session for device %d user %d", s.DeviceID, s.UserID)
	}
}

// Dropped reports how many sessions were discarded because the queue was full.
func (wp *WorkerPool) Dropped() int64 {
	return wp.dropped.Load()
}
