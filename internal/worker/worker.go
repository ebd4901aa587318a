package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/veridian-labs/docguard-core/internal/core/domain"
	"github.com/veridian-labs/docguard-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.StoreQueue = (*Worker)(nil)

// Worker persists documents in the background. Uploads are acknowledged
// before their store completes, so reads for a freshly uploaded id may race
// the write; the text cache covers that window.
type Worker struct {
	store  driven.DocumentStore
	logger *slog.Logger

	concurrency int
	tasks       chan *domain.Document

	// Internal state
	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Config holds configuration for the worker.
type Config struct {
	Store       driven.DocumentStore
	Logger      *slog.Logger
	Concurrency int // Number of concurrent store goroutines
	QueueSize   int // Buffered task capacity
}

// New creates a new storage worker.
func New(cfg Config) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 2
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	return &Worker{
		store:       cfg.Store,
		logger:      logger,
		concurrency: concurrency,
		tasks:       make(chan *domain.Document, queueSize),
	}
}

// storeTimeout bounds each background store so a drain stays finite even
// after the server's request context is gone.
const storeTimeout = 30 * time.Second

// Start begins the store loops. Cancelling ctx is equivalent to calling
// Stop: new submissions are rejected and the queued tasks are drained.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	stopCh := w.stopCh
	doneCh := w.doneCh
	w.mu.Unlock()

	w.logger.Info("storage worker starting",
		"concurrency", w.concurrency,
		"queue_size", cap(w.tasks),
	)

	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.storeLoop(stopCh, workerID)
		}(i)
	}

	go func() {
		wg.Wait()
		close(doneCh)
	}()

	go func() {
		select {
		case <-ctx.Done():
			w.Stop()
		case <-stopCh:
		}
	}()
}

// Stop gracefully stops the worker, draining tasks already queued before
// returning. Submissions are rejected as soon as the stop begins, so
// callers fall back to storing synchronously.
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.running {
		w.running = false
		close(w.stopCh)
	}
	doneCh := w.doneCh
	w.mu.Unlock()

	// A concurrent Stop (context cancellation) may have started the drain;
	// wait for it either way so queued tasks reach storage before return.
	if doneCh == nil {
		return
	}
	<-doneCh

	w.logger.Info("storage worker stopped")
}

// Submit queues a document for background storage. It reports false when
// the queue is full or the worker is not running; callers then fall back to
// storing synchronously. The enqueue happens under the lock so a stop
// cannot begin between the running check and the send.
func (w *Worker) Submit(doc *domain.Document) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.running {
		return false
	}

	select {
	case w.tasks <- doc:
		return true
	default:
		w.logger.Warn("store queue full, rejecting submission",
			"document_id", doc.DocumentID)
		return false
	}
}

func (w *Worker) storeLoop(stopCh <-chan struct{}, workerID int) {
	logger := w.logger.With("worker_id", workerID)

	for {
		select {
		case doc := <-w.tasks:
			w.storeDocument(doc, logger)
		case <-stopCh:
			w.drain(logger)
			return
		}
	}
}

// drain stores whatever is still queued at shutdown.
func (w *Worker) drain(logger *slog.Logger) {
	for {
		select {
		case doc := <-w.tasks:
			w.storeDocument(doc, logger)
		default:
			return
		}
	}
}

// storeDocument runs under its own deadline. The context the worker was
// started with may already be cancelled by the time queued tasks land.
func (w *Worker) storeDocument(doc *domain.Document, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	start := time.Now()
	if !w.store.Store(ctx, doc) {
		logger.Error("background store failed",
			"document_id", doc.DocumentID,
			"filename", doc.Filename,
			"duration", time.Since(start),
		)
		return
	}
	logger.Info("background store completed",
		"document_id", doc.DocumentID,
		"duration", time.Since(start),
	)
}
