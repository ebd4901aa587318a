package worker

import (
	"context"
	"testing"
	"time"

	"github.com/veridian-labs/docguard-core/internal/core/domain"
	"github.com/veridian-labs/docguard-core/internal/core/ports/driven/mocks"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestWorker_StoresSubmittedDocuments(t *testing.T) {
	store := mocks.NewMockDocumentStore()
	w := New(Config{Store: store, Concurrency: 2, QueueSize: 10})

	w.Start(context.Background())
	defer w.Stop()

	for i := 0; i < 5; i++ {
		doc := domain.NewDocument("doc-"+string(rune('a'+i)), "f.txt", "content", nil)
		if !w.Submit(doc) {
			t.Fatalf("submit %d rejected", i)
		}
	}

	waitFor(t, time.Second, func() bool { return store.Count() == 5 })
}

func TestWorker_SubmitWhenNotRunning(t *testing.T) {
	store := mocks.NewMockDocumentStore()
	w := New(Config{Store: store})

	doc := domain.NewDocument("doc-1", "f.txt", "content", nil)
	if w.Submit(doc) {
		t.Error("expected Submit to report false before Start")
	}
}

func TestWorker_SubmitWhenQueueFull(t *testing.T) {
	store := mocks.NewMockDocumentStore()
	w := New(Config{Store: store, Concurrency: 1, QueueSize: 1})
	// Not started: the queue fills and nothing drains it.

	w.mu.Lock()
	w.running = true
	w.mu.Unlock()

	if !w.Submit(domain.NewDocument("doc-1", "f.txt", "c", nil)) {
		t.Fatal("first submit should fit the queue")
	}
	if w.Submit(domain.NewDocument("doc-2", "f.txt", "c", nil)) {
		t.Error("expected Submit to report false on a full queue")
	}
}

func TestWorker_StopDrainsQueue(t *testing.T) {
	store := mocks.NewMockDocumentStore()
	w := New(Config{Store: store, Concurrency: 1, QueueSize: 10})

	w.Start(context.Background())
	for i := 0; i < 8; i++ {
		_ = w.Submit(domain.NewDocument("doc-"+string(rune('a'+i)), "f.txt", "content", nil))
	}
	w.Stop()

	if store.Count() != 8 {
		t.Errorf("expected 8 stored documents after Stop, got %d", store.Count())
	}
}

func TestWorker_ContextCancelDrainsQueue(t *testing.T) {
	store := mocks.NewMockDocumentStore()
	w := New(Config{Store: store, Concurrency: 1, QueueSize: 10})

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	for i := 0; i < 3; i++ {
		if !w.Submit(domain.NewDocument("doc-"+string(rune('a'+i)), "f.txt", "content", nil)) {
			t.Fatalf("submit %d rejected", i)
		}
	}
	cancel()

	// Accepted submissions still reach storage after cancellation.
	waitFor(t, time.Second, func() bool { return store.Count() == 3 })

	// New submissions are rejected so callers store synchronously instead.
	waitFor(t, time.Second, func() bool {
		return !w.Submit(domain.NewDocument("doc-z", "f.txt", "content", nil))
	})

	w.Stop()
	if store.Count() != 3 {
		t.Errorf("expected 3 stored documents, got %d", store.Count())
	}
}

func TestWorker_LogsAndContinuesOnStoreFailure(t *testing.T) {
	store := mocks.NewMockDocumentStore()
	store.FailStores = true
	w := New(Config{Store: store, Concurrency: 1, QueueSize: 10})

	w.Start(context.Background())
	_ = w.Submit(domain.NewDocument("doc-1", "f.txt", "content", nil))
	w.Stop()

	if store.Count() != 0 {
		t.Errorf("expected no stored documents, got %d", store.Count())
	}

	// The worker survives the failure and accepts more work.
	store.FailStores = false
	w.Start(context.Background())
	defer w.Stop()
	if !w.Submit(domain.NewDocument("doc-2", "f.txt", "content", nil)) {
		t.Error("expected Submit to succeed after restart")
	}
	waitFor(t, time.Second, func() bool { return store.Count() == 1 })
}

func TestWorker_StartIdempotent(t *testing.T) {
	store := mocks.NewMockDocumentStore()
	w := New(Config{Store: store})

	w.Start(context.Background())
	w.Start(context.Background())
	w.Stop()
	w.Stop()
}
