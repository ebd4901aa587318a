package services

import (
	"context"
	"errors"
	"testing"

	"github.com/veridian-labs/docguard-core/internal/core/domain"
	"github.com/veridian-labs/docguard-core/internal/core/ports/driven/mocks"
	"github.com/veridian-labs/docguard-core/internal/scanners"
)

func newIngestService(store *mocks.MockDocumentStore, cache *mocks.MockTextCache, queue *mocks.MockStoreQueue, async bool) *IngestService {
	cfg := IngestConfig{
		Extractor: mocks.NewMockTextExtractor(),
		Pipeline:  scanners.DefaultPipeline(nil),
		Cache:     cache,
		Store:     store,
		Async:     async,
	}
	if queue != nil {
		cfg.Queue = queue
	}
	return NewIngestService(cfg)
}

func TestIngestService_SyncStore(t *testing.T) {
	store := mocks.NewMockDocumentStore()
	cache := mocks.NewMockTextCache()
	svc := newIngestService(store, cache, nil, false)

	receipt, err := svc.Ingest(context.Background(), "report.txt", []byte("Contact: a@b.com, SSN 123-45-6789"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.DocumentID == "" {
		t.Fatal("expected a generated document id")
	}
	if receipt.Filename != "report.txt" {
		t.Errorf("expected filename report.txt, got %s", receipt.Filename)
	}
	if !receipt.Analysis.Success {
		t.Error("expected successful analysis")
	}
	if receipt.Analysis.Statistics.TotalFindings != 2 {
		t.Errorf("expected 2 findings, got %d", receipt.Analysis.Statistics.TotalFindings)
	}

	// Stored with denormalised counters
	doc, err := store.GetByID(context.Background(), receipt.DocumentID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.EmailCount != 1 || doc.SSNCount != 1 {
		t.Errorf("expected email/ssn counts 1/1, got %d/%d", doc.EmailCount, doc.SSNCount)
	}
	if doc.ContentLength != len(doc.Content) {
		t.Errorf("expected ContentLength %d, got %d", len(doc.Content), doc.ContentLength)
	}

	// Text cached under the generated id
	text, err := cache.Get(context.Background(), receipt.DocumentID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Contact: a@b.com, SSN 123-45-6789" {
		t.Errorf("unexpected cached text %q", text)
	}
}

func TestIngestService_AsyncQueuesDocument(t *testing.T) {
	store := mocks.NewMockDocumentStore()
	queue := mocks.NewMockStoreQueue()
	svc := newIngestService(store, mocks.NewMockTextCache(), queue, true)

	receipt, err := svc.Ingest(context.Background(), "report.txt", []byte("hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	submitted := queue.Submitted()
	if len(submitted) != 1 {
		t.Fatalf("expected 1 queued document, got %d", len(submitted))
	}
	if submitted[0].DocumentID != receipt.DocumentID {
		t.Errorf("queued id %s does not match receipt %s", submitted[0].DocumentID, receipt.DocumentID)
	}
	// Nothing stored synchronously
	if store.Count() != 0 {
		t.Errorf("expected 0 synchronous stores, got %d", store.Count())
	}
}

func TestIngestService_AsyncFallsBackWhenQueueRejects(t *testing.T) {
	store := mocks.NewMockDocumentStore()
	queue := mocks.NewMockStoreQueue()
	queue.Reject = true
	svc := newIngestService(store, mocks.NewMockTextCache(), queue, true)

	receipt, err := svc.Ingest(context.Background(), "report.txt", []byte("hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Count() != 1 {
		t.Fatalf("expected synchronous fallback store, got %d", store.Count())
	}
	if _, err := store.GetByID(context.Background(), receipt.DocumentID); err != nil {
		t.Errorf("expected stored document, got %v", err)
	}
}

func TestIngestService_StorageUnavailable(t *testing.T) {
	store := mocks.NewMockDocumentStore()
	store.FailStores = true
	svc := newIngestService(store, mocks.NewMockTextCache(), nil, false)

	_, err := svc.Ingest(context.Background(), "report.txt", []byte("hello"))
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestIngestService_ExtractionErrorPropagates(t *testing.T) {
	store := mocks.NewMockDocumentStore()
	extractor := mocks.NewMockTextExtractor()
	extractor.ExtractFn = func(filename string, data []byte) (string, error) {
		return "", domain.ErrUnsupportedFile
	}
	svc := NewIngestService(IngestConfig{
		Extractor: extractor,
		Pipeline:  scanners.DefaultPipeline(nil),
		Cache:     mocks.NewMockTextCache(),
		Store:     store,
	})

	_, err := svc.Ingest(context.Background(), "sheet.xlsx", []byte("data"))
	if !errors.Is(err, domain.ErrUnsupportedFile) {
		t.Errorf("expected ErrUnsupportedFile, got %v", err)
	}
	if store.Count() != 0 {
		t.Errorf("expected nothing stored, got %d", store.Count())
	}
}

func TestIngestService_EmptyUpload(t *testing.T) {
	svc := newIngestService(mocks.NewMockDocumentStore(), mocks.NewMockTextCache(), nil, false)

	if _, err := svc.Ingest(context.Background(), "", []byte("data")); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty filename, got %v", err)
	}
	if _, err := svc.Ingest(context.Background(), "a.txt", nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty body, got %v", err)
	}
}

func TestIngestService_CacheFailureDoesNotAbort(t *testing.T) {
	store := mocks.NewMockDocumentStore()
	cache := mocks.NewMockTextCache()
	cache.SetErr = errors.New("redis down")
	svc := newIngestService(store, cache, nil, false)

	_, err := svc.Ingest(context.Background(), "report.txt", []byte("hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Count() != 1 {
		t.Errorf("expected document stored despite cache failure, got %d", store.Count())
	}
}
