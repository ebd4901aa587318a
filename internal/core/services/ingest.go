package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/veridian-labs/docguard-core/internal/core/domain"
	"github.com/veridian-labs/docguard-core/internal/core/ports/driven"
	"github.com/veridian-labs/docguard-core/internal/core/ports/driving"
)

// Verify interface compliance
var _ driving.IngestService = (*IngestService)(nil)

// IngestService orchestrates an upload: extract text, run the scan
// pipeline, cache the text and hand the document to storage. With async
// storage enabled the upload is acknowledged before the write lands.
type IngestService struct {
	extractor driven.TextExtractor
	pipeline  driven.ScanPipeline
	cache     driven.TextCache
	store     driven.DocumentStore
	queue     driven.StoreQueue
	logger    *slog.Logger
	async     bool
}

// IngestConfig holds configuration for the ingest service.
type IngestConfig struct {
	Extractor driven.TextExtractor
	Pipeline  driven.ScanPipeline
	Cache     driven.TextCache
	Store     driven.DocumentStore
	Queue     driven.StoreQueue // required when Async is true
	Logger    *slog.Logger
	Async     bool
}

// NewIngestService creates a new IngestService
func NewIngestService(cfg IngestConfig) *IngestService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	async := cfg.Async && cfg.Queue != nil
	return &IngestService{
		extractor: cfg.Extractor,
		pipeline:  cfg.Pipeline,
		cache:     cfg.Cache,
		store:     cfg.Store,
		queue:     cfg.Queue,
		logger:    logger,
		async:     async,
	}
}

// Ingest processes an uploaded file. The document id is generated here and
// unique per upload; re-uploading the same file yields a new record.
func (s *IngestService) Ingest(ctx context.Context, filename string, data []byte) (*domain.UploadReceipt, error) {
	if filename == "" || len(data) == 0 {
		return nil, fmt.Errorf("%w: empty filename or body", domain.ErrInvalidInput)
	}

	text, err := s.extractor.Extract(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	documentID := uuid.NewString()
	analysis := s.pipeline.Process(text)
	if !analysis.Success {
		s.logger.Warn("analysis completed with scanner failures",
			"document_id", documentID,
			"chars", analysis.Statistics.TotalCharsProcessed,
			"handlers", analysis.Statistics.HandlersUsed,
		)
	}

	// Cache first so reads can be served while storage is in flight.
	if err := s.cache.Set(ctx, documentID, text); err != nil {
		s.logger.Warn("failed to cache document text",
			"document_id", documentID, "error", err)
	}

	doc := domain.NewDocument(documentID, filename, text, analysis)

	if s.async {
		if s.queue.Submit(doc) {
			s.logger.Info("document queued for storage",
				"document_id", documentID,
				"filename", filename,
				"findings", doc.SensitiveCount,
			)
			return receipt(doc), nil
		}
		s.logger.Warn("store queue rejected document, storing synchronously",
			"document_id", documentID)
	}

	if !s.store.Store(ctx, doc) {
		return nil, domain.ErrStorageUnavailable
	}

	s.logger.Info("document stored",
		"document_id", documentID,
		"filename", filename,
		"findings", doc.SensitiveCount,
	)
	return receipt(doc), nil
}

func receipt(doc *domain.Document) *domain.UploadReceipt {
	return &domain.UploadReceipt{
		DocumentID: doc.DocumentID,
		Filename:   doc.Filename,
		Analysis:   doc.Analysis,
	}
}
