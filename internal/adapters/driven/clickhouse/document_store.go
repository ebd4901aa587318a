package clickhouse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/veridian-labs/docguard-core/internal/core/domain"
	"github.com/veridian-labs/docguard-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentStore = (*DocumentStore)(nil)

const createTableQuery = `
CREATE TABLE IF NOT EXISTS documents (
    document_id String,
    filename String,
    upload_timestamp DateTime64(3, 'UTC'),
    content String,
    content_length UInt32,
    analysis_result String,
    sensitive_info_count UInt32,
    email_count UInt32,
    ssn_count UInt32
)
ENGINE = MergeTree()
ORDER BY (upload_timestamp, document_id)
SETTINGS index_granularity = 8192
`

const documentColumns = `document_id, filename, upload_timestamp, content, content_length, analysis_result, sensitive_info_count, email_count, ssn_count`

// DocumentStore implements driven.DocumentStore over a pooled ClickHouse
// client. Every operation borrows exactly one connection for its whole
// duration; the existence check inside Store and the following write share
// that connection.
type DocumentStore struct {
	pool   *Pool
	logger *slog.Logger
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(pool *Pool, logger *slog.Logger) *DocumentStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentStore{pool: pool, logger: logger}
}

// EnsureSchema creates the documents table when it is missing. It checks
// system.tables first and relies on CREATE TABLE IF NOT EXISTS for creation
// races between processes. Safe to call on every startup.
func (s *DocumentStore) EnsureSchema(ctx context.Context) error {
	return s.pool.WithConn(ctx, func(conn Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT name FROM system.tables WHERE database = currentDatabase() AND name = 'documents'`)
		if err != nil {
			return fmt.Errorf("failed to check for documents table: %w", err)
		}
		exists := rows.Next()
		_ = rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to check for documents table: %w", err)
		}

		if exists {
			s.logger.Info("table documents already exists")
			return nil
		}

		if err := conn.Exec(ctx, createTableQuery); err != nil {
			return fmt.Errorf("failed to create documents table: %w", err)
		}
		s.logger.Info("created table documents")
		return nil
	})
}

// Ping probes the store through the pool, for readiness checks.
func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.pool.WithConn(ctx, func(conn Conn) error {
		return conn.Ping(ctx)
	})
}

// Store upserts the document. The existence check and the write run on the
// same pooled connection but are not atomic: concurrent writers of the same
// document_id can race between check and write. MergeTree offers no
// conditional-write primitive to close that gap; an update is a lightweight
// delete followed by an insert.
func (s *DocumentStore) Store(ctx context.Context, doc *domain.Document) bool {
	analysisJSON, err := json.Marshal(doc.Analysis)
	if err != nil {
		s.logger.Error("failed to encode analysis result",
			"document_id", doc.DocumentID, "error", err)
		return false
	}

	doc.UploadTimestamp = time.Now().UTC().Truncate(time.Millisecond)

	err = s.pool.WithConn(ctx, func(conn Conn) error {
		exists, err := s.exists(ctx, conn, doc.DocumentID)
		if err != nil {
			return err
		}
		if exists {
			if err := conn.Exec(ctx,
				`DELETE FROM documents WHERE document_id = ?`, doc.DocumentID); err != nil {
				return fmt.Errorf("failed to delete existing row: %w", err)
			}
		}

		return conn.Exec(ctx, `
			INSERT INTO documents (`+documentColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			doc.DocumentID,
			doc.Filename,
			doc.UploadTimestamp,
			doc.Content,
			uint32(doc.ContentLength),
			string(analysisJSON),
			uint32(doc.SensitiveCount),
			uint32(doc.EmailCount),
			uint32(doc.SSNCount),
		)
	})
	if err != nil {
		s.logger.Error("failed to store document",
			"document_id", doc.DocumentID,
			"filename", doc.Filename,
			"error", err,
		)
		return false
	}

	s.logger.Info("stored document",
		"document_id", doc.DocumentID,
		"content_length", doc.ContentLength,
		"findings", doc.SensitiveCount,
	)
	return true
}

func (s *DocumentStore) exists(ctx context.Context, conn Conn, id string) (bool, error) {
	rows, err := conn.Query(ctx,
		`SELECT count() FROM documents WHERE document_id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check document existence: %w", err)
	}
	defer rows.Close()

	var count uint64
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return false, fmt.Errorf("failed to scan existence count: %w", err)
		}
	}
	return count > 0, rows.Err()
}

// GetByID retrieves a document by id. Pool or query failure degrades to
// domain.ErrNotFound; the cause is logged.
func (s *DocumentStore) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := s.getOne(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE document_id = ? LIMIT 1`, id)
	if err != nil {
		if err != domain.ErrNotFound {
			s.logger.Error("failed to get document", "document_id", id, "error", err)
		}
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// GetByFilename retrieves the most recently stored document with the
// filename, tolerating true duplicates by name.
func (s *DocumentStore) GetByFilename(ctx context.Context, filename string) (*domain.Document, error) {
	doc, err := s.getOne(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE filename = ? ORDER BY upload_timestamp DESC LIMIT 1`,
		filename)
	if err != nil {
		if err != domain.ErrNotFound {
			s.logger.Error("failed to get document by filename", "filename", filename, "error", err)
		}
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (s *DocumentStore) getOne(ctx context.Context, query string, args ...any) (*domain.Document, error) {
	var doc *domain.Document
	err := s.pool.WithConn(ctx, func(conn Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return err
			}
			return domain.ErrNotFound
		}

		doc, err = scanDocument(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func scanDocument(rows Rows) (*domain.Document, error) {
	var (
		doc           domain.Document
		contentLength uint32
		analysisJSON  string
		sensitive     uint32
		emails        uint32
		ssns          uint32
	)

	err := rows.Scan(
		&doc.DocumentID,
		&doc.Filename,
		&doc.UploadTimestamp,
		&doc.Content,
		&contentLength,
		&analysisJSON,
		&sensitive,
		&emails,
		&ssns,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan document row: %w", err)
	}

	doc.ContentLength = int(contentLength)
	doc.SensitiveCount = int(sensitive)
	doc.EmailCount = int(emails)
	doc.SSNCount = int(ssns)

	if analysisJSON != "" && analysisJSON != "null" {
		var analysis domain.AnalysisResult
		if err := json.Unmarshal([]byte(analysisJSON), &analysis); err != nil {
			return nil, fmt.Errorf("failed to decode analysis result: %w", err)
		}
		doc.Analysis = &analysis
	}

	return &doc, nil
}

// List returns document summaries ordered newest first. Failures degrade to
// an empty slice; limit and offset are validated by the calling layer.
func (s *DocumentStore) List(ctx context.Context, limit, offset int) []*domain.DocumentSummary {
	summaries := []*domain.DocumentSummary{}

	err := s.pool.WithConn(ctx, func(conn Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT document_id, filename, upload_timestamp, content_length,
			       sensitive_info_count, email_count, ssn_count
			FROM documents
			ORDER BY upload_timestamp DESC
			LIMIT ? OFFSET ?`,
			uint64(limit), uint64(offset))
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				summary       domain.DocumentSummary
				contentLength uint32
				sensitive     uint32
				emails        uint32
				ssns          uint32
			)
			if err := rows.Scan(
				&summary.DocumentID,
				&summary.Filename,
				&summary.UploadTimestamp,
				&contentLength,
				&sensitive,
				&emails,
				&ssns,
			); err != nil {
				return fmt.Errorf("failed to scan summary row: %w", err)
			}
			summary.ContentLength = int(contentLength)
			summary.SensitiveCount = int(sensitive)
			summary.EmailCount = int(emails)
			summary.SSNCount = int(ssns)
			summaries = append(summaries, &summary)
		}
		return rows.Err()
	})
	if err != nil {
		s.logger.Error("failed to list documents", "limit", limit, "offset", offset, "error", err)
		return []*domain.DocumentSummary{}
	}
	return summaries
}

// Stats runs the aggregate query over the whole document set. Failures and
// an empty table both yield a zero-valued struct, never nil.
func (s *DocumentStore) Stats(ctx context.Context) *domain.AggregateStats {
	stats := &domain.AggregateStats{}

	err := s.pool.WithConn(ctx, func(conn Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT
			    count() AS total_documents,
			    sum(sensitive_info_count) AS total_sensitive_info,
			    sum(email_count) AS total_emails,
			    sum(ssn_count) AS total_ssns,
			    avg(sensitive_info_count) AS avg_sensitive_per_doc,
			    max(sensitive_info_count) AS max_sensitive_in_doc
			FROM documents`)
		if err != nil {
			return err
		}
		defer rows.Close()

		if !rows.Next() {
			return rows.Err()
		}

		var maxSensitive uint32
		if err := rows.Scan(
			&stats.TotalDocuments,
			&stats.TotalSensitiveInfo,
			&stats.TotalEmails,
			&stats.TotalSSNs,
			&stats.AvgSensitivePerDoc,
			&maxSensitive,
		); err != nil {
			return fmt.Errorf("failed to scan aggregate row: %w", err)
		}
		stats.MaxSensitiveInDoc = uint64(maxSensitive)
		return rows.Err()
	})
	if err != nil {
		s.logger.Error("failed to get aggregate statistics", "error", err)
		return &domain.AggregateStats{}
	}

	// avg() over zero rows is NaN on the remote side.
	if stats.TotalDocuments == 0 || math.IsNaN(stats.AvgSensitivePerDoc) {
		return &domain.AggregateStats{}
	}
	return stats
}
