package domain

import "time"

// Finding type tags backed by denormalised counter columns.
const (
	FindingTypeEmail = "email"
	FindingTypeSSN   = "ssn"
)

// Document is the unit of persistence: the extracted text of one upload
// plus its analysis result. DocumentID is caller-assigned and unique; at
// most one logical record exists per id, a second store with the same id
// updates in place. SensitiveCount, EmailCount and SSNCount are
// denormalised out of the analysis statistics for aggregate queries.
type Document struct {
	DocumentID      string          `json:"document_id"`
	Filename        string          `json:"filename"`
	UploadTimestamp time.Time       `json:"upload_timestamp"`
	Content         string          `json:"content"`
	ContentLength   int             `json:"content_length"`
	Analysis        *AnalysisResult `json:"analysis_result"`
	SensitiveCount  int             `json:"sensitive_info_count"`
	EmailCount      int             `json:"email_count"`
	SSNCount        int             `json:"ssn_count"`
}

// DocumentSummary is a Document stripped of the content and analysis
// payload, used for listings.
type DocumentSummary struct {
	DocumentID      string    `json:"document_id"`
	Filename        string    `json:"filename"`
	UploadTimestamp time.Time `json:"upload_timestamp"`
	ContentLength   int       `json:"content_length"`
	SensitiveCount  int       `json:"sensitive_info_count"`
	EmailCount      int       `json:"email_count"`
	SSNCount        int       `json:"ssn_count"`
}

// AggregateStats holds aggregate counters over the whole document set.
type AggregateStats struct {
	TotalDocuments     uint64  `json:"total_documents"`
	TotalSensitiveInfo uint64  `json:"total_sensitive_info"`
	TotalEmails        uint64  `json:"total_emails"`
	TotalSSNs          uint64  `json:"total_ssns"`
	AvgSensitivePerDoc float64 `json:"avg_sensitive_per_doc"`
	MaxSensitiveInDoc  uint64  `json:"max_sensitive_in_doc"`
}

// UploadReceipt is returned to the caller once an upload has been accepted.
// Storage may still be in flight when the receipt is issued.
type UploadReceipt struct {
	DocumentID string          `json:"document_id"`
	Filename   string          `json:"filename"`
	Analysis   *AnalysisResult `json:"analysis"`
}

// NewDocument builds a Document from extracted text and its analysis,
// denormalising the per-type counters. The upload timestamp is assigned by
// the store at write time.
func NewDocument(id, filename, content string, analysis *AnalysisResult) *Document {
	doc := &Document{
		DocumentID:    id,
		Filename:      filename,
		Content:       content,
		ContentLength: len(content),
		Analysis:      analysis,
	}
	if analysis != nil {
		doc.SensitiveCount = analysis.Statistics.TotalFindings
		doc.EmailCount = analysis.Statistics.FindingsByType[FindingTypeEmail]
		doc.SSNCount = analysis.Statistics.FindingsByType[FindingTypeSSN]
	}
	return doc
}

// Summary returns the listing view of the document.
func (d *Document) Summary() *DocumentSummary {
	return &DocumentSummary{
		DocumentID:      d.DocumentID,
		Filename:        d.Filename,
		UploadTimestamp: d.UploadTimestamp,
		ContentLength:   d.ContentLength,
		SensitiveCount:  d.SensitiveCount,
		EmailCount:      d.EmailCount,
		SSNCount:        d.SSNCount,
	}
}
