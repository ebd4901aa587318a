package domain

// Finding is a single located sensitive-data match produced by a scanner.
// Start and End are byte offsets into the scanned text; Start is inclusive,
// End is exclusive.
type Finding struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Statistics summarises a single pipeline run.
// TotalCharsProcessed and HandlersUsed are populated even when the run
// fails, so callers can always log them.
type Statistics struct {
	TotalCharsProcessed int            `json:"total_chars_processed"`
	HandlersUsed        int            `json:"handlers_used"`
	TotalFindings       int            `json:"total_findings"`
	FindingsByType      map[string]int `json:"findings_by_type"`
	ProcessingTime      float64        `json:"processing_time"` // seconds
}

// AnalysisResult is the output of one pipeline run over a document's text.
// Findings from different scanners are concatenated without deduplication,
// so overlapping detections are preserved.
type AnalysisResult struct {
	Success    bool       `json:"success"`
	Findings   []Finding  `json:"findings"`
	Statistics Statistics `json:"statistics"`
}
