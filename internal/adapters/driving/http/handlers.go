package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/veridian-labs/docguard-core/internal/core/domain"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// UploadResponse acknowledges an accepted upload
type UploadResponse struct {
	Status     string                 `json:"status"`
	DocumentID string                 `json:"document_id"`
	Message    string                 `json:"message"`
	APIVersion string                 `json:"api_version"`
	Analysis   *domain.AnalysisResult `json:"analysis,omitempty"`
}

// ListResponse wraps a documents page
type ListResponse struct {
	Documents []*domain.DocumentSummary `json:"documents"`
	Limit     int                       `json:"limit"`
	Offset    int                       `json:"offset"`
}

// TextResponse returns a document's extracted text
type TextResponse struct {
	DocumentID string `json:"document_id"`
	Text       string `json:"text"`
	APIVersion string `json:"api_version"`
}

// Health endpoints

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "document store unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Document endpoints

// handleUpload godoc
// @Summary      Upload a document
// @Description  Accepts a PDF or plain-text file, extracts its text, scans it for sensitive data and stores the result
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Document file"
// @Success      200  {object}  UploadResponse
// @Failure      400  {object}  ErrorResponse  "Unsupported file type or empty upload"
// @Failure      503  {object}  ErrorResponse  "Storage unavailable"
// @Router       /upload [post]
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	receipt, err := s.ingestService.Ingest(r.Context(), header.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnsupportedFile):
			writeError(w, http.StatusBadRequest, "only PDF and plain-text files are allowed")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "empty upload")
		case errors.Is(err, domain.ErrExtractionFailed):
			writeError(w, http.StatusUnprocessableEntity, "could not extract text from upload")
		case errors.Is(err, domain.ErrStorageUnavailable):
			writeError(w, http.StatusServiceUnavailable, "storage unavailable, try again later")
		default:
			writeError(w, http.StatusInternalServerError, "failed to process upload")
		}
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Status:     "success",
		DocumentID: receipt.DocumentID,
		Message:    "document processed successfully",
		APIVersion: requestVersion(r),
		Analysis:   receipt.Analysis,
	})
}

// handleGetDocument godoc
// @Summary      Get a stored document
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.Document
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id} [get]
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.docService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "document not found")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid document id")
		default:
			writeError(w, http.StatusInternalServerError, "failed to get document")
		}
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleGetDocumentText godoc
// @Summary      Get a document's extracted text
// @Description  Serves from the text cache when the background store is still in flight
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  TextResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id}/text [get]
func (s *Server) handleGetDocumentText(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	text, err := s.docService.GetText(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get document text")
		return
	}
	writeJSON(w, http.StatusOK, TextResponse{
		DocumentID: id,
		Text:       text,
		APIVersion: requestVersion(r),
	})
}

// handleListDocuments godoc
// @Summary      List stored documents
// @Description  Paginated summaries, newest first. With ?filename= returns the most recent document carrying that name.
// @Tags         Documents
// @Produce      json
// @Param        filename  query     string  false  "Look up by filename"
// @Param        limit     query     int     false  "Page size (1-100)"    default(20)
// @Param        offset    query     int     false  "Page offset"          default(0)
// @Success      200  {object}  ListResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /documents [get]
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	if filename := r.URL.Query().Get("filename"); filename != "" {
		doc, err := s.docService.GetByFilename(r.Context(), filename)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(w, http.StatusNotFound, "document not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to get document")
			return
		}
		writeJSON(w, http.StatusOK, doc)
		return
	}

	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		writeError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "offset must be an integer")
		return
	}

	summaries, err := s.docService.List(r.Context(), limit, offset)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Documents: summaries,
		Limit:     limit,
		Offset:    offset,
	})
}

// handleStatistics godoc
// @Summary      Aggregate statistics
// @Description  Counters over all stored documents; zeroed when the store is empty
// @Tags         Statistics
// @Produce      json
// @Success      200  {object}  domain.AggregateStats
// @Router       /statistics [get]
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.docService.Statistics(r.Context()))
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
