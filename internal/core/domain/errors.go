package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFile indicates the uploaded file type cannot be processed
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrExtractionFailed indicates text could not be extracted from the upload
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrStorageUnavailable indicates the document store rejected a write
	ErrStorageUnavailable = errors.New("storage unavailable")
)
