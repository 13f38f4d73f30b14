package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling (OCP compliance).
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrFileNotFound      = errors.New("source file not found")
	ErrExtraction        = errors.New("extraction failed")
	ErrExtractionTimeout = errors.New("extraction timed out")
	ErrPersistence       = errors.New("persistence failed")
)

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a lookup miss on a document id
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// FileNotFoundError reports a scan whose source image is not reachable
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("source image not found: %s", e.Path)
}

func (e *FileNotFoundError) StatusCode() int { return http.StatusUnprocessableEntity }

func (e *FileNotFoundError) Is(target error) bool { return target == ErrFileNotFound }

// ExtractionError wraps OCR transport, timeout and non-success failures.
type ExtractionError struct {
	Message string
	Timeout bool
	Cause   error
}

func NewExtractionError(message string, cause error) *ExtractionError {
	return &ExtractionError{Message: message, Cause: cause}
}

func NewExtractionTimeout(cause error) *ExtractionError {
	return &ExtractionError{Message: "ocr service timed out", Timeout: true, Cause: cause}
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

func (e *ExtractionError) StatusCode() int {
	if e.Timeout {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

// Is matches ErrExtraction always and ErrExtractionTimeout for the timeout subtype
func (e *ExtractionError) Is(target error) bool {
	if target == ErrExtraction {
		return true
	}
	return e.Timeout && target == ErrExtractionTimeout
}

// PersistenceError reports a store write failure. The write has been rolled back.
type PersistenceError struct {
	Op    string
	Cause error
}

func NewPersistenceError(op string, cause error) *PersistenceError {
	return &PersistenceError{Op: op, Cause: cause}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

func (e *PersistenceError) StatusCode() int { return http.StatusInternalServerError }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
