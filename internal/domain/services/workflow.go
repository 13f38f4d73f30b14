package services

import (
	"context"

	"govdoc/internal/domain/models"
)

// MetadataExtractor turns a scanned image into structured metadata
type MetadataExtractor interface {
	Extract(ctx context.Context, imagePath string) (*models.Extraction, error)
}

// Recognizer is the OCR boundary: image bytes in, text lines out (top to bottom)
type Recognizer interface {
	Recognize(ctx context.Context, filename string, image []byte) ([]string, error)
}

// WorkflowService runs the scan-to-record intake sequence
type WorkflowService interface {
	// ProcessNewScan checks the file, extracts metadata and persists a pending
	// document. Exactly one row is written on success and none on failure.
	ProcessNewScan(ctx context.Context, imagePath string) (*models.Document, error)
}

// CaptureRequest is the body of a capture trigger
type CaptureRequest struct {
	ImagePath string `json:"image_path,omitempty"`
}
