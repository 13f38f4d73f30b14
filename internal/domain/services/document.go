package services

import (
	"context"

	"govdoc/internal/domain/models"
)

// DocumentService handles reads and the sign-off transition
type DocumentService interface {
	// ListDocuments returns all documents, newest first
	ListDocuments(ctx context.Context) ([]models.Document, error)

	// GetDocument retrieves a single document
	GetDocument(ctx context.Context, id int64) (*models.Document, error)

	// SignDocument confirms receipt of a document. Signing an already signed
	// document succeeds and reports alreadySigned=true.
	SignDocument(ctx context.Context, id int64) (doc *models.Document, alreadySigned bool, err error)
}
