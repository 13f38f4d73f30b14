package repositories

import (
	"context"

	"govdoc/internal/domain/models"
)

// DocumentRepository defines data access operations for received documents
type DocumentRepository interface {
	// EnsureSchema creates the documents table when it does not exist yet
	EnsureSchema(ctx context.Context) error

	// Create inserts a document and assigns its ID (and CreatedAt when zero)
	Create(ctx context.Context, doc *models.Document) error

	// ListAll returns every document, newest first
	ListAll(ctx context.Context) ([]models.Document, error)

	// GetByID retrieves a document by ID
	GetByID(ctx context.Context, id int64) (*models.Document, error)

	// UpdateStatus moves a document to status. The bool reports whether a row
	// was changed; a document already in status is returned unchanged.
	UpdateStatus(ctx context.Context, id int64, status models.DocumentStatus) (*models.Document, bool, error)

	// Count returns the number of documents
	Count(ctx context.Context) (int, error)

	// CountByStatus returns the number of documents in status
	CountByStatus(ctx context.Context, status models.DocumentStatus) (int, error)

	// StatusDistribution returns document counts grouped by status
	StatusDistribution(ctx context.Context) (map[models.DocumentStatus]int, error)
}
