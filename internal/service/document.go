package service

import (
	"context"
	"log/slog"

	"govdoc/internal/domain/models"
	"govdoc/internal/domain/repositories"
	"govdoc/internal/domain/services"
)

// documentService implements the DocumentService interface
type documentService struct {
	docRepo   repositories.DocumentRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:   docRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// ListDocuments returns all documents, newest first
func (s *documentService) ListDocuments(ctx context.Context) ([]models.Document, error) {
	return s.docRepo.ListAll(ctx)
}

// GetDocument retrieves a document by ID
func (s *documentService) GetDocument(ctx context.Context, id int64) (*models.Document, error) {
	return s.docRepo.GetByID(ctx, id)
}

// SignDocument moves a pending document to signed. Repeat calls are no-ops.
func (s *documentService) SignDocument(ctx context.Context, id int64) (*models.Document, bool, error) {
	var (
		doc     *models.Document
		changed bool
	)
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		doc, changed, err = s.docRepo.UpdateStatus(txCtx, id, models.StatusSigned)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	if changed {
		s.logger.Info("document signed", "document_id", id, "title", doc.Title)
	} else {
		s.logger.Debug("document already signed", "document_id", id)
	}
	return doc, !changed, nil
}
