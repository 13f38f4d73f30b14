package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"govdoc/internal/domain"
	"govdoc/internal/domain/models"
	"govdoc/internal/domain/repositories"
	"govdoc/internal/domain/services"
)

// workflowService implements the WorkflowService interface
type workflowService struct {
	extractor services.MetadataExtractor
	docRepo   repositories.DocumentRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewWorkflowService creates a new intake workflow
func NewWorkflowService(
	extractor services.MetadataExtractor,
	docRepo repositories.DocumentRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.WorkflowService {
	return &workflowService{
		extractor: extractor,
		docRepo:   docRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// ProcessNewScan registers one scanned page as a pending document
func (s *workflowService) ProcessNewScan(ctx context.Context, imagePath string) (*models.Document, error) {
	s.logger.Info("scan received", "image_path", imagePath)

	info, err := os.Stat(imagePath)
	if err != nil || info.IsDir() {
		s.logger.Warn("scan source missing", "image_path", imagePath, "error", err)
		return nil, &domain.FileNotFoundError{Path: imagePath}
	}

	ext, err := s.extractor.Extract(ctx, imagePath)
	if err != nil {
		s.logger.Error("extraction failed", "image_path", imagePath, "error", err)
		return nil, err
	}

	title := ext.Title
	if title == "" {
		title = models.UntitledPlaceholder
	}

	doc := &models.Document{
		Title:      title,
		DocNumber:  ext.DocNumber,
		DocDate:    ext.DocDate,
		FilePath:   imagePath,
		RawContent: ext.RawContent,
		Status:     models.StatusPending,
		CreatedAt:  time.Now().UTC(),
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.docRepo.Create(txCtx, doc)
	})
	if err != nil {
		s.logger.Error("failed to persist document", "image_path", imagePath, "error", err)
		var pErr *domain.PersistenceError
		if errors.As(err, &pErr) {
			return nil, err
		}
		return nil, domain.NewPersistenceError("insert document", err)
	}

	s.logger.Info("document registered",
		"document_id", doc.ID,
		"title", doc.Title,
		"doc_num", doc.DocNumber,
	)
	return doc, nil
}
