package app

import (
	"context"
	"fmt"
	"log/slog"

	"govdoc/internal/config"
	"govdoc/internal/domain/services"
	"govdoc/internal/ocr"
	"govdoc/internal/repository"
	"govdoc/internal/service"
)

// App holds the wired services shared by the server and the batch CLI
type App struct {
	Store     *repository.Store
	Workflow  services.WorkflowService
	Documents services.DocumentService
	Stats     services.StatsService
	Export    services.ExportService
}

// New connects storage and the OCR client and builds every service
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	ocrClient, err := ocr.NewClient(ocr.Config{
		URL:     cfg.OCRServiceURL,
		Timeout: cfg.OCRTimeout,
	}, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create ocr client: %w", err)
	}

	extractor := service.NewMetadataExtractor(ocrClient, logger)

	return &App{
		Store:     store,
		Workflow:  service.NewWorkflowService(extractor, store.Documents, store.TxManager, logger),
		Documents: service.NewDocumentService(store.Documents, store.TxManager, logger),
		Stats:     service.NewStatsService(store.Documents, logger),
		Export:    service.NewExportService(store.Documents, nil, logger),
	}, nil
}

// Close releases storage
func (a *App) Close() {
	a.Store.Close()
}
