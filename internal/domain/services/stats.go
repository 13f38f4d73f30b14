package services

import (
	"context"

	"govdoc/internal/domain/models"
)

// StatsService aggregates read-side figures for the dashboard
type StatsService interface {
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	Distribution(ctx context.Context) (*models.StatusDistribution, error)
}

// ExportService renders the document register for download
type ExportService interface {
	ExportRegisterXLSX(ctx context.Context) ([]byte, error)
}
