package service

import (
	"context"
	"fmt"
	"log/slog"

	"govdoc/internal/domain/models"
	"govdoc/internal/domain/repositories"
	"govdoc/internal/domain/services"
)

type statsService struct {
	docRepo repositories.DocumentRepository
	logger  *slog.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(docRepo repositories.DocumentRepository, logger *slog.Logger) services.StatsService {
	return &statsService{
		docRepo: docRepo,
		logger:  logger,
	}
}

// FormatCompletionRate renders signed/total as a one-decimal percentage.
// An empty register reports "0%".
func FormatCompletionRate(signed, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(signed)/float64(total)*100)
}

// Dashboard returns the document totals shown on the home page.
// All figures come from one grouped count, so total always equals
// pending plus signed.
func (s *statsService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	dist, err := s.Distribution(ctx)
	if err != nil {
		return nil, err
	}

	signed := dist.Distribution[models.StatusSigned]
	return &models.Dashboard{
		TotalCount:     dist.Total,
		PendingCount:   dist.Distribution[models.StatusPending],
		SignedCount:    signed,
		CompletionRate: FormatCompletionRate(signed, dist.Total),
	}, nil
}

// Distribution returns per-status counts. Both statuses are always present.
func (s *statsService) Distribution(ctx context.Context) (*models.StatusDistribution, error) {
	counts, err := s.docRepo.StatusDistribution(ctx)
	if err != nil {
		return nil, err
	}

	dist := map[models.DocumentStatus]int{
		models.StatusPending: 0,
		models.StatusSigned:  0,
	}
	total := 0
	for status, n := range counts {
		dist[status] = n
		total += n
	}

	return &models.StatusDistribution{
		Total:        total,
		Distribution: dist,
	}, nil
}
