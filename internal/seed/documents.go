package seed

import (
	"context"
	"log/slog"
	"time"

	"govdoc/internal/domain/models"
	"govdoc/internal/domain/repositories"
	"govdoc/internal/service"
)

// samplePage is one canned OCR result with the scan it came from
type samplePage struct {
	file   string
	lines  []string
	signed bool
}

// samplePages mimic typical inbound official documents
var samplePages = []samplePage{
	{
		file:   "data/scans/sample_01.jpg",
		lines:  []string{"某某市政府", "关于印发《2026年安全生产工作方案》的通知", "市政办发〔2026〕1号", "各区人民政府，市政府各部门：", "2026年1月5日"},
		signed: true,
	},
	{
		file:  "data/scans/sample_02.jpg",
		lines: []string{"市教育局", "关于做好寒假期间学生安全教育工作的通知", "市教发〔2026〕3号", "2026年1月12日"},
	},
	{
		file:   "data/scans/sample_03.jpg",
		lines:  []string{"关于召开春季工作例会的通知", "办字[2026]7号", "二〇26年2月2日"},
		signed: true,
	},
	{
		file:  "data/scans/sample_04.jpg",
		lines: []string{"第三章", "附件"},
	},
}

// DocumentSeeder inserts a small demo register
type DocumentSeeder struct {
	docRepo   repositories.DocumentRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewDocumentSeeder creates a new document seeder
func NewDocumentSeeder(docRepo repositories.DocumentRepository, txManager repositories.TransactionManager, logger *slog.Logger) *DocumentSeeder {
	return &DocumentSeeder{
		docRepo:   docRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// SeedDocuments inserts the sample pages one hour apart, ending at now, and
// signs the ones marked signed. All rows are written in one transaction.
func (s *DocumentSeeder) SeedDocuments(ctx context.Context, now time.Time) ([]models.Document, error) {
	docs := make([]models.Document, 0, len(samplePages))

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		for i, page := range samplePages {
			ext := service.ParseLines(page.lines)
			title := ext.Title
			if title == "" {
				title = models.UntitledPlaceholder
			}

			doc := &models.Document{
				Title:      title,
				DocNumber:  ext.DocNumber,
				DocDate:    ext.DocDate,
				FilePath:   page.file,
				RawContent: ext.RawContent,
				Status:     models.StatusPending,
				CreatedAt:  now.Add(-time.Duration(len(samplePages)-1-i) * time.Hour).UTC(),
			}
			if err := s.docRepo.Create(txCtx, doc); err != nil {
				return err
			}

			if page.signed {
				signed, _, err := s.docRepo.UpdateStatus(txCtx, doc.ID, models.StatusSigned)
				if err != nil {
					return err
				}
				doc = signed
			}

			s.logger.Info("seeded document", "document_id", doc.ID, "title", doc.Title, "status", doc.Status)
			docs = append(docs, *doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}
