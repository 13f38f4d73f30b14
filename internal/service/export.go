package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"govdoc/internal/domain/repositories"
	"govdoc/internal/domain/services"

	"github.com/xuri/excelize/v2"
)

// RegisterSheet is the worksheet name of the exported receipt register
const RegisterSheet = "收文登记"

var registerHeaders = []string{"序号", "标题", "发文字号", "成文日期", "状态", "登记时间", "文件路径"}

type exportService struct {
	docRepo repositories.DocumentRepository
	loc     *time.Location
	logger  *slog.Logger
}

// NewExportService creates a register exporter. Timestamps are rendered in loc
// (UTC when nil).
func NewExportService(docRepo repositories.DocumentRepository, loc *time.Location, logger *slog.Logger) services.ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &exportService{
		docRepo: docRepo,
		loc:     loc,
		logger:  logger,
	}
}

// ExportRegisterXLSX renders every document, newest first, as an XLSX workbook
func (s *exportService) ExportRegisterXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	docs, err := s.docRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("xlsx close failed", "error", err)
		}
	}()

	// Rename the default sheet so the workbook has exactly one
	if err := f.SetSheetName(f.GetSheetName(0), RegisterSheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, h := range registerHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(RegisterSheet, cell, h)
	}

	for i, d := range docs {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(RegisterSheet, cell, v)
		}

		write(1, i+1)
		write(2, d.Title)
		write(3, d.DocNumber)
		write(4, d.DocDate)
		write(5, string(d.Status))
		write(6, d.CreatedAt.In(s.loc).Format("2006-01-02 15:04:05"))
		write(7, d.FilePath)
	}

	_ = f.SetColWidth(RegisterSheet, "A", "A", 8)
	_ = f.SetColWidth(RegisterSheet, "B", "B", 48)
	_ = f.SetColWidth(RegisterSheet, "C", "D", 22)
	_ = f.SetColWidth(RegisterSheet, "E", "E", 10)
	_ = f.SetColWidth(RegisterSheet, "F", "F", 20)
	_ = f.SetColWidth(RegisterSheet, "G", "G", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("register exported",
		"rows", len(docs),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
