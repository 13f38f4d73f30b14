package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"govdoc/internal/domain"
	"govdoc/internal/domain/models"
	"govdoc/internal/domain/services"
)

const (
	// titleScanLines is how many leading lines are considered for the title
	titleScanLines = 5
	// titleMinRunes is exclusive: a title candidate needs more runes than this
	titleMinRunes = 5
	// chapterMarker excludes ordinal headings like "第一章" from title candidates
	chapterMarker = "第"
)

var (
	// issuer + bracketed year + serial + 号, full-width or ASCII brackets
	docNumberPattern = regexp.MustCompile(`([^\s]+?〔\d{4}〕\d+号|[^\s]+?\[\d{4}\]\d+号)`)
	// Arabic numeral dates, or dates whose year is written 二〇xx
	docDatePattern = regexp.MustCompile(`(\d{4}年\d{1,2}月\d{1,2}日|二〇\d{2}年.*日)`)
)

// ParseLines derives metadata from OCR lines. It never fails; fields that
// cannot be recovered are left empty.
func ParseLines(lines []string) *models.Extraction {
	ext := &models.Extraction{
		RawContent: strings.Join(lines, "\n"),
	}

	for i, line := range lines {
		if i >= titleScanLines {
			break
		}
		if utf8.RuneCountInString(line) > titleMinRunes && !strings.Contains(line, chapterMarker) {
			ext.Title = line
			break
		}
	}

	// Later matches overwrite earlier ones
	for _, line := range lines {
		if m := docNumberPattern.FindStringSubmatch(line); m != nil {
			ext.DocNumber = m[1]
		}
		if m := docDatePattern.FindStringSubmatch(line); m != nil {
			ext.DocDate = m[1]
		}
	}

	return ext
}

type metadataExtractor struct {
	recognizer services.Recognizer
	logger     *slog.Logger
}

// NewMetadataExtractor creates an extractor backed by recognizer
func NewMetadataExtractor(recognizer services.Recognizer, logger *slog.Logger) services.MetadataExtractor {
	return &metadataExtractor{
		recognizer: recognizer,
		logger:     logger,
	}
}

// Extract reads the image, runs OCR on it and parses the returned lines
func (e *metadataExtractor) Extract(ctx context.Context, imagePath string) (*models.Extraction, error) {
	image, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, domain.NewExtractionError("read source image", err)
	}

	lines, err := e.recognizer.Recognize(ctx, imagePath, image)
	if err != nil {
		var extErr *domain.ExtractionError
		if errors.As(err, &extErr) {
			return nil, err
		}
		return nil, domain.NewExtractionError("ocr failed", err)
	}

	ext := ParseLines(lines)
	e.logger.Debug("metadata extracted",
		"image_path", imagePath,
		"lines", len(lines),
		"title", ext.Title,
		"doc_num", ext.DocNumber,
		"doc_date", ext.DocDate,
	)
	return ext, nil
}
