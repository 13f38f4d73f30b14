package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"govdoc/internal/domain"
)

// fakeRecognizer returns canned lines and records what it was asked to read
type fakeRecognizer struct {
	lines    []string
	err      error
	calls    int
	lastName string
	lastBody []byte
}

func (f *fakeRecognizer) Recognize(ctx context.Context, filename string, image []byte) ([]string, error) {
	f.calls++
	f.lastName = filename
	f.lastBody = image
	if f.err != nil {
		return nil, f.err
	}
	return f.lines, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseLines(t *testing.T) {
	tests := []struct {
		name          string
		lines         []string
		wantTitle     string
		wantDocNumber string
		wantDocDate   string
	}{
		{
			name:          "typical notice",
			lines:         []string{"某某单位", "关于印发《工作方案》的通知", "发〔2026〕1号", "2026年1月5日"},
			wantTitle:     "关于印发《工作方案》的通知",
			wantDocNumber: "发〔2026〕1号",
			wantDocDate:   "2026年1月5日",
		},
		{
			name:  "no lines",
			lines: nil,
		},
		{
			name:          "ascii brackets in number",
			lines:         []string{"市人民政府办公室文件", "政办发[2025]12号"},
			wantTitle:     "市人民政府办公室文件",
			wantDocNumber: "政办发[2025]12号",
		},
		{
			name:      "chapter heading skipped",
			lines:     []string{"第一章 总则说明部分", "关于加强安全生产工作的意见"},
			wantTitle: "关于加强安全生产工作的意见",
		},
		{
			name:      "title beyond fifth line ignored",
			lines:     []string{"短", "短行", "第二", "一二三", "一二三四五", "这是第六行的长标题文字"},
			wantTitle: "",
		},
		{
			name:      "exactly five runes is too short",
			lines:     []string{"一二三四五", "一二三四五六"},
			wantTitle: "一二三四五六",
		},
		{
			name:          "last number and date win",
			lines:         []string{"关于转发文件的通知说明", "转发甲〔2024〕3号", "2024年3月1日", "乙〔2025〕7号", "2025年12月30日"},
			wantTitle:     "关于转发文件的通知说明",
			wantDocNumber: "乙〔2025〕7号",
			wantDocDate:   "2025年12月30日",
		},
		{
			name:        "dated line can be the title",
			lines:       []string{"二〇26年1月5日印发"},
			wantTitle:   "二〇26年1月5日印发",
			wantDocDate: "二〇26年1月5日",
		},
		{
			name:        "chinese zero year prefix",
			lines:       []string{"关于召开工作例会的通知", "二〇26年1月5日印发"},
			wantTitle:   "关于召开工作例会的通知",
			wantDocDate: "二〇26年1月5日",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLines(tt.lines)
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.DocNumber != tt.wantDocNumber {
				t.Errorf("DocNumber = %q, want %q", got.DocNumber, tt.wantDocNumber)
			}
			if got.DocDate != tt.wantDocDate {
				t.Errorf("DocDate = %q, want %q", got.DocDate, tt.wantDocDate)
			}
			if want := strings.Join(tt.lines, "\n"); got.RawContent != want {
				t.Errorf("RawContent = %q, want %q", got.RawContent, want)
			}
		})
	}
}

func TestExtract_ReadsFileAndParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.jpg")
	if err := os.WriteFile(path, []byte("image-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := &fakeRecognizer{lines: []string{"某某单位", "关于印发《工作方案》的通知", "发〔2026〕1号", "2026年1月5日"}}
	ext, err := NewMetadataExtractor(rec, discardLogger()).Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if string(rec.lastBody) != "image-bytes" {
		t.Errorf("recognizer got %q, want file contents", rec.lastBody)
	}
	if ext.Title != "关于印发《工作方案》的通知" {
		t.Errorf("Title = %q", ext.Title)
	}
}

func TestExtract_Errors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.jpg")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	timeout := domain.NewExtractionTimeout(context.DeadlineExceeded)

	tests := []struct {
		name        string
		path        string
		recErr      error
		wantTimeout bool
	}{
		{name: "unreadable file", path: filepath.Join(dir, "missing.jpg")},
		{name: "plain recognizer error is wrapped", path: path, recErr: errors.New("connection refused")},
		{name: "extraction error passes through", path: path, recErr: timeout, wantTimeout: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecognizer{err: tt.recErr}
			_, err := NewMetadataExtractor(rec, discardLogger()).Extract(context.Background(), tt.path)
			if !errors.Is(err, domain.ErrExtraction) {
				t.Fatalf("Extract() error = %v, want ErrExtraction", err)
			}
			if got := errors.Is(err, domain.ErrExtractionTimeout); got != tt.wantTimeout {
				t.Errorf("timeout = %v, want %v", got, tt.wantTimeout)
			}
		})
	}
}
