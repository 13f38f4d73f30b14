package ocr

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"govdoc/internal/domain"
)

func newTestClient(t *testing.T, url string, timeout time.Duration) *Client {
	t.Helper()
	c, err := NewClient(Config{URL: url, Timeout: timeout}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestRecognize_Success(t *testing.T) {
	var gotName string
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile() error = %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		defer file.Close()
		b, _ := io.ReadAll(file)
		gotName = header.Filename
		gotBody = string(b)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"code":200,"msg":"success","data":{"raw_text":["某某单位文件","关于开展安全检查的通知"],"structured":{"doc_title":"关于开展安全检查的通知","doc_num":"","date":""}}}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, time.Second)
	lines, err := c.Recognize(context.Background(), "data/scans/test_doc.jpg", []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}

	if gotName != "test_doc.jpg" {
		t.Errorf("uploaded filename = %q, want %q", gotName, "test_doc.jpg")
	}
	if gotBody != "jpeg-bytes" {
		t.Errorf("uploaded body = %q, want %q", gotBody, "jpeg-bytes")
	}
	want := []string{"某某单位文件", "关于开展安全检查的通知"}
	if len(lines) != len(want) {
		t.Fatalf("Recognize() returned %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("lines[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRecognize_EmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":200,"msg":"success","data":{"raw_text":[]}}`)
	}))
	defer srv.Close()

	lines, err := newTestClient(t, srv.URL, time.Second).Recognize(context.Background(), "blank.png", []byte("x"))
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if lines == nil || len(lines) != 0 {
		t.Errorf("Recognize() = %v, want empty slice", lines)
	}
}

func TestRecognize_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "non-2xx status", status: http.StatusInternalServerError, body: `internal error`},
		{name: "error code", status: http.StatusOK, body: `{"code":500,"msg":"model not loaded"}`},
		{name: "not json", status: http.StatusOK, body: `<html>oops</html>`},
		{name: "schema mismatch", status: http.StatusOK, body: `{"code":200,"data":{"raw_text":"one line"}}`},
		{name: "missing code", status: http.StatusOK, body: `{"msg":"success"}`},
		{name: "missing data", status: http.StatusOK, body: `{"code":200,"msg":"success"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv.URL, time.Second).Recognize(context.Background(), "a.jpg", []byte("x"))
			if !errors.Is(err, domain.ErrExtraction) {
				t.Fatalf("Recognize() error = %v, want ErrExtraction", err)
			}
			if errors.Is(err, domain.ErrExtractionTimeout) {
				t.Errorf("Recognize() error = %v, want non-timeout", err)
			}
		})
	}
}

func TestRecognize_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := newTestClient(t, srv.URL, 50*time.Millisecond).Recognize(context.Background(), "slow.jpg", []byte("x"))
	if !errors.Is(err, domain.ErrExtractionTimeout) {
		t.Fatalf("Recognize() error = %v, want ErrExtractionTimeout", err)
	}

	var extErr *domain.ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("error type = %T, want *domain.ExtractionError", err)
	}
	if extErr.StatusCode() != http.StatusGatewayTimeout {
		t.Errorf("StatusCode() = %d, want %d", extErr.StatusCode(), http.StatusGatewayTimeout)
	}
}

func TestRecognize_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(t, url, time.Second).Recognize(context.Background(), "a.jpg", []byte("x"))
	if !errors.Is(err, domain.ErrExtraction) {
		t.Fatalf("Recognize() error = %v, want ErrExtraction", err)
	}
}

func TestNewClient_RequiresURL(t *testing.T) {
	if _, err := NewClient(Config{}, nil); err == nil {
		t.Fatal("NewClient() error = nil, want error for empty URL")
	}
}
