package ocrserver

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"govdoc/internal/httputil"
	"govdoc/internal/ocr"
	"govdoc/internal/service"
)

// Server exposes an Engine over the multipart /predict protocol consumed by
// internal/ocr.Client.
type Server struct {
	engine   Engine
	maxBytes int64
	logger   *slog.Logger
}

// NewServer creates an inference server. Uploads larger than maxBytes are rejected.
func NewServer(engine Engine, maxBytes int64, logger *slog.Logger) *Server {
	return &Server{
		engine:   engine,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Handler returns the routes of the inference server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /predict", s.Predict)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok", "engine": s.engine.Name()})
	})
	return mux
}

// Predict recognizes the uploaded "file" part.
// Engine failures are reported in-band as {"code":500,"msg":...}.
func (s *Server) Predict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respond(w, http.StatusBadRequest, &ocr.Response{Code: http.StatusBadRequest, Msg: fmt.Sprintf("missing file: %v", err)})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respond(w, http.StatusBadRequest, &ocr.Response{Code: http.StatusBadRequest, Msg: fmt.Sprintf("read file: %v", err)})
		return
	}

	img, format, err := NormalizeImage(data)
	if err != nil {
		s.respond(w, http.StatusOK, &ocr.Response{Code: http.StatusInternalServerError, Msg: err.Error()})
		return
	}

	lines, err := s.engine.Recognize(r.Context(), img)
	if err != nil {
		s.logger.Error("recognition failed", "file", header.Filename, "engine", s.engine.Name(), "error", err)
		s.respond(w, http.StatusOK, &ocr.Response{Code: http.StatusInternalServerError, Msg: err.Error()})
		return
	}
	if lines == nil {
		lines = []string{}
	}

	ext := service.ParseLines(lines)
	s.logger.Info("page recognized",
		"file", header.Filename,
		"format", format,
		"lines", len(lines),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	s.respond(w, http.StatusOK, &ocr.Response{
		Code: ocr.SuccessCode,
		Msg:  "success",
		Data: &ocr.Data{
			RawText: lines,
			Structured: &ocr.Structured{
				DocTitle: ext.Title,
				DocNum:   ext.DocNumber,
				Date:     ext.DocDate,
			},
		},
	})
}

func (s *Server) respond(w http.ResponseWriter, status int, resp *ocr.Response) {
	httputil.RespondJSON(w, status, resp)
}
