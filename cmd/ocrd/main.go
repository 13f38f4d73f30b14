package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"govdoc/internal/config"
	"govdoc/internal/middleware"
	"govdoc/internal/ocrserver"
	"govdoc/internal/ocrserver/tesseract"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, logFile, err := config.NewLogger(cfg, "ocrd")
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer logFile.Close()

	languages := strings.Split(cfg.OCRLanguages, "+")
	engine := tesseract.NewEngine(languages...)
	srv := ocrserver.NewServer(engine, config.MaxUploadBytes, logger)

	var h http.Handler = srv.Handler()
	h = middleware.Recovery(logger)(h)
	h = middleware.AccessLog(logger)(h)
	h = middleware.RequestID()(h)

	server := &http.Server{
		Addr:         ":" + cfg.OCRDPort,
		Handler:      h,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("ocr server listening",
		"port", cfg.OCRDPort,
		"engine", engine.Name(),
		"languages", languages,
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}
