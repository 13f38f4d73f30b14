package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"govdoc/internal/app"
	"govdoc/internal/config"
	"govdoc/internal/ingest"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dir := flag.String("dir", cfg.ScanDir, "directory of scanned images to register")
	workers := flag.Int("workers", 1, "scans to run through OCR concurrently")
	flag.Parse()

	logger, logFile, err := config.NewLogger(cfg, "ingest")
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths, err := ingest.FindImages(*dir)
	if err != nil {
		log.Fatalf("Failed to scan %s: %v", *dir, err)
	}
	if len(paths) == 0 {
		fmt.Printf("no images found in %s\n", *dir)
		return
	}

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	defer application.Close()

	summary := ingest.Run(ctx, application.Workflow, paths, *workers, logger)

	for _, r := range summary.Results {
		if r.Err != nil {
			fmt.Printf("FAIL  %s: %v\n", r.Path, r.Err)
			continue
		}
		fmt.Printf("OK    %s -> #%d %s\n", r.Path, r.Document.ID, r.Document.Title)
	}
	fmt.Printf("%d registered, %d failed\n", summary.Succeeded, summary.Failed)

	if summary.Failed > 0 {
		application.Close()
		os.Exit(1)
	}
}
