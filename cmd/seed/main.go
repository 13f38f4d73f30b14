package main

import (
	"context"
	"flag"
	"log"
	"time"

	"govdoc/internal/config"
	"govdoc/internal/repository"
	"govdoc/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed documents")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// SAFETY: demo rows never go into production
	if cfg.Environment == "prod" && !*schemaOnly {
		log.Fatalf("BLOCKED: Cannot seed demo documents in production environment")
	}

	logger, logFile, err := config.NewLogger(cfg, "seed")
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer logFile.Close()

	ctx := context.Background()

	// Open runs EnsureSchema
	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()
	log.Printf("Schema ready (driver: %s, prefix: %s)", cfg.DBDriver, cfg.TablePrefix)

	if *schemaOnly {
		return
	}

	docs, err := seed.NewDocumentSeeder(store.Documents, store.TxManager, logger).SeedDocuments(ctx, time.Now())
	if err != nil {
		log.Fatalf("Failed to seed documents: %v", err)
	}
	log.Printf("Seeded %d documents", len(docs))
}
