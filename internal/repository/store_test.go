package repository

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"govdoc/internal/config"
	"govdoc/internal/domain/models"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver:    config.DriverSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "nested", "gov_doc.db"),
		TablePrefix: "test_",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := Open(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	doc := &models.Document{Title: "关于开展检查工作的通知", FilePath: "a.jpg", Status: models.StatusPending}
	err = store.TxManager.ExecTx(context.Background(), func(ctx context.Context) error {
		return store.Documents.Create(ctx, doc)
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	n, err := store.Documents.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{DBDriver: "mysql"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err == nil {
		t.Fatal("Open() error = nil, want error")
	}
}
