package sqlite

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"govdoc/internal/domain"
	"govdoc/internal/domain/models"
	"govdoc/internal/domain/repositories"
)

func newTestStore(t *testing.T) (repositories.DocumentRepository, repositories.TransactionManager) {
	t.Helper()

	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "gov_doc.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := NewDocumentRepository(&RepositoryConfig{
		DB:     db,
		Tables: NewTableNames("test_"),
		Logger: logger,
	})
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	return repo, NewTransactionManager(db, logger)
}

func pendingDoc(title string, createdAt time.Time) *models.Document {
	return &models.Document{
		Title:     title,
		FilePath:  "data/scans/" + title + ".jpg",
		Status:    models.StatusPending,
		CreatedAt: createdAt,
	}
}

func TestCreate_AssignsIDAndCreatedAt(t *testing.T) {
	repo, _ := newTestStore(t)
	ctx := context.Background()

	doc := &models.Document{
		Title:      "关于印发《工作方案》的通知",
		DocNumber:  "发〔2026〕1号",
		DocDate:    "2026年1月5日",
		FilePath:   "data/scans/test_doc.jpg",
		RawContent: "某某单位\n关于印发《工作方案》的通知",
		Status:     models.StatusPending,
	}
	if err := repo.Create(ctx, doc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if doc.ID == 0 {
		t.Fatal("Create() did not assign an ID")
	}
	if doc.CreatedAt.IsZero() {
		t.Fatal("Create() did not set CreatedAt")
	}

	got, err := repo.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.DocNumber != doc.DocNumber || got.DocDate != doc.DocDate || got.RawContent != doc.RawContent {
		t.Errorf("GetByID() = %+v, want fields of %+v", got, doc)
	}
	if !got.CreatedAt.Equal(doc.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, doc.CreatedAt)
	}
	if got.SignatureImagePath != nil {
		t.Errorf("SignatureImagePath = %v, want nil", *got.SignatureImagePath)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, _ := newTestStore(t)

	_, err := repo.GetByID(context.Background(), 42)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID() error = %v, want ErrNotFound", err)
	}
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("GetByID() error type = %T, want *domain.NotFoundError", err)
	}
}

func TestListAll_NewestFirst(t *testing.T) {
	repo, _ := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	inserts := []*models.Document{
		pendingDoc("oldest", base),
		pendingDoc("newest", base.Add(2*time.Hour)),
		pendingDoc("tie-first", base.Add(time.Hour)),
		pendingDoc("tie-second", base.Add(time.Hour)),
	}
	for _, d := range inserts {
		if err := repo.Create(ctx, d); err != nil {
			t.Fatalf("Create(%s) error = %v", d.Title, err)
		}
	}

	docs, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}

	want := []string{"newest", "tie-second", "tie-first", "oldest"}
	if len(docs) != len(want) {
		t.Fatalf("ListAll() returned %d documents, want %d", len(docs), len(want))
	}
	for i, title := range want {
		if docs[i].Title != title {
			t.Errorf("docs[%d].Title = %s, want %s", i, docs[i].Title, title)
		}
	}
}

func TestListAll_Empty(t *testing.T) {
	repo, _ := newTestStore(t)

	docs, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if docs == nil || len(docs) != 0 {
		t.Errorf("ListAll() = %v, want empty non-nil slice", docs)
	}
}

func TestUpdateStatus_Idempotent(t *testing.T) {
	repo, _ := newTestStore(t)
	ctx := context.Background()

	doc := pendingDoc("sign-me", time.Now().UTC())
	if err := repo.Create(ctx, doc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	first, changed, err := repo.UpdateStatus(ctx, doc.ID, models.StatusSigned)
	if err != nil {
		t.Fatalf("first UpdateStatus() error = %v", err)
	}
	if !changed {
		t.Error("first UpdateStatus() changed = false, want true")
	}
	if first.Status != models.StatusSigned {
		t.Errorf("first UpdateStatus() status = %s, want %s", first.Status, models.StatusSigned)
	}

	second, changed, err := repo.UpdateStatus(ctx, doc.ID, models.StatusSigned)
	if err != nil {
		t.Fatalf("second UpdateStatus() error = %v, want nil", err)
	}
	if changed {
		t.Error("second UpdateStatus() changed = true, want false")
	}
	if second.Status != models.StatusSigned {
		t.Errorf("second UpdateStatus() status = %s, want %s", second.Status, models.StatusSigned)
	}
	if !second.CreatedAt.Equal(doc.CreatedAt) {
		t.Errorf("CreatedAt changed: %v, want %v", second.CreatedAt, doc.CreatedAt)
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo, _ := newTestStore(t)

	_, _, err := repo.UpdateStatus(context.Background(), 7, models.StatusSigned)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("UpdateStatus() error = %v, want ErrNotFound", err)
	}
}

func TestCounts(t *testing.T) {
	repo, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d := pendingDoc("doc", time.Now().UTC())
		if err := repo.Create(ctx, d); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if i == 0 {
			if _, _, err := repo.UpdateStatus(ctx, d.ID, models.StatusSigned); err != nil {
				t.Fatalf("UpdateStatus() error = %v", err)
			}
		}
	}

	total, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if total != 3 {
		t.Errorf("Count() = %d, want 3", total)
	}

	tests := []struct {
		status models.DocumentStatus
		want   int
	}{
		{models.StatusPending, 2},
		{models.StatusSigned, 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			got, err := repo.CountByStatus(ctx, tt.status)
			if err != nil {
				t.Fatalf("CountByStatus() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CountByStatus(%s) = %d, want %d", tt.status, got, tt.want)
			}
		})
	}

	dist, err := repo.StatusDistribution(ctx)
	if err != nil {
		t.Fatalf("StatusDistribution() error = %v", err)
	}
	if dist[models.StatusPending] != 2 || dist[models.StatusSigned] != 1 {
		t.Errorf("StatusDistribution() = %v, want pending=2 signed=1", dist)
	}
}

func TestExecTx_RollsBackOnError(t *testing.T) {
	repo, tx := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tx.ExecTx(ctx, func(txCtx context.Context) error {
		if err := repo.Create(txCtx, pendingDoc("rolled-back", time.Now().UTC())); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("ExecTx() error = %v, want %v", err, boom)
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Count() after rollback = %d, want 0", n)
	}
}

func TestCreate_RejectsUnknownStatus(t *testing.T) {
	repo, _ := newTestStore(t)

	doc := pendingDoc("bad-status", time.Now().UTC())
	doc.Status = "archived"
	err := repo.Create(context.Background(), doc)
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("Create() error = %v, want ErrPersistence", err)
	}
}

func TestCreate_RejectsMissingFilePath(t *testing.T) {
	repo, _ := newTestStore(t)
	ctx := context.Background()

	doc := pendingDoc("no-path", time.Now().UTC())
	doc.FilePath = ""
	if err := repo.Create(ctx, doc); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("Create() error = %v, want ErrPersistence", err)
	}
	if n, _ := repo.Count(ctx); n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	repo, _ := newTestStore(t)
	ctx := context.Background()

	doc := pendingDoc("keep-pending", time.Now().UTC())
	if err := repo.Create(ctx, doc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, _, err := repo.UpdateStatus(ctx, doc.ID, "archived")
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("UpdateStatus() error = %v, want ErrPersistence", err)
	}

	got, err := repo.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != models.StatusPending {
		t.Errorf("Status = %s, want %s", got.Status, models.StatusPending)
	}
}

func TestUpdateStatus_ConcurrentSigners(t *testing.T) {
	repo, tx := newTestStore(t)
	ctx := context.Background()

	doc := pendingDoc("contended", time.Now().UTC())
	if err := repo.Create(ctx, doc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	const signers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		changes int
	)
	for i := 0; i < signers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := tx.ExecTx(ctx, func(txCtx context.Context) error {
				_, changed, err := repo.UpdateStatus(txCtx, doc.ID, models.StatusSigned)
				if err != nil {
					return err
				}
				if changed {
					mu.Lock()
					changes++
					mu.Unlock()
				}
				return nil
			})
			if err != nil {
				t.Errorf("ExecTx() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if changes != 1 {
		t.Errorf("status changed %d times, want exactly 1", changes)
	}
}
