package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"govdoc/internal/domain"
	"govdoc/internal/domain/models"
	"govdoc/internal/domain/repositories"
)

const documentColumns = `id, title, doc_num, doc_date, file_path, raw_content, status, created_at, sign_img_path`

// SQLiteDocumentRepository implements the DocumentRepository interface.
// created_at is stored as Unix nanoseconds so ordering is exact.
type SQLiteDocumentRepository struct {
	db     *sql.DB
	tables *TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &SQLiteDocumentRepository{
		db:     config.DB,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// EnsureSchema creates the documents table and its listing index
func (r *SQLiteDocumentRepository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				id            INTEGER PRIMARY KEY AUTOINCREMENT,
				title         TEXT NOT NULL DEFAULT '',
				doc_num       TEXT NOT NULL DEFAULT '',
				doc_date      TEXT NOT NULL DEFAULT '',
				file_path     TEXT NOT NULL,
				raw_content   TEXT NOT NULL DEFAULT '',
				status        TEXT NOT NULL DEFAULT '%[2]s' CHECK (status IN ('%[2]s', '%[3]s')),
				created_at    INTEGER NOT NULL,
				sign_img_path TEXT
			)`, r.tables.Documents, models.StatusPending, models.StatusSigned),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_created_at_idx ON %[1]s (created_at DESC, id DESC)`, r.tables.Documents),
	}

	executor := GetExecutor(ctx, r.db)
	for _, stmt := range stmts {
		if _, err := executor.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure documents schema: %w", err)
		}
	}
	return nil
}

// Create inserts a new document
func (r *SQLiteDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	if err := doc.Validate(); err != nil {
		return domain.NewPersistenceError("insert document", err)
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (title, doc_num, doc_date, file_path, raw_content, status, created_at, sign_img_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.tables.Documents)

	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		doc.Title,
		doc.DocNumber,
		doc.DocDate,
		doc.FilePath,
		doc.RawContent,
		string(doc.Status),
		doc.CreatedAt.UnixNano(),
		nullString(doc.SignatureImagePath),
	)
	if err != nil {
		r.logger.Error("failed to insert document", "file_path", doc.FilePath, "error", err)
		return domain.NewPersistenceError("insert document", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.NewPersistenceError("insert document", err)
	}
	doc.ID = id
	doc.CreatedAt = time.Unix(0, doc.CreatedAt.UnixNano()).UTC()

	return nil
}

// ListAll returns every document ordered by created_at descending
func (r *SQLiteDocumentRepository) ListAll(ctx context.Context) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY created_at DESC, id DESC
	`, documentColumns, r.tables.Documents)

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]models.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}

// GetByID retrieves a document by ID
func (r *SQLiteDocumentRepository) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, documentColumns, r.tables.Documents)

	doc, err := scanDocument(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("document %d not found", id)}
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

// UpdateStatus sets status unless the document already has it
func (r *SQLiteDocumentRepository) UpdateStatus(ctx context.Context, id int64, status models.DocumentStatus) (*models.Document, bool, error) {
	if err := status.Validate(); err != nil {
		return nil, false, domain.NewPersistenceError("update document status", err)
	}
	query := fmt.Sprintf(`UPDATE %s SET status = ? WHERE id = ? AND status <> ?`, r.tables.Documents)

	executor := GetExecutor(ctx, r.db)
	res, err := executor.ExecContext(ctx, query, string(status), id, string(status))
	if err != nil {
		r.logger.Error("failed to update document status", "document_id", id, "status", status, "error", err)
		return nil, false, domain.NewPersistenceError("update document status", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, domain.NewPersistenceError("update document status", err)
	}

	doc, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return doc, affected > 0, nil
}

// Count returns the total number of documents
func (r *SQLiteDocumentRepository) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.tables.Documents)

	var n int
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

// CountByStatus returns the number of documents in the given status
func (r *SQLiteDocumentRepository) CountByStatus(ctx context.Context, status models.DocumentStatus) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE status = ?`, r.tables.Documents)

	var n int
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, string(status)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents by status: %w", err)
	}
	return n, nil
}

// StatusDistribution returns document counts grouped by status
func (r *SQLiteDocumentRepository) StatusDistribution(ctx context.Context) (map[models.DocumentStatus]int, error) {
	query := fmt.Sprintf(`SELECT status, COUNT(id) FROM %s GROUP BY status`, r.tables.Documents)

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("status distribution: %w", err)
	}
	defer rows.Close()

	dist := make(map[models.DocumentStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		dist[models.DocumentStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}

	return dist, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var (
		doc       models.Document
		status    string
		createdAt int64
		signPath  sql.NullString
	)
	err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.DocNumber,
		&doc.DocDate,
		&doc.FilePath,
		&doc.RawContent,
		&status,
		&createdAt,
		&signPath,
	)
	if err != nil {
		return nil, err
	}
	doc.Status = models.DocumentStatus(status)
	doc.CreatedAt = time.Unix(0, createdAt).UTC()
	if signPath.Valid {
		doc.SignatureImagePath = &signPath.String
	}
	return &doc, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
