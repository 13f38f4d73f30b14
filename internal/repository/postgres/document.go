package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"govdoc/internal/domain"
	"govdoc/internal/domain/models"
	"govdoc/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

const documentColumns = `id, title, doc_num, doc_date, file_path, raw_content, status, created_at, sign_img_path`

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// EnsureSchema creates the documents table and its listing index
func (r *PostgresDocumentRepository) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id            BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
			title         TEXT NOT NULL DEFAULT '',
			doc_num       TEXT NOT NULL DEFAULT '',
			doc_date      TEXT NOT NULL DEFAULT '',
			file_path     TEXT NOT NULL,
			raw_content   TEXT NOT NULL DEFAULT '',
			status        VARCHAR(20) NOT NULL DEFAULT '%[2]s' CHECK (status IN ('%[2]s', '%[3]s')),
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			sign_img_path TEXT
		);
		CREATE INDEX IF NOT EXISTS %[1]s_created_at_idx ON %[1]s (created_at DESC, id DESC);
	`, r.tables.Documents, models.StatusPending, models.StatusSigned)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query); err != nil {
		return fmt.Errorf("ensure documents schema: %w", err)
	}
	return nil
}

// Create inserts a new document
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	if err := doc.Validate(); err != nil {
		return domain.NewPersistenceError("insert document", err)
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (title, doc_num, doc_date, file_path, raw_content, status, created_at, sign_img_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.Title,
		doc.DocNumber,
		doc.DocDate,
		doc.FilePath,
		doc.RawContent,
		string(doc.Status),
		doc.CreatedAt,
		doc.SignatureImagePath,
	).Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		r.logger.Error("failed to insert document", "file_path", doc.FilePath, "error", err)
		return domain.NewPersistenceError("insert document", err)
	}

	return nil
}

// ListAll returns every document ordered by created_at descending
func (r *PostgresDocumentRepository) ListAll(ctx context.Context) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY created_at DESC, id DESC
	`, documentColumns, r.tables.Documents)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
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
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, documentColumns, r.tables.Documents)

	doc, err := scanDocument(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("document %d not found", id)}
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

// UpdateStatus sets status unless the document already has it.
// The conditional UPDATE takes the row lock, so concurrent signers serialize
// and only the first one reports a change.
func (r *PostgresDocumentRepository) UpdateStatus(ctx context.Context, id int64, status models.DocumentStatus) (*models.Document, bool, error) {
	if err := status.Validate(); err != nil {
		return nil, false, domain.NewPersistenceError("update document status", err)
	}
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1
		WHERE id = $2 AND status <> $1
		RETURNING %s
	`, r.tables.Documents, documentColumns)

	doc, err := scanDocument(GetExecutor(ctx, r.pool).QueryRow(ctx, query, string(status), id))
	if err == nil {
		return doc, true, nil
	}
	if !IsPgNoRowsError(err) {
		r.logger.Error("failed to update document status", "document_id", id, "status", status, "error", err)
		return nil, false, domain.NewPersistenceError("update document status", err)
	}

	// Nothing updated: either missing or already in status
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

// Count returns the total number of documents
func (r *PostgresDocumentRepository) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.tables.Documents)

	var n int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

// CountByStatus returns the number of documents in the given status
func (r *PostgresDocumentRepository) CountByStatus(ctx context.Context, status models.DocumentStatus) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE status = $1`, r.tables.Documents)

	var n int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, string(status)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents by status: %w", err)
	}
	return n, nil
}

// StatusDistribution returns document counts grouped by status
func (r *PostgresDocumentRepository) StatusDistribution(ctx context.Context) (map[models.DocumentStatus]int, error) {
	query := fmt.Sprintf(`
		SELECT status, COUNT(id)
		FROM %s
		GROUP BY status
	`, r.tables.Documents)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
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
	var doc models.Document
	var status string
	err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.DocNumber,
		&doc.DocDate,
		&doc.FilePath,
		&doc.RawContent,
		&status,
		&doc.CreatedAt,
		&doc.SignatureImagePath,
	)
	if err != nil {
		return nil, err
	}
	doc.Status = models.DocumentStatus(status)
	return &doc, nil
}
