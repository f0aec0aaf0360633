package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a row does not exist or is not visible to the
// requesting user.
var ErrNotFound = errors.New("not found")

// Queries wraps a pool with the typed query set.
type Queries struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

const documentColumns = `
	id, public_id, user_id, title, description, filename, content_type, size, storage_key,
	status, progress, error, started_at, completed_at,
	text, summary, keywords, entities,
	views, downloads, questions, created_at, updated_at
`

func scanDocument(row pgx.Row) (Document, error) {
	var d Document
	err := row.Scan(
		&d.ID, &d.PublicID, &d.UserID, &d.Title, &d.Description, &d.Filename,
		&d.ContentType, &d.Size, &d.StorageKey,
		&d.Status, &d.Progress, &d.Error, &d.StartedAt, &d.CompletedAt,
		&d.Text, &d.Summary, &d.Keywords, &d.Entities,
		&d.Views, &d.Downloads, &d.Questions, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return d, err
}

type CreateDocumentParams struct {
	PublicID    string
	UserID      string
	Title       string
	Description string
	Filename    string
	ContentType string
	Size        int64
	StorageKey  string
}

func (q *Queries) CreateDocument(ctx context.Context, params CreateDocumentParams) (Document, error) {
	row := q.pool.QueryRow(ctx, `
		INSERT INTO documents (public_id, user_id, title, description, filename, content_type, size, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+documentColumns,
		params.PublicID, params.UserID, params.Title, params.Description,
		params.Filename, params.ContentType, params.Size, params.StorageKey,
	)
	return scanDocument(row)
}

func (q *Queries) GetDocument(ctx context.Context, publicID, userID string) (Document, error) {
	row := q.pool.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE public_id = $1 AND user_id = $2`,
		publicID, userID,
	)
	return scanDocument(row)
}

// GetDocumentByID looks a document up by its internal id, regardless of
// owner. The worker uses it when handling queue messages.
func (q *Queries) GetDocumentByID(ctx context.Context, id int64) (Document, error) {
	row := q.pool.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE id = $1`,
		id,
	)
	return scanDocument(row)
}

func (q *Queries) ListDocuments(ctx context.Context, userID string) ([]Document, error) {
	rows, err := q.pool.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		documents = append(documents, d)
	}
	return documents, rows.Err()
}

// MarkDocumentProcessing moves a document into the processing state. The
// start timestamp is only set on the first transition, so requeues keep it.
func (q *Queries) MarkDocumentProcessing(ctx context.Context, id int64) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE documents
		SET status = $2,
		    progress = 0,
		    error = NULL,
		    started_at = COALESCE(started_at, now()),
		    updated_at = now()
		WHERE id = $1`,
		id, StatusProcessing,
	)
	return err
}

// RequeueDocument resets a document so the pipeline runs again from the
// start. Extracted text is kept; reprocessing skips extraction when present.
func (q *Queries) RequeueDocument(ctx context.Context, id int64) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE documents
		SET status = $2,
		    progress = 0,
		    error = NULL,
		    started_at = NULL,
		    completed_at = NULL,
		    updated_at = now()
		WHERE id = $1`,
		id, StatusPending,
	)
	return err
}

// ResetDocumentPending returns a document to the pending state for a retry.
func (q *Queries) ResetDocumentPending(ctx context.Context, id int64) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE documents
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3`,
		id, StatusPending, StatusProcessing,
	)
	return err
}

func (q *Queries) UpdateDocumentProgress(ctx context.Context, id int64, progress int32) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE documents
		SET progress = $2, updated_at = now()
		WHERE id = $1`,
		id, progress,
	)
	return err
}

func (q *Queries) SetDocumentText(ctx context.Context, id int64, text string) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE documents
		SET text = $2, updated_at = now()
		WHERE id = $1`,
		id, text,
	)
	return err
}

type SetDocumentAnalysisParams struct {
	ID       int64
	Summary  string
	Keywords any
	Entities any
}

func (q *Queries) SetDocumentAnalysis(ctx context.Context, params SetDocumentAnalysisParams) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE documents
		SET summary = $2, keywords = $3, entities = $4, updated_at = now()
		WHERE id = $1`,
		params.ID, params.Summary, params.Keywords, params.Entities,
	)
	return err
}

// CompleteDocument marks terminal success.
func (q *Queries) CompleteDocument(ctx context.Context, id int64) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE documents
		SET status = $2, progress = 100, completed_at = now(), updated_at = now()
		WHERE id = $1`,
		id, StatusCompleted,
	)
	return err
}

// FailDocument marks terminal failure and keeps whatever partial results
// earlier stages already stored.
func (q *Queries) FailDocument(ctx context.Context, id int64, message string) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE documents
		SET status = $2, error = $3, completed_at = now(), updated_at = now()
		WHERE id = $1`,
		id, StatusFailed, message,
	)
	return err
}

func (q *Queries) IncrementDocumentViews(ctx context.Context, id int64) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE documents SET views = views + 1 WHERE id = $1`, id)
	return err
}

func (q *Queries) IncrementDocumentDownloads(ctx context.Context, id int64) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE documents SET downloads = downloads + 1 WHERE id = $1`, id)
	return err
}

func (q *Queries) IncrementDocumentQuestions(ctx context.Context, id int64) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE documents SET questions = questions + 1 WHERE id = $1`, id)
	return err
}

func (q *Queries) DeleteDocument(ctx context.Context, publicID, userID string) (Document, error) {
	row := q.pool.QueryRow(ctx, `
		DELETE FROM documents
		WHERE public_id = $1 AND user_id = $2
		RETURNING `+documentColumns,
		publicID, userID,
	)
	return scanDocument(row)
}
