package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

const graphColumns = `
	g.id, g.public_id, g.user_id, g.title, g.description, g.document_id, d.public_id,
	g.document_ids, g.is_public,
	g.nodes, g.edges, g.stats,
	g.views, g.queries, g.created_at, g.updated_at
`

const graphSelect = `
	SELECT ` + graphColumns + `
	FROM knowledge_graphs g
	LEFT JOIN documents d ON d.id = g.document_id
`

func scanKnowledgeGraph(row pgx.Row) (KnowledgeGraph, error) {
	var g KnowledgeGraph
	err := row.Scan(
		&g.ID, &g.PublicID, &g.UserID, &g.Title, &g.Description, &g.DocumentID, &g.Document,
		&g.DocumentIDs, &g.IsPublic,
		&g.Nodes, &g.Edges, &g.Stats,
		&g.Views, &g.Queries, &g.CreatedAt, &g.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return KnowledgeGraph{}, ErrNotFound
	}
	return g, err
}

type CreateKnowledgeGraphParams struct {
	PublicID    string
	UserID      string
	Title       string
	Description string
	DocumentID  *int64
	DocumentIDs any
	IsPublic    bool
	Nodes       any
	Edges       any
	Stats       any
}

func (q *Queries) CreateKnowledgeGraph(ctx context.Context, params CreateKnowledgeGraphParams) (KnowledgeGraph, error) {
	row := q.pool.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO knowledge_graphs (public_id, user_id, title, description, document_id, document_ids, is_public, nodes, edges, stats)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING *
		)
		SELECT `+graphColumns+`
		FROM inserted g
		LEFT JOIN documents d ON d.id = g.document_id`,
		params.PublicID, params.UserID, params.Title, params.Description,
		params.DocumentID, params.DocumentIDs, params.IsPublic,
		params.Nodes, params.Edges, params.Stats,
	)
	return scanKnowledgeGraph(row)
}

func (q *Queries) GetKnowledgeGraph(ctx context.Context, publicID, userID string) (KnowledgeGraph, error) {
	row := q.pool.QueryRow(ctx, graphSelect+`
		WHERE g.public_id = $1 AND g.user_id = $2`,
		publicID, userID,
	)
	return scanKnowledgeGraph(row)
}

// GetDocumentGraph returns the graph built from the given document.
func (q *Queries) GetDocumentGraph(ctx context.Context, documentID int64) (KnowledgeGraph, error) {
	row := q.pool.QueryRow(ctx, graphSelect+`
		WHERE g.document_id = $1`,
		documentID,
	)
	return scanKnowledgeGraph(row)
}

func (q *Queries) ListKnowledgeGraphs(ctx context.Context, userID string) ([]KnowledgeGraph, error) {
	rows, err := q.pool.Query(ctx, graphSelect+`
		WHERE g.user_id = $1
		ORDER BY g.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var graphs []KnowledgeGraph
	for rows.Next() {
		g, err := scanKnowledgeGraph(rows)
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, g)
	}
	return graphs, rows.Err()
}

type UpdateKnowledgeGraphParams struct {
	ID          int64
	Title       string
	Description string
	IsPublic    bool
	Nodes       any
	Edges       any
	Stats       any
}

func (q *Queries) UpdateKnowledgeGraph(ctx context.Context, params UpdateKnowledgeGraphParams) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE knowledge_graphs
		SET title = $2, description = $3, is_public = $4,
		    nodes = $5, edges = $6, stats = $7, updated_at = now()
		WHERE id = $1`,
		params.ID, params.Title, params.Description, params.IsPublic,
		params.Nodes, params.Edges, params.Stats,
	)
	return err
}

// UpsertDocumentGraph stores the graph built for a document, replacing a
// previous build when the document is reprocessed.
type UpsertDocumentGraphParams struct {
	PublicID    string
	UserID      string
	Title       string
	DocumentID  int64
	DocumentIDs any
	Nodes       any
	Edges       any
	Stats       any
}

func (q *Queries) UpsertDocumentGraph(ctx context.Context, params UpsertDocumentGraphParams) error {
	_, err := q.pool.Exec(ctx, `
		INSERT INTO knowledge_graphs (public_id, user_id, title, document_id, document_ids, nodes, edges, stats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (document_id) WHERE document_id IS NOT NULL
		DO UPDATE SET title = EXCLUDED.title,
		              document_ids = EXCLUDED.document_ids,
		              nodes = EXCLUDED.nodes,
		              edges = EXCLUDED.edges,
		              stats = EXCLUDED.stats,
		              updated_at = now()`,
		params.PublicID, params.UserID, params.Title, params.DocumentID,
		params.DocumentIDs, params.Nodes, params.Edges, params.Stats,
	)
	return err
}

func (q *Queries) IncrementGraphViews(ctx context.Context, id int64) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE knowledge_graphs SET views = views + 1 WHERE id = $1`, id)
	return err
}

func (q *Queries) IncrementGraphQueries(ctx context.Context, id int64) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE knowledge_graphs SET queries = queries + 1 WHERE id = $1`, id)
	return err
}

func (q *Queries) DeleteKnowledgeGraph(ctx context.Context, publicID, userID string) (KnowledgeGraph, error) {
	row := q.pool.QueryRow(ctx, `
		WITH deleted AS (
			DELETE FROM knowledge_graphs
			WHERE public_id = $1 AND user_id = $2
			RETURNING *
		)
		SELECT `+graphColumns+`
		FROM deleted g
		LEFT JOIN documents d ON d.id = g.document_id`,
		publicID, userID,
	)
	return scanKnowledgeGraph(row)
}
