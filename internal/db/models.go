// Package db is the Postgres persistence layer: row models and hand-written
// pgx queries for documents and knowledge graphs.
package db

import (
	"time"

	"github.com/inkwell-ai/studygraph/backend/pkg/graph"
	"github.com/inkwell-ai/studygraph/backend/pkg/textproc"
)

// Document processing states.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Document is one uploaded study document and everything the pipeline has
// derived from it so far. Analysis columns stay at their zero values until
// the corresponding pipeline stage has run.
type Document struct {
	ID          int64  `json:"-"`
	PublicID    string `json:"id"`
	UserID      string `json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	StorageKey  string `json:"-"`

	Status      string     `json:"status"`
	Progress    int32      `json:"progress"`
	Error       *string    `json:"error,omitempty"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	Text     string             `json:"-"`
	Summary  string             `json:"summary,omitempty"`
	Keywords []textproc.Keyword `json:"keywords,omitempty"`
	Entities []textproc.Entity  `json:"entities,omitempty"`

	Views     int32 `json:"views"`
	Downloads int32 `json:"downloads"`
	Questions int32 `json:"questions"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// KnowledgeGraph is a stored graph, either built from a document or created
// through the graph API directly.
type KnowledgeGraph struct {
	ID          int64    `json:"-"`
	PublicID    string   `json:"id"`
	UserID      string   `json:"userId"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	DocumentID  *int64   `json:"-"`
	Document    *string  `json:"documentId,omitempty"`
	DocumentIDs []string `json:"documentIds"`
	IsPublic    bool     `json:"isPublic"`

	Nodes []graph.Node     `json:"nodes"`
	Edges []graph.Edge     `json:"edges"`
	Stats graph.Statistics `json:"statistics"`

	Views   int32 `json:"views"`
	Queries int32 `json:"queries"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
