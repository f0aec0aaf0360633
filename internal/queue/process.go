package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/inkwell-ai/studygraph/backend/internal/db"
	"github.com/inkwell-ai/studygraph/backend/internal/storage"
	"github.com/inkwell-ai/studygraph/backend/internal/util"
	"github.com/inkwell-ai/studygraph/backend/pkg/ai"
	"github.com/inkwell-ai/studygraph/backend/pkg/extract"
	"github.com/inkwell-ai/studygraph/backend/pkg/graph"
	"github.com/inkwell-ai/studygraph/backend/pkg/graphstore"
	"github.com/inkwell-ai/studygraph/backend/pkg/logger"
	"github.com/inkwell-ai/studygraph/backend/pkg/textproc"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"
)

// Pipeline progress checkpoints.
const (
	progressExtracted  = 10
	progressAnalyzed   = 30
	progressSummarized = 50
	progressGraphBuilt = 70
	progressPersisted  = 90
)

const defaultSummaryLength = 300

// ProcessDocumentMessage runs the document pipeline: extract text, analyze
// keywords and entities, summarize, build the knowledge graph and persist
// everything.
//
// Failures that retrying cannot fix (unsupported or empty documents) mark
// the document failed and consume the message. Any other failure returns an
// error so the delivery goes through the retry queue; partial results of
// completed stages are kept.
func ProcessDocumentMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	router *ai.Router,
	builder *graph.Builder,
	mirror *graphstore.Store,
	conn *pgxpool.Pool,
	msg string,
) error {
	data := new(ProcessDocumentMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return fmt.Errorf("invalid process message: %w", err)
	}

	q := db.New(conn)
	doc, err := q.GetDocumentByID(ctx, data.DocumentID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			logger.Warn("Document vanished before processing", "document_id", data.DocumentID)
			return nil
		}
		return err
	}

	if err := q.MarkDocumentProcessing(ctx, doc.ID); err != nil {
		return err
	}

	fail := func(stage string, cause error) error {
		message := fmt.Sprintf("%s: %v", stage, cause)
		failCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := q.FailDocument(failCtx, doc.ID, message); err != nil {
			logger.Error("Failed to mark document failed", "document_id", doc.ID, "err", err)
		}
		logger.Error("Document processing failed", "document_id", doc.ID, "stage", stage, "err", cause)
		return nil
	}

	// Stage 1: text extraction.
	text := doc.Text
	if text == "" {
		content, err := util.RetryWithContext(ctx, 3, func(ctx context.Context) ([]byte, error) {
			return storage.GetFile(ctx, s3Client, doc.StorageKey)
		})
		if err != nil {
			if resetErr := q.ResetDocumentPending(ctx, doc.ID); resetErr != nil {
				logger.Error("Failed to reset document", "document_id", doc.ID, "err", resetErr)
			}
			return fmt.Errorf("fetch document %d: %w", doc.ID, err)
		}
		text, err = extract.Extract(content, doc.ContentType)
		if err != nil {
			return fail("text extraction", err)
		}
		if err := q.SetDocumentText(ctx, doc.ID, text); err != nil {
			return err
		}
	}
	if err := q.UpdateDocumentProgress(ctx, doc.ID, progressExtracted); err != nil {
		return err
	}

	// Stage 2: keywords and entities run concurrently.
	var (
		keywords []textproc.Keyword
		entities []textproc.Entity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		keywords = textproc.ExtractKeywords(text, textproc.DefaultMaxKeywords)
		return gctx.Err()
	})
	g.Go(func() error {
		entities = textproc.ExtractEntities(text)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if err := q.UpdateDocumentProgress(ctx, doc.ID, progressAnalyzed); err != nil {
		return err
	}

	// Stage 3: summary, via a provider when one is reachable.
	summary := router.Summarize(ctx, text, defaultSummaryLength)
	if err := q.SetDocumentAnalysis(ctx, db.SetDocumentAnalysisParams{
		ID:       doc.ID,
		Summary:  summary.Text,
		Keywords: keywords,
		Entities: entities,
	}); err != nil {
		return err
	}
	if err := q.UpdateDocumentProgress(ctx, doc.ID, progressSummarized); err != nil {
		return err
	}

	// Stage 4: knowledge graph construction.
	builtGraph, stats := builder.Build(text, graph.BuildOptions{
		Title:      doc.Title,
		UserID:     doc.UserID,
		DocumentID: doc.PublicID,
	})
	if err := q.UpdateDocumentProgress(ctx, doc.ID, progressGraphBuilt); err != nil {
		return err
	}

	// Stage 5: persist the graph; the Neo4j mirror is best-effort.
	graphID, err := gonanoid.New()
	if err != nil {
		return err
	}
	if err := q.UpsertDocumentGraph(ctx, db.UpsertDocumentGraphParams{
		PublicID:    graphID,
		UserID:      doc.UserID,
		Title:       doc.Title,
		DocumentID:  doc.ID,
		DocumentIDs: []string{doc.PublicID},
		Nodes:       builtGraph.Nodes,
		Edges:       builtGraph.Edges,
		Stats:       stats,
	}); err != nil {
		return err
	}
	if mirror.Enabled() {
		if err := mirror.SyncGraph(ctx, doc.PublicID, builtGraph); err != nil {
			logger.Warn("Graph mirror sync failed", "document_id", doc.ID, "err", err)
		}
	}
	if err := q.UpdateDocumentProgress(ctx, doc.ID, progressPersisted); err != nil {
		return err
	}

	if err := q.CompleteDocument(ctx, doc.ID); err != nil {
		return err
	}

	logger.Info("Document processed",
		"document_id", doc.ID,
		"nodes", stats.NodeCount,
		"edges", stats.EdgeCount,
		"summary_source", summary.Source,
	)
	return nil
}
