package routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/inkwell-ai/studygraph/backend/internal/db"
	"github.com/inkwell-ai/studygraph/backend/internal/server/middleware"
	"github.com/inkwell-ai/studygraph/backend/pkg/graph"
	"github.com/inkwell-ai/studygraph/backend/pkg/logger"
)

// CreateGraphHandler builds a standalone knowledge graph from one or more
// processed documents.
func CreateGraphHandler(c echo.Context) error {
	type createGraphBody struct {
		Title       string   `json:"title" validate:"required"`
		Description string   `json:"description"`
		DocumentIDs []string `json:"documentIds" validate:"required,min=1"`
		MaxNodes    int      `json:"maxNodes"`
		IsPublic    bool     `json:"isPublic"`
	}

	type createGraphResponse struct {
		Message string             `json:"message"`
		Graph   *db.KnowledgeGraph `json:"graph,omitempty"`
	}

	data := new(createGraphBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createGraphResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createGraphResponse{
			Message: "Invalid request body",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, createGraphResponse{
			Message: "Unauthorized",
		})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	texts := make([]string, 0, len(data.DocumentIDs))
	for _, id := range data.DocumentIDs {
		doc, err := q.GetDocument(ctx, id, user.UserID)
		if err != nil {
			if err == db.ErrNotFound {
				return c.JSON(http.StatusNotFound, createGraphResponse{
					Message: "Document not found",
				})
			}
			logger.Error("Failed to load document", "err", err)
			return c.JSON(http.StatusInternalServerError, createGraphResponse{
				Message: "Internal server error",
			})
		}
		if doc.Text == "" {
			return c.JSON(http.StatusConflict, createGraphResponse{
				Message: "Document has not been processed yet",
			})
		}
		texts = append(texts, doc.Text)
	}

	builder := c.(*middleware.AppContext).App.Builder
	built, stats := builder.Build(strings.Join(texts, "\n\n"), graph.BuildOptions{
		Title:    data.Title,
		UserID:   user.UserID,
		MaxNodes: data.MaxNodes,
	})

	publicID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, createGraphResponse{
			Message: "Internal server error",
		})
	}

	g, err := q.CreateKnowledgeGraph(ctx, db.CreateKnowledgeGraphParams{
		PublicID:    publicID,
		UserID:      user.UserID,
		Title:       data.Title,
		Description: strings.TrimSpace(data.Description),
		DocumentIDs: data.DocumentIDs,
		IsPublic:    data.IsPublic,
		Nodes:       built.Nodes,
		Edges:       built.Edges,
		Stats:       stats,
	})
	if err != nil {
		logger.Error("Failed to create graph", "err", err)
		return c.JSON(http.StatusInternalServerError, createGraphResponse{
			Message: "Internal server error",
		})
	}

	mirror := c.(*middleware.AppContext).App.Mirror
	if mirror.Enabled() {
		if err := mirror.SyncGraph(ctx, g.PublicID, built); err != nil {
			logger.Warn("Failed to mirror graph", "graph", g.PublicID, "err", err)
		}
	}

	return c.JSON(http.StatusCreated, createGraphResponse{
		Message: "Graph created successfully",
		Graph:   &g,
	})
}
