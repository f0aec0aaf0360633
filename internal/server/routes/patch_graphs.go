package routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-ai/studygraph/backend/internal/db"
	"github.com/inkwell-ai/studygraph/backend/internal/server/middleware"
	"github.com/inkwell-ai/studygraph/backend/pkg/graph"
	"github.com/inkwell-ai/studygraph/backend/pkg/logger"
)

// EditGraphHandler updates a graph's title, nodes or edges. Statistics are
// recomputed whenever nodes or edges change.
func EditGraphHandler(c echo.Context) error {
	type editGraphBody struct {
		GraphID     string        `param:"id" validate:"required"`
		Title       string        `json:"title"`
		Description *string       `json:"description"`
		IsPublic    *bool         `json:"isPublic"`
		Nodes       *[]graph.Node `json:"nodes"`
		Edges       *[]graph.Edge `json:"edges"`
	}

	type editGraphResponse struct {
		Message string             `json:"message"`
		Graph   *db.KnowledgeGraph `json:"graph,omitempty"`
	}

	data := new(editGraphBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, editGraphResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, editGraphResponse{
			Message: "Invalid request body",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, editGraphResponse{
			Message: "Unauthorized",
		})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	g, err := q.GetKnowledgeGraph(ctx, data.GraphID, user.UserID)
	if err != nil {
		if err == db.ErrNotFound {
			return c.JSON(http.StatusNotFound, editGraphResponse{
				Message: "Graph not found",
			})
		}
		logger.Error("Failed to load graph", "err", err)
		return c.JSON(http.StatusInternalServerError, editGraphResponse{
			Message: "Internal server error",
		})
	}

	if title := strings.TrimSpace(data.Title); title != "" {
		g.Title = title
	}
	if data.Description != nil {
		g.Description = strings.TrimSpace(*data.Description)
	}
	if data.IsPublic != nil {
		g.IsPublic = *data.IsPublic
	}
	if data.Nodes != nil {
		g.Nodes = *data.Nodes
	}
	if data.Edges != nil {
		g.Edges = *data.Edges
	}
	updated := graph.Graph{Nodes: g.Nodes, Edges: g.Edges}
	g.Stats = graph.ComputeStatistics(updated)

	err = q.UpdateKnowledgeGraph(ctx, db.UpdateKnowledgeGraphParams{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		IsPublic:    g.IsPublic,
		Nodes:       g.Nodes,
		Edges:       g.Edges,
		Stats:       g.Stats,
	})
	if err != nil {
		logger.Error("Failed to update graph", "err", err)
		return c.JSON(http.StatusInternalServerError, editGraphResponse{
			Message: "Internal server error",
		})
	}

	mirror := c.(*middleware.AppContext).App.Mirror
	if mirror.Enabled() && (data.Nodes != nil || data.Edges != nil) {
		if err := mirror.SyncGraph(ctx, g.PublicID, updated); err != nil {
			logger.Warn("Failed to mirror graph", "graph", g.PublicID, "err", err)
		}
	}

	return c.JSON(http.StatusOK, editGraphResponse{
		Message: "Graph updated successfully",
		Graph:   &g,
	})
}
