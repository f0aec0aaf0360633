package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-ai/studygraph/backend/internal/db"
	"github.com/inkwell-ai/studygraph/backend/internal/server/middleware"
	"github.com/inkwell-ai/studygraph/backend/pkg/logger"
)

// GetGraphsHandler lists the caller's knowledge graphs, newest first.
func GetGraphsHandler(c echo.Context) error {
	type getGraphsResponse struct {
		Message string              `json:"message"`
		Graphs  []db.KnowledgeGraph `json:"graphs"`
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, getGraphsResponse{
			Message: "Unauthorized",
		})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	graphs, err := q.ListKnowledgeGraphs(ctx, user.UserID)
	if err != nil {
		logger.Error("Failed to list graphs", "err", err)
		return c.JSON(http.StatusInternalServerError, getGraphsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getGraphsResponse{
		Message: "OK",
		Graphs:  graphs,
	})
}

// GetGraphHandler returns one knowledge graph and bumps its view counter.
func GetGraphHandler(c echo.Context) error {
	type getGraphParams struct {
		GraphID string `param:"id" validate:"required"`
	}

	type getGraphResponse struct {
		Message string             `json:"message"`
		Graph   *db.KnowledgeGraph `json:"graph,omitempty"`
	}

	params := new(getGraphParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getGraphResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getGraphResponse{
			Message: "Invalid request body",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, getGraphResponse{
			Message: "Unauthorized",
		})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	g, err := q.GetKnowledgeGraph(ctx, params.GraphID, user.UserID)
	if err != nil {
		if err == db.ErrNotFound {
			return c.JSON(http.StatusNotFound, getGraphResponse{
				Message: "Graph not found",
			})
		}
		logger.Error("Failed to load graph", "err", err)
		return c.JSON(http.StatusInternalServerError, getGraphResponse{
			Message: "Internal server error",
		})
	}

	if err := q.IncrementGraphViews(ctx, g.ID); err != nil {
		logger.Warn("Failed to bump graph views", "err", err)
	} else {
		g.Views++
	}

	return c.JSON(http.StatusOK, getGraphResponse{
		Message: "OK",
		Graph:   &g,
	})
}
