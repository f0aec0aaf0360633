package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-ai/studygraph/backend/internal/db"
	"github.com/inkwell-ai/studygraph/backend/internal/server/middleware"
	"github.com/inkwell-ai/studygraph/backend/pkg/logger"
)

// DeleteGraphHandler removes a standalone knowledge graph.
func DeleteGraphHandler(c echo.Context) error {
	type deleteGraphParams struct {
		GraphID string `param:"id" validate:"required"`
	}

	type deleteGraphResponse struct {
		Message string `json:"message"`
	}

	params := new(deleteGraphParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteGraphResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteGraphResponse{
			Message: "Invalid request body",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, deleteGraphResponse{
			Message: "Unauthorized",
		})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	deleted, err := q.DeleteKnowledgeGraph(ctx, params.GraphID, user.UserID)
	if err != nil {
		if err == db.ErrNotFound {
			return c.JSON(http.StatusNotFound, deleteGraphResponse{
				Message: "Graph not found",
			})
		}
		logger.Error("Failed to delete graph", "err", err)
		return c.JSON(http.StatusInternalServerError, deleteGraphResponse{
			Message: "Internal server error",
		})
	}

	mirror := c.(*middleware.AppContext).App.Mirror
	if mirror.Enabled() {
		if err := mirror.DeleteGraph(ctx, deleted.PublicID); err != nil {
			logger.Warn("Failed to drop mirrored graph", "graph", deleted.PublicID, "err", err)
		}
	}

	return c.JSON(http.StatusOK, deleteGraphResponse{
		Message: "Graph deleted successfully",
	})
}
