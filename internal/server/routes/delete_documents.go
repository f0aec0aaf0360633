package routes

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-ai/studygraph/backend/internal/db"
	"github.com/inkwell-ai/studygraph/backend/internal/queue"
	"github.com/inkwell-ai/studygraph/backend/internal/server/middleware"
	"github.com/inkwell-ai/studygraph/backend/pkg/logger"
)

// DeleteDocumentHandler removes a document. The row and its graph go away
// immediately; the stored file and the mirrored graph are cleaned up by the
// worker.
func DeleteDocumentHandler(c echo.Context) error {
	type deleteDocumentParams struct {
		DocumentID string `param:"id" validate:"required"`
	}

	type deleteDocumentResponse struct {
		Message string `json:"message"`
	}

	params := new(deleteDocumentParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteDocumentResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteDocumentResponse{
			Message: "Invalid request body",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, deleteDocumentResponse{
			Message: "Unauthorized",
		})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	// The graph row cascades with the document; grab its public id first so
	// the worker can drop the mirrored copy.
	graphID := ""
	doc, err := q.GetDocument(ctx, params.DocumentID, user.UserID)
	if err != nil {
		if err == db.ErrNotFound {
			return c.JSON(http.StatusNotFound, deleteDocumentResponse{
				Message: "Document not found",
			})
		}
		logger.Error("Failed to load document", "err", err)
		return c.JSON(http.StatusInternalServerError, deleteDocumentResponse{
			Message: "Internal server error",
		})
	}
	if g, err := q.GetDocumentGraph(ctx, doc.ID); err == nil {
		graphID = g.PublicID
	}

	deleted, err := q.DeleteDocument(ctx, params.DocumentID, user.UserID)
	if err != nil {
		if err == db.ErrNotFound {
			return c.JSON(http.StatusNotFound, deleteDocumentResponse{
				Message: "Document not found",
			})
		}
		logger.Error("Failed to delete document", "err", err)
		return c.JSON(http.StatusInternalServerError, deleteDocumentResponse{
			Message: "Internal server error",
		})
	}

	queueData, _ := json.Marshal(queue.DeleteDocumentMsg{
		Message:    "Document deleted",
		DocumentID: deleted.ID,
		StorageKey: deleted.StorageKey,
		GraphID:    graphID,
	})
	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, queue.DeleteQueue, queueData); err != nil {
		logger.Error("Failed to publish to delete_queue", "err", err)
	}

	return c.JSON(http.StatusOK, deleteDocumentResponse{
		Message: "Document deleted successfully",
	})
}
