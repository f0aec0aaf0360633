package routes

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-ai/studygraph/backend/internal/db"
	"github.com/inkwell-ai/studygraph/backend/internal/server/middleware"
	"github.com/inkwell-ai/studygraph/backend/internal/storage"
	"github.com/inkwell-ai/studygraph/backend/pkg/logger"
)

// GetDocumentsHandler lists the caller's documents, newest first.
func GetDocumentsHandler(c echo.Context) error {
	type getDocumentsResponse struct {
		Message   string        `json:"message"`
		Documents []db.Document `json:"documents"`
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, getDocumentsResponse{
			Message: "Unauthorized",
		})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	docs, err := q.ListDocuments(ctx, user.UserID)
	if err != nil {
		logger.Error("Failed to list documents", "err", err)
		return c.JSON(http.StatusInternalServerError, getDocumentsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getDocumentsResponse{
		Message:   "OK",
		Documents: docs,
	})
}

// GetDocumentHandler returns one document and bumps its view counter.
func GetDocumentHandler(c echo.Context) error {
	type getDocumentParams struct {
		DocumentID string `param:"id" validate:"required"`
	}

	type getDocumentResponse struct {
		Message  string       `json:"message"`
		Document *db.Document `json:"document,omitempty"`
	}

	params := new(getDocumentParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getDocumentResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getDocumentResponse{
			Message: "Invalid request body",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, getDocumentResponse{
			Message: "Unauthorized",
		})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	doc, err := q.GetDocument(ctx, params.DocumentID, user.UserID)
	if err != nil {
		if err == db.ErrNotFound {
			return c.JSON(http.StatusNotFound, getDocumentResponse{
				Message: "Document not found",
			})
		}
		logger.Error("Failed to load document", "err", err)
		return c.JSON(http.StatusInternalServerError, getDocumentResponse{
			Message: "Internal server error",
		})
	}

	if err := q.IncrementDocumentViews(ctx, doc.ID); err != nil {
		logger.Warn("Failed to bump document views", "err", err)
	} else {
		doc.Views++
	}

	return c.JSON(http.StatusOK, getDocumentResponse{
		Message:  "OK",
		Document: &doc,
	})
}

// DownloadDocumentHandler streams the original uploaded file back to the
// caller and bumps the download counter.
func DownloadDocumentHandler(c echo.Context) error {
	type downloadDocumentParams struct {
		DocumentID string `param:"id" validate:"required"`
	}

	type downloadDocumentResponse struct {
		Message string `json:"message"`
	}

	params := new(downloadDocumentParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, downloadDocumentResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, downloadDocumentResponse{
			Message: "Invalid request body",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, downloadDocumentResponse{
			Message: "Unauthorized",
		})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	doc, err := q.GetDocument(ctx, params.DocumentID, user.UserID)
	if err != nil {
		if err == db.ErrNotFound {
			return c.JSON(http.StatusNotFound, downloadDocumentResponse{
				Message: "Document not found",
			})
		}
		logger.Error("Failed to load document", "err", err)
		return c.JSON(http.StatusInternalServerError, downloadDocumentResponse{
			Message: "Internal server error",
		})
	}

	s3Client := c.(*middleware.AppContext).App.S3
	content, err := storage.GetFile(ctx, s3Client, doc.StorageKey)
	if err != nil {
		logger.Error("Failed to fetch file from storage", "err", err)
		return c.JSON(http.StatusInternalServerError, downloadDocumentResponse{
			Message: "Internal server error",
		})
	}

	if err := q.IncrementDocumentDownloads(ctx, doc.ID); err != nil {
		logger.Warn("Failed to bump document downloads", "err", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", doc.Filename))
	return c.Blob(http.StatusOK, doc.ContentType, content)
}

// GetDocumentGraphHandler returns the knowledge graph built from a document.
func GetDocumentGraphHandler(c echo.Context) error {
	type getDocumentGraphParams struct {
		DocumentID string `param:"id" validate:"required"`
	}

	type getDocumentGraphResponse struct {
		Message string             `json:"message"`
		Graph   *db.KnowledgeGraph `json:"graph,omitempty"`
	}

	params := new(getDocumentGraphParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getDocumentGraphResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getDocumentGraphResponse{
			Message: "Invalid request body",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, getDocumentGraphResponse{
			Message: "Unauthorized",
		})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	doc, err := q.GetDocument(ctx, params.DocumentID, user.UserID)
	if err != nil {
		if err == db.ErrNotFound {
			return c.JSON(http.StatusNotFound, getDocumentGraphResponse{
				Message: "Document not found",
			})
		}
		logger.Error("Failed to load document", "err", err)
		return c.JSON(http.StatusInternalServerError, getDocumentGraphResponse{
			Message: "Internal server error",
		})
	}

	g, err := q.GetDocumentGraph(ctx, doc.ID)
	if err != nil {
		if err == db.ErrNotFound {
			return c.JSON(http.StatusNotFound, getDocumentGraphResponse{
				Message: "Document has no knowledge graph yet",
			})
		}
		logger.Error("Failed to load graph", "err", err)
		return c.JSON(http.StatusInternalServerError, getDocumentGraphResponse{
			Message: "Internal server error",
		})
	}

	if err := q.IncrementGraphViews(ctx, g.ID); err != nil {
		logger.Warn("Failed to bump graph views", "err", err)
	} else {
		g.Views++
	}

	return c.JSON(http.StatusOK, getDocumentGraphResponse{
		Message: "OK",
		Graph:   &g,
	})
}
