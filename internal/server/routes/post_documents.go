package routes

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/inkwell-ai/studygraph/backend/internal/db"
	"github.com/inkwell-ai/studygraph/backend/internal/queue"
	"github.com/inkwell-ai/studygraph/backend/internal/server/middleware"
	"github.com/inkwell-ai/studygraph/backend/internal/storage"
	"github.com/inkwell-ai/studygraph/backend/pkg/extract"
	"github.com/inkwell-ai/studygraph/backend/pkg/logger"
)

// UploadDocumentHandler accepts a multipart upload, stores the raw file and
// queues it for processing.
func UploadDocumentHandler(c echo.Context) error {
	type uploadDocumentBody struct {
		Title       string `form:"title"`
		Description string `form:"description"`
	}

	type uploadDocumentResponse struct {
		Message  string       `json:"message"`
		Document *db.Document `json:"document,omitempty"`
	}

	data := new(uploadDocumentBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, uploadDocumentResponse{
			Message: "Invalid request body",
		})
	}

	upload, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadDocumentResponse{
			Message: "No file provided",
		})
	}
	if upload.Size == 0 {
		return c.JSON(http.StatusBadRequest, uploadDocumentResponse{
			Message: "File is empty",
		})
	}

	contentType := extract.TypeFromFilename(upload.Filename)
	if contentType == "" {
		return c.JSON(http.StatusBadRequest, uploadDocumentResponse{
			Message: "Unsupported document type",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, uploadDocumentResponse{
			Message: "Unauthorized",
		})
	}

	src, err := upload.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadDocumentResponse{
			Message: "Could not open file",
		})
	}
	defer src.Close()

	publicID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, uploadDocumentResponse{
			Message: "Internal server error",
		})
	}

	ctx := c.Request().Context()
	s3Client := c.(*middleware.AppContext).App.S3
	key, err := storage.PutFile(ctx, s3Client, publicID, contentType, src)
	if err != nil {
		logger.Error("Failed to upload file", "err", err)
		return c.JSON(http.StatusInternalServerError, uploadDocumentResponse{
			Message: "Internal server error",
		})
	}

	title := strings.TrimSpace(data.Title)
	if title == "" {
		title = upload.Filename
	}

	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)
	doc, err := q.CreateDocument(ctx, db.CreateDocumentParams{
		PublicID:    publicID,
		UserID:      user.UserID,
		Title:       title,
		Description: strings.TrimSpace(data.Description),
		Filename:    upload.Filename,
		ContentType: contentType,
		Size:        upload.Size,
		StorageKey:  key,
	})
	if err != nil {
		logger.Error("Failed to create document", "err", err)
		return c.JSON(http.StatusInternalServerError, uploadDocumentResponse{
			Message: "Internal server error",
		})
	}

	queueData, _ := json.Marshal(queue.ProcessDocumentMsg{
		Message:    "Document uploaded",
		DocumentID: doc.ID,
		UserID:     user.UserID,
	})
	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, queue.ProcessQueue, queueData); err != nil {
		logger.Error("Failed to publish to process_queue", "err", err)
	}

	return c.JSON(http.StatusCreated, uploadDocumentResponse{
		Message:  "Document uploaded successfully",
		Document: &doc,
	})
}

// ReprocessDocumentHandler resets a document and runs the pipeline again.
func ReprocessDocumentHandler(c echo.Context) error {
	type reprocessParams struct {
		DocumentID string `param:"id" validate:"required"`
	}

	type reprocessResponse struct {
		Message  string       `json:"message"`
		Document *db.Document `json:"document,omitempty"`
	}

	params := new(reprocessParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, reprocessResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, reprocessResponse{
			Message: "Invalid request body",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, reprocessResponse{
			Message: "Unauthorized",
		})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	doc, err := q.GetDocument(ctx, params.DocumentID, user.UserID)
	if err != nil {
		if err == db.ErrNotFound {
			return c.JSON(http.StatusNotFound, reprocessResponse{
				Message: "Document not found",
			})
		}
		logger.Error("Failed to load document", "err", err)
		return c.JSON(http.StatusInternalServerError, reprocessResponse{
			Message: "Internal server error",
		})
	}

	if err := q.RequeueDocument(ctx, doc.ID); err != nil {
		logger.Error("Failed to reset document", "err", err)
		return c.JSON(http.StatusInternalServerError, reprocessResponse{
			Message: "Internal server error",
		})
	}
	doc.Status = db.StatusPending
	doc.Progress = 0
	doc.Error = nil

	queueData, _ := json.Marshal(queue.ProcessDocumentMsg{
		Message:    "Document reprocess requested",
		DocumentID: doc.ID,
		UserID:     user.UserID,
	})
	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, queue.ProcessQueue, queueData); err != nil {
		logger.Error("Failed to publish to process_queue", "err", err)
	}

	return c.JSON(http.StatusOK, reprocessResponse{
		Message:  "Document queued for processing",
		Document: &doc,
	})
}
