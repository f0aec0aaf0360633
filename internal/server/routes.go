package server

import (
	"github.com/labstack/echo/v4"

	"github.com/inkwell-ai/studygraph/backend/internal/server/middleware"
	"github.com/inkwell-ai/studygraph/backend/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Document routes
	apiRoutes.GET("/documents", routes.GetDocumentsHandler)
	apiRoutes.POST("/documents", routes.UploadDocumentHandler)
	apiRoutes.GET("/documents/:id", routes.GetDocumentHandler)
	apiRoutes.GET("/documents/:id/download", routes.DownloadDocumentHandler)
	apiRoutes.DELETE("/documents/:id", routes.DeleteDocumentHandler)
	apiRoutes.POST("/documents/:id/reprocess", routes.ReprocessDocumentHandler)
	apiRoutes.GET("/documents/:id/knowledge-graph", routes.GetDocumentGraphHandler)

	// Knowledge graph routes
	apiRoutes.GET("/graphs", routes.GetGraphsHandler)
	apiRoutes.POST("/graphs", routes.CreateGraphHandler)
	apiRoutes.GET("/graphs/:id", routes.GetGraphHandler)
	apiRoutes.PATCH("/graphs/:id", routes.EditGraphHandler)
	apiRoutes.DELETE("/graphs/:id", routes.DeleteGraphHandler)

	// AI routes
	apiRoutes.POST("/ai/chat", routes.ChatHandler)
	apiRoutes.POST("/ai/summary", routes.SummaryHandler)
	apiRoutes.POST("/ai/keywords", routes.KeywordsHandler)
	apiRoutes.POST("/ai/entities", routes.EntitiesHandler)
	apiRoutes.POST("/ai/questions", routes.QuestionsHandler)
}
