package routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-ai/studygraph/backend/internal/db"
	"github.com/inkwell-ai/studygraph/backend/internal/server/middleware"
	"github.com/inkwell-ai/studygraph/backend/pkg/ai"
	"github.com/inkwell-ai/studygraph/backend/pkg/graph"
	"github.com/inkwell-ai/studygraph/backend/pkg/logger"
	"github.com/inkwell-ai/studygraph/backend/pkg/qa"
	"github.com/inkwell-ai/studygraph/backend/pkg/textproc"
)

// resolveText returns the text an AI route should operate on: the inline text
// when provided, otherwise the extracted text of the referenced document.
func resolveText(c echo.Context, text, documentID string) (string, *db.Document, error) {
	if strings.TrimSpace(text) != "" {
		return text, nil, nil
	}
	if documentID == "" {
		return "", nil, echo.NewHTTPError(http.StatusBadRequest, "Either text or documentId is required")
	}

	user := c.(*middleware.AppContext).User
	ctx := c.Request().Context()
	q := db.New(c.(*middleware.AppContext).App.DBConn)

	doc, err := q.GetDocument(ctx, documentID, user.UserID)
	if err != nil {
		if err == db.ErrNotFound {
			return "", nil, echo.NewHTTPError(http.StatusNotFound, "Document not found")
		}
		logger.Error("Failed to load document", "err", err)
		return "", nil, echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
	if doc.Text == "" {
		return "", nil, echo.NewHTTPError(http.StatusConflict, "Document has not been processed yet")
	}
	return doc.Text, &doc, nil
}

// ChatHandler answers a question about a document or a knowledge graph.
func ChatHandler(c echo.Context) error {
	type chatBody struct {
		DocumentID string           `json:"documentId"`
		GraphID    string           `json:"knowledgeGraphId"`
		Messages   []ai.ChatMessage `json:"messages" validate:"required,min=1"`
	}

	type chatResponse struct {
		Message     string   `json:"message"`
		Answer      string   `json:"answer,omitempty"`
		Confidence  float64  `json:"confidence"`
		Sources     []string `json:"sources,omitempty"`
		Suggestions []string `json:"suggestions,omitempty"`
	}

	data := new(chatBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, chatResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, chatResponse{
			Message: "Invalid request body",
		})
	}
	if data.DocumentID == "" && data.GraphID == "" {
		return c.JSON(http.StatusBadRequest, chatResponse{
			Message: "Either documentId or knowledgeGraphId is required",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, chatResponse{
			Message: "Unauthorized",
		})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	var (
		documentText string
		contextGraph graph.Graph
		doc          *db.Document
		graphRowID   int64
	)

	if data.DocumentID != "" {
		d, err := q.GetDocument(ctx, data.DocumentID, user.UserID)
		if err != nil {
			if err == db.ErrNotFound {
				return c.JSON(http.StatusNotFound, chatResponse{
					Message: "Document not found",
				})
			}
			logger.Error("Failed to load document", "err", err)
			return c.JSON(http.StatusInternalServerError, chatResponse{
				Message: "Internal server error",
			})
		}
		doc = &d
		documentText = d.Text
		if g, err := q.GetDocumentGraph(ctx, d.ID); err == nil {
			contextGraph = graph.Graph{Nodes: g.Nodes, Edges: g.Edges}
			graphRowID = g.ID
		}
	} else {
		g, err := q.GetKnowledgeGraph(ctx, data.GraphID, user.UserID)
		if err != nil {
			if err == db.ErrNotFound {
				return c.JSON(http.StatusNotFound, chatResponse{
					Message: "Graph not found",
				})
			}
			logger.Error("Failed to load graph", "err", err)
			return c.JSON(http.StatusInternalServerError, chatResponse{
				Message: "Internal server error",
			})
		}
		contextGraph = graph.Graph{Nodes: g.Nodes, Edges: g.Edges}
		graphRowID = g.ID
		if g.DocumentID != nil {
			if d, err := q.GetDocumentByID(ctx, *g.DocumentID); err == nil {
				documentText = d.Text
			}
		}
	}

	question := data.Messages[len(data.Messages)-1].Message
	history := data.Messages[:len(data.Messages)-1]

	resolver := c.(*middleware.AppContext).App.Resolver
	answer := resolver.Answer(ctx, qa.Question{
		Text:         question,
		History:      history,
		Graph:        contextGraph,
		DocumentText: documentText,
	})

	if doc != nil {
		if err := q.IncrementDocumentQuestions(ctx, doc.ID); err != nil {
			logger.Warn("Failed to bump document questions", "err", err)
		}
	}
	if graphRowID != 0 {
		if err := q.IncrementGraphQueries(ctx, graphRowID); err != nil {
			logger.Warn("Failed to bump graph queries", "err", err)
		}
	}

	return c.JSON(http.StatusOK, chatResponse{
		Message:     "OK",
		Answer:      answer.Answer,
		Confidence:  answer.Confidence,
		Sources:     answer.Sources,
		Suggestions: answer.Suggestions,
	})
}

// SummaryHandler produces a summary of raw text or a processed document.
func SummaryHandler(c echo.Context) error {
	type summaryBody struct {
		Text       string `json:"text"`
		DocumentID string `json:"documentId"`
		MaxLength  int    `json:"maxLength"`
	}

	type summaryResponse struct {
		Message string `json:"message"`
		Summary string `json:"summary,omitempty"`
		Source  string `json:"source,omitempty"`
	}

	data := new(summaryBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, summaryResponse{
			Message: "Invalid request body",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, summaryResponse{
			Message: "Unauthorized",
		})
	}

	text, _, err := resolveText(c, data.Text, data.DocumentID)
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, summaryResponse{Message: he.Message.(string)})
	}

	router := c.(*middleware.AppContext).App.Router
	result := router.Summarize(c.Request().Context(), text, data.MaxLength)

	return c.JSON(http.StatusOK, summaryResponse{
		Message: "OK",
		Summary: result.Text,
		Source:  result.Source,
	})
}

// KeywordsHandler runs keyword extraction over raw text or a processed
// document.
func KeywordsHandler(c echo.Context) error {
	type keywordsBody struct {
		Text        string `json:"text"`
		DocumentID  string `json:"documentId"`
		MaxKeywords int    `json:"maxKeywords"`
	}

	type keywordsResponse struct {
		Message  string             `json:"message"`
		Keywords []textproc.Keyword `json:"keywords"`
	}

	data := new(keywordsBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, keywordsResponse{
			Message: "Invalid request body",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, keywordsResponse{
			Message: "Unauthorized",
		})
	}

	text, _, err := resolveText(c, data.Text, data.DocumentID)
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, keywordsResponse{Message: he.Message.(string)})
	}

	return c.JSON(http.StatusOK, keywordsResponse{
		Message:  "OK",
		Keywords: textproc.ExtractKeywords(text, data.MaxKeywords),
	})
}

// EntitiesHandler runs entity extraction over raw text or a processed
// document.
func EntitiesHandler(c echo.Context) error {
	type entitiesBody struct {
		Text       string `json:"text"`
		DocumentID string `json:"documentId"`
	}

	type entitiesResponse struct {
		Message  string            `json:"message"`
		Entities []textproc.Entity `json:"entities"`
	}

	data := new(entitiesBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, entitiesResponse{
			Message: "Invalid request body",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, entitiesResponse{
			Message: "Unauthorized",
		})
	}

	text, _, err := resolveText(c, data.Text, data.DocumentID)
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, entitiesResponse{Message: he.Message.(string)})
	}

	entities := textproc.ExtractEntities(text)
	if entities == nil {
		entities = []textproc.Entity{}
	}
	return c.JSON(http.StatusOK, entitiesResponse{
		Message:  "OK",
		Entities: entities,
	})
}

// QuestionsHandler generates study questions for raw text or a processed
// document.
func QuestionsHandler(c echo.Context) error {
	type questionsBody struct {
		Text       string `json:"text"`
		DocumentID string `json:"documentId"`
		Count      int    `json:"count"`
	}

	type questionsResponse struct {
		Message   string   `json:"message"`
		Questions []string `json:"questions"`
		Source    string   `json:"source,omitempty"`
	}

	data := new(questionsBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, questionsResponse{
			Message: "Invalid request body",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, questionsResponse{
			Message: "Unauthorized",
		})
	}

	text, doc, err := resolveText(c, data.Text, data.DocumentID)
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, questionsResponse{Message: he.Message.(string)})
	}

	count := data.Count
	if count <= 0 {
		count = 5
	}

	ctx := c.Request().Context()
	router := c.(*middleware.AppContext).App.Router
	set, source := router.GenerateQuestions(ctx, text, count)

	if doc != nil {
		q := db.New(c.(*middleware.AppContext).App.DBConn)
		if err := q.IncrementDocumentQuestions(ctx, doc.ID); err != nil {
			logger.Warn("Failed to bump document questions", "err", err)
		}
	}

	return c.JSON(http.StatusOK, questionsResponse{
		Message:   "OK",
		Questions: set.Questions,
		Source:    source,
	})
}
