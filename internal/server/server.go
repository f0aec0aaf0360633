package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkwell-ai/studygraph/backend/internal/queue"
	mid "github.com/inkwell-ai/studygraph/backend/internal/server/middleware"
	"github.com/inkwell-ai/studygraph/backend/internal/storage"
	"github.com/inkwell-ai/studygraph/backend/internal/util"
	"github.com/inkwell-ai/studygraph/backend/pkg/ai"
	"github.com/inkwell-ai/studygraph/backend/pkg/ai/ollama"
	"github.com/inkwell-ai/studygraph/backend/pkg/ai/openaicompat"
	"github.com/inkwell-ai/studygraph/backend/pkg/graph"
	"github.com/inkwell-ai/studygraph/backend/pkg/graphstore"
	"github.com/inkwell-ai/studygraph/backend/pkg/logger"
	"github.com/inkwell-ai/studygraph/backend/pkg/qa"

	"github.com/go-playground/validator"
	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// BuildProviders assembles the configured AI providers. Providers without
// credentials are left out; an empty slice means every task runs on the
// local heuristics.
func BuildProviders() []ai.Provider {
	providers := make([]ai.Provider, 0, 3)

	if key := util.GetEnv("DEEPSEEK_API_KEY"); key != "" {
		providers = append(providers, openaicompat.NewClient(openaicompat.NewClientParams{
			Name:    "deepseek",
			BaseURL: util.GetEnvString("DEEPSEEK_BASE_URL", "https://api.deepseek.com"),
			APIKey:  key,
			Model:   util.GetEnvString("DEEPSEEK_MODEL", "deepseek-chat"),
		}))
	}

	if key := util.GetEnv("GEMINI_API_KEY"); key != "" {
		providers = append(providers, openaicompat.NewClient(openaicompat.NewClientParams{
			Name:    "gemini",
			BaseURL: util.GetEnvString("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
			APIKey:  key,
			Model:   util.GetEnvString("GEMINI_MODEL", "gemini-2.0-flash"),
		}))
	}

	if url := util.GetEnv("OLLAMA_URL"); url != "" {
		client, err := ollama.NewClient(ollama.NewClientParams{
			BaseURL: url,
			Model:   util.GetEnvString("OLLAMA_MODEL", "qwen2.5"),
		})
		if err != nil {
			logger.Warn("Skipping ollama provider", "err", err)
		} else {
			providers = append(providers, client)
		}
	}

	return providers
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	databaseURL := util.GetEnv("DATABASE_URL")
	migrations := util.GetEnvString("MIGRATIONS_URL", "file://migrations")
	m, err := migrate.New(migrations, databaseURL)
	if err != nil {
		logger.Fatal("Failed to load migrations", "err", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatal("Failed to run migrations", "err", err)
	}

	conn, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer conn.Close()

	que := queue.Init()
	defer que.Close()
	ch, err := que.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	if err := queue.SetupQueues(ch, queue.QueueNames); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	s3 := storage.NewS3Client(ctx)

	builder := graph.NewBuilder(graph.BuilderParams{
		MaxKeywords: int(util.GetEnvNumeric("GRAPH_MAX_KEYWORDS", 0)),
		MaxNodes:    int(util.GetEnvNumeric("GRAPH_MAX_NODES", 0)),
	})
	router := ai.NewRouter(ai.NewRouterParams{
		Providers: BuildProviders(),
		Local:     ai.NewHeuristics(builder),
	})
	resolver := qa.NewResolver(qa.NewResolverParams{
		Router:           router,
		MaxContextTokens: int(util.GetEnvNumeric("QA_CONTEXT_TOKENS", 0)),
	})

	mirror, err := graphstore.NewStore(graphstore.NewStoreParams{
		URI:      util.GetEnv("NEO4J_URI"),
		User:     util.GetEnv("NEO4J_USER"),
		Password: util.GetEnv("NEO4J_PASSWORD"),
		Database: util.GetEnv("NEO4J_DATABASE"),
	})
	if err != nil {
		logger.Warn("Neo4j mirror unavailable", "err", err)
	}
	if mirror != nil {
		defer mirror.Close(context.Background())
	}

	app := &mid.App{
		DBConn:    conn,
		Queue:     ch,
		S3:        s3,
		Router:    router,
		Builder:   builder,
		Resolver:  resolver,
		Mirror:    mirror,
		JWTSecret: util.GetEnv("JWT_SECRET"),
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("100M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
