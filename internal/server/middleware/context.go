package middleware

import (
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/inkwell-ai/studygraph/backend/pkg/ai"
	"github.com/inkwell-ai/studygraph/backend/pkg/graph"
	"github.com/inkwell-ai/studygraph/backend/pkg/graphstore"
	"github.com/inkwell-ai/studygraph/backend/pkg/qa"
)

// AppUser is the authenticated caller.
type AppUser struct {
	UserID string
	Role   string
}

// App bundles the shared services handlers need. It is constructed once at
// startup and injected into every request context.
type App struct {
	DBConn    *pgxpool.Pool
	Queue     *amqp091.Channel
	S3        *s3.Client
	Router    *ai.Router
	Builder   *graph.Builder
	Resolver  *qa.Resolver
	Mirror    *graphstore.Store
	JWTSecret string
}

// AppContext decorates the echo context with the application services and
// the authenticated user.
type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{c, app, nil})
		}
	}
}
