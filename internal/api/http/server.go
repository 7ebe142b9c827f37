package httpapi

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/weather-journal/internal/records"
	"github.com/i474232898/weather-journal/internal/weather"
)

const serviceName = "weather-journal"

// WeatherService answers live lookups.
type WeatherService interface {
	Lookup(ctx context.Context, query, units string) (weather.Lookup, error)
}

// RecordService manages saved date-range records.
type RecordService interface {
	Create(ctx context.Context, in records.CreateInput) (weather.Record, error)
	List(ctx context.Context) ([]weather.Record, error)
	Get(ctx context.Context, id uint) (weather.Record, error)
	Update(ctx context.Context, id uint, patch records.Patch) (weather.Record, error)
	Delete(ctx context.Context, id uint) error
	ExportCSV(ctx context.Context, w io.Writer) error
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the handlers need. Metrics may be nil.
type Deps struct {
	Weather WeatherService
	Records RecordService
	DB      Pinger
	Metrics http.Handler
	Log     *zap.Logger
}

// NewApp builds the Fiber app with middleware, error handling and every route.
func NewApp(deps Deps, corsOrigins string) *fiber.App {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          errorHandler(deps.Log),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(requestLogger(deps.Log))
	app.Use(cors.New(cors.Config{AllowOrigins: corsOrigins}))

	RegisterRoutes(app, deps)
	return app
}
