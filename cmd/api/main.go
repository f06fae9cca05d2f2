package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"signapi/internal/config"
	"signapi/internal/database"
	"signapi/internal/database/migration"
	handlers "signapi/internal/http/handler"
	"signapi/internal/http/middleware"
	"signapi/internal/otel"
	"signapi/internal/pdf"
	"signapi/internal/repository/postgres"
	"signapi/internal/service"
	"signapi/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC

	// Initialize tracing (no-op when OTEL_SDK_DISABLED=true)
	shutdownTracing, err := otel.Init(context.Background(), loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(context.Background(), db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Initialize repositories, compositing engine and services
	docRepo := postgres.NewDocumentPostgres(db)
	placementRepo := postgres.NewPlacementPostgres(db)
	activityRepo := postgres.NewActivityPostgres(db)

	engine := pdf.NewEngine(objStore, pdf.Options{
		ImageScale:   cfg.Sign.ImageScale,
		FontSize:     cfg.Sign.FontSize,
		TextColor:    cfg.Sign.TextColor,
		DefaultColor: cfg.Sign.DefaultColor,
		DefaultText:  cfg.Sign.DefaultText,
	})

	docSvc := service.NewDocumentService(objStore, docRepo)
	placementSvc := service.NewPlacementService(objStore, docRepo, placementRepo, activityRepo, engine)
	activitySvc := service.NewActivityService(activityRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	reg := prometheus.NewRegistry()
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, docSvc, placementSvc, activitySvc, middleware.Auth(cfg.Auth.JWTSecret))

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
