package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jackc/pgx/v5/stdlib"

	"lodging-service/internal/api"
	"lodging-service/internal/config"
	"lodging-service/internal/events"
	"lodging-service/internal/jwt"
	"lodging-service/internal/repository"
	"lodging-service/internal/s3"
	"lodging-service/internal/service"
	"lodging-service/internal/tracing"
	_ "lodging-service/migrations"
)

const (
	serviceName     = "lodging-service"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	api.SetupGlobalHandler(serviceName, cfg.IsProduction())

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		handleMigrations(cfg.DatabaseURL)
		return
	}

	shutdownTracer, err := tracing.InitTracerProvider(context.Background(), serviceName, cfg.OtelEndpoint, cfg.OtelEnabled)
	if err != nil {
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	db := connectDB(cfg.DatabaseURL)
	defer db.Close()

	var eventPublisher events.EventPublisher = events.NopPublisher{}
	natsPublisher, nc, err := events.NewNatsPublisher(cfg.NatsURL)
	if err != nil {
		slog.Warn("NATS unavailable, domain events will be dropped", slog.String("url", cfg.NatsURL), slog.String("error", err.Error()))
	} else {
		defer nc.Drain()
		eventPublisher = natsPublisher
		slog.Info("Successfully connected to NATS.")
	}

	var presigner service.UploadPresigner
	if cfg.S3.Enabled() {
		imagePresigner, err := s3.NewImagePresigner(context.Background(), cfg.S3)
		if err != nil {
			log.Fatalf("Failed to configure S3 presigner: %v", err)
		}
		presigner = imagePresigner
	} else {
		slog.Warn("S3 is not configured, image upload URLs are disabled")
	}

	tokenIssuer := jwt.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiresIn)

	userRepo := repository.NewPostgresUserRepository(db)
	spotRepo := repository.NewPostgresSpotRepository(db)
	spotImageRepo := repository.NewPostgresSpotImageRepository(db)
	reviewRepo := repository.NewPostgresReviewRepository(db)
	reviewImageRepo := repository.NewPostgresReviewImageRepository(db)

	authService := service.NewAuthService(userRepo, tokenIssuer)
	spotService := service.NewSpotService(spotRepo, spotImageRepo, reviewRepo, eventPublisher, presigner)
	reviewService := service.NewReviewService(reviewRepo, reviewImageRepo, spotRepo, spotImageRepo, eventPublisher, presigner)

	cookie := api.SessionCookie{Secure: cfg.IsProduction(), MaxAge: tokenIssuer.ExpiresIn()}

	app := fiber.New(fiber.Config{ErrorHandler: api.ErrorHandler})
	app.Use(otelfiber.Middleware())
	app.Use(api.PrometheusMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "service": serviceName})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": serviceName})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api.SetupRoutes(app, api.Handlers{
		Auth:    api.NewAuthHandler(authService, cookie),
		Spots:   api.NewSpotHandler(spotService),
		Reviews: api.NewReviewHandler(reviewService),
	}, api.RouterConfig{
		Tokens:              tokenIssuer,
		Cookie:              cookie,
		RateLimitMax:        cfg.RateLimitMax,
		RateLimitExpiration: cfg.RateLimitExpiration,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	slog.Info("Listening", slog.String("service", serviceName), slog.String("port", cfg.Port))
	if err := serve(app, ":"+cfg.Port, quit); err != nil {
		slog.Error("Server stopped", slog.String("error", err.Error()))
	}
}

// serve runs the app until it fails or quit fires, then drains in-flight requests.
func serve(app *fiber.App, addr string, quit <-chan os.Signal) error {
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		return err
	case <-quit:
		slog.Info("Shutting down server...")
		return app.ShutdownWithTimeout(shutdownTimeout)
	}
}

func connectDB(dbURL string) *sqlx.DB {
	db, err := sqlx.Connect("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	slog.Info("Successfully connected to the database.")
	return db
}

func handleMigrations(dbURL string) {
	fmt.Println("Running database migrations...")

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("failed to connect to database for migration: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set goose dialect: %v", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("goose: failed to run migrations: %v", err)
	}

	fmt.Println("Migrations applied successfully!")
}
