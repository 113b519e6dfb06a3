package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sdejesus/pos_register_app/internal/core/services"
	"github.com/sdejesus/pos_register_app/internal/handlers"
	"github.com/sdejesus/pos_register_app/internal/journal"
	"github.com/sdejesus/pos_register_app/internal/middleware"
	"github.com/sdejesus/pos_register_app/internal/platform/config"
	"github.com/sdejesus/pos_register_app/internal/repositories/database/pgsql"
	"github.com/sdejesus/pos_register_app/internal/utils/pricebook"
	"github.com/sdejesus/pos_register_app/pkg/database"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)

	// Seed the product catalog from the pricebook file when configured.
	if cfg.PricebookPath != "" {
		products, err := pricebook.ParseFile(cfg.PricebookPath)
		if err != nil {
			logger.Error("Failed to parse pricebook", slog.String("path", cfg.PricebookPath), slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := repos.ProductRepo.ReplacePricebook(context.Background(), products); err != nil {
			logger.Error("Failed to load pricebook", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Pricebook loaded", slog.Int("products", len(products)))
	}

	auditJournal, err := journal.New(journal.Config{
		Path: cfg.JournalPath,
		Socket: journal.SocketConfig{
			Host:           cfg.VJServerHost,
			Port:           cfg.VJServerPort,
			ConnectTimeout: cfg.VJConnectTimeout,
			ReadTimeout:    cfg.VJReadTimeout,
			RetryAttempts:  cfg.VJRetryAttempts,
			RetryDelay:     cfg.VJRetryDelay,
			Enabled:        cfg.VJEnabled,
		},
	}, logger)
	if err != nil {
		logger.Error("Failed to open journal", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if cerr := auditJournal.Close(); cerr != nil {
			logger.Error("Error closing journal", slog.String("error", cerr.Error()))
		}
	}()

	container := services.NewServiceContainer(cfg, repos, auditJournal)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Global rate limit keyed by client IP
	rate, _ := limiter.NewRateFromFormatted("100-M")
	r.Use(middleware.RateLimit(limiter.New(memory.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations from the migrations
// directory over a temporary database/sql connection.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
