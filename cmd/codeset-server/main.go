package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/codeset/codeset/internal/config"
	"github.com/codeset/codeset/internal/domain/codeset"
	"github.com/codeset/codeset/internal/domain/hierarchy"
	"github.com/codeset/codeset/internal/domain/savedset"
	"github.com/codeset/codeset/internal/domain/search"
	"github.com/codeset/codeset/internal/platform/assistant"
	"github.com/codeset/codeset/internal/platform/auth"
	"github.com/codeset/codeset/internal/platform/cache"
	"github.com/codeset/codeset/internal/platform/db"
	"github.com/codeset/codeset/internal/platform/middleware"
	"github.com/codeset/codeset/internal/platform/umls"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "codeset-server",
		Short: "Medical code set builder API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the code set API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Cache: Redis when configured, otherwise builds are uncached and UMLS
	// tickets are held in process memory.
	var buildCache cache.Cache = cache.Noop{}
	var ticketCache cache.Cache = cache.NewMemory()
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedis(ctx, cfg.RedisURL, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		buildCache = redisCache
		ticketCache = redisCache
		logger.Info().Msg("connected to redis")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RequestTimeout(cfg.Timeout()))

	// API group with rate limiting
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Vocabulary search and code set building (public)
	searchSvc := search.NewService(search.NewRepoPG(pool))
	search.NewHandler(searchSvc).RegisterRoutes(apiV1)

	hierarchySvc := hierarchy.NewService(hierarchy.NewRepoPG(pool))
	hierarchy.NewHandler(hierarchySvc).RegisterRoutes(apiV1)

	codesetSvc := codeset.NewService(codeset.NewRepoPG(pool), buildCache, logger)
	codeset.NewHandler(codesetSvc).RegisterRoutes(apiV1)

	// Authenticated routes: saved sets, UMLS proxy, assistant
	authed := apiV1.Group("")
	if cfg.IsDev() {
		authed.Use(auth.DevAuthMiddleware())
	} else {
		authed.Use(auth.JWTMiddleware(auth.JWTConfig{
			SigningKey: []byte(cfg.JWTSecret),
			Issuer:     cfg.JWTIssuer,
			Audience:   cfg.JWTAudience,
		}))
	}

	savedSvc := savedset.NewService(savedset.NewRepoPG(pool), codesetSvc, logger)
	savedset.NewHandler(savedSvc).RegisterRoutes(authed)

	umlsClient := umls.NewClient(cfg.UMLSAPIKey, ticketCache, logger)
	umls.NewHandler(umlsClient).RegisterRoutes(authed)
	if !umlsClient.Configured() {
		logger.Warn().Msg("UMLS_API_KEY not set; UMLS search disabled")
	}

	assistantSvc := assistant.NewService(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
	assistant.NewHandler(assistantSvc).RegisterRoutes(authed)
	if cfg.OpenAIAPIKey == "" {
		logger.Warn().Msg("OPENAI_API_KEY not set; assistant disabled")
	}

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
