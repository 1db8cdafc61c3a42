package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/locvowork/taskboard/internal/cache"
	"github.com/locvowork/taskboard/internal/config"
	"github.com/locvowork/taskboard/internal/database"
	"github.com/locvowork/taskboard/internal/domain"
	"github.com/locvowork/taskboard/internal/handler"
	"github.com/locvowork/taskboard/internal/identity"
	"github.com/locvowork/taskboard/internal/importer"
	"github.com/locvowork/taskboard/internal/logger"
	"github.com/locvowork/taskboard/internal/middleware"
	"github.com/locvowork/taskboard/internal/repository"
	"github.com/locvowork/taskboard/internal/search"
	"github.com/locvowork/taskboard/internal/service"
	"github.com/locvowork/taskboard/internal/validation"
	"github.com/locvowork/taskboard/pkg/googlecloud"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type App struct {
	Echo     *echo.Echo
	DB       *database.DB
	GCP      *googlecloud.Client
	Redis    *redis.Client
	Verifier *identity.JWTVerifier

	closers []io.Closer
	checks  map[string]handler.HealthCheck
}

func NewApp() *App {
	e := echo.New()
	e.HideBanner = true
	return &App{
		Echo:   e,
		checks: map[string]handler.HealthCheck{},
	}
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	cfg := config.DefaultEnvConfig

	logger.InitLoggingWithLevel(cfg.LOG_FILE_PATH, cfg.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	collectionRepo, taskRepo, err := a.initStorage(ctx)
	if err != nil {
		return err
	}

	var opts []service.Option
	if cfg.REDIS_ADDR != "" {
		a.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.REDIS_ADDR,
			Password: cfg.REDIS_PASSWORD,
			DB:       cfg.REDIS_DB,
		})
		a.closers = append(a.closers, a.Redis)
		boards := cache.NewBoardCache(a.Redis, cfg.BOARD_CACHE_TTL)
		a.checks["redis"] = boards.Ping
		opts = append(opts, service.WithBoardCache(boards))
		logger.InfoLog(ctx, "Board cache enabled at %s", cfg.REDIS_ADDR)
	}

	if cfg.ELASTICSEARCH_URL != "" {
		es, err := search.NewClient(cfg.ELASTICSEARCH_URL)
		if err != nil {
			return err
		}
		index := search.NewTaskIndex(es, cfg.ELASTICSEARCH_INDEX)
		if err := index.EnsureIndex(ctx); err != nil {
			// Search is optional; the board keeps working without it.
			logger.WarnLog(ctx, "Task search disabled: %v", err)
		} else {
			opts = append(opts, service.WithTaskIndex(index))
			logger.InfoLog(ctx, "Task search enabled on index %s", cfg.ELASTICSEARCH_INDEX)
		}
	}

	// Initialize dependencies
	users := identity.ContextResolver{}
	collectionSvc := service.NewCollectionService(collectionRepo, users, opts...)
	taskSvc := service.NewTaskService(taskRepo, users, opts...)
	validator := validation.New()
	a.Echo.Validator = validator

	collectionHandler := handler.NewCollectionHandler(collectionSvc, importer.New(collectionSvc, taskSvc, validator))
	taskHandler := handler.NewTaskHandler(taskSvc)
	healthHandler := handler.NewHealthHandler(a.checks)

	a.Verifier = identity.NewJWTVerifier(cfg.JWT_SECRET, cfg.JWT_ISSUER)

	a.RegisterMiddlewares(rate.Limit(cfg.RATE_LIMIT_RPS), cfg.RATE_LIMIT_BURST)
	a.RegisterRoutes(collectionHandler, taskHandler, healthHandler)

	return nil
}

// initStorage opens the backend selected by STORAGE_DRIVER.
func (a *App) initStorage(ctx context.Context) (domain.CollectionRepository, domain.TaskRepository, error) {
	cfg := config.DefaultEnvConfig

	switch cfg.STORAGE_DRIVER {
	case config.StorageDriverDatastore:
		var client *googlecloud.Client
		err := googlecloud.WithRetry(ctx, googlecloud.DefaultRetryConfig(), func() error {
			c, err := googlecloud.NewClient(ctx, cfg.GCP_PROJECT_ID)
			if err != nil {
				return err
			}
			if err := c.Ping(ctx); err != nil {
				c.Close()
				return err
			}
			client = c
			return nil
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize datastore: %w", err)
		}
		a.GCP = client
		a.closers = append(a.closers, client)
		a.checks["datastore"] = client.Ping
		return client.CollectionRepository(), client.TaskRepository(), nil

	case config.StorageDriverPostgres:
		dbConfig := database.Config{
			Host:            cfg.DB_HOST,
			Port:            cfg.DB_PORT,
			User:            cfg.DB_USER,
			Password:        cfg.DB_PASSWORD,
			DBName:          cfg.DB_NAME,
			SSLMode:         cfg.DB_SSL_MODE,
			MaxOpenConns:    cfg.DB_MAX_OPEN_CONNS,
			MaxIdleConns:    cfg.DB_MAX_IDLE_CONNS,
			ConnMaxLifetime: cfg.DB_CONN_MAX_LIFETIME,
		}
		db, err := database.NewPostgresDB(ctx, dbConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := database.RunMigrations(ctx, db, database.MigrationConfig{DatabaseURL: dbConfig.URL()}); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		a.useDB(db)

	default:
		db, err := database.NewSQLiteDB(ctx, cfg.SQLITE_PATH)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := database.RunMigrations(ctx, db, database.MigrationConfig{}); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		a.useDB(db)
	}

	logger.InfoLog(ctx, "Storage driver %s ready", cfg.STORAGE_DRIVER)
	return repository.NewCollectionRepository(a.DB), repository.NewTaskRepository(a.DB), nil
}

func (a *App) useDB(db *database.DB) {
	a.DB = db
	a.closers = append(a.closers, db)
	a.checks["database"] = db.Health
}

func (a *App) RegisterMiddlewares(limit rate.Limit, burst int) {
	a.Echo.Use(echomw.Recover())
	a.Echo.Use(middleware.RequestID())
	a.Echo.Use(middleware.RequestContext())
	a.Echo.Use(middleware.RequestLogger())
	a.Echo.Use(echomw.CORS())
	a.Echo.Use(middleware.Auth(a.Verifier))
	a.Echo.Use(middleware.RateLimiter(limit, burst))
}

func (a *App) RegisterRoutes(collectionHandler *handler.CollectionHandler, taskHandler *handler.TaskHandler, healthHandler *handler.HealthHandler) {
	a.Echo.GET("/healthz", healthHandler.HealthzHandler)

	api := a.Echo.Group("/api/v1")

	collections := api.Group("/collections")
	collections.GET("", collectionHandler.ListHandler)
	collections.POST("", collectionHandler.CreateHandler)
	collections.DELETE("/:id", collectionHandler.DeleteHandler)
	collections.POST("/import", collectionHandler.ImportHandler)
	collections.GET("/export", collectionHandler.ExportHandler)
	collections.POST("/reindex", collectionHandler.ReindexHandler)

	tasks := api.Group("/tasks")
	tasks.POST("", taskHandler.CreateHandler)
	tasks.PUT("/:id/done", taskHandler.SetDoneHandler)
	tasks.GET("/search", taskHandler.SearchHandler)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.InfoLog(ctx, "Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.Echo.Shutdown(shutdownCtx)
}

// Close releases storage, cache and Datastore connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			logger.WarnLog(context.Background(), "close: %v", err)
		}
	}
	a.closers = nil
}
