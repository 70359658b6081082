// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	authService "github.com/allisson/orchestrator/internal/auth/service"
	"github.com/allisson/orchestrator/internal/config"
	"github.com/allisson/orchestrator/internal/database"
	"github.com/allisson/orchestrator/internal/gateway"
	"github.com/allisson/orchestrator/internal/http"
	"github.com/allisson/orchestrator/internal/metrics"
	processDomain "github.com/allisson/orchestrator/internal/process/domain"
	processHTTP "github.com/allisson/orchestrator/internal/process/http"
	processUseCase "github.com/allisson/orchestrator/internal/process/usecase"
	queueHTTP "github.com/allisson/orchestrator/internal/queue/http"
	queueUseCase "github.com/allisson/orchestrator/internal/queue/usecase"
	rpaHTTP "github.com/allisson/orchestrator/internal/rpa/http"
	rpaService "github.com/allisson/orchestrator/internal/rpa/service"
	rpaUseCase "github.com/allisson/orchestrator/internal/rpa/usecase"
	"github.com/allisson/orchestrator/internal/workflow"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	sessionMetrics  metrics.SessionMetrics

	// Managers
	txManager database.TxManager

	// Services
	apiKeyService  authService.APIKeyService
	workflowEngine workflow.Engine
	providerClient rpaService.ProviderClient

	// Repositories
	queueRepository        queueUseCase.QueueRepository
	queueItemRepository    queueUseCase.QueueItemRepository
	rpaEventRepository     rpaUseCase.EventLogRepository
	processEventRepository processUseCase.EventLogRepository

	// Use Cases
	queueUseCase   queueUseCase.QueueUseCase
	rpaUseCase     rpaUseCase.RPAUseCase
	processUseCase processUseCase.ProcessUseCase

	// Process registry
	processRegistry *processDomain.Registry

	// Handlers
	queueHandler   *queueHTTP.QueueHandler
	rpaHandler     *rpaHTTP.RPAHandler
	processHandler *processHTTP.ProcessHandler
	workerGateway  *gateway.Gateway

	// Servers and Workers
	httpServer    *http.Server
	metricsServer *http.MetricsServer
	leaseReaper   *queueUseCase.LeaseReaper

	// Initialization flags and mutex for thread-safety
	mu                         sync.Mutex
	loggerInit                 sync.Once
	dbInit                     sync.Once
	metricsProviderInit        sync.Once
	businessMetricsInit        sync.Once
	sessionMetricsInit         sync.Once
	txManagerInit              sync.Once
	apiKeyServiceInit          sync.Once
	workflowEngineInit         sync.Once
	providerClientInit         sync.Once
	queueRepositoryInit        sync.Once
	queueItemRepositoryInit    sync.Once
	rpaEventRepositoryInit     sync.Once
	processEventRepositoryInit sync.Once
	queueUseCaseInit           sync.Once
	rpaUseCaseInit             sync.Once
	processUseCaseInit         sync.Once
	processRegistryInit        sync.Once
	queueHandlerInit           sync.Once
	rpaHandlerInit             sync.Once
	processHandlerInit         sync.Once
	workerGatewayInit          sync.Once
	httpServerInit             sync.Once
	metricsServerInit          sync.Once
	leaseReaperInit            sync.Once
	initErrors                 map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// once runs init the first time key is requested and remembers its error.
func (c *Container) once(o *sync.Once, key string, init func() error) error {
	o.Do(func() {
		if err := init(); err != nil {
			c.mu.Lock()
			c.initErrors[key] = err
			c.mu.Unlock()
		}
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErrors[key]
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	err := c.once(&c.dbInit, "db", func() error {
		var err error
		c.db, err = c.initDB()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	err := c.once(&c.txManagerInit, "txManager", func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for tx manager: %w", err)
		}
		c.txManager = database.NewTxManager(db)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.txManager, nil
}

// MetricsProvider returns the OpenTelemetry metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	err := c.once(&c.metricsProviderInit, "metricsProvider", func() error {
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			return fmt.Errorf("failed to create metrics provider: %w", err)
		}
		c.metricsProvider = provider
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder is returned when
// metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	err := c.once(&c.businessMetricsInit, "businessMetrics", func() error {
		provider, err := c.MetricsProvider()
		if err != nil {
			return err
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return nil
		}
		c.businessMetrics, err = metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			return fmt.Errorf("failed to create business metrics: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.businessMetrics, nil
}

// SessionMetrics returns the worker session metrics recorder.
func (c *Container) SessionMetrics() (metrics.SessionMetrics, error) {
	err := c.once(&c.sessionMetricsInit, "sessionMetrics", func() error {
		provider, err := c.MetricsProvider()
		if err != nil {
			return err
		}
		if provider == nil {
			c.sessionMetrics = metrics.NewNoOpSessionMetrics()
			return nil
		}
		c.sessionMetrics, err = metrics.NewSessionMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			return fmt.Errorf("failed to create session metrics: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.sessionMetrics, nil
}

// APIKeyService returns the operator API key service.
func (c *Container) APIKeyService() authService.APIKeyService {
	c.apiKeyServiceInit.Do(func() {
		c.apiKeyService = authService.NewAPIKeyService()
	})
	return c.apiKeyService
}

// HTTPServer returns the HTTP server with every route mounted.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	err := c.once(&c.httpServerInit, "httpServer", func() error {
		var err error
		c.httpServer, err = c.initHTTPServer(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	err := c.once(&c.metricsServerInit, "metricsServer", func() error {
		provider, err := c.MetricsProvider()
		if err != nil {
			return fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
		}
		c.metricsServer = http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initHTTPServer creates the HTTP server and mounts every handler.
func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	queueHandler, err := c.QueueHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get queue handler for http server: %w", err)
	}

	rpaHandler, err := c.RPAHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get rpa handler for http server: %w", err)
	}

	processHandler, err := c.ProcessHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get process handler for http server: %w", err)
	}

	workerGateway, err := c.WorkerGateway()
	if err != nil {
		return nil, fmt.Errorf("failed to get worker gateway for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(ctx, c.config, http.Handlers{
		Queue:   queueHandler,
		RPA:     rpaHandler,
		Process: processHandler,
		Gateway: workerGateway,
	}, c.APIKeyService(), metricsProvider)

	return server, nil
}
