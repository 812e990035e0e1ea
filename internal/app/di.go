// Package app wires the application components together. Every component is
// built on first access and memoized, so commands only pay for what they use.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/allisson/secretgate/internal/config"
	"github.com/allisson/secretgate/internal/database"
	"github.com/allisson/secretgate/internal/http"
	"github.com/allisson/secretgate/internal/metrics"
)

// Supported DB_DRIVER values.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMongoDB  = "mongodb"
)

// startupTimeout bounds connection and key loading work done during initialization.
const startupTimeout = 30 * time.Second

// lazy memoizes one component together with its construction error.
type lazy[T any] struct {
	once  sync.Once
	ready atomic.Bool
	value T
	err   error
}

func (l *lazy[T]) get(build func() (T, error)) (T, error) {
	l.once.Do(func() {
		l.value, l.err = build()
		l.ready.Store(l.err == nil)
	})
	return l.value, l.err
}

// peek returns the value only when it was built successfully.
func (l *lazy[T]) peek() (T, bool) {
	if !l.ready.Load() {
		var zero T
		return zero, false
	}
	return l.value, true
}

// Container holds all application dependencies.
type Container struct {
	config *config.Config

	logger          lazy[*slog.Logger]
	sqlDB           lazy[*sql.DB]
	mongoDB         lazy[*mongo.Database]
	txManager       lazy[database.TxManager]
	metricsProvider lazy[*metrics.Provider]
	businessMetrics lazy[metrics.BusinessMetrics]
	httpServer      lazy[*http.Server]
	metricsServer   lazy[*http.MetricsServer]

	cryptoComponents
	secretsComponents
	accessComponents
	auditComponents

	shutdownMu sync.Mutex
}

// NewContainer creates a container for cfg.
func NewContainer(cfg *config.Config) *Container {
	return &Container{config: cfg}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the JSON logger at LOG_LEVEL.
func (c *Container) Logger() *slog.Logger {
	logger, _ := c.logger.get(func() (*slog.Logger, error) {
		return newLogger(c.config.LogLevel), nil
	})
	return logger
}

func newLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case config.LogLevelDebug:
		logLevel = slog.LevelDebug
	case config.LogLevelWarn:
		logLevel = slog.LevelWarn
	case config.LogLevelError:
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// DB returns the SQL connection pool. It fails for the mongodb driver.
func (c *Container) DB() (*sql.DB, error) {
	return c.sqlDB.get(func() (*sql.DB, error) {
		switch c.config.DBDriver {
		case DriverPostgres, DriverMySQL:
		default:
			return nil, fmt.Errorf("no sql database for driver %q", c.config.DBDriver)
		}

		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()

		db, err := database.Connect(ctx, database.Config{
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
	})
}

// MongoDatabase returns the MongoDB database. It fails for the SQL drivers.
func (c *Container) MongoDatabase() (*mongo.Database, error) {
	return c.mongoDB.get(func() (*mongo.Database, error) {
		if c.config.DBDriver != DriverMongoDB {
			return nil, fmt.Errorf("no mongodb database for driver %q", c.config.DBDriver)
		}

		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()

		db, err := database.ConnectMongo(ctx, database.MongoConfig{
			URI:           c.config.DBConnectionString,
			Database:      c.config.MongoDBDatabase,
			MaxPoolSize:   uint64(max(c.config.DBMaxOpenConnections, 0)),
			RetryAttempts: 3,
			RetryInterval: 2 * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		return db, nil
	})
}

// TxManager returns the transaction manager. MongoDB writes are single
// document, so the mongodb driver gets a pass-through manager.
func (c *Container) TxManager() (database.TxManager, error) {
	return c.txManager.get(func() (database.TxManager, error) {
		if c.config.DBDriver == DriverMongoDB {
			return database.NewNoopTxManager(), nil
		}
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
		}
		return database.NewTxManager(db), nil
	})
}

// ReadinessCheck pings whichever store DB_DRIVER selects.
func (c *Container) ReadinessCheck() (http.ReadinessCheck, error) {
	if c.config.DBDriver == DriverMongoDB {
		db, err := c.MongoDatabase()
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) error { return database.PingMongo(ctx, db) }, nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, err
	}
	return db.PingContext, nil
}

// MetricsProvider returns the metrics provider, or nil when METRICS_ENABLED is false.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	return c.metricsProvider.get(func() (*metrics.Provider, error) {
		if !c.config.MetricsEnabled {
			return nil, nil
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics provider: %w", err)
		}
		return provider, nil
	})
}

// BusinessMetrics returns the use case metrics recorder. It discards
// everything when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	return c.businessMetrics.get(func() (metrics.BusinessMetrics, error) {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, err
		}
		if provider == nil {
			return metrics.NewNoOpBusinessMetrics(), nil
		}
		return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	})
}

// HTTPServer returns the API server with every route registered. ctx bounds
// background work started by the router and is only read on the first call.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	return c.httpServer.get(func() (*http.Server, error) {
		ready, err := c.ReadinessCheck()
		if err != nil {
			return nil, err
		}
		secretHandler, err := c.SecretHandler()
		if err != nil {
			return nil, fmt.Errorf("failed to get secret handler for http server: %w", err)
		}
		auditLogHandler, err := c.AuditLogHandler()
		if err != nil {
			return nil, fmt.Errorf("failed to get audit log handler for http server: %w", err)
		}
		adminUseCase, err := c.AdminUseCase()
		if err != nil {
			return nil, fmt.Errorf("failed to get admin use case for http server: %w", err)
		}
		auditLogUseCase, err := c.AuditLogUseCase()
		if err != nil {
			return nil, fmt.Errorf("failed to get audit log use case for http server: %w", err)
		}
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, err
		}

		server := http.NewServer(ready, c.config.ServerHost, c.config.ServerPort, c.Logger())
		server.SetupRouter(ctx, c.config, http.RouterDependencies{
			SecretHandler:    secretHandler,
			AuditLogHandler:  auditLogHandler,
			PrivilegeChecker: adminUseCase,
			AuditLogUseCase:  auditLogUseCase,
			MetricsProvider:  provider,
		})
		return server, nil
	})
}

// MetricsServer returns the scrape server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	return c.metricsServer.get(func() (*http.MetricsServer, error) {
		provider, err := c.MetricsProvider()
		if err != nil || provider == nil {
			return nil, err
		}
		return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
	})
}

// Shutdown releases everything that was built. It is safe to call on a
// container where nothing was initialized.
func (c *Container) Shutdown(ctx context.Context) error {
	c.shutdownMu.Lock()
	defer c.shutdownMu.Unlock()

	var errs []error

	if server, ok := c.httpServer.peek(); ok {
		if err := server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
	}
	if server, ok := c.metricsServer.peek(); ok && server != nil {
		if err := server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}
	if provider, ok := c.metricsProvider.peek(); ok && provider != nil {
		if err := provider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}
	if db, ok := c.sqlDB.peek(); ok {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}
	if db, ok := c.mongoDB.peek(); ok {
		if err := db.Client().Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mongodb disconnect: %w", err))
		}
	}

	c.closeKeys()

	return errors.Join(errs...)
}
