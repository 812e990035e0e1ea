// Package http assembles the gin router that serves the retrieval gateway and
// the management API, and runs it next to the metrics server.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accessHTTP "github.com/allisson/secretgate/internal/access/http"
	accessUseCase "github.com/allisson/secretgate/internal/access/usecase"
	auditHTTP "github.com/allisson/secretgate/internal/audit/http"
	auditUseCase "github.com/allisson/secretgate/internal/audit/usecase"
	"github.com/allisson/secretgate/internal/config"
	"github.com/allisson/secretgate/internal/metrics"
	secretsHTTP "github.com/allisson/secretgate/internal/secrets/http"
)

// ReadinessCheck pings the record store.
type ReadinessCheck func(ctx context.Context) error

// Server is the API server.
type Server struct {
	ready  ReadinessCheck
	router *gin.Engine
	server *http.Server
	logger *slog.Logger
}

// NewServer creates the API server. SetupRouter must be called before Start.
func NewServer(ready ReadinessCheck, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		ready:  ready,
		logger: logger,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// RouterDependencies groups what SetupRouter wires into the routes.
type RouterDependencies struct {
	SecretHandler    *secretsHTTP.SecretHandler
	AuditLogHandler  *auditHTTP.AuditLogHandler
	PrivilegeChecker accessUseCase.PrivilegeChecker
	AuditLogUseCase  auditUseCase.AuditLogUseCase
	// MetricsProvider is nil when metrics are disabled.
	MetricsProvider *metrics.Provider
}

// SetupRouter registers every route. ctx bounds the background work of the
// rate limiter and should live as long as the server.
//
//	GET  /health, /ready
//	GET  /api/decrypt-password           secretId, principal, rate limit, admin
//	*    /api/decrypt-password           405, HEAD and OPTIONS included
//	GET  /v1/secrets                     principal, rate limit
//	POST /v1/secrets                     principal, rate limit, admin
//	PUT, DELETE /v1/secrets/:id          principal, rate limit, admin
//	GET  /v1/audit-logs                  principal, rate limit, admin
func (s *Server) SetupRouter(ctx context.Context, cfg *config.Config, deps RouterDependencies) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if deps.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(deps.MetricsProvider.MeterProvider(), cfg.MetricsNamespace, s.logger))
	}
	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, cfg.AuthPrincipalHeader, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	authenticated := []gin.HandlerFunc{accessHTTP.PrincipalMiddleware(cfg.AuthPrincipalHeader, s.logger)}
	if cfg.RateLimitEnabled {
		authenticated = append(authenticated,
			accessHTTP.RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}
	requireAdmin := accessHTTP.PrivilegeMiddleware(deps.PrivilegeChecker, deps.AuditLogUseCase, true, s.logger)
	resolveAdmin := accessHTTP.PrivilegeMiddleware(deps.PrivilegeChecker, deps.AuditLogUseCase, false, s.logger)

	secretHandler := deps.SecretHandler

	// Other methods are refused before any identity check.
	gateway := router.Group("/api")
	gatewayGet := append([]gin.HandlerFunc{secretHandler.SecretIDMiddleware()}, authenticated...)
	gateway.GET("/decrypt-password", chain(gatewayGet, requireAdmin, secretHandler.DecryptHandler)...)
	for _, method := range []string{
		http.MethodHead,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodOptions,
	} {
		gateway.Handle(method, "/decrypt-password", secretHandler.MethodNotAllowedHandler)
	}

	v1 := router.Group("/v1", authenticated...)
	{
		secrets := v1.Group("/secrets")
		secrets.GET("", resolveAdmin, secretHandler.ListHandler)
		secrets.POST("", requireAdmin, secretHandler.CreateHandler)
		secrets.PUT("/:id", requireAdmin, secretHandler.PutHandler)
		secrets.DELETE("/:id", requireAdmin, secretHandler.DeleteHandler)

		v1.GET("/audit-logs", requireAdmin, deps.AuditLogHandler.ListHandler)
	}

	s.router = router
}

func chain(prefix []gin.HandlerFunc, handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(prefix)+len(handlers))
	out = append(out, prefix...)
	return append(out, handlers...)
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("router not configured: call SetupRouter first")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
