package http

import (
	"log/slog"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	accessDomain "github.com/allisson/secretgate/internal/access/domain"
	accessUseCase "github.com/allisson/secretgate/internal/access/usecase"
	auditDomain "github.com/allisson/secretgate/internal/audit/domain"
	auditUseCase "github.com/allisson/secretgate/internal/audit/usecase"
	"github.com/allisson/secretgate/internal/httputil"
)

// PrincipalMiddleware reads the identity asserted by the upstream identity
// proxy from header and stores it in the request context.
//
// Returns 401 Unauthorized when the header is absent or blank.
func PrincipalMiddleware(header string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := strings.TrimSpace(c.GetHeader(header))
		if principal == "" {
			logger.Debug("request without principal", slog.String("path", c.FullPath()))
			httputil.HandleErrorGin(c, accessDomain.ErrMissingPrincipal, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

// PrivilegeMiddleware resolves the admin flag of the principal once per request.
//
// With required set, non-admins get 403 Forbidden and an
// access.permission_denied audit entry. Without it the flag is only stored
// in the context for handlers that filter by it. A checker failure is a 500.
//
// MUST be used after PrincipalMiddleware.
func PrivilegeMiddleware(
	checker accessUseCase.PrivilegeChecker,
	auditLogUseCase auditUseCase.AuditLogUseCase,
	required bool,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		principal, ok := GetPrincipal(ctx)
		if !ok {
			logger.Error("privilege middleware: no principal in context")
			httputil.HandleErrorGin(c, accessDomain.ErrMissingPrincipal, logger)
			c.Abort()
			return
		}

		privileged, err := checker.IsPrivileged(ctx, principal)
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		if required && !privileged {
			logger.Info("permission denied",
				slog.String("principal", principal),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path))

			if err := auditLogUseCase.Create(
				ctx,
				requestid.Get(c),
				principal,
				auditDomain.ActionPermissionDenied,
				c.Request.URL.Path,
				auditDomain.ResultFailure,
				map[string]any{"method": c.Request.Method},
			); err != nil {
				logger.Error("failed to record audit log", slog.Any("error", err))
			}

			httputil.HandleErrorGin(c, accessDomain.ErrNotPrivileged, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithPrivileged(ctx, privileged))
		c.Next()
	}
}
