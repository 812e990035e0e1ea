// Package http provides the retrieval gateway and the secret management
// endpoints.
package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	accessHTTP "github.com/allisson/secretgate/internal/access/http"
	auditDomain "github.com/allisson/secretgate/internal/audit/domain"
	auditUseCase "github.com/allisson/secretgate/internal/audit/usecase"
	cryptoDomain "github.com/allisson/secretgate/internal/crypto/domain"
	apperrors "github.com/allisson/secretgate/internal/errors"
	"github.com/allisson/secretgate/internal/httputil"
	"github.com/allisson/secretgate/internal/secrets/http/dto"
	secretsUseCase "github.com/allisson/secretgate/internal/secrets/usecase"
)

const (
	msgMissingSecretID   = "Missing secretId parameter"
	msgSecretNotFound    = "Secret not found"
	msgLookupTimedOut    = "Secret lookup timed out"
	msgDecryptionFailed  = "Failed to decrypt password."
	msgMethodNotAllowed  = "Method not allowed"
	failureKindNotFound  = "not_found"
	failureKindTimeout   = "timeout"
	failureKindDecrypt   = "decryption_failed"
	failureKindMalformed = "missing_parameter"
)

// SecretHandler handles HTTP requests for secret operations.
type SecretHandler struct {
	secretUseCase   secretsUseCase.SecretUseCase
	auditLogUseCase auditUseCase.AuditLogUseCase
	logger          *slog.Logger
}

// NewSecretHandler creates a new secret handler with required dependencies.
func NewSecretHandler(
	secretUseCase secretsUseCase.SecretUseCase,
	auditLogUseCase auditUseCase.AuditLogUseCase,
	logger *slog.Logger,
) *SecretHandler {
	return &SecretHandler{
		secretUseCase:   secretUseCase,
		auditLogUseCase: auditLogUseCase,
		logger:          logger,
	}
}

// DecryptHandler returns the plaintext of one secret.
// GET /api/decrypt-password?secretId=<id>
//
// The error bodies are a single "error" string and never carry the cause.
// Requires PrincipalMiddleware and a required PrivilegeMiddleware.
func (h *SecretHandler) DecryptHandler(c *gin.Context) {
	id := strings.TrimSpace(c.Query("secretId"))
	if id == "" {
		h.logger.Warn("secret retrieval rejected", slog.String("kind", failureKindMalformed))
		c.JSON(http.StatusBadRequest, dto.GatewayErrorResponse{Error: msgMissingSecretID})
		return
	}

	secret, err := h.secretUseCase.Retrieve(c.Request.Context(), id)
	if err != nil {
		status, kind, message := gatewayFailure(err)
		h.logger.Error("secret retrieval failed",
			slog.String("kind", kind),
			slog.String("secret_id", id))
		h.audit(c, auditDomain.ActionSecretRead, id, auditDomain.ResultFailure, map[string]any{"reason": kind})
		c.JSON(status, dto.GatewayErrorResponse{Error: message})
		return
	}
	defer cryptoDomain.Zero(secret.Plaintext)

	h.audit(c, auditDomain.ActionSecretRead, id, auditDomain.ResultSuccess, nil)
	c.JSON(http.StatusOK, dto.DecryptResponse{DecryptedValue: string(secret.Plaintext)})
}

// SecretIDMiddleware rejects a retrieval request without a secretId before
// any identity or privilege check runs.
func (h *SecretHandler) SecretIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(c.Query("secretId")) == "" {
			h.logger.Warn("secret retrieval rejected", slog.String("kind", failureKindMalformed))
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.GatewayErrorResponse{Error: msgMissingSecretID})
			return
		}
		c.Next()
	}
}

// MethodNotAllowedHandler answers every non-GET method on the retrieval path.
func (h *SecretHandler) MethodNotAllowedHandler(c *gin.Context) {
	c.Header("Allow", http.MethodGet)
	c.JSON(http.StatusMethodNotAllowed, dto.GatewayErrorResponse{Error: msgMethodNotAllowed})
}

// ListHandler lists secret metadata. Admins see every secret, everyone else
// only the ones whose visible_to contains them.
// GET /v1/secrets?offset=0&limit=50
func (h *SecretHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	ctx := c.Request.Context()
	principal, _ := accessHTTP.GetPrincipal(ctx)

	secrets, err := h.secretUseCase.List(ctx, principal, accessHTTP.IsPrivileged(ctx), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSecretsToListResponse(secrets))
}

// CreateHandler stores a new secret under a generated identifier.
// POST /v1/secrets
func (h *SecretHandler) CreateHandler(c *gin.Context) {
	var req dto.SecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	input := req.ToInput()
	defer cryptoDomain.Zero(input.Value)

	secret, err := h.secretUseCase.Create(c.Request.Context(), input)
	if err != nil {
		h.audit(c, auditDomain.ActionSecretCreate, "", auditDomain.ResultFailure, nil)
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.audit(c, auditDomain.ActionSecretCreate, secret.ID, auditDomain.ResultSuccess, map[string]any{"name": secret.Name})
	c.JSON(http.StatusCreated, dto.MapSecretToResponse(secret))
}

// PutHandler stores a secret under a caller chosen identifier, replacing any
// existing value.
// PUT /v1/secrets/:id
func (h *SecretHandler) PutHandler(c *gin.Context) {
	id := c.Param("id")
	if err := dto.ValidateSecretID(id); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.SecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	input := req.ToInput()
	defer cryptoDomain.Zero(input.Value)

	secret, err := h.secretUseCase.Put(c.Request.Context(), id, input)
	if err != nil {
		h.audit(c, auditDomain.ActionSecretUpdate, id, auditDomain.ResultFailure, nil)
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.audit(c, auditDomain.ActionSecretUpdate, id, auditDomain.ResultSuccess, map[string]any{"name": secret.Name})
	c.JSON(http.StatusOK, dto.MapSecretToResponse(secret))
}

// DeleteHandler removes a secret.
// DELETE /v1/secrets/:id
func (h *SecretHandler) DeleteHandler(c *gin.Context) {
	id := c.Param("id")
	if err := dto.ValidateSecretID(id); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.secretUseCase.Delete(c.Request.Context(), id); err != nil {
		h.audit(c, auditDomain.ActionSecretDelete, id, auditDomain.ResultFailure, nil)
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.audit(c, auditDomain.ActionSecretDelete, id, auditDomain.ResultSuccess, nil)
	c.Status(http.StatusNoContent)
}

// audit records an entry. A failed write is logged and does not change the response.
func (h *SecretHandler) audit(
	c *gin.Context,
	action auditDomain.Action,
	resourceID string,
	result auditDomain.Result,
	metadata map[string]any,
) {
	ctx := c.Request.Context()
	principal, _ := accessHTTP.GetPrincipal(ctx)

	if err := h.auditLogUseCase.Create(
		ctx,
		requestid.Get(c),
		principal,
		action,
		resourceID,
		result,
		metadata,
	); err != nil {
		h.logger.Error("failed to record audit log",
			slog.String("action", string(action)),
			slog.Any("error", err))
	}
}

// gatewayFailure maps a retrieval error onto status, log kind and body message.
// Anything unexpected, decryption failures included, is a 500.
func gatewayFailure(err error) (int, string, string) {
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest, failureKindMalformed, msgMissingSecretID
	case apperrors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, failureKindNotFound, msgSecretNotFound
	case apperrors.Is(err, apperrors.ErrTimeout):
		return http.StatusGatewayTimeout, failureKindTimeout, msgLookupTimedOut
	default:
		return http.StatusInternalServerError, failureKindDecrypt, msgDecryptionFailed
	}
}
