// Package dto provides data transfer objects for the audit log API.
package dto

import (
	"time"

	auditDomain "github.com/allisson/secretgate/internal/audit/domain"
)

// AuditLogResponse represents an audit log entry in API responses.
type AuditLogResponse struct {
	ID             string         `json:"id"`
	RequestID      string         `json:"request_id"`
	Principal      string         `json:"principal"`
	Action         string         `json:"action"`
	ResourceID     string         `json:"resource_id"`
	Result         string         `json:"result"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	Signed         bool           `json:"signed"`
	SignatureValid bool           `json:"signature_valid"`
	CreatedAt      time.Time      `json:"created_at"`
}

// MapAuditLogToResponse converts a domain audit log to an API response.
func MapAuditLogToResponse(auditLog *auditDomain.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:             auditLog.ID.String(),
		RequestID:      auditLog.RequestID,
		Principal:      auditLog.Principal,
		Action:         string(auditLog.Action),
		ResourceID:     auditLog.ResourceID,
		Result:         string(auditLog.Result),
		Metadata:       auditLog.Metadata,
		Signed:         auditLog.IsSigned(),
		SignatureValid: auditLog.SignatureValid,
		CreatedAt:      auditLog.CreatedAt,
	}
}

// ListAuditLogsResponse represents a paginated list of audit logs.
type ListAuditLogsResponse struct {
	Data []AuditLogResponse `json:"data"`
}

// MapAuditLogsToListResponse converts domain audit logs to a list response.
func MapAuditLogsToListResponse(auditLogs []*auditDomain.AuditLog) ListAuditLogsResponse {
	data := make([]AuditLogResponse, 0, len(auditLogs))
	for _, auditLog := range auditLogs {
		data = append(data, MapAuditLogToResponse(auditLog))
	}
	return ListAuditLogsResponse{Data: data}
}
