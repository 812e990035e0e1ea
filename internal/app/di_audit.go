package app

import (
	"fmt"

	auditHTTP "github.com/allisson/secretgate/internal/audit/http"
	auditRepository "github.com/allisson/secretgate/internal/audit/repository"
	auditUseCase "github.com/allisson/secretgate/internal/audit/usecase"
)

type auditComponents struct {
	auditLogRepository lazy[auditUseCase.AuditLogRepository]
	auditLogUseCase    lazy[auditUseCase.AuditLogUseCase]
	auditLogHandler    lazy[*auditHTTP.AuditLogHandler]
}

// AuditLogRepository returns the audit trail store selected by DB_DRIVER.
func (c *Container) AuditLogRepository() (auditUseCase.AuditLogRepository, error) {
	return c.auditLogRepository.get(func() (auditUseCase.AuditLogRepository, error) {
		if c.config.DBDriver == DriverMongoDB {
			db, err := c.MongoDatabase()
			if err != nil {
				return nil, fmt.Errorf("failed to get mongodb for audit log repository: %w", err)
			}
			return auditRepository.NewMongoDBAuditLogRepository(db), nil
		}

		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for audit log repository: %w", err)
		}
		if c.config.DBDriver == DriverMySQL {
			return auditRepository.NewMySQLAuditLogRepository(db), nil
		}
		return auditRepository.NewPostgreSQLAuditLogRepository(db), nil
	})
}

// AuditLogUseCase returns the signed audit trail use case.
func (c *Container) AuditLogUseCase() (auditUseCase.AuditLogUseCase, error) {
	return c.auditLogUseCase.get(func() (auditUseCase.AuditLogUseCase, error) {
		repo, err := c.AuditLogRepository()
		if err != nil {
			return nil, err
		}
		signer, err := c.AuditSigner()
		if err != nil {
			return nil, fmt.Errorf("failed to get audit signer: %w", err)
		}
		return auditUseCase.NewAuditLogUseCase(repo, signer), nil
	})
}

// AuditLogHandler returns the HTTP handler for /v1/audit-logs.
func (c *Container) AuditLogHandler() (*auditHTTP.AuditLogHandler, error) {
	return c.auditLogHandler.get(func() (*auditHTTP.AuditLogHandler, error) {
		useCase, err := c.AuditLogUseCase()
		if err != nil {
			return nil, err
		}
		return auditHTTP.NewAuditLogHandler(useCase, c.Logger()), nil
	})
}
