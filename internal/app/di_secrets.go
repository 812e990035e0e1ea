package app

import (
	"fmt"

	secretsHTTP "github.com/allisson/secretgate/internal/secrets/http"
	secretsRepository "github.com/allisson/secretgate/internal/secrets/repository"
	secretsUseCase "github.com/allisson/secretgate/internal/secrets/usecase"
)

type secretsComponents struct {
	secretRepository lazy[secretsUseCase.SecretRepository]
	secretUseCase    lazy[secretsUseCase.SecretUseCase]
	secretHandler    lazy[*secretsHTTP.SecretHandler]
}

// SecretRepository returns the record store selected by DB_DRIVER.
func (c *Container) SecretRepository() (secretsUseCase.SecretRepository, error) {
	return c.secretRepository.get(func() (secretsUseCase.SecretRepository, error) {
		if c.config.DBDriver == DriverMongoDB {
			db, err := c.MongoDatabase()
			if err != nil {
				return nil, fmt.Errorf("failed to get mongodb for secret repository: %w", err)
			}
			return secretsRepository.NewMongoDBSecretRepository(db), nil
		}

		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for secret repository: %w", err)
		}
		switch c.config.DBDriver {
		case DriverMySQL:
			return secretsRepository.NewMySQLSecretRepository(db), nil
		default:
			return secretsRepository.NewPostgreSQLSecretRepository(db), nil
		}
	})
}

// SecretUseCase returns the secret use case, instrumented when metrics are enabled.
func (c *Container) SecretUseCase() (secretsUseCase.SecretUseCase, error) {
	return c.secretUseCase.get(func() (secretsUseCase.SecretUseCase, error) {
		repo, err := c.SecretRepository()
		if err != nil {
			return nil, err
		}
		cipher, err := c.CipherEngine()
		if err != nil {
			return nil, fmt.Errorf("failed to get cipher engine for secret use case: %w", err)
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, err
		}

		useCase := secretsUseCase.NewSecretUseCase(repo, cipher, c.config.StoreTimeout, c.config.RewrapConcurrency)
		return secretsUseCase.NewSecretUseCaseWithMetrics(useCase, businessMetrics), nil
	})
}

// SecretHandler returns the HTTP handler for the retrieval gateway and /v1/secrets.
func (c *Container) SecretHandler() (*secretsHTTP.SecretHandler, error) {
	return c.secretHandler.get(func() (*secretsHTTP.SecretHandler, error) {
		useCase, err := c.SecretUseCase()
		if err != nil {
			return nil, err
		}
		auditLogUseCase, err := c.AuditLogUseCase()
		if err != nil {
			return nil, err
		}
		return secretsHTTP.NewSecretHandler(useCase, auditLogUseCase, c.Logger()), nil
	})
}
