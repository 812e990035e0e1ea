package app

import (
	"fmt"

	accessRepository "github.com/allisson/secretgate/internal/access/repository"
	accessUseCase "github.com/allisson/secretgate/internal/access/usecase"
)

type accessComponents struct {
	adminRepository lazy[accessUseCase.AdminRepository]
	adminUseCase    lazy[accessUseCase.AdminUseCase]
}

// AdminRepository returns the admin grant store selected by DB_DRIVER.
func (c *Container) AdminRepository() (accessUseCase.AdminRepository, error) {
	return c.adminRepository.get(func() (accessUseCase.AdminRepository, error) {
		if c.config.DBDriver == DriverMongoDB {
			db, err := c.MongoDatabase()
			if err != nil {
				return nil, fmt.Errorf("failed to get mongodb for admin repository: %w", err)
			}
			return accessRepository.NewMongoDBAdminRepository(db), nil
		}

		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for admin repository: %w", err)
		}
		if c.config.DBDriver == DriverMySQL {
			return accessRepository.NewMySQLAdminRepository(db), nil
		}
		return accessRepository.NewPostgreSQLAdminRepository(db), nil
	})
}

// AdminUseCase returns the capability provider.
func (c *Container) AdminUseCase() (accessUseCase.AdminUseCase, error) {
	return c.adminUseCase.get(func() (accessUseCase.AdminUseCase, error) {
		txManager, err := c.TxManager()
		if err != nil {
			return nil, err
		}
		repo, err := c.AdminRepository()
		if err != nil {
			return nil, err
		}
		return accessUseCase.NewAdminUseCase(txManager, repo), nil
	})
}
