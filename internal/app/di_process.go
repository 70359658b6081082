package app

import (
	"fmt"

	processDomain "github.com/allisson/orchestrator/internal/process/domain"
	processHTTP "github.com/allisson/orchestrator/internal/process/http"
	processRepository "github.com/allisson/orchestrator/internal/process/repository"
	processUseCase "github.com/allisson/orchestrator/internal/process/usecase"
)

// ProcessRegistry returns the registry of startable processes built from PROCESS_KEYS.
func (c *Container) ProcessRegistry() (*processDomain.Registry, error) {
	err := c.once(&c.processRegistryInit, "processRegistry", func() error {
		registry, err := processDomain.NewRegistryFromKeys(c.config.ProcessKeyList())
		if err != nil {
			return fmt.Errorf("failed to build process registry: %w", err)
		}
		c.processRegistry = registry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.processRegistry, nil
}

// ProcessEventRepository returns the process event ledger based on database driver.
func (c *Container) ProcessEventRepository() (processUseCase.EventLogRepository, error) {
	err := c.once(&c.processEventRepositoryInit, "processEventRepository", func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for process event repository: %w", err)
		}

		switch c.config.DBDriver {
		case "postgres":
			c.processEventRepository = processRepository.NewPostgreSQLEventLogRepository(db)
		case "mysql":
			c.processEventRepository = processRepository.NewMySQLEventLogRepository(db)
		default:
			return fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.processEventRepository, nil
}

// ProcessUseCase returns the process starter use case, wrapped with metrics when enabled.
func (c *Container) ProcessUseCase() (processUseCase.ProcessUseCase, error) {
	err := c.once(&c.processUseCaseInit, "processUseCase", func() error {
		registry, err := c.ProcessRegistry()
		if err != nil {
			return err
		}

		eventRepo, err := c.ProcessEventRepository()
		if err != nil {
			return fmt.Errorf("failed to get process event repository for process use case: %w", err)
		}

		baseUseCase := processUseCase.NewProcessUseCase(registry, c.WorkflowEngine(), eventRepo, c.Logger())
		c.processUseCase = baseUseCase

		// Wrap with metrics if enabled
		if c.config.MetricsEnabled {
			businessMetrics, err := c.BusinessMetrics()
			if err != nil {
				return fmt.Errorf("failed to get business metrics for process use case: %w", err)
			}
			c.processUseCase = processUseCase.NewProcessUseCaseWithMetrics(baseUseCase, businessMetrics)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.processUseCase, nil
}

// ProcessHandler returns the process HTTP handler.
func (c *Container) ProcessHandler() (*processHTTP.ProcessHandler, error) {
	err := c.once(&c.processHandlerInit, "processHandler", func() error {
		useCase, err := c.ProcessUseCase()
		if err != nil {
			return fmt.Errorf("failed to get process use case for process handler: %w", err)
		}
		c.processHandler = processHTTP.NewProcessHandler(useCase, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.processHandler, nil
}
