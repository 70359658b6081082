package app

import (
	"fmt"

	rpaHTTP "github.com/allisson/orchestrator/internal/rpa/http"
	rpaRepository "github.com/allisson/orchestrator/internal/rpa/repository"
	rpaService "github.com/allisson/orchestrator/internal/rpa/service"
	rpaUseCase "github.com/allisson/orchestrator/internal/rpa/usecase"
	"github.com/allisson/orchestrator/internal/workflow"
)

// WorkflowEngine returns the workflow engine REST client.
func (c *Container) WorkflowEngine() workflow.Engine {
	c.workflowEngineInit.Do(func() {
		c.workflowEngine = workflow.NewClient(workflow.Config{
			BaseURL:  c.config.WorkflowEngineURL,
			APIKey:   c.config.WorkflowEngineAPIKey,
			Username: c.config.WorkflowEngineUsername,
			Password: c.config.WorkflowEnginePassword,
			Timeout:  c.config.WorkflowEngineTimeout,
		})
	})
	return c.workflowEngine
}

// ProviderClient returns the automation provider client.
func (c *Container) ProviderClient() rpaService.ProviderClient {
	c.providerClientInit.Do(func() {
		c.providerClient = rpaService.NewProviderClient(
			c.config.AutomationProviderURL,
			c.config.AutomationProviderTimeout,
		)
	})
	return c.providerClient
}

// RPAEventRepository returns the automation event ledger based on database driver.
func (c *Container) RPAEventRepository() (rpaUseCase.EventLogRepository, error) {
	err := c.once(&c.rpaEventRepositoryInit, "rpaEventRepository", func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for rpa event repository: %w", err)
		}

		switch c.config.DBDriver {
		case "postgres":
			c.rpaEventRepository = rpaRepository.NewPostgreSQLEventLogRepository(db)
		case "mysql":
			c.rpaEventRepository = rpaRepository.NewMySQLEventLogRepository(db)
		default:
			return fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.rpaEventRepository, nil
}

// RPAUseCase returns the callback correlator use case, wrapped with metrics when enabled.
func (c *Container) RPAUseCase() (rpaUseCase.RPAUseCase, error) {
	err := c.once(&c.rpaUseCaseInit, "rpaUseCase", func() error {
		var err error
		c.rpaUseCase, err = c.initRPAUseCase()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.rpaUseCase, nil
}

// RPAHandler returns the automation task HTTP handler.
func (c *Container) RPAHandler() (*rpaHTTP.RPAHandler, error) {
	err := c.once(&c.rpaHandlerInit, "rpaHandler", func() error {
		useCase, err := c.RPAUseCase()
		if err != nil {
			return fmt.Errorf("failed to get rpa use case for rpa handler: %w", err)
		}
		c.rpaHandler = rpaHTTP.NewRPAHandler(useCase, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.rpaHandler, nil
}

func (c *Container) initRPAUseCase() (rpaUseCase.RPAUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for rpa use case: %w", err)
	}

	eventRepo, err := c.RPAEventRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get rpa event repository for rpa use case: %w", err)
	}

	baseUseCase := rpaUseCase.NewRPAUseCase(
		txManager,
		eventRepo,
		c.ProviderClient(),
		rpaService.NewTokenGenerator(),
		c.WorkflowEngine(),
		rpaUseCase.Config{
			ProviderToken:   c.config.AutomationProviderToken,
			CallbackBaseURL: c.config.CallbackBaseURL,
			ExportWindow:    c.config.AuditExportWindow,
		},
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for rpa use case: %w", err)
		}
		return rpaUseCase.NewRPAUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
