package app

import (
	"fmt"

	"github.com/allisson/orchestrator/internal/gateway"
	queueHTTP "github.com/allisson/orchestrator/internal/queue/http"
	queueRepository "github.com/allisson/orchestrator/internal/queue/repository"
	queueUseCase "github.com/allisson/orchestrator/internal/queue/usecase"
)

// QueueRepository returns the queue repository based on database driver.
func (c *Container) QueueRepository() (queueUseCase.QueueRepository, error) {
	err := c.once(&c.queueRepositoryInit, "queueRepository", func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for queue repository: %w", err)
		}

		switch c.config.DBDriver {
		case "postgres":
			c.queueRepository = queueRepository.NewPostgreSQLQueueRepository(db)
		case "mysql":
			c.queueRepository = queueRepository.NewMySQLQueueRepository(db)
		default:
			return fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.queueRepository, nil
}

// QueueItemRepository returns the queue item repository based on database driver.
func (c *Container) QueueItemRepository() (queueUseCase.QueueItemRepository, error) {
	err := c.once(&c.queueItemRepositoryInit, "queueItemRepository", func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for queue item repository: %w", err)
		}

		switch c.config.DBDriver {
		case "postgres":
			c.queueItemRepository = queueRepository.NewPostgreSQLQueueItemRepository(db)
		case "mysql":
			c.queueItemRepository = queueRepository.NewMySQLQueueItemRepository(db)
		default:
			return fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.queueItemRepository, nil
}

// QueueUseCase returns the work item store use case, wrapped with metrics when enabled.
func (c *Container) QueueUseCase() (queueUseCase.QueueUseCase, error) {
	err := c.once(&c.queueUseCaseInit, "queueUseCase", func() error {
		var err error
		c.queueUseCase, err = c.initQueueUseCase()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.queueUseCase, nil
}

// QueueHandler returns the queue HTTP handler.
func (c *Container) QueueHandler() (*queueHTTP.QueueHandler, error) {
	err := c.once(&c.queueHandlerInit, "queueHandler", func() error {
		useCase, err := c.QueueUseCase()
		if err != nil {
			return fmt.Errorf("failed to get queue use case for queue handler: %w", err)
		}
		c.queueHandler = queueHTTP.NewQueueHandler(useCase, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.queueHandler, nil
}

// WorkerGateway returns the worker session gateway.
func (c *Container) WorkerGateway() (*gateway.Gateway, error) {
	err := c.once(&c.workerGatewayInit, "workerGateway", func() error {
		useCase, err := c.QueueUseCase()
		if err != nil {
			return fmt.Errorf("failed to get queue use case for worker gateway: %w", err)
		}

		sessionMetrics, err := c.SessionMetrics()
		if err != nil {
			return fmt.Errorf("failed to get session metrics for worker gateway: %w", err)
		}

		c.workerGateway = gateway.NewGateway(useCase, gateway.NewRegistry(), gateway.Config{
			PingInterval:    c.config.GatewayPingInterval,
			ReadTimeout:     c.config.GatewayReadTimeout,
			MaxMessageBytes: c.config.GatewayMaxMessageBytes,
		}, sessionMetrics, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.workerGateway, nil
}

// LeaseReaper returns the stale lease reaper.
func (c *Container) LeaseReaper() (*queueUseCase.LeaseReaper, error) {
	err := c.once(&c.leaseReaperInit, "leaseReaper", func() error {
		useCase, err := c.QueueUseCase()
		if err != nil {
			return fmt.Errorf("failed to get queue use case for lease reaper: %w", err)
		}
		c.leaseReaper = queueUseCase.NewLeaseReaper(queueUseCase.LeaseReaperConfig{
			Interval:     c.config.LeaseReaperInterval,
			LeaseTimeout: c.config.LeaseTimeout,
			BatchSize:    c.config.LeaseReaperBatchSize,
		}, useCase, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.leaseReaper, nil
}

func (c *Container) initQueueUseCase() (queueUseCase.QueueUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for queue use case: %w", err)
	}

	queueRepo, err := c.QueueRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get queue repository for queue use case: %w", err)
	}

	itemRepo, err := c.QueueItemRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get queue item repository for queue use case: %w", err)
	}

	baseUseCase := queueUseCase.NewQueueUseCase(txManager, queueRepo, itemRepo, c.config.QueueDefaultMaxAttempts)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for queue use case: %w", err)
		}
		return queueUseCase.NewQueueUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
