package container

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/dispatcher"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/service"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/workflow"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/infrastructure/persistence/sqlite"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/infrastructure/worker"
	"go.uber.org/zap"
)

// Container manages all application dependencies and lifecycle.
// Components are initialized in dependency order and torn down in reverse.
type Container struct {
	config *Config
	logger *zap.Logger

	// Infrastructure - Data
	sqlDB        *sql.DB
	db           *sqlite.DB
	repositories *RepositoryBundle

	// Infrastructure - External
	openAI *OpenAIBundle
	lark   *LarkBundle

	// Infrastructure - Storage
	stores    *StorageBundle
	documents *DocumentBundle

	// Application
	services   *ServiceBundle
	dispatcher dispatcher.Dispatcher
	executor   *workflow.Executor

	// Workers
	workers *worker.WorkerManager

	// Lifecycle
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	ready  atomic.Bool
	closed atomic.Bool
}

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	Invoice      port.InvoiceRepository
	Ticket       port.TicketRepository
	Notification port.NotificationRepository
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Document     service.DocumentService
	Invoice      service.InvoiceService
	Notification service.NotificationService
	Chat         service.ChatService
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components and begins processing.
// Components are initialized in dependency order:
// 1. Database and repositories
// 2. External clients (OpenAI, Lark)
// 3. Storage and the document pipeline
// 4. Application services
// 5. Event dispatcher and workflow executor
// 6. Workers
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}

	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization")

	// Step 1: Initialize database and repositories
	if err := c.initDatabase(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database initialized")

	// Step 2: Initialize external clients
	if err := c.initExternalClients(); err != nil {
		return fmt.Errorf("failed to initialize external clients: %w", err)
	}
	c.logger.Info("External clients initialized")

	// Step 3: Initialize storage
	if err := c.initStorage(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	c.logger.Info("Storage initialized")

	// Step 4: Initialize application services
	if err := c.initServices(); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.logger.Info("Application services initialized")

	// Step 5: Initialize dispatcher and workflow executor
	if err := c.initDispatcherAndWorkflow(); err != nil {
		return fmt.Errorf("failed to initialize dispatcher and workflow: %w", err)
	}
	c.logger.Info("Dispatcher and workflow executor initialized")

	// Step 6: Initialize and start workers
	if err := c.initWorkers(); err != nil {
		return fmt.Errorf("failed to initialize workers: %w", err)
	}
	c.logger.Info("Workers initialized and started", zap.Strings("workers", c.workers.Names()))

	c.ready.Store(true)
	c.logger.Info("Container started successfully")

	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	if c.cancel != nil {
		c.cancel()
	}

	// Step 1: Stop workers (reverse of step 6)
	if c.workers != nil {
		if err := c.workers.StopAll(); err != nil {
			c.logger.Error("Failed to stop workers", zap.Error(err))
			errs = append(errs, fmt.Errorf("stop workers: %w", err))
		} else {
			c.logger.Info("Workers stopped")
		}
	}

	// Step 2: Close dispatcher, waiting for async handlers (reverse of step 5)
	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		} else {
			c.logger.Info("Dispatcher closed")
		}
	}

	// Steps 3 to 5: services, storage and external clients hold no resources

	// Step 6: Close database (reverse of step 1)
	if c.sqlDB != nil {
		if err := c.sqlDB.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		} else {
			c.logger.Info("Database closed")
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health() *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	unhealthy := func(name, message string) {
		status.Components[name] = ComponentHealth{Healthy: false, Message: message}
		status.Overall = false
	}

	// Check database
	if c.sqlDB != nil {
		if err := c.sqlDB.Ping(); err != nil {
			unhealthy("database", fmt.Sprintf("ping failed: %v", err))
		} else {
			status.Components["database"] = ComponentHealth{Healthy: true}
		}
	} else {
		unhealthy("database", "not initialized")
	}

	// Check workers; an empty manager is healthy
	if c.workers != nil {
		healthy := c.workers.GetWorkerCount() == 0 || c.workers.IsRunning()
		status.Components["workers"] = ComponentHealth{
			Healthy: healthy,
			Message: fmt.Sprintf("worker count: %d", c.workers.GetWorkerCount()),
		}
		if !healthy {
			status.Overall = false
		}
	} else {
		unhealthy("workers", "not initialized")
	}

	// Check dispatcher
	if c.dispatcher != nil {
		status.Components["dispatcher"] = ComponentHealth{Healthy: true}
	} else {
		unhealthy("dispatcher", "not initialized")
	}

	// Check workflow
	if c.executor != nil {
		status.Components["workflow"] = ComponentHealth{Healthy: true}
	} else {
		unhealthy("workflow", "not initialized")
	}

	return status
}

// initDatabase initializes the database and all repositories using providers.
func (c *Container) initDatabase() error {
	dbBundle, err := ProvideDatabase(&c.config.Database, c.logger)
	if err != nil {
		return err
	}

	c.sqlDB = dbBundle.SqlDB
	c.db = dbBundle.TransactionMgr

	repos, err := ProvideRepositories(c.sqlDB, c.logger)
	if err != nil {
		c.sqlDB.Close()
		return err
	}

	c.repositories = repos
	return nil
}

// initExternalClients initializes OpenAI and Lark clients using providers.
func (c *Container) initExternalClients() error {
	openAI, err := ProvideOpenAI(&c.config.OpenAI, c.logger)
	if err != nil {
		return err
	}
	c.openAI = openAI

	lark, err := ProvideLark(&c.config.Lark, c.logger)
	if err != nil {
		return err
	}
	c.lark = lark

	return nil
}

// initStorage initializes the document stores and the loading pipeline.
func (c *Container) initStorage() error {
	stores, err := ProvideStorage(c.config, c.logger)
	if err != nil {
		return err
	}
	c.stores = stores
	c.documents = ProvideDocumentPipeline(c.openAI.Fields, c.logger)
	return nil
}

// initServices initializes the application services using providers.
func (c *Container) initServices() error {
	sender, err := ProvideSender(&c.config.Notification, c.stores, c.lark, c.logger)
	if err != nil {
		return err
	}

	services, err := ProvideServices(&ServiceDeps{
		Repos:  c.repositories,
		OpenAI: c.openAI,
		Sender: sender,
		Logger: c.logger,
	})
	if err != nil {
		return err
	}

	c.services = services
	return nil
}

// initDispatcherAndWorkflow initializes the event dispatcher and the
// workflow executor using providers.
func (c *Container) initDispatcherAndWorkflow() error {
	disp, err := ProvideDispatcher(c.lark.Alerter, c.logger)
	if err != nil {
		return err
	}
	c.dispatcher = disp

	executor, documents, err := ProvideWorkflow(&WorkflowDeps{
		Repos:        c.repositories,
		Planner:      c.openAI.Decider,
		Documents:    c.documents,
		Notifier:     c.services.Notification,
		Dispatcher:   c.dispatcher,
		Transactions: c.db,
		Workflow:     &c.config.Workflow,
		Logger:       c.logger,
	})
	if err != nil {
		return err
	}
	c.executor = executor
	c.services.Document = documents

	return nil
}

// initWorkers initializes and starts all background workers using providers.
func (c *Container) initWorkers() error {
	workers, err := ProvideWorkers(&WorkerDeps{
		Inbox:     &c.config.Inbox,
		Settings:  c.Settings(),
		Store:     c.stores.Inbox,
		Processor: c.services.Document,
		Logger:    c.logger,
	})
	if err != nil {
		return err
	}
	c.workers = workers

	if c.workers.GetWorkerCount() == 0 {
		return nil
	}
	if err := c.workers.StartAll(c.ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}

	return nil
}

// Getters for accessing container components

// Repositories returns all repositories.
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// Documents returns the document loading pipeline.
func (c *Container) Documents() *DocumentBundle {
	return c.documents
}

// Uploads returns the store for documents received over HTTP.
func (c *Container) Uploads() port.FileStorage {
	return c.stores.Uploads
}

// Dispatcher returns the event dispatcher.
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

// Executor returns the workflow executor.
func (c *Container) Executor() *workflow.Executor {
	return c.executor
}

// Services returns all application services.
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Workers returns the worker manager.
func (c *Container) Workers() *worker.WorkerManager {
	return c.workers
}

// Settings returns the configured run defaults.
func (c *Container) Settings() entity.Settings {
	return entity.Settings{
		AutoInsert:       c.config.Workflow.AutoInsert,
		DefaultRecipient: c.config.Workflow.DefaultRecipient,
	}
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration.
func (c *Container) Config() *Config {
	return c.config
}
