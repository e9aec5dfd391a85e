package container

import (
	"database/sql"
	"fmt"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/dispatcher"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/service"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/workflow"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/document"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/event"
	infraLark "github.com/Nazim-fad/prototype-of-an-AI-agent/internal/infrastructure/external/lark"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/infrastructure/external/openai"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/infrastructure/notify"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/infrastructure/persistence/repository"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/infrastructure/persistence/sqlite"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/infrastructure/report"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/infrastructure/storage"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/infrastructure/worker"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/migrations"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/pkg/database"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/pkg/utils"
	"go.uber.org/zap"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	SqlDB          *sql.DB
	TransactionMgr *sqlite.DB
	// Applied is the number of migrations run while opening
	Applied int
}

// OpenAIBundle holds the model backed adapters sharing one client.
type OpenAIBundle struct {
	Client    *openai.Client
	Decider   port.PlanSource
	Fields    port.FieldModel
	Drafter   port.EmailDrafter
	ChatModel port.ChatModel
	Embedder  port.Embedder
}

// LarkBundle holds the Lark components. All fields are nil when no Lark
// app is configured.
type LarkBundle struct {
	Client  *infraLark.Client
	Sender  *infraLark.Sender
	Alerter port.TicketAlerter
}

// StorageBundle holds the document stores.
type StorageBundle struct {
	Uploads port.FileStorage
	Outbox  port.FileStorage
	Inbox   port.FileStorage
}

// DocumentBundle holds the document loading pipeline.
type DocumentBundle struct {
	Loader    port.TextLoader
	Extractor port.FieldExtractor
}

// ProvideDatabase opens the SQLite database and applies pending migrations.
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	sqlDB, err := database.Open(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	applied, err := database.NewMigrator(sqlDB, logger).Run(migrations.FS)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		SqlDB:          sqlDB,
		TransactionMgr: sqlite.NewDB(sqlDB, logger),
		Applied:        applied,
	}, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(sqlDB *sql.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		Invoice:      repository.NewInvoiceRepository(sqlDB, logger),
		Ticket:       repository.NewTicketRepository(sqlDB, logger),
		Notification: repository.NewNotificationRepository(sqlDB, logger),
	}, nil
}

// ProvideOpenAI creates the OpenAI client and every adapter built on it.
func ProvideOpenAI(cfg *OpenAIConfig, logger *zap.Logger) (*OpenAIBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("openai config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	prompts, err := openai.LoadPrompts(cfg.PromptsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}

	client := openai.NewClient(openai.Config{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Model:          cfg.Model,
		EmbeddingModel: cfg.EmbeddingModel,
	}, prompts, logger)

	return &OpenAIBundle{
		Client:    client,
		Decider:   openai.NewDecider(client),
		Fields:    openai.NewFieldExtractor(client),
		Drafter:   openai.NewDrafter(client),
		ChatModel: openai.NewChatModel(client),
		Embedder:  openai.NewEmbedder(client),
	}, nil
}

// ProvideLark creates the Lark client with its sender and alerter.
// Nothing is created without app credentials.
func ProvideLark(cfg *LarkConfig, logger *zap.Logger) (*LarkBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("lark config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	bundle := &LarkBundle{}
	if cfg.AppID == "" || cfg.AppSecret == "" {
		return bundle, nil
	}

	bundle.Client = infraLark.NewClient(infraLark.Config{
		AppID:     cfg.AppID,
		AppSecret: cfg.AppSecret,
	}, logger)
	bundle.Sender = infraLark.NewSender(bundle.Client, logger)
	if cfg.AlertChatID != "" {
		bundle.Alerter = infraLark.NewAlerter(bundle.Client, cfg.AlertChatID, logger)
	}
	return bundle, nil
}

// ProvideStorage creates the upload, outbox and inbox stores.
func ProvideStorage(cfg *Config, logger *zap.Logger) (*StorageBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &StorageBundle{
		Uploads: storage.NewDocumentStore(cfg.Storage.UploadDir, logger),
		Outbox:  storage.NewDocumentStore(cfg.Notification.OutboxDir, logger),
		Inbox:   storage.NewDocumentStore(cfg.Inbox.Dir, logger),
	}, nil
}

// ProvideDocumentPipeline creates the text loader and the field extractor.
func ProvideDocumentPipeline(fields port.FieldModel, logger *zap.Logger) *DocumentBundle {
	return &DocumentBundle{
		Loader:    document.NewPDFReader(logger),
		Extractor: document.NewExtractor(fields, logger),
	}
}

// ProvideSender picks the notification transport.
func ProvideSender(cfg *NotificationConfig, stores *StorageBundle, lark *LarkBundle, logger *zap.Logger) (port.NotificationSender, error) {
	switch cfg.Transport {
	case TransportLark:
		if lark == nil || lark.Sender == nil {
			return nil, fmt.Errorf("lark transport selected but no lark app is configured")
		}
		return lark.Sender, nil
	case TransportOutbox, "":
		return notify.NewOutboxSender(stores.Outbox, "", cfg.SenderName, logger), nil
	default:
		return nil, fmt.Errorf("unknown notification transport %q", cfg.Transport)
	}
}

// ServiceDeps holds dependencies required for creating services.
type ServiceDeps struct {
	Repos    *RepositoryBundle
	OpenAI   *OpenAIBundle
	Sender   port.NotificationSender
	Exporter port.SpreadsheetExporter
	Logger   *zap.Logger
}

// ProvideServices creates the services the workflow depends on.
// DocumentService is created with the workflow in ProvideWorkflow.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.OpenAI == nil {
		return nil, fmt.Errorf("openai adapters are required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	serviceLogger := utils.NewSugarLogger(deps.Logger)
	exporter := deps.Exporter
	if exporter == nil {
		exporter = report.NewExcelExporter(deps.Logger)
	}

	return &ServiceBundle{
		Notification: service.NewNotificationService(
			deps.OpenAI.Drafter,
			deps.Sender,
			deps.Repos.Notification,
			serviceLogger,
		),
		Invoice: service.NewInvoiceService(
			deps.Repos.Invoice,
			deps.Repos.Ticket,
			exporter,
			serviceLogger,
		),
		Chat: service.NewChatService(
			deps.OpenAI.ChatModel,
			deps.OpenAI.Embedder,
			serviceLogger,
		),
	}, nil
}

// ProvideDispatcher creates the event dispatcher with the audit log and,
// when an alerter is given, the ticket alert subscribed.
func ProvideDispatcher(alerter port.TicketAlerter, logger *zap.Logger) (dispatcher.Dispatcher, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	eventLogger := utils.NewSugarLogger(logger)
	disp := dispatcher.NewDispatcher(dispatcher.WithLogger(eventLogger))

	for _, eventType := range dispatcher.AuditTypes {
		disp.SubscribeNamed(eventType, "audit-log", dispatcher.AuditLogHandler(eventLogger))
	}
	if alerter != nil {
		disp.SubscribeNamed(event.TypeTicketCreated, "lark-ticket-alert", dispatcher.TicketAlertHandler(alerter))
	}

	logger.Info("Dispatcher initialized",
		zap.Int("audit_handlers", len(dispatcher.AuditTypes)),
		zap.Bool("ticket_alerts", alerter != nil))
	return disp, nil
}

// WorkflowDeps holds dependencies required for the workflow engine.
type WorkflowDeps struct {
	Repos        *RepositoryBundle
	Planner      port.PlanSource
	Documents    *DocumentBundle
	Notifier     port.Notifier
	Dispatcher   dispatcher.Dispatcher
	Transactions port.TransactionManager
	Workflow     *WorkflowConfig
	Logger       *zap.Logger
}

// ProvideWorkflow creates the executor and the document service running it.
func ProvideWorkflow(deps *WorkflowDeps) (*workflow.Executor, service.DocumentService, error) {
	if deps == nil {
		return nil, nil, fmt.Errorf("workflow dependencies are required")
	}
	if deps.Repos == nil || deps.Documents == nil || deps.Notifier == nil {
		return nil, nil, fmt.Errorf("repositories, document pipeline and notifier are required")
	}
	if deps.Logger == nil {
		return nil, nil, fmt.Errorf("logger is required")
	}

	logger := utils.NewSugarLogger(deps.Logger)
	var opts []workflow.ExecutorOption
	if deps.Dispatcher != nil {
		opts = append(opts, workflow.WithDispatcher(deps.Dispatcher))
	}
	if deps.Transactions != nil {
		opts = append(opts, workflow.WithTransactions(deps.Transactions))
	}

	executor := workflow.NewExecutor(
		workflow.NewPlanner(deps.Planner, logger),
		deps.Documents.Loader,
		deps.Documents.Extractor,
		deps.Repos.Invoice,
		deps.Repos.Ticket,
		deps.Notifier,
		logger,
		opts...,
	)

	concurrency := 1
	if deps.Workflow != nil && deps.Workflow.BatchConcurrency > 0 {
		concurrency = deps.Workflow.BatchConcurrency
	}
	return executor, service.NewDocumentService(executor, concurrency, logger), nil
}

// WorkerDeps holds dependencies required for creating workers.
type WorkerDeps struct {
	Inbox     *InboxConfig
	Settings  entity.Settings
	Store     port.FileStorage
	Processor worker.DocumentProcessor
	Logger    *zap.Logger
}

// ProvideWorkers creates the worker manager and registers the enabled workers.
func ProvideWorkers(deps *WorkerDeps) (*worker.WorkerManager, error) {
	if deps == nil {
		return nil, fmt.Errorf("worker dependencies are required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	manager := worker.NewWorkerManager(deps.Logger)
	if deps.Inbox == nil || !deps.Inbox.Enabled {
		return manager, nil
	}
	if deps.Store == nil || deps.Processor == nil {
		return nil, fmt.Errorf("inbox store and processor are required")
	}

	manager.Register(worker.NewInboxWorker(worker.InboxWorkerConfig{
		PollInterval:   deps.Inbox.PollInterval,
		ProcessTimeout: deps.Inbox.ProcessTimeout,
		Instruction:    deps.Inbox.Instruction,
		Settings:       deps.Settings,
	}, deps.Store, deps.Processor, deps.Logger))

	return manager, nil
}
