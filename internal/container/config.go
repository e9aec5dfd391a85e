// Package container provides dependency injection and lifecycle management
// for the document workflow engine.
package container

import (
	"fmt"
	"time"
)

// Transports accepted by NotificationConfig.Transport
const (
	TransportOutbox = "outbox"
	TransportLark   = "lark"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// OpenAI configuration
	OpenAI OpenAIConfig

	// Workflow defaults
	Workflow WorkflowConfig

	// Notification delivery
	Notification NotificationConfig

	// Lark API configuration
	Lark LarkConfig

	// Storage configuration
	Storage StorageConfig

	// Server configuration
	Server ServerConfig

	// Inbox worker configuration
	Inbox InboxConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file
	Path string

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int

	// ConnMaxLifetime is the maximum connection lifetime
	ConnMaxLifetime time.Duration
}

// OpenAIConfig holds settings of the OpenAI compatible endpoint.
type OpenAIConfig struct {
	// APIKey is the API key; Ollama accepts any value
	APIKey string

	// BaseURL overrides the public endpoint
	BaseURL string

	// Model is the chat model (e.g., "gpt-4o-mini")
	Model string

	// EmbeddingModel is used by the document chat
	EmbeddingModel string

	// PromptsPath optionally overrides the embedded prompt catalogue
	PromptsPath string
}

// WorkflowConfig holds the run defaults.
type WorkflowConfig struct {
	AutoInsert       bool
	DefaultRecipient string
	BatchConcurrency int
}

// NotificationConfig selects how drafted emails are delivered.
type NotificationConfig struct {
	// Transport is "outbox" or "lark"
	Transport  string
	OutboxDir  string
	SenderName string
}

// LarkConfig holds Lark API settings.
type LarkConfig struct {
	// AppID is the Lark application ID
	AppID string

	// AppSecret is the Lark application secret
	AppSecret string

	// AlertChatID receives ticket alerts when set
	AlertChatID string
}

// StorageConfig holds file storage settings.
type StorageConfig struct {
	// UploadDir stores documents received over HTTP
	UploadDir string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host to bind to
	Host string

	// Port to listen on
	Port int

	// ReadTimeout for HTTP server
	ReadTimeout time.Duration

	// WriteTimeout for HTTP server
	WriteTimeout time.Duration

	// MaxUploadBytes caps uploaded documents
	MaxUploadBytes int64
}

// InboxConfig holds background inbox worker settings.
type InboxConfig struct {
	Enabled        bool
	Dir            string
	PollInterval   time.Duration
	ProcessTimeout time.Duration
	Instruction    string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:            "data/docflow.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		OpenAI: OpenAIConfig{
			Model:          "gpt-4o-mini",
			EmbeddingModel: "text-embedding-3-small",
		},
		Workflow: WorkflowConfig{
			BatchConcurrency: 4,
		},
		Notification: NotificationConfig{
			Transport:  TransportOutbox,
			OutboxDir:  "outbox",
			SenderName: "Document Workflow Agent",
		},
		Storage: StorageConfig{
			UploadDir: "data/uploads",
		},
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   180 * time.Second,
			MaxUploadBytes: 20 << 20,
		},
		Inbox: InboxConfig{
			Dir:            "data/inbox",
			PollInterval:   10 * time.Second,
			ProcessTimeout: 120 * time.Second,
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.OpenAI.Model == "" {
		return fmt.Errorf("openai.model is required")
	}
	if c.OpenAI.APIKey == "" && c.OpenAI.BaseURL == "" {
		return fmt.Errorf("openai.api_key is required unless openai.base_url is set")
	}

	switch c.Notification.Transport {
	case TransportOutbox:
		if c.Notification.OutboxDir == "" {
			return fmt.Errorf("notification.outbox_dir is required")
		}
	case TransportLark:
		if c.Lark.AppID == "" || c.Lark.AppSecret == "" {
			return fmt.Errorf("lark.app_id and lark.app_secret are required for the lark transport")
		}
	default:
		return fmt.Errorf("unknown notification.transport %q", c.Notification.Transport)
	}

	if c.Lark.AlertChatID != "" && (c.Lark.AppID == "" || c.Lark.AppSecret == "") {
		return fmt.Errorf("lark.alert_chat_id requires lark.app_id and lark.app_secret")
	}

	if c.Workflow.BatchConcurrency < 1 {
		return fmt.Errorf("workflow.batch_concurrency must be at least 1")
	}

	if c.Inbox.Enabled && c.Inbox.Dir == "" {
		return fmt.Errorf("inbox.dir is required when the inbox is enabled")
	}

	return nil
}
