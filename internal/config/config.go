package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/pkg/utils"
)

// Config holds all application configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	OpenAI       OpenAIConfig       `mapstructure:"openai"`
	Prompts      PromptsConfig      `mapstructure:"prompts"`
	Workflow     WorkflowConfig     `mapstructure:"workflow"`
	Notification NotificationConfig `mapstructure:"notification"`
	Lark         LarkConfig         `mapstructure:"lark"`
	Inbox        InboxConfig        `mapstructure:"inbox"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Logger       LoggerConfig       `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// OpenAIConfig holds the OpenAI compatible endpoint configuration
type OpenAIConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
}

// PromptsConfig points at an optional prompt catalogue override
type PromptsConfig struct {
	Path string `mapstructure:"path"`
}

// WorkflowConfig holds the run defaults
type WorkflowConfig struct {
	AutoInsertNewInvoices bool   `mapstructure:"auto_insert_new_invoices"`
	DefaultEmailRecipient string `mapstructure:"default_email_recipient"`
	BatchConcurrency      int    `mapstructure:"batch_concurrency"`
}

// NotificationConfig selects the email transport
type NotificationConfig struct {
	Transport  string `mapstructure:"transport"`
	OutboxDir  string `mapstructure:"outbox_dir"`
	SenderName string `mapstructure:"sender_name"`
}

// LarkConfig holds Lark API configuration
type LarkConfig struct {
	AppID       string `mapstructure:"app_id"`
	AppSecret   string `mapstructure:"app_secret"`
	AlertChatID string `mapstructure:"alert_chat_id"`
}

// InboxConfig holds the inbox worker configuration
type InboxConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Dir            string        `mapstructure:"dir"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	ProcessTimeout time.Duration `mapstructure:"process_timeout"`
	Instruction    string        `mapstructure:"instruction"`
}

// StorageConfig holds file storage configuration
type StorageConfig struct {
	UploadDir string `mapstructure:"upload_dir"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// LoadEnvFile loads KEY=VALUE pairs into the environment. Variables that
// are already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := gotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Load loads configuration from file and environment variables and
// validates it. An empty configPath uses defaults and the environment only.
func Load(configPath string) (*Config, error) {
	cfg, err := Read(configPath)
	if err != nil {
		return nil, err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Read is Load without validation, for commands that only touch the
// record store
func Read(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Override with environment variables
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 180*time.Second)
	v.SetDefault("server.max_upload_bytes", 20<<20)

	// Database defaults
	v.SetDefault("database.path", "data/docflow.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// OpenAI defaults
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.embedding_model", "text-embedding-3-small")

	// Workflow defaults
	v.SetDefault("workflow.auto_insert_new_invoices", false)
	v.SetDefault("workflow.batch_concurrency", 4)

	// Notification defaults
	v.SetDefault("notification.transport", "outbox")
	v.SetDefault("notification.outbox_dir", "outbox")
	v.SetDefault("notification.sender_name", "Document Workflow Agent")

	// Inbox defaults
	v.SetDefault("inbox.enabled", false)
	v.SetDefault("inbox.dir", "data/inbox")
	v.SetDefault("inbox.poll_interval", 10*time.Second)
	v.SetDefault("inbox.process_timeout", 120*time.Second)

	// Storage defaults
	v.SetDefault("storage.upload_dir", "data/uploads")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	// Sensitive credentials from environment
	v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("openai.base_url", "OPENAI_BASE_URL")
	v.BindEnv("lark.app_id", "LARK_APP_ID")
	v.BindEnv("lark.app_secret", "LARK_APP_SECRET")
	v.BindEnv("workflow.default_email_recipient", "DEFAULT_EMAIL_RECIPIENT")
	v.BindEnv("database.path", "DOCFLOW_DB_PATH")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	if c.Workflow.DefaultEmailRecipient != "" {
		if err := utils.ValidateEmail(c.Workflow.DefaultEmailRecipient); err != nil {
			return fmt.Errorf("workflow.default_email_recipient: %w", err)
		}
	}

	switch strings.ToLower(c.Logger.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logger.format must be json or console, got %q", c.Logger.Format)
	}

	return c.ToContainerConfig().Validate()
}

// LoggerSettings returns the logger configuration for utils.NewLogger
func (c *Config) LoggerSettings() utils.LoggerConfig {
	return utils.LoggerConfig{
		Level:      c.Logger.Level,
		OutputPath: c.Logger.OutputPath,
		Format:     strings.ToLower(c.Logger.Format),
	}
}
