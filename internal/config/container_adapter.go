package config

import (
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/container"
)

// ToContainerConfig converts the application Config to a container.Config.
// This provides a bridge between the file-based config loaded by viper
// and the container's configuration structure.
func (c *Config) ToContainerConfig() *container.Config {
	return &container.Config{
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
		},
		OpenAI: container.OpenAIConfig{
			APIKey:         c.OpenAI.APIKey,
			BaseURL:        c.OpenAI.BaseURL,
			Model:          c.OpenAI.Model,
			EmbeddingModel: c.OpenAI.EmbeddingModel,
			PromptsPath:    c.Prompts.Path,
		},
		Workflow: container.WorkflowConfig{
			AutoInsert:       c.Workflow.AutoInsertNewInvoices,
			DefaultRecipient: c.Workflow.DefaultEmailRecipient,
			BatchConcurrency: c.Workflow.BatchConcurrency,
		},
		Notification: container.NotificationConfig{
			Transport:  c.Notification.Transport,
			OutboxDir:  c.Notification.OutboxDir,
			SenderName: c.Notification.SenderName,
		},
		Lark: container.LarkConfig{
			AppID:       c.Lark.AppID,
			AppSecret:   c.Lark.AppSecret,
			AlertChatID: c.Lark.AlertChatID,
		},
		Storage: container.StorageConfig{
			UploadDir: c.Storage.UploadDir,
		},
		Server: container.ServerConfig{
			Host:           c.Server.Host,
			Port:           c.Server.Port,
			ReadTimeout:    c.Server.ReadTimeout,
			WriteTimeout:   c.Server.WriteTimeout,
			MaxUploadBytes: c.Server.MaxUploadBytes,
		},
		Inbox: container.InboxConfig{
			Enabled:        c.Inbox.Enabled,
			Dir:            c.Inbox.Dir,
			PollInterval:   c.Inbox.PollInterval,
			ProcessTimeout: c.Inbox.ProcessTimeout,
			Instruction:    c.Inbox.Instruction,
		},
	}
}
