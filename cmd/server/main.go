package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/config"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/container"
	httpapi "github.com/Nazim-fad/prototype-of-an-AI-agent/internal/interfaces/http"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the config file")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before the config")
	flag.Parse()

	if err := config.LoadEnvFile(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load env file: %v\n", err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(cfg.LoggerSettings())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting document workflow server",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port),
		zap.String("transport", cfg.Notification.Transport),
		zap.Bool("inbox", cfg.Inbox.Enabled))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Build and start every component
	c, err := container.NewContainer(cfg.ToContainerConfig(), logger)
	if err != nil {
		logger.Fatal("Failed to create container", zap.Error(err))
	}
	if err := c.Start(ctx); err != nil {
		c.Close()
		logger.Fatal("Failed to start container", zap.Error(err))
	}
	defer c.Close()

	services := c.Services()
	server := httpapi.NewServer(httpapi.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	}, httpapi.Dependencies{
		Documents:     services.Document,
		Invoices:      services.Invoice,
		Notifications: services.Notification,
		Chat:          services.Chat,
		Uploads:       c.Uploads(),
		Settings:      c.Settings(),
	}, utils.NewSugarLogger(logger))

	// Blocks until SIGINT/SIGTERM
	if err := server.Start(ctx); err != nil {
		logger.Error("HTTP server stopped with error", zap.Error(err))
	}

	logger.Info("Server exited", zap.Any("health", c.Health()))
}
