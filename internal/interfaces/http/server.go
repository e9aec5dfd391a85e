// Package http exposes the document workflow and the record store over a
// JSON API.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/service"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxUploadBytes int64
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:           "0.0.0.0",
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   180 * time.Second,
		MaxUploadBytes: 20 << 20,
	}
}

// Dependencies are the services the API is built on
type Dependencies struct {
	Documents     service.DocumentService
	Invoices      service.InvoiceService
	Notifications service.NotificationService
	Chat          service.ChatService
	Uploads       port.FileStorage
	// Settings are the run defaults a request can override
	Settings entity.Settings
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	deps       Dependencies
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(config ServerConfig, deps Dependencies, logger Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.MaxMultipartMemory = config.MaxUploadBytes

	server := &Server{
		config: config,
		router: router,
		deps:   deps,
		logger: logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.deps, s.config.MaxUploadBytes, s.logger)

	s.router.GET("/health", handlers.HealthCheck)

	api := s.router.Group("/api")
	{
		api.POST("/documents", handlers.ProcessDocument)

		api.GET("/invoices", handlers.ListInvoices)
		api.GET("/invoices/:id", handlers.GetInvoice)
		api.GET("/invoices/:id/tickets", handlers.ListInvoiceTickets)
		api.GET("/invoices/:id/report", handlers.InvoiceReport)

		api.GET("/tickets/:id", handlers.GetTicket)
		api.GET("/notifications", handlers.ListNotifications)

		api.POST("/chat", handlers.Chat)
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
