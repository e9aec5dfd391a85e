package worker

import (
	"context"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/document"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"go.uber.org/zap"
)

// Subdirectories of the inbox that receive handled files
const (
	ProcessedDir = "processed"
	FailedDir    = "failed"
)

// DocumentProcessor runs the workflow on one file
type DocumentProcessor interface {
	Process(ctx context.Context, path, instruction string, settings entity.Settings) (*entity.WorkflowResult, error)
}

// InboxWorkerConfig holds configuration for the inbox worker
type InboxWorkerConfig struct {
	PollInterval   time.Duration
	ProcessTimeout time.Duration
	Instruction    string
	Settings       entity.Settings
}

// DefaultInboxWorkerConfig returns default configuration
func DefaultInboxWorkerConfig() InboxWorkerConfig {
	return InboxWorkerConfig{
		PollInterval:   30 * time.Second,
		ProcessTimeout: 120 * time.Second,
	}
}

// InboxWorker picks up documents dropped into a directory and runs the
// workflow on each of them
type InboxWorker struct {
	config    InboxWorkerConfig
	inbox     port.FileStorage
	processor DocumentProcessor
	logger    *zap.Logger

	mu             sync.RWMutex
	cancel         context.CancelFunc
	done           chan struct{}
	isRunning      bool
	processedCount int
	failedCount    int
	lastError      error
}

// NewInboxWorker creates a worker over the inbox storage
func NewInboxWorker(config InboxWorkerConfig, inbox port.FileStorage, processor DocumentProcessor, logger *zap.Logger) *InboxWorker {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultInboxWorkerConfig().PollInterval
	}
	if config.ProcessTimeout <= 0 {
		config.ProcessTimeout = DefaultInboxWorkerConfig().ProcessTimeout
	}
	return &InboxWorker{
		config:    config,
		inbox:     inbox,
		processor: processor,
		logger:    logger,
	}
}

// Start begins the polling loop
func (w *InboxWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return fmt.Errorf("inbox worker already running")
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	w.isRunning = true
	w.mu.Unlock()

	w.logger.Info("InboxWorker started",
		zap.String("inbox", w.inbox.GetFullPath("")),
		zap.Duration("poll_interval", w.config.PollInterval))

	go w.pollLoop(ctx)

	return nil
}

// Stop cancels the loop and waits for the file in progress
func (w *InboxWorker) Stop() error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}
	w.isRunning = false
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	cancel()
	<-done

	processed, failed := w.Counts()
	w.logger.Info("InboxWorker stopped",
		zap.Int("processed_count", processed),
		zap.Int("failed_count", failed))

	return nil
}

// Name returns the worker name for identification
func (w *InboxWorker) Name() string {
	return "InboxWorker"
}

// Counts returns how many files were processed and how many failed
func (w *InboxWorker) Counts() (processed, failed int) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.processedCount, w.failedCount
}

// LastError returns the most recent listing or processing error
func (w *InboxWorker) LastError() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastError
}

func (w *InboxWorker) pollLoop(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	w.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("Poll loop context cancelled")
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// poll handles every supported file currently in the inbox
func (w *InboxWorker) poll(ctx context.Context) {
	files, err := w.inbox.List(ctx, "")
	if err != nil {
		w.logger.Error("Failed to list inbox", zap.Error(err))
		w.mu.Lock()
		w.lastError = err
		w.mu.Unlock()
		return
	}

	for _, file := range files {
		if ctx.Err() != nil {
			return
		}
		if !document.SupportedExtension(file) {
			continue
		}
		w.handle(ctx, file)
	}
}

func (w *InboxWorker) handle(ctx context.Context, file string) {
	processCtx, cancel := context.WithTimeout(ctx, w.config.ProcessTimeout)
	defer cancel()

	result, err := w.processor.Process(processCtx, w.inbox.GetFullPath(file), w.config.Instruction, w.config.Settings)

	dest := ProcessedDir
	if err != nil {
		dest = FailedDir
		w.logger.Error("Inbox document failed",
			zap.String("file", file),
			zap.Error(err))
	} else {
		w.logger.Info("Inbox document processed",
			zap.String("file", file),
			zap.String("doc_type", string(result.DocType)),
			zap.String("run_state", result.RunState))
	}

	if moveErr := w.inbox.Move(ctx, file, path.Join(dest, path.Base(file))); moveErr != nil {
		w.logger.Error("Failed to move inbox document",
			zap.String("file", file),
			zap.String("destination", dest),
			zap.Error(moveErr))
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.failedCount++
		w.lastError = err
	} else {
		w.processedCount++
	}
}
