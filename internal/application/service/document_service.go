package service

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/document"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"golang.org/x/sync/errgroup"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// WorkflowRunner runs the workflow for one document
type WorkflowRunner interface {
	Handle(ctx context.Context, doc entity.Document, instruction string, settings entity.Settings) (*entity.WorkflowResult, error)
}

// BatchResult is the outcome of one file of a batch
type BatchResult struct {
	Path   string
	Result *entity.WorkflowResult
	Err    error
}

// DocumentService runs the workflow over files on disk
type DocumentService interface {
	Process(ctx context.Context, path, instruction string, settings entity.Settings) (*entity.WorkflowResult, error)
	// ProcessBatch returns one result per path, in input order
	ProcessBatch(ctx context.Context, paths []string, instruction string, settings entity.Settings) []BatchResult
}

type documentServiceImpl struct {
	runner      WorkflowRunner
	concurrency int
	logger      Logger
}

// NewDocumentService creates a new DocumentService. concurrency bounds the
// files of a batch processed at once.
func NewDocumentService(runner WorkflowRunner, concurrency int, logger Logger) DocumentService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &documentServiceImpl{
		runner:      runner,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Process runs the workflow on a single file
func (s *documentServiceImpl) Process(ctx context.Context, path, instruction string, settings entity.Settings) (*entity.WorkflowResult, error) {
	if !document.SupportedExtension(path) {
		return nil, fmt.Errorf("%w: %s", document.ErrUnsupportedFormat, filepath.Ext(path))
	}

	s.logger.Info("Processing document", "path", path)

	result, err := s.runner.Handle(ctx, entity.Document{SourcePath: path}, instruction, settings)
	if err != nil {
		s.logger.Error("Failed to process document", "path", path, "error", err)
		return result, fmt.Errorf("failed to process %s: %w", path, err)
	}

	s.logger.Info("Document processed",
		"path", path,
		"doc_type", result.DocType,
		"run_state", result.RunState,
	)
	return result, nil
}

// ProcessBatch runs the files concurrently. A failing file never stops the
// others.
func (s *documentServiceImpl) ProcessBatch(ctx context.Context, paths []string, instruction string, settings entity.Settings) []BatchResult {
	results := make([]BatchResult, len(paths))

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			result, err := s.Process(ctx, path, instruction, settings)
			results[i] = BatchResult{Path: path, Result: result, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	s.logger.Info("Batch processed", "files", len(paths), "failed", failed)

	return results
}
