package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"go.uber.org/zap"
)

// DocumentStore keeps uploaded and inbox documents under one root directory
type DocumentStore struct {
	root   string
	logger *zap.Logger
}

// NewDocumentStore creates a store rooted at root
func NewDocumentStore(root string, logger *zap.Logger) *DocumentStore {
	return &DocumentStore{
		root:   root,
		logger: logger,
	}
}

// Save writes content to path, creating parent directories
func (s *DocumentStore) Save(ctx context.Context, path string, content []byte) error {
	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create document directory",
			zap.String("path", fullPath),
			zap.Error(err))
		return fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write document",
			zap.String("path", fullPath),
			zap.Error(err))
		return fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("Document stored",
		zap.String("path", fullPath),
		zap.Int("size", len(content)))
	return nil
}

// Read returns the content stored at path
func (s *DocumentStore) Read(ctx context.Context, path string) ([]byte, error) {
	fullPath, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return content, nil
}

// Exists reports whether a regular file is stored at path
func (s *DocumentStore) Exists(ctx context.Context, path string) bool {
	fullPath, err := s.resolve(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(fullPath)
	return err == nil && info.Mode().IsRegular()
}

// Delete removes path. Missing files are not an error.
func (s *DocumentStore) Delete(ctx context.Context, path string) error {
	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		s.logger.Error("Failed to delete document",
			zap.String("path", fullPath),
			zap.Error(err))
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Move renames from to to, creating the destination directory
func (s *DocumentStore) Move(ctx context.Context, from, to string) error {
	src, err := s.resolve(from)
	if err != nil {
		return err
	}
	dst, err := s.resolve(to)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := os.Rename(src, dst); err != nil {
		s.logger.Error("Failed to move document",
			zap.String("from", src),
			zap.String("to", dst),
			zap.Error(err))
		return fmt.Errorf("failed to move file: %w", err)
	}

	s.logger.Debug("Document moved",
		zap.String("from", src),
		zap.String("to", dst))
	return nil
}

// List returns the regular files directly under dir as sorted relative
// paths. A missing directory yields an empty list.
func (s *DocumentStore) List(ctx context.Context, dir string) ([]string, error) {
	fullDir, err := s.resolve(dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(fullDir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// GetFullPath joins path onto the store root
func (s *DocumentStore) GetFullPath(path string) string {
	return filepath.Join(s.root, path)
}

// resolve maps a relative path into the root and rejects escapes
func (s *DocumentStore) resolve(path string) (string, error) {
	absRoot, err := filepath.Abs(s.root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root: %w", err)
	}
	absPath, err := filepath.Abs(s.GetFullPath(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	if absPath != absRoot && !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes storage root: %s", path)
	}
	return absPath, nil
}

// Verify interface compliance
var _ port.FileStorage = (*DocumentStore)(nil)
