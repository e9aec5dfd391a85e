package port

import "context"

// FileStorage defines file storage operations
type FileStorage interface {
	Save(ctx context.Context, path string, content []byte) error
	Read(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) bool
	Delete(ctx context.Context, path string) error
	// Move renames a stored file inside the storage root
	Move(ctx context.Context, from, to string) error
	// List returns the relative paths of regular files directly under dir
	List(ctx context.Context, dir string) ([]string, error)
	GetFullPath(relativePath string) string
}

// TextLoader turns a stored document into text
type TextLoader interface {
	LoadText(ctx context.Context, path string) (string, error)
}
