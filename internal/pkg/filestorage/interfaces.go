package filestorage

import (
	"context"
	"io"
)

// WriteFunc streams a file's content.
type WriteFunc func(w io.Writer) error

// FileStorage stores generated files such as report exports.
type FileStorage interface {
	// Save writes name through write and returns where it was stored.
	// The file only appears once write has succeeded.
	Save(ctx context.Context, name string, write WriteFunc) (string, error)

	// DeleteFile removes a stored file. Missing files are not an error.
	DeleteFile(name string) error

	// GetFullPath returns the filesystem path for a stored name.
	GetFullPath(name string) string
}
