package filestorage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/siprista/backend/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string
}

var _ FileStorage = (*LocalStorage)(nil)

// NewLocalStorage creates the directory basePath if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Save writes to a temporary file in the storage directory and renames it into place,
// so a failed export never leaves a partial file under name. An existing file is replaced.
func (ls *LocalStorage) Save(ctx context.Context, name string, write WriteFunc) (string, error) {
	filename, err := cleanName(name)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(ls.basePath, "."+filename+".*")
	if err != nil {
		logger.Error().Err(err).Str("path", ls.basePath).Msg("Failed to create temporary file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	tmpPath := tmp.Name()

	writeErr := write(tmp)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr, ctx.Err()); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	dstPath := filepath.Join(ls.basePath, filename)
	if err := os.Rename(tmpPath, dstPath); err != nil {
		_ = os.Remove(tmpPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to move file into place")
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	logger.Info().Str("path", dstPath).Msg("File saved successfully")
	return dstPath, nil
}

// DeleteFile removes a stored file. Returns nil if the file doesn't exist.
func (ls *LocalStorage) DeleteFile(name string) error {
	filename, err := cleanName(name)
	if err != nil {
		return err
	}
	physicalPath := filepath.Join(ls.basePath, filename)
	if err := os.Remove(physicalPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetFullPath returns the full filesystem path for a given name, or "" when the
// name has no file component.
func (ls *LocalStorage) GetFullPath(name string) string {
	filename, err := cleanName(name)
	if err != nil {
		return ""
	}
	return filepath.Join(ls.basePath, filename)
}

// cleanName keeps only the final path element so callers cannot escape basePath.
func cleanName(name string) (string, error) {
	filename := filepath.Base(name)
	if filename == "" || filename == "." || filename == ".." || filename == string(filepath.Separator) {
		return "", fmt.Errorf("invalid file name: %q", name)
	}
	return filename, nil
}
