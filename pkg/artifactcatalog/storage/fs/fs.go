package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tendant/artifact-catalog/pkg/artifactcatalog"
)

// Backend is a filesystem implementation of the artifactcatalog.BlobStore
// interface. Files are served publicly by whatever fronts the base directory
// (nginx, a static file handler); URLPrefix is the public prefix for that.
type Backend struct {
	baseDir   string
	urlPrefix string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir   string // Base directory for storing files
	URLPrefix string // Public URL prefix for stored files
}

// New creates a new filesystem storage backend
func New(config Config) (artifactcatalog.BlobStore, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir:   config.BaseDir,
		urlPrefix: strings.TrimRight(config.URLPrefix, "/"),
	}, nil
}

// Upload stores the object and returns its public URL
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) (string, error) {
	filePath := filepath.Join(b.baseDir, objectKey)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return b.urlPrefix + "/" + objectKey, nil
}

// Download retrieves the object directly
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	filePath := filepath.Join(b.baseDir, objectKey)

	file, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return nil, errors.New("object not found")
	} else if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete removes the object
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	filePath := filepath.Join(b.baseDir, objectKey)

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return errors.New("object not found")
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}
