package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/tendant/artifact-catalog/pkg/artifactcatalog"
)

// Backend is an in-memory implementation of the artifactcatalog.BlobStore
// interface. URLs it returns use a memory:// scheme and only resolve through
// Download; it exists for tests and development.
type Backend struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates a new in-memory storage backend
func New() artifactcatalog.BlobStore {
	return &Backend{
		objects: make(map[string][]byte),
	}
}

// Upload stores the object and returns its public URL
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[objectKey] = data
	return "memory://artifact-images/" + objectKey, nil
}

// Download retrieves the object directly
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, errors.New("object not found")
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the object
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; !exists {
		return errors.New("object not found")
	}

	delete(b.objects, objectKey)
	return nil
}
