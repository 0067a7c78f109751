package storage

import (
	"context"
	"strings"
	"sync"
)

// MemoryStorage keeps objects in process. Used for local runs without a
// Cloudinary account and in tests.
type MemoryStorage struct {
	baseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStorage(baseURL string) *MemoryStorage {
	return &MemoryStorage{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string][]byte),
	}
}

func (m *MemoryStorage) key(bucket, path string) string {
	return publicID(bucket, path)
}

func (m *MemoryStorage) Upload(ctx context.Context, bucket, path string, data []byte, opts UploadOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k := m.key(bucket, path)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.objects[k]; exists && !opts.Overwrite {
		return &ConflictError{Path: k}
	}
	m.objects[k] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryStorage) PublicURL(bucket, path string) string {
	return m.baseURL + "/" + m.key(bucket, path)
}

func (m *MemoryStorage) Remove(ctx context.Context, bucket string, paths []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range paths {
		delete(m.objects, m.key(bucket, p))
	}
	return nil
}

func (m *MemoryStorage) Get(bucket, path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[m.key(bucket, path)]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return data, nil
}

func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string {
	return "object already exists: " + e.Path
}
