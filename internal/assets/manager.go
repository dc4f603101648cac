package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/qmuntal/gltf"
)

// Manager shares parsed documents and raw file bytes between viewers, so
// a file opened by many sessions is read and parsed once.
type Manager struct {
	docs  *Cache[*gltf.Document]
	files *Cache[[]byte]

	// parse serializes misses per manager; concurrent callers for the same
	// path wait for the first parse instead of repeating it.
	parse sync.Mutex
}

// NewManager creates a manager with empty caches.
func NewManager() *Manager {
	return &Manager{
		docs:  NewCache[*gltf.Document](),
		files: NewCache[[]byte](),
	}
}

// Key normalizes a path into a cache key.
func Key(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Document returns the parsed document for path. Callers must treat it as
// read-only.
func (mg *Manager) Document(path string) (*gltf.Document, error) {
	if path == "" {
		return nil, ErrNoURL
	}
	key := Key(path)
	if doc, ok := mg.docs.Get(key); ok {
		return doc, nil
	}

	mg.parse.Lock()
	defer mg.parse.Unlock()
	if doc, ok := mg.docs.Get(key); ok {
		return doc, nil
	}

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model %s: %w", path, err)
	}
	mg.docs.Set(key, doc)
	return doc, nil
}

// Bytes returns the raw file content for path.
func (mg *Manager) Bytes(path string) ([]byte, error) {
	if path == "" {
		return nil, ErrNoURL
	}
	key := Key(path)
	if data, ok := mg.files.Get(key); ok {
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model %s: %w", path, err)
	}
	mg.files.Set(key, data)
	return data, nil
}

// Invalidate drops everything cached for path.
func (mg *Manager) Invalidate(path string) {
	key := Key(path)
	mg.docs.Delete(key)
	mg.files.Delete(key)
}

// Stats returns document cache hits and misses.
func (mg *Manager) Stats() (hits, misses int) {
	return mg.docs.Stats()
}

// Close empties both caches.
func (mg *Manager) Close() {
	mg.docs.Clear()
	mg.files.Clear()
}
