package core

import (
	"errors"
	"io/fs"
	"sync"

	"setupdata/internal/manifest"
)

// ManifestStore abstracts layout manifest persistence for testability.
type ManifestStore interface {
	Load() (*manifest.Manifest, error)
	Save(*manifest.Manifest) error
}

// FileManifestStore implements ManifestStore using a JSON file.
type FileManifestStore struct {
	File string
}

func NewFileManifestStore(file string) *FileManifestStore {
	return &FileManifestStore{File: file}
}

// Load returns the stored manifest, or nil if none has been written yet.
func (s *FileManifestStore) Load() (*manifest.Manifest, error) {
	m, err := manifest.LoadFromFile(s.File)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return m, err
}

func (s *FileManifestStore) Save(m *manifest.Manifest) error {
	return m.SaveToFile(s.File)
}

// InMemoryManifestStore implements ManifestStore for testing (no disk I/O).
type InMemoryManifestStore struct {
	mu    sync.Mutex
	saved *manifest.Manifest
}

func NewInMemoryManifestStore() *InMemoryManifestStore {
	return &InMemoryManifestStore{}
}

func (ms *InMemoryManifestStore) Load() (*manifest.Manifest, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.saved == nil {
		return nil, nil
	}
	// Return a copy to avoid mutation
	cpy := *ms.saved
	cpy.Fields = append(cpy.Fields[:0:0], ms.saved.Fields...)
	return &cpy, nil
}

func (ms *InMemoryManifestStore) Save(m *manifest.Manifest) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	// Store a copy to avoid mutation
	cpy := *m
	cpy.Fields = append(cpy.Fields[:0:0], m.Fields...)
	ms.saved = &cpy
	return nil
}
