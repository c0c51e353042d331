package store

import (
	"context"
	"sync"

	"github.com/ukaji3/exmerge-go/pkg/exmerge/models"
)

// Memory is a process-local Store guarded by a single mutex.
type Memory struct {
	mu  sync.Mutex
	tpl *models.Template
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Set stores a copy of tpl.
func (m *Memory) Set(_ context.Context, tpl models.Template) error {
	c := tpl.Clone()
	m.mu.Lock()
	m.tpl = &c
	m.mu.Unlock()
	return nil
}

// Get returns a copy of the stored template or ErrNotFound.
func (m *Memory) Get(_ context.Context) (models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tpl == nil {
		return models.Template{}, ErrNotFound
	}
	// Callers get their own copy of the bytes.
	return m.tpl.Clone(), nil
}

// Clear drops the stored template.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.tpl = nil
	m.mu.Unlock()
	return nil
}

// Has reports whether a template is stored.
func (m *Memory) Has(_ context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tpl != nil, nil
}

// Ping always succeeds.
func (m *Memory) Ping(_ context.Context) error {
	return nil
}
