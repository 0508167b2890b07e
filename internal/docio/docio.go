// Package docio is the byte-stream boundary between the content engine
// and whatever holds a document. The engine only ever sees the Resource
// interface; files and in-memory buffers are interchangeable.
package docio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/actiondocs/internal/content"
)

// Resource is an arbitrary document destination.
type Resource interface {
	// Name identifies the resource for locking and logging. Two Resource
	// values with the same Name are treated as the same destination.
	Name() string

	// Exists reports whether the resource currently holds content.
	Exists() bool

	// Read returns the current content. Reading a non-existent resource
	// yields empty content and no error.
	Read(ctx context.Context) (content.Content, error)

	// Write appends content to the resource, creating it when absent.
	Write(ctx context.Context, c content.Content) error

	// ReplaceAll overwrites the resource with content.
	ReplaceAll(ctx context.Context, c content.Content) error
}

// FileResource is a Resource backed by a file on disk. Replacement writes
// go through a temp file in the same directory followed by a rename, so
// readers never observe a partially written document.
type FileResource struct {
	path string
}

// NewFile returns a file-backed resource for path.
func NewFile(path string) *FileResource {
	return &FileResource{path: path}
}

func (f *FileResource) Name() string { return f.path }

func (f *FileResource) Exists() bool {
	info, err := os.Stat(f.path)
	return err == nil && !info.IsDir()
}

func (f *FileResource) Read(_ context.Context) (content.Content, error) {
	b, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return content.Empty, nil
	}
	if err != nil {
		return content.Empty, fmt.Errorf("read %s: %w", f.path, err)
	}
	return content.FromBytes(b), nil
}

func (f *FileResource) Write(ctx context.Context, c content.Content) error {
	existing, err := f.Read(ctx)
	if err != nil {
		return err
	}
	return f.ReplaceAll(ctx, existing.Append(c))
}

func (f *FileResource) ReplaceAll(_ context.Context, c content.Content) error {
	dir := filepath.Dir(f.path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(f.path), uuid.NewString()))
	if err := os.WriteFile(tmp, c.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write temp file for %s: %w", f.path, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

// MemResource is an in-memory Resource, used by tests and dry runs.
type MemResource struct {
	name string

	mu     sync.Mutex
	data   content.Content
	exists bool
}

// NewMem returns an in-memory resource with the given identity.
func NewMem(name string) *MemResource {
	return &MemResource{name: name}
}

// NewMemWith returns an in-memory resource pre-populated with content.
func NewMemWith(name string, c content.Content) *MemResource {
	return &MemResource{name: name, data: c, exists: true}
}

func (m *MemResource) Name() string { return m.name }

func (m *MemResource) Exists() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exists
}

func (m *MemResource) Read(_ context.Context) (content.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data, nil
}

func (m *MemResource) Write(_ context.Context, c content.Content) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = m.data.Append(c)
	m.exists = true
	return nil
}

func (m *MemResource) ReplaceAll(_ context.Context, c content.Content) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = c
	m.exists = true
	return nil
}
