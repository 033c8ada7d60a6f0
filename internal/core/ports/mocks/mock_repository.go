package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
)

// MockRecordRepository is an in-memory RecordRepository for testing.
// Records are stored as their root objects so tests can inspect writes.
type MockRecordRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.Object
	about   string

	// Written lists paths passed to Write in call order
	Written []string

	// Backups lists the path sets passed to Backup
	Backups [][]string

	// BackupDirs are the existing backup directories, oldest first
	BackupDirs []string

	// Malformed paths fail to Read with ErrMalformedRecord
	Malformed map[string]bool

	ListErr   error
	BackupErr error
	WriteErr  error
}

// NewMockRecordRepository creates a new mock record repository
func NewMockRecordRepository() *MockRecordRepository {
	return &MockRecordRepository{
		records:   make(map[string]*domain.Object),
		Malformed: make(map[string]bool),
	}
}

// Add stores a record root under path
func (m *MockRecordRepository) Add(path string, root *domain.Object) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[path] = root
}

// SetAbout stores the profile record
func (m *MockRecordRepository) SetAbout(path string, root *domain.Object) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.about = path
	m.records[path] = root
}

// Root returns the stored root for path
func (m *MockRecordRepository) Root(path string) *domain.Object {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records[path]
}

// List returns the project record paths sorted
func (m *MockRecordRepository) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}

	paths := make([]string, 0, len(m.records))
	for path := range m.records {
		if path != m.about {
			paths = append(paths, path)
		}
	}
	for path := range m.Malformed {
		if _, ok := m.records[path]; !ok {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// AboutPath returns the profile record path if one was set
func (m *MockRecordRepository) AboutPath(ctx context.Context) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.about, m.about != ""
}

// Read returns the stored record
func (m *MockRecordRepository) Read(ctx context.Context, path string) (*domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Malformed[path] {
		return nil, fmt.Errorf("%w: %s", domain.ErrMalformedRecord, path)
	}
	root, ok := m.records[path]
	if !ok {
		return nil, fmt.Errorf("record not found: %s", path)
	}
	return &domain.Record{Path: path, Root: root}, nil
}

// Write records the call and stores the root
func (m *MockRecordRepository) Write(ctx context.Context, record *domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Written = append(m.Written, record.Path)
	m.records[record.Path] = record.Root
	return nil
}

// Backup records the call and returns a fake directory name
func (m *MockRecordRepository) Backup(ctx context.Context, paths []string, at time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.BackupErr != nil {
		return "", m.BackupErr
	}
	if len(m.Written) > 0 {
		return "", fmt.Errorf("backup after write: %s", strings.Join(m.Written, ", "))
	}
	m.Backups = append(m.Backups, append([]string(nil), paths...))
	return "backup_" + at.Format("20060102_150405"), nil
}

// ListBackups returns BackupDirs
func (m *MockRecordRepository) ListBackups(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.BackupDirs...), nil
}

// RemoveBackup drops dir from BackupDirs
func (m *MockRecordRepository) RemoveBackup(ctx context.Context, dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, d := range m.BackupDirs {
		if d == dir {
			m.BackupDirs = append(m.BackupDirs[:i], m.BackupDirs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("backup not found: %s", dir)
}
