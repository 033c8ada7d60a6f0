package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports"
)

// BackupTimeFormat names backup directories, e.g. projects_backup_20251031_214144
const BackupTimeFormat = "20060102_150405"

// RecordRepositoryConfig locates record files and backups
type RecordRepositoryConfig struct {
	Dir          string // Directory holding project records
	Pattern      string // Glob for project records, e.g. "project-*.json"
	AboutPath    string // Optional profile record
	BackupRoot   string // Parent directory for backups
	BackupPrefix string
}

// FileRecordRepository stores records as JSON files
type FileRecordRepository struct {
	fs  afero.Fs
	cfg RecordRepositoryConfig
}

// Ensure it implements the interface
var _ ports.RecordRepository = (*FileRecordRepository)(nil)

// NewFileRecordRepository creates a repository over fs
func NewFileRecordRepository(fs afero.Fs, cfg RecordRepositoryConfig) *FileRecordRepository {
	if cfg.Pattern == "" {
		cfg.Pattern = "*.json"
	}
	return &FileRecordRepository{fs: fs, cfg: cfg}
}

// List returns the project record paths sorted by name
func (r *FileRecordRepository) List(ctx context.Context) ([]string, error) {
	info, err := r.fs.Stat(r.cfg.Dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("records directory not found: %s", r.cfg.Dir)
	}

	matches, err := afero.Glob(r.fs, filepath.Join(r.cfg.Dir, r.cfg.Pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid record pattern %q: %w", r.cfg.Pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// AboutPath returns the profile record path if the file exists
func (r *FileRecordRepository) AboutPath(ctx context.Context) (string, bool) {
	if r.cfg.AboutPath == "" {
		return "", false
	}
	exists, err := afero.Exists(r.fs, r.cfg.AboutPath)
	if err != nil || !exists {
		return "", false
	}
	return r.cfg.AboutPath, true
}

// Read parses a record file
func (r *FileRecordRepository) Read(ctx context.Context, path string) (*domain.Record, error) {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	root, err := decodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedRecord, filepath.Base(path), err)
	}

	return &domain.Record{Path: path, Root: root}, nil
}

// Write persists a record in place, keeping the file's permissions
func (r *FileRecordRepository) Write(ctx context.Context, record *domain.Record) error {
	data, err := encodeObject(record.Root)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	perm := os.FileMode(0644)
	if info, err := r.fs.Stat(record.Path); err == nil {
		perm = info.Mode().Perm()
	}

	if err := afero.WriteFile(r.fs, record.Path, data, perm); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Backup copies paths byte-for-byte into <BackupRoot>/<BackupPrefix><timestamp>
func (r *FileRecordRepository) Backup(ctx context.Context, paths []string, at time.Time) (string, error) {
	dir := filepath.Join(r.cfg.BackupRoot, r.cfg.BackupPrefix+at.Format(BackupTimeFormat))
	if err := r.fs.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	for _, path := range paths {
		data, err := afero.ReadFile(r.fs, path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s for backup: %w", path, err)
		}
		if err := afero.WriteFile(r.fs, filepath.Join(dir, filepath.Base(path)), data, 0644); err != nil {
			return "", fmt.Errorf("failed to back up %s: %w", path, err)
		}
	}

	return dir, nil
}

// ListBackups returns backup directories under BackupRoot, oldest first.
// The timestamp suffix sorts chronologically.
func (r *FileRecordRepository) ListBackups(ctx context.Context) ([]string, error) {
	if r.cfg.BackupPrefix == "" {
		return nil, fmt.Errorf("backup prefix is not configured")
	}

	entries, err := afero.ReadDir(r.fs, r.cfg.BackupRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup root: %w", err)
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), r.cfg.BackupPrefix) {
			continue
		}
		stamp := strings.TrimPrefix(entry.Name(), r.cfg.BackupPrefix)
		if _, err := time.Parse(BackupTimeFormat, stamp); err != nil {
			continue
		}
		dirs = append(dirs, filepath.Join(r.cfg.BackupRoot, entry.Name()))
	}
	sort.Strings(dirs)
	return dirs, nil
}

// RemoveBackup deletes a backup directory created by Backup
func (r *FileRecordRepository) RemoveBackup(ctx context.Context, dir string) error {
	if filepath.Dir(dir) != filepath.Clean(r.cfg.BackupRoot) || !strings.HasPrefix(filepath.Base(dir), r.cfg.BackupPrefix) {
		return fmt.Errorf("refusing to remove %s: not a backup directory", dir)
	}
	if err := r.fs.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove backup %s: %w", dir, err)
	}
	return nil
}
