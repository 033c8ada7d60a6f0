package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
)

const sampleProject = `{
    "id": "bridge",
    "title": "Bridge — Über",
    "year": 2024,
    "ratio": 1.5,
    "featured": true,
    "previewImage": "https://res.cloudinary.com/demo/image/upload/v1/bridge.jpg?a=1&b=2",
    "tags": [],
    "meta": {},
    "content": {
        "media": [
            {
                "type": "video",
                "src": "https://res.cloudinary.com/demo/video/upload/v1/walk.mp4"
            }
        ],
        "notes": null
    }
}`

func newTestRepo(t *testing.T, files map[string]string) (afero.Fs, *FileRecordRepository) {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/site/projects", 0755))
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0644))
	}

	repo := NewFileRecordRepository(fs, RecordRepositoryConfig{
		Dir:          "/site/projects",
		Pattern:      "project-*.json",
		AboutPath:    "/site/about.json",
		BackupRoot:   "/site",
		BackupPrefix: "projects_backup_",
	})
	return fs, repo
}

func TestFileRecordRepository_List(t *testing.T) {
	_, repo := newTestRepo(t, map[string]string{
		"/site/projects/project-b.json": "{}",
		"/site/projects/project-a.json": "{}",
		"/site/projects/notes.json":     "{}",
		"/site/projects/project-c.txt":  "{}",
	})

	paths, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{
		"/site/projects/project-a.json",
		"/site/projects/project-b.json",
	}, paths)
}

func TestFileRecordRepository_ListMissingDir(t *testing.T) {
	repo := NewFileRecordRepository(afero.NewMemMapFs(), RecordRepositoryConfig{Dir: "/nowhere", Pattern: "*.json"})

	_, err := repo.List(context.Background())
	require.Error(t, err)
}

func TestFileRecordRepository_AboutPath(t *testing.T) {
	_, repo := newTestRepo(t, nil)
	_, ok := repo.AboutPath(context.Background())
	require.False(t, ok)

	_, repo = newTestRepo(t, map[string]string{"/site/about.json": "{}"})
	path, ok := repo.AboutPath(context.Background())
	require.True(t, ok)
	require.Equal(t, "/site/about.json", path)
}

func TestFileRecordRepository_RoundTripIsVerbatim(t *testing.T) {
	path := "/site/projects/project-bridge.json"
	fs, repo := newTestRepo(t, map[string]string{path: sampleProject})
	ctx := context.Background()

	record, err := repo.Read(ctx, path)
	require.NoError(t, err)
	require.Equal(t, []string{"id", "title", "year", "ratio", "featured", "previewImage", "tags", "meta", "content"}, record.Root.Keys())

	require.NoError(t, repo.Write(ctx, record))

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	require.Equal(t, sampleProject, string(data))
}

func TestFileRecordRepository_WriteKeepsKeyPosition(t *testing.T) {
	path := "/site/projects/project-bridge.json"
	fs, repo := newTestRepo(t, map[string]string{path: `{"b": 1, "a": "x", "c": [1, 2]}`})
	ctx := context.Background()

	record, err := repo.Read(ctx, path)
	require.NoError(t, err)
	record.Root.Set("a", "y")
	require.NoError(t, repo.Write(ctx, record))

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	require.Equal(t, "{\n    \"b\": 1,\n    \"a\": \"y\",\n    \"c\": [\n        1,\n        2\n    ]\n}", string(data))
}

func TestFileRecordRepository_ReadMalformed(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "truncated", content: `{"id": "x"`},
		{name: "array root", content: `[1, 2]`},
		{name: "trailing data", content: `{"id": "x"} {"id": "y"}`},
		{name: "empty", content: ``},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := "/site/projects/project-bad.json"
			_, repo := newTestRepo(t, map[string]string{path: tc.content})

			_, err := repo.Read(context.Background(), path)
			require.Error(t, err)
			require.True(t, errors.Is(err, domain.ErrMalformedRecord))
		})
	}
}

func TestFileRecordRepository_Backup(t *testing.T) {
	files := map[string]string{
		"/site/projects/project-a.json": `{"id":"a"}`,
		"/site/about.json":              `{"profile": {}}`,
	}
	fs, repo := newTestRepo(t, files)

	at := time.Date(2025, 10, 31, 21, 41, 44, 0, time.UTC)
	dir, err := repo.Backup(context.Background(), []string{"/site/projects/project-a.json", "/site/about.json"}, at)
	require.NoError(t, err)
	require.Equal(t, "/site/projects_backup_20251031_214144", dir)

	for src, content := range files {
		data, err := afero.ReadFile(fs, filepath.Join(dir, filepath.Base(src)))
		require.NoError(t, err)
		require.Equal(t, content, string(data))
	}
}

func TestFileRecordRepository_BackupMissingSource(t *testing.T) {
	_, repo := newTestRepo(t, nil)

	_, err := repo.Backup(context.Background(), []string{"/site/projects/project-gone.json"}, time.Now())
	require.Error(t, err)
}

func TestFileRecordRepository_ListAndRemoveBackups(t *testing.T) {
	fs, repo := newTestRepo(t, nil)
	for _, dir := range []string{
		"/site/projects_backup_20250301_101500",
		"/site/projects_backup_20250101_090000",
		"/site/projects_backup_notadate",
		"/site/other_20250101_090000",
	} {
		require.NoError(t, fs.MkdirAll(dir, 0755))
	}
	require.NoError(t, afero.WriteFile(fs, "/site/projects_backup_20250401_000000", []byte("file, not dir"), 0644))

	ctx := context.Background()
	dirs, err := repo.ListBackups(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{
		"/site/projects_backup_20250101_090000",
		"/site/projects_backup_20250301_101500",
	}, dirs)

	require.NoError(t, repo.RemoveBackup(ctx, dirs[0]))
	exists, err := afero.DirExists(fs, dirs[0])
	require.NoError(t, err)
	require.False(t, exists)

	require.Error(t, repo.RemoveBackup(ctx, "/site/projects"))
	require.Error(t, repo.RemoveBackup(ctx, "/elsewhere/projects_backup_20250301_101500"))
}
