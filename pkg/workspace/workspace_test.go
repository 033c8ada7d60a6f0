package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_UsesXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/test/config")

	ws, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	expected := filepath.Join("/test/config", "folio", "config.yaml")
	if ws.ConfigPath != expected {
		t.Errorf("ConfigPath = %q, want %q", ws.ConfigPath, expected)
	}
	if ws.EnvPath != ".env" {
		t.Errorf("EnvPath = %q, want .env", ws.EnvPath)
	}
}

func TestResolveSite(t *testing.T) {
	tests := []struct {
		name       string
		recordsDir string
		aboutFile  string
		expected   Site
	}{
		{
			name:       "relative records dir",
			recordsDir: "projects",
			aboutFile:  "about.json",
			expected:   Site{RecordsDir: "projects", AboutPath: "about.json", BackupRoot: "."},
		},
		{
			name:       "absolute records dir with trailing slash",
			recordsDir: "/site/data/projects/",
			aboutFile:  "about.json",
			expected:   Site{RecordsDir: "/site/data/projects", AboutPath: "/site/data/about.json", BackupRoot: "/site/data"},
		},
		{
			name:       "no profile record",
			recordsDir: "/site/projects",
			aboutFile:  "",
			expected:   Site{RecordsDir: "/site/projects", BackupRoot: "/site"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveSite(tt.recordsDir, tt.aboutFile)
			if got != tt.expected {
				t.Errorf("ResolveSite(%q) = %+v, want %+v", tt.recordsDir, got, tt.expected)
			}
		})
	}
}

func TestResolveOutputDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bridge.jpg")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		output   string
		expected string
	}{
		{"relative inside directory", dir, "resized", filepath.Join(dir, "resized")},
		{"relative next to file", file, "resized", filepath.Join(dir, "resized")},
		{"absolute kept", dir, "/out", "/out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveOutputDir(tt.input, tt.output); got != tt.expected {
				t.Errorf("ResolveOutputDir(%q, %q) = %q, want %q", tt.input, tt.output, got, tt.expected)
			}
		})
	}
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	if !IsDir(dir) {
		t.Errorf("IsDir(%q) = false", dir)
	}
	if IsDir(filepath.Join(dir, "missing")) {
		t.Error("IsDir on missing path = true")
	}
}
