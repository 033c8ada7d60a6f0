package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace resolves the locations folio reads from and writes to
type Workspace struct {
	ConfigPath string
	EnvPath    string
}

// New creates a Workspace with an XDG-compliant config path and a .env
// file in the current directory
func New() (*Workspace, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", err)
	}

	return &Workspace{
		ConfigPath: configPath,
		EnvPath:    ".env",
	}, nil
}

func getConfigPath() (string, error) {
	// Check XDG_CONFIG_HOME first (Unix-like systems)
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "folio", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	// Check if we're on Windows by looking for APPDATA
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "folio", "config.yaml"), nil
	}

	// Fall back to ~/.config/folio/config.yaml (Unix-like systems)
	return filepath.Join(homeDir, ".config", "folio", "config.yaml"), nil
}

// Site holds the record locations of a portfolio site. The profile record
// and backups live next to the records directory.
type Site struct {
	RecordsDir string
	AboutPath  string
	BackupRoot string
}

// ResolveSite returns the Site for a records directory
func ResolveSite(recordsDir, aboutFile string) Site {
	recordsDir = filepath.Clean(recordsDir)
	root := filepath.Dir(recordsDir)

	site := Site{
		RecordsDir: recordsDir,
		BackupRoot: root,
	}
	if aboutFile != "" {
		site.AboutPath = filepath.Join(root, aboutFile)
	}
	return site
}

// ResolveOutputDir returns the output directory for an input path. A
// relative output directory is placed inside the input directory, or
// next to a single input file.
func ResolveOutputDir(input, output string) string {
	if filepath.IsAbs(output) {
		return output
	}

	base := input
	if info, err := os.Stat(input); err == nil && !info.IsDir() {
		base = filepath.Dir(input)
	}
	return filepath.Join(base, output)
}

// IsDir reports whether path exists and is a directory
func IsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
