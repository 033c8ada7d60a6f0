package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if cfg.MaxDimension != 1500 {
		t.Errorf("expected default MaxDimension=1500, got %d", cfg.MaxDimension)
	}

	if cfg.MaxGIFSizeMB != 10 {
		t.Errorf("expected default MaxGIFSizeMB=10, got %d", cfg.MaxGIFSizeMB)
	}

	if cfg.JPEGQuality != 85 {
		t.Errorf("expected default JPEGQuality=85, got %d", cfg.JPEGQuality)
	}

	if cfg.Naming != "same-name" {
		t.Errorf("expected default Naming='same-name', got %q", cfg.Naming)
	}

	if cfg.RecordPattern != "project-*.json" {
		t.Errorf("expected default RecordPattern='project-*.json', got %q", cfg.RecordPattern)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfig_MaxGIFBytes(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.MaxGIFBytes(); got != 10*1024*1024 {
		t.Errorf("expected 10 MiB, got %d", got)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	// Loading a non-existent file should return default config
	cfg, err := Load("/nonexistent/path/config.yaml")

	if err != nil {
		t.Fatalf("unexpected error loading non-existent file: %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	if cfg.MaxDimension != 1500 {
		t.Errorf("expected default MaxDimension=1500, got %d", cfg.MaxDimension)
	}
}

func TestSave_And_Load(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.MaxDimension = 2048
	cfg.Naming = "suffix"
	cfg.CDNBase = "res.cloudinary.com/other"
	cfg.ProfileWidth = 400

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	loadedCfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if *loadedCfg != *cfg {
		t.Errorf("loaded config differs:\n got  %+v\n want %+v", *loadedCfg, *cfg)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	// Partial config
	yamlContent := `max_dimension: 1000
naming: suffix
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to create test config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Should apply defaults for missing values
	if cfg.JPEGQuality != 85 {
		t.Errorf("expected default JPEGQuality=85, got %d", cfg.JPEGQuality)
	}

	if cfg.PreviewWidth != 800 {
		t.Errorf("expected default PreviewWidth=800, got %d", cfg.PreviewWidth)
	}

	// Should preserve specified values
	if cfg.MaxDimension != 1000 {
		t.Errorf("expected MaxDimension=1000, got %d", cfg.MaxDimension)
	}

	if cfg.Naming != "suffix" {
		t.Errorf("expected Naming='suffix', got %q", cfg.Naming)
	}
}

func TestLoad_NonPositiveValues(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		got      func(*Config) int
		expected int
	}{
		{"zero max_dimension", "max_dimension: 0\n", func(c *Config) int { return c.MaxDimension }, 1500},
		{"negative max_gif_size_mb", "max_gif_size_mb: -5\n", func(c *Config) int { return c.MaxGIFSizeMB }, 10},
		{"zero watch_debounce_ms", "watch_debounce_ms: 0\n", func(c *Config) int { return c.WatchDebounceMS }, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.yaml), 0644); err != nil {
				t.Fatalf("failed to create test config file: %v", err)
			}

			cfg, err := Load(configPath)
			if err != nil {
				t.Fatalf("failed to load config: %v", err)
			}

			if got := tt.got(cfg); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	yamlContent := `max_dimension: 1500
naming: [invalid yaml structure
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to create test config file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("expected error loading invalid YAML, got nil")
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nested", "dir", "config.yaml")

	cfg := DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read config file: %v", err)
	}
	if !strings.Contains(string(data), "max_dimension: 1500") {
		t.Errorf("config file should contain max_dimension, got:\n%s", data)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"zero dimension", func(c *Config) { c.MaxDimension = 0 }, "max_dimension"},
		{"quality too high", func(c *Config) { c.JPEGQuality = 101 }, "jpeg_quality"},
		{"unknown naming", func(c *Config) { c.Naming = "random" }, "naming"},
		{"zero profile width", func(c *Config) { c.ProfileWidth = 0 }, "profile_width"},
		{"bad pattern", func(c *Config) { c.RecordPattern = "project-[.json" }, "record_pattern"},
		{"bad theme", func(c *Config) { c.ColorTheme = "neon" }, "color_theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvInput:        "/photos",
		EnvOutput:       "/photos/out",
		EnvMaxDimension: " 1200 ",
		EnvJPEGQuality:  "70",
		EnvCDNBase:      "res.cloudinary.com/test",
		EnvMaxGIFMB:     "",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}

	if cfg.InputDir != "/photos" || cfg.OutputDir != "/photos/out" {
		t.Errorf("paths not overridden: %q %q", cfg.InputDir, cfg.OutputDir)
	}
	if cfg.MaxDimension != 1200 {
		t.Errorf("expected MaxDimension=1200, got %d", cfg.MaxDimension)
	}
	if cfg.JPEGQuality != 70 {
		t.Errorf("expected JPEGQuality=70, got %d", cfg.JPEGQuality)
	}
	if cfg.MaxGIFSizeMB != 10 {
		t.Errorf("empty value should keep MaxGIFSizeMB=10, got %d", cfg.MaxGIFSizeMB)
	}
	if cfg.CDNBase != "res.cloudinary.com/test" {
		t.Errorf("expected CDNBase override, got %q", cfg.CDNBase)
	}
}

func TestConfig_ApplyEnvInvalidNumber(t *testing.T) {
	lookup := func(key string) (string, bool) {
		if key == EnvMaxDimension {
			return "big", true
		}
		return "", false
	}

	cfg := DefaultConfig()
	err := cfg.ApplyEnv(lookup)
	if err == nil || !strings.Contains(err.Error(), EnvMaxDimension) {
		t.Errorf("expected error naming %s, got %v", EnvMaxDimension, err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("missing .env should not be an error: %v", err)
	}

	const key = "FOLIO_TEST_ENV_FILE_KEY"
	envPath := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envPath, []byte(key+"=from-file\n"), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv(key) })

	if err := LoadEnvFile(envPath); err != nil {
		t.Fatalf("LoadEnvFile failed: %v", err)
	}
	if got := os.Getenv(key); got != "from-file" {
		t.Errorf("expected %s=from-file, got %q", key, got)
	}
}
