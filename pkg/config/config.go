package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
)

// Environment variables that override file values
const (
	EnvInput        = "FOLIO_INPUT"
	EnvOutput       = "FOLIO_OUTPUT"
	EnvMaxDimension = "FOLIO_MAX_DIMENSION"
	EnvMaxGIFMB     = "FOLIO_MAX_GIF_MB"
	EnvJPEGQuality  = "FOLIO_JPEG_QUALITY"
	EnvCDNBase      = "FOLIO_CDN_BASE"
)

type Config struct {
	// Media Settings
	InputDir     string `yaml:"input_dir"`
	OutputDir    string `yaml:"output_dir"`
	MaxDimension int    `yaml:"max_dimension"`
	MaxGIFSizeMB int    `yaml:"max_gif_size_mb"`
	JPEGQuality  int    `yaml:"jpeg_quality"`
	Naming       string `yaml:"naming"`

	// CDN Settings
	CDNBase           string `yaml:"cdn_base"`
	PreviewWidth      int    `yaml:"preview_width"`
	ContentImageWidth int    `yaml:"content_image_width"`
	ContentVideoWidth int    `yaml:"content_video_width"`
	ProfileWidth      int    `yaml:"profile_width"`

	// Record Settings
	RecordsDir    string `yaml:"records_dir"`
	RecordPattern string `yaml:"record_pattern"`
	AboutFile     string `yaml:"about_file"`
	BackupPrefix  string `yaml:"backup_prefix"`

	// Backup Settings
	BackupRetention int `yaml:"backup_retention"`

	// Performance
	WatchDebounceMS int `yaml:"watch_debounce_ms"`

	// UI Settings
	ColorTheme string `yaml:"color_theme"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		InputDir:          ".",
		OutputDir:         "resized",
		MaxDimension:      1500,
		MaxGIFSizeMB:      10,
		JPEGQuality:       85,
		Naming:            string(domain.NamingSameName),
		CDNBase:           "res.cloudinary.com/dnahwqvhd",
		PreviewWidth:      800,
		ContentImageWidth: 1200,
		ContentVideoWidth: 1200,
		ProfileWidth:      800,
		RecordsDir:        "projects",
		RecordPattern:     "project-*.json",
		AboutFile:         "about.json",
		BackupPrefix:      "projects_backup_",
		BackupRetention:   5,
		WatchDebounceMS:   500,
		ColorTheme:        "auto",
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills empty or non-positive values left by a partial file
func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.InputDir == "" {
		c.InputDir = def.InputDir
	}
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if c.MaxDimension <= 0 {
		c.MaxDimension = def.MaxDimension
	}
	if c.MaxGIFSizeMB <= 0 {
		c.MaxGIFSizeMB = def.MaxGIFSizeMB
	}
	if c.JPEGQuality <= 0 {
		c.JPEGQuality = def.JPEGQuality
	}
	if c.Naming == "" {
		c.Naming = def.Naming
	}
	if c.CDNBase == "" {
		c.CDNBase = def.CDNBase
	}
	if c.PreviewWidth <= 0 {
		c.PreviewWidth = def.PreviewWidth
	}
	if c.ContentImageWidth <= 0 {
		c.ContentImageWidth = def.ContentImageWidth
	}
	if c.ContentVideoWidth <= 0 {
		c.ContentVideoWidth = def.ContentVideoWidth
	}
	if c.ProfileWidth <= 0 {
		c.ProfileWidth = def.ProfileWidth
	}
	if c.RecordsDir == "" {
		c.RecordsDir = def.RecordsDir
	}
	if c.RecordPattern == "" {
		c.RecordPattern = def.RecordPattern
	}
	if c.AboutFile == "" {
		c.AboutFile = def.AboutFile
	}
	if c.BackupPrefix == "" {
		c.BackupPrefix = def.BackupPrefix
	}
	if c.BackupRetention <= 0 {
		c.BackupRetention = def.BackupRetention
	}
	if c.WatchDebounceMS <= 0 {
		c.WatchDebounceMS = def.WatchDebounceMS
	}
	if c.ColorTheme == "" {
		c.ColorTheme = def.ColorTheme
	}
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports every invalid value at once
func (c *Config) Validate() error {
	var errs []error

	if c.MaxDimension <= 0 {
		errs = append(errs, fmt.Errorf("max_dimension must be positive, got %d", c.MaxDimension))
	}
	if c.MaxGIFSizeMB <= 0 {
		errs = append(errs, fmt.Errorf("max_gif_size_mb must be positive, got %d", c.MaxGIFSizeMB))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("jpeg_quality must be between 1 and 100, got %d", c.JPEGQuality))
	}
	if !domain.Naming(c.Naming).IsValid() {
		errs = append(errs, fmt.Errorf("naming must be %q or %q, got %q", domain.NamingSameName, domain.NamingSuffix, c.Naming))
	}
	widths := []struct {
		name  string
		value int
	}{
		{"preview_width", c.PreviewWidth},
		{"content_image_width", c.ContentImageWidth},
		{"content_video_width", c.ContentVideoWidth},
		{"profile_width", c.ProfileWidth},
	}
	for _, w := range widths {
		if w.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", w.name, w.value))
		}
	}
	if _, err := filepath.Match(c.RecordPattern, "project-x.json"); err != nil {
		errs = append(errs, fmt.Errorf("record_pattern is invalid: %w", err))
	}
	if c.BackupRetention <= 0 {
		errs = append(errs, fmt.Errorf("backup_retention must be positive, got %d", c.BackupRetention))
	}
	if !isValidColorTheme(c.ColorTheme) {
		errs = append(errs, fmt.Errorf("color_theme must be auto, light or dark, got %q", c.ColorTheme))
	}

	return errors.Join(errs...)
}

// MaxGIFBytes returns the animated byte budget
func (c *Config) MaxGIFBytes() int64 {
	return int64(c.MaxGIFSizeMB) * domain.BytesPerMB
}

// LoadEnvFile loads a .env file into the process environment. Variables
// already set are kept and a missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides file values with FOLIO_* variables found by lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvInput); ok && v != "" {
		c.InputDir = v
	}
	if v, ok := lookup(EnvOutput); ok && v != "" {
		c.OutputDir = v
	}
	if v, ok := lookup(EnvCDNBase); ok && v != "" {
		c.CDNBase = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvMaxDimension, &c.MaxDimension},
		{EnvMaxGIFMB, &c.MaxGIFSizeMB},
		{EnvJPEGQuality, &c.JPEGQuality},
	}
	for _, item := range ints {
		v, ok := lookup(item.key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", item.key, err)
		}
		*item.dst = n
	}

	return nil
}

func isValidColorTheme(theme string) bool {
	switch theme {
	case "auto", "light", "dark":
		return true
	}
	return false
}
