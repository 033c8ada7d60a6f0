package cmd

import (
	"bytes"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kamal-hamza/folio-cli/internal/adapters/codec"
	"github.com/kamal-hamza/folio-cli/internal/core/ports/mocks"
	"github.com/kamal-hamza/folio-cli/internal/core/services"
)

// TestCommandStructure verifies that all commands are properly registered
func TestCommandStructure(t *testing.T) {
	commands := [][]string{
		{"optimize"}, {"watch"}, {"urls"}, {"url"}, {"version"}, {"stats"}, {"clean"}, {"doctor"},
		{"config"}, {"config", "show"}, {"config", "init"}, {"config", "path"},
	}

	for _, path := range commands {
		name := strings.Join(path, " ")
		t.Run(name, func(t *testing.T) {
			cmd, _, err := rootCmd.Find(path)
			if err != nil {
				t.Fatalf("Command '%s' not found: %v", name, err)
			}
			if cmd == nil {
				t.Fatalf("Command '%s' is nil", name)
			}
			if cmd.Use == "" {
				t.Errorf("Command '%s' has no Use field", name)
			}
		})
	}
}

// TestRootCommandExists verifies the root command is properly configured
func TestRootCommandExists(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("Root command is nil")
	}

	if rootCmd.Use != "folio" {
		t.Errorf("Expected root command Use to be 'folio', got '%s'", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Root command Short description is empty")
	}

	for _, flag := range []string{"config", "verbose"} {
		if rootCmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing global flag --%s", flag)
		}
	}
}

// TestCommandsHaveHelp verifies all commands have help text
func TestCommandsHaveHelp(t *testing.T) {
	commands := rootCmd.Commands()

	if len(commands) == 0 {
		t.Fatal("No commands registered")
	}

	for _, cmd := range commands {
		t.Run(cmd.Name(), func(t *testing.T) {
			if cmd.Short == "" {
				t.Errorf("Command '%s' has no Short description", cmd.Name())
			}
		})
	}
}

// TestOptimizeFlags verifies the optimize command exposes its overrides
func TestOptimizeFlags(t *testing.T) {
	for _, flag := range []string{"output", "max-dimension", "max-gif-mb", "quality", "naming", "pick", "report"} {
		if optimizeCmd.Flags().Lookup(flag) == nil {
			t.Errorf("optimize is missing --%s", flag)
		}
	}
}

// TestServiceInitialization verifies services can be initialized with mocks
func TestServiceInitialization(t *testing.T) {
	repo := mocks.NewMockRecordRepository()
	svc := services.NewRewriteService(repo, services.NewURLRewriter("res.cloudinary.com/demo"), services.RewriteWidths{}, nil)
	if svc == nil {
		t.Error("RewriteService is nil")
	}
}

// isolate points config and env lookups at an empty temp directory
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	for _, key := range []string{"FOLIO_INPUT", "FOLIO_OUTPUT", "FOLIO_MAX_DIMENSION", "FOLIO_MAX_GIF_MB", "FOLIO_JPEG_QUALITY", "FOLIO_CDN_BASE"} {
		t.Setenv(key, "")
	}
	return dir
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestURLCommand(t *testing.T) {
	isolate(t)

	out, err := runRoot(t, "url", "https://res.cloudinary.com/dnahwqvhd/image/upload/v1/hero.jpg", "--width", "640")
	if err != nil {
		t.Fatalf("url failed: %v", err)
	}

	want := "https://res.cloudinary.com/dnahwqvhd/image/upload/w_640,f_auto,q_auto/v1/hero.jpg"
	if !strings.Contains(out, want) {
		t.Errorf("expected %q in output, got:\n%s", want, out)
	}
}

func TestConfigPathCommand(t *testing.T) {
	dir := isolate(t)

	out, err := runRoot(t, "config", "path")
	if err != nil {
		t.Fatalf("config path failed: %v", err)
	}

	want := filepath.Join(dir, "config", "folio", "config.yaml")
	if strings.TrimSpace(out) != want {
		t.Errorf("config path = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestOptimizeCommand(t *testing.T) {
	dir := isolate(t)
	input := filepath.Join(dir, "photos")
	if err := os.MkdirAll(input, 0755); err != nil {
		t.Fatalf("failed to create input dir: %v", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 400, 200)), nil); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	if err := os.WriteFile(filepath.Join(input, "wide.jpg"), buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write jpeg: %v", err)
	}
	if err := os.WriteFile(filepath.Join(input, "clip.mp4"), []byte("not decoded"), 0644); err != nil {
		t.Fatalf("failed to write video: %v", err)
	}

	if _, err := runRoot(t, "optimize", input, "--max-dimension", "100"); err != nil {
		t.Fatalf("optimize failed: %v", err)
	}

	f, err := os.Open(filepath.Join(input, "resized", "wide.jpg"))
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	defer f.Close()

	cfg, err := jpeg.DecodeConfig(f)
	if err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Errorf("output is %dx%d, want 100x50", cfg.Width, cfg.Height)
	}

	if _, err := os.Stat(filepath.Join(input, "resized", "clip.mp4")); !os.IsNotExist(err) {
		t.Error("video must not be copied to the output directory")
	}
}

func TestURLsCommand(t *testing.T) {
	dir := isolate(t)
	records := filepath.Join(dir, "site", "projects")
	if err := os.MkdirAll(records, 0755); err != nil {
		t.Fatalf("failed to create records dir: %v", err)
	}

	project := `{
    "id": "bridge",
    "previewImage": "https://res.cloudinary.com/dnahwqvhd/image/upload/v1/bridge.jpg"
}`
	path := filepath.Join(records, "project-bridge.json")
	if err := os.WriteFile(path, []byte(project), 0644); err != nil {
		t.Fatalf("failed to write record: %v", err)
	}

	if _, err := runRoot(t, "urls", records); err != nil {
		t.Fatalf("urls failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read record: %v", err)
	}
	if !strings.Contains(string(data), "/upload/w_800,f_auto,q_auto/v1/bridge.jpg") {
		t.Errorf("record not rewritten:\n%s", data)
	}

	backups, err := filepath.Glob(filepath.Join(dir, "site", "projects_backup_*", "project-bridge.json"))
	if err != nil || len(backups) != 1 {
		t.Fatalf("expected one backup copy, got %v (%v)", backups, err)
	}
	original, _ := os.ReadFile(backups[0])
	if string(original) != project {
		t.Errorf("backup differs from original:\n%s", original)
	}
}

func TestStatsCommandWritesNothing(t *testing.T) {
	dir := isolate(t)
	input := filepath.Join(dir, "photos")
	if err := os.MkdirAll(input, 0755); err != nil {
		t.Fatalf("failed to create input dir: %v", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3000, 1500)), nil); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	if err := os.WriteFile(filepath.Join(input, "wide.jpg"), buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write jpeg: %v", err)
	}

	if _, err := runRoot(t, "stats", input); err != nil {
		t.Fatalf("stats failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(input, "resized")); !os.IsNotExist(err) {
		t.Error("stats must not create the output directory")
	}
}

func TestWatchFilter(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "shots.png"), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	var videos []string
	accept := newWatchFilter(codec.NewRegistry(85), func(path string) {
		videos = append(videos, path)
	})

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"jpeg", filepath.Join(dir, "hero.jpg"), true},
		{"gif", filepath.Join(dir, "loop.GIF"), true},
		{"hidden", filepath.Join(dir, ".hero.jpg"), false},
		{"editor temp", filepath.Join(dir, "~hero.jpg"), false},
		{"directory with image name", filepath.Join(dir, "shots.png"), false},
		{"text", filepath.Join(dir, "notes.txt"), false},
		{"video", filepath.Join(dir, "clip.mp4"), false},
		{"video written again", filepath.Join(dir, "clip.mp4"), false},
		{"second video", filepath.Join(dir, "demo.MOV"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := accept(tt.path); got != tt.expected {
				t.Errorf("accept(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}

	want := []string{filepath.Join(dir, "clip.mp4"), filepath.Join(dir, "demo.MOV")}
	if len(videos) != len(want) {
		t.Fatalf("expected one warning per video %v, got %v", want, videos)
	}
	for i := range want {
		if videos[i] != want[i] {
			t.Errorf("warning %d for %q, want %q", i, videos[i], want[i])
		}
	}
}
