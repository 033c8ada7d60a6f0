package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio-cli/internal/adapters/codec"
	"github.com/kamal-hamza/folio-cli/internal/adapters/watcher"
	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/services"
	"github.com/kamal-hamza/folio-cli/pkg/ui"
	"github.com/kamal-hamza/folio-cli/pkg/workspace"
)

var watchOutput string

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Optimize images as they are added to a directory",
	Long: `Watch a directory and optimize every image or GIF that is created or
saved in it, one file at a time.

Events are debounced (watch_debounce_ms in the config) so a file is only
processed once it has stopped changing. Subdirectories, hidden files and
videos are ignored.

Press Ctrl+C to stop.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "Output directory (default from config, relative to the watched directory)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := getContext(cmd)

	dir := appConfig.InputDir
	if len(args) > 0 {
		dir = args[0]
	}
	if !workspace.IsDir(dir) {
		return fmt.Errorf("not a directory: %s", dir)
	}

	if cmd.Flags().Changed("output") {
		appConfig.OutputDir = watchOutput
	}
	output := workspace.ResolveOutputDir(dir, appConfig.OutputDir)

	absDir, _ := filepath.Abs(dir)
	absOut, _ := filepath.Abs(output)
	if absDir == absOut {
		return errors.New("output directory must differ from the watched directory")
	}

	accept := newWatchFilter(codecRegistry, func(path string) {
		fmt.Println(ui.FormatWarning("Skipping video: " + filepath.Base(path)))
		appLog.WithField("file", path).Warn("Skipping video file")
	})

	debounce := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond
	w, err := watcher.New(dir, debounce, accept, appLog)
	if err != nil {
		return err
	}
	defer w.Close()

	fmt.Println(ui.FormatRocket("Watching " + dir))
	fmt.Println(ui.FormatMuted("Output: " + output))
	fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
	fmt.Println()

	handle := func(path string) {
		req := services.OptimizeRequest{
			InputPath:    path,
			OutputDir:    output,
			MaxDimension: appConfig.MaxDimension,
			MaxGIFBytes:  appConfig.MaxGIFBytes(),
			Naming:       domain.Naming(appConfig.Naming),
			OnResult:     printFileResult,
		}
		if _, err := optimizeService.Execute(ctx, req); err != nil {
			if errors.Is(err, domain.ErrDestinationUnwritable) {
				fmt.Println(ui.FormatError(err.Error()))
				return
			}
			appLog.WithError(err).WithField("file", path).Warn("Optimize failed")
		}
	}

	if err := w.Run(ctx, handle); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(ui.FormatMuted("Watcher stopped"))
	return nil
}

// newWatchFilter returns the path filter for the watcher. Images and GIFs
// pass; onVideo is called the first time each video path is seen.
func newWatchFilter(registry *codec.Registry, onVideo func(path string)) func(path string) bool {
	warned := make(map[string]bool)

	return func(path string) bool {
		name := filepath.Base(path)
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~") {
			return false
		}

		switch registry.Classify(filepath.Ext(path)) {
		case domain.KindImage, domain.KindAnimated:
			return !workspace.IsDir(path)
		case domain.KindVideo:
			if !warned[path] && onVideo != nil {
				warned[path] = true
				onVideo(path)
			}
		}
		return false
	}
}
