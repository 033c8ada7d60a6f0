package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio-cli/internal/adapters/report"
	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/services"
	"github.com/kamal-hamza/folio-cli/pkg/ui"
	"github.com/kamal-hamza/folio-cli/pkg/workspace"
)

// videoListLimit is how many skipped videos are named before "... and N more"
const videoListLimit = 3

var (
	optimizeOutput       string
	optimizeMaxDimension int
	optimizeMaxGIFMB     int
	optimizeQuality      int
	optimizeNaming       string
	optimizePick         bool
	optimizeReport       string
	optimizeOpen         bool
)

var optimizeCmd = &cobra.Command{
	Use:     "optimize [path]",
	Aliases: []string{"opt"},
	Short:   "Resize images and GIFs to web-friendly sizes",
	Long: `Resize every image and GIF in a directory (or a single file).

Static images (jpg, jpeg, png, webp, bmp) are scaled so their longest side
fits --max-dimension. GIFs over --max-gif-mb are scaled by
sqrt(budget / size) on every frame, keeping timing and looping.

Videos are detected and skipped with a warning. Files are written to the
output directory, which is created if needed.

Examples:
  folio optimize ./photos
  folio optimize ./photos -o ./web --max-dimension 1200
  folio optimize hero.gif --max-gif-mb 5
  folio optimize ./photos --pick
  folio optimize ./photos --report sizes.html --open`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeOutput, "output", "o", "", "Output directory (default from config, relative to the input)")
	optimizeCmd.Flags().IntVar(&optimizeMaxDimension, "max-dimension", 0, "Longest side in pixels for static images")
	optimizeCmd.Flags().IntVar(&optimizeMaxGIFMB, "max-gif-mb", 0, "Size budget for GIFs in MB")
	optimizeCmd.Flags().IntVarP(&optimizeQuality, "quality", "q", 0, "JPEG quality (1-100)")
	optimizeCmd.Flags().StringVar(&optimizeNaming, "naming", "", "Output naming: same-name or suffix")
	optimizeCmd.Flags().BoolVarP(&optimizePick, "pick", "p", false, "Pick a single file interactively")
	optimizeCmd.Flags().StringVar(&optimizeReport, "report", "", "Write an HTML size chart to this file")
	optimizeCmd.Flags().BoolVar(&optimizeOpen, "open", false, "Open the report in the default browser")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	ctx := getContext(cmd)

	applyOptimizeFlags(cmd)
	if err := appConfig.Validate(); err != nil {
		return err
	}
	wireServices()

	input := appConfig.InputDir
	if len(args) > 0 {
		input = args[0]
	}
	output := workspace.ResolveOutputDir(input, appConfig.OutputDir)

	if optimizePick {
		picked, err := pickFile(input)
		if err != nil {
			return err
		}
		if picked == "" {
			return nil
		}
		input = picked
	}

	req := services.OptimizeRequest{
		InputPath:    input,
		OutputDir:    output,
		MaxDimension: appConfig.MaxDimension,
		MaxGIFBytes:  appConfig.MaxGIFBytes(),
		Naming:       domain.Naming(appConfig.Naming),
		OnResult:     printFileResult,
	}

	fmt.Println(ui.FormatRocket("Optimizing " + input))
	fmt.Println(ui.FormatMuted(fmt.Sprintf("Output: %s  |  max %dpx  |  GIF budget %d MB",
		output, appConfig.MaxDimension, appConfig.MaxGIFSizeMB)))
	fmt.Println()

	resp, err := optimizeService.Execute(ctx, req)
	if resp != nil {
		printOptimizeSummary(resp, output)
	}
	if err != nil {
		if errors.Is(err, ctx.Err()) {
			fmt.Println(ui.FormatWarning("Interrupted, remaining files were not processed"))
			return nil
		}
		return err
	}

	if optimizeReport != "" {
		if err := writeReport(optimizeReport, resp.Results); err != nil {
			return err
		}
	}

	return nil
}

// applyOptimizeFlags copies explicitly set flags over the loaded config
func applyOptimizeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		appConfig.OutputDir = optimizeOutput
	}
	if flags.Changed("max-dimension") {
		appConfig.MaxDimension = optimizeMaxDimension
	}
	if flags.Changed("max-gif-mb") {
		appConfig.MaxGIFSizeMB = optimizeMaxGIFMB
	}
	if flags.Changed("quality") {
		appConfig.JPEGQuality = optimizeQuality
	}
	if flags.Changed("naming") {
		appConfig.Naming = optimizeNaming
	}
}

func pickFile(input string) (string, error) {
	candidates, err := optimizeService.Candidates(input)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		fmt.Println(ui.FormatWarning("No images or GIFs found in " + input))
		return "", nil
	}

	idx, err := fuzzyfinder.Find(
		candidates,
		func(i int) string { return filepath.Base(candidates[i]) },
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return filePreview(candidates[i])
		}),
	)
	if err != nil {
		// Aborted
		return "", nil
	}
	return candidates[idx], nil
}

func filePreview(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return path
	}
	kind := codecRegistry.Classify(filepath.Ext(path))
	return fmt.Sprintf("%s\n\nType: %s\nSize: %s\nModified: %s",
		filepath.Base(path), kind, ui.FormatBytes(info.Size()), info.ModTime().Format("2006-01-02 15:04"))
}

func printFileResult(r domain.FileResult) {
	name := filepath.Base(r.Path)

	switch r.Status {
	case domain.StatusSkipped:
		if r.Kind == domain.KindVideo {
			fmt.Println(ui.FormatWarning("Skipping video: " + name))
		} else {
			fmt.Println(ui.FormatSkip("Skipping " + name))
		}
	case domain.StatusFailed:
		fmt.Println(ui.FormatError(fmt.Sprintf("%s: %v", name, r.Err)))
	case domain.StatusProcessed:
		detail := fmt.Sprintf("%s → %s", ui.FormatDimensions(r.InWidth, r.InHeight), ui.FormatDimensions(r.OutWidth, r.OutHeight))
		if !r.Resized() {
			detail = ui.FormatDimensions(r.InWidth, r.InHeight) + " (no resize needed)"
		}
		if r.Kind == domain.KindAnimated {
			detail += fmt.Sprintf(", %d frames", r.Frames)
		}
		fmt.Printf("%s %s\n", ui.FormatSuccess(name), ui.FormatMuted(fmt.Sprintf("%s  %s → %s",
			detail, ui.FormatBytes(r.InputBytes), ui.FormatBytes(r.OutputBytes))))
	}
}

func printOptimizeSummary(resp *services.OptimizeResponse, output string) {
	s := resp.Summary

	fmt.Println()
	if s.Processed == 0 && s.Failed == 0 {
		fmt.Println(ui.FormatWarning("No images or GIFs found"))
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "RESULT"},
		{Header: "FILES", Align: "right"},
	})
	table.AddRow([]string{"Processed", fmt.Sprintf("%d", s.Processed)})
	table.AddRow([]string{"Failed", fmt.Sprintf("%d", s.Failed)})
	table.AddRow([]string{"Skipped videos", fmt.Sprintf("%d", s.SkippedVideo)})
	table.AddRow([]string{"Skipped other", fmt.Sprintf("%d", s.SkippedUnsupported)})
	fmt.Print(table.Render())

	if s.Processed > 0 {
		fmt.Println()
		fmt.Println(ui.RenderKeyValue("Size", fmt.Sprintf("%s → %s (%s smaller)",
			ui.FormatBytes(s.BytesBefore), ui.FormatBytes(s.BytesAfter), ui.FormatSavings(s.BytesBefore, s.BytesAfter))))
		fmt.Println(ui.RenderKeyValue("Output", output))
	}

	if videos := resp.Videos(); len(videos) > 0 {
		names := make([]string, len(videos))
		for i, v := range videos {
			names[i] = filepath.Base(v)
		}
		fmt.Println()
		fmt.Println(ui.FormatWarning(fmt.Sprintf("%d video file(s) skipped, compress them with a video tool:", len(videos))))
		fmt.Print(ui.RenderSimpleList(names, videoListLimit))
	}
}

func writeReport(path string, results []domain.FileResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	if err := report.WriteSizeChart(f, results); err != nil {
		if errors.Is(err, report.ErrNothingToChart) {
			fmt.Println(ui.FormatMuted("No processed files, report skipped"))
			return nil
		}
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Println(ui.FormatSuccess("Report written to " + path))

	if optimizeOpen {
		if err := OpenFile(path); err != nil {
			fmt.Println(ui.FormatWarning(err.Error()))
		}
	}
	return nil
}
