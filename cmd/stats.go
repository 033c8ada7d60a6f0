package cmd

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/services"
	"github.com/kamal-hamza/folio-cli/pkg/ui"
	"github.com/kamal-hamza/folio-cli/pkg/workspace"
)

var statsCmd = &cobra.Command{
	Use:   "stats [dir]",
	Short: "Show what optimize would do without writing anything",
	Long: `Inspect the media in a directory and display useful statistics.

Includes:
  - Size and dimensions of every file
  - The dimensions optimize would produce
  - Total size per file type`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := getContext(cmd)

	input := appConfig.InputDir
	if len(args) > 0 {
		input = args[0]
	}

	req := services.OptimizeRequest{
		InputPath:    input,
		OutputDir:    workspace.ResolveOutputDir(input, appConfig.OutputDir),
		MaxDimension: appConfig.MaxDimension,
		MaxGIFBytes:  appConfig.MaxGIFBytes(),
		Naming:       domain.Naming(appConfig.Naming),
	}

	fmt.Println(ui.FormatRocket("Analyzing " + input + "..."))

	resp, err := optimizeService.Inspect(ctx, req)
	if err != nil {
		return err
	}
	if len(resp.Results) == 0 {
		fmt.Println(ui.FormatInfo("No media files found"))
		return nil
	}

	fmt.Println()
	fmt.Println(ui.FormatTitle("Media Analytics"))
	fmt.Println()

	table := ui.NewTable([]ui.TableColumn{
		{Header: "FILE"},
		{Header: "TYPE"},
		{Header: "SIZE", Align: "right"},
		{Header: "DIMENSIONS", Align: "right"},
		{Header: "PLANNED", Align: "right"},
	})

	// Skipped files are never read, so size them from the filesystem
	for i := range resp.Results {
		r := &resp.Results[i]
		if r.InputBytes == 0 {
			if info, err := appFs.Stat(r.Path); err == nil {
				r.InputBytes = info.Size()
			}
		}
	}

	var totalBytes int64
	pending := 0
	for _, r := range resp.Results {
		totalBytes += r.InputBytes
		table.AddRow([]string{
			ui.Truncate(filepath.Base(r.Path), 40),
			r.Kind.String(),
			ui.FormatBytes(r.InputBytes),
			dimensionsCell(r.InWidth, r.InHeight),
			plannedCell(r),
		})
		if r.Status == domain.StatusProcessed && r.Resized() {
			pending++
		}
	}
	fmt.Print(table.Render())
	fmt.Println()

	fmt.Println(ui.RenderKeyValue("Files", fmt.Sprintf("%d", len(resp.Results))))
	fmt.Println(ui.RenderKeyValue("Total Size", ui.FormatBytes(totalBytes)))
	fmt.Println(ui.RenderKeyValue("Would Resize", fmt.Sprintf("%d", pending)))
	if resp.Summary.Failed > 0 {
		fmt.Println(ui.RenderKeyValue("Unreadable", fmt.Sprintf("%d", resp.Summary.Failed)))
	}
	fmt.Println()

	renderSizeByKind(resp.Results)
	return nil
}

func dimensionsCell(w, h int) string {
	if w == 0 || h == 0 {
		return "-"
	}
	return ui.FormatDimensions(w, h)
}

func plannedCell(r domain.FileResult) string {
	switch {
	case r.Status == domain.StatusSkipped:
		return ui.StyleMuted.Render("skip")
	case r.Status == domain.StatusFailed:
		return ui.StyleError.Render("error")
	case !r.Resized():
		return ui.StyleMuted.Render("keep")
	}
	return ui.FormatDimensions(r.OutWidth, r.OutHeight)
}

// renderSizeByKind displays a horizontal bar chart of bytes per file type
func renderSizeByKind(results []domain.FileResult) {
	totals := make(map[domain.Kind]int64)
	for _, r := range results {
		totals[r.Kind] += r.InputBytes
	}

	type kindPair struct {
		Kind  domain.Kind
		Bytes int64
	}
	var sorted []kindPair
	for k, v := range totals {
		sorted = append(sorted, kindPair{k, v})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Bytes != sorted[j].Bytes {
			return sorted[i].Bytes > sorted[j].Bytes
		}
		return sorted[i].Kind < sorted[j].Kind
	})

	maxBytes := sorted[0].Bytes
	if maxBytes == 0 {
		return
	}
	barWidth := 20

	fmt.Println(ui.StyleHeader.Render("Size by Type"))
	for _, p := range sorted {
		length := int(math.Ceil(float64(p.Bytes) / float64(maxBytes) * float64(barWidth)))
		bar := strings.Repeat("█", length)

		fmt.Printf("%s %-12s %s\n",
			ui.StyleAccent.Render(bar),
			p.Kind.String(),
			ui.StyleMuted.Render(ui.FormatBytes(p.Bytes)),
		)
	}
}
