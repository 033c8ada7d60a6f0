package report

import (
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
)

// ErrNothingToChart is returned when no file was processed
var ErrNothingToChart = errors.New("no processed files to chart")

// WriteSizeChart renders an HTML bar chart comparing input and output size
// in KB for every processed file
func WriteSizeChart(w io.Writer, results []domain.FileResult) error {
	var (
		names   []string
		before  []opts.BarData
		after   []opts.BarData
		summary domain.BatchSummary
	)

	for _, r := range results {
		summary.Add(r)
		if r.Status != domain.StatusProcessed {
			continue
		}
		names = append(names, filepath.Base(r.Path))
		before = append(before, opts.BarData{Value: kilobytes(r.InputBytes)})
		after = append(after, opts.BarData{Value: kilobytes(r.OutputBytes)})
	}

	if len(names) == 0 {
		return ErrNothingToChart
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "folio size report"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Output size per file",
			Subtitle: subtitle(summary),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "KB"}),
	)

	bar.SetXAxis(names).
		AddSeries("Before", before).
		AddSeries("After", after)

	return bar.Render(w)
}

func subtitle(s domain.BatchSummary) string {
	text := fmt.Sprintf("%d processed, %d failed", s.Processed, s.Failed)
	if s.BytesBefore > 0 {
		saved := 100 * (1 - float64(s.BytesAfter)/float64(s.BytesBefore))
		text += fmt.Sprintf(", %.1f%% smaller", saved)
	}
	return text
}

func kilobytes(n int64) float64 {
	return math.Round(float64(n)/1024*10) / 10
}
