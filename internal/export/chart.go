package export

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/roadwatch/accident-insight/internal/query"
)

// RenderTopRegionsChart draws the top-regions simulation as a horizontal
// stacked bar chart (remaining accidents in gray, predicted reduction in
// red) and writes it as PNG. Regions arrive ascending by accident count, so
// the largest region ends up at the top of the chart.
func RenderTopRegionsChart(w io.Writer, regions []query.Aggregate) error {
	p := plot.New()
	p.Title.Text = "상위 지역 사고 감소 시뮬레이션"
	p.X.Label.Text = "사고건수"

	remaining := make(plotter.Values, len(regions))
	reduction := make(plotter.Values, len(regions))
	names := make([]string, len(regions))
	for i, r := range regions {
		remaining[i] = r.PredictedRemaining
		reduction[i] = r.PredictedReduction
		names[i] = r.Key
	}

	remainingBars, err := plotter.NewBarChart(remaining, vg.Points(14))
	if err != nil {
		return fmt.Errorf("remaining bars: %w", err)
	}
	remainingBars.Horizontal = true
	remainingBars.Color = color.Gray{Y: 0xCC}
	remainingBars.LineStyle.Width = 0

	reductionBars, err := plotter.NewBarChart(reduction, vg.Points(14))
	if err != nil {
		return fmt.Errorf("reduction bars: %w", err)
	}
	reductionBars.Horizontal = true
	reductionBars.Color = color.RGBA{R: 0xE4, G: 0x5B, B: 0x5B, A: 0xFF}
	reductionBars.LineStyle.Width = 0
	reductionBars.StackOn(remainingBars)

	p.Add(remainingBars, reductionBars)
	p.NominalY(names...)
	p.Legend.Add("감소 후 잔여", remainingBars)
	p.Legend.Add("예상 감소량", reductionBars)
	p.Legend.Top = true

	wt, err := p.WriterTo(9*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}
