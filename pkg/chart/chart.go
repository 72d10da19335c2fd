package chart

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Threshold is a horizontal reference line drawn across the chart.
type Threshold struct {
	Label  string
	Value  float64
	Profit bool
}

var (
	profitColor = drawing.Color{R: 0x2e, G: 0xcc, B: 0x71, A: 255}
	lossColor   = drawing.Color{R: 0xe7, G: 0x4c, B: 0x3c, A: 255}
)

// Render draws the setup series (stop loss → entry → take profit) as a
// marked line plus dashed threshold lines, and returns PNG bytes.
func Render(title string, series []float64, thresholds []Threshold) ([]byte, error) {
	if len(series) < 2 {
		return nil, fmt.Errorf("chart series needs at least two points, got %d", len(series))
	}

	xs := make([]float64, len(series))
	for i := range series {
		xs[i] = float64(i + 1)
	}

	allSeries := []chart.Series{
		chart.ContinuousSeries{
			Name:    title,
			XValues: xs,
			YValues: series,
			Style: chart.Style{
				StrokeWidth: 2.0,
				DotWidth:    4.0,
			},
		},
	}

	for _, th := range thresholds {
		color := lossColor
		if th.Profit {
			color = profitColor
		}
		allSeries = append(allSeries, chart.ContinuousSeries{
			Name:    th.Label,
			XValues: []float64{xs[0], xs[len(xs)-1]},
			YValues: []float64{th.Value, th.Value},
			Style: chart.Style{
				StrokeWidth:     1.0,
				StrokeColor:     color,
				StrokeDashArray: []float64{5.0, 5.0},
			},
		})
	}

	graph := chart.Chart{
		Title:  title,
		Width:  800,
		Height: 480,
		Series: allSeries,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
