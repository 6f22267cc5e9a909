package chart

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/stationworks/station-analyzer-be/internal/core/pivot"
)

// maxTicks caps x-axis labels so long date ranges stay readable.
const maxTicks = 10

// Renderer draws per-code line charts from a wide matrix.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer creates a renderer with the default canvas size.
func NewRenderer() *Renderer {
	return &Renderer{Width: 900, Height: 450}
}

// Line renders one code column as a PNG line chart. X positions are row
// indices; tick labels map back to each row's date string. Unset cells are
// skipped. Each call builds and disposes its own chart state, so repeated
// renders are independent.
func (r *Renderer) Line(m *pivot.WideMatrix, title, code string) ([]byte, error) {
	cells, ok := m.Column(code)
	if !ok {
		return nil, fmt.Errorf("code %q is not a column of the matrix", code)
	}

	var xs, ys []float64
	for i, cell := range cells {
		if !cell.Set {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, cell.Value)
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("code %q has no values to plot", code)
	}

	ticks := make([]chart.Tick, 0, maxTicks)
	for _, idx := range tickIndices(len(m.Rows), maxTicks) {
		ticks = append(ticks, chart.Tick{Value: float64(idx), Label: m.Rows[idx].Date})
	}

	gridStyle := chart.Style{
		StrokeColor: chart.ColorLightGray,
		StrokeWidth: 1.0,
	}

	yMin, yMax := ys[0], ys[0]
	for _, y := range ys[1:] {
		yMin = math.Min(yMin, y)
		yMax = math.Max(yMax, y)
	}
	// A flat or single-point series needs a non-degenerate axis range.
	pad := (yMax - yMin) * 0.05
	if pad == 0 {
		pad = 1
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s - %s", title, code),
		Width:  r.Width,
		Height: r.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 30, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           "Date",
			Ticks:          ticks,
			Range:          &chart.ContinuousRange{Min: 0, Max: xRangeMax(len(m.Rows))},
			GridMajorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Name:           code,
			Range:          &chart.ContinuousRange{Min: yMin - pad, Max: yMax + pad},
			GridMajorStyle: gridStyle,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    code,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2.0,
					DotColor:    chart.ColorBlue,
					DotWidth:    3.0,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart for %q: %w", code, err)
	}
	return buf.Bytes(), nil
}

// tickIndices picks at most max row indices, evenly spaced and always
// including the first and last row.
func tickIndices(n, max int) []int {
	if n <= 0 {
		return nil
	}
	if n <= max {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}

	idx := make([]int, 0, max)
	step := float64(n-1) / float64(max-1)
	last := -1
	for i := 0; i < max; i++ {
		v := int(math.Round(float64(i) * step))
		if v != last {
			idx = append(idx, v)
			last = v
		}
	}
	return idx
}

// xRangeMax pads the axis so a single-row matrix still has a drawable range.
func xRangeMax(n int) float64 {
	if n < 2 {
		return 1
	}
	return float64(n - 1)
}
