package plot

import (
	"errors"
	"fmt"
	"io"

	"github.com/raykavin/stockview/pkg/core"
	"github.com/raykavin/stockview/pkg/projector"
	"github.com/raykavin/stockview/pkg/series"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"
)

// ErrNothingToDraw is returned when a line chart has no points
var ErrNothingToDraw = errors.New("nothing to draw")

const (
	defaultLineWidth = 960
	maxDateTicks     = 8
)

var (
	lineBackground = drawing.ColorFromHex("111111")
	lineText       = drawing.ColorFromHex("cccccc")
	lineGrid       = drawing.ColorFromHex("333333")
	lineHistorical = drawing.ColorFromHex("26a69a")
	linePrediction = drawing.Color{R: 126, G: 56, B: 191, A: 255}
)

// historicalLineStyle is a solid teal stroke without markers
func historicalLineStyle() chart.Style {
	return chart.Style{
		StrokeColor: lineHistorical,
		StrokeWidth: 2,
	}
}

// predictionLineStyle is a dashed purple stroke with small markers
func predictionLineStyle() chart.Style {
	return chart.Style{
		StrokeColor:     linePrediction,
		StrokeWidth:     2,
		StrokeDashArray: []float64{6, 4},
		DotColor:        linePrediction,
		DotWidth:        3,
	}
}

// RenderLine draws the merged close-price line chart as PNG. Both lines share one
// category axis keyed by date; each line only joins its own points.
func RenderLine(w io.Writer, points []core.MergedLinePoint, width, height int) error {
	if len(points) == 0 {
		return ErrNothingToDraw
	}
	if width <= 0 {
		width = defaultLineWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	historical, prediction := projector.Split(points)

	series := make([]chart.Series, 0, 2)
	if !historical.Empty() {
		series = append(series, chart.ContinuousSeries{
			Name:    "Historical",
			XValues: historical.Positions,
			YValues: historical.Values,
			Style:   historicalLineStyle(),
		})
	}
	if !prediction.Empty() {
		series = append(series, chart.ContinuousSeries{
			Name:    "Prediction",
			XValues: prediction.Positions,
			YValues: prediction.Values,
			Style:   predictionLineStyle(),
		})
	}

	values := make([]float64, 0, len(points))
	values = append(values, historical.Values...)
	values = append(values, prediction.Values...)
	minY, maxY := valueRange(values)
	axisStyle := chart.Style{FontColor: lineText, StrokeColor: lineGrid}
	gridStyle := chart.Style{StrokeColor: lineGrid, StrokeWidth: 1}

	graph := chart.Chart{
		Width:      width,
		Height:     height,
		Background: chart.Style{FillColor: lineBackground, Padding: chart.Box{Top: 16, Left: 16, Right: 16, Bottom: 16}},
		Canvas:     chart.Style{FillColor: lineBackground},
		XAxis: chart.XAxis{
			Style:          axisStyle,
			GridMajorStyle: gridStyle,
			Range:          &chart.ContinuousRange{Min: -0.5, Max: float64(len(points)) - 0.5},
			Ticks:          dateTicks(points),
		},
		YAxis: chart.YAxis{
			Style:          axisStyle,
			GridMajorStyle: gridStyle,
			Range:          &chart.ContinuousRange{Min: minY, Max: maxY},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		Series: series,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render line chart: %w", err)
	}
	return nil
}

// NewLineSeries keys the merged points by unix seconds for the browser line chart.
// Points sharing a second within one series keep the last value.
func NewLineSeries(points []core.MergedLinePoint) (LineSeries, error) {
	lines := LineSeries{
		Historical: make([]LinePoint, 0, len(points)),
		Prediction: make([]LinePoint, 0),
	}

	for i, p := range points {
		at, err := series.ParseDate(p.Date)
		if err != nil {
			return LineSeries{}, fmt.Errorf("line point %d: %w", i, err)
		}

		point := LinePoint{Time: series.UnixSeconds(at), Value: p.Value()}
		if p.IsPrediction() {
			lines.Prediction = appendLinePoint(lines.Prediction, point)
		} else {
			lines.Historical = appendLinePoint(lines.Historical, point)
		}
	}

	return lines, nil
}

func appendLinePoint(line []LinePoint, point LinePoint) []LinePoint {
	if n := len(line); n > 0 && line[n-1].Time == point.Time {
		line[n-1] = point
		return line
	}
	return append(line, point)
}

// valueRange pads the min/max of values so flat lines still get a visible axis
func valueRange(values []float64) (float64, float64) {
	minY, maxY := floats.Min(values), floats.Max(values)

	padding := (maxY - minY) * 0.05
	if padding == 0 {
		padding = 1
	}
	return minY - padding, maxY + padding
}

// dateTicks labels at most maxDateTicks evenly spaced categories
func dateTicks(points []core.MergedLinePoint) []chart.Tick {
	step := 1
	if len(points) > maxDateTicks {
		step = (len(points) + maxDateTicks - 1) / maxDateTicks
	}

	ticks := make([]chart.Tick, 0, maxDateTicks+1)
	for i := 0; i < len(points); i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: tickLabel(points[i].Date)})
	}
	return ticks
}

func tickLabel(date string) string {
	if len(date) > 10 {
		return date[:10]
	}
	return date
}
