package plot

import (
	"bytes"
	"testing"

	"github.com/raykavin/stockview/pkg/core"
	"github.com/raykavin/stockview/pkg/projector"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestRenderLine(t *testing.T) {
	points, err := projector.Project(history, forecast)
	require.NoError(t, err)

	buffer := bytes.NewBuffer(nil)
	require.NoError(t, RenderLine(buffer, points, 640, 320))
	require.True(t, bytes.HasPrefix(buffer.Bytes(), pngMagic))
}

func TestRenderLine_HistoryOnlyFlat(t *testing.T) {
	points, err := projector.Project(core.Series{
		bar("2024-01-02", 5, 5, 5, 5),
		bar("2024-01-03", 5, 5, 5, 5),
	}, nil)
	require.NoError(t, err)

	buffer := bytes.NewBuffer(nil)
	require.NoError(t, RenderLine(buffer, points, 0, 0))
	require.True(t, bytes.HasPrefix(buffer.Bytes(), pngMagic))
}

func TestRenderLine_Empty(t *testing.T) {
	require.ErrorIs(t, RenderLine(bytes.NewBuffer(nil), nil, 100, 100), ErrNothingToDraw)
}

func TestValueRange(t *testing.T) {
	minY, maxY := valueRange([]float64{10, 20})
	require.InDelta(t, 9.5, minY, 1e-9)
	require.InDelta(t, 20.5, maxY, 1e-9)

	minY, maxY = valueRange([]float64{3})
	require.Equal(t, 2.0, minY)
	require.Equal(t, 4.0, maxY)
}

func TestDateTicks(t *testing.T) {
	points := make([]core.MergedLinePoint, 20)
	for i := range points {
		points[i].Date = "2024-01-02T10:00:00"
	}

	ticks := dateTicks(points)
	require.LessOrEqual(t, len(ticks), maxDateTicks)
	require.Equal(t, "2024-01-02", ticks[0].Label)
	require.Equal(t, 0.0, ticks[0].Value)
}

func TestNewLineSeries(t *testing.T) {
	points, err := projector.Project(history, forecast)
	require.NoError(t, err)

	lines, err := NewLineSeries(points)
	require.NoError(t, err)
	require.Equal(t, []LinePoint{
		{Time: 1704153600, Value: 11},
		{Time: 1704240000, Value: 12},
	}, lines.Historical)
	require.Equal(t, []LinePoint{{Time: 1704326400, Value: 12.2}}, lines.Prediction)
}

func TestNewLineSeries_SameDayKeepsLast(t *testing.T) {
	points, err := projector.Project(core.Series{
		bar("2024-01-02T10:00:00.100Z", 1, 1, 1, 1),
		bar("2024-01-02T10:00:00.900Z", 2, 2, 2, 2),
	}, nil)
	require.NoError(t, err)

	lines, err := NewLineSeries(points)
	require.NoError(t, err)
	require.Equal(t, []LinePoint{{Time: 1704153600, Value: 2}}, lines.Historical)
	require.Empty(t, lines.Prediction)
}

func TestNewLineSeries_InvalidDate(t *testing.T) {
	_, err := NewLineSeries([]core.MergedLinePoint{{Date: "soon"}})
	require.ErrorIs(t, err, core.ErrInvalidDate)
}
