package feed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raykavin/stockview/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_Header(t *testing.T) {
	bars, err := ReadCSV(strings.NewReader(
		"Date,Open,High,Low,Close,Volume\n" +
			"2024-01-02,10,12,9,11,1000\n" +
			"2024-01-03,11,13,10,12,\n"))
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, "2024-01-02", bars[0].Date)
	assert.Equal(t, 11.0, bars[0].Close)
	require.NotNil(t, bars[0].Volume)
	assert.Equal(t, 1000.0, *bars[0].Volume)
	assert.Nil(t, bars[1].Volume)
}

func TestReadCSV_ReorderedColumns(t *testing.T) {
	bars, err := ReadCSV(strings.NewReader("close,time,open,low,high\n11,1704153600,10,9,12\n"))
	require.NoError(t, err)
	assert.Equal(t, core.PriceBar{Date: "2024-01-02T00:00:00Z", Open: 10, High: 12, Low: 9, Close: 11}, bars[0])
}

func TestReadCSV_NoHeader(t *testing.T) {
	bars, err := ReadCSV(strings.NewReader("2024-01-02T00:00:00Z,10,12,9,11\n"))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 12.0, bars[0].High)
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("date,open,high,low\n2024-01-02,1,2,3\n"))
	assert.ErrorContains(t, err, `missing column "close"`)

	_, err = ReadCSV(strings.NewReader("2024-01-02,1,2,x,4\n"))
	assert.ErrorContains(t, err, "line 1: invalid low")

	bars, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestCSVFeed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AAPL.csv"),
		[]byte("date,open,high,low,close\n2024-01-02,10,12,9,11\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AAPL_prediction.csv"),
		[]byte("date,open,high,low,close\n2024-01-03T00:00:00,11,12,10,11.5\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "TSLA.csv"),
		[]byte("date,open,high,low,close\n2024-01-02,1,1,1,1\n"), 0o600))

	feed := NewCSVFeed(dir)
	ctx := context.Background()

	history, err := feed.History(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, history, 1)

	prediction, err := feed.Prediction(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, prediction, 1)
	require.NotNil(t, prediction[0].Predicted)
	assert.True(t, *prediction[0].Predicted)

	prediction, err = feed.Prediction(ctx, "TSLA")
	require.NoError(t, err)
	assert.Empty(t, prediction)
	assert.NotNil(t, prediction)

	_, err = feed.History(ctx, "MSFT")
	assert.ErrorIs(t, err, core.ErrUnknownSymbol)

	_, err = feed.History(ctx, "../AAPL")
	assert.Error(t, err)
}
