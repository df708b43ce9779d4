package stockview

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/raykavin/stockview/pkg/core"
	"github.com/raykavin/stockview/pkg/logger/zerolog"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/stocks/AAPL", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[
			{"date":"2024-01-02T00:00:00Z","open":10,"high":12,"low":9,"close":11},
			{"date":"2024-01-03T00:00:00Z","open":11,"high":13,"low":10,"close":12}
		]}`))
	})
	mux.HandleFunc("/api/stocks/predict/AAPL", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"date":"2024-01-04T00:00:00","open":12,"high":13,"low":11,"close":12.5,"predicted":true}]`))
	})

	backend := httptest.NewServer(mux)
	t.Cleanup(backend.Close)
	return backend
}

func newApp(t *testing.T) *StockView {
	backend := newBackend(t)
	return New(core.Settings{
		APIURL:        backend.URL,
		Port:          8080,
		DefaultSymbol: "AAPL",
		ChartHeight:   300,
		HTTPTimeout:   5 * time.Second,
	}, WithLogger(zerolog.Nop()))
}

func TestStockView_Summary(t *testing.T) {
	app := newApp(t)

	buffer := bytes.NewBuffer(nil)
	require.NoError(t, app.Summary(context.Background(), buffer, "aapl", 5))
	require.Contains(t, buffer.String(), "AAPL  12.00  +1.00")
	require.Contains(t, buffer.String(), "2024-01-04T00:00:00")
}

func TestStockView_SummaryNotFound(t *testing.T) {
	app := newApp(t)

	err := app.Summary(context.Background(), bytes.NewBuffer(nil), "MSFT", 5)
	var httpErr *core.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestStockView_RenderLine(t *testing.T) {
	app := newApp(t)
	path := filepath.Join(t.TempDir(), "AAPL.png")

	require.NoError(t, app.RenderLine(context.Background(), "AAPL", path, 480))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(content, []byte("\x89PNG")))
}

func TestStockView_Chart(t *testing.T) {
	chart, err := newApp(t).Chart()
	require.NoError(t, err)
	require.Equal(t, 8080, chart.GetPort())
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(core.LogSettings{Level: "debug", JSON: true})
	require.NoError(t, err)
	require.NotNil(t, log)

	_, err = NewLogger(core.LogSettings{Level: "loud"})
	require.Error(t, err)
}

func TestStockView_DataDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AAPL.csv"),
		[]byte("date,open,high,low,close\n2024-01-02,10,12,9,11\n2024-01-03,11,13,10,12\n"), 0o600))

	app := New(core.Settings{
		APIURL:      "http://localhost:1",
		DataDir:     dir,
		ChartHeight: 300,
	}, WithLogger(zerolog.Nop()))

	snapshot, err := app.Load(context.Background(), "aapl")
	require.NoError(t, err)
	require.Equal(t, "AAPL", snapshot.Loaded)
	require.Len(t, snapshot.Historical, 2)
	require.Empty(t, snapshot.Prediction)
}
