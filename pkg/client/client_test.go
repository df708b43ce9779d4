package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/raykavin/stockview/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stocks/AAPL", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "no-store", r.Header.Get("Cache-Control"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"date":"2024-01-01","open":1,"high":2,"low":0.5,"close":1.5,"volume":1000}]}`))
	})
	mux.HandleFunc("/api/stocks/predict/AAPL", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"date":"2024-01-02","open":1.5,"high":2.5,"low":1,"close":2,"predicted":true}]`))
	})
	mux.HandleFunc("/api/stocks/EMPTY", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/api/stocks/BROKEN", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":`))
	})
	mux.HandleFunc("/api/stocks/predict/MISSING", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "symbol not found", http.StatusNotFound)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClient_History(t *testing.T) {
	backend := newBackend(t)
	c := New(backend.URL + "/")

	bars, err := c.History(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, "2024-01-01", bars[0].Date)
	assert.Equal(t, 1.5, bars[0].Close)
	require.NotNil(t, bars[0].Volume)
	assert.Equal(t, 1000.0, *bars[0].Volume)

	bars, err = c.History(context.Background(), "EMPTY")
	require.NoError(t, err)
	assert.NotNil(t, bars)
	assert.Empty(t, bars)

	_, err = c.History(context.Background(), "BROKEN")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode stock history")
}

func TestClient_Prediction(t *testing.T) {
	backend := newBackend(t)
	c := New(backend.URL, WithTimeout(time.Second))

	bars, err := c.Prediction(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, bars, 1)
	require.NotNil(t, bars[0].Predicted)
	assert.True(t, *bars[0].Predicted)

	_, err = c.Prediction(context.Background(), "MISSING")
	var httpErr *core.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.True(t, httpErr.IsNotFound())
	assert.Contains(t, httpErr.Body, "symbol not found")
	assert.Contains(t, err.Error(), "MISSING: 404")
}

func TestClient_TransportError(t *testing.T) {
	backend := newBackend(t)
	c := New(backend.URL)
	backend.Close()

	_, err := c.History(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch stock history AAPL")
}

func TestNew_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, New("").BaseURL())
}
