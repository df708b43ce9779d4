package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/raykavin/stockview/pkg/core"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	settings, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "http://localhost:8000", settings.APIURL)
	require.Equal(t, DefaultPort, settings.Port)
	require.Equal(t, "AAPL", settings.DefaultSymbol)
	require.Equal(t, 400, settings.ChartHeight)
	require.Equal(t, 30*time.Second, settings.HTTPTimeout)
	require.False(t, settings.Debug)
	require.Equal(t, "info", settings.Log.Level)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("STOCKVIEW_API_URL", "https://predict.example.com/")
	t.Setenv("STOCKVIEW_PORT", "9090")
	t.Setenv("STOCKVIEW_HTTP_TIMEOUT", "1m30s")
	t.Setenv("STOCKVIEW_DEFAULT_SYMBOL", " msft ")
	t.Setenv("STOCKVIEW_LOG_LEVEL", "debug")
	t.Setenv("STOCKVIEW_DEBUG", "true")
	t.Setenv("STOCKVIEW_DATA_DIR", "/var/lib/stockview")

	settings, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "https://predict.example.com", settings.APIURL)
	require.Equal(t, 9090, settings.Port)
	require.Equal(t, 90*time.Second, settings.HTTPTimeout)
	require.Equal(t, "MSFT", settings.DefaultSymbol)
	require.Equal(t, "debug", settings.Log.Level)
	require.True(t, settings.Debug)
	require.Equal(t, "/var/lib/stockview", settings.DataDir)
}

func TestLoad_DayDuration(t *testing.T) {
	t.Setenv("STOCKVIEW_HTTP_TIMEOUT", "1d")

	settings, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 24*time.Hour, settings.HTTPTimeout)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stockview.yaml")
	content := "port: 7070\nchart_height: 500\nlog:\n  json: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	settings, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 7070, settings.Port)
	require.Equal(t, 500, settings.ChartHeight)
	require.True(t, settings.Log.JSON)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		t.Setenv("STOCKVIEW_HTTP_TIMEOUT", "soon")
		_, err := Load("")
		require.Error(t, err)
	})

	t.Run("port", func(t *testing.T) {
		t.Setenv("STOCKVIEW_PORT", "70000")
		_, err := Load("")
		require.ErrorContains(t, err, "invalid port")
	})

	t.Run("url", func(t *testing.T) {
		t.Setenv("STOCKVIEW_API_URL", "localhost")
		_, err := Load("")
		require.ErrorContains(t, err, "invalid api_url")
	})

	t.Run("symbol", func(t *testing.T) {
		t.Setenv("STOCKVIEW_DEFAULT_SYMBOL", "  ")
		_, err := Load("")
		require.ErrorIs(t, err, core.ErrEmptySymbol)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})
}
