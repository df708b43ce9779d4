// Package stockview wires the prediction service client, the chart server and
// the console report into one application.
package stockview

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/raykavin/stockview/pkg/client"
	"github.com/raykavin/stockview/pkg/core"
	"github.com/raykavin/stockview/pkg/feed"
	"github.com/raykavin/stockview/pkg/logger"
	"github.com/raykavin/stockview/pkg/logger/zerolog"
	"github.com/raykavin/stockview/pkg/plot"
	"github.com/raykavin/stockview/pkg/projector"
	"github.com/raykavin/stockview/pkg/report"
	"github.com/raykavin/stockview/pkg/session"
)

// DefaultLog is the logger used when none is configured
var DefaultLog logger.Logger

// StockView is a configured application instance
type StockView struct {
	settings core.Settings
	fetcher  session.Fetcher
	server   plot.HTTPServer
	metrics  *plot.Metrics
	logger   logger.Logger
}

// New creates an application from settings
func New(settings core.Settings, options ...Option) *StockView {
	app := &StockView{
		settings: settings,
		logger:   DefaultLog,
	}

	for _, option := range options {
		option(app)
	}

	if app.fetcher == nil {
		if settings.DataDir != "" {
			app.fetcher = feed.NewCSVFeed(settings.DataDir)
		} else {
			app.fetcher = client.New(settings.APIURL, client.WithTimeout(settings.HTTPTimeout))
		}
	}
	if app.server == nil {
		app.server = plot.NewStandardHTTPServer()
	}
	if app.metrics == nil {
		app.metrics = plot.NewMetrics()
	}

	return app
}

// NewLogger builds a logger from settings
func NewLogger(settings core.LogSettings) (logger.Logger, error) {
	log, err := zerolog.New(zerolog.Config{
		Level:      settings.Level,
		TimeFormat: settings.TimeFormat,
		Colored:    settings.Colored,
		JSON:       settings.JSON,
	})
	if err != nil {
		return nil, err
	}
	return zerolog.NewAdapter(log), nil
}

// Chart creates the chart served by Serve
func (s *StockView) Chart() (*plot.Chart, error) {
	options := []plot.Option{
		plot.WithPort(s.settings.Port),
		plot.WithDefaultSymbol(s.settings.DefaultSymbol),
		plot.WithChartHeight(s.settings.ChartHeight),
		plot.WithMetrics(s.metrics),
	}
	if s.settings.Debug {
		options = append(options, plot.WithDebug())
	}

	return plot.NewChart(s.logger, s.fetcher, options...)
}

// Serve runs the chart server until ctx is done
func (s *StockView) Serve(ctx context.Context) error {
	chart, err := s.Chart()
	if err != nil {
		return err
	}

	source := s.settings.APIURL
	if s.settings.DataDir != "" {
		source = s.settings.DataDir
	}

	s.logger.WithFields(map[string]any{
		"source": source,
		"symbol": s.settings.DefaultSymbol,
	}).Info("starting chart server")

	return plot.NewChartServer(chart, s.server, s.logger).Start(ctx)
}

// Load fetches both series for symbol
func (s *StockView) Load(ctx context.Context, symbol string) (session.Snapshot, error) {
	return session.NewLoader(session.NewStore(), s.fetcher, s.logger).Load(ctx, symbol)
}

// Summary loads symbol and prints its report to w
func (s *StockView) Summary(ctx context.Context, w io.Writer, symbol string, rows int) error {
	snapshot, err := s.Load(ctx, symbol)
	if err != nil {
		return err
	}

	summary := report.NewSummary(snapshot.Loaded, snapshot.Historical, snapshot.Prediction)
	return report.Write(w, summary, rows)
}

// RenderLine loads symbol and writes its merged close-price chart as PNG to path
func (s *StockView) RenderLine(ctx context.Context, symbol, path string, width int) error {
	snapshot, err := s.Load(ctx, symbol)
	if err != nil {
		return err
	}

	points, err := projector.Project(snapshot.Historical, snapshot.Prediction)
	if err != nil {
		return fmt.Errorf("project %s: %w", snapshot.Loaded, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := plot.RenderLine(file, points, width, s.settings.ChartHeight); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("render %s: %w", snapshot.Loaded, err)
	}

	return file.Close()
}
