package stockview

import (
	"github.com/raykavin/stockview/pkg/logger"
	"github.com/raykavin/stockview/pkg/plot"
	"github.com/raykavin/stockview/pkg/session"
)

// Option is a functional option for configuring a StockView instance
type Option func(*StockView)

// WithLogger replaces DefaultLog
func WithLogger(log logger.Logger) Option {
	return func(s *StockView) {
		s.logger = log
	}
}

// WithFetcher replaces the prediction service client, useful for tests and
// alternative data sources
func WithFetcher(fetcher session.Fetcher) Option {
	return func(s *StockView) {
		s.fetcher = fetcher
	}
}

// WithHTTPServer sets the server the chart is registered on
func WithHTTPServer(server plot.HTTPServer) Option {
	return func(s *StockView) {
		s.server = server
	}
}

// WithMetrics shares a metrics recorder with the chart
func WithMetrics(metrics *plot.Metrics) Option {
	return func(s *StockView) {
		s.metrics = metrics
	}
}
