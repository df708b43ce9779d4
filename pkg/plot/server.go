package plot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/raykavin/stockview/pkg/logger"
)

// HTTPServer defines the interface for an HTTP server that Chart will use
type HTTPServer interface {
	// RegisterHandler registers a handler function for a specific route
	RegisterHandler(path string, handler http.HandlerFunc)

	// Register registers a handler for a specific route
	Register(path string, handler http.Handler)

	// RegisterFileServer registers a handler to serve static files
	RegisterFileServer(path string, fs http.FileSystem)

	// Start serves on the specified port until Shutdown is called
	Start(port int) error

	// Shutdown gracefully stops the server
	Shutdown(ctx context.Context) error
}

// StandardHTTPServer implements HTTPServer with its own ServeMux
type StandardHTTPServer struct {
	mux    *http.ServeMux
	server *http.Server
}

// NewStandardHTTPServer creates a new instance of StandardHTTPServer
func NewStandardHTTPServer() *StandardHTTPServer {
	mux := http.NewServeMux()
	return &StandardHTTPServer{
		mux: mux,
		server: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *StandardHTTPServer) RegisterHandler(path string, handler http.HandlerFunc) {
	s.mux.HandleFunc(path, handler)
}

func (s *StandardHTTPServer) Register(path string, handler http.Handler) {
	s.mux.Handle(path, handler)
}

func (s *StandardHTTPServer) RegisterFileServer(path string, fs http.FileSystem) {
	s.mux.Handle(path, http.FileServer(fs))
}

// Handler returns the routes registered so far
func (s *StandardHTTPServer) Handler() http.Handler {
	return s.mux
}

func (s *StandardHTTPServer) Start(port int) error {
	s.server.Addr = fmt.Sprintf(":%d", port)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *StandardHTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// ChartServer combines a Chart with an HTTP server
type ChartServer struct {
	chart  *Chart
	server HTTPServer
	log    logger.Logger
}

// NewChartServer creates a new ChartServer
func NewChartServer(chart *Chart, server HTTPServer, log logger.Logger) *ChartServer {
	return &ChartServer{
		chart:  chart,
		server: server,
		log:    log,
	}
}

// Start registers the chart routes and serves until ctx is done
func (cs *ChartServer) Start(ctx context.Context) error {
	cs.chart.RegisterHandlers(cs.server)

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cs.chart.Close()

		if err := cs.server.Shutdown(shutdownCtx); err != nil {
			cs.log.WithError(err).Error("chart server shutdown failed")
		}
	}()

	cs.log.Infof("Chart available at http://localhost:%d", cs.chart.GetPort())
	return cs.server.Start(cs.chart.GetPort())
}
