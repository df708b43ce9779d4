package plot

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/gorilla/websocket"
	"github.com/raykavin/stockview/pkg/logger"
	"github.com/raykavin/stockview/pkg/session"
)

// Static assets embedded in the binary
var (
	//go:embed assets
	staticFiles embed.FS
)

// Chart serves the candlestick page, chart data and live chart sessions
type Chart struct {
	sync.Mutex
	port          int
	debug         bool
	height        int
	defaultSymbol string
	fetcher       session.Fetcher
	metrics       *Metrics
	scriptContent string
	indexHTML     *template.Template
	upgrader      websocket.Upgrader
	sessions      map[*Session]struct{}
	done          chan struct{}
	closeOnce     sync.Once
	lastUpdate    time.Time
	lastError     error
	log           logger.Logger
}

// Option defines a function type for configuring a Chart instance
type Option func(*Chart)

// WithPort sets the HTTP server port
func WithPort(port int) Option {
	return func(chart *Chart) {
		chart.port = port
	}
}

// WithDebug enables debug mode (disables minification)
func WithDebug() Option {
	return func(chart *Chart) {
		chart.debug = true
	}
}

// WithDefaultSymbol sets the symbol shown when none is requested
func WithDefaultSymbol(symbol string) Option {
	return func(chart *Chart) {
		chart.defaultSymbol = symbol
	}
}

// WithChartHeight sets the fixed chart height
func WithChartHeight(height int) Option {
	return func(chart *Chart) {
		chart.height = height
	}
}

// WithMetrics reports chart activity to metrics
func WithMetrics(metrics *Metrics) Option {
	return func(chart *Chart) {
		chart.metrics = metrics
	}
}

// NewChart creates a new chart instance backed by fetcher
func NewChart(log logger.Logger, fetcher session.Fetcher, options ...Option) (*Chart, error) {
	chart := &Chart{
		port:          8080,
		height:        DefaultHeight,
		defaultSymbol: "AAPL",
		fetcher:       fetcher,
		sessions:      make(map[*Session]struct{}),
		done:          make(chan struct{}),
		log:           log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	// Apply all options
	for _, option := range options {
		option(chart)
	}

	if chart.metrics == nil {
		chart.metrics = NewMetrics()
	}

	// Parse chart HTML template
	var err error
	chart.indexHTML, err = template.ParseFS(staticFiles, "assets/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse chart template: %w", err)
	}

	// Read and transpile chart JavaScript
	chartJS, err := staticFiles.ReadFile("assets/js/main.js")
	if err != nil {
		return nil, fmt.Errorf("failed to read main.js: %w", err)
	}

	transpileChartJS := api.Transform(string(chartJS), api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2015,
		MinifySyntax:      !chart.debug,
		MinifyIdentifiers: !chart.debug,
		MinifyWhitespace:  !chart.debug,
	})

	if len(transpileChartJS.Errors) > 0 {
		return nil, fmt.Errorf("chart script failed with: %v", transpileChartJS.Errors)
	}

	chart.scriptContent = string(transpileChartJS.Code)

	return chart, nil
}

// GetPort returns the configured port
func (c *Chart) GetPort() int {
	return c.port
}

// Metrics returns the chart metrics recorder
func (c *Chart) Metrics() *Metrics {
	return c.metrics
}

// SessionCount returns the number of connected sessions
func (c *Chart) SessionCount() int {
	c.Lock()
	defer c.Unlock()
	return len(c.sessions)
}

// Close ends every live session with a going-away close frame. Hijacked
// websocket connections are not tracked by http.Server.Shutdown.
func (c *Chart) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// RegisterHandlers registers all necessary handlers on the HTTP server
func (c *Chart) RegisterHandlers(server HTTPServer) {
	server.RegisterFileServer("/assets/", http.FS(staticFiles))
	server.RegisterHandler("/assets/js/main.js", c.handleScript)

	server.RegisterHandler("/health", c.handleHealth)
	server.RegisterHandler("/api/chart", c.handleChart)
	server.RegisterHandler("/api/line.png", c.handleLine)
	server.RegisterHandler("/ws", c.handleWebSocket)
	server.Register("/metrics", c.metrics.Handler())
	server.RegisterHandler("/", c.handleIndex)
}

// recordLoad keeps the outcome of the latest load for the health endpoint
func (c *Chart) recordLoad(err error) {
	c.metrics.loadFinished(err)

	c.Lock()
	defer c.Unlock()
	c.lastError = err
	if err == nil {
		c.lastUpdate = time.Now()
	}
}

func (c *Chart) addSession(s *Session) bool {
	c.Lock()
	select {
	case <-c.done:
		c.Unlock()
		return false
	default:
	}
	c.sessions[s] = struct{}{}
	count := len(c.sessions)
	c.Unlock()

	c.metrics.sessionOpened()
	c.log.WithField("sessions", count).Debug("chart session opened")
	return true
}

func (c *Chart) removeSession(s *Session) {
	c.Lock()
	delete(c.sessions, s)
	count := len(c.sessions)
	c.Unlock()

	c.metrics.sessionClosed()
	c.log.WithField("sessions", count).Debug("chart session closed")
}
