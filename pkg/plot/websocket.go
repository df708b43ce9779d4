package plot

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/raykavin/stockview/pkg/logger"
	"github.com/raykavin/stockview/pkg/projector"
	"github.com/raykavin/stockview/pkg/session"
)

const writeWait = 10 * time.Second

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// clientMessage is a command sent by the browser
type clientMessage struct {
	Type   string `json:"type"`
	Symbol string `json:"symbol,omitempty"`
	Width  int    `json:"width,omitempty"`
}

// Session is one connected chart client. Every command and every fetched result
// is handled on the session loop, so the renderer is never touched concurrently.
type Session struct {
	conn     *websocket.Conn
	chart    *Chart
	store    *session.Store
	viewport *Viewport
	window   *Window
	renderer *Renderer
	messages chan clientMessage
	results  chan session.Result
	log      logger.Logger
}

func newSession(chart *Chart, conn *websocket.Conn) *Session {
	viewport := &Viewport{}
	window := NewWindow()

	return &Session{
		conn:     conn,
		chart:    chart,
		store:    session.NewStore(),
		viewport: viewport,
		window:   window,
		renderer: NewRenderer(viewport, window,
			WithRendererHeight(chart.height),
			WithRendererMetrics(chart.metrics),
		),
		messages: make(chan clientMessage),
		results:  make(chan session.Result),
		log:      chart.log,
	}
}

// handleWebSocket upgrades the connection and runs a chart session on it
func (c *Chart) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.log.Error("Failed to upgrade connection to WebSocket: ", err)
		return
	}

	s := newSession(c, conn)
	if !c.addSession(s) {
		s.goAway()
		conn.Close()
		return
	}
	defer c.removeSession(s)

	s.run(r.Context())
}

// run serves the session until the client disconnects or ctx is done
func (s *Session) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		s.renderer.Release()
		s.conn.Close()
	}()

	go s.read(ctx, cancel)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.chart.done:
			s.goAway()
			return
		case msg := <-s.messages:
			if err := s.handleMessage(ctx, msg); err != nil {
				s.log.WithError(err).Debug("chart session write failed")
				return
			}
		case result := <-s.results:
			if err := s.handleResult(result); err != nil {
				s.log.WithError(err).Debug("chart session write failed")
				return
			}
		}
	}
}

// read decodes client commands until the connection fails
func (s *Session) read(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()

	// Keep connection alive with ping/pong
	s.conn.SetPingHandler(func(string) error {
		return s.conn.WriteControl(websocket.PongMessage, []byte{}, time.Now().Add(writeWait))
	})

	for {
		var msg clientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Error("WebSocket read error: ", err)
			}
			return
		}

		select {
		case s.messages <- msg:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) handleMessage(ctx context.Context, msg clientMessage) error {
	switch msg.Type {
	case "mount":
		s.viewport.Mount(msg.Width)
		s.renderer.Mount(s.viewport)
		if s.store.Snapshot().Loaded == "" {
			return nil
		}
		return s.render()

	case "resize":
		s.viewport.SetWidth(msg.Width)
		s.window.DispatchResize()
		if s.renderer.State() == Uninitialized {
			return nil
		}
		return s.pushChart(s.store.Snapshot())

	case "unmount":
		s.renderer.Unmount()
		s.viewport.Unmount()
		return s.send("cleared", nil)

	case "load":
		return s.load(ctx, msg.Symbol)

	default:
		s.log.WithField("type", msg.Type).Warn("unknown chart session message")
		return nil
	}
}

// load starts a fetch for symbol. The result comes back on the session loop.
func (s *Session) load(ctx context.Context, symbol string) error {
	symbol, err := session.NormalizeSymbol(symbol)
	if err != nil {
		return s.send("state", statePayload{Status: session.Failed.String(), Error: err.Error()})
	}

	ticket := s.store.Begin(symbol)
	if err := s.send("state", statePayload{Status: session.Loading.String(), Symbol: symbol}); err != nil {
		return err
	}

	go func() {
		result := session.Fetch(ctx, s.chart.fetcher, ticket)
		select {
		case s.results <- result:
		case <-ctx.Done():
		}
	}()

	return nil
}

func (s *Session) handleResult(result session.Result) error {
	log := s.log.WithField("symbol", result.Ticket.Symbol)

	if !s.store.Apply(result) {
		s.chart.metrics.staleResponse()
		log.Debug("discarding stale response")
		return nil
	}

	s.chart.recordLoad(result.Err)

	if result.Err != nil {
		log.WithError(result.Err).Error("Error loading stock data")
		return s.send("state", statePayload{
			Status: session.Failed.String(),
			Symbol: result.Ticket.Symbol,
			Error:  result.Err.Error(),
		})
	}

	if err := s.send("state", statePayload{Status: session.Loaded.String(), Symbol: result.Ticket.Symbol}); err != nil {
		return err
	}
	return s.render()
}

// render rebuilds the chart from the store and pushes it to the client
func (s *Session) render() error {
	snapshot := s.store.Snapshot()

	if err := s.renderer.Render(snapshot.Historical, snapshot.Prediction); err != nil {
		s.log.WithField("symbol", snapshot.Loaded).WithError(err).Error("failed to render chart")
		err = s.send("state", statePayload{
			Status: session.Failed.String(),
			Symbol: snapshot.Loaded,
			Error:  err.Error(),
		})
		if err != nil {
			return err
		}
		// The surface is gone; the client must drop its copy too
		return s.send("cleared", nil)
	}

	return s.pushChart(snapshot)
}

func (s *Session) pushChart(snapshot session.Snapshot) error {
	payload := chartPayload{
		Symbol:   snapshot.Loaded,
		State:    s.renderer.State().String(),
		Quote:    snapshot.Quote,
		Document: s.renderer.Document(),
	}

	line, err := projector.Project(snapshot.Historical, snapshot.Prediction)
	if err == nil {
		payload.Line = line
		payload.LineSeries, err = NewLineSeries(line)
	}
	if err != nil {
		s.log.WithField("symbol", snapshot.Loaded).WithError(err).Warn("failed to project line chart")
	}

	return s.send("chart", payload)
}

// goAway tells the client the server is shutting down
func (s *Session) goAway() {
	message := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	if err := s.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeWait)); err != nil {
		s.log.WithError(err).Debug("chart session close frame failed")
	}
}

func (s *Session) send(kind string, payload any) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteJSON(WebSocketMessage{Type: kind, Payload: payload})
}
