package plot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/raykavin/stockview/pkg/core"
	"github.com/raykavin/stockview/pkg/projector"
	"github.com/raykavin/stockview/pkg/session"
)

// handleHealth reports the outcome of the latest load
func (c *Chart) handleHealth(w http.ResponseWriter, _ *http.Request) {
	c.Lock()
	response := map[string]any{
		"status":   "ok",
		"sessions": len(c.sessions),
	}
	if !c.lastUpdate.IsZero() {
		response["last_update"] = c.lastUpdate.Format(time.RFC3339)
	}
	if c.lastError != nil {
		response["last_error"] = c.lastError.Error()
	}
	c.Unlock()

	c.writeJSON(w, http.StatusOK, response)
}

// handleIndex handles the main page request
func (c *Chart) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	symbol, err := session.NormalizeSymbol(r.URL.Query().Get("symbol"))
	if err != nil {
		symbol = c.defaultSymbol
	}

	w.Header().Set("Content-Type", "text/html")
	err = c.indexHTML.Execute(w, map[string]any{
		"symbol": symbol,
		"height": c.height,
	})
	if err != nil {
		c.log.Error("Template execution failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// handleScript serves the transpiled chart script
func (c *Chart) handleScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	fmt.Fprint(w, c.scriptContent)
}

// handleChart returns the candlestick document and merged line for a symbol
func (c *Chart) handleChart(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := c.load(w, r)
	if !ok {
		return
	}

	width, _ := strconv.Atoi(r.URL.Query().Get("width"))
	if width <= 0 {
		width = defaultLineWidth
	}

	renderer := NewRenderer(NewViewport(width), NewWindow(),
		WithRendererHeight(c.height), WithRendererMetrics(c.metrics))
	defer renderer.Release()

	if err := renderer.Render(snapshot.Historical, snapshot.Prediction); err != nil {
		c.log.WithField("symbol", snapshot.Symbol).WithError(err).Error("failed to render chart")
		c.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	line, err := projector.Project(snapshot.Historical, snapshot.Prediction)
	if err != nil {
		c.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	lineSeries, err := NewLineSeries(line)
	if err != nil {
		c.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	// Encode before the deferred release removes the surface
	body, err := json.Marshal(chartPayload{
		Symbol:     snapshot.Loaded,
		State:      renderer.State().String(),
		Quote:      snapshot.Quote,
		Document:   renderer.Document(),
		Line:       line,
		LineSeries: lineSeries,
	})
	if err != nil {
		c.log.Error("JSON encoding failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// handleLine renders the merged close-price line chart as PNG
func (c *Chart) handleLine(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := c.load(w, r)
	if !ok {
		return
	}

	line, err := projector.Project(snapshot.Historical, snapshot.Prediction)
	if err != nil {
		c.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	width, _ := strconv.Atoi(r.URL.Query().Get("width"))

	buffer := bytes.NewBuffer(nil)
	if err := RenderLine(buffer, line, width, c.height); err != nil {
		if errors.Is(err, ErrNothingToDraw) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		c.log.WithField("symbol", snapshot.Symbol).WithError(err).Error("failed to render line chart")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buffer.Bytes()); err != nil {
		c.log.Error("Failed writing line chart: ", err)
	}
}

// load fetches both series for the symbol query parameter. On failure it writes
// the error response and returns false.
func (c *Chart) load(w http.ResponseWriter, r *http.Request) (session.Snapshot, bool) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		symbol = c.defaultSymbol
	}

	loader := session.NewLoader(session.NewStore(), c.fetcher, c.log)
	snapshot, err := loader.Load(r.Context(), symbol)
	if errors.Is(err, core.ErrEmptySymbol) {
		c.writeError(w, http.StatusBadRequest, err)
		return snapshot, false
	}

	c.recordLoad(err)
	if err != nil {
		c.writeError(w, statusFor(err), err)
		return snapshot, false
	}

	return snapshot, true
}

// statusFor maps an upstream failure to the status returned to our clients
func statusFor(err error) int {
	var httpErr *core.HTTPError
	if errors.As(err, &httpErr) && httpErr.IsNotFound() || errors.Is(err, core.ErrUnknownSymbol) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func (c *Chart) writeError(w http.ResponseWriter, status int, err error) {
	c.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (c *Chart) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		c.log.Error("JSON encoding failed: ", err)
	}
}
