package session

import (
	"context"
	"fmt"

	"github.com/raykavin/stockview/pkg/core"
	"github.com/raykavin/stockview/pkg/logger"
	"github.com/raykavin/stockview/pkg/series"
)

// Fetcher retrieves both series for a symbol
type Fetcher interface {
	History(ctx context.Context, symbol string) (core.Series, error)
	Prediction(ctx context.Context, symbol string) (core.Series, error)
}

// Result is the outcome of fetching one ticket
type Result struct {
	Ticket     Ticket
	Historical core.Series
	Prediction core.Series
	Err        error
}

// Fetch retrieves history then prediction. Either failure fails the whole result,
// and so does a bar whose date cannot be plotted.
func Fetch(ctx context.Context, fetcher Fetcher, ticket Ticket) Result {
	result := Result{Ticket: ticket}

	historical, err := fetcher.History(ctx, ticket.Symbol)
	if err != nil {
		result.Err = fmt.Errorf("load history: %w", err)
		return result
	}

	prediction, err := fetcher.Prediction(ctx, ticket.Symbol)
	if err != nil {
		result.Err = fmt.Errorf("load prediction: %w", err)
		return result
	}

	if _, err := series.Normalize(historical); err != nil {
		result.Err = fmt.Errorf("load history: %w", err)
		return result
	}
	if _, err := series.Normalize(prediction); err != nil {
		result.Err = fmt.Errorf("load prediction: %w", err)
		return result
	}

	result.Historical = historical
	result.Prediction = prediction
	return result
}

// Apply moves a fetched result into the store. It returns false when the result
// belongs to a stale ticket and was discarded.
func (s *Store) Apply(result Result) bool {
	if result.Err != nil {
		return s.Fail(result.Ticket, result.Err)
	}
	return s.Complete(result.Ticket, result.Historical, result.Prediction)
}

// Loader runs synchronous loads against a store
type Loader struct {
	store   *Store
	fetcher Fetcher
	log     logger.Logger
}

func NewLoader(store *Store, fetcher Fetcher, log logger.Logger) *Loader {
	return &Loader{store: store, fetcher: fetcher, log: log}
}

// Store returns the store the loader writes to
func (l *Loader) Store() *Store { return l.store }

// Load fetches both series for symbol. Fetch failures are logged and returned;
// the store keeps its previous series.
func (l *Loader) Load(ctx context.Context, symbol string) (Snapshot, error) {
	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return l.store.Snapshot(), err
	}

	ticket := l.store.Begin(symbol)
	result := Fetch(ctx, l.fetcher, ticket)

	if !l.store.Apply(result) {
		l.log.WithField("symbol", symbol).Debug("discarding stale response")
		return l.store.Snapshot(), result.Err
	}

	if result.Err != nil {
		l.log.WithField("symbol", symbol).WithError(result.Err).Error("Error loading stock data")
		return l.store.Snapshot(), result.Err
	}

	l.log.WithFields(map[string]any{
		"symbol":     symbol,
		"historical": result.Historical.Len(),
		"prediction": result.Prediction.Len(),
	}).Debug("stock data loaded")

	return l.store.Snapshot(), nil
}
