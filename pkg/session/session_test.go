package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/raykavin/stockview/pkg/core"
	"github.com/raykavin/stockview/pkg/logger/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	sync.Mutex
	history    map[string]core.Series
	prediction map[string]core.Series
	historyErr error
	predictErr error
	calls      []string
}

func (f *fakeFetcher) History(_ context.Context, symbol string) (core.Series, error) {
	f.Lock()
	defer f.Unlock()
	f.calls = append(f.calls, "history:"+symbol)
	return f.history[symbol], f.historyErr
}

func (f *fakeFetcher) Prediction(_ context.Context, symbol string) (core.Series, error) {
	f.Lock()
	defer f.Unlock()
	f.calls = append(f.calls, "prediction:"+symbol)
	return f.prediction[symbol], f.predictErr
}

func newFetcher() *fakeFetcher {
	return &fakeFetcher{
		history: map[string]core.Series{
			"AAPL": {{Date: "2024-01-01", Close: 100}, {Date: "2024-01-02", Close: 110}},
			"TSLA": {{Date: "2024-01-01", Close: 200}},
		},
		prediction: map[string]core.Series{
			"AAPL": {{Date: "2024-01-03", Close: 115}},
		},
	}
}

func TestStore_Transitions(t *testing.T) {
	store := NewStore()
	assert.Equal(t, Idle, store.Snapshot().Status)

	ticket := store.Begin("AAPL")
	assert.Equal(t, Loading, store.Snapshot().Status)
	assert.True(t, store.Current(ticket))

	require.True(t, store.Complete(ticket, core.Series{{Date: "2024-01-01", Close: 1}}, nil))
	snapshot := store.Snapshot()
	assert.Equal(t, Loaded, snapshot.Status)
	assert.Equal(t, "AAPL", snapshot.Loaded)
	assert.Len(t, snapshot.Historical, 1)

	failed := store.Begin("TSLA")
	require.True(t, store.Fail(failed, errors.New("boom")))
	snapshot = store.Snapshot()
	assert.Equal(t, Failed, snapshot.Status)
	assert.Equal(t, "TSLA", snapshot.Symbol)
	assert.Equal(t, "AAPL", snapshot.Loaded)
	assert.Len(t, snapshot.Historical, 1, "failed load keeps previous series")
	assert.EqualError(t, snapshot.Err, "boom")
}

func TestStore_DiscardsStaleTickets(t *testing.T) {
	store := NewStore()

	stale := store.Begin("AAPL")
	fresh := store.Begin("TSLA")
	assert.False(t, store.Current(stale))

	require.True(t, store.Complete(fresh, core.Series{{Date: "2024-01-01", Close: 200}}, nil))
	assert.False(t, store.Complete(stale, core.Series{{Date: "2024-01-01", Close: 100}}, nil))
	assert.False(t, store.Fail(stale, errors.New("late failure")))

	snapshot := store.Snapshot()
	assert.Equal(t, Loaded, snapshot.Status)
	assert.Equal(t, "TSLA", snapshot.Loaded)
	assert.Equal(t, 200.0, snapshot.Historical[0].Close)
	assert.NoError(t, snapshot.Err)
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	store := NewStore()
	ticket := store.Begin("AAPL")
	store.Complete(ticket, core.Series{{Date: "2024-01-01", Close: 1}}, nil)

	snapshot := store.Snapshot()
	snapshot.Historical[0].Close = 99
	assert.Equal(t, 1.0, store.Snapshot().Historical[0].Close)
}

func TestLoader_Load(t *testing.T) {
	fetcher := newFetcher()
	loader := NewLoader(NewStore(), fetcher, zerolog.Nop())

	snapshot, err := loader.Load(context.Background(), " aapl ")
	require.NoError(t, err)
	assert.Equal(t, Loaded, snapshot.Status)
	assert.Equal(t, "AAPL", snapshot.Symbol)
	assert.Len(t, snapshot.Historical, 2)
	assert.Len(t, snapshot.Prediction, 1)
	assert.Equal(t, 110.0, snapshot.Quote.Price)
	assert.Equal(t, 10.0, snapshot.Quote.Change)
	assert.InDelta(t, 10.0, snapshot.Quote.ChangePercent, 1e-9)
	assert.Equal(t, []string{"history:AAPL", "prediction:AAPL"}, fetcher.calls)
}

func TestLoader_EmptySymbol(t *testing.T) {
	loader := NewLoader(NewStore(), newFetcher(), zerolog.Nop())

	snapshot, err := loader.Load(context.Background(), "   ")
	require.ErrorIs(t, err, core.ErrEmptySymbol)
	assert.Equal(t, Idle, snapshot.Status)
}

func TestLoader_FailureKeepsPreviousState(t *testing.T) {
	fetcher := newFetcher()
	loader := NewLoader(NewStore(), fetcher, zerolog.Nop())

	_, err := loader.Load(context.Background(), "AAPL")
	require.NoError(t, err)

	fetcher.predictErr = &core.HTTPError{Op: "stock prediction", Symbol: "TSLA", StatusCode: 500, Body: "model offline"}
	snapshot, err := loader.Load(context.Background(), "TSLA")

	var httpErr *core.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, Failed, snapshot.Status)
	assert.Equal(t, "AAPL", snapshot.Loaded)
	assert.Len(t, snapshot.Historical, 2, "history of the failed symbol is not applied")
	assert.Len(t, snapshot.Prediction, 1)
}

func TestFetch_HistoryErrorSkipsPrediction(t *testing.T) {
	fetcher := newFetcher()
	fetcher.historyErr = errors.New("connection refused")

	result := Fetch(context.Background(), fetcher, Ticket{Generation: 1, Symbol: "AAPL"})
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "load history")
	assert.Equal(t, []string{"history:AAPL"}, fetcher.calls)
}

func TestFetch_InvalidDateFailsLoad(t *testing.T) {
	fetcher := newFetcher()
	fetcher.history["BADDATE"] = core.Series{{Date: "yesterday", Close: 1}}
	fetcher.prediction["TSLA"] = core.Series{{Date: "next week", Close: 1}}

	result := Fetch(context.Background(), fetcher, Ticket{Generation: 1, Symbol: "BADDATE"})
	require.ErrorIs(t, result.Err, core.ErrInvalidDate)
	assert.Contains(t, result.Err.Error(), "load history")
	assert.Nil(t, result.Historical)

	result = Fetch(context.Background(), fetcher, Ticket{Generation: 2, Symbol: "TSLA"})
	require.ErrorIs(t, result.Err, core.ErrInvalidDate)
	assert.Contains(t, result.Err.Error(), "load prediction")
}

func TestLoader_InvalidDateKeepsPreviousSeries(t *testing.T) {
	fetcher := newFetcher()
	fetcher.history["BADDATE"] = core.Series{{Date: "yesterday", Close: 1}}
	loader := NewLoader(NewStore(), fetcher, zerolog.Nop())

	_, err := loader.Load(context.Background(), "AAPL")
	require.NoError(t, err)

	snapshot, err := loader.Load(context.Background(), "baddate")
	require.ErrorIs(t, err, core.ErrInvalidDate)
	assert.Equal(t, Failed, snapshot.Status)
	assert.Equal(t, "AAPL", snapshot.Loaded)
	assert.Len(t, snapshot.Historical, 2)
}

func TestStatus_String(t *testing.T) {
	text, err := Loaded.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "loaded", string(text))
	assert.Equal(t, "unknown", Status(9).String())
}
