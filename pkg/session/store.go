// Package session holds the view state of one chart client: the current symbol, both
// series and the load status, guarded by a monotonic request generation.
package session

import (
	"strings"
	"sync"

	"github.com/raykavin/stockview/pkg/core"
)

type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Ticket identifies one load request. Only the ticket of the latest Begin may
// change the series.
type Ticket struct {
	Generation uint64
	Symbol     string
}

// Snapshot is a copy of the store state
type Snapshot struct {
	Status     Status
	Symbol     string // symbol of the latest request
	Loaded     string // symbol the series belong to
	Historical core.Series
	Prediction core.Series
	Quote      core.Quote
	Err        error
	Generation uint64
}

// Store is the state container shared by the renderer and the projector.
// Failed loads keep the previous series untouched.
type Store struct {
	sync.RWMutex
	status     Status
	symbol     string
	loaded     string
	historical core.Series
	prediction core.Series
	err        error
	generation uint64
}

func NewStore() *Store {
	return &Store{}
}

// NormalizeSymbol trims and uppercases a ticker
func NormalizeSymbol(symbol string) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "", core.ErrEmptySymbol
	}
	return symbol, nil
}

// Begin starts a new load, invalidating every earlier ticket
func (s *Store) Begin(symbol string) Ticket {
	s.Lock()
	defer s.Unlock()

	s.generation++
	s.status = Loading
	s.symbol = symbol
	s.err = nil

	return Ticket{Generation: s.generation, Symbol: symbol}
}

// Complete stores the fetched series. It returns false and changes nothing when
// the ticket is stale.
func (s *Store) Complete(ticket Ticket, historical, prediction core.Series) bool {
	s.Lock()
	defer s.Unlock()

	if ticket.Generation != s.generation {
		return false
	}

	s.status = Loaded
	s.loaded = ticket.Symbol
	s.historical = historical
	s.prediction = prediction
	s.err = nil
	return true
}

// Fail records a load error for the ticket, keeping the previous series.
// It returns false when the ticket is stale.
func (s *Store) Fail(ticket Ticket, err error) bool {
	s.Lock()
	defer s.Unlock()

	if ticket.Generation != s.generation {
		return false
	}

	s.status = Failed
	s.err = err
	return true
}

// Current reports whether the ticket belongs to the latest load
func (s *Store) Current(ticket Ticket) bool {
	s.RLock()
	defer s.RUnlock()
	return ticket.Generation == s.generation
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() Snapshot {
	s.RLock()
	defer s.RUnlock()

	historical := append(core.Series(nil), s.historical...)
	prediction := append(core.Series(nil), s.prediction...)

	return Snapshot{
		Status:     s.status,
		Symbol:     s.symbol,
		Loaded:     s.loaded,
		Historical: historical,
		Prediction: prediction,
		Quote:      core.NewQuote(s.loaded, historical),
		Err:        s.err,
		Generation: s.generation,
	}
}
