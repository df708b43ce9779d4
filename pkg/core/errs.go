package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDate   = errors.New("invalid bar date")
	ErrEmptySymbol   = errors.New("empty symbol")
	ErrUnknownSymbol = errors.New("unknown symbol")
)

// HTTPError is returned when the prediction service answers with a non-2xx status
type HTTPError struct {
	Op         string
	Symbol     string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("failed to fetch %s %s: %d %s", e.Op, e.Symbol, e.StatusCode, e.Body)
}

// IsNotFound reports whether the service did not know the symbol
func (e *HTTPError) IsNotFound() bool { return e.StatusCode == 404 }
