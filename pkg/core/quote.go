package core

// Quote summarizes the latest historical price for a symbol
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// NewQuote builds a quote from the last two bars of the historical series.
// Change fields stay zero when there is no previous bar.
func NewQuote(symbol string, historical Series) Quote {
	quote := Quote{Symbol: symbol}

	last, ok := historical.Last(0)
	if !ok {
		return quote
	}
	quote.Price = last.Close

	prev, ok := historical.Last(1)
	if !ok {
		return quote
	}

	quote.Change = last.Close - prev.Close
	if prev.Close != 0 {
		quote.ChangePercent = quote.Change / prev.Close * 100
	}

	return quote
}

// Up reports whether the last close did not fall
func (q Quote) Up() bool { return q.Change >= 0 }
