package core

// PriceBar represents one OHLCV bar as exchanged with the prediction service
type PriceBar struct {
	Date      string   `json:"date"`
	Open      float64  `json:"open"`
	High      float64  `json:"high"`
	Low       float64  `json:"low"`
	Close     float64  `json:"close"`
	Volume    *float64 `json:"volume,omitempty"`
	Predicted *bool    `json:"predicted,omitempty"`
}

// Series is an ordered sequence of bars.
// Ascending chronological order is assumed, never verified.
type Series []PriceBar

// Len returns the number of bars in the series
func (s Series) Len() int { return len(s) }

// Empty reports whether there is nothing to draw
func (s Series) Empty() bool { return len(s) == 0 }

// Last returns the bar at a specified position from the end
// position 0 is the last bar, 1 is the second-to-last, etc.
func (s Series) Last(position int) (PriceBar, bool) {
	idx := len(s) - 1 - position
	if position < 0 || idx < 0 {
		return PriceBar{}, false
	}
	return s[idx], true
}

// Closes returns the close prices in series order
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, bar := range s {
		closes[i] = bar.Close
	}
	return closes
}

// Returns returns the bar-over-bar relative change of the close price
func (s Series) Returns() []float64 {
	if len(s) < 2 {
		return []float64{}
	}

	returns := make([]float64, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		prev := s[i-1].Close
		if prev == 0 {
			continue
		}
		returns = append(returns, (s[i].Close-prev)/prev)
	}
	return returns
}

// ChartPoint is a bar keyed by whole unix seconds, ready to be plotted
type ChartPoint struct {
	Time  int64   `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// MergedLinePoint is one category of the merged close-price line chart.
// Exactly one of the two close fields is set.
type MergedLinePoint struct {
	Date            string   `json:"date"`
	CloseHistorical *float64 `json:"closeHistorical,omitempty"`
	ClosePrediction *float64 `json:"closePrediction,omitempty"`
}

// IsPrediction reports whether the point belongs to the forecast line
func (p MergedLinePoint) IsPrediction() bool { return p.ClosePrediction != nil }

// Value returns whichever close is present
func (p MergedLinePoint) Value() float64 {
	switch {
	case p.CloseHistorical != nil:
		return *p.CloseHistorical
	case p.ClosePrediction != nil:
		return *p.ClosePrediction
	default:
		return 0
	}
}
