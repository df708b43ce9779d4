// Package metric computes summary statistics over price series.
package metric

import (
	"math"

	"github.com/raykavin/stockview/pkg/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean is the arithmetic mean, zero for no values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Drawdown is the largest peak-to-trough decline of a close series
type Drawdown struct {
	Value float64 // relative decline, negative or zero
	Peak  string  // date of the peak
	Start int     // index of the peak
	End   int     // index of the trough
}

// MaxDrawdown finds the largest decline from a running peak
func MaxDrawdown(series core.Series) Drawdown {
	var drawdown Drawdown
	if series.Empty() {
		return drawdown
	}

	peak := 0
	for i, bar := range series {
		if bar.Close > series[peak].Close {
			peak = i
		}
		if series[peak].Close == 0 {
			continue
		}

		decline := (bar.Close - series[peak].Close) / series[peak].Close
		if decline < drawdown.Value {
			drawdown = Drawdown{Value: decline, Peak: series[peak].Date, Start: peak, End: i}
		}
	}

	return drawdown
}

// Stats summarizes the bar-over-bar returns of a series
type Stats struct {
	Bars     int
	Returns  int
	Mean     float64
	StdDev   float64
	Best     float64
	Worst    float64
	Drawdown Drawdown
	Interval Interval // 95% confidence interval of the mean return
}

// Summarize computes Stats with bootstrapRounds resamples for the mean interval
func Summarize(series core.Series, bootstrapRounds int) Stats {
	returns := series.Returns()

	stats := Stats{
		Bars:     series.Len(),
		Returns:  len(returns),
		Drawdown: MaxDrawdown(series),
	}
	if len(returns) == 0 {
		return stats
	}

	stats.Mean, stats.StdDev = stat.MeanStdDev(returns, nil)
	if math.IsNaN(stats.StdDev) {
		stats.StdDev = 0
	}
	stats.Best = floats.Max(returns)
	stats.Worst = floats.Min(returns)
	stats.Interval = Bootstrap(returns, Mean, bootstrapRounds, 0.95)

	return stats
}
