package metric

import (
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Interval is a bootstrap confidence interval of a statistic
type Interval struct {
	Lower  float64
	Upper  float64
	Mean   float64
	StdDev float64
}

// Bootstrap estimates the confidence interval of measure over values by
// resampling with replacement rounds times.
func Bootstrap(values []float64, measure func([]float64) float64, rounds int, confidence float64) Interval {
	if len(values) == 0 || rounds <= 0 {
		return Interval{}
	}

	estimates := lo.Times(rounds, func(_ int) float64 {
		resample := lo.Times(len(values), func(_ int) float64 {
			return lo.Sample(values)
		})
		return measure(resample)
	})
	sort.Float64s(estimates)

	tail := (1 - confidence) / 2
	mean, stdDev := stat.MeanStdDev(estimates, nil)

	return Interval{
		Lower:  stat.Quantile(tail, stat.LinInterp, estimates, nil),
		Upper:  stat.Quantile(1-tail, stat.LinInterp, estimates, nil),
		Mean:   mean,
		StdDev: stdDev,
	}
}
