// Package series converts bars exchanged with the prediction service into plottable points.
package series

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/raykavin/stockview/pkg/core"
)

const dateLayout = "2006-01-02"

// Layouts tried in order. Layouts without a zone are read as UTC.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
	dateLayout,
}

// ParseDate parses a bar date in any of the accepted calendar forms
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", core.ErrInvalidDate)
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, value)
}

// DateOnly drops the time-of-day component of a bar date, keeping the calendar
// date as written (no zone conversion)
func DateOnly(value string) (string, error) {
	t, err := ParseDate(value)
	if err != nil {
		return "", err
	}

	value = strings.TrimSpace(value)
	if len(value) >= len(dateLayout) {
		if _, err := time.Parse(dateLayout, value[:len(dateLayout)]); err == nil {
			return value[:len(dateLayout)], nil
		}
	}

	return t.Format(dateLayout), nil
}

// UnixSeconds converts an instant to whole seconds, flooring sub-second precision
func UnixSeconds(t time.Time) int64 {
	return int64(math.Floor(float64(t.UnixMilli()) / 1000))
}

// Normalize converts a series to chart points of identical length and order.
// A single unparseable date rejects the whole series.
func Normalize(bars core.Series) ([]core.ChartPoint, error) {
	points := make([]core.ChartPoint, 0, len(bars))

	for i, bar := range bars {
		t, err := ParseDate(bar.Date)
		if err != nil {
			return nil, fmt.Errorf("bar %d: %w", i, err)
		}

		points = append(points, core.ChartPoint{
			Time:  UnixSeconds(t),
			Open:  bar.Open,
			High:  bar.High,
			Low:   bar.Low,
			Close: bar.Close,
		})
	}

	return points, nil
}
