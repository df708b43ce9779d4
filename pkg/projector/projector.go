// Package projector merges historical and predicted bars into a single close-price line sequence.
package projector

import (
	"fmt"
	"time"

	"github.com/raykavin/stockview/pkg/core"
	"github.com/raykavin/stockview/pkg/series"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

type keyedPoint struct {
	at    time.Time
	point core.MergedLinePoint
}

// Project builds the merged line sequence: historical points first (date only),
// then prediction points (date verbatim), stable-sorted by instant.
// Each point carries exactly one of the two close values.
func Project(historical, prediction core.Series) ([]core.MergedLinePoint, error) {
	keyed := make([]keyedPoint, 0, len(historical)+len(prediction))

	for i, bar := range historical {
		date, err := series.DateOnly(bar.Date)
		if err != nil {
			return nil, fmt.Errorf("historical bar %d: %w", i, err)
		}

		at, err := series.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("historical bar %d: %w", i, err)
		}

		keyed = append(keyed, keyedPoint{
			at:    at,
			point: core.MergedLinePoint{Date: date, CloseHistorical: lo.ToPtr(bar.Close)},
		})
	}

	for i, bar := range prediction {
		at, err := series.ParseDate(bar.Date)
		if err != nil {
			return nil, fmt.Errorf("prediction bar %d: %w", i, err)
		}

		keyed = append(keyed, keyedPoint{
			at:    at,
			point: core.MergedLinePoint{Date: bar.Date, ClosePrediction: lo.ToPtr(bar.Close)},
		})
	}

	slices.SortStableFunc(keyed, func(a, b keyedPoint) int {
		return a.at.Compare(b.at)
	})

	return lo.Map(keyed, func(k keyedPoint, _ int) core.MergedLinePoint {
		return k.point
	}), nil
}

// Split returns the line values of each field, aligned to the category positions
// of points. Positions where a field is absent are skipped, not zero-filled.
func Split(points []core.MergedLinePoint) (historical, prediction Line) {
	for i, p := range points {
		switch {
		case p.CloseHistorical != nil:
			historical.Positions = append(historical.Positions, float64(i))
			historical.Values = append(historical.Values, *p.CloseHistorical)
		case p.ClosePrediction != nil:
			prediction.Positions = append(prediction.Positions, float64(i))
			prediction.Values = append(prediction.Values, *p.ClosePrediction)
		}
	}
	return historical, prediction
}

// Line is one field of the merged sequence laid out on the category axis
type Line struct {
	Positions []float64
	Values    []float64
}

// Empty reports whether the line has no plotted values
func (l Line) Empty() bool { return len(l.Values) == 0 }
