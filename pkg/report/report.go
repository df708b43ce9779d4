// Package report prints a console summary of a symbol: quote, recent bars,
// return statistics and a histogram of daily returns.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/stockview/pkg/core"
	"github.com/raykavin/stockview/pkg/metric"
	"github.com/samber/lo"
)

const (
	DefaultRows     = 10
	histogramBins   = 15
	histogramWidth  = 10
	bootstrapRounds = 2000
)

// Summary is everything the report prints for one symbol
type Summary struct {
	Quote      core.Quote
	Historical core.Series
	Prediction core.Series
	Stats      metric.Stats
}

// NewSummary computes the statistics of a loaded symbol
func NewSummary(symbol string, historical, prediction core.Series) Summary {
	return Summary{
		Quote:      core.NewQuote(symbol, historical),
		Historical: historical,
		Prediction: prediction,
		Stats:      metric.Summarize(historical, bootstrapRounds),
	}
}

// Write prints the summary with the last rows historical bars
func Write(w io.Writer, summary Summary, rows int) error {
	if rows <= 0 {
		rows = DefaultRows
	}

	buffer := bytes.NewBuffer(nil)

	fmt.Fprintf(buffer, "%s  %.2f  %+.2f (%+.2f%%)\n\n",
		summary.Quote.Symbol, summary.Quote.Price, summary.Quote.Change, summary.Quote.ChangePercent)

	writeBars(buffer, summary, rows)
	buffer.WriteString("\n")
	writeStats(buffer, summary.Stats)

	returns := summary.Historical.Returns()
	if len(returns) > 0 {
		buffer.WriteString("\n------ DAILY RETURN (%) -------\n")
		percent := lo.Map(returns, func(r float64, _ int) float64 { return r * 100 })
		hist := histogram.Hist(histogramBins, percent)
		if err := histogram.Fprint(buffer, hist, histogram.Linear(histogramWidth)); err != nil {
			return fmt.Errorf("print histogram: %w", err)
		}
	}

	_, err := buffer.WriteTo(w)
	return err
}

func writeBars(w io.Writer, summary Summary, rows int) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Date", "Open", "High", "Low", "Close", "Volume", "Kind"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	recent := summary.Historical
	if len(recent) > rows {
		recent = recent[len(recent)-rows:]
	}

	for _, bar := range recent {
		table.Append(barRow(bar, "historical"))
	}
	for _, bar := range summary.Prediction {
		table.Append(barRow(bar, "prediction"))
	}

	table.SetFooter([]string{
		"BARS",
		"", "", "", "", "",
		fmt.Sprintf("%d + %d", summary.Historical.Len(), summary.Prediction.Len()),
	})
	table.Render()
}

func barRow(bar core.PriceBar, kind string) []string {
	volume := "-"
	if bar.Volume != nil {
		volume = strconv.FormatFloat(*bar.Volume, 'f', 0, 64)
	}

	return []string{
		bar.Date,
		fmt.Sprintf("%.2f", bar.Open),
		fmt.Sprintf("%.2f", bar.High),
		fmt.Sprintf("%.2f", bar.Low),
		fmt.Sprintf("%.2f", bar.Close),
		volume,
		kind,
	}
}

func writeStats(w io.Writer, stats metric.Stats) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Returns", "Mean", "Std Dev", "Best", "Worst", "Max Drawdown", "Mean 95% CI"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.Append([]string{
		strconv.Itoa(stats.Returns),
		fmt.Sprintf("%.2f %%", stats.Mean*100),
		fmt.Sprintf("%.2f %%", stats.StdDev*100),
		fmt.Sprintf("%.2f %%", stats.Best*100),
		fmt.Sprintf("%.2f %%", stats.Worst*100),
		fmt.Sprintf("%.1f %%", stats.Drawdown.Value*100),
		fmt.Sprintf("%.2f %% ~ %.2f %%", stats.Interval.Lower*100, stats.Interval.Upper*100),
	})
	table.Render()
}
