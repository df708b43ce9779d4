// Package feed reads price bars from local CSV files, as an alternative to the
// prediction service.
package feed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/raykavin/stockview/pkg/core"
	"github.com/raykavin/stockview/pkg/series"
)

// PredictionSuffix names the forecast file of a symbol: AAPL.csv holds the
// history and AAPL_prediction.csv the forecast.
const PredictionSuffix = "_prediction"

var defaultHeaderMap = map[string]int{
	"date": 0, "open": 1, "high": 2, "low": 3, "close": 4, "volume": 5,
}

// CSVFeed serves bars from <dir>/<SYMBOL>.csv files
type CSVFeed struct {
	dir string
}

func NewCSVFeed(dir string) *CSVFeed {
	return &CSVFeed{dir: dir}
}

// History reads <SYMBOL>.csv. A missing file is ErrUnknownSymbol.
func (f *CSVFeed) History(_ context.Context, symbol string) (core.Series, error) {
	bars, err := f.read(symbol)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", symbol, core.ErrUnknownSymbol)
	}
	return bars, err
}

// Prediction reads <SYMBOL>_prediction.csv. A missing file means no forecast.
func (f *CSVFeed) Prediction(_ context.Context, symbol string) (core.Series, error) {
	bars, err := f.read(symbol + PredictionSuffix)
	if errors.Is(err, os.ErrNotExist) {
		return core.Series{}, nil
	}
	if err != nil {
		return nil, err
	}

	predicted := true
	for i := range bars {
		bars[i].Predicted = &predicted
	}
	return bars, nil
}

func (f *CSVFeed) read(name string) (core.Series, error) {
	if strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid symbol %q", name)
	}

	file, err := os.Open(filepath.Join(f.dir, name+".csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	bars, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("read %s.csv: %w", name, err)
	}
	return bars, nil
}

// ReadCSV parses bars from CSV. The first line may name the columns; without
// it columns are date, open, high, low, close and an optional volume. Dates may
// be ISO-8601 strings or unix seconds.
func ReadCSV(r io.Reader) (core.Series, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	lines, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return core.Series{}, nil
	}

	headerMap, hasHeader := parseHeaders(lines[0])
	if hasHeader {
		lines = lines[1:]
	}

	for _, column := range []string{"date", "open", "high", "low", "close"} {
		if _, ok := headerMap[column]; !ok {
			return nil, fmt.Errorf("missing column %q", column)
		}
	}

	bars := make(core.Series, 0, len(lines))
	for i, line := range lines {
		bar, err := parseBar(line, headerMap)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		bars = append(bars, bar)
	}

	return bars, nil
}

// parseHeaders maps column names to indexes. A first line starting with a date
// or a number is data, not a header.
func parseHeaders(headers []string) (map[string]int, bool) {
	first := strings.TrimSpace(headers[0])
	if _, err := strconv.ParseFloat(first, 64); err == nil {
		return defaultHeaderMap, false
	}
	if _, err := series.ParseDate(first); err == nil {
		return defaultHeaderMap, false
	}

	headerMap := make(map[string]int, len(headers))
	for index, header := range headers {
		name := strings.ToLower(strings.TrimSpace(header))
		if name == "time" || name == "timestamp" {
			name = "date"
		}
		headerMap[name] = index
	}
	return headerMap, true
}

func parseBar(line []string, headerMap map[string]int) (core.PriceBar, error) {
	field := func(name string) (string, bool) {
		index, ok := headerMap[name]
		if !ok || index >= len(line) {
			return "", false
		}
		return strings.TrimSpace(line[index]), true
	}

	date, _ := field("date")
	if seconds, err := strconv.ParseInt(date, 10, 64); err == nil {
		date = time.Unix(seconds, 0).UTC().Format(time.RFC3339)
	}

	bar := core.PriceBar{Date: date}
	prices := []struct {
		name  string
		value *float64
	}{
		{"open", &bar.Open},
		{"high", &bar.High},
		{"low", &bar.Low},
		{"close", &bar.Close},
	}

	for _, price := range prices {
		raw, _ := field(price.name)
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return core.PriceBar{}, fmt.Errorf("invalid %s %q", price.name, raw)
		}
		*price.value = value
	}

	if raw, ok := field("volume"); ok && raw != "" {
		volume, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return core.PriceBar{}, fmt.Errorf("invalid volume %q", raw)
		}
		bar.Volume = &volume
	}

	return bar, nil
}
