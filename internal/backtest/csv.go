// Package backtest replays historical candles through a strategy and reports
// what the paper engine would have done with the signals.
package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"kalushael-go/internal/signal"
)

// LoadCSV reads candles from a file shaped like:
//
//	ts,open,high,low,close,volume
//	2025-06-01T12:00:00Z,100,101,99,100.5,15000
//
// Rows must be in chronological order; the loader rejects files that go
// backwards in time.
func LoadCSV(path, symbol string) ([]signal.Candle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candles: %w", err)
	}
	defer file.Close()
	return parseCSV(file, symbol)
}

func parseCSV(r io.Reader, symbol string) ([]signal.Candle, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 6

	var out []signal.Candle
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read candles: %w", err)
		}
		line++
		if line == 1 && record[0] == "ts" {
			continue // header
		}
		ts, err := time.Parse(time.RFC3339, record[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad timestamp %q: %w", line, record[0], err)
		}
		vals := make([]float64, 5)
		for i := 0; i < 5; i++ {
			v, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad field %q: %w", line, record[i+1], err)
			}
			vals[i] = v
		}
		c := signal.Candle{
			Symbol: symbol,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
			Start:  ts,
			End:    ts,
		}
		if c.Close <= 0 || c.High < c.Low {
			return nil, fmt.Errorf("line %d: malformed candle %+v", line, c)
		}
		if n := len(out); n > 0 && !c.Start.After(out[n-1].Start) {
			return nil, fmt.Errorf("line %d: candles out of order", line)
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no candles in input")
	}
	return out, nil
}
