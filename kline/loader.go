package kline

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
)

// LoadCSV reads an ordered candle series from a CSV file with rows of
// timestamp,open,high,low,close,volume. Timestamps are unix seconds. A
// non-numeric first row is treated as a header and skipped
func LoadCSV(path string) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open candle csv")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 6
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse candle csv %s", path)
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	if _, convErr := strconv.ParseInt(rows[0][0], 10, 64); convErr != nil {
		rows = rows[1:]
	}

	s := make(Series, 0, len(rows))
	for i := range rows {
		b, rowErr := parseRow(rows[i])
		if rowErr != nil {
			return nil, errors.Wrapf(rowErr, "candle csv row %d", i)
		}
		s = append(s, b)
	}
	if len(s) == 0 {
		return nil, ErrNoData
	}
	return s, nil
}

func parseRow(row []string) (Bar, error) {
	ts, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return Bar{}, err
	}
	vals := make([]float64, 5)
	for i := range vals {
		vals[i], err = strconv.ParseFloat(row[i+1], 64)
		if err != nil {
			return Bar{}, err
		}
	}
	return Bar{
		Time:   time.Unix(ts, 0).UTC(),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

// LoadJSON reads an ordered candle series from a JSON file holding an array
// of [timestamp, open, high, low, close, volume] rows, the shape most
// exchange kline endpoints return
func LoadJSON(path string) (Series, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read candle json")
	}
	return ParseJSON(contents)
}

// ParseJSON decodes candle rows from raw exchange-style kline JSON
func ParseJSON(data []byte) (Series, error) {
	var s Series
	var rowErr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, _ jsonparser.ValueType, _ int, _ error) {
		if rowErr != nil {
			return
		}
		var fields [6]float64
		idx := 0
		_, innerErr := jsonparser.ArrayEach(value, func(v []byte, _ jsonparser.ValueType, _ int, _ error) {
			if rowErr != nil || idx >= len(fields) {
				return
			}
			f, convErr := strconv.ParseFloat(string(v), 64)
			if convErr != nil {
				rowErr = errors.Wrapf(convErr, "candle json row %d field %d", len(s), idx)
				return
			}
			fields[idx] = f
			idx++
		})
		if innerErr != nil {
			rowErr = innerErr
			return
		}
		if idx < len(fields) {
			rowErr = errors.Errorf("candle json row %d has %d fields, want 6", len(s), idx)
			return
		}
		s = append(s, Bar{
			Time:   time.Unix(int64(fields[0]), 0).UTC(),
			Open:   fields[1],
			High:   fields[2],
			Low:    fields[3],
			Close:  fields[4],
			Volume: fields[5],
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse candle json")
	}
	if rowErr != nil {
		return nil, rowErr
	}
	if len(s) == 0 {
		return nil, ErrNoData
	}
	return s, nil
}
