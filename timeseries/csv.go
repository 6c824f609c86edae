package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedInput reports an input file whose rows cannot be parsed into
// the expected timestamp and reading columns.
var ErrMalformedInput = errors.New("malformed input")

// trafficTimeFormats are the timestamp layouts accepted in the raw sensor
// file, tried in order.
var trafficTimeFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04",
}

// LoadTrafficCSV loads raw hourly sensor readings from a CSV file.
// Rows are {timestamp, reading}; the first row is always discarded as a
// malformed header. Timestamps may repeat and hours may be absent; the
// repair package resolves both.
func LoadTrafficCSV(filename string) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadTrafficCSVFromReader(file)
}

// LoadTrafficCSVFromReader loads raw sensor readings from an io.Reader.
func LoadTrafficCSVFromReader(r io.Reader) (*Series, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	// The source file carries a malformed header row.
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty traffic file", ErrMalformedInput)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	var timestamps []time.Time
	var traffic []float64

	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedInput, row, err)
		}
		row++

		if len(record) < 2 {
			return nil, fmt.Errorf("%w: row %d: expected timestamp and reading columns, got %d columns",
				ErrMalformedInput, row, len(record))
		}

		ts, err := parseTimestamp(record[0])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedInput, row, err)
		}

		valStr := strings.TrimSpace(record[1])
		if valStr == "" || valStr == "NA" || valStr == "NaN" || valStr == "null" {
			timestamps = append(timestamps, ts)
			traffic = append(traffic, math.NaN())
			continue
		}
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: unparseable reading %q", ErrMalformedInput, row, record[1])
		}
		if val < 0 {
			return nil, fmt.Errorf("%w: row %d: negative reading %v", ErrMalformedInput, row, val)
		}
		timestamps = append(timestamps, ts)
		traffic = append(traffic, val)
	}

	if len(traffic) == 0 {
		return nil, fmt.Errorf("%w: no data rows in traffic file", ErrMalformedInput)
	}
	return New(timestamps, traffic)
}

func parseTimestamp(field string) (time.Time, error) {
	field = strings.TrimSpace(strings.Trim(field, "\""))
	for _, layout := range trafficTimeFormats {
		if ts, err := time.Parse(layout, field); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", field)
}

// WeatherRecord holds one day of weather observations.
type WeatherRecord struct {
	Date   time.Time
	Precip float64
	Snow   float64
}

// LoadWeatherCSV loads the daily weather table from a CSV file.
// Rows are {date, precipitation, snow}; rows with any missing or
// unparseable field are dropped. A leading header row is skipped when its
// date column does not parse.
func LoadWeatherCSV(filename string) ([]WeatherRecord, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadWeatherCSVFromReader(file)
}

// LoadWeatherCSVFromReader loads the daily weather table from an io.Reader.
func LoadWeatherCSVFromReader(r io.Reader) ([]WeatherRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var records []WeatherRecord
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}

		if len(record) < 3 {
			if first {
				first = false
				continue
			}
			continue // incomplete row: dropped
		}

		date, err := time.Parse("2006-01-02", strings.TrimSpace(record[0]))
		if err != nil {
			if first {
				// Header row
				first = false
				continue
			}
			continue
		}
		first = false

		precip, ok1 := parseWeatherField(record[1])
		snow, ok2 := parseWeatherField(record[2])
		if !ok1 || !ok2 {
			continue
		}

		records = append(records, WeatherRecord{Date: date, Precip: precip, Snow: snow})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no usable rows in weather file", ErrMalformedInput)
	}
	return records, nil
}

func parseWeatherField(field string) (float64, bool) {
	field = strings.TrimSpace(field)
	if field == "" || field == "NA" || field == "NaN" || field == "null" {
		return 0, false
	}
	val, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// AlignWeather joins daily weather onto the hourly traffic series by
// calendar date: every hour of a day inherits that day's precipitation and
// snow values. Hours whose date has no weather row are dropped, so the
// joined series covers only dates present on both sides. The gap-fill
// stage reinserts the dropped hours as missing.
func AlignWeather(traffic *Series, weather []WeatherRecord) *Series {
	byDate := make(map[string]WeatherRecord, len(weather))
	for _, w := range weather {
		byDate[w.Date.Format("2006-01-02")] = w
	}

	out := &Series{}
	for i, ts := range traffic.Timestamps {
		w, ok := byDate[ts.Format("2006-01-02")]
		if !ok {
			continue
		}
		out.Timestamps = append(out.Timestamps, ts)
		out.Traffic = append(out.Traffic, traffic.Traffic[i])
		out.Holiday = append(out.Holiday, traffic.Holiday[i])
		out.Precip = append(out.Precip, w.Precip)
		out.Snow = append(out.Snow, w.Snow)
	}
	return out
}
