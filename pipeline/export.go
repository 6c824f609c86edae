package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sartorproj/trafficast/models"
)

// WriteForecastCSV writes a forecast to path with one row per hour:
// timestamp, point forecast, and the interval bounds.
func WriteForecastCSV(path string, fc *models.Forecast) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeForecast(f, fc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeForecast(w io.Writer, fc *models.Forecast) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "forecast", "lower", "upper"}); err != nil {
		return err
	}
	for i, ts := range fc.Timestamps {
		row := []string{
			ts.Format("2006-01-02 15:04:05"),
			formatValue(fc.Values[i]),
			formatValue(fc.Lower[i]),
			formatValue(fc.Upper[i]),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing forecast rows: %w", err)
	}
	return nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
