package pipeline

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sartorproj/trafficast/models"
)

// writeFixtures generates a synthetic sensor file and matching daily
// weather table: 60 days of hourly readings with a duplicated hour, an
// absent hour, and one day reported entirely as zero.
func writeFixtures(t *testing.T, dir string) (trafficPath, weatherPath string) {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(42))

	var traffic strings.Builder
	traffic.WriteString("sensor_0142\n")
	for i := 0; i < 24*60; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		if i == 300 {
			continue // absent hour
		}
		val := 500 + 100*math.Sin(2*math.Pi*float64(ts.Hour())/24) + 10*rng.NormFloat64()
		if i/24 == 10 {
			val = 0 // sensor fault day
		}
		fmt.Fprintf(&traffic, "%s,%.1f\n", ts.Format("2006-01-02 15:04:05"), val)
		if i == 500 {
			fmt.Fprintf(&traffic, "%s,%.1f\n", ts.Format("2006-01-02 15:04:05"), val+20)
		}
	}

	var weather strings.Builder
	weather.WriteString("date,precip,snow\n")
	for d := 0; d < 60; d++ {
		day := start.AddDate(0, 0, d)
		fmt.Fprintf(&weather, "%s,%.1f,%.1f\n",
			day.Format("2006-01-02"),
			5*math.Abs(math.Sin(float64(d)/3)),
			2*math.Abs(math.Cos(float64(d)/5)))
	}

	trafficPath = filepath.Join(dir, "traffic.csv")
	weatherPath = filepath.Join(dir, "weather.csv")
	if err := os.WriteFile(trafficPath, []byte(traffic.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(weatherPath, []byte(weather.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return trafficPath, weatherPath
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	trafficPath, weatherPath := writeFixtures(t, dir)
	forecastPath := filepath.Join(dir, "forecast.csv")

	cfg := DefaultConfig()
	cfg.TrafficCSV = trafficPath
	cfg.WeatherCSV = weatherPath
	cfg.Holidays = []string{"2024-01-15"}
	cfg.FutureHolidays = []string{"2024-03-01"}
	cfg.TestHours = 48
	cfg.ForecastHours = 24
	cfg.MaxP = 1
	cfg.MaxQ = 1
	cfg.ForecastCSV = forecastPath

	report, err := Run(cfg, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if report.Best == "" || len(report.Rankings) == 0 {
		t.Fatal("Expected a winning candidate and rankings")
	}
	if report.Rankings[0].Name != report.Best {
		t.Errorf("Expected best %q to lead the rankings, got %q", report.Best, report.Rankings[0].Name)
	}
	for i := 1; i < len(report.Rankings); i++ {
		a, b := report.Rankings[i-1].RMSE, report.Rankings[i].RMSE
		if !math.IsNaN(a) && !math.IsNaN(b) && a > b {
			t.Errorf("Rankings out of order at %d: %f > %f", i, a, b)
		}
	}

	if len(report.NulledDates) != 1 {
		t.Errorf("Expected 1 nulled day, got %d", len(report.NulledDates))
	} else if got := report.NulledDates[0].Format("2006-01-02"); got != "2024-01-11" {
		t.Errorf("Expected the zero day 2024-01-11 nulled, got %s", got)
	}

	if report.Series.MissingTraffic() != 0 {
		t.Errorf("Expected a fully repaired series, %d hours still missing", report.Series.MissingTraffic())
	}

	fc := report.Forecast
	if fc == nil || len(fc.Values) != 24 {
		t.Fatalf("Expected a 24-hour forecast, got %+v", fc)
	}
	last := report.Series.Timestamps[report.Series.Len()-1]
	if !fc.Timestamps[0].Equal(last.Add(time.Hour)) {
		t.Errorf("Expected forecast to start at %v, got %v", last.Add(time.Hour), fc.Timestamps[0])
	}
	for h, v := range fc.Values {
		if math.IsNaN(v) {
			t.Errorf("Step %d: forecast is NaN", h)
		}
	}

	data, err := os.ReadFile(forecastPath)
	if err != nil {
		t.Fatalf("Expected exported forecast: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 25 {
		t.Errorf("Expected header plus 24 rows, got %d lines", len(lines))
	}
	if lines[0] != "timestamp,forecast,lower,upper" {
		t.Errorf("Unexpected header %q", lines[0])
	}
}

func TestRunRejectsShortHistory(t *testing.T) {
	dir := t.TempDir()
	trafficPath, weatherPath := writeFixtures(t, dir)

	cfg := DefaultConfig()
	cfg.TrafficCSV = trafficPath
	cfg.WeatherCSV = weatherPath
	cfg.TestHours = 24 * 90 // longer than the history

	if _, err := Run(cfg, zap.NewNop().Sugar()); err == nil {
		t.Error("Expected error when the held-out window exceeds the history")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	content := `traffic-csv: traffic.csv
weather-csv: weather.csv
holidays:
  - "2024-01-01"
test-hours: 100
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.TestHours != 100 {
		t.Errorf("Expected test-hours 100, got %d", cfg.TestHours)
	}
	if cfg.Period != 24 || cfg.ForecastHours != 168 || cfg.MaxP != 3 {
		t.Errorf("Expected defaults for unset fields, got %+v", cfg)
	}
	if len(cfg.Holidays) != 1 {
		t.Errorf("Expected 1 holiday, got %d", len(cfg.Holidays))
	}
}

func TestLoadConfigMissingInputs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(path, []byte("test-hours: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected error for config without input paths")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero test hours", func(c *Config) { c.TestHours = 0 }},
		{"zero forecast hours", func(c *Config) { c.ForecastHours = 0 }},
		{"bad period", func(c *Config) { c.Period = 1 }},
		{"negative order bound", func(c *Config) { c.MaxP = -1 }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		cfg.TrafficCSV = "t.csv"
		cfg.WeatherCSV = "w.csv"
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestWriteForecast(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	fc := &models.Forecast{
		Timestamps: []time.Time{start, start.Add(time.Hour)},
		Values:     []float64{100.125, 200},
		Lower:      []float64{90, 190},
		Upper:      []float64{110, 210},
	}

	var buf bytes.Buffer
	if err := writeForecast(&buf, fc); err != nil {
		t.Fatalf("writeForecast returned error: %v", err)
	}
	// 100.125 is a halfway case and rounds to even.
	want := "timestamp,forecast,lower,upper\n" +
		"2024-03-01 00:00:00,100.12,90.00,110.00\n" +
		"2024-03-01 01:00:00,200.00,190.00,210.00\n"
	if buf.String() != want {
		t.Errorf("Unexpected output:\n%s", buf.String())
	}
}
