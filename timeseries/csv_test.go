package timeseries

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

const trafficCSV = `junk header row
2016-01-01 00:00:00,512
2016-01-01 01:00:00,433
2016-01-01 02:00:00,NA
2016-01-01 03:00:00,391
`

func TestLoadTrafficCSV(t *testing.T) {
	s, err := LoadTrafficCSVFromReader(strings.NewReader(trafficCSV))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if s.Len() != 4 {
		t.Fatalf("Expected 4 rows, got %d", s.Len())
	}
	if s.Traffic[0] != 512 {
		t.Errorf("Expected traffic 512, got %f", s.Traffic[0])
	}
	if !math.IsNaN(s.Traffic[2]) {
		t.Errorf("Expected NA reading to be missing, got %f", s.Traffic[2])
	}
	want := time.Date(2016, 1, 1, 3, 0, 0, 0, time.UTC)
	if !s.Timestamps[3].Equal(want) {
		t.Errorf("Expected timestamp %v, got %v", want, s.Timestamps[3])
	}
}

func TestLoadTrafficCSVMalformed(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"missing column", "header\n2016-01-01 00:00:00\n"},
		{"bad timestamp", "header\nnot-a-time,100\n"},
		{"bad reading", "header\n2016-01-01 00:00:00,abc\n"},
		{"negative reading", "header\n2016-01-01 00:00:00,-5\n"},
		{"header only", "header\n"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTrafficCSVFromReader(strings.NewReader(tt.csv))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, ErrMalformedInput) {
				t.Errorf("Expected ErrMalformedInput, got %v", err)
			}
		})
	}
}

const weatherCSV = `date,precipitation,snow
2016-01-01,0.5,2.0
2016-01-02,,1.0
2016-01-03,0.0,0.0
bad-date,1.0,1.0
`

func TestLoadWeatherCSV(t *testing.T) {
	records, err := LoadWeatherCSVFromReader(strings.NewReader(weatherCSV))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	// Incomplete and unparseable rows are dropped.
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Precip != 0.5 || records[0].Snow != 2.0 {
		t.Errorf("Unexpected first record: %+v", records[0])
	}
}

func TestAlignWeather(t *testing.T) {
	start := time.Date(2016, 1, 1, 22, 0, 0, 0, time.UTC)
	traffic, _ := New(hourlyTimestamps(start, 4), []float64{10, 20, 30, 40})

	weather := []WeatherRecord{
		{Date: time.Date(2016, 1, 2, 0, 0, 0, 0, time.UTC), Precip: 0.3, Snow: 1.5},
	}

	joined := AlignWeather(traffic, weather)

	// Hours on Jan 1 have no weather row and are dropped.
	if joined.Len() != 2 {
		t.Fatalf("Expected 2 rows after join, got %d", joined.Len())
	}
	for i := range joined.Precip {
		if joined.Precip[i] != 0.3 || joined.Snow[i] != 1.5 {
			t.Errorf("Hour %d did not inherit daily weather: precip=%f snow=%f",
				i, joined.Precip[i], joined.Snow[i])
		}
	}
}

func TestCalendarApply(t *testing.T) {
	cal, err := ParseCalendar([]string{"2016-01-01", "2016-12-25"})
	if err != nil {
		t.Fatalf("ParseCalendar returned error: %v", err)
	}

	start := time.Date(2015, 12, 31, 23, 0, 0, 0, time.UTC)
	s, _ := New(hourlyTimestamps(start, 3), []float64{1, 2, 3})

	stamped := cal.Apply(s)
	expected := []float64{0, 1, 1}
	for i, want := range expected {
		if stamped.Holiday[i] != want {
			t.Errorf("Hour %d: expected holiday %f, got %f", i, want, stamped.Holiday[i])
		}
	}
}

func TestParseCalendarInvalid(t *testing.T) {
	if _, err := ParseCalendar([]string{"2016-13-99"}); err == nil {
		t.Error("Expected error for invalid date")
	}
}

func TestMonthlyClimate(t *testing.T) {
	jan := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	s, _ := New(hourlyTimestamps(jan, 3), []float64{1, 2, 3})
	s.Precip = []float64{1.0, 3.0, math.NaN()}
	s.Snow = []float64{0.0, 2.0, 4.0}

	clim := ComputeMonthlyClimate(s)
	if math.Abs(clim.Precip[time.January]-2.0) > 1e-10 {
		t.Errorf("Expected January precip mean 2.0, got %f", clim.Precip[time.January])
	}
	if math.Abs(clim.Snow[time.January]-2.0) > 1e-10 {
		t.Errorf("Expected January snow mean 2.0, got %f", clim.Snow[time.January])
	}
	if clim.Precip[time.July] != 0 {
		t.Errorf("Expected unobserved month to be zero, got %f", clim.Precip[time.July])
	}
}

func TestFutureCovariates(t *testing.T) {
	last := time.Date(2016, 12, 31, 23, 0, 0, 0, time.UTC)
	clim := &MonthlyClimate{}
	clim.Precip[time.January] = 0.7
	clim.Snow[time.January] = 1.2

	cal, _ := ParseCalendar([]string{"2017-01-01"})
	future := FutureCovariates(last, 48, clim, cal)

	if future.Len() != 48 {
		t.Fatalf("Expected 48 hours, got %d", future.Len())
	}
	if !future.Timestamps[0].Equal(last.Add(time.Hour)) {
		t.Errorf("Expected first hour %v, got %v", last.Add(time.Hour), future.Timestamps[0])
	}
	if !future.Hourly() {
		t.Error("Expected future covariates to be hourly")
	}
	if future.Precip[0] != 0.7 || future.Snow[0] != 1.2 {
		t.Errorf("Expected climatological weather, got precip=%f snow=%f", future.Precip[0], future.Snow[0])
	}
	if future.Holiday[0] != 1 {
		t.Error("Expected Jan 1 to be flagged as a holiday")
	}
	if future.Holiday[25] != 0 {
		t.Error("Expected Jan 2 to not be a holiday")
	}
	if !math.IsNaN(future.Traffic[0]) {
		t.Error("Expected future traffic to be missing")
	}
}
