package timeseries

import (
	"math"
	"testing"
	"time"
)

func hourlyTimestamps(start time.Time, n int) []time.Time {
	ts := make([]time.Time, n)
	for i := range ts {
		ts[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return ts
}

func TestNew(t *testing.T) {
	start := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := New(hourlyTimestamps(start, 3), []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if s.Len() != 3 {
		t.Errorf("Expected length 3, got %d", s.Len())
	}
	for i := range s.Precip {
		if !math.IsNaN(s.Precip[i]) || !math.IsNaN(s.Snow[i]) {
			t.Errorf("Expected missing weather at index %d", i)
		}
		if s.Holiday[i] != 0 {
			t.Errorf("Expected holiday 0 at index %d, got %f", i, s.Holiday[i])
		}
	}
}

func TestNewLengthMismatch(t *testing.T) {
	start := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := New(hourlyTimestamps(start, 2), []float64{1, 2, 3}); err == nil {
		t.Error("Expected error for mismatched lengths")
	}
}

func TestSplitAt(t *testing.T) {
	start := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	s, _ := New(hourlyTimestamps(start, 10), []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})

	cutoff := start.Add(7 * time.Hour)
	train, test := s.SplitAt(cutoff)

	if train.Len() != 7 {
		t.Errorf("Expected train length 7, got %d", train.Len())
	}
	if test.Len() != 3 {
		t.Errorf("Expected test length 3, got %d", test.Len())
	}
	for _, ts := range train.Timestamps {
		if !ts.Before(cutoff) {
			t.Errorf("Train contains timestamp %v at or after cutoff", ts)
		}
	}
	for _, ts := range test.Timestamps {
		if ts.Before(cutoff) {
			t.Errorf("Test contains timestamp %v before cutoff", ts)
		}
	}
	if train.Len()+test.Len() != s.Len() {
		t.Errorf("Split does not partition the series: %d + %d != %d", train.Len(), test.Len(), s.Len())
	}
}

func TestTrimMissing(t *testing.T) {
	tests := []struct {
		name     string
		traffic  []float64
		expected int
	}{
		{"no missing", []float64{1, 2, 3}, 3},
		{"leading", []float64{math.NaN(), 2, 3}, 2},
		{"trailing", []float64{1, 2, math.NaN()}, 2},
		{"both", []float64{math.NaN(), 2, 3, math.NaN()}, 2},
		{"interior kept", []float64{1, math.NaN(), 3}, 3},
		{"all missing", []float64{math.NaN(), math.NaN()}, 0},
	}

	start := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := New(hourlyTimestamps(start, len(tt.traffic)), tt.traffic)
			trimmed := s.TrimMissing()
			if trimmed.Len() != tt.expected {
				t.Errorf("Expected length %d, got %d", tt.expected, trimmed.Len())
			}
			if trimmed.Len() > 0 && math.IsNaN(trimmed.Traffic[0]) {
				t.Error("Trimmed series starts with a missing value")
			}
		})
	}
}

func TestCopyIsDeep(t *testing.T) {
	start := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	s, _ := New(hourlyTimestamps(start, 3), []float64{1, 2, 3})
	copied := s.Copy()

	s.Traffic[0] = 100
	if copied.Traffic[0] != 1 {
		t.Error("Copy was modified when original changed")
	}
}

func TestCovariate(t *testing.T) {
	start := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	s, _ := New(hourlyTimestamps(start, 2), []float64{1, 2})

	for _, name := range CovariateNames {
		if _, ok := s.Covariate(name); !ok {
			t.Errorf("Expected covariate %q to exist", name)
		}
	}
	if _, ok := s.Covariate("temperature"); ok {
		t.Error("Expected unknown covariate to report false")
	}
}

func TestMeanSkipsMissing(t *testing.T) {
	start := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	s, _ := New(hourlyTimestamps(start, 4), []float64{2, math.NaN(), 4, math.NaN()})

	if math.Abs(s.Mean()-3.0) > 1e-10 {
		t.Errorf("Expected mean 3.0, got %f", s.Mean())
	}
	if s.MissingTraffic() != 2 {
		t.Errorf("Expected 2 missing values, got %d", s.MissingTraffic())
	}
}

func TestHourly(t *testing.T) {
	start := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	s, _ := New(hourlyTimestamps(start, 5), []float64{1, 2, 3, 4, 5})
	if !s.Hourly() {
		t.Error("Expected evenly spaced series to be hourly")
	}

	gapped := []time.Time{start, start.Add(2 * time.Hour)}
	g, _ := New(gapped, []float64{1, 2})
	if g.Hourly() {
		t.Error("Expected gapped series to not be hourly")
	}
}
