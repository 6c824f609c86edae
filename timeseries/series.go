package timeseries

import (
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Covariate column names accepted by models and configuration.
const (
	ColHoliday = "holiday"
	ColPrecip  = "precip"
	ColSnow    = "snow"
)

// CovariateNames lists all covariate columns in canonical order.
var CovariateNames = []string{ColHoliday, ColPrecip, ColSnow}

// Series represents an hourly traffic series with covariate columns.
// All slices have the same length; math.NaN() marks a missing value.
// The holiday column holds 0 or 1 so it can feed regression matrices
// directly.
type Series struct {
	Timestamps []time.Time
	Traffic    []float64
	Holiday    []float64
	Precip     []float64
	Snow       []float64
}

// New creates a series from timestamps and traffic values. Covariate
// columns start missing; the holiday column starts at 0 (no calendar
// applied yet).
func New(timestamps []time.Time, traffic []float64) (*Series, error) {
	if len(timestamps) != len(traffic) {
		return nil, errors.New("timestamps and traffic must have the same length")
	}
	n := len(traffic)
	s := &Series{
		Timestamps: append([]time.Time(nil), timestamps...),
		Traffic:    append([]float64(nil), traffic...),
		Holiday:    make([]float64, n),
		Precip:     nanSlice(n),
		Snow:       nanSlice(n),
	}
	return s, nil
}

// Len returns the number of observations in the series.
func (s *Series) Len() int {
	return len(s.Traffic)
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	return &Series{
		Timestamps: append([]time.Time(nil), s.Timestamps...),
		Traffic:    append([]float64(nil), s.Traffic...),
		Holiday:    append([]float64(nil), s.Holiday...),
		Precip:     append([]float64(nil), s.Precip...),
		Snow:       append([]float64(nil), s.Snow...),
	}
}

// Slice returns a copy of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > s.Len() {
		end = s.Len()
	}
	if start >= end {
		return &Series{}
	}
	return &Series{
		Timestamps: append([]time.Time(nil), s.Timestamps[start:end]...),
		Traffic:    append([]float64(nil), s.Traffic[start:end]...),
		Holiday:    append([]float64(nil), s.Holiday[start:end]...),
		Precip:     append([]float64(nil), s.Precip[start:end]...),
		Snow:       append([]float64(nil), s.Snow[start:end]...),
	}
}

// SplitAt splits the series at the cutoff instant. Observations strictly
// before the cutoff form the first series, observations at or after it
// form the second. Assumes timestamps are in increasing order.
func (s *Series) SplitAt(cutoff time.Time) (*Series, *Series) {
	i := 0
	for i < s.Len() && s.Timestamps[i].Before(cutoff) {
		i++
	}
	return s.Slice(0, i), s.Slice(i, s.Len())
}

// TrimMissing returns a copy of the series with leading and trailing
// missing traffic values removed. Interpolation cannot fill a gap with no
// neighbor on one side, so boundary gaps are dropped before model fitting.
func (s *Series) TrimMissing() *Series {
	start := 0
	for start < s.Len() && math.IsNaN(s.Traffic[start]) {
		start++
	}
	end := s.Len()
	for end > start && math.IsNaN(s.Traffic[end-1]) {
		end--
	}
	return s.Slice(start, end)
}

// MissingTraffic returns the number of missing traffic values.
func (s *Series) MissingTraffic() int {
	count := 0
	for _, v := range s.Traffic {
		if math.IsNaN(v) {
			count++
		}
	}
	return count
}

// Covariate returns the named covariate column, or false if the name is
// unknown.
func (s *Series) Covariate(name string) ([]float64, bool) {
	switch name {
	case ColHoliday:
		return s.Holiday, true
	case ColPrecip:
		return s.Precip, true
	case ColSnow:
		return s.Snow, true
	}
	return nil, false
}

// Mean calculates the mean of the non-missing traffic values.
func (s *Series) Mean() float64 {
	valid := dropNaN(s.Traffic)
	if len(valid) == 0 {
		return math.NaN()
	}
	return stat.Mean(valid, nil)
}

// Std calculates the standard deviation of the non-missing traffic values.
func (s *Series) Std() float64 {
	valid := dropNaN(s.Traffic)
	if len(valid) < 2 {
		return 0
	}
	return stat.StdDev(valid, nil)
}

// Hourly reports whether consecutive timestamps differ by exactly one hour
// with no repeats.
func (s *Series) Hourly() bool {
	for i := 1; i < s.Len(); i++ {
		if s.Timestamps[i].Sub(s.Timestamps[i-1]) != time.Hour {
			return false
		}
	}
	return true
}

func nanSlice(n int) []float64 {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = math.NaN()
	}
	return vals
}

func dropNaN(values []float64) []float64 {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	return valid
}
