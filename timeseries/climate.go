package timeseries

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// MonthlyClimate holds per-calendar-month mean precipitation and snow,
// computed across all observed years. It stands in for future weather when
// producing forecasts past the end of the data.
type MonthlyClimate struct {
	Precip [13]float64 // indexed by time.Month (1..12)
	Snow   [13]float64
}

// ComputeMonthlyClimate averages the non-missing precipitation and snow
// values of the series by calendar month. Months with no observations get
// zero.
func ComputeMonthlyClimate(s *Series) *MonthlyClimate {
	var precip, snow [13][]float64
	for i, ts := range s.Timestamps {
		m := ts.Month()
		if !math.IsNaN(s.Precip[i]) {
			precip[m] = append(precip[m], s.Precip[i])
		}
		if !math.IsNaN(s.Snow[i]) {
			snow[m] = append(snow[m], s.Snow[i])
		}
	}

	clim := &MonthlyClimate{}
	for m := 1; m <= 12; m++ {
		if len(precip[m]) > 0 {
			clim.Precip[m] = stat.Mean(precip[m], nil)
		}
		if len(snow[m]) > 0 {
			clim.Snow[m] = stat.Mean(snow[m], nil)
		}
	}
	return clim
}

// FutureCovariates builds a covariate series for the hours following
// after, using climatological weather for the matching calendar month and
// the given future holiday calendar. Traffic is missing throughout: the
// series exists only to define a forecast horizon and feed regressors.
func FutureCovariates(after time.Time, hours int, clim *MonthlyClimate, holidays *Calendar) *Series {
	s := &Series{
		Timestamps: make([]time.Time, hours),
		Traffic:    nanSlice(hours),
		Holiday:    make([]float64, hours),
		Precip:     make([]float64, hours),
		Snow:       make([]float64, hours),
	}
	for i := 0; i < hours; i++ {
		ts := after.Add(time.Duration(i+1) * time.Hour)
		s.Timestamps[i] = ts
		m := ts.Month()
		s.Precip[i] = clim.Precip[m]
		s.Snow[i] = clim.Snow[m]
		if holidays != nil && holidays.Contains(ts) {
			s.Holiday[i] = 1
		}
	}
	return s
}
