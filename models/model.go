package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sartorproj/trafficast/timeseries"
)

var (
	// ErrIncompleteTraining reports a training series with missing or
	// irregular observations.
	ErrIncompleteTraining = errors.New("training series is incomplete")

	// ErrMissingCovariate reports a required covariate column that is
	// absent or has missing values.
	ErrMissingCovariate = errors.New("required covariate is missing")
)

// Confidence level used for all prediction intervals.
const intervalLevel = 0.95

// Forecast holds point forecasts with prediction interval bounds, one
// entry per future hour.
type Forecast struct {
	Timestamps []time.Time
	Values     []float64
	Lower      []float64
	Upper      []float64
}

// Horizon describes what to forecast: the number of hourly steps and a
// future series carrying the covariate columns for those hours. Models
// without exogenous inputs ignore the covariates but may use the
// timestamps.
type Horizon struct {
	Steps      int
	Covariates *timeseries.Series
}

// Model is a forecaster that trains on a complete hourly series and
// produces point forecasts with prediction intervals.
type Model interface {
	Name() string
	Fit(s *timeseries.Series) error
	Forecast(h Horizon) (*Forecast, error)
}

// validateTraining rejects series a model cannot train on.
func validateTraining(s *timeseries.Series) error {
	if s == nil || s.Len() == 0 {
		return fmt.Errorf("%w: empty series", ErrIncompleteTraining)
	}
	if !s.Hourly() {
		return fmt.Errorf("%w: timestamps are not consecutive hours", ErrIncompleteTraining)
	}
	if n := s.MissingTraffic(); n > 0 {
		return fmt.Errorf("%w: %d missing observations", ErrIncompleteTraining, n)
	}
	return nil
}

// validateHorizon checks the step count and, when covariates are
// required, that the future series covers every step.
func validateHorizon(h Horizon, needCovariates bool) error {
	if h.Steps < 1 {
		return errors.New("horizon must be at least 1 step")
	}
	if !needCovariates {
		return nil
	}
	if h.Covariates == nil {
		return fmt.Errorf("%w: no future covariate series", ErrMissingCovariate)
	}
	if h.Covariates.Len() < h.Steps {
		return fmt.Errorf("%w: future series covers %d of %d steps",
			ErrMissingCovariate, h.Covariates.Len(), h.Steps)
	}
	return nil
}

// covariateColumns extracts the named columns from s, erroring on any
// unknown name or missing value.
func covariateColumns(s *timeseries.Series, names []string, steps int) ([][]float64, error) {
	cols := make([][]float64, 0, len(names))
	for _, name := range names {
		col, ok := s.Covariate(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown column %q", ErrMissingCovariate, name)
		}
		if steps > 0 && steps < len(col) {
			col = col[:steps]
		}
		for i, v := range col {
			if math.IsNaN(v) {
				return nil, fmt.Errorf("%w: column %q is missing at row %d", ErrMissingCovariate, name, i)
			}
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// futureTimestamps derives hourly timestamps for the horizon, preferring
// the future series when present.
func futureTimestamps(h Horizon, last time.Time) []time.Time {
	if h.Covariates != nil && h.Covariates.Len() >= h.Steps {
		return append([]time.Time(nil), h.Covariates.Timestamps[:h.Steps]...)
	}
	stamps := make([]time.Time, h.Steps)
	for i := range stamps {
		stamps[i] = last.Add(time.Duration(i+1) * time.Hour)
	}
	return stamps
}

// subsetName renders a covariate subset as part of a model name.
func subsetName(base string, names []string) string {
	if len(names) == 0 {
		return base
	}
	return base + "(" + strings.Join(names, ",") + ")"
}

// covariateSubsets enumerates subsets of the canonical covariate columns
// in bitmask order, optionally including the empty subset.
func covariateSubsets(includeEmpty bool) [][]string {
	all := timeseries.CovariateNames
	var subsets [][]string
	for mask := 0; mask < 1<<len(all); mask++ {
		if mask == 0 && !includeEmpty {
			continue
		}
		var names []string
		for i, name := range all {
			if mask&(1<<i) != 0 {
				names = append(names, name)
			}
		}
		subsets = append(subsets, names)
	}
	return subsets
}
