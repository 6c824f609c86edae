package models

import (
	"fmt"
	"time"

	"github.com/sartorproj/trafficast/arima"
	"github.com/sartorproj/trafficast/ets"
	"github.com/sartorproj/trafficast/regress"
	"github.com/sartorproj/trafficast/timeseries"
)

// etsModel wraps the additive Holt-Winters estimator.
type etsModel struct {
	period int
	inner  *ets.Model
	last   time.Time
}

// NewETS builds a Holt-Winters candidate with the given seasonal period.
func NewETS(period int) Model {
	return &etsModel{period: period}
}

func (m *etsModel) Name() string { return "ets" }

func (m *etsModel) Fit(s *timeseries.Series) error {
	if err := validateTraining(s); err != nil {
		return err
	}
	inner := ets.New(m.period)
	if err := inner.Fit(s.Traffic); err != nil {
		return fmt.Errorf("%w: %v", ErrIncompleteTraining, err)
	}
	m.inner = inner
	m.last = s.Timestamps[s.Len()-1]
	return nil
}

func (m *etsModel) Forecast(h Horizon) (*Forecast, error) {
	if m.inner == nil {
		return nil, fmt.Errorf("model %s is not fitted", m.Name())
	}
	if err := validateHorizon(h, false); err != nil {
		return nil, err
	}
	point, lower, upper, err := m.inner.PredictInterval(h.Steps, intervalLevel)
	if err != nil {
		return nil, err
	}
	return &Forecast{
		Timestamps: futureTimestamps(h, m.last),
		Values:     point,
		Lower:      lower,
		Upper:      upper,
	}, nil
}

// arimaModel wraps ARIMA with automatic order selection.
type arimaModel struct {
	maxP, maxQ int
	inner      *arima.Model
	last       time.Time
}

// NewARIMA builds an ARIMA candidate whose order is chosen by AICc grid
// search up to the given bounds.
func NewARIMA(maxP, maxQ int) Model {
	return &arimaModel{maxP: maxP, maxQ: maxQ}
}

func (m *arimaModel) Name() string { return "arima" }

func (m *arimaModel) Fit(s *timeseries.Series) error {
	if err := validateTraining(s); err != nil {
		return err
	}
	sel, err := arima.SelectOrder(s.Traffic, m.maxP, m.maxQ)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIncompleteTraining, err)
	}
	m.inner = sel.Model
	m.last = s.Timestamps[s.Len()-1]
	return nil
}

func (m *arimaModel) Forecast(h Horizon) (*Forecast, error) {
	if m.inner == nil {
		return nil, fmt.Errorf("model %s is not fitted", m.Name())
	}
	if err := validateHorizon(h, false); err != nil {
		return nil, err
	}
	point, lower, upper, err := m.inner.PredictInterval(h.Steps, intervalLevel)
	if err != nil {
		return nil, err
	}
	return &Forecast{
		Timestamps: futureTimestamps(h, m.last),
		Values:     point,
		Lower:      lower,
		Upper:      upper,
	}, nil
}

// arimaxModel wraps regression with ARIMA errors over a fixed covariate
// subset.
type arimaxModel struct {
	covariates []string
	maxP, maxQ int
	inner      *arima.XModel
	last       time.Time
}

// NewARIMAX builds an ARIMAX candidate over the named covariate columns.
func NewARIMAX(covariates []string, maxP, maxQ int) Model {
	return &arimaxModel{covariates: covariates, maxP: maxP, maxQ: maxQ}
}

func (m *arimaxModel) Name() string { return subsetName("arimax", m.covariates) }

func (m *arimaxModel) Fit(s *timeseries.Series) error {
	if err := validateTraining(s); err != nil {
		return err
	}
	cols, err := covariateColumns(s, m.covariates, 0)
	if err != nil {
		return err
	}
	inner, err := arima.FitX(s.Traffic, cols, m.maxP, m.maxQ)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIncompleteTraining, err)
	}
	m.inner = inner
	m.last = s.Timestamps[s.Len()-1]
	return nil
}

func (m *arimaxModel) Forecast(h Horizon) (*Forecast, error) {
	if m.inner == nil {
		return nil, fmt.Errorf("model %s is not fitted", m.Name())
	}
	if err := validateHorizon(h, true); err != nil {
		return nil, err
	}
	cols, err := covariateColumns(h.Covariates, m.covariates, h.Steps)
	if err != nil {
		return nil, err
	}
	point, lower, upper, err := m.inner.PredictInterval(cols, intervalLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingCovariate, err)
	}
	return &Forecast{
		Timestamps: futureTimestamps(h, m.last),
		Values:     point,
		Lower:      lower,
		Upper:      upper,
	}, nil
}

// regressModel wraps the calendar-dummy linear regression over a fixed
// covariate subset. It needs the horizon timestamps even when the subset
// is empty.
type regressModel struct {
	covariates []string
	inner      *regress.Model
	last       time.Time
}

// NewRegress builds a regression candidate over the named covariate
// columns; an empty subset yields a pure trend-plus-season model.
func NewRegress(covariates []string) Model {
	return &regressModel{covariates: covariates}
}

func (m *regressModel) Name() string { return subsetName("regress", m.covariates) }

func (m *regressModel) Fit(s *timeseries.Series) error {
	if err := validateTraining(s); err != nil {
		return err
	}
	cols, err := covariateColumns(s, m.covariates, 0)
	if err != nil {
		return err
	}
	inner, err := regress.Fit(s.Timestamps, s.Traffic, cols)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIncompleteTraining, err)
	}
	m.inner = inner
	m.last = s.Timestamps[s.Len()-1]
	return nil
}

func (m *regressModel) Forecast(h Horizon) (*Forecast, error) {
	if m.inner == nil {
		return nil, fmt.Errorf("model %s is not fitted", m.Name())
	}
	if err := validateHorizon(h, true); err != nil {
		return nil, err
	}
	cols, err := covariateColumns(h.Covariates, m.covariates, h.Steps)
	if err != nil {
		return nil, err
	}
	stamps := futureTimestamps(h, m.last)
	point, lower, upper, err := m.inner.PredictInterval(stamps, cols, intervalLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingCovariate, err)
	}
	return &Forecast{
		Timestamps: stamps,
		Values:     point,
		Lower:      lower,
		Upper:      upper,
	}, nil
}
