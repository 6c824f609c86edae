package ets

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Candidate smoothing weights for the grid search.
var (
	alphaGrid = []float64{0.1, 0.3, 0.5, 0.7, 0.9}
	betaGrid  = []float64{0.01, 0.1, 0.3}
	gammaGrid = []float64{0.1, 0.3, 0.5}
)

// Model is an additive Holt-Winters model with a fixed seasonal period.
type Model struct {
	Period int
	Alpha  float64 // level weight
	Beta   float64 // trend weight
	Gamma  float64 // seasonal weight

	level       float64
	trend       float64
	seasonal    []float64
	residualStd float64
	n           int
	fitted      bool
}

// New creates a Holt-Winters model with the given seasonal period.
func New(period int) *Model {
	return &Model{Period: period}
}

// Fit fits the model, selecting smoothing weights by grid search on the
// sum of squared one-step errors. The series must be complete and span at
// least two full seasonal periods.
func (m *Model) Fit(values []float64) error {
	if m.Period < 2 {
		return errors.New("seasonal period must be at least 2")
	}
	if len(values) < 2*m.Period {
		return errors.New("series must span at least two seasonal periods")
	}
	for _, v := range values {
		if math.IsNaN(v) {
			return errors.New("series contains missing values")
		}
	}

	bestSSE := math.Inf(1)
	for _, alpha := range alphaGrid {
		for _, beta := range betaGrid {
			for _, gamma := range gammaGrid {
				state, sse := smooth(values, m.Period, alpha, beta, gamma)
				if sse < bestSSE {
					bestSSE = sse
					m.Alpha, m.Beta, m.Gamma = alpha, beta, gamma
					m.level = state.level
					m.trend = state.trend
					m.seasonal = state.seasonal
					m.residualStd = state.residualStd
				}
			}
		}
	}

	m.n = len(values)
	m.fitted = true
	return nil
}

type smoothState struct {
	level       float64
	trend       float64
	seasonal    []float64
	residualStd float64
}

// smooth runs one Holt-Winters pass and returns the final state and the
// sum of squared one-step errors past the initialization window.
func smooth(values []float64, period int, alpha, beta, gamma float64) (smoothState, float64) {
	n := len(values)

	// Initialize from the first two seasonal cycles.
	mean1 := 0.0
	mean2 := 0.0
	for i := 0; i < period; i++ {
		mean1 += values[i]
		mean2 += values[period+i]
	}
	mean1 /= float64(period)
	mean2 /= float64(period)

	level := mean1
	trend := (mean2 - mean1) / float64(period)
	seasonal := make([]float64, period)
	for i := 0; i < period; i++ {
		seasonal[i] = values[i] - mean1
	}

	sse := 0.0
	count := 0
	for t := period; t < n; t++ {
		idx := t % period
		forecast := level + trend + seasonal[idx]
		err := values[t] - forecast
		sse += err * err
		count++

		prevLevel := level
		level = alpha*(values[t]-seasonal[idx]) + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
		seasonal[idx] = gamma*(values[t]-level) + (1-gamma)*seasonal[idx]
	}

	residualStd := 0.0
	if count > 1 {
		residualStd = math.Sqrt(sse / float64(count-1))
	}

	return smoothState{
		level:       level,
		trend:       trend,
		seasonal:    seasonal,
		residualStd: residualStd,
	}, sse
}

// Predict generates point forecasts for the specified number of steps.
func (m *Model) Predict(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, errors.New("model must be fitted before prediction")
	}
	if steps < 1 {
		return nil, errors.New("steps must be at least 1")
	}

	forecasts := make([]float64, steps)
	for h := 1; h <= steps; h++ {
		idx := (m.n + h - 1) % m.Period
		forecasts[h-1] = m.level + float64(h)*m.trend + m.seasonal[idx]
	}
	return forecasts, nil
}

// PredictInterval generates point forecasts with symmetric prediction
// intervals at the given confidence level; widths grow with the horizon as
// residualStd*sqrt(h).
func (m *Model) PredictInterval(steps int, level float64) (point, lower, upper []float64, err error) {
	point, err = m.Predict(steps)
	if err != nil {
		return nil, nil, nil, err
	}
	if level <= 0 || level >= 1 {
		level = 0.95
	}

	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.5 + level/2)
	lower = make([]float64, steps)
	upper = make([]float64, steps)
	for h := 0; h < steps; h++ {
		half := z * m.residualStd * math.Sqrt(float64(h+1))
		lower[h] = point[h] - half
		upper[h] = point[h] + half
	}
	return point, lower, upper, nil
}

// ResidualStd returns the standard error of the in-sample one-step
// forecasts.
func (m *Model) ResidualStd() float64 {
	return m.residualStd
}
