package arima

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/trafficast/stats"
)

// Order represents ARIMA model order (p, d, q).
type Order struct {
	P int // AR order
	D int // Differencing order
	Q int // MA order
}

// Model represents an ARIMA model fitted to a univariate series.
type Model struct {
	Order     Order
	ARCoeffs  []float64 // AR coefficients (phi)
	MACoeffs  []float64 // MA coefficients (theta)
	Intercept float64
	Variance  float64 // Residual variance
	IC        *stats.InformationCriteria

	fitted     bool
	data       []float64
	diffData   []float64
	residuals  []float64
	fittedVals []float64
}

// New creates an ARIMA model with the specified order.
func New(p, d, q int) *Model {
	return &Model{
		Order:    Order{P: p, D: d, Q: q},
		ARCoeffs: make([]float64, p),
		MACoeffs: make([]float64, q),
	}
}

// Fit fits the model to the values using conditional sum of squares.
func (m *Model) Fit(values []float64) error {
	if len(values) < m.Order.P+m.Order.Q+m.Order.D+10 {
		return errors.New("insufficient data points for the specified order")
	}
	for _, v := range values {
		if math.IsNaN(v) {
			return errors.New("series contains missing values")
		}
	}

	m.data = append([]float64(nil), values...)

	diff := m.data
	for i := 0; i < m.Order.D; i++ {
		diff = stats.Diff(diff)
		if len(diff) == 0 {
			return errors.New("differencing resulted in empty series")
		}
	}
	m.diffData = diff

	if err := m.fitCSS(); err != nil {
		return err
	}
	m.calculateIC()
	m.fitted = true
	return nil
}

// fitCSS fits the model using conditional sum of squares estimation.
func (m *Model) fitCSS() error {
	y := m.diffData
	n := len(y)
	p := m.Order.P
	q := m.Order.Q

	if p == 0 && q == 0 {
		// White noise model: intercept is the mean.
		mean := 0.0
		for _, v := range y {
			mean += v
		}
		m.Intercept = mean / float64(n)
		m.Variance = 0
		for _, v := range y {
			diff := v - m.Intercept
			m.Variance += diff * diff
		}
		m.Variance /= float64(n - 1)
		m.residuals = make([]float64, n)
		m.fittedVals = make([]float64, n)
		for i, v := range y {
			m.residuals[i] = v - m.Intercept
			m.fittedVals[i] = m.Intercept
		}
		return nil
	}

	// Yule-Walker initial AR estimates.
	if p > 0 {
		if acf := stats.ACF(y, p); acf != nil {
			if phi := yuleWalker(acf, p); phi != nil {
				m.ARCoeffs = phi
			}
		}
	}
	for i := range m.MACoeffs {
		m.MACoeffs[i] = 0.1
	}

	m.optimizeCSS(y)
	return nil
}

// optimizeCSS refines parameters by gradient descent on the conditional
// sum of squares.
func (m *Model) optimizeCSS(y []float64) {
	n := len(y)
	p := m.Order.P
	q := m.Order.Q

	mean := 0.0
	for _, v := range y {
		mean += v
	}
	m.Intercept = mean / float64(n)

	maxIter := 100
	tolerance := 1e-6
	learningRate := 0.01

	startIdx := p
	if q > startIdx {
		startIdx = q
	}

	residuals := make([]float64, n)
	for iter := 0; iter < maxIter; iter++ {
		prevSSE := m.computeResiduals(y, residuals, startIdx)

		arGrad := make([]float64, p)
		maGrad := make([]float64, q)
		for t := startIdx; t < n; t++ {
			for i := 0; i < p && t-i-1 >= 0; i++ {
				arGrad[i] -= 2 * residuals[t] * (y[t-i-1] - m.Intercept)
			}
			for i := 0; i < q && t-i-1 >= 0; i++ {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
		}

		for i := 0; i < p; i++ {
			m.ARCoeffs[i] -= learningRate * arGrad[i] / float64(n)
			// Constrain for stationarity
			m.ARCoeffs[i] = math.Max(-0.99, math.Min(0.99, m.ARCoeffs[i]))
		}
		for i := 0; i < q; i++ {
			m.MACoeffs[i] -= learningRate * maGrad[i] / float64(n)
			// Constrain for invertibility
			m.MACoeffs[i] = math.Max(-0.99, math.Min(0.99, m.MACoeffs[i]))
		}

		newSSE := m.computeResiduals(y, residuals, startIdx)
		if math.Abs(prevSSE-newSSE) < tolerance {
			break
		}
	}

	// Final residuals, fitted values, and variance.
	m.residuals = make([]float64, n)
	m.fittedVals = make([]float64, n)
	for t := 0; t < n; t++ {
		if t < startIdx {
			m.fittedVals[t] = m.Intercept
			m.residuals[t] = y[t] - m.Intercept
			continue
		}
		pred := m.predictOne(y, m.residuals, t)
		m.fittedVals[t] = pred
		m.residuals[t] = y[t] - pred
	}

	sse := 0.0
	count := 0
	for t := startIdx; t < n; t++ {
		sse += m.residuals[t] * m.residuals[t]
		count++
	}
	if count > p+q+1 {
		m.Variance = sse / float64(count-p-q-1)
	} else if count > 0 {
		m.Variance = sse / float64(count)
	}
}

// computeResiduals fills residuals in place and returns the SSE over the
// conditioning window.
func (m *Model) computeResiduals(y, residuals []float64, startIdx int) float64 {
	sse := 0.0
	for i := range residuals {
		residuals[i] = 0
	}
	for t := startIdx; t < len(y); t++ {
		pred := m.predictOne(y, residuals, t)
		residuals[t] = y[t] - pred
		sse += residuals[t] * residuals[t]
	}
	return sse
}

// predictOne computes the one-step prediction at index t.
func (m *Model) predictOne(y, residuals []float64, t int) float64 {
	pred := m.Intercept
	for i := 0; i < m.Order.P && t-i-1 >= 0; i++ {
		pred += m.ARCoeffs[i] * (y[t-i-1] - m.Intercept)
	}
	for i := 0; i < m.Order.Q && t-i-1 >= 0; i++ {
		pred += m.MACoeffs[i] * residuals[t-i-1]
	}
	return pred
}

// calculateIC computes the information criteria assuming Gaussian errors.
func (m *Model) calculateIC() {
	n := len(m.residuals)
	k := m.Order.P + m.Order.Q + 1

	sse := 0.0
	for _, r := range m.residuals {
		sse += r * r
	}

	logLik := math.Inf(-1)
	if m.Variance > 0 {
		logLik = -float64(n)/2*math.Log(2*math.Pi) -
			float64(n)/2*math.Log(m.Variance) - sse/(2*m.Variance)
	}
	m.IC = stats.CalculateIC(logLik, n, k)
}

// Predict generates point forecasts for the specified number of steps.
func (m *Model) Predict(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, errors.New("model must be fitted before prediction")
	}
	if steps < 1 {
		return nil, errors.New("steps must be at least 1")
	}

	p := m.Order.P
	q := m.Order.Q
	y := m.diffData
	n := len(y)

	extY := make([]float64, n+steps)
	copy(extY, y)
	extResiduals := make([]float64, n+steps)
	copy(extResiduals, m.residuals)

	for h := 0; h < steps; h++ {
		t := n + h
		pred := m.Intercept
		for i := 0; i < p && t-i-1 >= 0; i++ {
			pred += m.ARCoeffs[i] * (extY[t-i-1] - m.Intercept)
		}
		// Future residuals have expectation zero.
		for i := 0; i < q && t-i-1 >= 0 && t-i-1 < n; i++ {
			pred += m.MACoeffs[i] * extResiduals[t-i-1]
		}
		extY[t] = pred
		extResiduals[t] = 0
	}

	forecasts := extY[n:]
	if m.Order.D > 0 {
		forecasts = m.integrate(forecasts)
	}
	return forecasts, nil
}

// PredictInterval generates point forecasts with symmetric prediction
// intervals at the given confidence level (e.g. 0.95). The interval width
// grows with the horizon as sigma*sqrt(h), a conservative approximation.
func (m *Model) PredictInterval(steps int, level float64) (point, lower, upper []float64, err error) {
	point, err = m.Predict(steps)
	if err != nil {
		return nil, nil, nil, err
	}
	if level <= 0 || level >= 1 {
		level = 0.95
	}

	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.5 + level/2)
	sigma := math.Sqrt(m.Variance)

	lower = make([]float64, steps)
	upper = make([]float64, steps)
	for h := 0; h < steps; h++ {
		half := z * sigma * math.Sqrt(float64(h+1))
		lower[h] = point[h] - half
		upper[h] = point[h] + half
	}
	return point, lower, upper, nil
}

// integrate undoes differencing to return forecasts on the original scale.
func (m *Model) integrate(forecasts []float64) []float64 {
	result := append([]float64(nil), forecasts...)
	for i := 0; i < m.Order.D; i++ {
		lastVal := m.data[len(m.data)-1-i]
		for j := range result {
			if j == 0 {
				result[j] += lastVal
			} else {
				result[j] += result[j-1]
			}
		}
	}
	return result
}

// Residuals returns a copy of the model residuals.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	return append([]float64(nil), m.residuals...)
}

// FittedValues returns a copy of the fitted values on the differenced
// scale.
func (m *Model) FittedValues() []float64 {
	if !m.fitted {
		return nil
	}
	return append([]float64(nil), m.fittedVals...)
}

// Diagnostics runs a Ljung-Box whiteness test on the model residuals.
func (m *Model) Diagnostics() *stats.LjungBoxResult {
	if !m.fitted {
		return nil
	}
	return stats.LjungBox(m.residuals, 10, m.Order.P+m.Order.Q)
}

// yuleWalker estimates AR coefficients from the ACF using the
// Levinson-Durbin recursion.
func yuleWalker(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}

	phi := make([]float64, order)
	if order == 1 {
		phi[0] = acf[1]
		return phi
	}

	phi[0] = acf[1]
	v := 1 - phi[0]*phi[0]

	for i := 1; i < order; i++ {
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		lambda /= v

		newPhi := make([]float64, i+1)
		for j := 0; j < i; j++ {
			newPhi[j] = phi[j] - lambda*phi[i-1-j]
		}
		newPhi[i] = lambda
		copy(phi, newPhi)

		v *= 1 - lambda*lambda
		if v <= 0 {
			break
		}
	}
	return phi
}
