package regress

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Model is a linear regression of traffic on a trend, calendar dummies,
// and optional covariates. Hour 0 and Sunday are the dummy baselines.
type Model struct {
	Coeffs []float64 // intercept, trend, 23 hour dummies, 6 weekday dummies, covariates

	start       time.Time
	nCovariates int
	residualStd float64
	fitted      bool
}

const calendarTerms = 2 + 23 + 6 // intercept + trend + hour + weekday dummies

// Fit estimates the regression by QR least squares. covariates is a list
// of columns aligned with the timestamps; pass nil for a pure
// trend-plus-season model. The series must be complete and longer than
// the number of regression terms.
func Fit(timestamps []time.Time, values []float64, covariates [][]float64) (*Model, error) {
	n := len(values)
	if len(timestamps) != n {
		return nil, errors.New("timestamps and values must have the same length")
	}
	k := calendarTerms + len(covariates)
	if n <= k {
		return nil, fmt.Errorf("need more than %d observations for %d regression terms", k, k)
	}
	for _, v := range values {
		if math.IsNaN(v) {
			return nil, errors.New("series contains missing values")
		}
	}
	for i, col := range covariates {
		if len(col) != n {
			return nil, fmt.Errorf("covariate column %d has length %d, expected %d", i, len(col), n)
		}
	}

	m := &Model{start: timestamps[0], nCovariates: len(covariates)}

	X := mat.NewDense(n, k, nil)
	for i := 0; i < n; i++ {
		row, err := m.designRow(timestamps[i], covariates, i)
		if err != nil {
			return nil, err
		}
		X.SetRow(i, row)
	}
	y := mat.NewVecDense(n, append([]float64(nil), values...))

	var qr mat.QR
	qr.Factorize(X)
	coeffVec := mat.NewVecDense(k, nil)
	if err := qr.SolveVecTo(coeffVec, false, y); err != nil {
		return nil, fmt.Errorf("least squares solve failed: %w", err)
	}

	m.Coeffs = make([]float64, k)
	for i := range m.Coeffs {
		m.Coeffs[i] = coeffVec.AtVec(i)
	}

	// Residual standard error.
	sse := 0.0
	for i := 0; i < n; i++ {
		row, _ := m.designRow(timestamps[i], covariates, i)
		pred := 0.0
		for j, c := range m.Coeffs {
			pred += c * row[j]
		}
		resid := values[i] - pred
		sse += resid * resid
	}
	if n > k {
		m.residualStd = math.Sqrt(sse / float64(n-k))
	}

	m.fitted = true
	return m, nil
}

// designRow builds one design-matrix row for the instant ts, reading
// covariate values at index i.
func (m *Model) designRow(ts time.Time, covariates [][]float64, i int) ([]float64, error) {
	row := make([]float64, calendarTerms+m.nCovariates)
	row[0] = 1
	row[1] = ts.Sub(m.start).Hours()

	if h := ts.Hour(); h > 0 {
		row[1+h] = 1 // hour dummies occupy positions 2..24
	}
	if wd := int(ts.Weekday()); wd > 0 {
		row[24+wd] = 1 // weekday dummies occupy positions 25..30
	}

	for j, col := range covariates {
		v := col[i]
		if math.IsNaN(v) {
			return nil, fmt.Errorf("covariate column %d is missing at row %d", j, i)
		}
		row[calendarTerms+j] = v
	}
	return row, nil
}

// Predict forecasts traffic at the given timestamps with the matching
// future covariate columns.
func (m *Model) Predict(timestamps []time.Time, covariates [][]float64) ([]float64, error) {
	point, _, _, err := m.PredictInterval(timestamps, covariates, 0.95)
	return point, err
}

// PredictInterval forecasts with symmetric prediction intervals at the
// given confidence level. Regression intervals have constant width.
func (m *Model) PredictInterval(timestamps []time.Time, covariates [][]float64, level float64) (point, lower, upper []float64, err error) {
	if !m.fitted {
		return nil, nil, nil, errors.New("model must be fitted before prediction")
	}
	if len(covariates) != m.nCovariates {
		return nil, nil, nil, fmt.Errorf("expected %d covariate columns, got %d", m.nCovariates, len(covariates))
	}
	steps := len(timestamps)
	for i, col := range covariates {
		if len(col) != steps {
			return nil, nil, nil, fmt.Errorf("covariate column %d has length %d, expected %d", i, len(col), steps)
		}
	}
	if level <= 0 || level >= 1 {
		level = 0.95
	}

	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.5 + level/2)
	half := z * m.residualStd

	point = make([]float64, steps)
	lower = make([]float64, steps)
	upper = make([]float64, steps)
	for h := 0; h < steps; h++ {
		row, err := m.designRow(timestamps[h], covariates, h)
		if err != nil {
			return nil, nil, nil, err
		}
		pred := 0.0
		for j, c := range m.Coeffs {
			pred += c * row[j]
		}
		point[h] = pred
		lower[h] = pred - half
		upper[h] = pred + half
	}
	return point, lower, upper, nil
}

// ResidualStd returns the residual standard error of the fit.
func (m *Model) ResidualStd() float64 {
	return m.residualStd
}
