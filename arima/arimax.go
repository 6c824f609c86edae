package arima

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// XModel is a regression with ARIMA errors: traffic is regressed on the
// covariate columns by ordinary least squares, and an ARIMA model with an
// automatically selected order captures the serial structure left in the
// regression residuals. Forecasts are the regression prediction plus the
// ARIMA error forecast.
type XModel struct {
	Coeffs []float64 // intercept followed by one beta per covariate
	Errors *Model    // ARIMA on the regression residuals

	nCovariates int
	fitted      bool
}

// FitX fits the regression and the error model. covariates is a list of
// columns, each the same length as values. maxP and maxQ bound the error
// model's order search.
func FitX(values []float64, covariates [][]float64, maxP, maxQ int) (*XModel, error) {
	if len(covariates) == 0 {
		return nil, errors.New("at least one covariate column is required")
	}
	n := len(values)
	for i, col := range covariates {
		if len(col) != n {
			return nil, fmt.Errorf("covariate column %d has length %d, expected %d", i, len(col), n)
		}
	}
	for _, v := range values {
		if math.IsNaN(v) {
			return nil, errors.New("series contains missing values")
		}
	}

	k := len(covariates)
	X := mat.NewDense(n, k+1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, 1)
		for j, col := range covariates {
			if math.IsNaN(col[i]) {
				return nil, fmt.Errorf("covariate column %d is missing at row %d", j, i)
			}
			X.Set(i, j+1, col[i])
		}
	}
	y := mat.NewVecDense(n, append([]float64(nil), values...))

	var qr mat.QR
	qr.Factorize(X)
	coeffVec := mat.NewVecDense(k+1, nil)
	if err := qr.SolveVecTo(coeffVec, false, y); err != nil {
		return nil, fmt.Errorf("covariate regression failed: %w", err)
	}

	coeffs := make([]float64, k+1)
	for i := range coeffs {
		coeffs[i] = coeffVec.AtVec(i)
	}

	// Residual series for the error model.
	resid := make([]float64, n)
	for i := 0; i < n; i++ {
		pred := coeffs[0]
		for j, col := range covariates {
			pred += coeffs[j+1] * col[i]
		}
		resid[i] = values[i] - pred
	}

	sel, err := SelectOrder(resid, maxP, maxQ)
	if err != nil {
		return nil, fmt.Errorf("error model selection failed: %w", err)
	}

	return &XModel{
		Coeffs:      coeffs,
		Errors:      sel.Model,
		nCovariates: k,
		fitted:      true,
	}, nil
}

// Predict forecasts one step per row of the future covariate columns.
func (m *XModel) Predict(covariates [][]float64) ([]float64, error) {
	point, _, _, err := m.PredictInterval(covariates, 0.95)
	return point, err
}

// PredictInterval forecasts with prediction intervals at the given
// confidence level. The interval comes from the error model; the
// regression part is treated as known.
func (m *XModel) PredictInterval(covariates [][]float64, level float64) (point, lower, upper []float64, err error) {
	if !m.fitted {
		return nil, nil, nil, errors.New("model must be fitted before prediction")
	}
	if len(covariates) != m.nCovariates {
		return nil, nil, nil, fmt.Errorf("expected %d covariate columns, got %d", m.nCovariates, len(covariates))
	}
	steps := len(covariates[0])
	for i, col := range covariates {
		if len(col) != steps {
			return nil, nil, nil, fmt.Errorf("covariate column %d has length %d, expected %d", i, len(col), steps)
		}
	}

	errPoint, errLower, errUpper, err := m.Errors.PredictInterval(steps, level)
	if err != nil {
		return nil, nil, nil, err
	}

	point = make([]float64, steps)
	lower = make([]float64, steps)
	upper = make([]float64, steps)
	for h := 0; h < steps; h++ {
		reg := m.Coeffs[0]
		for j, col := range covariates {
			if math.IsNaN(col[h]) {
				return nil, nil, nil, fmt.Errorf("covariate column %d is missing at step %d", j, h)
			}
			reg += m.Coeffs[j+1] * col[h]
		}
		point[h] = reg + errPoint[h]
		lower[h] = reg + errLower[h]
		upper[h] = reg + errUpper[h]
	}
	return point, lower, upper, nil
}
