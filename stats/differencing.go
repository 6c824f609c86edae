package stats

import (
	"math"
)

// Diff calculates the first difference of the values.
func Diff(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	result := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		result[i-1] = values[i] - values[i-1]
	}
	return result
}

// NDiffs determines the number of first differences required for
// stationarity using repeated KPSS tests. Returns a value in [0, maxD].
func NDiffs(values []float64, maxD int) int {
	if maxD <= 0 {
		maxD = 2
	}

	current := values
	for d := 0; d < maxD; d++ {
		result := KPSS(current, 0)
		if result != nil && result.IsStationary {
			return d
		}
		current = Diff(current)
		if len(current) < 10 {
			return d
		}
	}
	return maxD
}

// InformationCriteria holds model-selection criteria for a fitted model.
type InformationCriteria struct {
	AIC    float64
	AICc   float64
	BIC    float64
	LogLik float64
}

// CalculateIC calculates AIC, AICc, and BIC from a log-likelihood.
// nObs is the number of observations, nParams the number of estimated
// parameters.
func CalculateIC(logLik float64, nObs, nParams int) *InformationCriteria {
	k := float64(nParams)
	n := float64(nObs)

	aic := -2*logLik + 2*k
	bic := -2*logLik + k*math.Log(n)

	aicc := math.Inf(1)
	if n-k-1 > 0 {
		aicc = aic + 2*k*(k+1)/(n-k-1)
	}

	return &InformationCriteria{
		AIC:    aic,
		AICc:   aicc,
		BIC:    bic,
		LogLik: logLik,
	}
}
