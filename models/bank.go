package models

// Bank builds the full candidate set: Holt-Winters, auto-order ARIMA,
// one ARIMAX per non-empty covariate subset, and one regression per
// covariate subset including the empty one.
func Bank(period, maxP, maxQ int) []Model {
	bank := []Model{
		NewETS(period),
		NewARIMA(maxP, maxQ),
	}
	for _, subset := range covariateSubsets(false) {
		bank = append(bank, NewARIMAX(subset, maxP, maxQ))
	}
	for _, subset := range covariateSubsets(true) {
		bank = append(bank, NewRegress(subset))
	}
	return bank
}
