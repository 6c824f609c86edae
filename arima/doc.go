// Package arima implements ARIMA (AutoRegressive Integrated Moving
// Average) models for the traffic series, with automatic order selection
// and a regression-with-ARIMA-errors variant for exogenous covariates.
//
// Estimation uses the conditional sum of squares method with Yule-Walker
// initialization of the AR coefficients. Order selection searches a small
// (p, q) grid by corrected AIC, with the differencing order chosen by
// repeated KPSS tests.
//
// Fit a model with a known order:
//
//	model := arima.New(1, 1, 1)
//	err := model.Fit(values)
//	forecasts, _ := model.Predict(24)
//
// Or let the selection pick one:
//
//	sel, _ := arima.SelectOrder(values, 3, 3)
//	forecasts, _ := sel.Model.Predict(24)
package arima
