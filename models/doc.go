// Package models defines the common forecasting interface and wraps the
// individual estimators (Holt-Winters, ARIMA, ARIMAX, and the linear
// regression) behind it. Bank builds the full candidate set evaluated by
// the pipeline, including one ARIMAX and one regression variant per
// covariate subset.
package models
