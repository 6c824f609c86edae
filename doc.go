// Package trafficast forecasts hourly traffic-sensor volume.
//
// Trafficast turns raw, gap-ridden sensor readings into a clean hourly
// series, then trains and compares a bank of classical forecasting models
// (Holt-Winters exponential smoothing, ARIMA, regression with ARIMA errors,
// and linear trend/season/covariate regression) against a held-out window.
//
// # Pipeline
//
// A batch run proceeds through fixed stages:
//
//	raw CSV -> align weather + holidays -> dedup -> gap fill ->
//	zero-day nulling -> interpolation -> outlier flags ->
//	train/test split -> model bank -> accuracy ranking ->
//	production forecast
//
// Each cleaning stage produces a new Series value; nothing is repaired in
// place.
//
// # Packages
//
// The library is organized into the following packages:
//
//   - timeseries: hourly series, CSV ingestion, calendars, climatology
//   - repair: deduplication, gap filling, zero-day nulling, interpolation,
//     and STL-based outlier flagging
//   - stats: decomposition, ACF/PACF, KPSS, Ljung-Box, information criteria
//   - arima, ets, regress: statistical backends
//   - models: the uniform Model interface and the candidate bank
//   - eval: RMSE/MAE/MASE accuracy and ranking
//   - pipeline: batch orchestration and configuration
//
// # Quick Start
//
// Run the whole pipeline from a config file:
//
//	cfg, _ := pipeline.LoadConfig("trafficast.yaml")
//	report, _ := pipeline.Run(cfg, logger)
//
// Or fit a single candidate by hand:
//
//	cleaned, _ := repair.Clean(series, holidays)
//	model := ets.New(24)
//	model.Fit(cleaned.Traffic)
//	forecasts, _ := model.Predict(744)
//
// # References
//
//   - Hyndman, R.J., & Athanasopoulos, G. (2021). Forecasting: Principles and Practice
//   - Box, G. E. P., & Jenkins, G. M. (1976). Time Series Analysis: Forecasting and Control
package trafficast
