// Package eval scores forecasts against held-out observations. Accuracy
// is reported as RMSE, MAE, and MASE, where the MASE scale is the
// seasonal-naive MAE computed once on the training series. Rank orders
// candidates by RMSE with MAE as the tiebreaker.
package eval
