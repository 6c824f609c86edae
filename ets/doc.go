// Package ets implements additive Holt-Winters exponential smoothing for
// the hourly traffic series: a level, a trend, and a repeating seasonal
// component, each updated with its own smoothing weight. The weights are
// chosen by a coarse grid search minimizing the in-sample sum of squared
// one-step errors.
package ets
