// Package stats provides the statistical routines behind cleaning and
// model selection: seasonal-trend decomposition, autocorrelation analysis,
// the KPSS stationarity test driving differencing choice, the Ljung-Box
// residual diagnostic, and information-criteria helpers.
//
// All functions operate on plain float64 slices; math.NaN() values are
// tolerated where noted and propagate through decomposition.
package stats
