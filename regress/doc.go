// Package regress implements a linear time-series regression for hourly
// traffic: an intercept, a linear trend, hour-of-day and day-of-week
// dummy variables, plus any subset of exogenous covariate columns. The
// coefficients are estimated by QR least squares.
package regress
