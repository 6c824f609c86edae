package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// KPSSResult represents the result of a KPSS stationarity test.
type KPSSResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	IsStationary bool
}

// kpssCriticalValues are the level-stationarity critical values of the
// KPSS statistic at the 10%, 5%, 2.5%, and 1% significance levels.
var (
	kpssCriticalValues = []float64{0.347, 0.463, 0.574, 0.739}
	kpssPValues        = []float64{0.10, 0.05, 0.025, 0.01}
)

// KPSS performs the Kwiatkowski-Phillips-Schmidt-Shin test for level
// stationarity. The null hypothesis is that the series is stationary;
// a p-value below 0.05 rejects it. nlags <= 0 selects the conventional
// ceil(12*(n/100)^0.25) truncation.
func KPSS(values []float64, nlags int) *KPSSResult {
	n := len(values)
	if n < 10 {
		return nil
	}

	if nlags <= 0 {
		nlags = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	}
	if nlags >= n {
		nlags = n - 1
	}

	// Residuals from the level.
	mean := stat.Mean(values, nil)
	resid := make([]float64, n)
	for i, v := range values {
		resid[i] = v - mean
	}

	// Partial sums of residuals.
	partial := make([]float64, n)
	cum := 0.0
	for i, r := range resid {
		cum += r
		partial[i] = cum
	}

	sumPartialSq := 0.0
	for _, s := range partial {
		sumPartialSq += s * s
	}

	// Long-run variance with Bartlett weights. Gonum has no HAC
	// estimator, so the weighting loop stays hand-rolled.
	lrv := 0.0
	for _, r := range resid {
		lrv += r * r
	}
	lrv /= float64(n)
	for lag := 1; lag <= nlags; lag++ {
		gamma := 0.0
		for i := lag; i < n; i++ {
			gamma += resid[i] * resid[i-lag]
		}
		gamma /= float64(n)
		weight := 1 - float64(lag)/float64(nlags+1)
		lrv += 2 * weight * gamma
	}
	if lrv <= 0 {
		return nil
	}

	statistic := sumPartialSq / (float64(n) * float64(n) * lrv)
	pValue := kpssPValue(statistic)

	return &KPSSResult{
		Statistic:    statistic,
		PValue:       pValue,
		Lags:         nlags,
		IsStationary: pValue >= 0.05,
	}
}

// kpssPValue interpolates a p-value from the critical value table.
func kpssPValue(statistic float64) float64 {
	if statistic <= kpssCriticalValues[0] {
		return kpssPValues[0]
	}
	last := len(kpssCriticalValues) - 1
	if statistic >= kpssCriticalValues[last] {
		return kpssPValues[last]
	}
	for i := 0; i < last; i++ {
		lo, hi := kpssCriticalValues[i], kpssCriticalValues[i+1]
		if statistic >= lo && statistic < hi {
			frac := (statistic - lo) / (hi - lo)
			return kpssPValues[i] + frac*(kpssPValues[i+1]-kpssPValues[i])
		}
	}
	return kpssPValues[last]
}
