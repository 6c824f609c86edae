package stats

import (
	"math"
)

// STLResult holds the components of a seasonal-trend decomposition.
// Components are aligned with the input: trend + seasonal + remainder
// reconstructs the original value wherever all three are defined.
type STLResult struct {
	Trend     []float64
	Seasonal  []float64
	Remainder []float64
	Period    int
}

// STL performs a robust seasonal-trend decomposition with a periodic
// seasonal window. Missing input values propagate into the components.
// robustIters controls the number of bisquare reweighting passes; values
// below 1 default to 2. Returns nil when the series is shorter than two
// full periods.
func STL(values []float64, period, robustIters int) *STLResult {
	n := len(values)
	if period < 2 || n < 2*period {
		return nil
	}
	if robustIters < 1 {
		robustIters = 2
	}

	trend := make([]float64, n)
	seasonal := make([]float64, n)
	remainder := make([]float64, n)
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1.0
	}

	for iter := 0; iter < robustIters; iter++ {
		// Detrend.
		detrended := make([]float64, n)
		for i := 0; i < n; i++ {
			detrended[i] = values[i] - trend[i]
		}

		// Periodic seasonal: weighted average within each phase.
		pattern := make([]float64, period)
		counts := make([]float64, period)
		for i := 0; i < n; i++ {
			if math.IsNaN(detrended[i]) {
				continue
			}
			idx := i % period
			pattern[idx] += detrended[i] * weights[i]
			counts[idx] += weights[i]
		}
		for i := 0; i < period; i++ {
			if counts[i] > 0 {
				pattern[i] /= counts[i]
			}
		}

		// Center the seasonal pattern.
		meanSeasonal := 0.0
		for _, v := range pattern {
			meanSeasonal += v
		}
		meanSeasonal /= float64(period)
		for i := range pattern {
			pattern[i] -= meanSeasonal
		}
		for i := 0; i < n; i++ {
			seasonal[i] = pattern[i%period]
		}

		// Deseasonalize and smooth for trend.
		deseasonalized := make([]float64, n)
		for i := 0; i < n; i++ {
			deseasonalized[i] = values[i] - seasonal[i]
		}

		trendWindow := period
		if trendWindow%2 == 0 {
			trendWindow++
		}
		halfWindow := trendWindow / 2

		for i := 0; i < n; i++ {
			sum := 0.0
			weightSum := 0.0
			for j := -halfWindow; j <= halfWindow; j++ {
				idx := i + j
				if idx < 0 || idx >= n || math.IsNaN(deseasonalized[idx]) {
					continue
				}
				w := weights[idx] * (1 - math.Abs(float64(j))/float64(halfWindow+1))
				sum += deseasonalized[idx] * w
				weightSum += w
			}
			if weightSum > 0 {
				trend[i] = sum / weightSum
			} else {
				trend[i] = math.NaN()
			}
		}

		for i := 0; i < n; i++ {
			remainder[i] = values[i] - trend[i] - seasonal[i]
		}

		// Bisquare weights from remainder spread for the next pass.
		if iter < robustIters-1 {
			absRemainder := make([]float64, 0, n)
			for _, r := range remainder {
				if !math.IsNaN(r) {
					absRemainder = append(absRemainder, math.Abs(r))
				}
			}
			h := 6 * median(absRemainder)
			if h > 0 {
				for i := 0; i < n; i++ {
					if math.IsNaN(remainder[i]) {
						weights[i] = 0
						continue
					}
					u := math.Abs(remainder[i]) / h
					if u < 1 {
						weights[i] = (1 - u*u) * (1 - u*u)
					} else {
						weights[i] = 0
					}
				}
			}
		}
	}

	return &STLResult{
		Trend:     trend,
		Seasonal:  seasonal,
		Remainder: remainder,
		Period:    period,
	}
}

// median calculates the median of a slice.
func median(data []float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, data)

	for i := 1; i < n; i++ {
		key := sorted[i]
		j := i - 1
		for j >= 0 && sorted[j] > key {
			sorted[j+1] = sorted[j]
			j--
		}
		sorted[j+1] = key
	}

	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
