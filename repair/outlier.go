package repair

import (
	"errors"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/trafficast/stats"
	"github.com/sartorproj/trafficast/timeseries"
)

// iqrFenceFactor widens the conventional 1.5x Tukey fence so that sharp
// but legitimate traffic events are not over-flagged.
const iqrFenceFactor = 3.0

// OutlierReport lists the points whose decomposition remainder falls
// outside the Tukey fences. The series itself is never modified; whether
// to act on a flag is a downstream judgment call.
type OutlierReport struct {
	Indices    []int
	Timestamps []time.Time
	Remainder  []float64 // remainder at each flagged index
	Lower      float64   // Q1 - 3*IQR
	Upper      float64   // Q3 + 3*IQR
}

// FlagOutliers decomposes the traffic series with a robust STL and flags
// every point whose remainder exceeds Q3 + 3*IQR or falls below
// Q1 - 3*IQR. Missing values are skipped. The series must span at least
// two seasonal periods.
func FlagOutliers(s *timeseries.Series, period int) (*OutlierReport, error) {
	decomp := stats.STL(s.Traffic, period, 2)
	if decomp == nil {
		return nil, errors.New("series too short for seasonal decomposition")
	}

	valid := make([]float64, 0, len(decomp.Remainder))
	for _, r := range decomp.Remainder {
		if !math.IsNaN(r) {
			valid = append(valid, r)
		}
	}
	if len(valid) < 4 {
		return nil, errors.New("not enough remainder values for quartiles")
	}
	sort.Float64s(valid)

	q1 := stat.Quantile(0.25, stat.Empirical, valid, nil)
	q3 := stat.Quantile(0.75, stat.Empirical, valid, nil)
	iqr := q3 - q1
	lower := q1 - iqrFenceFactor*iqr
	upper := q3 + iqrFenceFactor*iqr

	report := &OutlierReport{Lower: lower, Upper: upper}
	for i, r := range decomp.Remainder {
		if math.IsNaN(r) {
			continue
		}
		if r > upper || r < lower {
			report.Indices = append(report.Indices, i)
			report.Timestamps = append(report.Timestamps, s.Timestamps[i])
			report.Remainder = append(report.Remainder, r)
		}
	}
	return report, nil
}
