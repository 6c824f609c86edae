package eval

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/sartorproj/trafficast/models"
	"github.com/sartorproj/trafficast/timeseries"
)

// ErrHorizonMismatch reports a forecast whose hours do not line up with
// the held-out observations.
var ErrHorizonMismatch = errors.New("forecast horizon does not match the held-out series")

// Accuracy holds the error measures for one candidate on the test set.
type Accuracy struct {
	RMSE float64
	MAE  float64
	MASE float64
}

// Result pairs a candidate name with its accuracy.
type Result struct {
	Name string
	Accuracy
}

// SeasonalNaiveScale computes the MAE of the seasonal-naive forecast on
// the training series. The value scales MASE and is computed once on
// training data only.
func SeasonalNaiveScale(train *timeseries.Series, period int) (float64, error) {
	if period < 1 {
		return 0, errors.New("period must be at least 1")
	}
	if train.Len() <= period {
		return 0, fmt.Errorf("training series must be longer than one period of %d", period)
	}

	sum := 0.0
	count := 0
	for t := period; t < train.Len(); t++ {
		cur, prev := train.Traffic[t], train.Traffic[t-period]
		if math.IsNaN(cur) || math.IsNaN(prev) {
			continue
		}
		sum += math.Abs(cur - prev)
		count++
	}
	if count == 0 {
		return 0, errors.New("training series has no comparable observation pairs")
	}
	return sum / float64(count), nil
}

// Evaluate scores a forecast against the held-out series. The two must
// cover exactly the same hours; held-out hours that are still missing
// are skipped. scale is the seasonal-naive MAE from SeasonalNaiveScale.
func Evaluate(fc *models.Forecast, actual *timeseries.Series, scale float64) (Accuracy, error) {
	if len(fc.Values) != actual.Len() {
		return Accuracy{}, fmt.Errorf("%w: %d forecasts for %d observations",
			ErrHorizonMismatch, len(fc.Values), actual.Len())
	}
	for i, ts := range fc.Timestamps {
		if !ts.Equal(actual.Timestamps[i]) {
			return Accuracy{}, fmt.Errorf("%w: hour %d is %v, expected %v",
				ErrHorizonMismatch, i, ts, actual.Timestamps[i])
		}
	}

	sse := 0.0
	sae := 0.0
	count := 0
	for i, want := range actual.Traffic {
		if math.IsNaN(want) {
			continue
		}
		diff := fc.Values[i] - want
		sse += diff * diff
		sae += math.Abs(diff)
		count++
	}
	if count == 0 {
		return Accuracy{}, errors.New("held-out series has no observed values")
	}

	acc := Accuracy{
		RMSE: math.Sqrt(sse / float64(count)),
		MAE:  sae / float64(count),
		MASE: math.NaN(),
	}
	if scale > 0 {
		acc.MASE = acc.MAE / scale
	}
	return acc, nil
}

// Rank returns the results ordered best first: ascending RMSE with MAE
// breaking ties. NaN scores sort last. The input is not modified.
func Rank(results []Result) []Result {
	ranked := append([]Result(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if less, ok := compare(a.RMSE, b.RMSE); ok {
			return less
		}
		if less, ok := compare(a.MAE, b.MAE); ok {
			return less
		}
		return false
	})
	return ranked
}

// compare orders two scores, pushing NaN after any real value. The
// second return is false when the scores do not decide the order.
func compare(a, b float64) (less, decided bool) {
	switch {
	case math.IsNaN(a) && math.IsNaN(b):
		return false, false
	case math.IsNaN(a):
		return false, true
	case math.IsNaN(b):
		return true, true
	case a != b:
		return a < b, true
	}
	return false, false
}
