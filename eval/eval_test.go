package eval

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/sartorproj/trafficast/models"
	"github.com/sartorproj/trafficast/timeseries"
)

func heldOut(start time.Time, values []float64) *timeseries.Series {
	stamps := make([]time.Time, len(values))
	for i := range stamps {
		stamps[i] = start.Add(time.Duration(i) * time.Hour)
	}
	s, _ := timeseries.New(stamps, values)
	return s
}

func forecastFor(s *timeseries.Series, offset float64) *models.Forecast {
	values := make([]float64, s.Len())
	for i, v := range s.Traffic {
		values[i] = v + offset
	}
	return &models.Forecast{
		Timestamps: append([]time.Time(nil), s.Timestamps...),
		Values:     values,
	}
}

func TestEvaluatePerfectForecast(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	actual := heldOut(start, []float64{100, 120, 140, 130, 110})

	acc, err := Evaluate(forecastFor(actual, 0), actual, 10)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if acc.RMSE != 0 || acc.MAE != 0 || acc.MASE != 0 {
		t.Errorf("Expected zero errors for a perfect forecast, got %+v", acc)
	}
}

func TestEvaluateConstantOffset(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	actual := heldOut(start, []float64{100, 120, 140, 130, 110})

	acc, err := Evaluate(forecastFor(actual, 1), actual, 2)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if math.Abs(acc.RMSE-1) > 1e-10 || math.Abs(acc.MAE-1) > 1e-10 {
		t.Errorf("Expected RMSE and MAE of 1 for a unit offset, got %+v", acc)
	}
	if math.Abs(acc.MASE-0.5) > 1e-10 {
		t.Errorf("Expected MASE 0.5 with scale 2, got %f", acc.MASE)
	}
}

func TestEvaluateSkipsMissingObservations(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	actual := heldOut(start, []float64{100, math.NaN(), 140})
	fc := &models.Forecast{
		Timestamps: append([]time.Time(nil), actual.Timestamps...),
		Values:     []float64{102, 999, 140},
	}

	acc, err := Evaluate(fc, actual, 1)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if math.Abs(acc.MAE-1) > 1e-10 {
		t.Errorf("Expected MAE 1 over the two observed hours, got %f", acc.MAE)
	}
}

func TestEvaluateHorizonMismatch(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	actual := heldOut(start, []float64{100, 120, 140})

	short := forecastFor(actual, 0)
	short.Values = short.Values[:2]
	if _, err := Evaluate(short, actual, 1); !errors.Is(err, ErrHorizonMismatch) {
		t.Errorf("Expected ErrHorizonMismatch for a short forecast, got %v", err)
	}

	shifted := forecastFor(actual, 0)
	shifted.Timestamps[1] = shifted.Timestamps[1].Add(time.Minute)
	if _, err := Evaluate(shifted, actual, 1); !errors.Is(err, ErrHorizonMismatch) {
		t.Errorf("Expected ErrHorizonMismatch for shifted timestamps, got %v", err)
	}
}

func TestEvaluateAllMissing(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	actual := heldOut(start, []float64{math.NaN(), math.NaN()})
	if _, err := Evaluate(forecastFor(actual, 0), actual, 1); err == nil {
		t.Error("Expected error when no held-out hour is observed")
	}
}

func TestSeasonalNaiveScale(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	// Period 2: pairs are (30-10), (40-20), (50-30), each diff 20.
	train := heldOut(start, []float64{10, 20, 30, 40, 50})

	scale, err := SeasonalNaiveScale(train, 2)
	if err != nil {
		t.Fatalf("SeasonalNaiveScale returned error: %v", err)
	}
	if math.Abs(scale-20) > 1e-10 {
		t.Errorf("Expected scale 20, got %f", scale)
	}
}

func TestSeasonalNaiveScaleSkipsMissingPairs(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	train := heldOut(start, []float64{10, math.NaN(), 30, 40, 50})

	// Pairs (30,10) and (50,30) survive; (40,NaN) is skipped.
	scale, err := SeasonalNaiveScale(train, 2)
	if err != nil {
		t.Fatalf("SeasonalNaiveScale returned error: %v", err)
	}
	if math.Abs(scale-20) > 1e-10 {
		t.Errorf("Expected scale 20, got %f", scale)
	}
}

func TestSeasonalNaiveScaleTooShort(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	train := heldOut(start, []float64{10, 20})
	if _, err := SeasonalNaiveScale(train, 24); err == nil {
		t.Error("Expected error for a series shorter than one period")
	}
}

func TestRank(t *testing.T) {
	results := []Result{
		{Name: "c", Accuracy: Accuracy{RMSE: 3, MAE: 2}},
		{Name: "a", Accuracy: Accuracy{RMSE: 1, MAE: 1}},
		{Name: "nan", Accuracy: Accuracy{RMSE: math.NaN(), MAE: math.NaN()}},
		{Name: "b", Accuracy: Accuracy{RMSE: 1, MAE: 0.5}},
	}

	ranked := Rank(results)
	want := []string{"b", "a", "c", "nan"}
	for i, name := range want {
		if ranked[i].Name != name {
			t.Errorf("Position %d: expected %q, got %q", i, name, ranked[i].Name)
		}
	}
	if results[0].Name != "c" {
		t.Error("Expected Rank to leave the input unmodified")
	}
}
