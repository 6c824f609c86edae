package pipeline

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sartorproj/trafficast/eval"
	"github.com/sartorproj/trafficast/models"
	"github.com/sartorproj/trafficast/repair"
	"github.com/sartorproj/trafficast/timeseries"
)

// Report collects everything a batch run produces.
type Report struct {
	// Series is the cleaned full history the models trained on.
	Series *timeseries.Series

	// NulledDates lists days whose observed traffic summed to zero and
	// was treated as missing.
	NulledDates []time.Time

	// Outliers is the diagnostic outlier report, nil when the series
	// was too short to decompose.
	Outliers *repair.OutlierReport

	// Rankings holds every candidate that fit and forecast the held-out
	// window, best first.
	Rankings []eval.Result

	// Best is the name of the winning candidate.
	Best string

	// Forecast is the production forecast from the winner refit on the
	// full history.
	Forecast *models.Forecast
}

// Run executes one batch run end to end.
func Run(cfg Config, log *zap.SugaredLogger) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	series, nulled, err := ingest(cfg, log)
	if err != nil {
		return nil, err
	}

	report := &Report{Series: series, NulledDates: nulled}

	outliers, err := repair.FlagOutliers(series, cfg.Period)
	if err != nil {
		log.Warnw("skipping outlier diagnostics", "error", err)
	} else {
		report.Outliers = outliers
		if n := len(outliers.Indices); n > 0 {
			log.Infow("flagged remainder outliers", "count", n)
		}
	}

	train, test, err := split(series, cfg.TestHours)
	if err != nil {
		return nil, err
	}
	log.Infow("split history",
		"train-hours", train.Len(),
		"test-hours", test.Len())

	scale, err := eval.SeasonalNaiveScale(train, cfg.Period)
	if err != nil {
		return nil, fmt.Errorf("computing MASE scale: %w", err)
	}

	bank := models.Bank(cfg.Period, cfg.MaxP, cfg.MaxQ)
	report.Rankings = evaluateBank(bank, train, test, scale, log)
	if len(report.Rankings) == 0 {
		return nil, errors.New("no candidate model produced a held-out forecast")
	}
	report.Best = report.Rankings[0].Name
	log.Infow("selected best candidate",
		"model", report.Best,
		"rmse", report.Rankings[0].RMSE,
		"mase", report.Rankings[0].MASE)

	forecast, err := produce(cfg, bank, report.Best, series, log)
	if err != nil {
		return nil, err
	}
	report.Forecast = forecast

	if cfg.ForecastCSV != "" {
		if err := WriteForecastCSV(cfg.ForecastCSV, forecast); err != nil {
			return nil, fmt.Errorf("exporting forecast: %w", err)
		}
		log.Infow("wrote forecast", "path", cfg.ForecastCSV)
	}
	return report, nil
}

// ingest loads and repairs the input series.
func ingest(cfg Config, log *zap.SugaredLogger) (*timeseries.Series, []time.Time, error) {
	traffic, err := timeseries.LoadTrafficCSV(cfg.TrafficCSV)
	if err != nil {
		return nil, nil, fmt.Errorf("loading traffic: %w", err)
	}
	weather, err := timeseries.LoadWeatherCSV(cfg.WeatherCSV)
	if err != nil {
		return nil, nil, fmt.Errorf("loading weather: %w", err)
	}
	log.Infow("loaded inputs",
		"traffic-rows", traffic.Len(),
		"weather-days", len(weather))

	cal, err := timeseries.ParseCalendar(cfg.Holidays)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing holidays: %w", err)
	}

	aligned := timeseries.AlignWeather(traffic, weather)
	if dropped := traffic.Len() - aligned.Len(); dropped > 0 {
		log.Warnw("dropped hours without weather coverage", "count", dropped)
	}

	cleaned, nulled := repair.Clean(aligned, cal)
	cleaned = cleaned.TrimMissing()
	if cleaned.Len() == 0 {
		return nil, nil, errors.New("no observed traffic after repair")
	}
	if len(nulled) > 0 {
		log.Warnw("nulled zero-traffic days", "count", len(nulled))
	}
	log.Infow("repaired series",
		"hours", cleaned.Len(),
		"still-missing", cleaned.MissingTraffic())
	return cleaned, nulled, nil
}

// split separates the trailing testHours from the history.
func split(series *timeseries.Series, testHours int) (train, test *timeseries.Series, err error) {
	if series.Len() <= testHours {
		return nil, nil, fmt.Errorf("history of %d hours cannot hold out %d", series.Len(), testHours)
	}
	cutoff := series.Timestamps[series.Len()-testHours]
	train, test = series.SplitAt(cutoff)
	return train, test, nil
}

// evaluateBank fits every candidate on the training window and scores it
// on the held-out hours. Candidates that fail to fit or forecast are
// skipped.
func evaluateBank(bank []models.Model, train, test *timeseries.Series, scale float64, log *zap.SugaredLogger) []eval.Result {
	horizon := models.Horizon{Steps: test.Len(), Covariates: test}

	var results []eval.Result
	for _, m := range bank {
		if err := m.Fit(train); err != nil {
			log.Warnw("candidate failed to fit", "model", m.Name(), "error", err)
			continue
		}
		fc, err := m.Forecast(horizon)
		if err != nil {
			log.Warnw("candidate failed to forecast", "model", m.Name(), "error", err)
			continue
		}
		acc, err := eval.Evaluate(fc, test, scale)
		if err != nil {
			log.Warnw("candidate could not be scored", "model", m.Name(), "error", err)
			continue
		}
		log.Infow("scored candidate",
			"model", m.Name(),
			"rmse", acc.RMSE,
			"mae", acc.MAE,
			"mase", acc.MASE)
		results = append(results, eval.Result{Name: m.Name(), Accuracy: acc})
	}
	return eval.Rank(results)
}

// produce refits the winning candidate on the full history and forecasts
// the production horizon with climatological weather and the future
// holiday calendar.
func produce(cfg Config, bank []models.Model, best string, series *timeseries.Series, log *zap.SugaredLogger) (*models.Forecast, error) {
	var winner models.Model
	for _, m := range bank {
		if m.Name() == best {
			winner = m
			break
		}
	}
	if winner == nil {
		return nil, fmt.Errorf("winning candidate %q not in bank", best)
	}
	if err := winner.Fit(series); err != nil {
		return nil, fmt.Errorf("refitting %s on full history: %w", best, err)
	}

	holidays := cfg.FutureHolidays
	if len(holidays) == 0 {
		holidays = cfg.Holidays
	}
	futureCal, err := timeseries.ParseCalendar(holidays)
	if err != nil {
		return nil, fmt.Errorf("parsing future holidays: %w", err)
	}

	clim := timeseries.ComputeMonthlyClimate(series)
	last := series.Timestamps[series.Len()-1]
	future := timeseries.FutureCovariates(last, cfg.ForecastHours, clim, futureCal)

	fc, err := winner.Forecast(models.Horizon{Steps: cfg.ForecastHours, Covariates: future})
	if err != nil {
		return nil, fmt.Errorf("forecasting with %s: %w", best, err)
	}
	log.Infow("produced forecast",
		"model", best,
		"hours", cfg.ForecastHours,
		"from", fc.Timestamps[0],
		"to", fc.Timestamps[len(fc.Timestamps)-1])
	return fc, nil
}
