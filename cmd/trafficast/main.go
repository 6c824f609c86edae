// Command trafficast runs the hourly traffic forecasting pipeline: it
// loads the sensor and weather files named in the config, repairs the
// series, picks the best forecasting model on a held-out window, and
// prints the production forecast.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/sartorproj/trafficast/pipeline"
)

func main() {
	configPath := flag.String("config", "trafficast.yaml", "path to the run config")
	debug := flag.Bool("debug", false, "verbose development logging")
	flag.Parse()

	logger, err := buildLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg, err := pipeline.LoadConfig(*configPath)
	if err != nil {
		log.Fatalw("loading config", "path", *configPath, "error", err)
	}

	report, err := pipeline.Run(cfg, log)
	if err != nil {
		log.Fatalw("run failed", "error", err)
	}

	printReport(report)
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func printReport(report *pipeline.Report) {
	fmt.Printf("%-28s %10s %10s %8s\n", "model", "rmse", "mae", "mase")
	for _, r := range report.Rankings {
		fmt.Printf("%-28s %10.2f %10.2f %8.3f\n", r.Name, r.RMSE, r.MAE, r.MASE)
	}

	if report.Outliers != nil && len(report.Outliers.Indices) > 0 {
		fmt.Printf("\nflagged %d outlier hours:\n", len(report.Outliers.Indices))
		for i, ts := range report.Outliers.Timestamps {
			fmt.Printf("  %s  remainder %.1f outside %.1f..%.1f\n",
				ts.Format("2006-01-02 15:04"),
				report.Outliers.Remainder[i],
				report.Outliers.Lower,
				report.Outliers.Upper)
		}
	}

	fc := report.Forecast
	fmt.Printf("\nforecast by %s:\n", report.Best)
	for i, ts := range fc.Timestamps {
		fmt.Printf("  %s  %8.1f  (%8.1f .. %8.1f)\n",
			ts.Format("2006-01-02 15:04"),
			fc.Values[i], fc.Lower[i], fc.Upper[i])
	}
}
