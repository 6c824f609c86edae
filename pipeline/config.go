package pipeline

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes one batch run. Calendar dates use the YYYY-MM-DD
// layout.
type Config struct {
	TrafficCSV string `yaml:"traffic-csv"`
	WeatherCSV string `yaml:"weather-csv"`

	// Holiday dates covering the history and the forecast window.
	Holidays       []string `yaml:"holidays"`
	FutureHolidays []string `yaml:"future-holidays"`

	// TestHours is the size of the held-out evaluation window.
	TestHours int `yaml:"test-hours"`

	// ForecastHours is the production forecast horizon.
	ForecastHours int `yaml:"forecast-hours"`

	// Period is the seasonal period of the series.
	Period int `yaml:"period"`

	// MaxP and MaxQ bound the ARIMA order search.
	MaxP int `yaml:"max-p"`
	MaxQ int `yaml:"max-q"`

	// ForecastCSV is an optional path for exporting the production
	// forecast.
	ForecastCSV string `yaml:"forecast-csv"`
}

// DefaultConfig returns a config with the standard run parameters: a
// 31-day held-out window, a 7-day forecast, and a daily season.
func DefaultConfig() Config {
	return Config{
		TestHours:     744,
		ForecastHours: 168,
		Period:        24,
		MaxP:          3,
		MaxQ:          3,
	}
}

// LoadConfig reads a YAML config file, filling unset fields from
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the run parameters.
func (c Config) Validate() error {
	if c.TrafficCSV == "" {
		return errors.New("traffic-csv is required")
	}
	if c.WeatherCSV == "" {
		return errors.New("weather-csv is required")
	}
	if c.TestHours < 1 {
		return errors.New("test-hours must be at least 1")
	}
	if c.ForecastHours < 1 {
		return errors.New("forecast-hours must be at least 1")
	}
	if c.Period < 2 {
		return errors.New("period must be at least 2")
	}
	if c.MaxP < 0 || c.MaxQ < 0 {
		return errors.New("max-p and max-q must not be negative")
	}
	return nil
}
