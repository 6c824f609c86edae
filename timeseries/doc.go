// Package timeseries provides the hourly traffic series and its ingestion.
//
// A Series holds parallel slices: one timestamp per hourly observation and
// one value per column (traffic, holiday flag, precipitation, snow depth).
// math.NaN() marks a missing value. Series values are treated as immutable:
// every operation that changes a series returns a new one.
//
// Ingestion reads two CSV inputs, a raw per-hour sensor file and a daily
// weather table, joins them by calendar date, and stamps holiday flags from
// an explicit Calendar. The calendar is a value passed by the caller, never
// a package global, so pipelines can run against synthetic calendars.
//
// Load a raw series and align it:
//
//	traffic, err := timeseries.LoadTrafficCSV("traffic.csv")
//	weather, err := timeseries.LoadWeatherCSV("weather.csv")
//	cal := timeseries.NewCalendar(holidays)
//	series := cal.Apply(timeseries.AlignWeather(traffic, weather))
package timeseries
