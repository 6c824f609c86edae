package repair

import (
	"math"
	"sort"
	"time"

	"github.com/sartorproj/trafficast/timeseries"
)

// Dedup resolves duplicate timestamps by averaging every numeric column
// across the duplicate rows. The result is sorted by timestamp with each
// timestamp appearing exactly once. Missing values are ignored in the
// average; a field missing in all duplicates stays missing.
func Dedup(s *timeseries.Series) *timeseries.Series {
	type group struct {
		ts      time.Time
		traffic meanAcc
		holiday meanAcc
		precip  meanAcc
		snow    meanAcc
	}

	groups := make(map[int64]*group, s.Len())
	var order []int64
	for i, ts := range s.Timestamps {
		key := ts.Unix()
		g, ok := groups[key]
		if !ok {
			g = &group{ts: ts}
			groups[key] = g
			order = append(order, key)
		}
		g.traffic.add(s.Traffic[i])
		g.holiday.add(s.Holiday[i])
		g.precip.add(s.Precip[i])
		g.snow.add(s.Snow[i])
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	out := &timeseries.Series{
		Timestamps: make([]time.Time, 0, len(order)),
		Traffic:    make([]float64, 0, len(order)),
		Holiday:    make([]float64, 0, len(order)),
		Precip:     make([]float64, 0, len(order)),
		Snow:       make([]float64, 0, len(order)),
	}
	for _, key := range order {
		g := groups[key]
		out.Timestamps = append(out.Timestamps, g.ts)
		out.Traffic = append(out.Traffic, g.traffic.mean())
		out.Holiday = append(out.Holiday, g.holiday.mean())
		out.Precip = append(out.Precip, g.precip.mean())
		out.Snow = append(out.Snow, g.snow.mean())
	}
	return out
}

type meanAcc struct {
	sum   float64
	count int
}

func (a *meanAcc) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	a.sum += v
	a.count++
}

func (a *meanAcc) mean() float64 {
	if a.count == 0 {
		return math.NaN()
	}
	return a.sum / float64(a.count)
}

// FillHourly inserts a row for every missing hourly slot between the
// minimum and maximum timestamp. Inserted rows have all value columns
// missing, never zero. Requires a deduplicated series.
func FillHourly(s *timeseries.Series) *timeseries.Series {
	if s.Len() == 0 {
		return &timeseries.Series{}
	}

	start := s.Timestamps[0]
	end := s.Timestamps[s.Len()-1]
	n := int(end.Sub(start)/time.Hour) + 1

	out := &timeseries.Series{
		Timestamps: make([]time.Time, 0, n),
		Traffic:    make([]float64, 0, n),
		Holiday:    make([]float64, 0, n),
		Precip:     make([]float64, 0, n),
		Snow:       make([]float64, 0, n),
	}

	src := 0
	for ts := start; !ts.After(end); ts = ts.Add(time.Hour) {
		out.Timestamps = append(out.Timestamps, ts)
		if src < s.Len() && s.Timestamps[src].Equal(ts) {
			out.Traffic = append(out.Traffic, s.Traffic[src])
			out.Holiday = append(out.Holiday, s.Holiday[src])
			out.Precip = append(out.Precip, s.Precip[src])
			out.Snow = append(out.Snow, s.Snow[src])
			src++
		} else {
			out.Traffic = append(out.Traffic, math.NaN())
			out.Holiday = append(out.Holiday, math.NaN())
			out.Precip = append(out.Precip, math.NaN())
			out.Snow = append(out.Snow, math.NaN())
		}
	}
	return out
}

// NullZeroDays overwrites with missing the traffic of every calendar day
// whose observed hours sum to exactly zero. A day with literally no
// recorded traffic at any hour is far more likely a dead sensor than
// genuine zero demand. Days where every hour is already missing are left
// alone: missing is not zero. Returns the repaired series and the nulled
// dates.
func NullZeroDays(s *timeseries.Series) (*timeseries.Series, []time.Time) {
	type daily struct {
		sum      float64
		observed int
		indices  []int
	}

	days := make(map[string]*daily)
	var order []string
	for i, ts := range s.Timestamps {
		key := ts.Format("2006-01-02")
		d, ok := days[key]
		if !ok {
			d = &daily{}
			days[key] = d
			order = append(order, key)
		}
		d.indices = append(d.indices, i)
		if !math.IsNaN(s.Traffic[i]) {
			d.sum += s.Traffic[i]
			d.observed++
		}
	}

	out := s.Copy()
	var nulled []time.Time
	for _, key := range order {
		d := days[key]
		if d.observed == 0 || d.sum != 0 {
			continue
		}
		for _, i := range d.indices {
			out.Traffic[i] = math.NaN()
		}
		date, _ := time.Parse("2006-01-02", key)
		nulled = append(nulled, date)
	}
	return out, nulled
}

// Interpolate fills missing traffic, precipitation, and snow values by
// linear interpolation between the nearest non-missing neighbors. Values
// missing at the very start or end of the series have no neighbor on one
// side and remain missing. The holiday column is not interpolated; it is
// restamped from the calendar instead.
func Interpolate(s *timeseries.Series) *timeseries.Series {
	out := s.Copy()
	interpolateColumn(out.Traffic)
	interpolateColumn(out.Precip)
	interpolateColumn(out.Snow)
	return out
}

func interpolateColumn(values []float64) {
	n := len(values)
	i := 0
	for i < n {
		if !math.IsNaN(values[i]) {
			i++
			continue
		}

		// Find the gap [i, j) and its bounding neighbors.
		j := i
		for j < n && math.IsNaN(values[j]) {
			j++
		}
		if i == 0 || j == n {
			// Boundary gap: no neighbor on one side.
			i = j
			continue
		}

		left := values[i-1]
		right := values[j]
		span := float64(j - (i - 1))
		for k := i; k < j; k++ {
			frac := float64(k-(i-1)) / span
			values[k] = left + frac*(right-left)
		}
		i = j
	}
}

// Clean runs the full repair sequence: dedup, gap fill, holiday restamp,
// zero-day nulling, and interpolation. The calendar restamps holiday flags
// on inserted rows; pass nil to leave them missing. Returns the cleaned
// series and the zero days that were nulled.
func Clean(s *timeseries.Series, cal *timeseries.Calendar) (*timeseries.Series, []time.Time) {
	out := FillHourly(Dedup(s))
	if cal != nil {
		out = cal.Apply(out)
	}
	out, nulled := NullZeroDays(out)
	return Interpolate(out), nulled
}
