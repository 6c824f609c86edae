package arima

import (
	"errors"
	"fmt"

	"github.com/sartorproj/trafficast/stats"
)

// Selection holds the result of an automatic order search.
type Selection struct {
	Order           Order
	Model           *Model
	AICc            float64
	ModelsEvaluated int
}

// SelectOrder searches the (p, q) grid up to maxP and maxQ for the order
// with the lowest corrected AIC. The differencing order is chosen first by
// repeated KPSS tests. Orders whose fit fails are skipped.
func SelectOrder(values []float64, maxP, maxQ int) (*Selection, error) {
	if maxP < 0 || maxQ < 0 {
		return nil, errors.New("maxP and maxQ must be non-negative")
	}

	d := stats.NDiffs(values, 2)

	best := &Selection{AICc: 0}
	found := false
	for p := 0; p <= maxP; p++ {
		for q := 0; q <= maxQ; q++ {
			model := New(p, d, q)
			if err := model.Fit(values); err != nil {
				continue
			}
			best.ModelsEvaluated++
			if !found || model.IC.AICc < best.AICc {
				best.Order = model.Order
				best.Model = model
				best.AICc = model.IC.AICc
				found = true
			}
		}
	}

	if !found {
		return nil, fmt.Errorf("no ARIMA order up to (%d,%d,%d) could be fitted", maxP, d, maxQ)
	}
	return best, nil
}
