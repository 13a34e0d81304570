package indicators

import "stock-advisor/src/models"

// rollingMean returns the simple moving average at each index along with a
// flag reporting whether the window at that index is full.
func rollingMean(values []float64, period int) ([]float64, []bool) {
	means := make([]float64, len(values))
	full := make([]bool, len(values))

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}

		if i >= period-1 {
			means[i] = sum / float64(period)
			full[i] = true
		}
	}

	return means, full
}

// emaSeries computes an exponential moving average seeded with the first
// value, alpha = 2/(span+1).
func emaSeries(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}

	return out
}

// crossoverActions translates an above/below series into entry and exit tags:
// entry on the bar the fast line crosses above the slow line, exit on the bar
// it crosses back below.
func crossoverActions(above []bool) []models.SignalAction {
	actions := make([]models.SignalAction, len(above))

	for i := 1; i < len(above); i++ {
		if above[i] && !above[i-1] {
			actions[i] = models.SignalActionEntry
		} else if !above[i] && above[i-1] {
			actions[i] = models.SignalActionExit
		}
	}

	return actions
}
